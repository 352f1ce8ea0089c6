package terminfo

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// systemDirs are searched after the user and environment locations
var systemDirs = []string{"/etc/terminfo", "/lib/terminfo", "/usr/share/terminfo"}

// defaultDir stands in for empty TERMINFO_DIRS entries
const defaultDir = "/usr/share/terminfo"

// searchDirs lists candidate database roots in priority order
func searchDirs() []string {
	var dirs []string
	if d := os.Getenv("TERMINFO"); d != "" {
		dirs = append(dirs, d)
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, filepath.Join(home, ".terminfo"))
	}
	if list := os.Getenv("TERMINFO_DIRS"); list != "" {
		for _, d := range strings.Split(list, ":") {
			if d == "" {
				d = defaultDir
			}
			dirs = append(dirs, d)
		}
	}
	return append(dirs, systemDirs...)
}

// Locate returns the path of the compiled description for name.
// Both the letter (x/xterm) and hex (78/xterm) directory layouts are tried.
func Locate(name string) (string, bool) {
	if name == "" || name == "." || name == ".." || strings.ContainsRune(name, '/') {
		return "", false
	}
	letter := name[:1]
	hex := fmt.Sprintf("%02x", name[0])
	for _, dir := range searchDirs() {
		for _, sub := range []string{letter, hex} {
			p := filepath.Join(dir, sub, name)
			if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
				return p, true
			}
		}
	}
	return "", false
}

// LoadFile reads a compiled description from path
func LoadFile(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioFailed("opening "+path, err)
	}
	defer f.Close()

	db := New()
	if err := db.Deserialize(bufio.NewReader(f)); err != nil {
		return nil, err
	}
	return db, nil
}

// Load resolves name to a database. A compiled file found by Locate wins;
// when none exists or it cannot be parsed, the built-in description from
// tcell is used. The file error is reported if neither source succeeds.
func Load(name string) (*Database, error) {
	if name == "" {
		return nil, ioFailed("terminal name is empty", nil)
	}

	var fileErr error
	if path, ok := Locate(name); ok {
		db, err := LoadFile(path)
		if err == nil {
			return db, nil
		}
		fileErr = err
	}

	db, err := LookupBuiltin(name)
	if err == nil {
		return db, nil
	}
	if fileErr != nil {
		return nil, fileErr
	}
	return nil, err
}
