package terminfo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

const (
	// Magic identifies the legacy compiled format with 16-bit numbers
	Magic = 0x011a

	// MaxNamesSize bounds the terminal names section
	MaxNamesSize = 128

	// NotSupported is returned by Number for absent numeric capabilities
	NotSupported int16 = -1

	// absentOffset marks a string capability the terminal lacks
	absentOffset = 0xffff

	// headerSize is six little-endian uint16 words
	headerSize = 12
)

// header is the fixed prefix of a compiled description
type header struct {
	magic        uint16
	namesSize    uint16
	flagCount    uint16
	numberCount  uint16
	offsetCount  uint16
	strTableSize uint16
}

// Database holds the capability tables of a single terminal type
type Database struct {
	initialized bool
	names       []string
	flags       []bool
	numbers     []int16
	strs        map[int]string
}

// New returns an empty, uninitialized database
func New() *Database {
	return &Database{}
}

// Initialized reports whether a description was loaded successfully
func (db *Database) Initialized() bool {
	return db != nil && db.initialized
}

// Names returns the terminal name aliases, primary name first
func (db *Database) Names() []string {
	return db.names
}

// Flag returns a boolean capability, false when id is outside the table
func (db *Database) Flag(id int) bool {
	if id < 0 || id >= len(db.flags) {
		return false
	}
	return db.flags[id]
}

// Number returns a numeric capability or NotSupported
func (db *Database) Number(id int) int16 {
	if id < 0 || id >= len(db.numbers) {
		return NotSupported
	}
	return db.numbers[id]
}

// String returns a string capability and whether the terminal defines it
func (db *Database) String(id int) (string, bool) {
	s, ok := db.strs[id]
	return s, ok
}

// reset drops all held state
func (db *Database) reset() {
	db.initialized = false
	db.names = nil
	db.flags = nil
	db.numbers = nil
	db.strs = nil
}

// Deserialize replaces the database content with the description read from r.
// On failure the database is left uninitialized and empty.
func (db *Database) Deserialize(r io.Reader) error {
	db.reset()

	var raw [headerSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return ioFailed("reading header", err)
	}
	h := header{
		magic:        binary.LittleEndian.Uint16(raw[0:2]),
		namesSize:    binary.LittleEndian.Uint16(raw[2:4]),
		flagCount:    binary.LittleEndian.Uint16(raw[4:6]),
		numberCount:  binary.LittleEndian.Uint16(raw[6:8]),
		offsetCount:  binary.LittleEndian.Uint16(raw[8:10]),
		strTableSize: binary.LittleEndian.Uint16(raw[10:12]),
	}

	if h.magic != Magic {
		return malformed(fmt.Sprintf("bad magic 0x%04x", h.magic))
	}
	if h.namesSize > MaxNamesSize {
		return malformed(fmt.Sprintf("names section of %d bytes exceeds %d", h.namesSize, MaxNamesSize))
	}

	namesBlob := make([]byte, h.namesSize)
	if _, err := io.ReadFull(r, namesBlob); err != nil {
		return ioFailed("reading names", err)
	}
	names := splitNames(namesBlob)

	flagBytes := make([]byte, h.flagCount)
	if _, err := io.ReadFull(r, flagBytes); err != nil {
		return ioFailed("reading flags", err)
	}
	flags := make([]bool, len(flagBytes))
	for i, b := range flagBytes {
		flags[i] = b == 1
	}

	// Numbers start on an even offset
	if (int(h.namesSize)+int(h.flagCount))%2 == 1 {
		var pad [1]byte
		if _, err := io.ReadFull(r, pad[:]); err != nil {
			return ioFailed("reading alignment pad", err)
		}
	}

	numBytes := make([]byte, 2*int(h.numberCount))
	if _, err := io.ReadFull(r, numBytes); err != nil {
		return ioFailed("reading numbers", err)
	}
	numbers := make([]int16, h.numberCount)
	for i := range numbers {
		numbers[i] = int16(binary.LittleEndian.Uint16(numBytes[2*i:]))
	}

	offBytes := make([]byte, 2*int(h.offsetCount))
	if _, err := io.ReadFull(r, offBytes); err != nil {
		return ioFailed("reading string offsets", err)
	}

	table := make([]byte, h.strTableSize)
	if _, err := io.ReadFull(r, table); err != nil {
		return ioFailed("reading string table", err)
	}

	strs := make(map[int]string)
	for i := 0; i < int(h.offsetCount); i++ {
		off := binary.LittleEndian.Uint16(offBytes[2*i:])
		if off == absentOffset || off&0x8000 != 0 {
			continue
		}
		if int(off) >= len(table) {
			return malformed(fmt.Sprintf("string %d offset %d outside table of %d bytes", i, off, len(table)))
		}
		end := bytes.IndexByte(table[off:], 0)
		if end < 0 {
			return malformed(fmt.Sprintf("string %d at offset %d is not terminated", i, off))
		}
		strs[i] = string(table[int(off) : int(off)+end])
	}

	db.names = names
	db.flags = flags
	db.numbers = numbers
	db.strs = strs
	db.initialized = true
	return nil
}

// splitNames parses the '|'-delimited alias list
func splitNames(blob []byte) []string {
	s := strings.TrimRight(string(blob), "\x00")
	var names []string
	for _, part := range strings.Split(s, "|") {
		if part == "" {
			continue
		}
		names = append(names, part)
	}
	return names
}

// Build returns an initialized database from explicit tables.
// Numbers use NotSupported for absent entries.
func Build(names []string, flags []bool, numbers []int16, strs map[int]string) *Database {
	db := &Database{
		initialized: true,
		names:       append([]string(nil), names...),
		flags:       append([]bool(nil), flags...),
		numbers:     append([]int16(nil), numbers...),
		strs:        make(map[int]string, len(strs)),
	}
	for id, s := range strs {
		if id >= 0 {
			db.strs[id] = s
		}
	}
	return db
}

// Serialize writes the database in the legacy compiled format
func (db *Database) Serialize(w io.Writer) error {
	if !db.Initialized() {
		return malformed("database not initialized")
	}

	names := []byte(strings.Join(db.names, "|") + "\x00")
	if len(names) > MaxNamesSize {
		return malformed(fmt.Sprintf("names section of %d bytes exceeds %d", len(names), MaxNamesSize))
	}

	offsetCount := 0
	for id := range db.strs {
		if id+1 > offsetCount {
			offsetCount = id + 1
		}
	}
	offsets := make([]uint16, offsetCount)
	for i := range offsets {
		offsets[i] = absentOffset
	}
	var table []byte
	for id := 0; id < offsetCount; id++ {
		s, ok := db.strs[id]
		if !ok {
			continue
		}
		if len(table)+len(s)+1 > 0x7fff {
			return malformed("string table exceeds 32767 bytes")
		}
		offsets[id] = uint16(len(table))
		table = append(table, s...)
		table = append(table, 0)
	}

	out := make([]byte, 0, headerSize+len(names)+len(db.flags)+1+2*len(db.numbers)+2*offsetCount+len(table))
	out = binary.LittleEndian.AppendUint16(out, Magic)
	out = binary.LittleEndian.AppendUint16(out, uint16(len(names)))
	out = binary.LittleEndian.AppendUint16(out, uint16(len(db.flags)))
	out = binary.LittleEndian.AppendUint16(out, uint16(len(db.numbers)))
	out = binary.LittleEndian.AppendUint16(out, uint16(offsetCount))
	out = binary.LittleEndian.AppendUint16(out, uint16(len(table)))
	out = append(out, names...)
	for _, f := range db.flags {
		if f {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
	}
	if (len(names)+len(db.flags))%2 == 1 {
		out = append(out, 0)
	}
	for _, n := range db.numbers {
		out = binary.LittleEndian.AppendUint16(out, uint16(n))
	}
	for _, o := range offsets {
		out = binary.LittleEndian.AppendUint16(out, o)
	}
	out = append(out, table...)

	if _, err := w.Write(out); err != nil {
		return ioFailed("writing description", err)
	}
	return nil
}
