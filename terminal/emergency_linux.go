//go:build linux

package terminal

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Close() cannot be called normally.
// It needs no Session or database, so it writes fixed xterm sequences
// (show caret, leave alternate screen, reset attributes, full reset) that
// may not match the loaded description.
func EmergencyReset(w io.Writer) {
	w.Write(ansiShow)
	w.Write(ansiAltOff)
	w.Write(ansiSGR0)
	w.Write(ansiRIS)

	// Flush if it's a file
	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}

// resetTerminalMode attempts to restore terminal to cooked mode
// Best-effort for crash recovery; errors ignored
func resetTerminalMode() {
	// Try to restore via /dev/tty (works even if stdin redirected)
	if tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0); err == nil {
		defer tty.Close()
		fd := int(tty.Fd())
		if termios, err := unix.IoctlGetTermios(fd, unix.TCGETS); err == nil {
			termios.Lflag |= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
			termios.Iflag |= unix.ICRNL
			termios.Oflag |= unix.OPOST
			termios.Cc[unix.VMIN] = 1
			termios.Cc[unix.VTIME] = 0
			unix.IoctlSetTermios(fd, unix.TCSETS, termios)
		}
	}
}
