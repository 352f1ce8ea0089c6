package terminal

import (
	"bytes"
	"log/slog"

	"github.com/lixenwraith/cellterm/terminfo"
)

// xtermStrings is a trimmed xterm description used across tests
var xtermStrings = map[int]string{
	terminfo.ClearScreen:        "\x1b[H\x1b[2J",
	terminfo.CursorNormal:       "\x1b[?12l\x1b[?25h",
	terminfo.CursorInvisible:    "\x1b[?25l",
	terminfo.EnterCAMode:        "\x1b[?1049h",
	terminfo.ExitCAMode:         "\x1b[?1049l",
	terminfo.ExitAttributeMode:  "\x1b[0m",
	terminfo.EnterBoldMode:      "\x1b[1m",
	terminfo.EnterUnderlineMode: "\x1b[4m",
	terminfo.EnterBlinkMode:     "\x1b[5m",
	terminfo.EnterReverseMode:   "\x1b[7m",
	terminfo.KeypadLocal:        "\x1b[?1l\x1b>",
	terminfo.KeypadXmit:         "\x1b[?1h\x1b=",

	terminfo.KeyF1:        "\x1bOP",
	terminfo.KeyF2:        "\x1bOQ",
	terminfo.KeyF3:        "\x1bOR",
	terminfo.KeyF4:        "\x1bOS",
	terminfo.KeyF5:        "\x1b[15~",
	terminfo.KeyF6:        "\x1b[17~",
	terminfo.KeyF7:        "\x1b[18~",
	terminfo.KeyF8:        "\x1b[19~",
	terminfo.KeyF9:        "\x1b[20~",
	terminfo.KeyF10:       "\x1b[21~",
	terminfo.KeyF11:       "\x1b[23~",
	terminfo.KeyF12:       "\x1b[24~",
	terminfo.KeyIC:        "\x1b[2~",
	terminfo.KeyDC:        "\x1b[3~",
	terminfo.KeyHome:      "\x1bOH",
	terminfo.KeyEnd:       "\x1bOF",
	terminfo.KeyPPage:     "\x1b[5~",
	terminfo.KeyNPage:     "\x1b[6~",
	terminfo.KeyUp:        "\x1bOA",
	terminfo.KeyDown:      "\x1bOB",
	terminfo.KeyLeft:      "\x1bOD",
	terminfo.KeyRight:     "\x1bOC",
	terminfo.KeyBackspace: "\x7f",
	terminfo.KeyBTab:      "\x1b[Z",
}

// testDatabase builds an initialized database with the given strings
func testDatabase(maxColors int16, strs map[int]string) *terminfo.Database {
	numbers := make([]int16, terminfo.MaxPairs+1)
	for i := range numbers {
		numbers[i] = terminfo.NotSupported
	}
	numbers[terminfo.Columns] = 80
	numbers[terminfo.Lines] = 24
	numbers[terminfo.MaxColors] = maxColors
	return terminfo.Build([]string{"xterm-test"}, []bool{false, true}, numbers, strs)
}

// withStrings copies base and applies overrides; an empty override
// value removes the entry
func withStrings(base map[int]string, overrides map[int]string) map[int]string {
	out := make(map[int]string, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		if v == "" {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// writeStep scripts one Write call: at most max bytes are accepted and err
// is returned alongside
type writeStep struct {
	max int
	err error
}

// scriptedWriter plays steps in order, then accepts everything
type scriptedWriter struct {
	steps []writeStep
	got   bytes.Buffer
	calls int
}

func (w *scriptedWriter) Write(p []byte) (int, error) {
	w.calls++
	if len(w.steps) == 0 {
		w.got.Write(p)
		return len(p), nil
	}
	st := w.steps[0]
	w.steps = w.steps[1:]
	n := min(st.max, len(p))
	w.got.Write(p[:n])
	return n, st.err
}

// takeOutput returns and clears everything written so far
func (w *scriptedWriter) takeOutput() string {
	s := w.got.String()
	w.got.Reset()
	return s
}
