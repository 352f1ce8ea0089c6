package terminal

import (
	"log/slog"

	"github.com/lixenwraith/cellterm/terminfo"
)

// capID names the control capabilities the engine emits
type capID uint8

const (
	capClearScreen capID = iota
	capShowCaret
	capHideCaret
	capEnterAltScreen
	capExitAltScreen
	capResetAttrs
	capBold
	capUnderline
	capBlink
	capReverse
	capKeypadLocal
	capKeypadXmit
	capCount
)

// capSource maps each control capability to its terminfo string ordinal
var capSource = [capCount]struct {
	index int
	name  string
}{
	capClearScreen:    {terminfo.ClearScreen, "clear"},
	capShowCaret:      {terminfo.CursorNormal, "cnorm"},
	capHideCaret:      {terminfo.CursorInvisible, "civis"},
	capEnterAltScreen: {terminfo.EnterCAMode, "smcup"},
	capExitAltScreen:  {terminfo.ExitCAMode, "rmcup"},
	capResetAttrs:     {terminfo.ExitAttributeMode, "sgr0"},
	capBold:           {terminfo.EnterBoldMode, "bold"},
	capUnderline:      {terminfo.EnterUnderlineMode, "smul"},
	capBlink:          {terminfo.EnterBlinkMode, "blink"},
	capReverse:        {terminfo.EnterReverseMode, "rev"},
	capKeypadLocal:    {terminfo.KeypadLocal, "rmkx"},
	capKeypadXmit:     {terminfo.KeypadXmit, "smkx"},
}

// defaultMaxColors applies when the database has no max_colors entry
const defaultMaxColors = 8

// capCache holds ready-to-emit control sequences. An empty sequence makes
// emitting that capability a no-op.
type capCache struct {
	seq       [capCount][]byte
	maxColors int
}

// buildCapCache resolves every control capability from db
func buildCapCache(db *terminfo.Database, log *slog.Logger) capCache {
	var c capCache
	for id, src := range capSource {
		s, ok := db.String(src.index)
		if !ok {
			log.Debug("terminal capability missing, emitting nothing", "cap", src.name)
			continue
		}
		c.seq[id] = []byte(s)
	}

	c.maxColors = int(db.Number(terminfo.MaxColors))
	if c.maxColors == int(terminfo.NotSupported) || c.maxColors <= 0 {
		c.maxColors = defaultMaxColors
	}
	return c
}

func (c *capCache) get(id capID) []byte {
	return c.seq[id]
}
