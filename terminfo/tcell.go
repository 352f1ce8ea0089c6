package terminfo

import (
	tcellinfo "github.com/gdamore/tcell/v2/terminfo"
	_ "github.com/gdamore/tcell/v2/terminfo/base"
)

// LookupBuiltin builds a database from the description tcell carries for name
func LookupBuiltin(name string) (*Database, error) {
	ti, err := tcellinfo.LookupTerminfo(name)
	if err != nil {
		return nil, ioFailed("no built-in description for "+name, err)
	}
	return FromTcell(ti), nil
}

// FromTcell converts a tcell description into an initialized database.
// tcell only carries output capabilities, so the result has no key strings.
func FromTcell(ti *tcellinfo.Terminfo) *Database {
	flags := make([]bool, BackColorErase+1)
	flags[AutoRightMargin] = ti.AutoMargin

	numbers := make([]int16, MaxPairs+1)
	for i := range numbers {
		numbers[i] = NotSupported
	}
	if ti.Colors > 0 {
		numbers[MaxColors] = int16(min(ti.Colors, 0x7fff))
	}

	strs := make(map[int]string)
	for id, s := range map[int]string{
		ClearScreen:        ti.Clear,
		CursorAddress:      ti.SetCursor,
		CursorInvisible:    ti.HideCursor,
		CursorNormal:       ti.ShowCursor,
		EnterBlinkMode:     ti.Blink,
		EnterBoldMode:      ti.Bold,
		EnterCAMode:        ti.EnterCA,
		EnterDimMode:       ti.Dim,
		EnterReverseMode:   ti.Reverse,
		EnterUnderlineMode: ti.Underline,
		ExitAttributeMode:  ti.AttrOff,
		ExitCAMode:         ti.ExitCA,
		KeypadLocal:        ti.ExitKeypad,
		KeypadXmit:         ti.EnterKeypad,
	} {
		if s != "" {
			strs[id] = s
		}
	}

	names := append([]string{ti.Name}, ti.Aliases...)
	return Build(names, flags, numbers, strs)
}
