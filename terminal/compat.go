package terminal

import (
	"github.com/gdamore/tcell/v2"
)

// AttributesFromTcell converts a tcell style into foreground and background
// words. RGB colours are mapped to the nearest xterm palette entry.
func AttributesFromTcell(st tcell.Style) (fg, bg Attribute) {
	tfg, tbg, mask := st.Decompose()
	fg = colorFromTcell(tfg)
	bg = colorFromTcell(tbg)

	var style Attribute
	if mask&tcell.AttrBold != 0 {
		style |= AttrBold
	}
	if mask&tcell.AttrUnderline != 0 {
		style |= AttrUnderline
	}
	if mask&tcell.AttrBlink != 0 {
		style |= AttrBlink
	}
	if mask&tcell.AttrReverse != 0 {
		style |= AttrReverse
	}
	return fg | style, bg
}

// CellFromTcell builds a cell from a rune and tcell style
func CellFromTcell(r rune, st tcell.Style) Cell {
	fg, bg := AttributesFromTcell(st)
	return NewCell(r, fg, bg)
}

// StyleToTcell is the inverse of AttributesFromTcell for palette colours
func StyleToTcell(fg, bg Attribute) tcell.Style {
	st := tcell.StyleDefault.
		Foreground(colorToTcell(fg)).
		Background(colorToTcell(bg))

	style := (fg | bg).Style()
	if style&AttrBold != 0 {
		st = st.Bold(true)
	}
	if style&AttrUnderline != 0 {
		st = st.Underline(true)
	}
	if style&AttrBlink != 0 {
		st = st.Blink(true)
	}
	if style&AttrReverse != 0 {
		st = st.Reverse(true)
	}
	return st
}

func colorFromTcell(c tcell.Color) Attribute {
	if c == tcell.ColorDefault || !c.Valid() {
		return ColorDefault
	}
	if c&tcell.ColorIsRGB != 0 {
		r, g, b := c.RGB()
		return Palette(rgbTo256(uint8(r), uint8(g), uint8(b)))
	}
	return Palette(uint8(c - tcell.ColorValid))
}

func colorToTcell(a Attribute) tcell.Color {
	n := a.Color()
	if n == ColorDefault {
		return tcell.ColorDefault
	}
	return tcell.PaletteColor(int(n) - 1)
}
