package terminal

import (
	"unicode/utf8"
)

// Attribute is a 16-bit colour and style word.
// The low byte selects the colour: 0 is the terminal default, 1..8 the
// eight base colours, 9..255 the extended palette (index-1).
type Attribute uint16

const (
	ColorDefault Attribute = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

// Style bits, shared by foreground and background words
const (
	AttrBold      Attribute = 1 << 8
	AttrUnderline Attribute = 1 << 9
	AttrBlink     Attribute = 1 << 10
	AttrReverse   Attribute = 1 << 11
)

const (
	colorMask Attribute = 0x00ff
	styleMask           = AttrBold | AttrUnderline | AttrBlink | AttrReverse
)

// Palette returns the colour word for xterm palette index n.
// Index 255 is not representable and clamps to 254.
func Palette(n uint8) Attribute {
	if n == 255 {
		n = 254
	}
	return Attribute(n) + 1
}

// Color returns the colour part, 0 meaning default
func (a Attribute) Color() Attribute {
	return a & colorMask
}

// Style returns the style bits
func (a Attribute) Style() Attribute {
	return a & styleMask
}

// Cell is one screen position: up to four UTF-8 code units and two
// attribute words. Cells are compared with ==.
type Cell struct {
	Ch [utf8.UTFMax]byte
	Fg Attribute
	Bg Attribute
}

// defaultCell fills cleared and newly exposed grid area
var defaultCell = NewCell(' ', ColorDefault, ColorDefault)

// NewCell encodes r into a cell. Invalid runes become U+FFFD.
func NewCell(r rune, fg, bg Attribute) Cell {
	c := Cell{Fg: fg, Bg: bg}
	utf8.EncodeRune(c.Ch[:], r)
	return c
}

// Absent reports whether the cell has no content; draw operations skip it
func (c Cell) Absent() bool {
	return c.Ch[0] == 0
}

// Rune decodes the cell content
func (c Cell) Rune() rune {
	if c.Absent() {
		return 0
	}
	r, _ := decodeRune(c.content())
	return r
}

// content returns the encoded code units
func (c *Cell) content() []byte {
	n := utf8SeqLen(c.Ch[0])
	if n == 0 {
		n = 1
	}
	return c.Ch[:n]
}
