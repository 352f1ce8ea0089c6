// @focus: #terminal { ansi }
package terminal

// Fixed sequences that do not come from terminfo
var (
	csi        = []byte("\x1b[")
	sgrDefFg   = []byte("\x1b[39m")
	sgrDefBg   = []byte("\x1b[49m")
	sgrFg256   = []byte("\x1b[38;5;") // followed by N m
	sgrBg256   = []byte("\x1b[48;5;") // followed by N m
	ansiSGR0   = []byte("\x1b[0m")
	ansiShow   = []byte("\x1b[?25h")
	ansiAltOff = []byte("\x1b[?1049l")
	ansiRIS    = []byte("\x1bc") // Reset to Initial State (emergency)
)

// appendInt appends a non-negative decimal without allocation
// Optimized for terminal values (0-255 common, 0-999 typical max)
func appendInt(b []byte, n int) []byte {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		return append(b, byte(n)+'0')
	}
	if n < 100 {
		return append(b, byte(n/10)+'0', byte(n%10)+'0')
	}
	if n < 1000 {
		return append(b, byte(n/100)+'0', byte(n/10%10)+'0', byte(n%10)+'0')
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte(n%10) + '0'
		n /= 10
	}
	return append(b, buf[i:]...)
}

// appendCursorPos appends ESC[row;colH for 0-indexed x, y
func appendCursorPos(b []byte, x, y int) []byte {
	b = append(b, csi...)
	b = appendInt(b, y+1)
	b = append(b, ';')
	b = appendInt(b, x+1)
	return append(b, 'H')
}

// appendColor appends the SGR selecting a colour word's colour.
// base is '3' for foreground, '4' for background.
func appendColor(b []byte, color Attribute, base byte, maxColors int) []byte {
	color &= colorMask
	if color == ColorDefault {
		if base == '3' {
			return append(b, sgrDefFg...)
		}
		return append(b, sgrDefBg...)
	}
	n := int(color) - 1
	if n >= 8 {
		if maxColors >= 256 {
			if base == '3' {
				b = append(b, sgrFg256...)
			} else {
				b = append(b, sgrBg256...)
			}
			b = appendInt(b, n)
			return append(b, 'm')
		}
		n %= 8
	}
	b = append(b, csi...)
	return append(b, base, byte(n)+'0', 'm')
}
