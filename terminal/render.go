package terminal

// renderer turns back-buffer changes into terminal output
type renderer struct {
	out  *outputBuffer
	caps *capCache

	// Last attribute pair sent to the terminal
	lastFg    Attribute
	lastBg    Attribute
	lastValid bool
}

// invalidate forgets the terminal's current attributes
func (r *renderer) invalidate() {
	r.lastValid = false
}

// present emits every differing cell of the dirty rows, commits them to the
// front buffer, moves the terminal cursor to the caret and flushes
func (r *renderer) present(g *cellGrid, caretX, caretY int) {
	for y := 0; y < g.height; y++ {
		if !g.dirty[y] {
			continue
		}
		r.renderRow(g, y)
		g.dirty[y] = false
	}

	if g.inBounds(caretX, caretY) {
		r.out.buf = appendCursorPos(r.out.buf, caretX, caretY)
	}
	r.out.flush()
}

// renderRow diffs one row. A run of differing cells gets a single cursor
// reposition; it is copied to the front buffer when the run ends.
func (r *renderer) renderRow(g *cellGrid, y int) {
	rowStart := y * g.width
	runStart := -1

	for x := 0; x < g.width; x++ {
		idx := rowStart + x
		if g.back[idx] == g.front[idx] {
			if runStart >= 0 {
				copy(g.front[rowStart+runStart:idx], g.back[rowStart+runStart:idx])
				runStart = -1
			}
			continue
		}

		if runStart < 0 {
			runStart = x
			r.out.buf = appendCursorPos(r.out.buf, x, y)
		}

		c := &g.back[idx]
		r.setAttrs(c.Fg, c.Bg)
		if c.Absent() {
			r.out.buf = append(r.out.buf, ' ')
		} else {
			r.out.write(c.content())
		}
	}

	if runStart >= 0 {
		copy(g.front[rowStart+runStart:rowStart+g.width], g.back[rowStart+runStart:rowStart+g.width])
	}
}

// setAttrs emits reset, styles and colours when the pair differs from the
// last one sent
func (r *renderer) setAttrs(fg, bg Attribute) {
	if r.lastValid && fg == r.lastFg && bg == r.lastBg {
		return
	}

	reset := r.caps.get(capResetAttrs)
	r.out.write(reset)

	style := (fg | bg).Style()
	if style&AttrBold != 0 {
		r.out.write(r.caps.get(capBold))
	}
	if style&AttrUnderline != 0 {
		r.out.write(r.caps.get(capUnderline))
	}
	if style&AttrBlink != 0 {
		r.out.write(r.caps.get(capBlink))
	}
	if style&AttrReverse != 0 {
		r.out.write(r.caps.get(capReverse))
	}

	// Without a reset sequence default colours must be selected explicitly
	if fg.Color() != ColorDefault || len(reset) == 0 {
		r.out.buf = appendColor(r.out.buf, fg, '3', r.caps.maxColors)
	}
	if bg.Color() != ColorDefault || len(reset) == 0 {
		r.out.buf = appendColor(r.out.buf, bg, '4', r.caps.maxColors)
	}

	r.lastFg = fg
	r.lastBg = bg
	r.lastValid = true
}
