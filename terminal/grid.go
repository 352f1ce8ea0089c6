package terminal

// cellGrid is the front (presented) and back (pending) screen copy.
// Both are row-major: cells[y*width + x].
type cellGrid struct {
	width  int
	height int
	front  []Cell
	back   []Cell
	dirty  []bool
}

// resize changes dimensions. With retain, the top-left intersection of the
// old content is kept in both buffers; everything else is the default cell.
func (g *cellGrid) resize(width, height int, retain bool) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	size := width * height
	front := make([]Cell, size)
	back := make([]Cell, size)
	fill(front, defaultCell)
	fill(back, defaultCell)

	if retain {
		cols := min(width, g.width)
		rows := min(height, g.height)
		for y := 0; y < rows; y++ {
			copy(front[y*width:y*width+cols], g.front[y*g.width:y*g.width+cols])
			copy(back[y*width:y*width+cols], g.back[y*g.width:y*g.width+cols])
		}
	}

	g.width = width
	g.height = height
	g.front = front
	g.back = back
	g.dirty = make([]bool, height)
	g.markAllDirty()
}

func fill(cells []Cell, c Cell) {
	for i := range cells {
		cells[i] = c
	}
}

func (g *cellGrid) markAllDirty() {
	for i := range g.dirty {
		g.dirty[i] = true
	}
}

func (g *cellGrid) anyDirty() bool {
	for _, d := range g.dirty {
		if d {
			return true
		}
	}
	return false
}

func (g *cellGrid) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// put writes one back-buffer cell, marking the row only on change
func (g *cellGrid) put(x, y int, c Cell) {
	if c.Absent() || !g.inBounds(x, y) {
		return
	}
	idx := y*g.width + x
	if g.back[idx] == c {
		return
	}
	g.back[idx] = c
	g.dirty[y] = true
}

func (g *cellGrid) putSequence(x, y int, cells []Cell) {
	for i := range cells {
		g.put(x+i, y, cells[i])
	}
}

func (g *cellGrid) putLine(x, y, length int, vertical bool, c Cell) {
	for i := 0; i < length; i++ {
		if vertical {
			g.put(x, y+i, c)
		} else {
			g.put(x+i, y, c)
		}
	}
}

func (g *cellGrid) putRect(x, y, w, h int, c Cell) {
	for row := 0; row < h; row++ {
		g.putLine(x, y+row, w, false, c)
	}
}

// cell returns the back-buffer cell at x, y
func (g *cellGrid) cell(x, y int) (Cell, bool) {
	if !g.inBounds(x, y) {
		return Cell{}, false
	}
	return g.back[y*g.width+x], true
}

// invalidateFront forgets what the terminal shows so every cell redraws
func (g *cellGrid) invalidateFront() {
	fill(g.front, Cell{})
	g.markAllDirty()
}

// release drops both buffers
func (g *cellGrid) release() {
	*g = cellGrid{}
}
