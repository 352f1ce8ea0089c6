package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearDirty(g *cellGrid) {
	for i := range g.dirty {
		g.dirty[i] = false
	}
}

// TestResize_BufferSizes verifies both buffers always hold width*height cells
func TestResize_BufferSizes(t *testing.T) {
	var g cellGrid
	for _, dim := range [][2]int{{80, 24}, {1, 1}, {0, 10}, {132, 43}, {40, 12}, {-3, 5}} {
		g.resize(dim[0], dim[1], true)
		w, h := max(dim[0], 0), max(dim[1], 0)
		assert.Len(t, g.front, w*h, "front %v", dim)
		assert.Len(t, g.back, w*h, "back %v", dim)
		assert.Len(t, g.dirty, h, "dirty %v", dim)
		assert.Equal(t, w, g.width)
		assert.Equal(t, h, g.height)
	}
}

// TestResize_RetainKeepsIntersection verifies shrinking with retention keeps
// the top-left content and growing without it resets every cell
func TestResize_RetainKeepsIntersection(t *testing.T) {
	var g cellGrid
	g.resize(80, 24, false)

	cellFor := func(x, y int) Cell {
		return NewCell(rune('A'+(x+y)%26), Palette(uint8(x)), Palette(uint8(y)))
	}
	for y := 0; y < 24; y++ {
		for x := 0; x < 80; x++ {
			g.put(x, y, cellFor(x, y))
		}
	}

	g.resize(40, 12, true)
	for y := 0; y < 12; y++ {
		for x := 0; x < 40; x++ {
			c, ok := g.cell(x, y)
			require.True(t, ok)
			require.Equal(t, cellFor(x, y), c, "cell %d,%d", x, y)
		}
	}
	for _, d := range g.dirty {
		assert.True(t, d, "resize marks every row dirty")
	}

	g.resize(80, 24, true)
	c, _ := g.cell(10, 5)
	assert.Equal(t, cellFor(10, 5), c)
	c, _ = g.cell(60, 20)
	assert.Equal(t, defaultCell, c, "newly exposed area is the default cell")

	g.resize(40, 12, false)
	for i := range g.back {
		require.Equal(t, defaultCell, g.back[i])
		require.Equal(t, defaultCell, g.front[i])
	}
}

// TestPut_OutOfBoundsHasNoEffect verifies clipping is silent
func TestPut_OutOfBoundsHasNoEffect(t *testing.T) {
	var g cellGrid
	g.resize(10, 5, false)
	clearDirty(&g)
	before := append([]Cell(nil), g.back...)

	c := NewCell('x', ColorRed, ColorDefault)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {10, 0}, {0, 5}, {100, 100}} {
		g.put(p[0], p[1], c)
	}
	assert.Equal(t, before, g.back)
	assert.False(t, g.anyDirty())

	_, ok := g.cell(10, 0)
	assert.False(t, ok)
}

// TestPut_DirtyOnlyOnChange verifies rows are marked only for real changes
func TestPut_DirtyOnlyOnChange(t *testing.T) {
	var g cellGrid
	g.resize(10, 5, false)
	clearDirty(&g)

	g.put(3, 2, defaultCell)
	assert.False(t, g.anyDirty(), "writing the same cell is not a change")

	g.put(3, 2, Cell{})
	assert.False(t, g.anyDirty(), "absent cells are skipped")

	g.put(3, 2, NewCell('q', ColorDefault, ColorDefault))
	assert.True(t, g.dirty[2])
	assert.False(t, g.dirty[1])
	assert.False(t, g.dirty[3])
}

// TestPutLineAndRect verifies line and rectangle fills clip to the grid
func TestPutLineAndRect(t *testing.T) {
	var g cellGrid
	g.resize(6, 4, false)
	c := NewCell('#', ColorGreen, ColorDefault)

	g.putLine(4, 1, 5, false, c)
	for x := 0; x < 6; x++ {
		got, _ := g.cell(x, 1)
		if x >= 4 {
			assert.Equal(t, c, got, "x=%d", x)
		} else {
			assert.Equal(t, defaultCell, got, "x=%d", x)
		}
	}

	g.putLine(0, 2, 10, true, c)
	for y := 0; y < 4; y++ {
		got, _ := g.cell(0, y)
		if y >= 2 {
			assert.Equal(t, c, got, "y=%d", y)
		} else {
			assert.Equal(t, defaultCell, got, "y=%d", y)
		}
	}

	g.resize(6, 4, false)
	g.putRect(-1, -1, 3, 3, c)
	count := 0
	for i := range g.back {
		if g.back[i] == c {
			count++
		}
	}
	assert.Equal(t, 4, count, "only the in-bounds 2x2 corner is filled")

	g.putSequence(4, 3, []Cell{NewCell('a', 0, 0), NewCell('b', 0, 0), NewCell('c', 0, 0)})
	got, _ := g.cell(5, 3)
	assert.Equal(t, 'b', got.Rune())
}

// TestInvalidateFront verifies every row is redrawn after invalidation
func TestInvalidateFront(t *testing.T) {
	var g cellGrid
	g.resize(4, 3, false)
	clearDirty(&g)

	g.invalidateFront()
	for i := range g.front {
		assert.True(t, g.front[i].Absent())
	}
	for _, d := range g.dirty {
		assert.True(t, d)
	}
}
