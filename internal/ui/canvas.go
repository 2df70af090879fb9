package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cellCanvas is a rune grid with per-cell colors, rendered row by row.
type cellCanvas struct {
	width, height int
	cells         [][]rune
	colors        [][]lipgloss.Color
}

func newCanvas(width, height int) *cellCanvas {
	c := &cellCanvas{
		width:  width,
		height: height,
		cells:  make([][]rune, height),
		colors: make([][]lipgloss.Color, height),
	}
	for y := 0; y < height; y++ {
		c.cells[y] = make([]rune, width)
		c.colors[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			c.cells[y][x] = ' '
			c.colors[y][x] = "236"
		}
	}
	return c
}

func (c *cellCanvas) in(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

func (c *cellCanvas) set(x, y int, r rune, color lipgloss.Color) {
	if c.in(x, y) {
		c.cells[y][x] = r
		c.colors[y][x] = color
	}
}

// writeText draws a label left to right, clipping at the edges. Existing
// non-space glyphs are not overwritten, so stars win over labels.
func (c *cellCanvas) writeText(x, y int, text string, color lipgloss.Color) {
	for i, r := range []rune(text) {
		cx := x + i
		if !c.in(cx, y) {
			continue
		}
		if c.cells[y][cx] != ' ' {
			continue
		}
		c.cells[y][cx] = r
		c.colors[y][cx] = color
	}
}

func (c *cellCanvas) render() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			style := lipgloss.NewStyle().Foreground(c.colors[y][x])
			b.WriteString(style.Render(string(c.cells[y][x])))
		}
		if y < c.height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// drawLine rasterizes a segment with Bresenham stepping, skipping cells that
// already hold a star glyph.
func drawLine(c *cellCanvas, x0, y0, x1, y1 int, r rune, color lipgloss.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		if c.in(x0, y0) && c.cells[y0][x0] == ' ' {
			c.set(x0, y0, r, color)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
