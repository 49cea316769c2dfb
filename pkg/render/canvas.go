package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Canvas is a character grid with a depth buffer. Each cell holds at most
// one glyph; nearer glyphs win.
type Canvas struct {
	cols, rows int
	cells      []cell
}

type cell struct {
	r     rune
	depth float64
	color string
}

// NewCanvas creates an empty cols x rows canvas.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{}
	c.Resize(cols, rows)
	return c
}

// Resize changes the canvas size and clears it.
func (c *Canvas) Resize(cols, rows int) {
	c.cols, c.rows = max(cols, 1), max(rows, 1)
	c.cells = make([]cell, c.cols*c.rows)
	c.Clear()
}

// Size returns the canvas dimensions in cells.
func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

// Clear empties every cell.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = cell{depth: math.Inf(1)}
	}
}

// Set writes r at (col, row) unless a nearer rune is already there.
// Out-of-range positions are ignored.
func (c *Canvas) Set(col, row int, r rune, depth float64, color colorful.Color) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	i := row*c.cols + col
	if depth >= c.cells[i].depth {
		return
	}
	c.cells[i] = cell{r: r, depth: depth, color: color.Hex()}
}

// At returns the rune at (col, row), or 0 for an empty cell.
func (c *Canvas) At(col, row int) rune {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return 0
	}
	return c.cells[row*c.cols+col].r
}

// Draw clears the canvas and plots every glyph of f at its projected
// origin, scaled from frame pixels to cells.
func (c *Canvas) Draw(f *Frame, fg, bg colorful.Color, fog float64) {
	c.Clear()
	if f == nil || f.Width <= 0 || f.Height <= 0 {
		return
	}
	near, far := f.DepthRange()
	sx := float64(c.cols) / float64(f.Width)
	sy := float64(c.rows) / float64(f.Height)
	for _, g := range f.Glyphs {
		col := int(math.Floor(g.Screen.X * sx))
		row := int(math.Floor(g.Screen.Y * sy))
		c.Set(col, row, g.Rune, g.Depth, Shade(g, fg, bg, fog, near, far))
	}
}

// Plain returns the canvas as text without colour.
func (c *Canvas) Plain() string {
	var b strings.Builder
	for row := range c.rows {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := range c.cols {
			r := c.cells[row*c.cols+col].r
			if r == 0 {
				r = ' '
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// String renders the canvas with each run of same-coloured cells styled by
// lipgloss.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := range c.rows {
		if row > 0 {
			b.WriteByte('\n')
		}
		line := c.cells[row*c.cols : (row+1)*c.cols]
		for start := 0; start < len(line); {
			end := start + 1
			for end < len(line) && line[end].color == line[start].color {
				end++
			}
			b.WriteString(renderRun(line[start:end]))
			start = end
		}
	}
	return b.String()
}

func renderRun(run []cell) string {
	var s strings.Builder
	for _, cl := range run {
		if cl.r == 0 {
			s.WriteByte(' ')
			continue
		}
		s.WriteRune(cl.r)
	}
	if run[0].color == "" {
		return s.String()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(run[0].color)).Render(s.String())
}
