package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/keygraph/pkg/graph"
	"github.com/dd0wney/keygraph/pkg/layout"
)

// Braille cells pack a 2x4 dot grid into one rune, so the drawing
// resolution is twice the columns and four times the rows.
const brailleBase = 0x2800

// brailleBits maps a dot inside one cell to its bit, indexed [dy][dx]
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const (
	minCanvasCols = 20
	minCanvasRows = 8
)

// canvas rasterizes node positions and links into terminal cells. Braille
// mode plots sub-cell dots; ASCII mode uses one glyph per cell.
type canvas struct {
	cols  int
	rows  int
	ascii bool

	dots  [][]uint8
	marks [][]rune
	style [][]*lipgloss.Style
}

func newCanvas(cols, rows int, ascii bool) *canvas {
	c := &canvas{cols: cols, rows: rows, ascii: ascii}
	c.dots = make([][]uint8, rows)
	c.marks = make([][]rune, rows)
	c.style = make([][]*lipgloss.Style, rows)
	for y := 0; y < rows; y++ {
		c.dots[y] = make([]uint8, cols)
		c.marks[y] = make([]rune, cols)
		c.style[y] = make([]*lipgloss.Style, cols)
	}
	return c
}

func (c *canvas) dotCols() int {
	if c.ascii {
		return c.cols
	}
	return c.cols * 2
}

func (c *canvas) dotRows() int {
	if c.ascii {
		return c.rows
	}
	return c.rows * 4
}

// project maps layout coordinates into dot space, clamping to the border.
// Non-finite positions are reported as not drawable.
func (c *canvas) project(x, y, width, height float64) (int, int, bool) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return 0, 0, false
	}
	if width <= 0 || height <= 0 {
		return c.dotCols() / 2, c.dotRows() / 2, true
	}
	px := int(math.Round(x / width * float64(c.dotCols()-1)))
	py := int(math.Round(y / height * float64(c.dotRows()-1)))
	return clampInt(px, 0, c.dotCols()-1), clampInt(py, 0, c.dotRows()-1), true
}

func (c *canvas) cell(px, py int) (int, int, uint8) {
	if c.ascii {
		return px, py, 0
	}
	return px / 2, py / 4, brailleBits[py%4][px%2]
}

// dot merges one drawing dot into the cell under it. Link dots never
// repaint a cell that already has a colour; node dots do.
func (c *canvas) dot(px, py int, st *lipgloss.Style, override bool) {
	cx, cy, bit := c.cell(px, py)
	if cx < 0 || cx >= c.cols || cy < 0 || cy >= c.rows {
		return
	}
	if c.ascii {
		if c.marks[cy][cx] == 0 {
			c.marks[cy][cx] = '.'
		}
	} else {
		c.dots[cy][cx] |= bit
	}
	if override || c.style[cy][cx] == nil {
		c.style[cy][cx] = st
	}
}

// glyph stamps a whole-cell marker, replacing any braille dots there
func (c *canvas) glyph(px, py int, r rune, st *lipgloss.Style) {
	cx, cy, _ := c.cell(px, py)
	if cx < 0 || cx >= c.cols || cy < 0 || cy >= c.rows {
		return
	}
	c.marks[cy][cx] = r
	c.style[cy][cx] = st
}

// line draws a straight run of dots between two dot coordinates
func (c *canvas) line(x0, y0, x1, y1 int, st *lipgloss.Style) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.dot(x0, y0, st, false)
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

func (c *canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < c.cols; x++ {
			r := c.marks[y][x]
			if r == 0 && !c.ascii && c.dots[y][x] != 0 {
				r = rune(brailleBase + int(c.dots[y][x]))
			}
			if r == 0 {
				r = ' '
			}
			if st := c.style[y][x]; st != nil && r != ' ' {
				b.WriteString(st.Render(string(r)))
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// renderCanvas draws a layout snapshot into a cols x rows block of text.
// Links go down first so node colours win inside shared cells; the
// selected node and pinned nodes get whole-cell markers.
func renderCanvas(snap layout.Snapshot, links []*graph.Link, cols, rows int, ascii bool) string {
	if cols < minCanvasCols {
		cols = minCanvasCols
	}
	if rows < minCanvasRows {
		rows = minCanvasRows
	}
	c := newCanvas(cols, rows, ascii)

	pos := make(map[string][2]int, len(snap.Nodes))
	for i := range snap.Nodes {
		n := &snap.Nodes[i]
		if px, py, ok := c.project(n.X, n.Y, snap.Width, snap.Height); ok {
			pos[n.ID] = [2]int{px, py}
		}
	}

	for _, l := range links {
		from, okFrom := pos[l.Source]
		to, okTo := pos[l.Target]
		if okFrom && okTo {
			c.line(from[0], from[1], to[0], to[1], &linkStyle)
		}
	}

	for i := range snap.Nodes {
		n := &snap.Nodes[i]
		p, ok := pos[n.ID]
		if !ok {
			continue
		}
		st := communityStyle(n.Community)
		switch {
		case snap.Selected != "" && n.ID == snap.Selected:
			c.glyph(p[0], p[1], markerRune(ascii, true), &selectedStyle)
		case n.Pinned:
			c.glyph(p[0], p[1], markerRune(ascii, false), st)
		case ascii:
			c.glyph(p[0], p[1], 'o', st)
		default:
			c.dot(p[0], p[1], st, true)
		}
	}
	return c.String()
}

func markerRune(ascii, selected bool) rune {
	if ascii {
		if selected {
			return '@'
		}
		return '#'
	}
	if selected {
		return '◎'
	}
	return '◉'
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
