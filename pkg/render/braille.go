package render

import (
	"math"
	"strings"

	"github.com/matzehuels/bpview/pkg/fit"
)

// CellKind classifies what a braille cell shows. Higher kinds win when a
// cell holds several things.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellPath
	CellMarker
	CellStart
)

// brailleBits maps a dot position (x in 0..1, y in 0..3) to its bit in
// the Unicode braille block.
var brailleBits = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

const brailleBase = 0x2800

// Braille is a text surface of cols x rows cells, each holding a 2x4 grid
// of dots. It lets the terminal browser draw a plan inside its modal.
type Braille struct {
	cols, rows int
	dots       []rune
	kinds      []CellKind
}

// NewBraille creates an empty braille canvas.
func NewBraille(cols, rows int) *Braille {
	cols, rows = max(cols, 1), max(rows, 1)
	return &Braille{
		cols:  cols,
		rows:  rows,
		dots:  make([]rune, cols*rows),
		kinds: make([]CellKind, cols*rows),
	}
}

// Size returns the canvas size in cells.
func (b *Braille) Size() (cols, rows int) { return b.cols, b.rows }

// Clear removes all dots.
func (b *Braille) Clear() {
	clear(b.dots)
	clear(b.kinds)
}

// Draw clears the canvas and draws plan, scaled uniformly from the
// viewport onto the dot grid.
func (b *Braille) Draw(plan fit.Plan, vp fit.Viewport) {
	b.Clear()
	if plan.Empty() || vp.Width <= 0 || vp.Height <= 0 {
		return
	}

	dotsW, dotsH := b.cols*2, b.rows*4
	scale := min(float64(dotsW-1)/vp.Width, float64(dotsH-1)/vp.Height)
	toDot := func(x, y float64) (int, int) {
		return int(math.Round(x * scale)), int(math.Round(y * scale))
	}

	if plan.Stroked() {
		x0, y0 := toDot(plan.Path[0].X, plan.Path[0].Y)
		for _, p := range plan.Path[1:] {
			x1, y1 := toDot(p.X, p.Y)
			b.line(x0, y0, x1, y1)
			x0, y0 = x1, y1
		}
	}

	for _, m := range plan.Markers {
		x, y := toDot(m.X, m.Y)
		kind := CellMarker
		if m.Kind == fit.Start {
			kind = CellStart
		}
		b.set(x, y, kind)
	}
}

// line plots a segment with Bresenham's algorithm.
func (b *Braille) line(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		b.set(x0, y0, CellPath)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (b *Braille) set(x, y int, kind CellKind) {
	if x < 0 || y < 0 || x >= b.cols*2 || y >= b.rows*4 {
		return
	}
	i := (y/4)*b.cols + x/2
	b.dots[i] |= brailleBits[x%2][y%4]
	b.kinds[i] = max(b.kinds[i], kind)
}

// Kind returns the kind of the cell at (col, row).
func (b *Braille) Kind(col, row int) CellKind {
	if col < 0 || row < 0 || col >= b.cols || row >= b.rows {
		return CellEmpty
	}
	return b.kinds[row*b.cols+col]
}

// String returns the canvas as rows of braille characters separated by
// newlines. Empty cells are rendered as blank braille patterns so every
// row has the same width.
func (b *Braille) String() string {
	return b.Render(nil)
}

// Render is like String but passes every cell through paint, which may
// wrap it in terminal styling based on its kind.
func (b *Braille) Render(paint func(cell string, kind CellKind) string) string {
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < b.cols; c++ {
			i := r*b.cols + c
			cell := string(brailleBase + b.dots[i])
			if paint != nil {
				cell = paint(cell, b.kinds[i])
			}
			sb.WriteString(cell)
		}
	}
	return sb.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// BrailleSurface binds a braille canvas to the viewport plans are fitted
// to, so it can be drawn like a [Canvas].
type BrailleSurface struct {
	*Braille
	VP fit.Viewport
}

// Viewport returns the viewport plans are fitted to.
func (s BrailleSurface) Viewport() fit.Viewport { return s.VP }

// Draw clears the canvas and draws plan.
func (s BrailleSurface) Draw(plan fit.Plan) { s.Braille.Draw(plan, s.VP) }
