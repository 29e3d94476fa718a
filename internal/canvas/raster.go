package canvas

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tOgg1/emitline/internal/timeline"
)

const (
	runeVertical   = '│'
	runeShortTick  = '╵'
	runeHorizontal = '─'
	runeEdgeLeft   = '▏'
	runeEdgeRight  = '▕'

	highlightColor = "#fff"
)

// Cell is one painted terminal cell.
type Cell struct {
	Rune  rune
	FG    string
	BG    string
	Bold  bool
	Faint bool
}

// Frame is a rasterized scene.
type Frame struct {
	Cols  int
	Rows  int
	Cells [][]Cell
}

// Rasterize paints the scene into cols x rows cells in z-order.
func (s *Scene) Rasterize(cols, rows int) *Frame {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	f := &Frame{Cols: cols, Rows: rows, Cells: make([][]Cell, rows)}
	for y := range f.Cells {
		row := make([]Cell, cols)
		for x := range row {
			row[x] = Cell{Rune: ' '}
		}
		f.Cells[y] = row
	}

	for _, el := range s.elements {
		if el.removed {
			continue
		}
		switch el.kind {
		case KindRect:
			s.paintRect(f, el)
		case KindText:
			s.paintText(f, el)
		}
	}
	return f
}

func (s *Scene) paintRect(f *Frame, el *Element) {
	x, y, w, h := el.Bounds()
	if w <= 0 || h <= 0 {
		return
	}
	faint := el.attrs[timeline.AttrOpacity] < 1
	color := el.fill
	if color == "" {
		color = el.stroke
	}

	c0 := int(math.Floor(x / s.cellW))
	r0 := int(math.Floor(y / s.cellH))

	switch {
	case w < s.cellW/2:
		// Hairline column: ticks, the play line.
		r1 := int(math.Ceil((y+h)/s.cellH)) - 1
		glyph := runeVertical
		if h < s.cellH {
			glyph = runeShortTick
		}
		for r := r0; r <= r1; r++ {
			f.set(c0, r, func(c *Cell) {
				c.Rune = glyph
				c.FG = color
				c.Faint = faint
			})
		}
	case h < s.cellH/2:
		// Hairline row: separators.
		c1 := int(math.Ceil((x+w)/s.cellW)) - 1
		for c := c0; c <= c1; c++ {
			f.set(c, r0, func(cell *Cell) {
				cell.Rune = runeHorizontal
				cell.FG = color
				cell.Faint = faint
			})
		}
	default:
		c1 := int(math.Ceil((x+w)/s.cellW)) - 1
		r1 := int(math.Ceil((y+h)/s.cellH)) - 1
		stroked := el.attrs[timeline.AttrStrokeWidth] > 0 && el.attrs[timeline.AttrRadius] > 0
		for r := r0; r <= r1; r++ {
			for c := c0; c <= c1; c++ {
				glyph := ' '
				if stroked && c == c0 {
					glyph = runeEdgeLeft
				} else if stroked && c == c1 {
					glyph = runeEdgeRight
				}
				f.set(c, r, func(cell *Cell) {
					cell.Rune = glyph
					cell.BG = color
					cell.FG = highlightColor
					cell.Bold = stroked
					cell.Faint = faint
				})
			}
		}
	}
}

func (s *Scene) paintText(f *Frame, el *Element) {
	x, y, _, h := el.Bounds()
	col := int(math.Round(x / s.cellW))
	row := int(math.Floor((y + h/2) / s.cellH))
	for _, r := range el.text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		f.set(col, row, func(c *Cell) {
			c.Rune = r
			c.FG = el.fill
		})
		for extra := 1; extra < rw; extra++ {
			f.set(col+extra, row, func(c *Cell) { c.Rune = 0 })
		}
		col += rw
	}
}

// Overlay writes text from (col, row) using the colours of style and returns
// the number of columns covered. Cells outside the frame are skipped.
func (f *Frame) Overlay(col, row int, text string, style Cell) int {
	start := col
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		cell := style
		cell.Rune = r
		f.set(col, row, func(c *Cell) { *c = cell })
		for extra := 1; extra < rw; extra++ {
			f.set(col+extra, row, func(c *Cell) { c.Rune = 0 })
		}
		col += rw
	}
	return col - start
}

func (f *Frame) set(col, row int, fn func(*Cell)) {
	if row < 0 || row >= f.Rows || col < 0 || col >= f.Cols {
		return
	}
	fn(&f.Cells[row][col])
}

// Plain returns the frame as uncoloured lines.
func (f *Frame) Plain() []string {
	out := make([]string, 0, f.Rows)
	for _, row := range f.Cells {
		var b strings.Builder
		for _, c := range row {
			if c.Rune == 0 {
				continue
			}
			b.WriteRune(c.Rune)
		}
		out = append(out, b.String())
	}
	return out
}

// Styled returns the frame as lines coloured with lipgloss, merging runs of
// cells that share a style.
func (f *Frame) Styled() []string {
	out := make([]string, 0, f.Rows)
	for _, row := range f.Cells {
		var b strings.Builder
		start := 0
		for start < len(row) {
			end := start + 1
			for end < len(row) && sameStyle(row[start], row[end]) {
				end++
			}
			b.WriteString(cellStyle(row[start]).Render(runesOf(row[start:end])))
			start = end
		}
		out = append(out, b.String())
	}
	return out
}

func sameStyle(a, b Cell) bool {
	return a.FG == b.FG && a.BG == b.BG && a.Bold == b.Bold && a.Faint == b.Faint
}

func cellStyle(c Cell) lipgloss.Style {
	style := lipgloss.NewStyle()
	if c.FG != "" {
		style = style.Foreground(lipgloss.Color(c.FG))
	}
	if c.BG != "" {
		style = style.Background(lipgloss.Color(c.BG))
	}
	if c.Bold {
		style = style.Bold(true)
	}
	if c.Faint {
		style = style.Faint(true)
	}
	return style
}

func runesOf(cells []Cell) string {
	var b strings.Builder
	for _, c := range cells {
		if c.Rune == 0 {
			continue
		}
		b.WriteRune(c.Rune)
	}
	return b.String()
}
