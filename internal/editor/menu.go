package editor

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/tOgg1/emitline/internal/canvas"
	"github.com/tOgg1/emitline/internal/timeline"
)

const menuSeparator = "─"

// Menu is the context menu popup. The engine fills it through Show; the
// model routes keys and clicks to it while it is open.
type Menu struct {
	open     bool
	x, y     float64
	items    []timeline.MenuItem
	selected int
}

var _ timeline.ContextMenu = (*Menu)(nil)

// Show opens the menu at a surface position.
func (m *Menu) Show(x, y float64, items []timeline.MenuItem) {
	m.x, m.y = x, y
	m.items = items
	m.open = len(items) > 0
	m.selected = -1
	m.Move(1)
}

// Open reports whether the menu is showing.
func (m *Menu) Open() bool {
	return m.open
}

// Position returns where the menu was opened, in surface pixels.
func (m *Menu) Position() (float64, float64) {
	return m.x, m.y
}

// Close dismisses the menu without running anything.
func (m *Menu) Close() {
	m.open = false
	m.items = nil
	m.selected = -1
}

// Move steps the highlight over actionable items, wrapping around.
func (m *Menu) Move(delta int) {
	n := len(m.items)
	if n == 0 {
		return
	}
	idx := m.selected
	for range m.items {
		idx = ((idx+delta)%n + n) % n
		if !m.items[idx].Separator {
			m.selected = idx
			return
		}
	}
}

// Selected returns the highlighted label.
func (m *Menu) Selected() string {
	if m.selected < 0 || m.selected >= len(m.items) {
		return ""
	}
	return m.items[m.selected].Label
}

// Choose runs the highlighted item and closes the menu.
func (m *Menu) Choose() {
	if !m.open || m.selected < 0 || m.selected >= len(m.items) {
		m.Close()
		return
	}
	action := m.items[m.selected].Action
	m.Close()
	if action != nil {
		action()
	}
}

// Highlight moves the highlight to line of the popup body. Separators and
// lines outside the menu are refused.
func (m *Menu) Highlight(line int) bool {
	if !m.open || line < 0 || line >= len(m.items) || m.items[line].Separator {
		return false
	}
	m.selected = line
	return true
}

// ChooseLine runs the item on line, as hit by a click. It reports whether an
// item was run.
func (m *Menu) ChooseLine(line int) bool {
	if !m.Highlight(line) {
		return false
	}
	m.Choose()
	return true
}

// bounds returns the popup box in cells for a frame of cols x rows, shifted
// so that it fits.
func (m *Menu) bounds(cellW, cellH float64, cols, rows int) (col, row, width, height int) {
	for _, item := range m.items {
		if w := runewidth.StringWidth(item.Label); w > width {
			width = w
		}
	}
	width += 4
	height = len(m.items) + 2
	col = int(m.x / cellW)
	row = int(m.y / cellH)
	if col+width > cols {
		col = cols - width
	}
	if row+height > rows {
		row = rows - height
	}
	return max(col, 0), max(row, 0), width, height
}

// lineAt maps a cell to a popup body line, or -1 when outside the box.
func (m *Menu) lineAt(col, row int, cellW, cellH float64, cols, rows int) int {
	left, top, width, height := m.bounds(cellW, cellH, cols, rows)
	if col < left || col >= left+width || row <= top || row >= top+height-1 {
		return -1
	}
	return row - top - 1
}

func (m *Menu) paint(f *canvas.Frame, cellW, cellH float64, palette editorPalette) {
	if !m.open {
		return
	}
	col, row, width, _ := m.bounds(cellW, cellH, f.Cols, f.Rows)
	inner := width - 2
	border := canvas.Cell{FG: palette.Accent, BG: palette.Background}
	text := canvas.Cell{FG: palette.Text, BG: palette.Background}
	focus := canvas.Cell{FG: palette.Background, BG: palette.Focus, Bold: true}

	f.Overlay(col, row, "╭"+strings.Repeat("─", inner)+"╮", border)
	for i, item := range m.items {
		line := row + 1 + i
		if item.Separator {
			f.Overlay(col, line, "├"+strings.Repeat(menuSeparator, inner)+"┤", border)
			continue
		}
		style := text
		if i == m.selected {
			style = focus
		}
		f.Overlay(col, line, "│", border)
		f.Overlay(col+1, line, " "+runewidth.FillRight(item.Label, inner-1), style)
		f.Overlay(col+width-1, line, "│", border)
	}
	f.Overlay(col, row+len(m.items)+1, "╰"+strings.Repeat("─", inner)+"╯", border)
}
