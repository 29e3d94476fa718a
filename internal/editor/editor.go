package editor

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tOgg1/emitline/internal/canvas"
	"github.com/tOgg1/emitline/internal/events"
	"github.com/tOgg1/emitline/internal/logging"
	"github.com/tOgg1/emitline/internal/models"
	"github.com/tOgg1/emitline/internal/timeline"
)

const (
	defaultFrameInterval = 33 * time.Millisecond
	defaultStatusTTL     = 4 * time.Second
	defaultCols          = 80
	defaultRows          = 20

	headerRows = 1
	footerRows = 3
	minRows    = 4

	// wheelStep is the wheel delta of one notch or one +/- key press.
	wheelStep = 100.0

	nudgeSmall = 10
	nudgeLarge = 100
)

// Config controls editor behaviour.
type Config struct {
	Theme         string
	CellWidthPx   float64
	CellHeightPx  float64
	FrameInterval time.Duration

	// Zoom is shared with any other view of the set. Nil creates one.
	Zoom *timeline.ZoomContext
}

// Run starts the editor on session and blocks until the user quits.
func Run(ctx context.Context, session *Session, publisher events.Publisher, cfg Config) error {
	m, err := newModel(session, publisher, cfg)
	if err != nil {
		return err
	}
	defer m.close()

	logger := logging.FromContext(ctx)
	logger.Info().Int("emissions", len(session.Set().Emissions)).Msg("editor started")

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err = program.Run()
	logger.Info().Err(err).Msg("editor stopped")
	return err
}

type uiMode int

const (
	modeMain uiMode = iota
	modeMenu
	modeRename
	modeHelp
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusErr
)

type frameMsg time.Time

type model struct {
	session   *Session
	publisher events.Publisher
	selection *events.Selection
	scene     *canvas.Scene
	engine    *timeline.Engine
	inspector *Inspector
	menu      *Menu

	cellW         float64
	cellH         float64
	frameInterval time.Duration
	palette       editorPalette

	width  int
	height int

	mode          uiMode
	renameInput   string
	statusText    string
	statusKind    statusKind
	statusExpires time.Time
	quitting      bool
}

func newModel(session *Session, publisher events.Publisher, cfg Config) (model, error) {
	if publisher == nil {
		publisher = events.NewInMemoryPublisher()
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = defaultFrameInterval
	}
	if cfg.CellWidthPx <= 0 {
		cfg.CellWidthPx = canvas.DefaultCellWidth
	}
	if cfg.CellHeightPx <= 0 {
		cfg.CellHeightPx = canvas.DefaultCellHeight
	}
	if cfg.Zoom == nil {
		cfg.Zoom = timeline.NewZoomContext(timeline.DefaultScale)
	}

	scene := canvas.NewScene(defaultCols*cfg.CellWidthPx, defaultRows*cfg.CellHeightPx,
		canvas.WithCellSize(cfg.CellWidthPx, cfg.CellHeightPx))
	selection := events.NewSelection(publisher)
	menu := &Menu{}
	inspector := NewInspector(session, nil)
	engine := timeline.New(cfg.Zoom, timeline.Deps{
		Collection: session,
		Selection:  selection,
		Menu:       menu,
		Inspector:  inspector,
		Persister:  session,
	})
	inspector.engine = engine
	session.Bind(engine)

	if err := inspector.Follow(publisher); err != nil {
		return model{}, fmt.Errorf("failed to follow selection: %w", err)
	}

	engine.Attach(scene)
	engine.SetSet(session.Set())

	return model{
		session:       session,
		publisher:     publisher,
		selection:     selection,
		scene:         scene,
		engine:        engine,
		inspector:     inspector,
		menu:          menu,
		cellW:         cfg.CellWidthPx,
		cellH:         cfg.CellHeightPx,
		frameInterval: cfg.FrameInterval,
		palette:       resolvePalette(cfg.Theme),
		width:         defaultCols,
		height:        defaultRows + headerRows + footerRows,
	}, nil
}

func (m model) close() {
	m.engine.CancelDrags()
	m.engine.Dispose()
	_ = m.publisher.Unsubscribe(inspectorSubscription)
}

func (m model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m model) tickCmd() tea.Cmd {
	return tea.Tick(m.frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cols, rows := m.canvasSize()
		m.engine.Resize(float64(cols)*m.cellW, float64(rows)*m.cellH)
		return m, nil
	case frameMsg:
		now := time.Time(msg)
		m.scene.Advance(now)
		if !m.statusExpires.IsZero() && now.After(m.statusExpires) {
			m.statusText = ""
			m.statusExpires = time.Time{}
		}
		return m, m.tickCmd()
	case tea.MouseMsg:
		return m.updateMouse(msg)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		switch m.mode {
		case modeMenu:
			return m.updateMenuMode(msg)
		case modeRename:
			return m.updateRenameMode(msg)
		case modeHelp:
			return m.updateHelpMode(msg)
		default:
			return m.updateMainMode(msg)
		}
	}
	return m, nil
}

func (m model) quit() (tea.Model, tea.Cmd) {
	m.engine.CancelDrags()
	m.quitting = true
	return m, tea.Quit
}

func (m model) updateMainMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "?":
		m.mode = modeHelp
	case "+", "=":
		m.engine.ZoomBy(-wheelStep)
	case "-", "_":
		m.engine.ZoomBy(wheelStep)
	case "t":
		m.palette = cyclePalette(m.palette.Name, 1)
		m.setStatus(statusInfo, "Theme: "+m.palette.Name)
	case "tab", "j", "down":
		m.moveSelection(1)
	case "shift+tab", "k", "up":
		m.moveSelection(-1)
	case "[":
		m.inspector.Nudge(-nudgeSmall)
	case "]":
		m.inspector.Nudge(nudgeSmall)
	case "{":
		m.inspector.Nudge(-nudgeLarge)
	case "}":
		m.inspector.Nudge(nudgeLarge)
	case "enter":
		if !m.inspector.Dirty() {
			break
		}
		if err := m.inspector.Commit(); err != nil {
			m.setStatus(statusErr, err.Error())
		} else {
			m.setStatus(statusOK, fmt.Sprintf("Moved %s to %d ms", m.inspector.name, m.inspector.offsetMs))
		}
	case "esc":
		m.inspector.Revert()
	case "a":
		e, err := m.session.Add(m.session.NextName(), 0)
		if err != nil {
			m.setStatus(statusErr, err.Error())
			break
		}
		m.selection.Notify(e)
		m.setStatus(statusOK, "Added "+e.Name)
	case "c":
		if e := m.selected(); e != nil {
			copied, err := m.session.CloneEmission(e)
			if err != nil {
				m.setStatus(statusErr, err.Error())
				break
			}
			m.selection.Notify(copied)
			m.setStatus(statusOK, "Cloned "+e.Name)
		}
	case "x", "delete":
		if e := m.selected(); e != nil {
			if err := m.session.RemoveEmission(e); err != nil {
				m.setStatus(statusErr, err.Error())
			} else {
				m.setStatus(statusOK, "Removed "+e.Name)
			}
			m.inspector.Refresh()
		}
	case "r":
		if e := m.selected(); e != nil {
			m.mode = modeRename
			m.renameInput = e.Name
		}
	case "m":
		if e := m.selected(); e != nil && m.openMenuFor(e) {
			m.mode = modeMenu
		}
	}
	return m, nil
}

func (m model) updateMenuMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.menu.Close()
		m.mode = modeMain
	case "up", "k", "shift+tab":
		m.menu.Move(-1)
	case "down", "j", "tab":
		m.menu.Move(1)
	case "enter":
		m.chooseMenu()
		m.mode = modeMain
	}
	return m, nil
}

func (m model) updateRenameMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeMain
		m.renameInput = ""
	case tea.KeyEnter:
		if err := m.inspector.Rename(m.renameInput); err != nil {
			m.setStatus(statusErr, err.Error())
			return m, nil
		}
		m.setStatus(statusOK, "Renamed to "+m.inspector.name)
		m.mode = modeMain
		m.renameInput = ""
	case tea.KeyBackspace, tea.KeyCtrlH:
		if r := []rune(m.renameInput); len(r) > 0 {
			m.renameInput = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.renameInput += " "
	case tea.KeyRunes:
		m.renameInput += string(msg.Runes)
	}
	return m, nil
}

func (m model) updateHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "?":
		m.mode = modeMain
	}
	return m, nil
}

func (m model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	col, row, inside := m.canvasCell(msg.X, msg.Y)
	x, y := m.scene.CellToPixel(col, row)

	if m.mode == modeMenu {
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		cols, rows := m.canvasSize()
		line := m.menu.lineAt(col, row, m.cellW, m.cellH, cols, rows)
		if inside && msg.Button == tea.MouseButtonLeft && m.menu.Highlight(line) {
			m.chooseMenu()
		} else {
			m.menu.Close()
		}
		m.mode = modeMain
		return m, nil
	}
	if m.mode != modeMain {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionRelease:
		m.scene.PointerUp(x, y)
		return m, nil
	case tea.MouseActionMotion:
		if m.scene.Dragging() {
			m.scene.PointerMove(x, y)
		}
		return m, nil
	}

	if !inside {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
		m.scene.PointerDown(x, y)
	case tea.MouseButtonRight:
		if m.scene.ContextMenu(x, y) && m.menu.Open() {
			m.mode = modeMenu
		}
	case tea.MouseButtonWheelUp:
		m.scene.Wheel(x, y, -wheelStep)
	case tea.MouseButtonWheelDown:
		m.scene.Wheel(x, y, wheelStep)
	}
	return m, nil
}

// chooseMenu runs the highlighted menu action and reports what it did to
// the set.
func (m *model) chooseMenu() {
	label := m.menu.Selected()
	before := len(m.session.Set().Emissions)
	m.menu.Choose()
	m.inspector.Refresh()
	if after := len(m.session.Set().Emissions); after != before && label != "" {
		m.setStatus(statusOK, label+" done")
	}
}

// openMenuFor opens the block context menu of e as if it was right-clicked.
func (m *model) openMenuFor(e *models.Emission) bool {
	x, y, ok := m.engine.BlockCenter(e)
	if !ok {
		return false
	}
	return m.scene.ContextMenu(x, y) && m.menu.Open()
}

func (m *model) selected() *models.Emission {
	return m.inspector.Emission()
}

func (m *model) moveSelection(delta int) {
	set := m.session.Set()
	n := len(set.Emissions)
	if n == 0 {
		return
	}
	idx := set.IndexOf(m.selected())
	switch {
	case idx == -1 && delta < 0:
		idx = n - 1
	case idx == -1:
		idx = 0
	default:
		idx = ((idx+delta)%n + n) % n
	}
	m.selection.Notify(set.Emissions[idx])
}

func (m *model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.statusText = text
	m.statusExpires = time.Now().Add(defaultStatusTTL)
}

// canvasSize is the canvas area in cells.
func (m model) canvasSize() (int, int) {
	cols := max(m.width, 1)
	rows := max(m.height-headerRows-footerRows, minRows)
	return cols, rows
}

// canvasCell maps a terminal position to a canvas cell, clamped to the
// canvas, and reports whether it was inside.
func (m model) canvasCell(x, y int) (int, int, bool) {
	cols, rows := m.canvasSize()
	col, row := x, y-headerRows
	inside := col >= 0 && col < cols && row >= 0 && row < rows
	return min(max(col, 0), cols-1), min(max(row, 0), rows-1), inside
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	width := max(m.width, 1)
	cols, rows := m.canvasSize()

	var body []string
	if m.mode == modeHelp {
		body = m.renderHelp(width, rows)
	} else {
		frame := m.scene.Rasterize(cols, rows)
		m.menu.paint(frame, m.cellW, m.cellH, m.palette)
		body = frame.Styled()
	}

	parts := []string{m.renderHeader(width)}
	parts = append(parts, body...)
	if m.mode == modeRename {
		parts = append(parts, m.renderRename(width))
	} else {
		parts = append(parts, m.inspector.view(width, m.palette))
	}
	parts = append(parts, m.renderStatusLine(width), m.renderHints(width))
	return strings.Join(parts, "\n")
}

func (m model) renderHeader(width int) string {
	set := m.session.Set()
	title := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Accent)).Bold(true).Render("emitline")
	meta := fmt.Sprintf("  %s  %d emissions  %.0f px/s  pan %.0f",
		set.Name, len(set.Emissions), m.engine.Zoom().Scale(), m.engine.PanOffset())
	return title + lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.TextMuted)).
		Render(truncateLine(meta, max(width-runewidth.StringWidth("emitline"), 1)))
}

func (m model) renderRename(width int) string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.TextMuted)).Render("Rename: ")
	input := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Focus)).Render(m.renameInput + "_")
	return label + input + lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.TextMuted)).
		Render(truncateLine("  enter=save esc=cancel", max(width-10-runewidth.StringWidth(m.renameInput), 1)))
}

func (m model) renderStatusLine(width int) string {
	style := lipgloss.NewStyle()
	switch m.statusKind {
	case statusOK:
		style = style.Foreground(lipgloss.Color(m.palette.Success)).Bold(true)
	case statusErr:
		style = style.Foreground(lipgloss.Color(m.palette.Error)).Bold(true)
	default:
		style = style.Foreground(lipgloss.Color(m.palette.Accent))
	}
	return style.Render(truncateLine(m.statusText, max(width-1, 1)))
}

func (m model) renderHints(width int) string {
	hints := "drag=move  right-click/m=menu  wheel/+/-=zoom  [ ] { }=nudge  enter=commit  a=add c=clone x=remove r=rename  ?=help q=quit"
	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.TextMuted)).Render(truncateLine(hints, width))
}

func (m model) renderHelp(width, rows int) []string {
	lines := []string{
		"Timeline",
		"  drag a block        move its start time",
		"  drag the backdrop   pan",
		"  wheel, + / -        zoom every view of this set",
		"  right-click, m      clone or remove a block",
		"",
		"Inspector",
		"  tab / j / k         select next or previous emission",
		"  [ ]                 nudge start by 10 ms",
		"  { }                 nudge start by 100 ms",
		"  enter / esc         commit or revert nudges",
		"  r                   rename",
		"",
		"Set",
		"  a  add   c  clone   x  remove   t  theme   q  quit",
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Text))
	out := make([]string, 0, rows)
	for i := 0; i < rows; i++ {
		line := ""
		if i < len(lines) {
			line = truncateLine(lines[i], width)
		}
		out = append(out, style.Render(line))
	}
	return out
}

func truncateLine(line string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(line, width, "…")
}
