package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tOgg1/emitline/internal/events"
	"github.com/tOgg1/emitline/internal/models"
	"github.com/tOgg1/emitline/internal/timeline"
)

const inspectorSubscription = "editor.inspector"

// Inspector is the detail pane for the selected emission. Offset nudges move
// the block live; Commit finalizes them.
type Inspector struct {
	session *Session
	engine  *timeline.Engine

	emission    *models.Emission
	committedMs int64
	dirty       bool

	// Snapshot of the fields as last shown.
	name     string
	offsetMs int64
}

var _ timeline.Inspector = (*Inspector)(nil)

// NewInspector creates an inspector over the session set.
func NewInspector(session *Session, engine *timeline.Engine) *Inspector {
	return &Inspector{session: session, engine: engine}
}

// Follow shows every emission selected on the timeline.
func (i *Inspector) Follow(publisher events.Publisher) error {
	set := i.session.Set()
	return publisher.Subscribe(inspectorSubscription, events.SelectedEmissions(set.ID), func(event *models.Event) {
		if e, ok := set.Find(event.EntityID); ok {
			i.Show(e)
		}
	})
}

// Show switches the pane to e. Uncommitted nudges on the previous emission
// are reverted.
func (i *Inspector) Show(e *models.Emission) {
	if i.emission == e {
		return
	}
	i.Revert()
	i.emission = e
	i.Refresh()
}

// Hide clears the pane.
func (i *Inspector) Hide() {
	i.Revert()
	i.emission = nil
}

// Emission returns the emission on display, if any.
func (i *Inspector) Emission() *models.Emission {
	return i.emission
}

// IsShowing reports whether e is on display.
func (i *Inspector) IsShowing(e *models.Emission) bool {
	return e != nil && i.emission == e
}

// Dirty reports whether there are uncommitted nudges.
func (i *Inspector) Dirty() bool {
	return i.dirty
}

// Refresh re-reads the emission. A commit made elsewhere replaces pending
// nudges. Emissions that left the set are hidden.
func (i *Inspector) Refresh() {
	if i.emission == nil {
		return
	}
	if i.session.Set().IndexOf(i.emission) == -1 {
		i.emission = nil
		i.dirty = false
		return
	}
	i.dirty = false
	i.committedMs = i.emission.StartOffsetMs
	i.name = i.emission.Name
	i.offsetMs = i.emission.StartOffsetMs
}

// Nudge shifts the offset by deltaMs without saving. Offsets stop at zero.
func (i *Inspector) Nudge(deltaMs int64) {
	e := i.emission
	if e == nil {
		return
	}
	next := e.StartOffsetMs + deltaMs
	if next < 0 {
		next = 0
	}
	if next == e.StartOffsetMs {
		return
	}
	e.StartOffsetMs = next
	i.offsetMs = next
	i.dirty = next != i.committedMs
	if i.engine != nil {
		i.engine.OnModifyingEntity(e)
	}
}

// Commit finalizes nudges: the timeline is laid out again and the set saved.
func (i *Inspector) Commit() error {
	if i.emission == nil || !i.dirty {
		return nil
	}
	i.dirty = false
	i.committedMs = i.emission.StartOffsetMs
	if i.engine != nil {
		i.engine.OnModifiedEntity(i.emission)
	}
	return i.session.Save()
}

// Revert restores the committed offset.
func (i *Inspector) Revert() {
	if i.emission == nil || !i.dirty {
		return
	}
	i.dirty = false
	i.emission.StartOffsetMs = i.committedMs
	i.offsetMs = i.committedMs
	if i.engine != nil {
		i.engine.OnModifyingEntity(i.emission)
	}
}

// Rename renames the emission on display.
func (i *Inspector) Rename(name string) error {
	if i.emission == nil {
		return nil
	}
	if err := i.Commit(); err != nil {
		return err
	}
	if err := i.session.Rename(i.emission, name); err != nil {
		return err
	}
	i.Refresh()
	return nil
}

func (i *Inspector) view(width int, palette editorPalette) string {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.TextMuted))
	text := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Text))

	if i.emission == nil {
		return muted.Render(truncateLine("Select a block to inspect it. a=add  ?=help", width))
	}

	offset := fmt.Sprintf("%d ms", i.offsetMs)
	if i.dirty {
		offset = lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Warning)).Bold(true).
			Render(fmt.Sprintf("%d ms (was %d, enter to commit)", i.offsetMs, i.committedMs))
	}
	parts := []string{
		muted.Render("Emission:") + " " + text.Bold(true).Render(i.name),
		muted.Render("Start:") + " " + offset,
		muted.Render("Row:") + " " + text.Render(fmt.Sprintf("%d", i.emission.Position+1)),
	}
	return strings.Join(parts, "   ")
}
