// Package timeline renders an emission set as draggable blocks on a
// pannable, zoomable time axis with a playback sweep.
package timeline

import (
	"github.com/rs/zerolog"

	"github.com/tOgg1/emitline/internal/logging"
	"github.com/tOgg1/emitline/internal/models"
)

const (
	colorBackground = "#aaa"
	colorAxis       = "#777"
	colorPlayLine   = "#999"
	colorTick       = "#999"
	colorBlock      = "#ddd"
	colorSeparator  = "#666"
)

// MenuItem is one entry of a block context menu. Separator entries have no
// label or action.
type MenuItem struct {
	Label     string
	Separator bool
	Action    func()
}

// Collection mutates the emission set on behalf of menu actions.
type Collection interface {
	Clone(e *models.Emission)
	Remove(e *models.Emission)
}

// Selection is notified when the user picks up a block.
type Selection interface {
	Notify(e *models.Emission)
}

// ContextMenu presents block actions at a surface position.
type ContextMenu interface {
	Show(x, y float64, items []MenuItem)
}

// Inspector is a detail view that may be showing an emission.
type Inspector interface {
	IsShowing(e *models.Emission) bool
	Refresh()
}

// Persister stores the active set after a drag commit.
type Persister interface {
	Save() error
}

// Deps are the host collaborators. Any of them may be nil.
type Deps struct {
	Collection Collection
	Selection  Selection
	Menu       ContextMenu
	Inspector  Inspector
	Persister  Persister
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger overrides the component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Engine draws one emission set onto a Surface and reacts to pointer input
// and external edit notifications. It is not safe for concurrent use; all
// calls are expected from the UI event loop.
type Engine struct {
	zoom   *ZoomContext
	deps   Deps
	logger zerolog.Logger

	surface    Surface
	background Element
	axis       Element
	playLine   Element

	grid     []gridMark
	blocks   *registry
	set      *models.EmissionSet
	disposed bool

	maxExtent float64
	pan       panState
	sweeps    int
}

// New creates an engine bound to a shared zoom context.
func New(zoom *ZoomContext, deps Deps, opts ...Option) *Engine {
	if zoom == nil {
		zoom = NewZoomContext(DefaultScale)
	}
	e := &Engine{
		zoom:   zoom,
		deps:   deps,
		logger: logging.Component("timeline"),
		blocks: newRegistry(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Attach creates the fixed backdrop and play line on a surface.
func (e *Engine) Attach(surface Surface) {
	if surface == nil || e.disposed {
		return
	}
	e.surface = surface
	width, height := surface.Width(), surface.Height()

	e.background = surface.Rect(0, 0, width, height, 0)
	e.background.SetFill(colorBackground)
	e.background.SetStroke(colorBackground)
	e.bindBackground()

	e.axis = surface.Rect(0, 0, width, axisHeight, 0)
	e.axis.SetFill(colorAxis)
	e.axis.SetStroke(colorAxis)
	e.axis.SetPointerEvents(false)

	e.playLine = surface.Rect(0, 0, 1, height, 0)
	e.playLine.SetFill(colorPlayLine)
	e.playLine.SetStroke(colorPlayLine)
	e.playLine.SetPointerEvents(false)
}

// Dispose tears the surface down. Every later call is a no-op.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	if e.surface != nil {
		e.surface.Clear()
	}
	e.blocks = newRegistry()
	e.grid = nil
	e.set = nil
	e.surface = nil
}

// Resize adapts the surface and rebuilds the active set.
func (e *Engine) Resize(width, height float64) {
	if !e.ready() {
		return
	}
	e.surface.Resize(width, height)
	e.background.Set(AttrWidth, width)
	e.background.Set(AttrHeight, height)
	e.axis.Set(AttrWidth, width)
	e.playLine.Set(AttrHeight, height)
	e.SetSet(e.set)
}

// SetSet draws set, replacing whatever was drawn. The playback sweep runs
// only when set is a different set than the one currently shown.
func (e *Engine) SetSet(set *models.EmissionSet) {
	if set == nil || e.surface == nil || e.disposed {
		return
	}
	e.rebuild(set)
}

// OnModifyingEntity moves the block of an emission whose offset is being
// edited elsewhere, without rebuilding anything else.
func (e *Engine) OnModifyingEntity(em *models.Emission) {
	if !e.ready() {
		return
	}
	if e.set.IndexOf(em) == -1 {
		return
	}
	b, ok := e.blocks.get(em)
	if !ok {
		return
	}
	diff := e.zoom.MsToPixels(em.StartOffsetMs - b.committedOffsetMs)
	b.translate(b.drag.priorOffset + diff)
	b.time.SetText(formatOffset(em.StartOffsetMs))
}

// OnModifiedEntity reconciles layout after an external edit is finalized.
func (e *Engine) OnModifiedEntity(em *models.Emission) {
	if !e.ready() {
		return
	}
	if e.set.IndexOf(em) == -1 {
		return
	}
	e.SetSet(e.set)
}

// BlockCenter returns where the block of em currently sits on the surface,
// including pan and drag translation.
func (e *Engine) BlockCenter(em *models.Emission) (float64, float64, bool) {
	if !e.ready() {
		return 0, 0, false
	}
	b, ok := e.blocks.get(em)
	if !ok {
		return 0, 0, false
	}
	x := b.rect.Get(AttrX) + b.rect.Get(AttrTranslateX) + blockWidth/2
	y := b.rect.Get(AttrY) + b.rect.Get(AttrTranslateY) + blockHeight/2
	return x, y, true
}

// ActiveSet returns the set currently drawn.
func (e *Engine) ActiveSet() *models.EmissionSet {
	return e.set
}

// MaxExtent returns the right edge of the content in pixels.
func (e *Engine) MaxExtent() float64 {
	return e.maxExtent
}

// PanOffset returns the committed horizontal pan.
func (e *Engine) PanOffset() float64 {
	return e.pan.committed
}

// Sweeps returns how many playback sweeps have been started.
func (e *Engine) Sweeps() int {
	return e.sweeps
}

// Zoom returns the shared zoom context.
func (e *Engine) Zoom() *ZoomContext {
	return e.zoom
}

func (e *Engine) ready() bool {
	return !e.disposed && e.surface != nil && e.set != nil
}
