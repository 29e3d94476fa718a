package timeline

const (
	dragOpacity     = 0.3
	highlightStroke = 2.0
)

type dragPhase int

const (
	dragIdle dragPhase = iota
	dragDragging
)

// dragState tracks one block's gesture. priorOffset is the translation left
// by earlier drags since the block was built; lastOffset is the most recent
// translation that mapped to a non-negative time.
type dragState struct {
	phase       dragPhase
	priorOffset float64
	lastOffset  float64
}

func (e *Engine) bindBlockDrag(b *block) {
	b.rect.OnDrag(DragHandlers{
		Start: func(x, y float64) { e.dragStart(b) },
		Move:  func(dx, dy float64) { e.dragMove(b, dx) },
		End:   func() { e.dragEnd(b) },
	})
}

func (e *Engine) dragStart(b *block) {
	b.drag.phase = dragDragging
	b.drag.lastOffset = b.drag.priorOffset

	b.rect.Set(AttrOpacity, dragOpacity)
	e.blocks.each(func(other *block) { other.rect.Set(AttrStrokeWidth, 0) })
	b.rect.Set(AttrStrokeWidth, highlightStroke)

	if e.deps.Selection != nil {
		e.deps.Selection.Notify(b.emission)
	}
}

// dragMove follows the pointer unless the new position would put the block
// before time zero, in which case the frame is ignored.
func (e *Engine) dragMove(b *block, dx float64) {
	if b.drag.phase != dragDragging {
		return
	}
	offset := dx + b.drag.priorOffset
	ms := e.zoom.PixelsToMs(b.rectBaseX + offset)
	if ms < 0 {
		return
	}
	b.drag.lastOffset = offset
	b.translate(offset)
	b.time.SetText(formatOffset(ms))
}

// dragEnd commits the last accepted position to the emission, then
// persists, then refreshes the inspector.
func (e *Engine) dragEnd(b *block) {
	if b.drag.phase != dragDragging {
		return
	}
	b.drag.phase = dragIdle
	b.drag.priorOffset = b.drag.lastOffset

	em := b.emission
	em.StartOffsetMs = e.zoom.PixelsToMs(b.rectBaseX + b.drag.priorOffset)
	b.committedOffsetMs = em.StartOffsetMs
	b.rect.Set(AttrOpacity, 1)

	e.logger.Debug().Str("emission", em.Name).Int64("start_offset_ms", em.StartOffsetMs).Msg("emission rescheduled")

	if e.deps.Persister != nil {
		if err := e.deps.Persister.Save(); err != nil {
			e.logger.Error().Err(err).Str("emission", em.Name).Msg("failed to save set after drag")
		}
	}
	if e.deps.Inspector != nil && e.deps.Inspector.IsShowing(em) {
		e.deps.Inspector.Refresh()
	}
}

// CancelDrags ends any gesture in progress as if the pointer was released
// at its last accepted position.
func (e *Engine) CancelDrags() {
	if !e.ready() {
		return
	}
	e.commitDrags()
	if e.pan.elements != nil {
		e.panEnd()
	}
}

// commitDrags ends block drags in progress at the current scale. Anything
// that redraws the blocks or changes the scale must call it first.
func (e *Engine) commitDrags() {
	e.blocks.each(func(b *block) {
		if b.drag.phase == dragDragging {
			e.dragEnd(b)
		}
	})
}
