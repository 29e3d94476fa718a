package timeline

type movable struct {
	el    Element
	baseX float64
}

type panState struct {
	committed float64
	last      float64
	elements  []movable
}

func (e *Engine) bindBackground() {
	e.background.OnDrag(DragHandlers{
		Start: func(x, y float64) { e.panStart() },
		Move:  func(dx, dy float64) { e.panMove(dx) },
		End:   e.panEnd,
	})
	e.background.OnWheel(e.wheelZoom)
}

// movableElements lists everything that follows a pan. The background, the
// axis backdrop and the row separators stay put.
func (e *Engine) movableElements() []movable {
	out := make([]movable, 0, len(e.grid)+3*e.blocks.len()+1)
	for _, mark := range e.grid {
		out = append(out, movable{el: mark.el, baseX: mark.baseX})
	}
	e.blocks.each(func(b *block) {
		out = append(out,
			movable{el: b.rect, baseX: b.rectBaseX},
			movable{el: b.name, baseX: b.nameBaseX},
			movable{el: b.time, baseX: b.timeBaseX},
		)
	})
	if e.playLine != nil {
		out = append(out, movable{el: e.playLine})
	}
	return out
}

func (e *Engine) panStart() {
	e.pan.elements = e.movableElements()
	e.pan.last = e.pan.committed
}

func (e *Engine) panMove(dx float64) {
	e.pan.last = dx + e.pan.committed
	for _, m := range e.pan.elements {
		m.el.Set(AttrX, m.baseX+e.pan.last)
	}
}

func (e *Engine) panEnd() {
	e.pan.committed = e.pan.last
	e.pan.elements = nil
}

// wheelZoom changes the shared scale and redraws from x=0.
func (e *Engine) wheelZoom(deltaY float64) {
	if !e.ready() {
		return
	}
	e.commitDrags()
	scale := e.zoom.ApplyWheel(deltaY)
	e.logger.Debug().Float64("delta_y", deltaY).Float64("scale", scale).Msg("timeline zoomed")
	e.SetSet(e.set)
}

// ZoomBy applies a wheel delta as if it came from the background.
func (e *Engine) ZoomBy(deltaY float64) {
	e.wheelZoom(deltaY)
}
