package canvas

// hit returns the topmost element under (x, y) that takes pointer input.
func (s *Scene) hit(x, y float64) *Element {
	for i := len(s.elements) - 1; i >= 0; i-- {
		el := s.elements[i]
		if !el.pointerEvents || el.removed {
			continue
		}
		if el.contains(x, y) {
			return el
		}
	}
	return nil
}

// PointerDown starts a gesture on the topmost element under the pointer.
// It reports whether an element took the press.
func (s *Scene) PointerDown(x, y float64) bool {
	if s.gesture != nil {
		s.PointerUp(x, y)
	}
	target := s.hit(x, y)
	if target == nil {
		return false
	}
	s.gesture = &gesture{target: target, startX: x, startY: y}
	if target.drag != nil && target.drag.Start != nil {
		target.drag.Start(x, y)
	}
	return true
}

// PointerMove reports cumulative movement to the element being dragged.
func (s *Scene) PointerMove(x, y float64) {
	g := s.gesture
	if g == nil || g.target.drag == nil || g.target.drag.Move == nil {
		return
	}
	g.target.drag.Move(x-g.startX, y-g.startY)
}

// PointerUp ends the current gesture.
func (s *Scene) PointerUp(x, y float64) {
	g := s.gesture
	if g == nil {
		return
	}
	s.gesture = nil
	if g.target.drag != nil && g.target.drag.End != nil {
		g.target.drag.End()
	}
}

// Dragging reports whether a gesture is in progress.
func (s *Scene) Dragging() bool {
	return s.gesture != nil
}

// ContextMenu delivers a secondary click. It reports whether a handler ran.
func (s *Scene) ContextMenu(x, y float64) bool {
	target := s.hit(x, y)
	if target == nil || target.onContext == nil {
		return false
	}
	target.onContext(x, y)
	return true
}

// Wheel delivers a wheel delta to the element under the pointer.
func (s *Scene) Wheel(x, y, deltaY float64) bool {
	target := s.hit(x, y)
	if target == nil || target.onWheel == nil {
		return false
	}
	target.onWheel(deltaY)
	return true
}

// CellToPixel maps the centre of a terminal cell to scene pixels.
func (s *Scene) CellToPixel(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * s.cellW, (float64(row) + 0.5) * s.cellH
}
