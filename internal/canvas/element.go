package canvas

import (
	"time"

	"github.com/tOgg1/emitline/internal/timeline"
)

type animation struct {
	to       map[timeline.Attr]float64
	from     map[timeline.Attr]float64
	start    time.Time
	duration time.Duration
	started  bool
}

// Element is a rect or text drawn on a Scene.
type Element struct {
	scene *Scene
	id    int
	kind  Kind

	attrs  map[timeline.Attr]float64
	text   string
	fill   string
	stroke string

	pointerEvents bool
	removed       bool

	anims []*animation

	drag      *timeline.DragHandlers
	onContext func(x, y float64)
	onWheel   func(deltaY float64)
}

var _ timeline.Element = (*Element)(nil)

// ID is unique within the scene.
func (e *Element) ID() int { return e.id }

// Kind reports whether the element is a rect or text.
func (e *Element) Kind() Kind { return e.kind }

// Get returns an attribute. Text width and height are measured.
func (e *Element) Get(attr timeline.Attr) float64 {
	if e.kind == KindText {
		switch attr {
		case timeline.AttrWidth:
			w, _ := e.scene.measure(e.text)
			return w
		case timeline.AttrHeight:
			_, h := e.scene.measure(e.text)
			return h
		}
	}
	return e.attrs[attr]
}

// Set assigns an attribute. Text size is derived and cannot be set.
func (e *Element) Set(attr timeline.Attr, value float64) {
	if e.kind == KindText && (attr == timeline.AttrWidth || attr == timeline.AttrHeight) {
		return
	}
	e.attrs[attr] = value
}

func (e *Element) Text() string        { return e.text }
func (e *Element) SetText(text string) { e.text = text }
func (e *Element) Fill() string        { return e.fill }
func (e *Element) SetFill(c string)    { e.fill = c }
func (e *Element) Stroke() string      { return e.stroke }
func (e *Element) SetStroke(c string)  { e.stroke = c }

// SetPointerEvents controls whether hit testing can land on the element.
func (e *Element) SetPointerEvents(enabled bool) { e.pointerEvents = enabled }

// PointerEvents reports whether the element intercepts pointer input.
func (e *Element) PointerEvents() bool { return e.pointerEvents }

// Removed reports whether the element was removed from its scene.
func (e *Element) Removed() bool { return e.removed }

// Animate queues a linear animation starting after delay. Starting values
// are read when the animation begins, not when it is queued.
func (e *Element) Animate(to map[timeline.Attr]float64, duration, delay time.Duration) {
	if e.removed || len(to) == 0 {
		return
	}
	target := make(map[timeline.Attr]float64, len(to))
	for k, v := range to {
		target[k] = v
	}
	e.anims = append(e.anims, &animation{
		to:       target,
		start:    e.scene.now.Add(delay),
		duration: duration,
	})
}

// StopAnimation drops pending and running animations, leaving attributes
// where they are.
func (e *Element) StopAnimation() {
	e.anims = nil
}

// Animating reports whether the element has queued animations.
func (e *Element) Animating() bool { return len(e.anims) > 0 }

func (e *Element) step(now time.Time) {
	if len(e.anims) == 0 {
		return
	}
	kept := e.anims[:0]
	for _, a := range e.anims {
		if now.Before(a.start) {
			kept = append(kept, a)
			continue
		}
		if !a.started {
			a.started = true
			a.from = make(map[timeline.Attr]float64, len(a.to))
			for k := range a.to {
				a.from[k] = e.attrs[k]
			}
		}
		progress := 1.0
		if a.duration > 0 {
			progress = float64(now.Sub(a.start)) / float64(a.duration)
			if progress > 1 {
				progress = 1
			}
		}
		for k, target := range a.to {
			from := a.from[k]
			e.attrs[k] = from + (target-from)*progress
		}
		if progress < 1 {
			kept = append(kept, a)
		}
	}
	e.anims = kept
}

// BringToFront moves the element to the top of the paint order.
func (e *Element) BringToFront() {
	if e.removed {
		return
	}
	e.scene.raise(e)
}

// Remove takes the element off the scene.
func (e *Element) Remove() {
	if e.removed {
		return
	}
	e.removed = true
	e.anims = nil
	e.scene.drop(e)
}

func (e *Element) OnDrag(handlers timeline.DragHandlers) {
	h := handlers
	e.drag = &h
}

func (e *Element) OnContextMenu(fn func(x, y float64)) { e.onContext = fn }

func (e *Element) OnWheel(fn func(deltaY float64)) { e.onWheel = fn }

// Bounds returns the on-screen box including translation and scale.
func (e *Element) Bounds() (x, y, w, h float64) {
	x = e.attrs[timeline.AttrX] + e.attrs[timeline.AttrTranslateX]
	y = e.attrs[timeline.AttrY] + e.attrs[timeline.AttrTranslateY]
	w = e.Get(timeline.AttrWidth)
	h = e.Get(timeline.AttrHeight)

	scale := e.attrs[timeline.AttrScale]
	if scale > 0 && scale != 1 {
		cx, cy := x+w/2, y+h/2
		w *= scale
		h *= scale
		x = cx - w/2
		y = cy - h/2
	}
	return x, y, w, h
}

func (e *Element) contains(px, py float64) bool {
	x, y, w, h := e.Bounds()
	return px >= x && px < x+w && py >= y && py < y+h
}
