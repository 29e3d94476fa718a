package timeline

import (
	"time"

	"github.com/tOgg1/emitline/internal/models"
)

const (
	fakeGlyphWidth = 7.0
	fakeTextHeight = 14.0
)

type fakeAnimation struct {
	to       map[Attr]float64
	duration time.Duration
	delay    time.Duration
}

type fakeElement struct {
	surface *fakeSurface
	kind    string
	attrs   map[Attr]float64
	text    string
	fill    string
	stroke  string
	pointer bool
	removed bool

	anims []fakeAnimation
	stops int

	drag      *DragHandlers
	onContext func(x, y float64)
	onWheel   func(deltaY float64)
}

func (f *fakeElement) Get(attr Attr) float64 {
	if f.kind == "text" {
		switch attr {
		case AttrWidth:
			return float64(len(f.text)) * fakeGlyphWidth
		case AttrHeight:
			return fakeTextHeight
		}
	}
	return f.attrs[attr]
}

func (f *fakeElement) Set(attr Attr, value float64) { f.attrs[attr] = value }
func (f *fakeElement) Text() string                 { return f.text }
func (f *fakeElement) SetText(text string)          { f.text = text }
func (f *fakeElement) SetFill(c string)             { f.fill = c }
func (f *fakeElement) SetStroke(c string)           { f.stroke = c }
func (f *fakeElement) SetPointerEvents(on bool)     { f.pointer = on }

func (f *fakeElement) Animate(to map[Attr]float64, duration, delay time.Duration) {
	f.anims = append(f.anims, fakeAnimation{to: to, duration: duration, delay: delay})
}

func (f *fakeElement) StopAnimation() { f.stops++ }

func (f *fakeElement) BringToFront() {
	s := f.surface
	for i, el := range s.elements {
		if el == f {
			s.elements = append(s.elements[:i], s.elements[i+1:]...)
			break
		}
	}
	s.elements = append(s.elements, f)
}

func (f *fakeElement) Remove() {
	f.removed = true
	s := f.surface
	for i, el := range s.elements {
		if el == f {
			s.elements = append(s.elements[:i], s.elements[i+1:]...)
			return
		}
	}
}

func (f *fakeElement) OnDrag(h DragHandlers)               { f.drag = &h }
func (f *fakeElement) OnContextMenu(fn func(x, y float64)) { f.onContext = fn }
func (f *fakeElement) OnWheel(fn func(deltaY float64))     { f.onWheel = fn }

// x is the on-screen left edge, translation included.
func (f *fakeElement) x() float64 {
	return f.attrs[AttrX] + f.attrs[AttrTranslateX]
}

type fakeSurface struct {
	width    float64
	height   float64
	elements []*fakeElement
	cleared  bool
}

func newFakeSurface(width, height float64) *fakeSurface {
	return &fakeSurface{width: width, height: height}
}

func (s *fakeSurface) add(kind string, x, y float64) *fakeElement {
	el := &fakeElement{
		surface: s,
		kind:    kind,
		pointer: true,
		attrs:   map[Attr]float64{AttrX: x, AttrY: y, AttrOpacity: 1, AttrScale: 1},
	}
	s.elements = append(s.elements, el)
	return el
}

func (s *fakeSurface) Rect(x, y, w, h, r float64) Element {
	el := s.add("rect", x, y)
	el.attrs[AttrWidth] = w
	el.attrs[AttrHeight] = h
	el.attrs[AttrRadius] = r
	return el
}

func (s *fakeSurface) Text(x, y float64, text string) Element {
	el := s.add("text", x, y)
	el.text = text
	return el
}

func (s *fakeSurface) Resize(w, h float64) { s.width, s.height = w, h }
func (s *fakeSurface) Width() float64      { return s.width }
func (s *fakeSurface) Height() float64     { return s.height }

func (s *fakeSurface) Clear() {
	for _, el := range s.elements {
		el.removed = true
	}
	s.elements = nil
	s.cleared = true
}

func (s *fakeSurface) indexOf(el Element) int {
	for i, candidate := range s.elements {
		if candidate == el {
			return i
		}
	}
	return -1
}

func (s *fakeSurface) texts() []string {
	var out []string
	for _, el := range s.elements {
		if el.kind == "text" {
			out = append(out, el.text)
		}
	}
	return out
}

type stubCollection struct {
	cloned  []*models.Emission
	removed []*models.Emission
}

func (c *stubCollection) Clone(e *models.Emission)  { c.cloned = append(c.cloned, e) }
func (c *stubCollection) Remove(e *models.Emission) { c.removed = append(c.removed, e) }

type stubSelection struct {
	selected []*models.Emission
}

func (s *stubSelection) Notify(e *models.Emission) { s.selected = append(s.selected, e) }

type stubMenu struct {
	x, y  float64
	items []MenuItem
}

func (m *stubMenu) Show(x, y float64, items []MenuItem) {
	m.x, m.y, m.items = x, y, items
}

// callLog records collaborator calls in order.
type callLog struct {
	calls []string
}

type stubPersister struct {
	log   *callLog
	saved []int64
	err   error
	watch *models.Emission
}

func (p *stubPersister) Save() error {
	p.log.calls = append(p.log.calls, "save")
	if p.watch != nil {
		p.saved = append(p.saved, p.watch.StartOffsetMs)
	}
	return p.err
}

type stubInspector struct {
	log     *callLog
	current *models.Emission
}

func (i *stubInspector) IsShowing(e *models.Emission) bool { return i.current == e }
func (i *stubInspector) Refresh()                          { i.log.calls = append(i.log.calls, "refresh") }

func newSet(name string, emissions ...*models.Emission) *models.EmissionSet {
	set := &models.EmissionSet{ID: name, Name: name, Emissions: emissions}
	set.Renumber()
	return set
}

func emission(name string, offset int64) *models.Emission {
	return &models.Emission{ID: name, Name: name, StartOffsetMs: offset}
}

func attachedEngine(deps Deps) (*Engine, *fakeSurface) {
	surface := newFakeSurface(800, 400)
	engine := New(NewZoomContext(DefaultScale), deps)
	engine.Attach(surface)
	return engine, surface
}

func rectOf(e *Engine, em *models.Emission) *fakeElement {
	b, _ := e.blocks.get(em)
	return b.rect.(*fakeElement)
}

func blockOf(e *Engine, em *models.Emission) *block {
	b, _ := e.blocks.get(em)
	return b
}
