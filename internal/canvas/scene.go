// Package canvas is a retained-mode drawing surface rendered to terminal
// cells. It implements timeline.Surface and dispatches pointer input to the
// elements drawn on it.
package canvas

import (
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/tOgg1/emitline/internal/timeline"
)

const (
	DefaultCellWidth  = 5.0
	DefaultCellHeight = 20.0

	defaultTextFill = "#000"
)

// Kind is the shape of an element.
type Kind int

const (
	KindRect Kind = iota
	KindText
)

// Clock returns the current time. Tests inject a fixed clock.
type Clock func() time.Time

// Option configures a Scene.
type Option func(*Scene)

// WithCellSize sets how many pixels one terminal cell covers.
func WithCellSize(width, height float64) Option {
	return func(s *Scene) {
		if width > 0 {
			s.cellW = width
		}
		if height > 0 {
			s.cellH = height
		}
	}
}

// WithClock replaces the wall clock used to start animations.
func WithClock(clock Clock) Option {
	return func(s *Scene) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// Scene holds elements in paint order, bottom first.
type Scene struct {
	width  float64
	height float64
	cellW  float64
	cellH  float64

	clock    Clock
	now      time.Time
	elements []*Element
	nextID   int

	gesture *gesture
}

type gesture struct {
	target *Element
	startX float64
	startY float64
}

var _ timeline.Surface = (*Scene)(nil)

// NewScene creates a scene of the given pixel size.
func NewScene(width, height float64, opts ...Option) *Scene {
	s := &Scene{
		width:  width,
		height: height,
		cellW:  DefaultCellWidth,
		cellH:  DefaultCellHeight,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.now = s.clock()
	return s
}

// Rect adds a rectangle on top of the scene.
func (s *Scene) Rect(x, y, width, height, radius float64) timeline.Element {
	el := s.add(KindRect)
	el.attrs[timeline.AttrX] = x
	el.attrs[timeline.AttrY] = y
	el.attrs[timeline.AttrWidth] = width
	el.attrs[timeline.AttrHeight] = height
	el.attrs[timeline.AttrRadius] = radius
	return el
}

// Text adds a text element whose top-left corner is (x, y).
func (s *Scene) Text(x, y float64, text string) timeline.Element {
	el := s.add(KindText)
	el.attrs[timeline.AttrX] = x
	el.attrs[timeline.AttrY] = y
	el.fill = defaultTextFill
	el.text = text
	return el
}

func (s *Scene) add(kind Kind) *Element {
	s.nextID++
	el := &Element{
		scene:         s,
		id:            s.nextID,
		kind:          kind,
		pointerEvents: true,
		attrs: map[timeline.Attr]float64{
			timeline.AttrOpacity: 1,
			timeline.AttrScale:   1,
		},
	}
	s.elements = append(s.elements, el)
	return el
}

// Resize changes the pixel size of the scene.
func (s *Scene) Resize(width, height float64) {
	s.width = width
	s.height = height
}

func (s *Scene) Width() float64  { return s.width }
func (s *Scene) Height() float64 { return s.height }

// CellSize returns the pixel size of one terminal cell.
func (s *Scene) CellSize() (float64, float64) { return s.cellW, s.cellH }

// Clear removes every element and drops any gesture in progress.
func (s *Scene) Clear() {
	for _, el := range s.elements {
		el.removed = true
	}
	s.elements = nil
	s.gesture = nil
}

// Elements returns the live elements in paint order.
func (s *Scene) Elements() []*Element {
	out := make([]*Element, len(s.elements))
	copy(out, s.elements)
	return out
}

// Now returns the scene's animation time.
func (s *Scene) Now() time.Time { return s.now }

// Advance moves animations forward to now.
func (s *Scene) Advance(now time.Time) {
	s.now = now
	for _, el := range s.elements {
		el.step(now)
	}
}

// Animating reports whether any animation is pending or running.
func (s *Scene) Animating() bool {
	for _, el := range s.elements {
		if len(el.anims) > 0 {
			return true
		}
	}
	return false
}

func (s *Scene) measure(text string) (float64, float64) {
	return float64(runewidth.StringWidth(text)) * s.cellW, s.cellH
}

func (s *Scene) raise(el *Element) {
	idx := s.indexOf(el)
	if idx == -1 || idx == len(s.elements)-1 {
		return
	}
	copy(s.elements[idx:], s.elements[idx+1:])
	s.elements[len(s.elements)-1] = el
}

func (s *Scene) drop(el *Element) {
	idx := s.indexOf(el)
	if idx == -1 {
		return
	}
	s.elements = append(s.elements[:idx], s.elements[idx+1:]...)
	if s.gesture != nil && s.gesture.target == el {
		s.gesture = nil
	}
}

func (s *Scene) indexOf(el *Element) int {
	for i, candidate := range s.elements {
		if candidate == el {
			return i
		}
	}
	return -1
}
