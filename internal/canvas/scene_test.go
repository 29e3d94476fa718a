package canvas

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tOgg1/emitline/internal/timeline"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return epoch }

func newTestScene() *Scene {
	return NewScene(400, 200, WithClock(fixedClock))
}

func TestScene_PaintOrder(t *testing.T) {
	s := newTestScene()
	a := s.Rect(0, 0, 10, 10, 0)
	b := s.Rect(0, 0, 10, 10, 0)
	c := s.Text(0, 0, "c")

	a.BringToFront()
	els := s.Elements()
	require.Len(t, els, 3)
	require.Same(t, b, els[0])
	require.Same(t, c, els[1])
	require.Same(t, a, els[2])

	b.Remove()
	require.Len(t, s.Elements(), 2)
	require.True(t, b.(*Element).Removed())

	b.BringToFront()
	require.Len(t, s.Elements(), 2, "removed elements are not re-added")
}

func TestScene_Defaults(t *testing.T) {
	s := newTestScene()
	rect := s.Rect(1, 2, 3, 4, 5).(*Element)
	require.Equal(t, KindRect, rect.Kind())
	require.Equal(t, 1.0, rect.Get(timeline.AttrOpacity))
	require.Equal(t, 1.0, rect.Get(timeline.AttrScale))
	require.Equal(t, 0.0, rect.Get(timeline.AttrStrokeWidth))
	require.Equal(t, 5.0, rect.Get(timeline.AttrRadius))
	require.True(t, rect.PointerEvents())

	text := s.Text(0, 0, "hi").(*Element)
	require.Equal(t, defaultTextFill, text.Fill())
	require.NotEqual(t, rect.ID(), text.ID())

	w, h := s.CellSize()
	require.Equal(t, DefaultCellWidth, w)
	require.Equal(t, DefaultCellHeight, h)
}

func TestText_MeasuresDisplayWidth(t *testing.T) {
	s := NewScene(400, 200, WithCellSize(8, 16))
	text := s.Text(0, 0, "1000 (ms)")

	require.Equal(t, 72.0, text.Get(timeline.AttrWidth))
	require.Equal(t, 16.0, text.Get(timeline.AttrHeight))

	text.Set(timeline.AttrWidth, 3)
	require.Equal(t, 72.0, text.Get(timeline.AttrWidth), "text size is derived")

	wide := s.Text(0, 0, "時間")
	require.Equal(t, 32.0, wide.Get(timeline.AttrWidth))
}

func TestScene_Clear(t *testing.T) {
	s := newTestScene()
	el := s.Rect(0, 0, 100, 100, 0)
	el.OnDrag(timeline.DragHandlers{})
	require.True(t, s.PointerDown(5, 5))

	s.Clear()
	require.Empty(t, s.Elements())
	require.True(t, el.(*Element).Removed())
	require.False(t, s.Dragging())
}

func TestAnimate_InterpolatesLinearly(t *testing.T) {
	s := newTestScene()
	el := s.Rect(0, 0, 1, 100, 0)

	el.Animate(map[timeline.Attr]float64{timeline.AttrTranslateX: 300}, 3*time.Second, 0)
	require.True(t, s.Animating())

	s.Advance(epoch.Add(time.Second))
	require.InDelta(t, 100.0, el.Get(timeline.AttrTranslateX), 1e-9)

	s.Advance(epoch.Add(2500 * time.Millisecond))
	require.InDelta(t, 250.0, el.Get(timeline.AttrTranslateX), 1e-9)

	s.Advance(epoch.Add(10 * time.Second))
	require.Equal(t, 300.0, el.Get(timeline.AttrTranslateX))
	require.False(t, s.Animating())
}

func TestAnimate_DelayedStartReadsCurrentValue(t *testing.T) {
	s := newTestScene()
	el := s.Rect(0, 0, 100, 35, 16)

	el.Animate(map[timeline.Attr]float64{timeline.AttrScale: 1.25}, 300*time.Millisecond, 500*time.Millisecond)
	el.Animate(map[timeline.Attr]float64{timeline.AttrScale: 1}, 300*time.Millisecond, 801*time.Millisecond)

	s.Advance(epoch.Add(400 * time.Millisecond))
	require.Equal(t, 1.0, el.Get(timeline.AttrScale), "not started yet")

	s.Advance(epoch.Add(650 * time.Millisecond))
	require.InDelta(t, 1.125, el.Get(timeline.AttrScale), 1e-9)

	s.Advance(epoch.Add(800 * time.Millisecond))
	require.Equal(t, 1.25, el.Get(timeline.AttrScale))

	s.Advance(epoch.Add(1200 * time.Millisecond))
	require.Equal(t, 1.0, el.Get(timeline.AttrScale))
	require.False(t, el.(*Element).Animating())
}

func TestAnimate_StopLeavesAttributes(t *testing.T) {
	s := newTestScene()
	el := s.Rect(0, 0, 1, 100, 0)
	el.Animate(map[timeline.Attr]float64{timeline.AttrTranslateX: 100}, time.Second, 0)

	s.Advance(epoch.Add(500 * time.Millisecond))
	el.StopAnimation()
	s.Advance(epoch.Add(time.Second))

	require.InDelta(t, 50.0, el.Get(timeline.AttrTranslateX), 1e-9)
	require.False(t, s.Animating())
}

func TestAnimate_RemovedElementIgnored(t *testing.T) {
	s := newTestScene()
	el := s.Rect(0, 0, 1, 1, 0)
	el.Remove()
	el.Animate(map[timeline.Attr]float64{timeline.AttrX: 5}, time.Second, 0)
	require.False(t, el.(*Element).Animating())
}

func TestBounds_ScalesAboutCentre(t *testing.T) {
	s := newTestScene()
	el := s.Rect(100, 40, 100, 40, 16)
	el.Set(timeline.AttrTranslateX, 10)
	el.Set(timeline.AttrScale, 1.5)

	x, y, w, h := el.(*Element).Bounds()
	require.Equal(t, 85.0, x)
	require.Equal(t, 30.0, y)
	require.Equal(t, 150.0, w)
	require.Equal(t, 60.0, h)
}
