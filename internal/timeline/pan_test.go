package timeline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPan_MovesContentButNotBackdrop(t *testing.T) {
	a := emission("A", 1000)
	e, _ := attachedEngine(Deps{})
	e.SetSet(newSet("s", a))
	bg := e.background.(*fakeElement)
	b := blockOf(e, a)

	bg.drag.Start(400, 200)
	bg.drag.Move(-30, 12)

	require.Equal(t, 70.0, b.rect.Get(AttrX))
	require.Equal(t, b.nameBaseX-30, b.name.Get(AttrX))
	require.Equal(t, b.timeBaseX-30, b.time.Get(AttrX))
	require.Equal(t, -30.0, e.grid[0].el.Get(AttrX))
	require.Equal(t, -30.0, e.playLine.Get(AttrX))

	require.Equal(t, 0.0, bg.Get(AttrX))
	require.Equal(t, 0.0, e.axis.Get(AttrX))
	require.Equal(t, 0.0, b.separator.Get(AttrX), "separators stay anchored")
	require.Equal(t, 0.0, b.rect.Get(AttrTranslateX))
}

func TestPan_ContinuesFromCommittedOffset(t *testing.T) {
	a := emission("A", 0)
	e, _ := attachedEngine(Deps{})
	e.SetSet(newSet("s", a))
	bg := e.background.(*fakeElement)

	bg.drag.Start(0, 0)
	bg.drag.Move(40, 0)
	bg.drag.End()
	require.Equal(t, 40.0, e.PanOffset())

	bg.drag.Start(0, 0)
	bg.drag.Move(-10, 0)
	require.Equal(t, 30.0, rectOf(e, a).Get(AttrX))
	bg.drag.End()
	require.Equal(t, 30.0, e.PanOffset())
}

func TestPan_ResetByRebuild(t *testing.T) {
	a := emission("A", 0)
	set := newSet("s", a)
	e, _ := attachedEngine(Deps{})
	e.SetSet(set)
	bg := e.background.(*fakeElement)

	bg.drag.Start(0, 0)
	bg.drag.Move(40, 0)
	bg.drag.End()

	e.SetSet(set)
	require.Equal(t, 0.0, e.PanOffset())
	require.Equal(t, 0.0, rectOf(e, a).Get(AttrX))
}

func TestPan_CombinesWithBlockDrag(t *testing.T) {
	a := emission("A", 0)
	e, _ := attachedEngine(Deps{})
	e.SetSet(newSet("s", a))
	bg := e.background.(*fakeElement)
	rect := rectOf(e, a)

	bg.drag.Start(0, 0)
	bg.drag.Move(60, 0)
	bg.drag.End()

	// Position on screen is base + pan + drag, but time ignores the pan.
	rect.drag.Start(0, 0)
	rect.drag.Move(20, 0)
	rect.drag.End()

	require.Equal(t, 80.0, rect.x())
	require.Equal(t, int64(200), a.StartOffsetMs)
}

func TestCancelDrags_EndsPan(t *testing.T) {
	e, _ := attachedEngine(Deps{})
	e.SetSet(newSet("s", emission("A", 0)))
	bg := e.background.(*fakeElement)

	bg.drag.Start(0, 0)
	bg.drag.Move(15, 0)
	e.CancelDrags()
	require.Equal(t, 15.0, e.PanOffset())
}

func TestWheel_ZoomsAndRedraws(t *testing.T) {
	a := emission("A", 1000)
	e, _ := attachedEngine(Deps{})
	e.SetSet(newSet("s", a))
	bg := e.background.(*fakeElement)

	bg.onWheel(1000)

	require.Equal(t, 50.0, e.Zoom().Scale())
	require.Equal(t, 50.0, rectOf(e, a).x())
	require.Equal(t, 10.0, e.grid[2].baseX-e.grid[0].baseX, "minor ticks 10px apart")
	require.Equal(t, 1, e.Sweeps())
}

func TestWheel_FloorsScale(t *testing.T) {
	e, _ := attachedEngine(Deps{})
	e.SetSet(newSet("s", emission("A", 0)))

	e.ZoomBy(5000)
	require.Equal(t, DefaultMinScale, e.Zoom().Scale())
}

func TestWheel_IgnoredWithoutSet(t *testing.T) {
	e, _ := attachedEngine(Deps{})
	e.background.(*fakeElement).onWheel(1000)
	require.Equal(t, DefaultScale, e.Zoom().Scale())
}
