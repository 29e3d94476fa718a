package timeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDrag_CommitsDroppedPosition(t *testing.T) {
	a := emission("A", 0)
	log := &callLog{}
	persister := &stubPersister{log: log, watch: a}
	inspector := &stubInspector{log: log, current: a}
	selection := &stubSelection{}
	e, _ := attachedEngine(Deps{Persister: persister, Inspector: inspector, Selection: selection})
	e.SetSet(newSet("s", a))
	rect := rectOf(e, a)

	rect.drag.Start(10, 50)
	require.Equal(t, dragOpacity, rect.attrs[AttrOpacity])
	require.Equal(t, highlightStroke, rect.attrs[AttrStrokeWidth])
	require.Len(t, selection.selected, 1)
	require.Same(t, a, selection.selected[0])

	rect.drag.Move(20, 3)
	rect.drag.Move(50, -4)
	require.Equal(t, "500 (ms)", blockOf(e, a).time.Text())
	require.Equal(t, int64(0), a.StartOffsetMs, "nothing committed mid-drag")

	rect.drag.End()
	require.Equal(t, int64(500), a.StartOffsetMs)
	require.Equal(t, 1.0, rect.attrs[AttrOpacity])
	require.Equal(t, []string{"save", "refresh"}, log.calls)
	require.Equal(t, []int64{500}, persister.saved, "save sees the committed offset")

	for _, el := range []Element{rect, blockOf(e, a).name, blockOf(e, a).time} {
		require.Equal(t, 50.0, el.Get(AttrTranslateX))
	}
}

func TestDrag_RejectsNegativeFrames(t *testing.T) {
	a := emission("A", 300)
	e, _ := attachedEngine(Deps{})
	e.SetSet(newSet("s", a))
	rect := rectOf(e, a)

	rect.drag.Start(0, 0)
	rect.drag.Move(-20, 0)
	require.Equal(t, "100 (ms)", blockOf(e, a).time.Text())

	rect.drag.Move(-45, 0)
	require.Equal(t, -20.0, rect.Get(AttrTranslateX), "frame before zero ignored")
	require.Equal(t, "100 (ms)", blockOf(e, a).time.Text())

	rect.drag.End()
	require.Equal(t, int64(100), a.StartOffsetMs)
}

func TestDrag_LabelMatchesCommit(t *testing.T) {
	a := emission("A", 0)
	e, _ := attachedEngine(Deps{})
	e.SetSet(newSet("s", a))
	rect := rectOf(e, a)

	rect.drag.Start(0, 0)
	rect.drag.Move(13.37, 0)
	rect.drag.End()

	require.Equal(t, int64(133), a.StartOffsetMs)
	require.Equal(t, formatOffset(a.StartOffsetMs), blockOf(e, a).time.Text())
}

func TestDrag_AccumulatesAcrossGestures(t *testing.T) {
	a := emission("A", 0)
	e, _ := attachedEngine(Deps{})
	e.SetSet(newSet("s", a))
	rect := rectOf(e, a)

	rect.drag.Start(0, 0)
	rect.drag.Move(30, 0)
	rect.drag.End()

	rect.drag.Start(0, 0)
	rect.drag.Move(20, 0)
	rect.drag.End()

	require.Equal(t, int64(500), a.StartOffsetMs)
	require.Equal(t, 50.0, rect.Get(AttrTranslateX))
}

func TestDrag_HighlightsOnlyActiveBlock(t *testing.T) {
	a, b := emission("A", 0), emission("B", 100)
	e, _ := attachedEngine(Deps{})
	e.SetSet(newSet("s", a, b))

	rectOf(e, a).drag.Start(0, 0)
	rectOf(e, a).drag.End()
	rectOf(e, b).drag.Start(0, 0)

	require.Equal(t, 0.0, rectOf(e, a).attrs[AttrStrokeWidth])
	require.Equal(t, highlightStroke, rectOf(e, b).attrs[AttrStrokeWidth])
}

func TestDrag_SaveErrorStillRefreshes(t *testing.T) {
	a := emission("A", 0)
	log := &callLog{}
	e, _ := attachedEngine(Deps{
		Persister: &stubPersister{log: log, err: errors.New("disk full")},
		Inspector: &stubInspector{log: log, current: a},
	})
	e.SetSet(newSet("s", a))

	rect := rectOf(e, a)
	rect.drag.Start(0, 0)
	rect.drag.Move(10, 0)
	rect.drag.End()

	require.Equal(t, int64(100), a.StartOffsetMs)
	require.Equal(t, []string{"save", "refresh"}, log.calls)
}

func TestDrag_InspectorShowingOtherEmissionNotRefreshed(t *testing.T) {
	a, b := emission("A", 0), emission("B", 0)
	log := &callLog{}
	e, _ := attachedEngine(Deps{Inspector: &stubInspector{log: log, current: b}})
	e.SetSet(newSet("s", a, b))

	rect := rectOf(e, a)
	rect.drag.Start(0, 0)
	rect.drag.End()
	require.Empty(t, log.calls)
}

func TestDrag_MoveWithoutStartIgnored(t *testing.T) {
	a := emission("A", 0)
	e, _ := attachedEngine(Deps{})
	e.SetSet(newSet("s", a))

	rect := rectOf(e, a)
	rect.drag.Move(40, 0)
	rect.drag.End()
	require.Equal(t, 0.0, rect.Get(AttrTranslateX))
	require.Equal(t, int64(0), a.StartOffsetMs)
}

func TestCancelDrags_CommitsLastAcceptedPosition(t *testing.T) {
	a := emission("A", 0)
	e, _ := attachedEngine(Deps{})
	e.SetSet(newSet("s", a))

	rect := rectOf(e, a)
	rect.drag.Start(0, 0)
	rect.drag.Move(25, 0)
	e.CancelDrags()

	require.Equal(t, int64(250), a.StartOffsetMs)
	require.Equal(t, 1.0, rect.attrs[AttrOpacity])
}

func TestDrag_ResizeMidDragCommitsPosition(t *testing.T) {
	a := emission("A", 0)
	log := &callLog{}
	persister := &stubPersister{log: log, watch: a}
	e, _ := attachedEngine(Deps{Persister: persister})
	e.SetSet(newSet("s", a))

	stale := rectOf(e, a)
	stale.drag.Start(0, 0)
	stale.drag.Move(50, 0)
	e.Resize(900, 400)

	require.Equal(t, int64(500), a.StartOffsetMs)
	require.Equal(t, []int64{500}, persister.saved)

	stale.drag.End()
	require.Equal(t, []string{"save"}, log.calls, "release after redraw is a no-op")

	fresh := blockOf(e, a)
	require.Equal(t, "500 (ms)", fresh.time.Text())
	require.Equal(t, 1.0, rectOf(e, a).attrs[AttrOpacity])
}

func TestDrag_WheelMidDragCommitsAtPriorScale(t *testing.T) {
	a := emission("A", 0)
	e, _ := attachedEngine(Deps{})
	e.SetSet(newSet("s", a))

	rect := rectOf(e, a)
	rect.drag.Start(0, 0)
	rect.drag.Move(50, 0)
	e.ZoomBy(100)

	require.Equal(t, int64(500), a.StartOffsetMs)
	require.Less(t, e.zoom.Scale(), DefaultScale)
	require.Equal(t, "500 (ms)", blockOf(e, a).time.Text())
}
