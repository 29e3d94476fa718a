package canvas

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tOgg1/emitline/internal/models"
	"github.com/tOgg1/emitline/internal/timeline"
)

func TestRasterize_Hairlines(t *testing.T) {
	s := newTestScene()
	line := s.Rect(50, 0, 1, 200, 0)
	line.SetFill("#999")
	s.Rect(20, 0, 1, 10, 0).SetFill("#999")
	s.Rect(0, 77.5, 400, 1, 0).SetFill("#666")

	f := s.Rasterize(80, 10)
	require.Equal(t, 80, f.Cols)
	require.Equal(t, 10, f.Rows)

	require.Equal(t, runeShortTick, f.Cells[0][4].Rune)
	require.Equal(t, ' ', f.Cells[1][4].Rune)
	for r := 0; r < 10; r++ {
		if r == 3 {
			continue
		}
		require.Equal(t, runeVertical, f.Cells[r][10].Rune, "row %d", r)
		require.Equal(t, "#999", f.Cells[r][10].FG)
	}
	require.Equal(t, runeHorizontal, f.Cells[3][0].Rune)
	require.Equal(t, runeHorizontal, f.Cells[3][79].Rune)
	require.Equal(t, "#666", f.Cells[3][10].FG, "later elements paint over earlier ones")
}

func TestRasterize_BlocksAndText(t *testing.T) {
	s := newTestScene()
	block := s.Rect(100, 41, 100, 35, 16)
	block.SetFill("#ddd")
	s.Text(102.5, 30, "Hi")

	f := s.Rasterize(80, 10)
	require.Equal(t, "#ddd", f.Cells[2][20].BG)
	require.Equal(t, "#ddd", f.Cells[3][39].BG)
	require.Equal(t, "", f.Cells[3][40].BG)
	require.Equal(t, "", f.Cells[4][20].BG)
	require.False(t, f.Cells[2][20].Bold)

	require.Equal(t, 'H', f.Cells[2][21].Rune)
	require.Equal(t, 'i', f.Cells[2][22].Rune)
	require.Equal(t, "#ddd", f.Cells[2][21].BG, "text keeps the block behind it")
	require.Equal(t, defaultTextFill, f.Cells[2][21].FG)
}

func TestRasterize_HighlightAndFade(t *testing.T) {
	s := newTestScene()
	block := s.Rect(100, 41, 100, 35, 16)
	block.SetFill("#ddd")
	block.Set(timeline.AttrStrokeWidth, 2)
	block.Set(timeline.AttrOpacity, 0.3)

	f := s.Rasterize(80, 10)
	require.Equal(t, runeEdgeLeft, f.Cells[2][20].Rune)
	require.Equal(t, runeEdgeRight, f.Cells[2][39].Rune)
	require.True(t, f.Cells[2][25].Bold)
	require.True(t, f.Cells[3][25].Faint)
}

func TestRasterize_ClipsToFrame(t *testing.T) {
	s := newTestScene()
	s.Rect(-50, -50, 1000, 1000, 0).SetFill("#aaa")
	s.Text(390, 0, "overflowing")

	f := s.Rasterize(4, 2)
	require.Len(t, f.Cells, 2)
	require.Len(t, f.Cells[0], 4)
	require.Equal(t, "#aaa", f.Cells[1][3].BG)

	require.Empty(t, s.Rasterize(-1, -1).Cells)
}

func TestFrame_PlainAndStyled(t *testing.T) {
	s := newTestScene()
	s.Text(0, 0, "ab")

	f := s.Rasterize(4, 2)
	require.Equal(t, []string{"ab  ", "    "}, f.Plain())

	styled := f.Styled()
	require.Len(t, styled, 2)
	require.Contains(t, styled[0], "ab")
}

func TestRasterize_WideRunes(t *testing.T) {
	s := newTestScene()
	s.Text(0, 0, "時x")

	f := s.Rasterize(5, 1)
	require.Equal(t, '時', f.Cells[0][0].Rune)
	require.Equal(t, rune(0), f.Cells[0][1].Rune)
	require.Equal(t, 'x', f.Cells[0][2].Rune)
	require.Equal(t, []string{"時x  "}, f.Plain())
}

func TestScene_HostsTimeline(t *testing.T) {
	scene := NewScene(800, 400, WithClock(fixedClock))
	engine := timeline.New(timeline.NewZoomContext(100), timeline.Deps{})
	engine.Attach(scene)

	a := &models.Emission{ID: "a", Name: "A", StartOffsetMs: 0}
	b := &models.Emission{ID: "b", Name: "B", StartOffsetMs: 1000}
	set := &models.EmissionSet{ID: "s", Name: "s", Emissions: []*models.Emission{a, b}}
	engine.SetSet(set)

	lines := scene.Rasterize(160, 20).Plain()
	require.Contains(t, lines[1], "0 (s)")
	require.Contains(t, lines[2], "A")
	require.Contains(t, lines[3], "0 (ms)")
	require.Contains(t, lines[4], "B")
	require.Contains(t, lines[5], "1000 (ms)")
	require.True(t, scene.Animating(), "new set starts a sweep")

	// Drag block B left by 50px through pointer events.
	x, y := scene.CellToPixel(30, 4)
	require.True(t, scene.PointerDown(x, y))
	scene.PointerMove(x-50, y)
	scene.PointerUp(x-50, y)
	require.Equal(t, int64(500), b.StartOffsetMs)

	lines = scene.Rasterize(160, 20).Plain()
	require.True(t, strings.Contains(lines[5], "500 (ms)"))
}

func TestScene_ResizeDuringDragKeepsEdit(t *testing.T) {
	scene := NewScene(800, 400, WithClock(fixedClock))
	engine := timeline.New(timeline.NewZoomContext(100), timeline.Deps{})
	engine.Attach(scene)

	b := &models.Emission{ID: "b", Name: "B", StartOffsetMs: 1000}
	a := &models.Emission{ID: "a", Name: "A", StartOffsetMs: 0}
	engine.SetSet(&models.EmissionSet{ID: "s", Name: "s", Emissions: []*models.Emission{a, b}})

	x, y := scene.CellToPixel(30, 4)
	require.True(t, scene.PointerDown(x, y))
	scene.PointerMove(x+50, y)
	engine.Resize(900, 400)
	scene.PointerUp(x+50, y)

	require.Equal(t, int64(1500), b.StartOffsetMs)
	require.False(t, scene.Dragging())
}

func TestFrame_Overlay(t *testing.T) {
	f := newTestScene().Rasterize(6, 2)

	n := f.Overlay(4, 1, "a時b", Cell{FG: "#fff", BG: "#000", Bold: true})
	require.Equal(t, 4, n)
	require.Equal(t, 'a', f.Cells[1][4].Rune)
	require.Equal(t, '時', f.Cells[1][5].Rune)
	require.Equal(t, "#000", f.Cells[1][5].BG)
	require.True(t, f.Cells[1][5].Bold)
	require.Equal(t, []string{"      ", "    a時"}, f.Plain())
}
