package timeline

import "strconv"

const (
	ticksPerSecond  = 5
	minExtent       = 300.0
	axisHeight      = 25.0
	minorTickHeight = axisHeight - 15
	tickLabelY      = 20.0
	tickLabelGap    = 5.0
)

// Tick is one mark on the ruler.
type Tick struct {
	X       float64
	Second  bool
	Seconds int
	Label   string
}

// gridMark is a drawn tick or tick label with the x it was built at.
type gridMark struct {
	el    Element
	baseX float64
}

// GridTicks lays out the ruler for a content extent at the given scale.
// Ticks are scale/5 apart and cover twice the extent; every fifth tick is a
// labelled second mark.
func GridTicks(maxExtent, scale float64) []Tick {
	if scale <= 0 {
		return nil
	}
	if maxExtent < minExtent {
		maxExtent = minExtent
	}

	spacing := scale / ticksPerSecond
	end := maxExtent / spacing * 2

	ticks := make([]Tick, 0, int(end)+1)
	for i := 0; float64(i) < end; i++ {
		tick := Tick{X: float64(i) * spacing}
		if i%ticksPerSecond == 0 {
			tick.Second = true
			tick.Seconds = i / ticksPerSecond
			tick.Label = strconv.Itoa(tick.Seconds) + " (s)"
		}
		ticks = append(ticks, tick)
	}
	return ticks
}

func (e *Engine) clearGrid() {
	for _, mark := range e.grid {
		mark.el.Remove()
	}
	e.grid = e.grid[:0]
}

func (e *Engine) buildGrid() {
	e.clearGrid()

	height := e.surface.Height()
	for _, tick := range GridTicks(e.maxExtent, e.zoom.Scale()) {
		h := minorTickHeight
		if tick.Second {
			h = height
		}
		line := e.surface.Rect(tick.X, 0, 1, h, 0)
		line.SetFill(colorTick)
		line.Set(AttrStrokeWidth, 0)
		line.SetPointerEvents(false)
		e.grid = append(e.grid, gridMark{el: line, baseX: tick.X})

		if !tick.Second {
			continue
		}
		label := e.surface.Text(0, tickLabelY, tick.Label)
		label.SetPointerEvents(false)
		x := tick.X + tickLabelGap + label.Get(AttrWidth)
		label.Set(AttrX, x)
		e.grid = append(e.grid, gridMark{el: label, baseX: x})
	}
}
