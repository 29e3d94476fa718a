package timeline

import "time"

// sweepDuration is how long the play line takes to cross extent pixels at
// the given scale, so one second of layout takes one second to play.
func sweepDuration(extent, scale float64) time.Duration {
	if scale <= 0 {
		return 0
	}
	return time.Duration(extent * 1000 / scale * float64(time.Millisecond))
}

func (e *Engine) resetPlayLine(sweep bool) {
	if e.playLine == nil {
		return
	}
	// A sweep already in flight keeps animating from where it started.
	e.playLine.Set(AttrTranslateX, 0)
	e.playLine.Set(AttrX, 0)
	e.playLine.BringToFront()

	if !sweep {
		return
	}
	e.playLine.StopAnimation()
	e.sweeps++
	e.playLine.Animate(map[Attr]float64{AttrTranslateX: e.maxExtent}, sweepDuration(e.maxExtent, e.zoom.Scale()), 0)
}
