package timeline

import (
	"math"
	"strconv"
	"time"

	"github.com/tOgg1/emitline/internal/models"
)

const (
	rowHeight      = 40.0
	blockWidth     = 100.0
	blockHeight    = 35.0
	blockRadius    = 16.0
	labelOffsetY   = 10.0
	separatorInset = 2.5

	pulseScale       = 1.25
	pulseStrokeWidth = 5.0
	pulseDuration    = 300 * time.Millisecond
)

func formatOffset(ms int64) string {
	return strconv.FormatInt(ms, 10) + " (ms)"
}

// RowsFor is how many cells of height cellHeight fit the axis and n
// emission rows.
func RowsFor(n int, cellHeight float64) int {
	if n < 0 {
		n = 0
	}
	if cellHeight <= 0 {
		return 0
	}
	return int(math.Ceil(rowHeight * float64(n+1) / cellHeight))
}

// rebuild destroys every block and tick and draws set from scratch.
func (e *Engine) rebuild(set *models.EmissionSet) {
	e.commitDrags()
	shouldPlay := e.set != set
	e.maxExtent = 0
	e.pan = panState{}
	e.set = set

	e.blocks.clear()
	e.clearGrid()

	for i, em := range set.Emissions {
		if em == nil {
			continue
		}
		b := e.buildBlock(i+1, em, shouldPlay)
		if right := b.rectBaseX + blockWidth; right > e.maxExtent {
			e.maxExtent = right
		}
	}
	if e.maxExtent < minExtent {
		e.maxExtent = minExtent
	}

	e.buildGrid()
	e.resetPlayLine(shouldPlay)

	e.blocks.each(func(b *block) { b.rect.BringToFront() })
	e.blocks.each(func(b *block) { b.name.BringToFront() })
	e.blocks.each(func(b *block) { b.time.BringToFront() })

	e.logger.Debug().
		Str("set", set.Name).
		Int("blocks", e.blocks.len()).
		Float64("max_extent", e.maxExtent).
		Float64("scale", e.zoom.Scale()).
		Bool("sweep", shouldPlay).
		Msg("timeline rebuilt")
}

func (e *Engine) buildBlock(row int, em *models.Emission, pulse bool) *block {
	x := e.zoom.MsToPixels(em.StartOffsetMs)
	y := rowHeight*float64(row) + 1

	rect := e.surface.Rect(x, y, blockWidth, blockHeight, blockRadius)
	rect.SetFill(colorBlock)
	rect.Set(AttrStrokeWidth, 0)

	if pulse {
		delay := time.Duration(em.StartOffsetMs) * time.Millisecond
		rect.Animate(map[Attr]float64{AttrScale: pulseScale, AttrStrokeWidth: pulseStrokeWidth}, pulseDuration, delay)
		rect.Animate(map[Attr]float64{AttrScale: 1, AttrStrokeWidth: 0}, pulseDuration, delay+pulseDuration+time.Millisecond)
	}

	name := e.centeredLabel(em.Name, x, y, -labelOffsetY)
	timeLabel := e.centeredLabel(formatOffset(em.StartOffsetMs), x, y, labelOffsetY)

	separator := e.surface.Rect(0, rowHeight*float64(row+1)-separatorInset, e.surface.Width(), 1, 0)
	separator.SetFill(colorSeparator)
	separator.SetStroke(colorSeparator)
	separator.SetPointerEvents(false)

	b := &block{
		emission:          em,
		rect:              rect,
		name:              name,
		time:              timeLabel,
		separator:         separator,
		rectBaseX:         x,
		nameBaseX:         name.Get(AttrX),
		timeBaseX:         timeLabel.Get(AttrX),
		committedOffsetMs: em.StartOffsetMs,
	}
	e.blocks.add(b)

	e.bindBlockDrag(b)
	e.bindContextMenu(b)
	return b
}

// centeredLabel places text centred in the block at (x, y), shifted
// vertically by dy.
func (e *Engine) centeredLabel(text string, x, y, dy float64) Element {
	label := e.surface.Text(0, 0, text)
	label.SetPointerEvents(false)
	label.Set(AttrX, x+blockWidth/2-label.Get(AttrWidth)/2)
	label.Set(AttrY, y+blockHeight/2-label.Get(AttrHeight)/2+dy)
	return label
}

func (e *Engine) bindContextMenu(b *block) {
	em := b.emission
	b.rect.OnContextMenu(func(x, y float64) {
		if e.deps.Menu == nil {
			return
		}
		e.deps.Menu.Show(x, y, []MenuItem{
			{Label: "Clone", Action: func() {
				if e.deps.Collection != nil {
					e.deps.Collection.Clone(em)
				}
			}},
			{Separator: true},
			{Label: "Remove", Action: func() {
				if e.deps.Collection != nil {
					e.deps.Collection.Remove(em)
				}
			}},
		})
	})
}
