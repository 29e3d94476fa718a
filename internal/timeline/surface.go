package timeline

import "time"

// Attr names a numeric attribute of a drawn element.
type Attr string

const (
	AttrX           Attr = "x"
	AttrY           Attr = "y"
	AttrWidth       Attr = "width"
	AttrHeight      Attr = "height"
	AttrRadius      Attr = "r"
	AttrOpacity     Attr = "opacity"
	AttrStrokeWidth Attr = "stroke-width"
	AttrTranslateX  Attr = "tx"
	AttrTranslateY  Attr = "ty"
	AttrScale       Attr = "scale"
)

// DragHandlers receives a drag gesture on an element. dx and dy passed to
// Move are cumulative since Start.
type DragHandlers struct {
	Start func(x, y float64)
	Move  func(dx, dy float64)
	End   func()
}

// Element is a handle to one shape or text on a Surface.
type Element interface {
	Get(attr Attr) float64
	Set(attr Attr, value float64)
	Text() string
	SetText(text string)
	SetFill(color string)
	SetStroke(color string)

	// SetPointerEvents controls whether the element intercepts pointer input.
	SetPointerEvents(enabled bool)

	// Animate moves the given attributes linearly to their targets.
	Animate(to map[Attr]float64, duration, delay time.Duration)
	StopAnimation()

	BringToFront()
	Remove()

	OnDrag(handlers DragHandlers)
	OnContextMenu(fn func(x, y float64))
	OnWheel(fn func(deltaY float64))
}

// Surface is the drawing primitive the engine renders onto.
type Surface interface {
	Rect(x, y, width, height, radius float64) Element
	Text(x, y float64, text string) Element
	Resize(width, height float64)
	Width() float64
	Height() float64
	// Clear removes every element.
	Clear()
}
