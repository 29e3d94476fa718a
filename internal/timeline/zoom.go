package timeline

import "sync"

const (
	DefaultScale       = 100.0
	DefaultMinScale    = 30.0
	DefaultWheelFactor = 0.05
)

// ZoomContext is the pixels-per-second scale shared by every engine it is
// passed to. Zooming one view zooms all views holding the same context.
type ZoomContext struct {
	mu          sync.RWMutex
	scale       float64
	minScale    float64
	wheelFactor float64
}

// ZoomOption configures a ZoomContext.
type ZoomOption func(*ZoomContext)

// WithMinScale sets the zoom floor.
func WithMinScale(min float64) ZoomOption {
	return func(z *ZoomContext) {
		if min > 0 {
			z.minScale = min
		}
	}
}

// WithWheelFactor sets how many pixels-per-second one wheel unit removes.
func WithWheelFactor(factor float64) ZoomOption {
	return func(z *ZoomContext) {
		if factor > 0 {
			z.wheelFactor = factor
		}
	}
}

// NewZoomContext creates a context at the given scale. Non-positive scales
// fall back to DefaultScale.
func NewZoomContext(scale float64, opts ...ZoomOption) *ZoomContext {
	z := &ZoomContext{
		scale:       scale,
		minScale:    DefaultMinScale,
		wheelFactor: DefaultWheelFactor,
	}
	for _, opt := range opts {
		opt(z)
	}
	if z.scale <= 0 {
		z.scale = DefaultScale
	}
	if z.scale < z.minScale {
		z.scale = z.minScale
	}
	return z
}

// Scale returns the current pixels per second.
func (z *ZoomContext) Scale() float64 {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.scale
}

// SetScale replaces the scale, clamped to the floor.
func (z *ZoomContext) SetScale(scale float64) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.scale = scale
	if z.scale < z.minScale {
		z.scale = z.minScale
	}
}

// ApplyWheel zooms by a wheel delta. Positive deltas zoom out.
func (z *ZoomContext) ApplyWheel(deltaY float64) float64 {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.scale -= deltaY * z.wheelFactor
	if z.scale < z.minScale {
		z.scale = z.minScale
	}
	return z.scale
}

// MsToPixels converts a time offset to a horizontal distance.
func (z *ZoomContext) MsToPixels(ms int64) float64 {
	return float64(ms) / 1000 * z.Scale()
}

// PixelsToMs converts a horizontal distance to whole milliseconds,
// truncating toward zero.
func (z *ZoomContext) PixelsToMs(px float64) int64 {
	return int64(px / z.Scale() * 1000)
}
