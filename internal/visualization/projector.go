package visualization

import (
	"math"

	"squad-formation-sim/internal/common"
)

// padding is the screen margin kept around the fitted bounds, in pixels.
const padding = 20.0

// Projector maps world coordinates to screen pixels.
type Projector interface {
	ToScreen(p common.Vector) (float32, float32)
	Scale() float64
}

// ViewportProjector fits a world rectangle onto the screen, preserving the
// aspect ratio and centring it.
type ViewportProjector struct {
	scale   float64
	offsetX float64
	offsetY float64
}

// NewViewportProjector returns an identity projector until Fit is called.
func NewViewportProjector() *ViewportProjector {
	return &ViewportProjector{scale: 1}
}

// Fit recomputes the transform so that bounds fills a screenWidth x
// screenHeight screen minus padding.
func (p *ViewportProjector) Fit(bounds common.Rect, screenWidth, screenHeight int) {
	w, h := bounds.Width, bounds.Height
	if w <= 0 && h <= 0 {
		p.scale = 1
		p.offsetX = float64(screenWidth)/2 - bounds.X
		p.offsetY = float64(screenHeight)/2 - bounds.Y
		return
	}
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}

	scaleX := (float64(screenWidth) - 2*padding) / w
	scaleY := (float64(screenHeight) - 2*padding) / h
	p.scale = math.Min(scaleX, scaleY)
	if p.scale <= 0 || math.IsNaN(p.scale) || math.IsInf(p.scale, 0) {
		p.scale = 1
	}

	c := bounds.Center()
	p.offsetX = float64(screenWidth)/2 - c.X*p.scale
	p.offsetY = float64(screenHeight)/2 - c.Y*p.scale
}

// ToScreen converts a world position. Both use Y pointing down.
func (p *ViewportProjector) ToScreen(v common.Vector) (float32, float32) {
	return float32(v.X*p.scale + p.offsetX), float32(v.Y*p.scale + p.offsetY)
}

// Scale returns pixels per world unit.
func (p *ViewportProjector) Scale() float64 { return p.scale }

// Bounds returns the smallest rectangle containing area and every point.
func Bounds(area common.Rect, points []common.Vector) common.Rect {
	minX, minY := area.MinX(), area.MinY()
	maxX, maxY := area.MaxX(), area.MaxY()
	for _, pt := range points {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}
	return common.NewRect(minX, minY, maxX-minX, maxY-minY)
}
