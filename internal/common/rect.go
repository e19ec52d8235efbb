package common

import "fmt"

// Rect is an axis-aligned region. It is a read-only descriptor handed to
// path and area generators.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// NewRect creates a rect from its origin and size.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

func (r Rect) MinX() float64 { return r.X }
func (r Rect) MinY() float64 { return r.Y }
func (r Rect) MaxX() float64 { return r.X + r.Width }
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Origin returns the top-left corner.
func (r Rect) Origin() Vector {
	return Vector{X: r.X, Y: r.Y}
}

// Center returns the middle of the rect.
func (r Rect) Center() Vector {
	return Vector{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside the rect, edges included.
func (r Rect) Contains(p Vector) bool {
	return p.X >= r.MinX() && p.X <= r.MaxX() && p.Y >= r.MinY() && p.Y <= r.MaxY()
}

// Inset shrinks the rect by margin on every side.
func (r Rect) Inset(margin float64) Rect {
	return Rect{X: r.X + margin, Y: r.Y + margin, Width: r.Width - 2*margin, Height: r.Height - 2*margin}
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect[%.1f,%.1f %.1fx%.1f]", r.X, r.Y, r.Width, r.Height)
}
