package common

import "math"

// segmentBoxTolerance absorbs rounding when an intersection point sits on
// the edge of a horizontal or vertical segment's bounding box.
const segmentBoxTolerance = 1e-9

// InSegmentBox reports whether p lies inside the bounding box of the
// segment a-b.
func InSegmentBox(p, a, b Vector) bool {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return p.X >= minX-segmentBoxTolerance && p.X <= maxX+segmentBoxTolerance &&
		p.Y >= minY-segmentBoxTolerance && p.Y <= maxY+segmentBoxTolerance
}

// SegmentCircleIntersections returns the points where the segment a-b
// crosses the circle of the given radius around center. The line equation
// is solved for both roots and each root is kept only when it falls inside
// the segment's bounding box.
func SegmentCircleIntersections(a, b, center Vector, radius float64) []Vector {
	d := b.Sub(a)
	f := a.Sub(center)

	qa := d.Dot(d)
	if qa == 0 {
		return nil
	}
	qb := 2 * f.Dot(d)
	qc := f.Dot(f) - radius*radius

	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)

	var out []Vector
	for _, t := range [2]float64{(-qb - sq) / (2 * qa), (-qb + sq) / (2 * qa)} {
		p := a.Add(d.Mul(t))
		if InSegmentBox(p, a, b) {
			out = append(out, p)
		}
	}
	return out
}

// SegmentIntersectsCircle reports whether the segment a-b crosses the circle.
func SegmentIntersectsCircle(a, b, center Vector, radius float64) bool {
	return len(SegmentCircleIntersections(a, b, center, radius)) > 0
}

// Reached reports whether an agent now at pos arrived within radius of target.
// With fastCheck the step from prevPos to pos is also tested against the
// circle, catching agents that overshoot the target within a single frame.
func Reached(pos, prevPos, target Vector, radius float64, fastCheck bool) bool {
	if pos.Sub(target).Length() < radius {
		return true
	}
	if !fastCheck {
		return false
	}
	return SegmentIntersectsCircle(prevPos, pos, target, radius)
}
