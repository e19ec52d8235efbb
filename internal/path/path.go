// Package path builds and transforms finite waypoint sequences.
package path

import (
	"math"
	"math/rand"

	"squad-formation-sim/internal/common"
)

// PointsInCircle is the resolution of the circles embedded in composite
// shapes (spiral, in-and-out).
const PointsInCircle = 12

// Path is an ordered, finite sequence of waypoints consumed by index.
type Path []common.Vector

// Reverse returns the waypoints in opposite order.
func Reverse(p Path) Path {
	out := make(Path, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// Shift translates every waypoint by the same offset.
func Shift(p Path, by common.Vector) Path {
	return ShiftFunc(p, func(v common.Vector, _ int) common.Vector {
		return v.Add(by)
	})
}

// ShiftFunc maps every waypoint through fn, which also receives its index.
func ShiftFunc(p Path, fn func(v common.Vector, index int) common.Vector) Path {
	out := make(Path, len(p))
	for i, v := range p {
		out[i] = fn(v, i)
	}
	return out
}

// Rotate rotates every waypoint around the origin by angle radians.
func Rotate(p Path, angle float64) Path {
	return ShiftFunc(p, func(v common.Vector, _ int) common.Vector {
		return v.Rotate(angle)
	})
}

// Concat joins paths end to end.
func Concat(paths ...Path) Path {
	var out Path
	for _, p := range paths {
		out = append(out, p...)
	}
	return out
}

// Circle returns numPoints+1 points on a circle around the origin, starting
// and finishing on the same point. A negative direction walks clockwise.
func Circle(radius, startingAngle float64, numPoints int, direction float64) Path {
	if numPoints <= 0 {
		return Path{}
	}
	delta := math.Pi * 2 / float64(numPoints)
	out := make(Path, 0, numPoints+1)
	for i := 0; i <= numPoints; i++ {
		a := startingAngle + direction*delta*float64(i)
		out = append(out, common.NewVector(math.Sin(a)*radius, math.Cos(a)*radius))
	}
	return out
}

// Patrol returns a zig-zag sweep numPoints wide. With swizzle every step
// alternates between two rows height apart; without it the rows only change
// at the turn. closePath adds the way back.
func Patrol(numPoints int, swizzle bool, width, height float64, closePath, leftToRight bool) Path {
	points := max(2, numPoints)

	x := width
	dir := -1.0
	if leftToRight {
		x = 0
		dir = 1
	}
	step := width / float64(points-1) * dir
	mul := 1
	if closePath {
		mul = 2
	}

	var (
		out   Path
		hdt   float64
		sign  = 1.0
		count = 1
	)
	for {
		out = append(out, common.NewVector(x, hdt))
		if count == numPoints {
			step = -step
		} else {
			x += step
		}
		if swizzle || count == numPoints {
			hdt += sign * height
			sign = -sign
		}
		count++
		if count >= mul*numPoints+1 {
			break
		}
	}
	return out
}

// FlowerLeaf returns a single petal starting at the origin.
func FlowerLeaf(size float64) Path {
	return Path{
		common.Zero(),
		common.NewVector(-size*0.75, -size*0.25),
		common.NewVector(-size, 0),
		common.NewVector(-size*0.75, size*0.25),
	}
}

// Flower returns iterations+1 pairs of opposite petals around the origin,
// each pair rotated a further quarter-turn/leafsInQuad.
func Flower(size float64, leafsInQuad, iterations int, startingAngle float64) Path {
	if leafsInQuad <= 0 {
		leafsInQuad = 1
	}
	rotateAngle := (math.Pi / 2) / float64(leafsInQuad)
	var out Path
	for i := 0; i <= iterations; i++ {
		leaf := Rotate(FlowerLeaf(size), startingAngle+float64(i)*rotateAngle)
		opposite := Rotate(Reverse(leaf), math.Pi)
		out = append(out, leaf...)
		out = append(out, opposite...)
	}
	return out
}

// FlowerArea centres a flower inside area.
func FlowerArea(area common.Rect, leafsInQuad, iterations int, startingAngle float64) Path {
	p := Flower(math.Min(area.Width, area.Height)*0.42, leafsInQuad, iterations, startingAngle)
	return Shift(p, area.Origin().Add(common.NewVector(area.Width/2, area.Height/2+50)))
}

// Spiral descends through numSpirals loops from the bottom of area towards
// its middle.
func Spiral(area common.Rect, numSpirals int) Path {
	circle := Circle(area.Width/5, math.Pi/2, PointsInCircle, 1)
	startingHeight := area.Height - 50
	var out Path
	for i := 1; i <= numSpirals; i++ {
		movingDown := (area.Height / 2) / float64(numSpirals)
		loop := ShiftFunc(circle, func(v common.Vector, index int) common.Vector {
			h := startingHeight - float64(i-1)*movingDown
			h -= float64(index) * (movingDown / PointsInCircle)
			return v.Add(area.Origin()).Add(common.NewVector(area.Width/2, h))
		})
		out = append(out, loop...)
	}
	return out
}

// InAndOut enters area from one side along a wide sweep and then circles
// inside it. rng randomises the proportions; nil keeps them fixed.
func InAndOut(area common.Rect, leftSide bool, rng *rand.Rand) Path {
	width := pick(rng, 0.8, 1.2, 1.5)
	heightAdjust := pick(rng, -120, 40, 40)
	radiusDiv := pick(rng, 3.5, 5, 5)
	circleOffset := pick(rng, 0.15, 0.35, 0.15)
	circleLift := pick(rng, 30, 90, 60)

	p := Patrol(2, false, area.Width*width, 40, false, leftSide)
	p = Shift(p, area.Origin().Add(common.NewVector(-area.Width*0.25, area.Height+heightAdjust)))

	direction := -1.0
	offset := 1 - circleOffset
	if leftSide {
		direction = 1
		offset = circleOffset
	}
	circle := Shift(
		Circle(area.Width/radiusDiv, math.Pi, PointsInCircle, direction),
		area.Origin().Add(common.NewVector(area.Width*offset, area.Height/2-circleLift)),
	)
	return append(p, circle...)
}

// V dives from the top of area to its middle at xMidPercentage of the width
// and climbs back out on the same side it entered.
func V(area common.Rect, xMidPercentage float64, rng *rand.Rand) Path {
	start := pick(rng, 0.3, 0.5, 0.4)
	if xMidPercentage > 0.5 {
		start = xMidPercentage - start
	} else {
		start = xMidPercentage + start
	}
	startX := area.X + area.Width*start
	midX := area.X + area.Width*xMidPercentage
	return Path{
		common.NewVector(startX, area.Y+area.Height+30),
		common.NewVector(midX, area.Y+area.Height/2),
		common.NewVector(startX, area.Y-40),
	}
}

// Random returns n points drawn uniformly from area.
func Random(area common.Rect, n int, rng *rand.Rand) Path {
	out := make(Path, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, common.NewVector(
			pick(rng, area.MinX(), area.MaxX(), area.Center().X),
			pick(rng, area.MinY(), area.MaxY(), area.Center().Y),
		))
	}
	return out
}

// pick draws uniformly from [lo, hi) or returns fixed when rng is nil.
func pick(rng *rand.Rand, lo, hi, fixed float64) float64 {
	if rng == nil {
		return fixed
	}
	return lo + rng.Float64()*(hi-lo)
}
