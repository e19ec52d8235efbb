package common

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultEpsilon is the tolerance used by AlmostEqual callers that have no
// better figure.
const DefaultEpsilon = 0.001

// Vector is an immutable point or direction in 2D space.
type Vector struct {
	X, Y float64
}

// NewVector creates a vector from its components.
func NewVector(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// Zero returns the zero vector.
func Zero() Vector {
	return Vector{}
}

func fromR2(v r2.Vec) Vector {
	return Vector{X: v.X, Y: v.Y}
}

func (v Vector) r2() r2.Vec {
	return r2.Vec{X: v.X, Y: v.Y}
}

// Add returns v + other.
func (v Vector) Add(other Vector) Vector {
	return fromR2(r2.Add(v.r2(), other.r2()))
}

// Sub returns v - other.
func (v Vector) Sub(other Vector) Vector {
	return fromR2(r2.Sub(v.r2(), other.r2()))
}

// Mul multiplies the vector by a scalar value.
func (v Vector) Mul(s float64) Vector {
	return fromR2(r2.Scale(s, v.r2()))
}

// Div divides the vector by a scalar value.
func (v Vector) Div(s float64) Vector {
	return Vector{X: v.X / s, Y: v.Y / s}
}

// Neg returns -v.
func (v Vector) Neg() Vector {
	return v.Mul(-1)
}

// Dot returns the dot product of v and other.
func (v Vector) Dot(other Vector) float64 {
	return r2.Dot(v.r2(), other.r2())
}

// Length returns the Euclidean norm of the vector.
func (v Vector) Length() float64 {
	return r2.Norm(v.r2())
}

// SqrLength returns the squared Euclidean norm of the vector.
func (v Vector) SqrLength() float64 {
	return r2.Norm2(v.r2())
}

// IsZero reports whether both components are exactly zero.
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Normalize returns the unit vector colinear to v, or the zero vector when v
// has no length.
func (v Vector) Normalize() Vector {
	if v.IsZero() {
		return Vector{}
	}
	return fromR2(r2.Unit(v.r2()))
}

// Truncate limits the vector length to max. Shorter vectors are returned
// unchanged.
func (v Vector) Truncate(max float64) Vector {
	l := v.Length()
	if l > max {
		return v.Div(l).Mul(max)
	}
	return v
}

// Rotate rotates the vector around the origin by angle radians.
func (v Vector) Rotate(angle float64) Vector {
	return fromR2(r2.Rotate(v.r2(), angle, r2.Vec{}))
}

// SetAngle returns a vector with the same length as v pointing at angle radians.
func (v Vector) SetAngle(angle float64) Vector {
	l := v.Length()
	return Vector{X: math.Cos(angle) * l, Y: math.Sin(angle) * l}
}

// AlmostEqual compares both components with an absolute tolerance.
func (v Vector) AlmostEqual(other Vector, epsilon float64) bool {
	return scalar.EqualWithinAbs(v.X, other.X, epsilon) &&
		scalar.EqualWithinAbs(v.Y, other.Y, epsilon)
}

// Angle returns the heading of v in [0, 2π). ok is false for the zero
// vector, whose heading is undefined.
func (v Vector) Angle() (angle float64, ok bool) {
	if v.IsZero() {
		return 0, false
	}
	angle = math.Atan2(v.Y, v.X)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle, true
}

// String returns a string representation of the vector.
func (v Vector) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", v.X, v.Y)
}

// AngleFrom returns the heading of the step from oldPos to newPos.
func AngleFrom(newPos, oldPos Vector) (float64, bool) {
	return newPos.Sub(oldPos).Angle()
}

// AngleBetween returns the unsigned angle between a and b in [0, π].
// Zero-length inputs yield 0.
func AngleBetween(a, b Vector) float64 {
	la, lb := a.Length(), b.Length()
	if la == 0 || lb == 0 {
		return 0
	}
	c := a.Dot(b) / (la * lb)
	return math.Acos(math.Max(-1, math.Min(1, c)))
}
