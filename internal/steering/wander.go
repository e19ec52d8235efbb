package steering

import (
	"math"
	"math/rand"

	"squad-formation-sim/internal/common"
	"squad-formation-sim/internal/simulation"
)

// Wander steers toward a point on a circle ahead of the entity. The point's
// angle random-walks a little on every call and is not reset when the
// target changes.
type Wander struct {
	angle float64
	rng   *rand.Rand
}

// NewWander creates a wander force drawing from rng. A nil rng uses a fixed
// seed.
func NewWander(rng *rand.Rand) *Wander {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Wander{rng: rng}
}

// Force implements simulation.SteeringForce.
func (w *Wander) Force(e *simulation.Entity, _ simulation.Targetable) common.Vector {
	t := e.Tuning()
	change := math.Pi / t.WanderDivider

	center := e.GetVelocity().Normalize().Mul(t.WanderRadius * 2)
	displacement := common.NewVector(0, -t.WanderRadius).SetAngle(w.angle)
	w.angle += w.rng.Float64()*change - change*0.5

	return center.Add(displacement)
}

// Angle returns the current wander angle.
func (w *Wander) Angle() float64 { return w.angle }

// Reset puts the wander angle back to zero.
func (w *Wander) Reset() { w.angle = 0 }
