// Package steering implements the steering forces entities integrate each
// frame and the protocol that binds followers to a squad leader.
package steering

import (
	"math"

	"squad-formation-sim/internal/common"
	"squad-formation-sim/internal/simulation"
)

// Predictor returns a position for e to aim at instead of target's own.
type Predictor func(e *simulation.Entity, target simulation.Targetable) common.Vector

// Sum adds the outputs of forces.
func Sum(forces ...simulation.SteeringForce) simulation.SteeringForce {
	return simulation.ForceFunc(func(e *simulation.Entity, target simulation.Targetable) common.Vector {
		var total common.Vector
		for _, f := range forces {
			total = total.Add(f.Force(e, target))
		}
		return total
	})
}

// Scale multiplies the output of f by k.
func Scale(f simulation.SteeringForce, k float64) simulation.SteeringForce {
	return simulation.ForceFunc(func(e *simulation.Entity, target simulation.Targetable) common.Vector {
		return f.Force(e, target).Mul(k)
	})
}

// SeekThenApply evaluates left against a synthetic waypoint placed where
// predict says, carrying the pursued target's velocity.
func SeekThenApply(left simulation.SteeringForce, predict Predictor) simulation.SteeringForce {
	return simulation.ForceFunc(func(e *simulation.Entity, target simulation.Targetable) common.Vector {
		aim := simulation.NewMovingWaypoint(predict(e, target), target.GetVelocity())
		return left.Force(e, aim)
	})
}

// Seek pulls toward the target at full force, slowing linearly once closer
// than slowRadius.
func Seek(slowRadius float64) simulation.SteeringForce {
	return simulation.ForceFunc(func(e *simulation.Entity, target simulation.Targetable) common.Vector {
		return seekTo(e, target.GetPosition(), slowRadius)
	})
}

func seekTo(e *simulation.Entity, pos common.Vector, slowRadius float64) common.Vector {
	desired := pos.Sub(e.GetPosition())
	distance := desired.Length()
	force := e.MaxForce()
	if distance < slowRadius {
		force = force * distance / slowRadius
	}
	return desired.Normalize().Mul(force)
}

// Flee pushes directly away from the target at full force.
func Flee() simulation.SteeringForce {
	return Scale(Seek(0), -1)
}

// FuturePosition extrapolates the target along its velocity for as long as
// e would need to cover the distance at max force.
func FuturePosition(e *simulation.Entity, target simulation.Targetable) common.Vector {
	pos := target.GetPosition()
	if e.MaxForce() == 0 {
		return pos
	}
	t := pos.Sub(e.GetPosition()).Length() / e.MaxForce()
	return pos.Add(target.GetVelocity().Mul(t))
}

// Pursuit seeks where the target is about to be.
func Pursuit() simulation.SteeringForce {
	return SeekThenApply(Seek(0), FuturePosition)
}

// Evade flees from where the target is about to be.
func Evade() simulation.SteeringForce {
	return SeekThenApply(Flee(), FuturePosition)
}

// Follow keeps e at offset from the leader it targets, with the offset
// turned to the leader's facing. Too close to the leader, or to the point
// just ahead of it, e evades instead.
func Follow(offset common.Vector) simulation.SteeringForce {
	evade := Evade()
	return simulation.ForceFunc(func(e *simulation.Entity, leader simulation.Targetable) common.Vector {
		t := e.Tuning()
		pos := e.GetPosition()
		ahead := leader.GetPosition().Add(leader.GetVelocity().Mul(t.AheadSearchTime))
		distance := math.Min(pos.Sub(ahead).Length(), pos.Sub(leader.GetPosition()).Length())

		switch {
		case distance < t.AheadCheckRadius:
			return evade.Force(e, leader)
		case distance < t.AheadCheckRadius*1.5:
			e.RequestSpeedMultiplier(1)
		default:
			e.RequestSpeedMultiplier(t.FollowSpeedBoost)
		}

		shaped := offset.Rotate(leader.GetRotation() - math.Pi)
		return seekTo(e, leader.GetPosition().Add(shaped), t.FollowSlowRadius)
	})
}

// Separation pushes e away from the average position of nearby active
// squad mates, at a fixed magnitude.
func Separation(squad *simulation.Squad) simulation.SteeringForce {
	return simulation.ForceFunc(func(e *simulation.Entity, _ simulation.Targetable) common.Vector {
		t := e.Tuning()
		var (
			sum       common.Vector
			neighbors int
		)
		for _, m := range squad.Entities() {
			if !m.IsActive() || m.GetID() == e.GetID() {
				continue
			}
			delta := m.GetPosition().Sub(e.GetPosition())
			d := delta.Length()
			if d < t.SeparationRadius && d > t.SeparationMinDistance {
				sum = sum.Add(delta)
				neighbors++
			}
		}
		if neighbors == 0 {
			return common.Vector{}
		}
		return sum.Div(float64(neighbors)).Neg().Normalize().Mul(t.SeparationForce)
	})
}
