package steering

import (
	"squad-formation-sim/internal/common"
	"squad-formation-sim/internal/path"
	"squad-formation-sim/internal/simulation"
)

const (
	movementStep = 0.1
	movementMass = 3
)

// PathFromMovement records the trajectory of a probe entity seeking end from
// start, sampled every 0.1s. The probe gives up after three times the
// straight-line travel time. A non-negative continueAfter appends the point
// the probe would reach after that many more seconds at its final velocity.
func PathFromMovement(start, startVelocity, end common.Vector, maxSpeed, continueAfter float64, tuning simulation.Tuning) path.Path {
	if maxSpeed <= 0 {
		return path.Path{start}
	}

	probe := simulation.NewEntity(start, tuning)
	// All three values are positive here, so the setters cannot fail.
	_ = probe.SetMaxSpeed(maxSpeed)
	_ = probe.SetMaxForce(maxSpeed / 2)
	_ = probe.SetMass(movementMass)
	probe.SetVelocity(startVelocity)
	probe.SetTarget(simulation.NewWaypoint(end))
	probe.SetSteering(Seek(0))

	maxTime := end.Sub(start).Length() / maxSpeed * 3
	closeEnough := maxSpeed * movementStep * 1.1

	var out path.Path
	for elapsed := 0.0; elapsed < maxTime; elapsed += movementStep {
		out = append(out, probe.GetPosition())
		probe.Advance(movementStep)
		if probe.GetPosition().Sub(end).Length() < closeEnough {
			break
		}
	}

	if continueAfter >= 0 {
		out = append(out, probe.GetPosition().Add(probe.GetVelocity().Mul(continueAfter)))
	}
	return out
}
