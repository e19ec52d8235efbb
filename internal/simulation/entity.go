package simulation

import (
	"errors"
	"fmt"
	"math"

	"squad-formation-sim/internal/common"
)

// ErrInvalidParameter is returned when a physical parameter is not positive.
var ErrInvalidParameter = errors.New("invalid entity parameter")

// SteeringForce produces the force an entity wants to apply toward target.
type SteeringForce interface {
	Force(e *Entity, target Targetable) common.Vector
}

// ForceFunc adapts a plain function to SteeringForce.
type ForceFunc func(e *Entity, target Targetable) common.Vector

// Force calls f(e, target).
func (f ForceFunc) Force(e *Entity, target Targetable) common.Vector {
	return f(e, target)
}

// Entity is a steerable agent. It is owned by exactly one squad.
type Entity struct {
	id           ID
	position     common.Vector
	prevPosition common.Vector
	velocity     common.Vector
	rotation     float64

	mass     float64
	maxForce float64
	maxSpeed float64
	decay    float64

	steering SteeringForce
	target   Targetable
	active   bool

	// Smoothed multipliers and the value each relaxes toward this frame.
	speedMul       float64
	speedMulTarget float64
	forceMul       float64
	forceMulTarget float64

	tuning Tuning
}

// NewEntity creates an active entity at pos using the tuning defaults for
// mass, max force and max speed.
func NewEntity(pos common.Vector, tuning Tuning) *Entity {
	e := &Entity{
		id:             nextID(),
		position:       pos,
		prevPosition:   pos,
		mass:           tuning.Mass,
		maxForce:       tuning.MaxForce,
		maxSpeed:       tuning.MaxSpeed,
		active:         true,
		speedMul:       1,
		speedMulTarget: 1,
		forceMul:       1,
		forceMulTarget: 1,
		tuning:         tuning,
	}
	e.updateDecay()
	return e
}

func (e *Entity) GetID() ID                      { return e.id }
func (e *Entity) GetPosition() common.Vector     { return e.position }
func (e *Entity) GetPrevPosition() common.Vector { return e.prevPosition }
func (e *Entity) GetVelocity() common.Vector     { return e.velocity }
func (e *Entity) GetRotation() float64           { return e.rotation }

// SetPosition teleports the entity. The previous position follows so the
// jump is not mistaken for movement by arrival tests.
func (e *Entity) SetPosition(pos common.Vector) {
	e.position = pos
	e.prevPosition = pos
}

func (e *Entity) SetVelocity(v common.Vector) { e.velocity = v }

func (e *Entity) Mass() float64     { return e.mass }
func (e *Entity) MaxForce() float64 { return e.maxForce }
func (e *Entity) MaxSpeed() float64 { return e.maxSpeed }

// Decay is the fraction of velocity lost every frame.
func (e *Entity) Decay() float64 { return e.decay }

// SpeedMultiplier returns the current smoothed speed multiplier.
func (e *Entity) SpeedMultiplier() float64 { return e.speedMul }

// ForceMultiplier returns the current smoothed force multiplier.
func (e *Entity) ForceMultiplier() float64 { return e.forceMul }

// Tuning returns the constants the entity was created with.
func (e *Entity) Tuning() Tuning { return e.tuning }

// SetMass sets the mass, raised if needed so that max force stays within
// max speed times mass.
func (e *Entity) SetMass(mass float64) error {
	if mass <= 0 {
		return fmt.Errorf("%w: mass %v", ErrInvalidParameter, mass)
	}
	e.mass = math.Max(mass, e.maxForce/e.maxSpeed)
	e.updateDecay()
	return nil
}

// SetMaxForce sets the force limit, clamped to max speed times mass.
func (e *Entity) SetMaxForce(force float64) error {
	if force < 0 {
		return fmt.Errorf("%w: max force %v", ErrInvalidParameter, force)
	}
	e.maxForce = math.Min(force, e.maxSpeed*e.mass)
	e.updateDecay()
	return nil
}

// SetMaxSpeed sets the speed limit and clamps max force to the new bound.
func (e *Entity) SetMaxSpeed(speed float64) error {
	if speed <= 0 {
		return fmt.Errorf("%w: max speed %v", ErrInvalidParameter, speed)
	}
	e.maxSpeed = speed
	e.maxForce = math.Min(e.maxForce, e.maxSpeed*e.mass)
	e.updateDecay()
	return nil
}

func (e *Entity) updateDecay() {
	e.decay = math.Min(e.tuning.DecayCap, (e.maxForce/e.mass)/2/e.maxSpeed)
}

func (e *Entity) Steering() SteeringForce         { return e.steering }
func (e *Entity) SetSteering(force SteeringForce) { e.steering = force }
func (e *Entity) Target() Targetable              { return e.target }
func (e *Entity) SetTarget(target Targetable)     { e.target = target }

func (e *Entity) IsActive() bool        { return e.active }
func (e *Entity) SetActive(active bool) { e.active = active }

// RequestSpeedMultiplier sets the value the speed multiplier relaxes toward
// during the next integration step only.
func (e *Entity) RequestSpeedMultiplier(m float64) {
	e.speedMulTarget = m
}

// RequestForceMultiplier sets the value the force multiplier relaxes toward
// during the next integration step only.
func (e *Entity) RequestForceMultiplier(m float64) {
	e.forceMulTarget = m
}

// Shift returns a waypoint at the entity's position plus offset.
func (e *Entity) Shift(offset common.Vector) *Waypoint {
	return NewWaypoint(e.position.Add(offset))
}

// Advance integrates one frame of steering. It does nothing while no
// steering force or no target is assigned.
func (e *Entity) Advance(dt float64) {
	if e.steering == nil || e.target == nil {
		return
	}

	e.forceMul = relax(e.forceMul, e.forceMulTarget, e.tuning.ForceMulRate)
	e.forceMulTarget = 1
	force := e.steering.Force(e, e.target).Truncate(e.maxForce * e.forceMul).Div(e.mass)

	// The force call above may have requested a new speed multiplier.
	e.speedMul = relax(e.speedMul, e.speedMulTarget, e.tuning.SpeedMulRate)
	e.speedMulTarget = 1

	e.velocity = e.velocity.Mul(1 - e.decay).Add(force).Truncate(e.maxSpeed * e.speedMul)
	e.prevPosition = e.position
	e.position = e.position.Add(e.velocity.Mul(dt))

	if angle, ok := e.velocity.Angle(); ok {
		e.rotation = angle + math.Pi/2
	}
}

// relax moves cur toward target by at most rate.
func relax(cur, target, rate float64) float64 {
	switch {
	case cur < target:
		return math.Min(cur+rate, target)
	case cur > target:
		return math.Max(cur-rate, target)
	}
	return cur
}

// String representation for logging
func (e *Entity) String() string {
	state := "active"
	if !e.active {
		state = "inactive"
	}
	return fmt.Sprintf("Entity[%s] Pos: %s Vel: %s (%s)", e.id, e.position, e.velocity, state)
}
