// Package behaviour composes squad scripts from conditions, combinators and
// a library of movement primitives.
package behaviour

import (
	"squad-formation-sim/internal/common"
	"squad-formation-sim/internal/simulation"
)

// Condition is a tri-state predicate over time. Check with restart=true
// resets it and reports NotMet.
type Condition interface {
	Check(restart bool, dt float64) simulation.CondRes
}

// ConditionFunc adapts a stateless predicate to Condition. The function is
// not called on restart.
type ConditionFunc func(dt float64) simulation.CondRes

// Check implements Condition.
func (f ConditionFunc) Check(restart bool, dt float64) simulation.CondRes {
	if restart {
		return simulation.NotMet
	}
	return f(dt)
}

// Infinite never resolves.
func Infinite() Condition {
	return ConditionFunc(func(float64) simulation.CondRes { return simulation.NotMet })
}

// Immediate is met on every check.
func Immediate() Condition {
	return ConditionFunc(func(float64) simulation.CondRes { return simulation.Met })
}

// TimeElapsedCondition is met once the accumulated dt reaches Duration.
type TimeElapsedCondition struct {
	Duration float64
	elapsed  float64
}

// TimeElapsed returns a condition met after duration seconds of checks.
func TimeElapsed(duration float64) *TimeElapsedCondition {
	return &TimeElapsedCondition{Duration: duration}
}

// Check implements Condition.
func (c *TimeElapsedCondition) Check(restart bool, dt float64) simulation.CondRes {
	if restart {
		c.elapsed = 0
		return simulation.NotMet
	}
	c.elapsed += dt
	if c.elapsed >= c.Duration {
		return simulation.Met
	}
	return simulation.NotMet
}

// Elapsed returns the time accumulated since the last restart.
func (c *TimeElapsedCondition) Elapsed() float64 { return c.elapsed }

type orCondition struct {
	left, right Condition
}

// Or is met as soon as either operand is met. It is NotMet while any
// operand is unresolved and aborts once both abort. Both operands are
// checked every frame.
func Or(left, right Condition) Condition {
	return &orCondition{left: left, right: right}
}

func (c *orCondition) Check(restart bool, dt float64) simulation.CondRes {
	if restart {
		c.left.Check(true, 0)
		c.right.Check(true, 0)
		return simulation.NotMet
	}
	l := c.left.Check(false, dt)
	r := c.right.Check(false, dt)
	switch {
	case l == simulation.Met || r == simulation.Met:
		return simulation.Met
	case l == simulation.NotMet || r == simulation.NotMet:
		return simulation.NotMet
	}
	return simulation.Abort
}

type andCondition struct {
	left, right       Condition
	leftRes, rightRes simulation.CondRes
}

// And resolves once both operands have resolved: met when both were met,
// abort otherwise. An operand is not checked again after it resolves. Once
// the pair resolves both operands restart for the next cycle.
func And(left, right Condition) Condition {
	return &andCondition{left: left, right: right}
}

func (c *andCondition) Check(restart bool, dt float64) simulation.CondRes {
	if restart {
		c.reset()
		return simulation.NotMet
	}
	if !c.leftRes.Resolved() {
		c.leftRes = c.left.Check(false, dt)
	}
	if !c.rightRes.Resolved() {
		c.rightRes = c.right.Check(false, dt)
	}
	if !c.leftRes.Resolved() || !c.rightRes.Resolved() {
		return simulation.NotMet
	}

	res := simulation.Met
	if c.leftRes == simulation.Abort || c.rightRes == simulation.Abort {
		res = simulation.Abort
	}
	c.reset()
	return res
}

func (c *andCondition) reset() {
	c.leftRes, c.rightRes = simulation.NotMet, simulation.NotMet
	c.left.Check(true, 0)
	c.right.Check(true, 0)
}

// ReachedWaypoint is met when the squad leader arrives at point, or when
// the squad has no leader left to arrive.
func ReachedWaypoint(squad *simulation.Squad, point common.Vector) Condition {
	return ConditionFunc(func(float64) simulation.CondRes {
		leader := squad.Leader()
		if leader == nil {
			return simulation.Met
		}
		t := squad.Tuning()
		if common.Reached(leader.GetPosition(), leader.GetPrevPosition(), point, t.PathTargetRadius, t.FastCheckIntersection) {
			return simulation.Met
		}
		return simulation.NotMet
	})
}

// BelowY is met when every active member has y at or below area.Y plus
// yPerc of its height.
func BelowY(squad *simulation.Squad, area common.Rect, yPerc float64) Condition {
	line := area.Y + area.Height*yPerc
	return allActive(squad, func(e *simulation.Entity) bool {
		return e.GetPosition().Y <= line
	})
}

// AboveY is met when every active member has y at or above area.Y plus
// yPerc of its height.
func AboveY(squad *simulation.Squad, area common.Rect, yPerc float64) Condition {
	line := area.Y + area.Height*yPerc
	return allActive(squad, func(e *simulation.Entity) bool {
		return e.GetPosition().Y >= line
	})
}

// VelocityBelow is met when every active member moves at no more than
// fraction of its max speed.
func VelocityBelow(squad *simulation.Squad, fraction float64) Condition {
	return allActive(squad, func(e *simulation.Entity) bool {
		return e.GetVelocity().Length()/e.MaxSpeed() <= fraction
	})
}

// CountBelow is met when fewer than n members are active.
func CountBelow(squad *simulation.Squad, n int) Condition {
	return ConditionFunc(func(float64) simulation.CondRes {
		if squad.Count() < n {
			return simulation.Met
		}
		return simulation.NotMet
	})
}

func allActive(squad *simulation.Squad, pred func(*simulation.Entity) bool) Condition {
	return ConditionFunc(func(float64) simulation.CondRes {
		for _, e := range squad.Active() {
			if !pred(e) {
				return simulation.NotMet
			}
		}
		return simulation.Met
	})
}
