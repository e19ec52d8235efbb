package behaviour

import (
	"math"
	"math/rand"

	"squad-formation-sim/internal/common"
	"squad-formation-sim/internal/path"
	"squad-formation-sim/internal/simulation"
	"squad-formation-sim/internal/steering"
)

// diveMultiplier is the force and speed boost a diving leader asks for.
const diveMultiplier = 1.6

// diveSlowRadius is the arrival slowdown radius of DiveTo.
const diveSlowRadius = 5

// PathDebugger is implemented by behaviours that can show the path they
// drive their squad along.
type PathDebugger interface {
	DebugPath() path.Path
}

// gate runs cond for a primitive behaviour. On restart it calls reset and
// restarts cond.
func gate(restart bool, dt float64, cond Condition, reset func()) simulation.CondRes {
	if restart {
		reset()
		cond.Check(true, 0)
		return simulation.NotMet
	}
	return cond.Check(false, dt)
}

// PathBehaviour moves the squad leader along a path, looping back to its
// start, with the rest of the squad in formation behind it.
type PathBehaviour struct {
	cond    Condition
	path    path.Path
	tracker *leaderTracker
}

// FollowPath drives squad along p until cond resolves. With chain set each
// member follows the one ahead of it; otherwise all follow the leader.
func FollowPath(cond Condition, p path.Path, squad *simulation.Squad, chain bool) *PathBehaviour {
	radius := squad.Tuning().PathLeaderSeekRadius
	return &PathBehaviour{
		cond: cond,
		path: p,
		tracker: newLeaderTracker(squad, chain, simulation.NAWaypoint(), func() simulation.SteeringForce {
			return steering.FollowPath(p, steering.Restart, radius)
		}),
	}
}

// Run implements simulation.Behaviour.
func (b *PathBehaviour) Run(restart bool, dt float64) simulation.CondRes {
	res := gate(restart, dt, b.cond, b.tracker.reset)
	if restart || res.Resolved() {
		return res
	}
	_, res = b.tracker.update()
	return res
}

// DebugPath returns the waypoints the leader follows.
func (b *PathBehaviour) DebugPath() path.Path { return b.path }

// Patrol sweeps the lower part of area in a three point zig-zag.
func Patrol(cond Condition, squad *simulation.Squad, area common.Rect) *PathBehaviour {
	return PatrolExt(cond, squad, 3, true, area)
}

// PatrolExt sweeps area across numPoints columns at a random height, and
// comes back the same way one row down.
func PatrolExt(cond Condition, squad *simulation.Squad, numPoints int, swizzle bool, area common.Rect) *PathBehaviour {
	h := uniform(squad.Rand(), area.Height-50, area.Height-200)
	p := path.Shift(
		path.Patrol(numPoints, swizzle, area.Width-40, 40, true, true),
		common.NewVector(area.X, area.Y+h),
	)
	return FollowPath(cond, p, squad, false)
}

// Circles traces a figure eight made of two stacked circles at a random
// spot in area.
func Circles(cond Condition, squad *simulation.Squad, area common.Rect) *PathBehaviour {
	const numPoints = 36
	rng := squad.Rand()
	radius := uniform(rng, 85, 120)
	center := area.Origin().Add(common.NewVector(
		uniform(rng, 2*radius, area.Width-2*radius),
		uniform(rng, 3*radius, area.Height-3*radius),
	))

	p := path.Concat(
		path.Shift(path.Circle(radius, 0, numPoints, 1), center),
		path.Shift(path.Circle(radius, math.Pi, numPoints, -1), center.Add(common.NewVector(0, radius*2))),
	)
	return FollowPath(cond, p, squad, false)
}

// RandomPath visits five random points in area.
func RandomPath(cond Condition, squad *simulation.Squad, area common.Rect) *PathBehaviour {
	return FollowPath(cond, path.Random(area, 5, squad.Rand()), squad, false)
}

// InAndOut sweeps into area from one side and circles inside it.
func InAndOut(cond Condition, leftSide bool, squad *simulation.Squad, area common.Rect, randomize bool) *PathBehaviour {
	var rng *rand.Rand
	if randomize {
		rng = squad.Rand()
	}
	return FollowPath(cond, path.InAndOut(area, leftSide, rng), squad, true)
}

// Flower traces a flower centred in area.
func Flower(cond Condition, leafsInQuad, iterations int, startingAngle float64, squad *simulation.Squad, area common.Rect) *PathBehaviour {
	return FollowPath(cond, path.FlowerArea(area, leafsInQuad, iterations, startingAngle), squad, true)
}

// FlowerInOut enters area from below and then traces a flower.
func FlowerInOut(cond Condition, leafsInQuad, iterations int, startingAngle float64, squad *simulation.Squad, area common.Rect) *PathBehaviour {
	p := path.Concat(entryPath(area), path.FlowerArea(area, leafsInQuad, iterations, startingAngle))
	return FollowPath(cond, p, squad, true)
}

// Spiral descends through numSpirals loops in area.
func Spiral(cond Condition, numSpirals int, squad *simulation.Squad, area common.Rect) *PathBehaviour {
	return FollowPath(cond, spiralPath(area, numSpirals), squad, true)
}

// SpiralInOut enters area from below and then spirals.
func SpiralInOut(cond Condition, numSpirals int, squad *simulation.Squad, area common.Rect) *PathBehaviour {
	return FollowPath(cond, path.Concat(entryPath(area), spiralPath(area, numSpirals)), squad, true)
}

// VShape dives to the middle of area and climbs back out.
func VShape(cond Condition, xMidPercentage float64, squad *simulation.Squad, area common.Rect) *PathBehaviour {
	return FollowPath(cond, path.V(area, xMidPercentage, squad.Rand()), squad, true)
}

func spiralPath(area common.Rect, numSpirals int) path.Path {
	return path.Shift(path.Spiral(area, numSpirals), common.NewVector(0, -20))
}

// entryPath is a wide pass below area used by the in-out variants.
func entryPath(area common.Rect) path.Path {
	p := path.Patrol(2, false, area.Width*1.5, 40, false, true)
	return path.Shift(p, area.Origin().Add(common.NewVector(-area.Width*0.25, area.Height+300)))
}

// DiveBehaviour sends the squad leader at a point with boosted force and
// speed, the rest of the squad in a chain behind it.
type DiveBehaviour struct {
	cond    Condition
	tracker *leaderTracker
}

// DiveTo dives squad at (x, y) until cond resolves.
func DiveTo(cond Condition, squad *simulation.Squad, x, y float64) *DiveBehaviour {
	return &DiveBehaviour{
		cond: cond,
		tracker: newLeaderTracker(squad, true, simulation.NewWaypoint(common.NewVector(x, y)), func() simulation.SteeringForce {
			return steering.Seek(diveSlowRadius)
		}),
	}
}

// Run implements simulation.Behaviour.
func (b *DiveBehaviour) Run(restart bool, dt float64) simulation.CondRes {
	res := gate(restart, dt, b.cond, b.tracker.reset)
	if restart || res.Resolved() {
		return res
	}
	leader, res := b.tracker.update()
	if res.Resolved() {
		return res
	}
	leader.RequestForceMultiplier(diveMultiplier)
	leader.RequestSpeedMultiplier(diveMultiplier)
	return simulation.NotMet
}

// WanderBehaviour lets the squad leader wander inside bounds. When the
// leader strays within margin of an edge it heads back to the centre, and
// resumes wandering once inside again.
type WanderBehaviour struct {
	cond    Condition
	squad   *simulation.Squad
	bounds  common.Rect
	margin  float64
	tracker *leaderTracker
	seeking bool
}

// Wander makes squad wander inside bounds until cond resolves. Followers
// hold formation on the leader.
func Wander(cond Condition, squad *simulation.Squad, bounds common.Rect, margin float64) *WanderBehaviour {
	return &WanderBehaviour{
		cond:   cond,
		squad:  squad,
		bounds: bounds,
		margin: margin,
		tracker: newLeaderTracker(squad, false, simulation.NAWaypoint(), func() simulation.SteeringForce {
			return steering.NewWander(squad.Rand())
		}),
	}
}

// Run implements simulation.Behaviour.
func (b *WanderBehaviour) Run(restart bool, dt float64) simulation.CondRes {
	res := gate(restart, dt, b.cond, b.reset)
	if restart || res.Resolved() {
		return res
	}
	leader, res := b.tracker.update()
	if res.Resolved() {
		return res
	}

	inside := b.bounds.Inset(b.margin).Contains(leader.GetPosition())
	switch {
	case !inside && !b.seeking:
		leader.SetTarget(simulation.NewWaypoint(b.bounds.Center()))
		leader.SetSteering(steering.Seek(0))
		b.seeking = true
	case inside && b.seeking:
		leader.SetTarget(simulation.NAWaypoint())
		leader.SetSteering(steering.NewWander(b.squad.Rand()))
		b.seeking = false
	}
	return simulation.NotMet
}

func (b *WanderBehaviour) reset() {
	b.tracker.reset()
	b.seeking = false
}

// uniform draws from [lo, hi), accepting bounds in either order.
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
