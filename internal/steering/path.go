package steering

import (
	"errors"
	"fmt"
	"strings"

	"squad-formation-sim/internal/common"
	"squad-formation-sim/internal/path"
	"squad-formation-sim/internal/simulation"
)

// ErrUnknownPolicy is returned by ParseWhenDone.
var ErrUnknownPolicy = errors.New("unknown end-of-path policy")

// WhenDone selects what a path follower does after the last waypoint.
type WhenDone int

const (
	// Stop emits zero force once the path is exhausted.
	Stop WhenDone = iota
	// Restart goes back to the first waypoint.
	Restart
	// Reverse walks the path back the other way.
	Reverse
)

func (w WhenDone) String() string {
	switch w {
	case Stop:
		return "stop"
	case Restart:
		return "restart"
	case Reverse:
		return "reverse"
	}
	return fmt.Sprintf("WhenDone(%d)", int(w))
}

// ParseWhenDone reads a policy name as written in scenario files.
func ParseWhenDone(s string) (WhenDone, error) {
	switch strings.ToLower(s) {
	case "stop", "nothing":
		return Stop, nil
	case "restart", "return_to_beginning":
		return Restart, nil
	case "reverse", "reverse_direction":
		return Reverse, nil
	}
	return Stop, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// PathFollower seeks the waypoints of a path in order. Each call it checks
// whether the entity arrived at the current waypoint, moves the cursor, and
// retargets the entity at the waypoint it now seeks.
type PathFollower struct {
	path     path.Path
	whenDone WhenDone
	radius   float64

	index int
	dir   int

	// waypoint marks path[waypointAt]; it is replaced only when the cursor moves.
	waypoint   *simulation.Waypoint
	waypointAt int
}

// FollowPath creates a follower that slows down within radius of each
// waypoint.
func FollowPath(p path.Path, whenDone WhenDone, radius float64) *PathFollower {
	return &PathFollower{path: p, whenDone: whenDone, radius: radius, dir: 1}
}

// Force implements simulation.SteeringForce.
func (f *PathFollower) Force(e *simulation.Entity, _ simulation.Targetable) common.Vector {
	if f.index < 0 || f.index >= len(f.path) {
		return common.Vector{}
	}
	t := e.Tuning()
	target := f.path[f.index]

	if common.Reached(e.GetPosition(), e.GetPrevPosition(), target, t.PathTargetRadius, t.FastCheckIntersection) {
		f.index += f.dir
		if f.index < 0 || f.index >= len(f.path) {
			switch f.whenDone {
			case Stop:
				return common.Vector{}
			case Restart:
				f.index = 0
			case Reverse:
				f.dir = -f.dir
				f.index += 2 * f.dir
				f.index = max(0, min(f.index, len(f.path)-1))
			}
		}
		target = f.path[f.index]
	}

	if f.waypoint == nil || f.waypointAt != f.index {
		f.waypoint, f.waypointAt = simulation.NewWaypoint(target), f.index
	}
	if e.Target() != simulation.Targetable(f.waypoint) {
		e.SetTarget(f.waypoint)
	}
	return seekTo(e, target, f.radius)
}

// Reset rewinds the cursor to the first waypoint, walking forward.
func (f *PathFollower) Reset() {
	f.index = 0
	f.dir = 1
	f.waypoint = nil
}

// Index returns the waypoint currently sought.
func (f *PathFollower) Index() int { return f.index }

// Done reports whether a Stop policy follower ran off the end.
func (f *PathFollower) Done() bool {
	return f.index < 0 || f.index >= len(f.path)
}

// Path returns the waypoints being followed.
func (f *PathFollower) Path() path.Path { return f.path }
