package simulation

import (
	"fmt"

	"squad-formation-sim/internal/common"
)

// Waypoint is an aim point with no motion of its own. A moving waypoint
// carries a velocity that predictive forces use, but it never integrates it.
type Waypoint struct {
	id       ID
	position common.Vector
	velocity common.Vector
}

var naWaypoint = NewWaypoint(common.Zero())

// NAWaypoint returns the shared sentinel used when a force needs no aim
// point, e.g. wandering.
func NAWaypoint() *Waypoint {
	return naWaypoint
}

// NewWaypoint creates a static waypoint at pos.
func NewWaypoint(pos common.Vector) *Waypoint {
	return &Waypoint{id: nextID(), position: pos}
}

// NewMovingWaypoint creates a waypoint at pos that reports velocity vel.
func NewMovingWaypoint(pos, vel common.Vector) *Waypoint {
	return &Waypoint{id: nextID(), position: pos, velocity: vel}
}

func (w *Waypoint) GetID() ID                      { return w.id }
func (w *Waypoint) GetPosition() common.Vector     { return w.position }
func (w *Waypoint) GetPrevPosition() common.Vector { return w.position }
func (w *Waypoint) GetVelocity() common.Vector     { return w.velocity }
func (w *Waypoint) GetRotation() float64           { return 0 }

// String representation for logging
func (w *Waypoint) String() string {
	if w == naWaypoint {
		return "Waypoint[n/a]"
	}
	return fmt.Sprintf("Waypoint[%s] Pos: %s Vel: %s", w.id, w.position, w.velocity)
}
