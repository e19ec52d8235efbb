package behaviour

import (
	"fmt"

	"squad-formation-sim/internal/simulation"
	"squad-formation-sim/internal/steering"
)

// leaderTracker keeps the leader of a squad driving one steering instance.
// When leadership moves, the new leader takes over the old leader's
// steering and target rather than starting fresh, and followers are
// re-bound to it.
type leaderTracker struct {
	squad       *simulation.Squad
	chain       bool
	newSteering func() simulation.SteeringForce
	target      simulation.Targetable

	leader   *simulation.Entity
	leaderID simulation.ID
	active   int
}

func newLeaderTracker(squad *simulation.Squad, chain bool, target simulation.Targetable, newSteering func() simulation.SteeringForce) *leaderTracker {
	return &leaderTracker{squad: squad, chain: chain, target: target, newSteering: newSteering}
}

// reset forgets the leader so the next update starts a fresh steering
// instance.
func (t *leaderTracker) reset() {
	t.leader = nil
	t.leaderID = 0
	t.active = 0
}

// update elects the leader for this frame and refreshes follower
// assignments. It aborts when no member is active.
func (t *leaderTracker) update() (*simulation.Entity, simulation.CondRes) {
	current := t.squad.Leader()
	count := t.squad.Count()
	if current == nil {
		if count > 0 {
			panic(fmt.Sprintf("squad %s has %d active members but no leader", t.squad.Name(), count))
		}
		if t.leader != nil {
			t.squad.Logger().Debug().Stringer("previous", t.leaderID).Msg("squad has no active members")
		}
		t.leader = nil
		return nil, simulation.Abort
	}

	reassign := t.chain
	if t.leader == nil || current.GetID() != t.leaderID {
		t.elect(current)
		reassign = true
	} else if count != t.active {
		reassign = true
	}
	t.active = count

	if reassign {
		if err := steering.AssignFollowers(t.squad, current, t.chain); err != nil {
			t.squad.Logger().Error().Err(err).Msg("formation assignment failed")
			return current, simulation.Abort
		}
	}
	return current, simulation.NotMet
}

func (t *leaderTracker) elect(current *simulation.Entity) {
	force, target := simulation.SteeringForce(nil), t.target
	if t.leader != nil {
		force = t.leader.Steering()
		if prev := t.leader.Target(); prev != nil {
			target = prev
		}
	}
	if force == nil {
		force = t.newSteering()
	}
	current.SetSteering(force)
	current.SetTarget(target)

	ev := t.squad.Logger().Debug().Stringer("leader", current.GetID())
	if t.leader != nil {
		ev = ev.Stringer("previous", t.leaderID)
	}
	ev.Msg("leader elected")

	t.leader = current
	t.leaderID = current.GetID()
}
