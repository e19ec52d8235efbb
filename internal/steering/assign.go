package steering

import (
	"fmt"

	"squad-formation-sim/internal/common"
	"squad-formation-sim/internal/simulation"
)

// separationWeight scales the separation term of every follower.
const separationWeight = 0.5

// AssignFollowers points every active member other than leader at its
// formation slot. With chain set each member follows the one ranked just
// ahead of it; otherwise all follow the leader directly.
func AssignFollowers(squad *simulation.Squad, leader *simulation.Entity, chain bool) error {
	for _, e := range squad.Active() {
		if e.GetID() == leader.GetID() {
			continue
		}

		var offset common.Vector
		if chain {
			if front := squad.MemberInFrontOf(e); front != nil {
				delta, err := squad.PositionDelta(e, front)
				if err != nil {
					return fmt.Errorf("assign follower %s: %w", e.GetID(), err)
				}
				offset = delta
				e.SetTarget(front)
			}
		} else {
			delta, err := squad.PositionDelta(e, leader)
			if err != nil {
				return fmt.Errorf("assign follower %s: %w", e.GetID(), err)
			}
			offset = delta
			e.SetTarget(leader)
		}

		e.SetSteering(Sum(Follow(offset), Scale(Separation(squad), separationWeight)))
	}
	return nil
}
