package scenario

import (
	"fmt"
	"strings"

	"squad-formation-sim/internal/behaviour"
	"squad-formation-sim/internal/common"
	"squad-formation-sim/internal/formation"
	"squad-formation-sim/internal/path"
	"squad-formation-sim/internal/simulation"
)

// Instantiate creates the squads of f in w, spawns their members and binds
// their behaviour trees. On error no squad of f is left in w.
func Instantiate(f *File, w *simulation.World) ([]*simulation.Squad, error) {
	squads := make([]*simulation.Squad, 0, len(f.Squads))
	for _, def := range f.Squads {
		s, err := instantiateSquad(def, f.Area.Rect(), w)
		if err != nil {
			for _, created := range squads {
				w.RemoveSquad(created)
			}
			return nil, fmt.Errorf("scenario %s: squad %s: %w", f.Name, def.Name, err)
		}
		squads = append(squads, s)
	}
	w.Logger().Info().Str("scenario", f.Name).Int("squads", len(squads)).Msg("scenario instantiated")
	return squads, nil
}

func instantiateSquad(def Squad, area common.Rect, w *simulation.World) (*simulation.Squad, error) {
	name := def.Formation
	if name == "" {
		name = "diamond"
	}
	f, err := formation.ByName(name)
	if err != nil {
		return nil, err
	}
	if def.Scale != 0 {
		f = f.WithScale(def.Scale)
	}

	s := w.NewSquad(def.Name, f)
	if err := spawn(s, def); err != nil {
		w.RemoveSquad(s)
		return nil, err
	}
	if def.Behaviour != nil {
		b, err := builder{squad: s, area: area}.behaviour(def.Behaviour)
		if err != nil {
			w.RemoveSquad(s)
			return nil, err
		}
		s.SetBehaviour(b)
	}
	return s, nil
}

func spawn(s *simulation.Squad, def Squad) error {
	positions := make([]common.Vector, 0, max(def.Members, len(def.Positions)))
	if len(def.Positions) > 0 {
		for _, p := range def.Positions {
			positions = append(positions, p.Vector())
		}
	} else {
		for rank := 0; rank < def.Members; rank++ {
			offset, err := s.Formation().Position(rank)
			if err != nil {
				return fmt.Errorf("%w: %w", simulation.ErrFormationFull, err)
			}
			positions = append(positions, def.Spawn.Vector().Add(offset))
		}
	}

	for i, pos := range positions {
		e, err := s.Spawn(pos)
		if err != nil {
			return err
		}
		if err := applyParams(e, def.Entity); err != nil {
			return err
		}
		if i == 0 {
			if err := applyParams(e, def.Leader); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyParams(e *simulation.Entity, p EntityParams) error {
	if p.MaxSpeed != 0 {
		if err := e.SetMaxSpeed(p.MaxSpeed); err != nil {
			return err
		}
	}
	if p.MaxForce != 0 {
		if err := e.SetMaxForce(p.MaxForce); err != nil {
			return err
		}
	}
	if p.Mass != 0 {
		if err := e.SetMass(p.Mass); err != nil {
			return err
		}
	}
	return nil
}

type builder struct {
	squad *simulation.Squad
	area  common.Rect
}

func (b builder) behaviour(n *Node) (simulation.Behaviour, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: missing behaviour node", ErrInvalidScenario)
	}
	until, err := b.condition(n.Until)
	if err != nil {
		return nil, err
	}

	switch kind := strings.ToLower(n.Kind); kind {
	case "sequence":
		children, err := b.children(n, 1, -1)
		if err != nil {
			return nil, err
		}
		return behaviour.Sequence(children[0], children[1:]...), nil
	case "parallel_or", "parallel_and", "do_while":
		children, err := b.children(n, 2, 2)
		if err != nil {
			return nil, err
		}
		switch kind {
		case "parallel_or":
			return behaviour.ParallelOr(children[0], children[1]), nil
		case "parallel_and":
			return behaviour.ParallelAnd(children[0], children[1]), nil
		}
		return behaviour.DoWhile(children[0], n.Delay, children[1]), nil
	case "loop":
		body, err := b.behaviour(n.Body)
		if err != nil {
			return nil, err
		}
		return behaviour.LoopUntil(until, body), nil
	case "repeat":
		body, err := b.behaviour(n.Body)
		if err != nil {
			return nil, err
		}
		return behaviour.RepeatUntil(until, body, n.Times), nil
	case "wait":
		if n.Until == nil {
			return nil, fmt.Errorf("%w: wait needs an until condition", ErrInvalidScenario)
		}
		return behaviour.Wait(until), nil

	case "follow_path":
		if len(n.Points) == 0 {
			return nil, fmt.Errorf("%w: follow_path needs points", ErrInvalidScenario)
		}
		p := make(path.Path, len(n.Points))
		for i, pt := range n.Points {
			p[i] = pt.Vector()
		}
		return behaviour.FollowPath(until, p, b.squad, n.Chain), nil
	case "patrol":
		if n.NumPoints > 0 {
			return behaviour.PatrolExt(until, b.squad, n.NumPoints, n.Swizzle, b.area), nil
		}
		return behaviour.Patrol(until, b.squad, b.area), nil
	case "circles":
		return behaviour.Circles(until, b.squad, b.area), nil
	case "random_path":
		return behaviour.RandomPath(until, b.squad, b.area), nil
	case "in_and_out":
		return behaviour.InAndOut(until, n.LeftSide, b.squad, b.area, n.Randomize), nil
	case "flower":
		return behaviour.Flower(until, n.LeafsInQuad, n.Iterations, n.StartingAngle, b.squad, b.area), nil
	case "flower_in_out":
		return behaviour.FlowerInOut(until, n.LeafsInQuad, n.Iterations, n.StartingAngle, b.squad, b.area), nil
	case "spiral":
		return behaviour.Spiral(until, n.Spirals, b.squad, b.area), nil
	case "spiral_in_out":
		return behaviour.SpiralInOut(until, n.Spirals, b.squad, b.area), nil
	case "v_shape":
		return behaviour.VShape(until, n.XMid, b.squad, b.area), nil
	case "dive":
		return behaviour.DiveTo(until, b.squad, n.Target.X, n.Target.Y), nil
	case "wander":
		return behaviour.Wander(until, b.squad, b.area, n.Margin), nil
	}
	return nil, fmt.Errorf("%w: behaviour %q", ErrUnknownKind, n.Kind)
}

func (b builder) children(n *Node, lo, hi int) ([]simulation.Behaviour, error) {
	if len(n.Children) < lo || (hi >= 0 && len(n.Children) > hi) {
		return nil, fmt.Errorf("%w: %s has %d children", ErrInvalidScenario, n.Kind, len(n.Children))
	}
	out := make([]simulation.Behaviour, len(n.Children))
	for i, c := range n.Children {
		bh, err := b.behaviour(c)
		if err != nil {
			return nil, fmt.Errorf("%s child %d: %w", n.Kind, i, err)
		}
		out[i] = bh
	}
	return out, nil
}

// condition builds c. A missing condition never resolves.
func (b builder) condition(c *Cond) (behaviour.Condition, error) {
	if c == nil {
		return behaviour.Infinite(), nil
	}
	switch strings.ToLower(c.Kind) {
	case "infinite":
		return behaviour.Infinite(), nil
	case "immediate":
		return behaviour.Immediate(), nil
	case "time_elapsed":
		return behaviour.TimeElapsed(c.Duration), nil
	case "or", "and":
		if c.Left == nil || c.Right == nil {
			return nil, fmt.Errorf("%w: %s needs left and right", ErrInvalidScenario, c.Kind)
		}
		left, err := b.condition(c.Left)
		if err != nil {
			return nil, err
		}
		right, err := b.condition(c.Right)
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(c.Kind, "or") {
			return behaviour.Or(left, right), nil
		}
		return behaviour.And(left, right), nil
	case "reached_waypoint":
		return behaviour.ReachedWaypoint(b.squad, c.Point.Vector()), nil
	case "below_y":
		return behaviour.BelowY(b.squad, b.area, c.YPercent), nil
	case "above_y":
		return behaviour.AboveY(b.squad, b.area, c.YPercent), nil
	case "velocity_below":
		return behaviour.VelocityBelow(b.squad, c.Fraction), nil
	case "count_below":
		return behaviour.CountBelow(b.squad, c.Count), nil
	}
	return nil, fmt.Errorf("%w: condition %q", ErrUnknownKind, c.Kind)
}
