package simulation

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"squad-formation-sim/internal/common"
	"squad-formation-sim/internal/formation"
)

// ErrFormationFull is returned when a roster would outgrow its formation.
var ErrFormationFull = errors.New("squad roster exceeds formation capacity")

// Squad is an ordered roster of entities sharing one formation and one
// behaviour. Ranks are positions within the active subset and are
// recomputed on every query.
type Squad struct {
	id        string
	name      string
	entities  []*Entity
	formation *formation.Formation
	behaviour Behaviour
	result    CondRes

	tuning Tuning
	rng    *rand.Rand
	logger zerolog.Logger
}

// NewSquad creates an empty squad. A nil rng is replaced by one seeded from
// tuning.Seed.
func NewSquad(name string, f *formation.Formation, tuning Tuning, rng *rand.Rand, logger zerolog.Logger) *Squad {
	if rng == nil {
		rng = rand.New(rand.NewSource(tuning.Seed))
	}
	id := fmt.Sprintf("squad-%s", uuid.NewString()[:8])
	return &Squad{
		id:        id,
		name:      name,
		formation: f,
		tuning:    tuning,
		rng:       rng,
		logger:    logger.With().Str("squad", name).Str("squad_id", id).Logger(),
	}
}

func (s *Squad) GetID() string                   { return s.id }
func (s *Squad) Name() string                    { return s.name }
func (s *Squad) Tuning() Tuning                  { return s.tuning }
func (s *Squad) Rand() *rand.Rand                { return s.rng }
func (s *Squad) Logger() *zerolog.Logger         { return &s.logger }
func (s *Squad) Formation() *formation.Formation { return s.formation }
func (s *Squad) Behaviour() Behaviour            { return s.behaviour }

// LastResult returns what the behaviour reported on the latest update.
func (s *Squad) LastResult() CondRes { return s.result }

// Add appends e to the roster.
func (s *Squad) Add(e *Entity) error {
	if s.formation != nil && len(s.entities) >= s.formation.Capacity() {
		return fmt.Errorf("%w: %s holds %d", ErrFormationFull, s.formation.Name, s.formation.Capacity())
	}
	s.entities = append(s.entities, e)
	return nil
}

// Spawn creates an entity at pos with the squad tuning and adds it.
func (s *Squad) Spawn(pos common.Vector) (*Entity, error) {
	e := NewEntity(pos, s.tuning)
	if err := s.Add(e); err != nil {
		return nil, err
	}
	return e, nil
}

// SetFormation binds f, or unbinds the formation when f is nil.
func (s *Squad) SetFormation(f *formation.Formation) error {
	if f != nil && len(s.entities) > f.Capacity() {
		return fmt.Errorf("%w: %d entities, %s holds %d", ErrFormationFull, len(s.entities), f.Name, f.Capacity())
	}
	s.formation = f
	return nil
}

// SetBehaviour replaces the bound behaviour. The previous behaviour and its
// progress are discarded.
func (s *Squad) SetBehaviour(b Behaviour) {
	s.behaviour = b
	s.result = NotMet
}

// Entities returns the whole roster, inactive members included.
func (s *Squad) Entities() []*Entity {
	return s.entities
}

// Active returns the active members in roster order.
func (s *Squad) Active() []*Entity {
	active := make([]*Entity, 0, len(s.entities))
	for _, e := range s.entities {
		if e.active {
			active = append(active, e)
		}
	}
	return active
}

// Count returns the number of active members.
func (s *Squad) Count() int {
	n := 0
	for _, e := range s.entities {
		if e.active {
			n++
		}
	}
	return n
}

// Leader returns the first active member, or nil.
func (s *Squad) Leader() *Entity {
	for _, e := range s.entities {
		if e.active {
			return e
		}
	}
	return nil
}

// IndexOf returns the rank of e among active members.
func (s *Squad) IndexOf(e *Entity) (int, bool) {
	rank := 0
	for _, m := range s.entities {
		if !m.active {
			continue
		}
		if m.id == e.id {
			return rank, true
		}
		rank++
	}
	return 0, false
}

// EntityAt returns the active member at rank, or nil.
func (s *Squad) EntityAt(rank int) *Entity {
	if rank < 0 {
		return nil
	}
	for _, e := range s.entities {
		if !e.active {
			continue
		}
		if rank == 0 {
			return e
		}
		rank--
	}
	return nil
}

// MemberInFrontOf returns the active member one rank ahead of e, or nil for
// the leader and for entities that are not active members.
func (s *Squad) MemberInFrontOf(e *Entity) *Entity {
	rank, ok := s.IndexOf(e)
	if !ok {
		return nil
	}
	return s.EntityAt(rank - 1)
}

// PositionDelta returns the formation offset of e relative to from. A nil
// from means the leader. Entities that are not active members, or a squad
// with no formation, contribute a zero offset.
func (s *Squad) PositionDelta(e, from *Entity) (common.Vector, error) {
	if from == nil {
		from = s.Leader()
	}
	pe, err := s.slot(e)
	if err != nil {
		return common.Vector{}, err
	}
	pf, err := s.slot(from)
	if err != nil {
		return common.Vector{}, err
	}
	return pe.Sub(pf), nil
}

func (s *Squad) slot(e *Entity) (common.Vector, error) {
	if s.formation == nil || e == nil {
		return common.Vector{}, nil
	}
	rank, ok := s.IndexOf(e)
	if !ok {
		return common.Vector{}, nil
	}
	pos, err := s.formation.Position(rank)
	if err != nil {
		return common.Vector{}, fmt.Errorf("slot of %s in %s: %w", e.id, s.name, err)
	}
	return pos, nil
}

// UpdateSquadBehaviour advances the bound behaviour, then integrates every
// active member in roster order.
func (s *Squad) UpdateSquadBehaviour(dt float64) {
	if s.behaviour != nil {
		res := s.behaviour.Run(false, dt)
		if res != s.result {
			s.logger.Debug().Stringer("from", s.result).Stringer("to", res).Msg("behaviour state changed")
			s.result = res
		}
	}
	for _, e := range s.entities {
		if e.active {
			e.Advance(dt)
		}
	}
}

// Centroid returns the mean position of the active members.
func (s *Squad) Centroid() common.Vector {
	active := s.Active()
	if len(active) == 0 {
		return common.Vector{}
	}
	var sum common.Vector
	for _, e := range active {
		sum = sum.Add(e.position)
	}
	return sum.Div(float64(len(active)))
}

// String representation for logging
func (s *Squad) String() string {
	f := "none"
	if s.formation != nil {
		f = s.formation.Name
	}
	return fmt.Sprintf("Squad[%s %s] Active: %d/%d Formation: %s", s.id, s.name, s.Count(), len(s.entities), f)
}
