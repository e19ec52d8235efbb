package simulation

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squad-formation-sim/internal/common"
	"squad-formation-sim/internal/formation"
)

func newDiamondSquad(t *testing.T, n int) (*Squad, []*Entity) {
	t.Helper()
	s := NewSquad("test", formation.Diamond(), DefaultTuning(), rand.New(rand.NewSource(1)), zerolog.Nop())
	entities := make([]*Entity, n)
	for i := range entities {
		e, err := s.Spawn(common.NewVector(float64(i+1), float64(i+1)))
		require.NoError(t, err)
		entities[i] = e
	}
	return s, entities
}

func TestSquadRoster(t *testing.T) {
	s, e := newDiamondSquad(t, 5)

	assert.Equal(t, 5, s.Count())
	assert.Same(t, e[0], s.Leader())
	assert.Same(t, e[0], s.Leader(), "repeated queries are stable")
	assert.Same(t, e[0], s.EntityAt(0))
	assert.Same(t, e[1], s.EntityAt(1))
	assert.Nil(t, s.EntityAt(6))
	assert.Nil(t, s.EntityAt(-1))

	rank, ok := s.IndexOf(e[2])
	require.True(t, ok)
	assert.Equal(t, 2, rank)

	assert.Same(t, e[0], s.MemberInFrontOf(e[1]))
	assert.Same(t, e[3], s.MemberInFrontOf(e[4]))
	assert.Nil(t, s.MemberInFrontOf(e[0]))
}

func TestSquadPositionDelta(t *testing.T) {
	s, e := newDiamondSquad(t, 5)

	d, err := s.PositionDelta(e[0], nil)
	require.NoError(t, err)
	assert.Equal(t, common.Zero(), d)

	d, err = s.PositionDelta(e[3], nil)
	require.NoError(t, err)
	assert.Equal(t, common.NewVector(0, -50), d)

	for _, m := range e {
		d, err := s.PositionDelta(m, m)
		require.NoError(t, err)
		assert.Equal(t, common.Zero(), d)
	}
}

func TestSquadInactiveMembers(t *testing.T) {
	s, e := newDiamondSquad(t, 5)
	e[0].SetActive(false)
	e[1].SetActive(false)

	assert.Nil(t, s.MemberInFrontOf(e[1]))
	assert.Nil(t, s.MemberInFrontOf(e[2]))
	assert.Same(t, e[2], s.MemberInFrontOf(e[3]))

	rank, ok := s.IndexOf(e[2])
	require.True(t, ok)
	assert.Equal(t, 0, rank)
	_, ok = s.IndexOf(e[0])
	assert.False(t, ok)

	d, err := s.PositionDelta(e[3], nil)
	require.NoError(t, err)
	assert.Equal(t, common.NewVector(-25, -25), d)

	d, err = s.PositionDelta(e[0], nil)
	require.NoError(t, err)
	assert.Equal(t, common.Zero(), d)

	d, err = s.PositionDelta(e[3], e[4])
	require.NoError(t, err)
	assert.Equal(t, common.NewVector(-50, 0), d)

	for _, m := range s.Active() {
		d, err = s.PositionDelta(m, m)
		require.NoError(t, err)
		assert.Equal(t, common.Zero(), d)
	}

	assert.Same(t, e[2], s.Leader())
	assert.Same(t, e[2], s.EntityAt(0))
	assert.Len(t, s.Active(), 3)

	e[2].SetActive(false)
	e[3].SetActive(false)
	e[4].SetActive(false)
	assert.Nil(t, s.Leader())
	assert.Zero(t, s.Count())
}

func TestSquadFormationCapacity(t *testing.T) {
	s, _ := newDiamondSquad(t, 10)
	_, err := s.Spawn(common.Zero())
	assert.ErrorIs(t, err, ErrFormationFull)
	assert.Len(t, s.Entities(), 10)

	small, _ := newDiamondSquad(t, 0)
	require.NoError(t, small.SetFormation(nil))
	for i := 0; i < 12; i++ {
		_, err := small.Spawn(common.Zero())
		require.NoError(t, err)
	}
	assert.ErrorIs(t, small.SetFormation(formation.Column()), ErrFormationFull)

	d, err := small.PositionDelta(small.EntityAt(11), nil)
	require.NoError(t, err)
	assert.Equal(t, common.Zero(), d, "no formation bound")
}

func TestUpdateSquadBehaviourOrder(t *testing.T) {
	s, e := newDiamondSquad(t, 3)
	var order []string
	for _, m := range e {
		m.SetTarget(NAWaypoint())
		m.SetSteering(ForceFunc(func(m *Entity, _ Targetable) common.Vector {
			order = append(order, m.GetID().String())
			return common.Zero()
		}))
	}
	e[1].SetActive(false)
	s.SetBehaviour(BehaviourFunc(func(restart bool, dt float64) CondRes {
		order = append(order, "behaviour")
		return Met
	}))

	s.UpdateSquadBehaviour(1)

	assert.Equal(t, []string{"behaviour", e[0].GetID().String(), e[2].GetID().String()}, order)
	assert.Equal(t, Met, s.LastResult())
}

func TestUpdateWithoutBehaviourStillIntegrates(t *testing.T) {
	s, e := newDiamondSquad(t, 1)
	e[0].SetTarget(NAWaypoint())
	e[0].SetSteering(constantForce(common.NewVector(10, 0)))
	s.UpdateSquadBehaviour(1)
	assert.InDelta(t, 2.0, e[0].GetPosition().X, 1e-12)
}

func TestCondResString(t *testing.T) {
	assert.Equal(t, "not_met", NotMet.String())
	assert.Equal(t, "met", Met.String())
	assert.Equal(t, "abort", Abort.String())
	assert.False(t, NotMet.Resolved())
	assert.True(t, Abort.Resolved())
}
