package behaviour

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squad-formation-sim/internal/common"
	"squad-formation-sim/internal/formation"
	"squad-formation-sim/internal/simulation"
)

const (
	notMet = simulation.NotMet
	met    = simulation.Met
	abort  = simulation.Abort
)

// countingCondition replays results and counts non-restart checks.
type countingCondition struct {
	results  []simulation.CondRes
	checks   int
	restarts int
}

func (c *countingCondition) Check(restart bool, _ float64) simulation.CondRes {
	if restart {
		c.restarts++
		return notMet
	}
	r := c.results[min(c.checks, len(c.results)-1)]
	c.checks++
	return r
}

func newTestSquad(t *testing.T, positions ...common.Vector) (*simulation.Squad, []*simulation.Entity) {
	t.Helper()
	s := simulation.NewSquad("test", formation.Diamond(), simulation.DefaultTuning(), rand.New(rand.NewSource(7)), zerolog.Nop())
	out := make([]*simulation.Entity, len(positions))
	for i, p := range positions {
		e, err := s.Spawn(p)
		require.NoError(t, err)
		out[i] = e
	}
	return s, out
}

func TestTimeElapsed(t *testing.T) {
	c := TimeElapsed(1)
	assert.Equal(t, notMet, c.Check(false, 0.5))
	assert.Equal(t, met, c.Check(false, 0.5))
	assert.Equal(t, notMet, c.Check(true, 0))
	assert.Zero(t, c.Elapsed())
	assert.Equal(t, notMet, c.Check(false, 0.9))
}

func TestPrimitiveConditions(t *testing.T) {
	assert.Equal(t, notMet, Infinite().Check(false, 100))
	assert.Equal(t, met, Immediate().Check(false, 0))
	assert.Equal(t, notMet, Immediate().Check(true, 0))
}

func TestOrTimeElapsedInfinite(t *testing.T) {
	c := Or(TimeElapsed(1), Infinite())
	for i := 0; i < 3; i++ {
		assert.Equal(t, notMet, c.Check(false, 0.25), "frame %d", i)
	}
	assert.Equal(t, met, c.Check(false, 0.25))

	assert.Equal(t, notMet, c.Check(true, 0), "restart reports not met")
	assert.Equal(t, notMet, c.Check(false, 0.5), "restart reset the timer")
	assert.Equal(t, met, c.Check(false, 0.5))
}

func TestOrAbortsOnlyWhenBothAbort(t *testing.T) {
	aborting := ConditionFunc(func(float64) simulation.CondRes { return abort })
	assert.Equal(t, abort, Or(aborting, aborting).Check(false, 1))
	assert.Equal(t, notMet, Or(aborting, Infinite()).Check(false, 1))
	assert.Equal(t, met, Or(aborting, Immediate()).Check(false, 1))
}

func TestAndWaitsForBoth(t *testing.T) {
	left, right := TimeElapsed(1), TimeElapsed(2)
	c := And(left, right)

	for i := 1; i <= 3; i++ {
		assert.Equal(t, notMet, c.Check(false, 0.5), "t=%.1f", float64(i)*0.5)
	}
	assert.Equal(t, met, c.Check(false, 0.5), "t=2.0")

	// Both operands restart for the next cycle.
	assert.Zero(t, left.Elapsed())
	assert.Zero(t, right.Elapsed())
	assert.Equal(t, notMet, c.Check(false, 1))
}

func TestAndMemoizesResolvedOperand(t *testing.T) {
	left := &countingCondition{results: []simulation.CondRes{abort}}
	right := &countingCondition{results: []simulation.CondRes{notMet, notMet, met}}
	c := And(left, right)

	assert.Equal(t, notMet, c.Check(false, 1))
	assert.Equal(t, notMet, c.Check(false, 1))
	assert.Equal(t, abort, c.Check(false, 1))
	assert.Equal(t, 1, left.checks)
	assert.Equal(t, 3, right.checks)
}

func TestReachedWaypoint(t *testing.T) {
	s, e := newTestSquad(t, common.NewVector(0, 0))
	c := ReachedWaypoint(s, common.NewVector(100, 0))
	assert.Equal(t, notMet, c.Check(false, 1))

	e[0].SetPosition(common.NewVector(95, 0))
	assert.Equal(t, met, c.Check(false, 1))

	e[0].SetActive(false)
	e[0].SetPosition(common.Zero())
	assert.Equal(t, met, c.Check(false, 1), "no leader left")
}

func TestSquadPredicates(t *testing.T) {
	area := common.NewRect(0, 0, 100, 100)
	s, e := newTestSquad(t, common.NewVector(10, 20), common.NewVector(10, 60))

	assert.Equal(t, notMet, BelowY(s, area, 0.5).Check(false, 1))
	assert.Equal(t, met, BelowY(s, area, 0.6).Check(false, 1))
	assert.Equal(t, met, AboveY(s, area, 0.2).Check(false, 1))
	assert.Equal(t, notMet, AboveY(s, area, 0.3).Check(false, 1))

	assert.Equal(t, met, VelocityBelow(s, 0.1).Check(false, 1))
	e[1].SetVelocity(common.NewVector(e[1].MaxSpeed(), 0))
	assert.Equal(t, notMet, VelocityBelow(s, 0.5).Check(false, 1))

	assert.Equal(t, notMet, CountBelow(s, 2).Check(false, 1))
	e[0].SetActive(false)
	assert.Equal(t, met, CountBelow(s, 2).Check(false, 1))
}
