package simulation

import (
	"bytes"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squad-formation-sim/internal/common"
	"squad-formation-sim/internal/formation"
)

func TestWorldStepsSquadsIndependently(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Seed = 42
	w, err := NewWorld(tuning, zerolog.Nop())
	require.NoError(t, err)

	a := w.NewSquad("a", formation.Column())
	b := w.NewSquad("b", formation.Diamond())
	ea, err := a.Spawn(common.Zero())
	require.NoError(t, err)
	eb, err := b.Spawn(common.NewVector(100, 100))
	require.NoError(t, err)

	ea.SetTarget(NAWaypoint())
	ea.SetSteering(constantForce(common.NewVector(30, 0)))

	w.Run(4, 0.5)

	assert.Equal(t, 4, w.Steps())
	assert.InDelta(t, 2.0, w.SimulationTime(), 1e-12)
	assert.Greater(t, ea.GetPosition().X, 0.0)
	assert.Equal(t, common.NewVector(100, 100), eb.GetPosition())
	assert.NotEqual(t, a.GetID(), b.GetID())

	assert.True(t, w.RemoveSquad(b))
	assert.False(t, w.RemoveSquad(b))
	assert.Len(t, w.Squads(), 1)
}

func TestWorldRejectsInvalidTuning(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Mass = 0
	_, err := NewWorld(tuning, zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidTuning)
}

func TestWorldSummary(t *testing.T) {
	w, err := NewWorld(DefaultTuning(), zerolog.Nop())
	require.NoError(t, err)
	s := w.NewSquad("line", formation.Line())
	for _, x := range []float64{-10, 10} {
		_, err := s.Spawn(common.NewVector(x, 0))
		require.NoError(t, err)
	}

	sum := w.Summary()
	require.Len(t, sum, 1)
	assert.Equal(t, 2, sum[0].Active)
	assert.Equal(t, s.Leader().GetID(), sum[0].Leader)
	assert.Equal(t, common.Zero(), sum[0].Centroid)
	assert.InDelta(t, 10.0, sum[0].SpreadMean, 1e-12)
	assert.InDelta(t, 0.0, sum[0].SpreadStdDev, 1e-12)
	assert.InDelta(t, 1.0, sum[0].Axis.X, 1e-9)
	assert.InDelta(t, 1.0, sum[0].Elongation, 1e-9)
	assert.Contains(t, sum[0].String(), "line")
}

func TestPrincipalAxis(t *testing.T) {
	tests := []struct {
		name       string
		points     []common.Vector
		axis       common.Vector
		elongation float64
		ok         bool
	}{
		{"vertical line", []common.Vector{{X: 5, Y: -3}, {X: 5, Y: 0}, {X: 5, Y: 9}}, common.NewVector(0, 1), 1, true},
		{"diagonal", []common.Vector{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: -4, Y: -4}}, common.NewVector(math.Sqrt2/2, math.Sqrt2/2), 1, true},
		{"square", []common.Vector{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}, common.Vector{}, 0, true},
		{"single point", []common.Vector{{X: 1, Y: 1}}, common.Vector{}, 0, false},
		{"coincident", []common.Vector{{X: 1, Y: 1}, {X: 1, Y: 1}}, common.Vector{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axis, el, ok := PrincipalAxis(tt.points)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tt.elongation, el, 1e-9)
			if tt.elongation > 0 {
				assert.True(t, axis.AlmostEqual(tt.axis, 1e-9), "axis %s", axis)
			}
			assert.InDelta(t, 1.0, axis.Length(), 1e-9)
		})
	}
}

func TestWorldRunLogs(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWorld(DefaultTuning(), zerolog.New(&buf).Level(zerolog.TraceLevel))
	require.NoError(t, err)
	s := w.NewSquad("logged", formation.Column())
	_, err = s.Spawn(common.Zero())
	require.NoError(t, err)

	w.Run(1, 1)

	out := buf.String()
	assert.Contains(t, out, "starting simulation")
	assert.Contains(t, out, `"squad":"logged"`)
	assert.Contains(t, out, "simulation finished")
}

func TestTuningScaled(t *testing.T) {
	base := DefaultTuning()
	scaled := base.Scaled(2)
	assert.Equal(t, base.AheadCheckRadius*2, scaled.AheadCheckRadius)
	assert.Equal(t, base.TargetReachedRadius*2, scaled.TargetReachedRadius)
	assert.Equal(t, base.SeparationForce, scaled.SeparationForce)
	assert.Equal(t, 15.0, base.AheadCheckRadius, "receiver is not modified")
}
