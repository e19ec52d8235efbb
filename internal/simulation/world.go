package simulation

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"squad-formation-sim/internal/common"
	"squad-formation-sim/internal/formation"
)

// World steps a set of independent squads that share one tuning.
type World struct {
	tuning         Tuning
	squads         []*Squad
	rng            *rand.Rand
	logger         zerolog.Logger
	simulationTime float64
	steps          int
}

// NewWorld creates an empty world. The random source is seeded from
// tuning.Seed, or from the clock when it is zero.
func NewWorld(tuning Tuning, logger zerolog.Logger) (*World, error) {
	if err := tuning.Validate(); err != nil {
		return nil, err
	}
	seed := tuning.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &World{
		tuning: tuning,
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}, nil
}

// NewSquad creates a squad with its own random source derived from the
// world's, and registers it for stepping.
func (w *World) NewSquad(name string, f *formation.Formation) *Squad {
	rng := rand.New(rand.NewSource(w.rng.Int63()))
	s := NewSquad(name, f, w.tuning, rng, w.logger)
	w.squads = append(w.squads, s)
	w.logger.Debug().Str("squad", name).Str("squad_id", s.GetID()).Msg("squad created")
	return s
}

// RemoveSquad unregisters s. It reports whether s was found.
func (w *World) RemoveSquad(s *Squad) bool {
	for i, sq := range w.squads {
		if sq == s {
			w.squads = append(w.squads[:i], w.squads[i+1:]...)
			return true
		}
	}
	return false
}

func (w *World) Squads() []*Squad        { return w.squads }
func (w *World) Tuning() Tuning          { return w.tuning }
func (w *World) Rand() *rand.Rand        { return w.rng }
func (w *World) Logger() *zerolog.Logger { return &w.logger }
func (w *World) SimulationTime() float64 { return w.simulationTime }
func (w *World) Steps() int              { return w.steps }

// Step advances every squad once, in creation order.
func (w *World) Step(dt float64) {
	w.simulationTime += dt
	w.steps++
	for _, s := range w.squads {
		s.UpdateSquadBehaviour(dt)
	}
}

// Run executes numSteps fixed steps of dt seconds, logging squad state at
// trace level after each step.
func (w *World) Run(numSteps int, dt float64) {
	w.logger.Info().Int("squads", len(w.squads)).Int("steps", numSteps).Float64("dt", dt).Msg("starting simulation")
	for i := 0; i < numSteps; i++ {
		w.Step(dt)
		if w.logger.GetLevel() <= zerolog.TraceLevel {
			for _, s := range w.squads {
				leader := s.Leader()
				ev := w.logger.Trace().Int("step", w.steps).Float64("time", w.simulationTime).Str("squad", s.Name()).Stringer("result", s.LastResult())
				if leader != nil {
					ev = ev.Stringer("leader", leader.GetID()).Stringer("leader_pos", leader.GetPosition())
				}
				ev.Msg("step")
			}
		}
	}
	w.logger.Info().Float64("time", w.simulationTime).Msg("simulation finished")
}

// SquadSummary describes one squad at a point in time.
type SquadSummary struct {
	ID       string
	Name     string
	Active   int
	Total    int
	Leader   ID
	Centroid common.Vector
	// Mean and standard deviation of member distances to the centroid.
	SpreadMean   float64
	SpreadStdDev float64
	// Principal axis of the member positions and its elongation, see
	// PrincipalAxis. Zero when undefined.
	Axis       common.Vector
	Elongation float64
	Result     CondRes
}

func (s SquadSummary) String() string {
	return fmt.Sprintf("%s (%s): %d/%d active, leader %s, centroid %s, spread %.2f±%.2f, axis %s x%.2f, %s",
		s.Name, s.ID, s.Active, s.Total, s.Leader, s.Centroid, s.SpreadMean, s.SpreadStdDev, s.Axis, s.Elongation, s.Result)
}

// Summary reports every squad's current state.
func (w *World) Summary() []SquadSummary {
	out := make([]SquadSummary, 0, len(w.squads))
	for _, s := range w.squads {
		sum := SquadSummary{
			ID:       s.GetID(),
			Name:     s.Name(),
			Active:   s.Count(),
			Total:    len(s.Entities()),
			Centroid: s.Centroid(),
			Result:   s.LastResult(),
		}
		if leader := s.Leader(); leader != nil {
			sum.Leader = leader.GetID()
		}
		active := s.Active()
		if len(active) > 1 {
			dists := make([]float64, len(active))
			points := make([]common.Vector, len(active))
			for i, e := range active {
				points[i] = e.GetPosition()
				dists[i] = points[i].Sub(sum.Centroid).Length()
			}
			sum.SpreadMean, sum.SpreadStdDev = stat.MeanStdDev(dists, nil)
			if axis, el, ok := PrincipalAxis(points); ok {
				sum.Axis, sum.Elongation = axis, el
			}
		}
		out = append(out, sum)
	}
	return out
}
