package behaviour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squad-formation-sim/internal/common"
	"squad-formation-sim/internal/path"
	"squad-formation-sim/internal/simulation"
	"squad-formation-sim/internal/steering"
)

func TestWanderSeeksCentreFromOutsideBounds(t *testing.T) {
	s, e := newTestSquad(t, common.Zero(), common.Zero(), common.Zero())
	s.SetBehaviour(Wander(Infinite(), s, common.NewRect(0, 0, 800, 800), 30))

	s.UpdateSquadBehaviour(1)

	// Leader seeks (400, 400) at max_force/mass for one second.
	assert.InDelta(t, 2.1213, e[0].GetPosition().X, 1e-4)
	assert.InDelta(t, 2.1213, e[0].GetPosition().Y, 1e-4)

	delta, err := s.PositionDelta(e[1], e[0])
	require.NoError(t, err)
	assert.Equal(t, common.NewVector(-25, -25), delta)

	// Too close to the leader, the follower evades straight back.
	assert.InDelta(t, -2.1213, e[1].GetPosition().X, 1e-4)
	assert.InDelta(t, -2.1213, e[1].GetPosition().Y, 1e-4)
	assert.Equal(t, simulation.NotMet, s.LastResult())
}

func TestWanderResumesInsideBounds(t *testing.T) {
	s, e := newTestSquad(t, common.NewVector(400, 400))
	b := Wander(Infinite(), s, common.NewRect(0, 0, 800, 800), 30)

	assert.Equal(t, simulation.NotMet, b.Run(false, 1))
	_, ok := e[0].Steering().(*steering.Wander)
	assert.True(t, ok, "leader wanders inside the bounds")
	assert.Same(t, simulation.NAWaypoint(), e[0].Target())

	e[0].SetPosition(common.NewVector(5, 400))
	b.Run(false, 1)
	_, ok = e[0].Steering().(*steering.Wander)
	assert.False(t, ok)
	assert.Equal(t, common.NewVector(400, 400), e[0].Target().GetPosition())

	e[0].SetPosition(common.NewVector(400, 400))
	b.Run(false, 1)
	_, ok = e[0].Steering().(*steering.Wander)
	assert.True(t, ok)
}

func TestFollowPathTransfersSteeringToNewLeader(t *testing.T) {
	s, e := newTestSquad(t, common.Zero(), common.NewVector(0, -25), common.NewVector(0, -50))
	p := path.Path{common.NewVector(0, 300), common.NewVector(300, 300)}
	b := FollowPath(Infinite(), p, s, false)
	s.SetBehaviour(b)

	s.UpdateSquadBehaviour(0.1)
	leaderSteering := e[0].Steering()
	require.IsType(t, &steering.PathFollower{}, leaderSteering)
	assert.Same(t, e[0], e[1].Target())
	assert.Same(t, e[0], e[2].Target())

	e[0].SetActive(false)
	s.UpdateSquadBehaviour(0.1)

	assert.Same(t, leaderSteering, e[1].Steering(), "the same steering instance moves to the new leader")
	assert.Same(t, e[1], e[2].Target())
	assert.Equal(t, p, b.DebugPath())
}

func TestFollowPathRestartStartsFreshSteering(t *testing.T) {
	s, e := newTestSquad(t, common.Zero(), common.Zero())
	b := FollowPath(Infinite(), path.Path{common.NewVector(100, 0)}, s, true)

	b.Run(false, 0.1)
	first := e[0].Steering()

	assert.Equal(t, simulation.NotMet, b.Run(true, 0))
	b.Run(false, 0.1)
	assert.NotSame(t, first, e[0].Steering())
}

func TestFollowPathChainFollowsMemberInFront(t *testing.T) {
	s, e := newTestSquad(t, common.Zero(), common.Zero(), common.Zero())
	b := FollowPath(Infinite(), path.Path{common.NewVector(100, 0)}, s, true)
	b.Run(false, 0.1)

	assert.Same(t, e[0], e[1].Target())
	assert.Same(t, e[1], e[2].Target())

	e[1].SetActive(false)
	b.Run(false, 0.1)
	assert.Same(t, e[0], e[2].Target(), "chain is rebuilt every frame")
}

func TestFollowPathEndsWithCondition(t *testing.T) {
	s, _ := newTestSquad(t, common.Zero())
	b := FollowPath(TimeElapsed(1), path.Path{common.NewVector(100, 0)}, s, false)
	assert.Equal(t, simulation.NotMet, b.Run(false, 0.5))
	assert.Equal(t, simulation.Met, b.Run(false, 0.5))
}

func TestLeaderlessSquadAborts(t *testing.T) {
	s, e := newTestSquad(t, common.Zero(), common.Zero())
	b := FollowPath(Infinite(), path.Path{common.NewVector(100, 0)}, s, false)
	assert.Equal(t, simulation.NotMet, b.Run(false, 0.1))

	for _, m := range e {
		m.SetActive(false)
	}
	assert.Equal(t, simulation.Abort, b.Run(false, 0.1))

	empty, _ := newTestSquad(t)
	assert.Equal(t, simulation.Abort, DiveTo(Infinite(), empty, 0, 0).Run(false, 0.1))
}

func TestHubReassignsWhenCountChanges(t *testing.T) {
	s, e := newTestSquad(t, common.Zero(), common.Zero(), common.Zero())
	b := FollowPath(Infinite(), path.Path{common.NewVector(100, 0)}, s, false)
	b.Run(false, 0.1)
	require.NotNil(t, e[2].Steering())

	e[2].SetSteering(nil)
	b.Run(false, 0.1)
	assert.Nil(t, e[2].Steering(), "no reassignment while the roster is stable")

	e[1].SetActive(false)
	b.Run(false, 0.1)
	assert.NotNil(t, e[2].Steering())
	assert.Same(t, e[0], e[2].Target())
}

func TestDiveToBoostsLeader(t *testing.T) {
	s, e := newTestSquad(t, common.Zero(), common.Zero())
	s.SetBehaviour(DiveTo(Infinite(), s, 0, 500))

	s.UpdateSquadBehaviour(0.1)

	assert.InDelta(t, 1.01, e[0].ForceMultiplier(), 1e-12)
	assert.InDelta(t, 1.01, e[0].SpeedMultiplier(), 1e-12)
	assert.Equal(t, common.NewVector(0, 500), e[0].Target().GetPosition())
	assert.Same(t, e[0], e[1].Target())
	assert.Greater(t, e[0].GetPosition().Y, 0.0)
}

func TestLibraryPaths(t *testing.T) {
	area := common.NewRect(0, 0, 800, 600)
	s, _ := newTestSquad(t, common.NewVector(400, 300), common.NewVector(400, 280))

	tests := []struct {
		name string
		b    *PathBehaviour
	}{
		{"patrol", Patrol(Infinite(), s, area)},
		{"patrol ext", PatrolExt(Infinite(), s, 4, false, area)},
		{"circles", Circles(Infinite(), s, area)},
		{"random", RandomPath(Infinite(), s, area)},
		{"in and out", InAndOut(Infinite(), true, s, area, false)},
		{"in and out random", InAndOut(Infinite(), false, s, area, true)},
		{"flower", Flower(Infinite(), 2, 3, 0, s, area)},
		{"flower in out", FlowerInOut(Infinite(), 2, 3, 0, s, area)},
		{"spiral", Spiral(Infinite(), 3, s, area)},
		{"spiral in out", SpiralInOut(Infinite(), 3, s, area)},
		{"v", VShape(Infinite(), 0.3, s, area)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.b.DebugPath())
			s.SetBehaviour(tt.b)
			for i := 0; i < 10; i++ {
				s.UpdateSquadBehaviour(1.0 / 60)
			}
			assert.Equal(t, simulation.NotMet, s.LastResult())
		})
	}
}

func TestPatrolPathShape(t *testing.T) {
	area := common.NewRect(10, 20, 400, 600)
	s, _ := newTestSquad(t, common.Zero())
	p := PatrolExt(Infinite(), s, 3, false, area).DebugPath()

	require.Len(t, p, 6)
	assert.InDelta(t, 10.0, p[0].X, 1e-9)
	assert.InDelta(t, 10.0+360, p[2].X, 1e-9)
	assert.InDelta(t, p[0].Y+40, p[3].Y, 1e-9)
	assert.GreaterOrEqual(t, p[0].Y, 20+area.Height-200)
	assert.LessOrEqual(t, p[0].Y, 20+area.Height-50)
}

func TestDoWhileHandsLeaderToRightAfterLeft(t *testing.T) {
	s, e := newTestSquad(t, common.Zero(), common.NewVector(0, -25))
	p := path.Path{common.NewVector(0, 300), common.NewVector(300, 300)}
	dive := common.NewVector(-300, -300)
	s.SetBehaviour(DoWhile(FollowPath(TimeElapsed(1), p, s, false), 0.5, DiveTo(Infinite(), s, dive.X, dive.Y)))

	for frame := 1; frame <= 3; frame++ {
		s.UpdateSquadBehaviour(0.5)
		_, ok := e[0].Steering().(*steering.PathFollower)
		assert.True(t, ok, "frame %d: leader still follows the path", frame)
		assert.NotEqual(t, dive, e[0].Target().GetPosition(), "frame %d", frame)
		assert.Equal(t, simulation.NotMet, s.LastResult())
	}

	s.UpdateSquadBehaviour(0.5)
	_, ok := e[0].Steering().(*steering.PathFollower)
	assert.False(t, ok)
	assert.Equal(t, dive, e[0].Target().GetPosition())
	assert.Equal(t, simulation.NotMet, s.LastResult())
}
