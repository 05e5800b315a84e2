package statenode

import (
	"testing"

	"github.com/m-marini/wheellyj-sub009/internal/bridge"
	"github.com/m-marini/wheellyj-sub009/internal/core"
	"github.com/m-marini/wheellyj-sub009/internal/proc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovePathWalksThenCompletes(t *testing.T) {
	path := []core.Point{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	base := NewBase("movepath", 0, nil, nil, nil)
	m := NewMovePath(base, path, 0.2, 30, 0.1)
	ctx := newTestContext(core.WorldModel{RobotStatus: freeStatus(0, core.Point{}, core.HeadingZero)})
	require.NoError(t, m.Entry(ctx))

	key, cmd := m.Step(ctx)
	assert.Equal(t, ExitNone, key)
	assert.InDelta(t, 0, cmd.Heading.Rad(), 1e-9)

	ctx.SetWorldModel(core.WorldModel{RobotStatus: freeStatus(1, core.Point{X: 1, Y: -0.05}, core.HeadingZero)})
	key, cmd = m.Step(ctx)
	assert.Equal(t, ExitNone, key)
	assert.InDelta(t, 1.5707963267948966, cmd.Heading.Rad(), 1e-6)

	ctx.SetWorldModel(core.WorldModel{RobotStatus: freeStatus(2, core.Point{X: 1.05, Y: 1}, core.HeadingZero)})
	key, cmd = m.Step(ctx)
	assert.Equal(t, ExitNone, key)
	assert.InDelta(t, 3.141592653589793, cmd.Heading.Rad(), 1e-6)

	ctx.SetWorldModel(core.WorldModel{RobotStatus: freeStatus(3, core.Point{X: 0.05, Y: 1}, core.HeadingZero)})
	key, cmd = m.Step(ctx)
	assert.Equal(t, ExitCompleted, key)
	assert.Equal(t, bridge.CommandHalt, cmd.Kind)
}

func TestMovePathNotFoundWhenTrajectoryBlocked(t *testing.T) {
	radar := testRadarMap()
	// Mark a hindered cell directly between robot and first waypoint.
	radar.Update(core.ProxyMessage{Time: 1, SensorOrigin: core.Point{X: 0, Y: 0}, SensorDirection: core.HeadingZero, EchoDistance: 0.5})

	path := []core.Point{{X: 1, Y: 0}}
	base := NewBase("movepath", 0, nil, nil, nil)
	m := NewMovePath(base, path, 0.2, 30, 0.1)
	ctx := newTestContext(core.WorldModel{RobotStatus: freeStatus(0, core.Point{}, core.HeadingZero), RadarMap: radar})
	require.NoError(t, m.Entry(ctx))

	key, cmd := m.Step(ctx)
	assert.Equal(t, ExitNotFound, key)
	assert.Equal(t, bridge.CommandHalt, cmd.Kind)
}

func TestMovePathEmptyPathCompletesImmediately(t *testing.T) {
	base := NewBase("movepath", 0, nil, nil, nil)
	m := NewMovePath(base, nil, 0.2, 30, 0.1)
	ctx := newTestContext(core.WorldModel{RobotStatus: freeStatus(0, core.Point{}, core.HeadingZero)})
	require.NoError(t, m.Entry(ctx))
	key, cmd := m.Step(ctx)
	assert.Equal(t, ExitCompleted, key)
	assert.Equal(t, bridge.CommandHalt, cmd.Kind)
}

func TestMovePathSourcesPathFromContextKey(t *testing.T) {
	base := NewBase("movepath", 0, nil, nil, nil)
	m := NewMovePath(base, nil, 0.2, 30, 0.1)
	m.PathKey = "findlabel.path"
	ctx := newTestContext(core.WorldModel{RobotStatus: freeStatus(0, core.Point{}, core.HeadingZero)})
	ctx.Put("findlabel.path", proc.PathValue([]core.Point{{X: 5, Y: 0}}))

	require.NoError(t, m.Entry(ctx))
	assert.Equal(t, []core.Point{{X: 5, Y: 0}}, m.Path)
}
