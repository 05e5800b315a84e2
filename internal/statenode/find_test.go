package statenode

import (
	"testing"

	"github.com/m-marini/wheellyj-sub009/internal/bridge"
	"github.com/m-marini/wheellyj-sub009/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLabelPublishesPathToTarget(t *testing.T) {
	radar := testRadarMap()
	base := NewBase("findlabel", 0, nil, nil, nil)
	f := NewFindLabel(base, "findlabel.path", 0.1, 0.3)
	ctx := newTestContext(core.WorldModel{RobotStatus: freeStatus(0, core.Point{}, core.HeadingZero), RadarMap: radar})
	require.NoError(t, f.Entry(ctx))
	target := core.Point{X: 1, Y: 0}
	ctx.SetTarget(&target)

	key, cmd := f.Step(ctx)
	require.Equal(t, ExitCompleted, key)
	assert.Equal(t, bridge.CommandHalt, cmd.Kind)

	v, ok := ctx.Get("findlabel.path")
	require.True(t, ok)
	path := v.AsPath()
	require.NotEmpty(t, path)
	assert.InDelta(t, 0, path[len(path)-1].Distance(target), 0.3+1e-9)
}

func TestFindLabelNotFoundWithoutTarget(t *testing.T) {
	radar := testRadarMap()
	base := NewBase("findlabel", 0, nil, nil, nil)
	f := NewFindLabel(base, "findlabel.path", 0.1, 0.3)
	ctx := newTestContext(core.WorldModel{RobotStatus: freeStatus(0, core.Point{}, core.HeadingZero), RadarMap: radar})
	require.NoError(t, f.Entry(ctx))

	key, cmd := f.Step(ctx)
	assert.Equal(t, ExitNotFound, key)
	assert.Equal(t, bridge.CommandHalt, cmd.Kind)
}

func TestFindLabelNotFoundWithoutRadarMap(t *testing.T) {
	base := NewBase("findlabel", 0, nil, nil, nil)
	f := NewFindLabel(base, "findlabel.path", 0.1, 0.3)
	ctx := newTestContext(core.WorldModel{RobotStatus: freeStatus(0, core.Point{}, core.HeadingZero)})
	require.NoError(t, f.Entry(ctx))
	target := core.Point{X: 1, Y: 0}
	ctx.SetTarget(&target)

	key, cmd := f.Step(ctx)
	assert.Equal(t, ExitNotFound, key)
	assert.Equal(t, bridge.CommandHalt, cmd.Kind)
}

func TestFindUnknownPublishesPathToFrontier(t *testing.T) {
	radar := testRadarMap()
	// Carve out a patch of known (Empty/Hindered) cells around the
	// origin so a known/unknown frontier actually exists — an entirely
	// Unknown map has no contour at all.
	radar.Update(core.ProxyMessage{Time: 1, SensorOrigin: core.Point{X: 0, Y: 0}, SensorDirection: core.HeadingZero, EchoDistance: 2.0})

	base := NewBase("findunknown", 0, nil, nil, nil)
	f := NewFindUnknown(base, "findunknown.path", 0.1)
	ctx := newTestContext(core.WorldModel{RobotStatus: freeStatus(0, core.Point{}, core.HeadingZero), RadarMap: radar})
	require.NoError(t, f.Entry(ctx))

	key, cmd := f.Step(ctx)
	require.Equal(t, ExitCompleted, key)
	assert.Equal(t, bridge.CommandHalt, cmd.Kind)

	v, ok := ctx.Get("findunknown.path")
	require.True(t, ok)
	assert.NotEmpty(t, v.AsPath())
}

func TestFindUnknownNotFoundWithoutRadarMap(t *testing.T) {
	base := NewBase("findunknown", 0, nil, nil, nil)
	f := NewFindUnknown(base, "findunknown.path", 0.1)
	ctx := newTestContext(core.WorldModel{RobotStatus: freeStatus(0, core.Point{}, core.HeadingZero)})
	require.NoError(t, f.Entry(ctx))

	key, cmd := f.Step(ctx)
	assert.Equal(t, ExitNotFound, key)
	assert.Equal(t, bridge.CommandHalt, cmd.Kind)
}
