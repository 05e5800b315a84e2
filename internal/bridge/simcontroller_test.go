package bridge

import (
	"testing"

	"github.com/m-marini/wheellyj-sub009/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimControllerMovesForward(t *testing.T) {
	sim := NewSimController(DefaultSimConfig())
	require.NoError(t, sim.Execute(Move(core.HeadingZero, 10)))
	status := sim.Tick()

	assert.Greater(t, status.Location.X, 0.0)
	assert.InDelta(t, 0, status.Location.Y, 1e-9)
	assert.InDelta(t, 0.1, status.SimulationTime, 1e-9)
}

func TestSimControllerScanUpdatesSensorDirection(t *testing.T) {
	sim := NewSimController(DefaultSimConfig())
	require.NoError(t, sim.Execute(Scan(core.HeadingFromDeg(45))))
	status := sim.Tick()
	assert.InDelta(t, 45.0, status.SensorDirection.Deg(), 1e-6)
}

func TestSimControllerEchoHitsObstacle(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.Obstacles = []Obstacle{{Center: core.Point{X: 1, Y: 0}, Radius: 0.1}}
	sim := NewSimController(cfg)
	require.NoError(t, sim.Execute(Idle()))
	status := sim.Tick()
	assert.InDelta(t, 0.9, status.EchoDistance, 1e-6)
}

func TestSimControllerContactBlocksForward(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.ContactRadius = 0.15
	cfg.Obstacles = []Obstacle{{Center: core.Point{X: 0.2, Y: 0}, Radius: 0.1}}
	sim := NewSimController(cfg)
	require.NoError(t, sim.Execute(Idle()))
	status := sim.Tick()
	assert.False(t, status.CanMoveForward)
	assert.True(t, status.CanMoveBackward)
}

func TestSimControllerFiresLatchThenInference(t *testing.T) {
	var order []string
	sim := NewSimController(DefaultSimConfig())
	sim.OnLatch(func(core.RobotStatus) { order = append(order, "latch") })
	sim.OnInference(func(core.RobotStatus) { order = append(order, "inference") })
	sim.Tick()
	assert.Equal(t, []string{"latch", "inference"}, order)
}
