package algo

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m-marini/wheellyj-sub009/internal/core"
)

func emptyRadarMap() *core.RadarMap {
	g := core.NewGridTopology(core.Point{0, 0}, 0.2, 30, 30)
	return core.NewRadarMap(g, 3.0, zerolog.Nop())
}

func TestDiscreteRRTPlanLabelTarget(t *testing.T) {
	radar := emptyRadarMap()
	target := core.Point{1, 0}
	freeSet, goal := LabelTargetFreeSet(radar, target, 0.6, 0.1)
	require.NotEmpty(t, freeSet)

	finder := DiscreteRRTPathFinder{
		Radar: radar, SafetyDistance: 0.1, GrowthDistance: 0.3,
		FreeSet: freeSet, IsGoal: goal,
	}
	path, found := finder.Plan(core.Point{0, 0}, RRTBudget{MinGoals: 1, MaxIterations: 500}, 7, func() time.Duration { return 0 })
	require.True(t, found)
	assert.True(t, goal(path[len(path)-1]))
}

func TestDiscreteRRTNotFoundWithSaturatedMap(t *testing.T) {
	radar := emptyRadarMap()
	// Ring the robot with hindered cells at growth*2.
	for i := 0; i < 360; i += 5 {
		radar.Update(core.ProxyMessage{
			Time: 1, SensorOrigin: core.Point{0, 0},
			SensorDirection: core.HeadingFromDeg(float64(i)), EchoDistance: 0.4,
		})
	}
	finder := DiscreteRRTPathFinder{
		Radar: radar, SafetyDistance: 0.2, GrowthDistance: 0.2,
		FreeSet: nil, IsGoal: func(core.Point) bool { return false },
	}
	_, found := finder.Plan(core.Point{0, 0}, RRTBudget{MinGoals: 1, MaxIterations: 50}, 1, func() time.Duration { return 0 })
	assert.False(t, found)
}

func TestPathOptimiseNonRegression(t *testing.T) {
	radar := emptyRadarMap()
	path := []core.Point{{0, 0}, {0.3, 0.05}, {0.6, -0.05}, {1, 0}}
	optimised := PathOptimise(radar, path, 0.1)

	length := func(p []core.Point) float64 {
		total := 0.0
		for i := 1; i < len(p); i++ {
			total += p[i-1].Distance(p[i])
		}
		return total
	}
	assert.LessOrEqual(t, length(optimised), length(path)+1e-9)
	for i := 1; i < len(optimised); i++ {
		assert.True(t, radar.FreeTrajectory(optimised[i-1], optimised[i], 0.1))
	}
}

func TestPathOptimiseShortPathUnchanged(t *testing.T) {
	radar := emptyRadarMap()
	assert.Equal(t, []core.Point{}, PathOptimise(radar, []core.Point{}, 0.1))
	single := []core.Point{{1, 1}}
	assert.Equal(t, single, PathOptimise(radar, single, 0.1))
}

func TestUnknownContourFreeSetMatchesRadarContour(t *testing.T) {
	radar := emptyRadarMap()
	// Carve a small empty disk around the origin so it has a contour
	// against the surrounding Unknown region.
	for i := 0; i < 360; i += 10 {
		radar.Update(core.ProxyMessage{
			Time: 1, SensorOrigin: core.Point{0, 0},
			SensorDirection: core.HeadingFromDeg(float64(i)), EchoDistance: 0.6,
		})
	}

	freeSet, goal := UnknownContourFreeSet(radar)
	require.NotEmpty(t, freeSet)
	for _, p := range freeSet {
		assert.True(t, goal(p))
	}

	finder := DiscreteRRTPathFinder{
		Radar: radar, SafetyDistance: 0.05, GrowthDistance: 0.3,
		FreeSet: freeSet, IsGoal: goal,
	}
	path, found := finder.Plan(core.Point{0, 0}, RRTBudget{MinGoals: 1, MaxIterations: 1000}, 3, func() time.Duration { return 0 })
	require.True(t, found)
	assert.True(t, goal(path[len(path)-1]))
}

func TestSectorGraphPathToLabel(t *testing.T) {
	radar := emptyRadarMap()
	goal := LabelGoal(radar, core.Point{0.6, 0}, 0.2)
	path, found := SectorGraphPath(radar, core.Point{0, 0}, 0.1, goal)
	require.True(t, found)
	assert.True(t, goal(mustIndex(t, radar, path[len(path)-1])))
}

func mustIndex(t *testing.T, radar *core.RadarMap, p core.Point) core.Index {
	t.Helper()
	idx, ok := radar.Topology.IndexOf(p)
	require.True(t, ok)
	return idx
}
