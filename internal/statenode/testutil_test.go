package statenode

import (
	"github.com/m-marini/wheellyj-sub009/internal/core"
	"github.com/m-marini/wheellyj-sub009/internal/proc"
	"github.com/rs/zerolog"
)

// newTestContext builds a context latched with world at construction,
// suitable for single-Step unit tests.
func newTestContext(world core.WorldModel) *proc.Context {
	ctx := proc.NewContext(nil, proc.Observer{})
	ctx.SetWorldModel(world)
	return ctx
}

func freeStatus(t float64, loc core.Point, dir core.Heading) core.RobotStatus {
	return core.RobotStatus{
		SimulationTime:  t,
		Location:        loc,
		Direction:       dir,
		CanMoveForward:  true,
		CanMoveBackward: true,
	}
}

func testTopology() core.GridTopology {
	return core.NewGridTopology(core.Point{X: 0, Y: 0}, 0.2, 51, 51)
}

func testRadarMap() *core.RadarMap {
	return core.NewRadarMap(testTopology(), 3.0, zerolog.Nop())
}
