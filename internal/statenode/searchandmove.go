package statenode

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/m-marini/wheellyj-sub009/internal/algo"
	"github.com/m-marini/wheellyj-sub009/internal/bridge"
	"github.com/m-marini/wheellyj-sub009/internal/core"
	"github.com/m-marini/wheellyj-sub009/internal/proc"
)

// PathSupplier builds a path at entry time, from whatever the
// supplier's goal-set recipe needs out of the latched context (world
// model, pending target, ...). It encapsulates the RRT-grow-then-
// optimise pipeline; SearchAndMove itself only knows how to walk the
// result.
type PathSupplier func(ctx *proc.Context) ([]core.Point, bool)

// SearchAndMove is the base for SearchLabel and SearchRefresh: on
// entry it asks Supplier for a path and, if found, behaves exactly
// like MovePath walking it; otherwise it reports not_found immediately.
type SearchAndMove struct {
	*MovePath

	Supplier PathSupplier
	notFound bool
}

func NewSearchAndMove(base *Base, approachDistance, speed, safetyDistance float64, supplier PathSupplier) *SearchAndMove {
	return &SearchAndMove{MovePath: NewMovePath(base, nil, approachDistance, speed, safetyDistance), Supplier: supplier}
}

func (s *SearchAndMove) Entry(ctx *proc.Context) error {
	path, found := s.Supplier(ctx)
	s.notFound = !found
	s.Path = path
	return s.MovePath.Entry(ctx)
}

func (s *SearchAndMove) Step(ctx *proc.Context) (ExitKey, bridge.RobotCommand) {
	if s.notFound {
		return ExitNotFound, bridge.Halt()
	}
	return s.MovePath.Step(ctx)
}

// rrtElapsed builds an elapsed() func rooted at clk.Now(), the
// injected-clock pattern a Plan call needs to measure its own search
// time deterministically under test.
func rrtElapsed(clk clock.Clock) func() time.Duration {
	start := clk.Now()
	return func() time.Duration { return clk.Now().Sub(start) }
}

// NewSearchLabel builds a SearchAndMove whose goal is the disk around
// the context's pending target (minus the robot's own footprint).
func NewSearchLabel(base *Base, approachDistance, speed, safetyDistance, growthDistance, approachRadius, footprint float64, budget algo.RRTBudget, seed int64, clk clock.Clock) *SearchAndMove {
	supplier := func(ctx *proc.Context) ([]core.Point, bool) {
		world := ctx.WorldModel()
		target := ctx.Target()
		if target == nil || world.RadarMap == nil {
			return nil, false
		}
		freeSet, isGoal := algo.LabelTargetFreeSet(world.RadarMap, *target, approachRadius, footprint)
		finder := algo.DiscreteRRTPathFinder{
			Radar: world.RadarMap, SafetyDistance: safetyDistance,
			GrowthDistance: growthDistance, FreeSet: freeSet, IsGoal: isGoal,
		}
		return finder.Plan(world.RobotStatus.Location, budget, seed, rrtElapsed(clk))
	}
	return NewSearchAndMove(base, approachDistance, speed, safetyDistance, supplier)
}

// NewSearchRefresh builds a SearchAndMove whose goal is the stalest
// empty cell within maxDistance of the robot, biasing exploration
// toward re-observing aging parts of the map.
func NewSearchRefresh(base *Base, approachDistance, speed, safetyDistance, growthDistance, maxDistance float64, budget algo.RRTBudget, seed int64, clk clock.Clock) *SearchAndMove {
	supplier := func(ctx *proc.Context) ([]core.Point, bool) {
		world := ctx.WorldModel()
		if world.RadarMap == nil {
			return nil, false
		}
		freeSet, isGoal := algo.RefreshFreeSet(world.RadarMap, world.RobotStatus.Location, maxDistance)
		finder := algo.DiscreteRRTPathFinder{
			Radar: world.RadarMap, SafetyDistance: safetyDistance,
			GrowthDistance: growthDistance, FreeSet: freeSet, IsGoal: isGoal,
		}
		return finder.Plan(world.RobotStatus.Location, budget, seed, rrtElapsed(clk))
	}
	return NewSearchAndMove(base, approachDistance, speed, safetyDistance, supplier)
}

// NewSearchUnknown builds a SearchAndMove whose goal is the contour of
// the unknown region: the third discretised-RRT goal-set recipe,
// driving the robot to the frontier of unexplored space rather than to
// a labelled target or a stale-echo cell.
func NewSearchUnknown(base *Base, approachDistance, speed, safetyDistance, growthDistance float64, budget algo.RRTBudget, seed int64, clk clock.Clock) *SearchAndMove {
	supplier := func(ctx *proc.Context) ([]core.Point, bool) {
		world := ctx.WorldModel()
		if world.RadarMap == nil {
			return nil, false
		}
		freeSet, isGoal := algo.UnknownContourFreeSet(world.RadarMap)
		finder := algo.DiscreteRRTPathFinder{
			Radar: world.RadarMap, SafetyDistance: safetyDistance,
			GrowthDistance: growthDistance, FreeSet: freeSet, IsGoal: isGoal,
		}
		return finder.Plan(world.RobotStatus.Location, budget, seed, rrtElapsed(clk))
	}
	return NewSearchAndMove(base, approachDistance, speed, safetyDistance, supplier)
}
