package statenode

import (
	"github.com/m-marini/wheellyj-sub009/internal/algo"
	"github.com/m-marini/wheellyj-sub009/internal/bridge"
	"github.com/m-marini/wheellyj-sub009/internal/proc"
)

// FindLabel is a pure planner: it routes an A* search over the radar
// sector graph to a disk around the context's pending target and
// publishes the result under PathKey for a following MovePath/
// SearchAndMove node to pick up.
type FindLabel struct {
	*Base

	PathKey        string
	SafetyDistance float64
	Radius         float64
}

func NewFindLabel(base *Base, pathKey string, safetyDistance, radius float64) *FindLabel {
	return &FindLabel{Base: base, PathKey: pathKey, SafetyDistance: safetyDistance, Radius: radius}
}

func (f *FindLabel) Step(ctx *proc.Context) (ExitKey, bridge.RobotCommand) {
	world := ctx.WorldModel()
	target := ctx.Target()
	if target == nil || world.RadarMap == nil {
		return ExitNotFound, bridge.Halt()
	}

	goal := algo.LabelGoal(world.RadarMap, *target, f.Radius)
	path, found := algo.SectorGraphPath(world.RadarMap, world.RobotStatus.Location, f.SafetyDistance, goal)
	if !found || len(path) == 0 {
		return ExitNotFound, bridge.Halt()
	}
	ctx.Put(f.PathKey, proc.PathValue(path))
	return ExitCompleted, bridge.Halt()
}

// FindUnknown routes an A* search over the radar sector graph to the
// nearest frontier of the unknown region.
type FindUnknown struct {
	*Base

	PathKey        string
	SafetyDistance float64
}

func NewFindUnknown(base *Base, pathKey string, safetyDistance float64) *FindUnknown {
	return &FindUnknown{Base: base, PathKey: pathKey, SafetyDistance: safetyDistance}
}

func (f *FindUnknown) Step(ctx *proc.Context) (ExitKey, bridge.RobotCommand) {
	world := ctx.WorldModel()
	if world.RadarMap == nil {
		return ExitNotFound, bridge.Halt()
	}

	goal := algo.UnknownFrontierGoal(world.RadarMap)
	path, found := algo.SectorGraphPath(world.RadarMap, world.RobotStatus.Location, f.SafetyDistance, goal)
	if !found || len(path) == 0 {
		return ExitNotFound, bridge.Halt()
	}
	ctx.Put(f.PathKey, proc.PathValue(path))
	return ExitCompleted, bridge.Halt()
}
