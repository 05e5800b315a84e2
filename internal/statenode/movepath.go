package statenode

import (
	"github.com/m-marini/wheellyj-sub009/internal/bridge"
	"github.com/m-marini/wheellyj-sub009/internal/core"
	"github.com/m-marini/wheellyj-sub009/internal/proc"
)

// MovePath walks an ordered sequence of waypoints, advancing to the
// next one once within ApproachDistance, and bailing out with
// not_found if the current leg stops being a free trajectory (the
// radar map changed enough to invalidate the plan).
type MovePath struct {
	*Base

	Path             []core.Point
	ApproachDistance float64
	Speed            float64
	SafetyDistance   float64

	// PathKey, if set, is a (caller-prefixed) context key read at
	// Entry to source Path dynamically — the mechanism FindLabel and
	// FindUnknown use to hand a freshly planned path to a following
	// MovePath node without either knowing about the other directly.
	PathKey string

	targetIndex int
}

func NewMovePath(base *Base, path []core.Point, approachDistance, speed, safetyDistance float64) *MovePath {
	return &MovePath{Base: base, Path: path, ApproachDistance: approachDistance, Speed: speed, SafetyDistance: safetyDistance}
}

func (m *MovePath) Entry(ctx *proc.Context) error {
	m.targetIndex = 0
	if m.PathKey != "" {
		if v, ok := ctx.Get(m.PathKey); ok {
			m.Path = v.AsPath()
		}
	}
	return m.Base.Entry(ctx)
}

func (m *MovePath) Step(ctx *proc.Context) (ExitKey, bridge.RobotCommand) {
	world := ctx.WorldModel()
	status := world.RobotStatus

	if len(m.Path) == 0 {
		return ExitCompleted, bridge.Halt()
	}
	if m.TimedOut(ctx) {
		return ExitTimeout, bridge.Halt()
	}
	if key, cmd, blocked := BlockResult(status); blocked {
		return key, cmd
	}

	target := m.Path[m.targetIndex]
	if world.RadarMap != nil && !world.RadarMap.FreeTrajectory(status.Location, target, m.SafetyDistance) {
		return ExitNotFound, bridge.Halt()
	}

	distance := status.Location.Distance(target)
	if distance <= m.ApproachDistance {
		m.targetIndex++
		if m.targetIndex >= len(m.Path) {
			return ExitCompleted, bridge.Halt()
		}
		target = m.Path[m.targetIndex]
		distance = status.Location.Distance(target)
	}

	heading := core.DirectionTo(status.Location, target)
	speed := fuzzySpeed(distance, m.ApproachDistance, m.Speed)
	return ExitNone, bridge.Move(heading, speed)
}
