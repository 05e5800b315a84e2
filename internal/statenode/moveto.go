package statenode

import (
	"github.com/m-marini/wheellyj-sub009/internal/bridge"
	"github.com/m-marini/wheellyj-sub009/internal/core"
	"github.com/m-marini/wheellyj-sub009/internal/proc"
)

// minPps is the minimum motion speed used while fuzzily ramping up
// from stop_distance, matching the original's MIN_PPS floor so the
// robot never stalls right at the edge of the stop radius.
const minPps = 10.0

// nearDistance is the additional margin beyond StopDistance over which
// speed ramps linearly up to MaxSpeed.
const nearDistance = 0.5

// MoveTo drives straight toward Target, optionally finishing with a
// specific facing, decelerating as it nears StopDistance.
type MoveTo struct {
	*Base

	Target    core.Point
	HasFacing bool
	Facing    core.Heading
	FacingEps float64

	StopDistance float64
	MaxSpeed     float64
}

func NewMoveTo(base *Base, target core.Point, stopDistance, maxSpeed float64) *MoveTo {
	return &MoveTo{Base: base, Target: target, StopDistance: stopDistance, MaxSpeed: maxSpeed}
}

func (m *MoveTo) Step(ctx *proc.Context) (ExitKey, bridge.RobotCommand) {
	world := ctx.WorldModel()
	status := world.RobotStatus

	if m.TimedOut(ctx) {
		return ExitTimeout, bridge.Halt()
	}
	if key, cmd, blocked := BlockResult(status); blocked {
		return key, cmd
	}

	distance := status.Location.Distance(m.Target)
	if distance <= m.StopDistance {
		if !m.HasFacing || status.Direction.IsCloseTo(m.Facing, m.FacingEps) {
			return ExitCompleted, bridge.Halt()
		}
		return ExitNone, bridge.Move(m.Facing, 0)
	}

	effective := distance
	if world.RadarMap != nil && status.EchoDistance > 0 && status.EchoDistance < effective {
		effective = status.EchoDistance
	}
	heading := core.DirectionTo(status.Location, m.Target)
	speed := fuzzySpeed(effective, m.StopDistance, m.MaxSpeed)
	return ExitNone, bridge.Move(heading, speed)
}

// fuzzySpeed ramps linearly from minPps at stopDistance to maxSpeed at
// stopDistance+nearDistance, clamping outside that band.
func fuzzySpeed(distance, stopDistance, maxSpeed float64) float64 {
	if distance <= stopDistance {
		return minPps
	}
	if distance >= stopDistance+nearDistance {
		return maxSpeed
	}
	frac := (distance - stopDistance) / nearDistance
	return minPps + frac*(maxSpeed-minPps)
}
