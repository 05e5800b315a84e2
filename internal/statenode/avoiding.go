package statenode

import (
	"github.com/m-marini/wheellyj-sub009/internal/bridge"
	"github.com/m-marini/wheellyj-sub009/internal/core"
	"github.com/m-marini/wheellyj-sub009/internal/proc"
)

// Avoiding is the contact-escape behaviour. It is the one node
// permitted to override the shared block-result precedence (§8:
// "halt-on-blocked ... unless the node explicitly overrides the block
// result with an escape movement — only Avoiding"): a single blocked
// direction drives an escape move instead of a halt, and only a robot
// blocked on both sides reports the plain blocked exit.
//
// This is the radar-assisted variant (§9 design note): once contact
// clears but the robot hasn't yet reached SafeDistance from the
// contact point, it consults the radar map for a nearby safe target
// and steers toward it rather than blindly continuing along the
// escape vector.
type Avoiding struct {
	*Base

	Speed          float64
	SafeDistance   float64
	MaxDistance    float64
	SafetyDistance float64

	haveContact  bool
	contactPoint core.Point
	escapeDir    core.Heading
}

func NewAvoiding(base *Base, speed, safeDistance, maxDistance, safetyDistance float64) *Avoiding {
	return &Avoiding{Base: base, Speed: speed, SafeDistance: safeDistance, MaxDistance: maxDistance, SafetyDistance: safetyDistance}
}

func (a *Avoiding) Entry(ctx *proc.Context) error {
	a.haveContact = false
	return a.Base.Entry(ctx)
}

func (a *Avoiding) Step(ctx *proc.Context) (ExitKey, bridge.RobotCommand) {
	world := ctx.WorldModel()
	status := world.RobotStatus

	if a.TimedOut(ctx) {
		return ExitTimeout, bridge.Halt()
	}

	switch {
	case !status.CanMoveForward && !status.CanMoveBackward:
		a.haveContact = false
		return ExitBlocked, bridge.Halt()

	case !status.CanMoveForward:
		a.recordContact(status, status.Direction.Opposite())
		return ExitNone, bridge.Move(status.Direction, -a.Speed)

	case !status.CanMoveBackward:
		a.recordContact(status, status.Direction)
		return ExitNone, bridge.Move(status.Direction, a.Speed)
	}

	if !a.haveContact {
		return ExitCompleted, bridge.Halt()
	}

	distance := status.Location.Distance(a.contactPoint)
	if distance >= a.SafeDistance {
		a.haveContact = false
		return ExitCompleted, bridge.Halt()
	}

	if world.RadarMap != nil {
		remaining := a.SafeDistance - distance
		if target, found := world.RadarMap.FindSafeTarget(status.Location, a.escapeDir, remaining, a.MaxDistance, a.SafetyDistance); found {
			dir := core.DirectionTo(status.Location, target)
			return ExitNone, bridge.Move(dir, a.Speed)
		}
	}

	return ExitNone, bridge.Move(a.escapeDir, a.Speed)
}

func (a *Avoiding) recordContact(status core.RobotStatus, escapeDir core.Heading) {
	if a.haveContact {
		return
	}
	a.haveContact = true
	a.contactPoint = status.Location
	a.escapeDir = escapeDir
}
