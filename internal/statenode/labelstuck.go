package statenode

import (
	"math"

	"github.com/m-marini/wheellyj-sub009/internal/bridge"
	"github.com/m-marini/wheellyj-sub009/internal/core"
	"github.com/m-marini/wheellyj-sub009/internal/proc"
)

// LabelStuck holds station near the nearest perceived label: it backs
// off if the robot gets closer than Distance-Band, rotates in place if
// its facing drifts past DirectionRange of the label bearing, and
// otherwise idles. No label within MaxDistance reports not_found.
//
// Open question resolution (§8 scenario 5): a label farther than
// Distance does not itself trigger forward motion — only exceeding
// MaxDistance does, and that already yields not_found before this
// logic runs. So the only actively corrected direction is "too close";
// this matches the worked example, where a robot 1.0m from a label
// with Distance=0.8 idles rather than advancing.
type LabelStuck struct {
	*Base

	MaxDistance    float64
	Distance       float64
	Band           float64
	DirectionRange float64
	Speed          float64
}

func NewLabelStuck(base *Base, maxDistance, distance, band, directionRange, speed float64) *LabelStuck {
	return &LabelStuck{Base: base, MaxDistance: maxDistance, Distance: distance, Band: band, DirectionRange: directionRange, Speed: speed}
}

func (l *LabelStuck) Step(ctx *proc.Context) (ExitKey, bridge.RobotCommand) {
	world := ctx.WorldModel()
	status := world.RobotStatus

	if l.TimedOut(ctx) {
		return ExitTimeout, bridge.Halt()
	}
	if key, cmd, blocked := BlockResult(status); blocked {
		return key, cmd
	}

	marker, ok := world.NearestMarker(status.Location)
	if !ok {
		return ExitNotFound, bridge.Halt()
	}
	distance := status.Location.Distance(marker.Location)
	if distance > l.MaxDistance {
		return ExitNotFound, bridge.Halt()
	}

	bearing := core.DirectionTo(status.Location, marker.Location)
	if facingOffset(status.Direction.Rad(), bearing.Rad()) > l.DirectionRange {
		return ExitNone, bridge.Move(bearing, 0)
	}

	if distance < l.Distance-l.Band {
		return ExitNone, bridge.Move(bearing, -l.Speed)
	}

	return ExitNone, bridge.Idle()
}

func facingOffset(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}
