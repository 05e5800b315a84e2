package statenode

import (
	"github.com/m-marini/wheellyj-sub009/internal/bridge"
	"github.com/m-marini/wheellyj-sub009/internal/core"
	"github.com/m-marini/wheellyj-sub009/internal/proc"
)

// publishTarget sets both the context's target indicator and its
// TargetKey slot, the common shape every point-chooser behaviour ends
// with.
func publishTarget(ctx *proc.Context, targetKey string, p core.Point) {
	ctx.SetTarget(&p)
	if targetKey != "" {
		ctx.Put(targetKey, proc.PointValue(p))
	}
}

// ExploringPoint chooses the furthest safe cell on the frontier of the
// unknown region, biasing exploration outward.
type ExploringPoint struct {
	*Base

	SafetyDistance float64
	TargetKey      string
}

func NewExploringPoint(base *Base, safetyDistance float64, targetKey string) *ExploringPoint {
	return &ExploringPoint{Base: base, SafetyDistance: safetyDistance, TargetKey: targetKey}
}

func (e *ExploringPoint) Step(ctx *proc.Context) (ExitKey, bridge.RobotCommand) {
	world := ctx.WorldModel()
	if world.RadarMap == nil {
		return ExitNotFound, bridge.Halt()
	}

	frontier := world.RadarMap.Contour(func(c core.MapCell) bool { return c.State == core.Unknown })
	safe := make(map[core.Index]bool)
	for _, idx := range world.RadarMap.SafeSectors(e.SafetyDistance) {
		safe[idx] = true
	}

	var best core.Point
	bestDist := -1.0
	found := false
	for _, idx := range frontier {
		if !safe[idx] {
			continue
		}
		p := world.RadarMap.Topology.ToPoint(idx)
		d := world.RobotStatus.Location.Distance(p)
		if d > bestDist {
			bestDist = d
			best = p
			found = true
		}
	}
	if !found {
		return ExitNotFound, bridge.Halt()
	}
	publishTarget(ctx, e.TargetKey, best)
	return ExitCompleted, bridge.Halt()
}

// LabelPoint chooses a point just beyond the nearest label, continuing
// the robot-to-label direction by SafeDistance+Margin — a standoff
// approach target rather than the label itself.
type LabelPoint struct {
	*Base

	SafeDistance float64
	Margin       float64
	TargetKey    string
}

func NewLabelPoint(base *Base, safeDistance, margin float64, targetKey string) *LabelPoint {
	return &LabelPoint{Base: base, SafeDistance: safeDistance, Margin: margin, TargetKey: targetKey}
}

func (l *LabelPoint) Step(ctx *proc.Context) (ExitKey, bridge.RobotCommand) {
	world := ctx.WorldModel()
	marker, ok := world.NearestMarker(world.RobotStatus.Location)
	if !ok {
		return ExitNotFound, bridge.Halt()
	}
	dir := core.DirectionTo(world.RobotStatus.Location, marker.Location)
	point := marker.Location.Moved(dir, l.SafeDistance+l.Margin)
	publishTarget(ctx, l.TargetKey, point)
	return ExitCompleted, bridge.Halt()
}

// CautiousPoint chooses the polar map's safe centroid: the
// distance-weighted mass-centre of nearby open sectors.
type CautiousPoint struct {
	*Base

	MaxDistance float64
	TargetKey   string
}

func NewCautiousPoint(base *Base, maxDistance float64, targetKey string) *CautiousPoint {
	return &CautiousPoint{Base: base, MaxDistance: maxDistance, TargetKey: targetKey}
}

func (c *CautiousPoint) Step(ctx *proc.Context) (ExitKey, bridge.RobotCommand) {
	world := ctx.WorldModel()
	if world.PolarMap == nil {
		return ExitNotFound, bridge.Halt()
	}
	p, ok := world.PolarMap.SafeCentroid(c.MaxDistance)
	if !ok {
		return ExitNotFound, bridge.Halt()
	}
	publishTarget(ctx, c.TargetKey, p)
	return ExitCompleted, bridge.Halt()
}
