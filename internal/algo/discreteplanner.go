package algo

import (
	"math/rand"
	"time"

	"github.com/m-marini/wheellyj-sub009/internal/core"
)

// DiscreteRRTPathFinder grows an RRT whose configurations are
// radar-safe, grid-snapped points. Sampling is restricted to the
// "free set" supplied by the caller (one of the three goal-set
// recipes below, or the whole safe-sector set while exploring), so
// the generic RRT's "(1) sample drawn from the remaining free set"
// acceptance rule is satisfied by construction.
type DiscreteRRTPathFinder struct {
	Radar          *core.RadarMap
	SafetyDistance float64
	GrowthDistance float64
	FreeSet        []core.Point
	IsGoal         func(core.Point) bool
}

// NewRRT builds the underlying generic RRT rooted at from, seeded
// deterministically.
func (f DiscreteRRTPathFinder) NewRRT(from core.Point, seed int64) *RRT[core.Point] {
	problem := RRTProblem[core.Point]{
		Initial: from,
		NewConfiguration: func(rng *rand.Rand) (core.Point, bool) {
			if len(f.FreeSet) == 0 {
				return core.Point{}, false
			}
			return f.FreeSet[rng.Intn(len(f.FreeSet))], true
		},
		Interpolate: func(nearest, sample core.Point) core.Point {
			dist := nearest.Distance(sample)
			if dist <= f.GrowthDistance || dist == 0 {
				return f.Radar.Topology.Snap(sample)
			}
			h := core.DirectionTo(nearest, sample)
			return f.Radar.Topology.Snap(nearest.Moved(h, f.GrowthDistance))
		},
		Distance: func(a, b core.Point) float64 { return a.Distance(b) },
		IsConnected: func(a, b core.Point) bool {
			return f.Radar.FreeTrajectory(a, b, f.SafetyDistance)
		},
		IsGoal: f.IsGoal,
	}
	return NewRRT(problem, seed)
}

// Plan grows the RRT under budget and, if a goal was found, optimises
// the resulting polyline with PathOptimise.
func (f DiscreteRRTPathFinder) Plan(from core.Point, budget RRTBudget, seed int64, elapsed func() time.Duration) ([]core.Point, bool) {
	tree := f.NewRRT(from, seed)
	path, found := tree.Run(budget, elapsed)
	if !found {
		return nil, false
	}
	return PathOptimise(f.Radar, path, f.SafetyDistance), true
}

// LabelTargetFreeSet builds the free set and goal predicate for the
// "approach a labelled target" recipe: safe-sector cells inside a disk
// around target, excluding the robot's own footprint.
func LabelTargetFreeSet(radar *core.RadarMap, target core.Point, approachRadius, footprint float64) ([]core.Point, func(core.Point) bool) {
	area := core.And(core.Circle(target, approachRadius), core.Not(core.Circle(target, footprint)))
	safe := safeSectorPoints(radar, radar.Topology.GridSize)
	var freeSet []core.Point
	for _, p := range safe {
		if area.Eval(p) {
			freeSet = append(freeSet, p)
		}
	}
	goal := func(p core.Point) bool { return area.Eval(p) }
	return freeSet, goal
}

// RefreshFreeSet builds the free set and goal predicate for the
// "revisit the stalest empty cell" recipe: the single Empty cell with
// the oldest echo time within maxDistance of center.
func RefreshFreeSet(radar *core.RadarMap, center core.Point, maxDistance float64) ([]core.Point, func(core.Point) bool) {
	idx, ok := radar.OldestEmptyWithin(center, maxDistance)
	if !ok {
		return nil, func(core.Point) bool { return false }
	}
	target := radar.Topology.ToPoint(idx)
	return []core.Point{target}, func(p core.Point) bool { return p == target }
}

// UnknownContourFreeSet builds the free set and goal predicate for the
// "explore the frontier of the unknown region" recipe.
func UnknownContourFreeSet(radar *core.RadarMap) ([]core.Point, func(core.Point) bool) {
	contour := radar.Contour(func(c core.MapCell) bool { return c.State == core.Unknown })
	set := make(map[core.Point]bool, len(contour))
	points := make([]core.Point, 0, len(contour))
	for _, idx := range contour {
		p := radar.Topology.ToPoint(idx)
		set[p] = true
		points = append(points, p)
	}
	return points, func(p core.Point) bool { return set[p] }
}

func safeSectorPoints(radar *core.RadarMap, safetyDistance float64) []core.Point {
	indices := radar.SafeSectors(safetyDistance)
	points := make([]core.Point, len(indices))
	for i, idx := range indices {
		points[i] = radar.Topology.ToPoint(idx)
	}
	return points
}

// PathOptimise takes a produced polyline and returns a corner-cut
// version: a node j is reachable from i (i<j) iff the straight segment
// is free, and A* over that shortcut graph with Euclidean cost gives
// the shortest such path. Strictly non-increasing in length, and every
// segment of the result satisfies FreeTrajectory at safetyDistance.
func PathOptimise(radar *core.RadarMap, path []core.Point, safetyDistance float64) []core.Point {
	if len(path) <= 2 {
		return path
	}
	last := len(path) - 1
	problem := AStarProblem[int]{
		Initial: 0,
		IsGoal:  func(i int) bool { return i == last },
		Cost: func(a, b int) float64 {
			return path[a].Distance(path[b])
		},
		Estimate: func(i int) float64 {
			return path[i].Distance(path[last])
		},
		Children: func(i int) []int {
			var children []int
			for j := i + 1; j <= last; j++ {
				if radar.FreeTrajectory(path[i], path[j], safetyDistance) {
					children = append(children, j)
				}
			}
			return children
		},
	}
	indices, found := AStar(problem)
	if !found {
		return path
	}
	optimised := make([]core.Point, len(indices))
	for i, idx := range indices {
		optimised[i] = path[idx]
	}
	return optimised
}
