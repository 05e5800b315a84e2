package algo

import "github.com/m-marini/wheellyj-sub009/internal/core"

// SectorGraphPath runs A* over the radar map's cell graph (neighbours
// connected when free of a Hindered obstacle within safetyDistance) to
// reach any index accepted by isGoal. It is the planner behind
// FindLabel and FindUnknown: a quick, non-optimal route to a labelled
// or unexplored target, not a globally shortest path.
func SectorGraphPath(radar *core.RadarMap, from core.Point, safetyDistance float64, isGoal func(core.Index) bool) ([]core.Point, bool) {
	start, ok := radar.Topology.IndexOf(from)
	if !ok {
		return nil, false
	}
	notHindered := func(c core.MapCell) bool { return c.State != core.Hindered }

	problem := AStarProblem[core.Index]{
		Initial: start,
		IsGoal:  isGoal,
		Cost: func(a, b core.Index) float64 {
			return radar.Topology.ToPoint(a).Distance(radar.Topology.ToPoint(b))
		},
		Estimate: func(core.Index) float64 { return 0 },
		Children: func(n core.Index) []core.Index {
			return radar.NeighbourIndices(radar.Topology.ToPoint(n), safetyDistance, notHindered)
		},
	}

	path, found := AStar(problem)
	if !found {
		return nil, false
	}
	points := make([]core.Point, len(path))
	for i, idx := range path {
		points[i] = radar.Topology.ToPoint(idx)
	}
	return points, true
}

// LabelGoal returns a goal predicate matching indices within radius of
// target — used by FindLabel to aim at a disk around a detected label.
func LabelGoal(radar *core.RadarMap, target core.Point, radius float64) func(core.Index) bool {
	return func(idx core.Index) bool {
		return radar.Topology.ToPoint(idx).Distance(target) <= radius
	}
}

// UnknownFrontierGoal returns a goal predicate matching the contour of
// the unknown region — used by FindUnknown to aim at the nearest
// unexplored frontier.
func UnknownFrontierGoal(radar *core.RadarMap) func(core.Index) bool {
	contour := radar.Contour(func(c core.MapCell) bool { return c.State == core.Unknown })
	set := make(map[core.Index]bool, len(contour))
	for _, idx := range contour {
		set[idx] = true
	}
	return func(idx core.Index) bool { return set[idx] }
}
