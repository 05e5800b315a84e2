// Package algo implements the path planning subsystem: a generic A*
// search, a generic RRT, the discretised radar-map path finder built
// on top of RRT, and post-hoc path optimisation.
package algo

import "container/heap"

// AStarProblem parameterises the generic search over any node type N.
// N must be comparable so the search can use it as a map key for the
// closed/open bookkeeping.
type AStarProblem[N comparable] struct {
	Initial  N
	IsGoal   func(N) bool
	Cost     func(a, b N) float64
	Estimate func(n N) float64
	Children func(n N) []N
}

type aStarNode[N comparable] struct {
	state  N
	g, f   float64
	parent *aStarNode[N]
	index  int
}

type aStarHeap[N comparable] []*aStarNode[N]

func (h aStarHeap[N]) Len() int            { return len(h) }
func (h aStarHeap[N]) Less(i, j int) bool  { return h[i].f < h[j].f }
func (h aStarHeap[N]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *aStarHeap[N]) Push(x any) {
	n := x.(*aStarNode[N])
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *aStarHeap[N]) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// AStar runs A* over problem and returns the reconstructed path from
// Initial to the first accepted goal node, or (nil, false) if no goal
// is reachable. It never expands a node whose f-score is worse than a
// node still on the frontier.
func AStar[N comparable](problem AStarProblem[N]) ([]N, bool) {
	open := &aStarHeap[N]{}
	heap.Init(open)
	best := map[N]float64{problem.Initial: 0}
	heap.Push(open, &aStarNode[N]{state: problem.Initial, g: 0, f: problem.Estimate(problem.Initial)})

	for open.Len() > 0 {
		current := heap.Pop(open).(*aStarNode[N])
		if g, ok := best[current.state]; ok && current.g > g {
			continue // stale entry, a cheaper path to this state was already expanded
		}
		if problem.IsGoal(current.state) {
			return reconstructPath(current), true
		}
		for _, child := range problem.Children(current.state) {
			g := current.g + problem.Cost(current.state, child)
			if existing, ok := best[child]; ok && g >= existing {
				continue
			}
			best[child] = g
			heap.Push(open, &aStarNode[N]{
				state:  child,
				g:      g,
				f:      g + problem.Estimate(child),
				parent: current,
			})
		}
	}
	return nil, false
}

func reconstructPath[N comparable](n *aStarNode[N]) []N {
	var path []N
	for cur := n; cur != nil; cur = cur.parent {
		path = append([]N{cur.state}, path...)
	}
	return path
}
