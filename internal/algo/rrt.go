package algo

import (
	"math/rand"
	"time"
)

// RRTProblem parameterises the generic RRT over any configuration type
// C. C must be comparable so grown vertices can be deduplicated and
// looked up as parents.
type RRTProblem[C comparable] struct {
	Initial C

	// NewConfiguration draws one sample from the remaining free
	// configuration set, given a caller-seeded RNG. Returns false when
	// the free set is exhausted.
	NewConfiguration func(rng *rand.Rand) (C, bool)

	// Interpolate moves from nearest toward sample, returning the
	// actual new configuration to try to add (e.g. one growth-distance
	// step, snapped to a grid).
	Interpolate func(nearest, sample C) C

	Distance    func(a, b C) float64
	IsConnected func(a, b C) bool
	IsGoal      func(c C) bool
}

// RRTBudget bounds a Run: it terminates on whichever of these is hit
// first. Zero disables a given bound except MaxIterations, which must
// be positive to guarantee termination.
type RRTBudget struct {
	MinGoals      int
	MaxIterations int
	MaxSearchTime time.Duration
}

// RRT is a rapidly-exploring random tree grown over configuration type
// C. Given the same seed, problem and budget, Grow's accepted vertex
// sequence is reproducible.
type RRT[C comparable] struct {
	problem  RRTProblem[C]
	rng      *rand.Rand
	vertices []C
	parent   map[C]C
	goals    []C
}

// NewRRT builds an RRT rooted at problem.Initial, seeded deterministically.
func NewRRT[C comparable](problem RRTProblem[C], seed int64) *RRT[C] {
	return &RRT[C]{
		problem:  problem,
		rng:      rand.New(rand.NewSource(seed)),
		vertices: []C{problem.Initial},
		parent:   make(map[C]C),
	}
}

// Vertices returns every vertex accepted so far, in growth order.
func (r *RRT[C]) Vertices() []C {
	return r.vertices
}

// Goals returns every goal vertex found so far, in discovery order.
func (r *RRT[C]) Goals() []C {
	return r.goals
}

func (r *RRT[C]) nearest(sample C) C {
	best := r.vertices[0]
	bestD := r.problem.Distance(best, sample)
	for _, v := range r.vertices[1:] {
		if d := r.problem.Distance(v, sample); d < bestD {
			best, bestD = v, d
		}
	}
	return best
}

func (r *RRT[C]) hasVertex(c C) bool {
	for _, v := range r.vertices {
		if v == c {
			return true
		}
	}
	return false
}

// Grow performs one RRT expansion attempt: sample, find nearest,
// interpolate toward it, and accept the candidate iff the sample came
// from the free set, it is not already a vertex, and it is reachable
// from the nearest vertex. Returns whether a new vertex was added.
func (r *RRT[C]) Grow() bool {
	sample, ok := r.problem.NewConfiguration(r.rng)
	if !ok {
		return false
	}
	nearest := r.nearest(sample)
	candidate := r.problem.Interpolate(nearest, sample)
	if r.hasVertex(candidate) {
		return false
	}
	if !r.problem.IsConnected(nearest, candidate) {
		return false
	}
	r.vertices = append(r.vertices, candidate)
	r.parent[candidate] = nearest
	if r.problem.IsGoal(candidate) {
		r.goals = append(r.goals, candidate)
	}
	return true
}

// Run grows the tree under budget, using elapsed to measure wall time
// (injected so tests can fake it deterministically instead of sleeping).
// Returns the path to the first goal found, or (nil, false) if the
// budget was exhausted without reaching min goals.
func (r *RRT[C]) Run(budget RRTBudget, elapsed func() time.Duration) ([]C, bool) {
	iterations := 0
	maxIterations := budget.MaxIterations
	if maxIterations <= 0 {
		maxIterations = 1
	}
	for iterations < maxIterations {
		if budget.MinGoals > 0 && len(r.goals) >= budget.MinGoals {
			break
		}
		if budget.MaxSearchTime > 0 && elapsed() >= budget.MaxSearchTime {
			break
		}
		r.Grow()
		iterations++
	}
	if len(r.goals) == 0 {
		return nil, false
	}
	return r.PathTo(r.goals[0]), true
}

// PathTo reconstructs the tree path from the root to goal.
func (r *RRT[C]) PathTo(goal C) []C {
	path := []C{goal}
	cur := goal
	for {
		p, ok := r.parent[cur]
		if !ok {
			break
		}
		path = append([]C{p}, path...)
		cur = p
	}
	return path
}
