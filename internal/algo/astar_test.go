package algo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a tiny 1-D line graph: nodes 0..9, each connected to its neighbours.
func lineProblem(goal int) AStarProblem[int] {
	return AStarProblem[int]{
		Initial:  0,
		IsGoal:   func(n int) bool { return n == goal },
		Cost:     func(a, b int) float64 { return 1 },
		Estimate: func(n int) float64 { return float64(abs(goal - n)) },
		Children: func(n int) []int {
			var children []int
			if n > 0 {
				children = append(children, n-1)
			}
			if n < 9 {
				children = append(children, n+1)
			}
			return children
		},
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestAStarFindsShortestPath(t *testing.T) {
	path, found := AStar(lineProblem(5))
	require.True(t, found)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, path)
}

func TestAStarUnreachableGoal(t *testing.T) {
	problem := AStarProblem[int]{
		Initial:  0,
		IsGoal:   func(n int) bool { return n == 100 },
		Cost:     func(a, b int) float64 { return 1 },
		Estimate: func(n int) float64 { return 0 },
		Children: func(n int) []int { return nil },
	}
	_, found := AStar(problem)
	assert.False(t, found)
}

func TestAStarSingleNodeGoal(t *testing.T) {
	path, found := AStar(lineProblem(0))
	require.True(t, found)
	assert.Equal(t, []int{0}, path)
}
