package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func totalCost(costs [][]float64, assignment []int) float64 {
	total := 0.0
	for i, j := range assignment {
		total += costs[i][j]
	}
	return total
}

func TestHungarianSquare(t *testing.T) {
	costs := [][]float64{
		{4, 1, 3},
		{2, 0, 5},
		{3, 2, 2},
	}

	got := hungarian(costs)
	require.Equal(t, []int{1, 0, 2}, got)
	require.InDelta(t, 5.0, totalCost(costs, got), 1e-9)
}

func TestHungarianRectangular(t *testing.T) {
	// Two rows, four columns: the solver picks the two cheapest compatible
	// columns.
	costs := [][]float64{
		{10, 2, 8, 9},
		{1, 7, 8, 9},
	}

	got := hungarian(costs)
	require.Equal(t, []int{1, 0}, got)
	require.InDelta(t, 3.0, totalCost(costs, got), 1e-9)
}

func TestHungarianAvoidsGreedyTrap(t *testing.T) {
	// Greedy would give row 0 its cheapest column 0 and force row 1 into an
	// expensive cell; the optimum swaps them.
	costs := [][]float64{
		{1, 2},
		{1, 100},
	}

	got := hungarian(costs)
	require.Equal(t, []int{1, 0}, got)
	require.InDelta(t, 3.0, totalCost(costs, got), 1e-9)
}

func TestHungarianDistinctColumns(t *testing.T) {
	costs := [][]float64{
		{1, 1, 1},
		{1, 1, 1},
		{1, 1, 1},
	}

	got := hungarian(costs)
	seen := map[int]bool{}
	for _, j := range got {
		require.False(t, seen[j], "column %d assigned twice", j)
		seen[j] = true
	}
}

func TestHungarianEmpty(t *testing.T) {
	require.Nil(t, hungarian(nil))
}
