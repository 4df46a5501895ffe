package optimizer

import "math"

// hungarian solves the rectangular assignment problem for an n x m cost
// matrix with n <= m, returning for each row the column it is assigned to.
// The total assigned cost is minimal. O(n^2 m).
func hungarian(costs [][]float64) []int {
	n := len(costs)
	if n == 0 {
		return nil
	}
	m := len(costs[0])
	if n > m {
		panic("hungarian: more rows than columns")
	}

	inf := math.Inf(1)

	// Potentials and matching use 1-based indices; p[j] is the row matched
	// to column j, with p[0] holding the row currently being placed.
	u := make([]float64, n+1)
	v := make([]float64, m+1)
	p := make([]int, m+1)
	way := make([]int, m+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0

		minv := make([]float64, m+1)
		used := make([]bool, m+1)
		for j := range minv {
			minv[j] = inf
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := 0

			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := costs[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			for j := 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		// Walk the augmenting path back.
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	result := make([]int, n)
	for j := 1; j <= m; j++ {
		if p[j] > 0 {
			result[p[j]-1] = j - 1
		}
	}
	return result
}
