package kmeans

import (
	"math"
	"math/rand"

	"legal-insight-be/pkg/analytics/vectormath"
)

// seedPlusPlus picks k distinct starting centroids with k-means++.
// Requires len(vectors) > k.
func seedPlusPlus(vectors [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(vectors)
	chosen := make([]bool, n)
	centroids := make([][]float64, 0, k)

	first := rng.Intn(n)
	chosen[first] = true
	centroids = append(centroids, clone(vectors[first]))

	// minDist[i] is the squared distance from point i to its nearest chosen centroid.
	minDist := make([]float64, n)
	for i := range minDist {
		minDist[i] = math.Inf(1)
	}

	for len(centroids) < k {
		last := centroids[len(centroids)-1]
		var total float64
		for i, v := range vectors {
			if chosen[i] {
				continue
			}
			if d := vectormath.SquaredEuclidean(v, last); d < minDist[i] {
				minDist[i] = d
			}
			total += minDist[i]
		}

		next := -1
		target := rng.Float64() * total
		var cumulative float64
		for i := range vectors {
			if chosen[i] {
				continue
			}
			cumulative += minDist[i]
			if target < cumulative {
				next = i
				break
			}
		}

		// Rounding (or an all-zero distance sum) can run past the end of the wheel.
		if next == -1 {
			next = pickUnchosen(chosen, rng)
		}

		chosen[next] = true
		centroids = append(centroids, clone(vectors[next]))
	}

	return centroids
}

// pickUnchosen returns a uniformly random index that has not been chosen yet.
func pickUnchosen(chosen []bool, rng *rand.Rand) int {
	remaining := make([]int, 0, len(chosen))
	for i, c := range chosen {
		if !c {
			remaining = append(remaining, i)
		}
	}
	return remaining[rng.Intn(len(remaining))]
}
