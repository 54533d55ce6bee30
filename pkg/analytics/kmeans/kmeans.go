// Package kmeans clusters embeddings with k-means++ seeding and cosine-similarity
// assignment.
//
// Seeding spreads the initial centroids by squared Euclidean distance while the
// assignment step compares embeddings by orientation (cosine similarity). The two
// metrics are intentionally different.
package kmeans

import (
	"math/rand"
	"time"

	"legal-insight-be/pkg/analytics/vectormath"
)

const DefaultMaxIterations = 50

// Result is the cluster assignment of one run. It is not persisted.
type Result struct {
	Assignments []int
	Centroids   [][]float64
	Iterations  int
	Converged   bool
}

type options struct {
	maxIterations int
	rng           *rand.Rand
}

type Option func(*options)

// WithMaxIterations bounds the number of assign/update rounds.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxIterations = n
		}
	}
}

// WithRand pins the random source used for seeding.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		if rng != nil {
			o.rng = rng
		}
	}
}

// Cluster partitions vectors into k clusters. All vectors must share one dimension.
// When len(vectors) <= k every vector becomes its own cluster.
func Cluster(vectors [][]float64, k int, opts ...Option) Result {
	o := options{maxIterations: DefaultMaxIterations}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if k < 1 {
		k = 1
	}

	n := len(vectors)
	if n == 0 {
		return Result{Assignments: []int{}, Centroids: [][]float64{}, Converged: true}
	}

	if n <= k {
		assignments := make([]int, n)
		centroids := make([][]float64, n)
		for i, v := range vectors {
			assignments[i] = i
			centroids[i] = clone(v)
		}
		return Result{Assignments: assignments, Centroids: centroids, Converged: true}
	}

	centroids := seedPlusPlus(vectors, k, o.rng)

	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = -1
	}

	res := Result{}
	for iter := 0; iter < o.maxIterations; iter++ {
		res.Iterations = iter + 1

		changed := false
		for i, v := range vectors {
			best := nearest(v, centroids)
			if best != assignments[i] {
				assignments[i] = best
				changed = true
			}
		}
		if !changed {
			res.Converged = true
			break
		}

		updateCentroids(vectors, assignments, centroids)
	}

	res.Assignments = assignments
	res.Centroids = centroids
	return res
}

// nearest returns the index of the centroid with the highest cosine similarity to v.
// Ties go to the lowest index.
func nearest(v []float64, centroids [][]float64) int {
	best := 0
	bestSim := vectormath.CosineSimilarity(v, centroids[0])
	for c := 1; c < len(centroids); c++ {
		if sim := vectormath.CosineSimilarity(v, centroids[c]); sim > bestSim {
			best, bestSim = c, sim
		}
	}
	return best
}

// updateCentroids recomputes each centroid as the mean of its members.
// A cluster without members keeps its previous centroid.
func updateCentroids(vectors [][]float64, assignments []int, centroids [][]float64) {
	dim := len(vectors[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}

	for i, v := range vectors {
		c := assignments[i]
		counts[c]++
		for d, x := range v {
			sums[c][d] += x
		}
	}

	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		n := float64(counts[c])
		for d := range sums[c] {
			sums[c][d] /= n
		}
		centroids[c] = sums[c]
	}
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
