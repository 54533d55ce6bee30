// Package projection reduces embeddings to two dimensions for plotting.
//
// Instead of decomposing the DxD covariance matrix it runs power iteration on the
// nxn Gram matrix of centered vectors, which is much smaller when the corpus holds
// fewer items than the embedding has dimensions.
package projection

import (
	"math"
	"math/rand"
	"time"

	"legal-insight-be/pkg/analytics/vectormath"
)

const (
	DefaultIterations = 200

	degenerateNorm = 1e-10
	axisFloor      = 1e-10
)

// Coordinates holds one x and one y per input vector, each in [-1, 1].
type Coordinates struct {
	X []float64
	Y []float64
}

type options struct {
	iterations int
	rng        *rand.Rand
}

type Option func(*options)

// WithIterations sets the number of power-iteration steps per eigenpair.
func WithIterations(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.iterations = n
		}
	}
}

// WithRand pins the random source used for the power-iteration start vectors.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		if rng != nil {
			o.rng = rng
		}
	}
}

// PCA2D projects vectors onto their two leading principal directions.
func PCA2D(vectors [][]float64, opts ...Option) Coordinates {
	o := options{iterations: DefaultIterations}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	n := len(vectors)
	switch n {
	case 0:
		return Coordinates{X: []float64{}, Y: []float64{}}
	case 1:
		return Coordinates{X: []float64{0}, Y: []float64{0}}
	}

	// 1. Center
	mean := vectormath.Mean(vectors)
	centered := make([][]float64, n)
	for i, v := range vectors {
		c := make([]float64, len(v))
		for d := range v {
			c[d] = v[d] - mean[d]
		}
		centered[i] = c
	}

	// 2. Gram matrix
	gram := make([][]float64, n)
	for i := range gram {
		gram[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			dot := vectormath.Dot(centered[i], centered[j])
			gram[i][j] = dot
			gram[j][i] = dot
		}
	}

	// 3. Leading eigenpair, deflate, second eigenpair
	v1, l1 := powerIteration(gram, o.iterations, o.rng)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			gram[i][j] -= l1 * v1[i] * v1[j]
		}
	}
	v2, l2 := powerIteration(gram, o.iterations, o.rng)

	// 4. Scale and normalize each axis into [-1, 1]
	return Coordinates{
		X: normalizeAxis(scale(v1, l1)),
		Y: normalizeAxis(scale(v2, l2)),
	}
}

// powerIteration returns an approximation of the dominant eigenvector (unit length)
// and eigenvalue of the symmetric matrix m.
func powerIteration(m [][]float64, iterations int, rng *rand.Rand) ([]float64, float64) {
	n := len(m)
	v := make([]float64, n)
	for i := range v {
		v[i] = rng.Float64() - 0.5
	}
	normalize(v)

	var eigenvalue float64
	next := make([]float64, n)
	for iter := 0; iter < iterations; iter++ {
		for i := 0; i < n; i++ {
			var sum float64
			for j := 0; j < n; j++ {
				sum += m[i][j] * v[j]
			}
			next[i] = sum
		}

		// Rayleigh quotient; v is unit length.
		eigenvalue = vectormath.Dot(v, next)

		norm := vectormath.Norm(next)
		if norm < degenerateNorm {
			break
		}
		for i := range v {
			v[i] = next[i] / norm
		}
	}

	return v, eigenvalue
}

func normalize(v []float64) {
	norm := vectormath.Norm(v)
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}

func scale(v []float64, eigenvalue float64) []float64 {
	s := math.Sqrt(math.Abs(eigenvalue))
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x * s
	}
	return out
}

func normalizeAxis(values []float64) []float64 {
	maxAbs := axisFloor
	for _, x := range values {
		if a := math.Abs(x); a > maxAbs {
			maxAbs = a
		}
	}
	for i := range values {
		values[i] /= maxAbs
	}
	return values
}
