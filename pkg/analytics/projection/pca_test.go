package projection

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPCA2D_Trivial(t *testing.T) {
	empty := PCA2D(nil)
	assert.Equal(t, []float64{}, empty.X)
	assert.Equal(t, []float64{}, empty.Y)

	single := PCA2D([][]float64{{0.4, 0.1, 0.9}})
	assert.Equal(t, []float64{0}, single.X)
	assert.Equal(t, []float64{0}, single.Y)
}

func TestPCA2D_CoordinatesWithinUnitRange(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	vectors := make([][]float64, 25)
	for i := range vectors {
		v := make([]float64, 64)
		for d := range v {
			v[d] = rng.NormFloat64()
		}
		vectors[i] = v
	}

	coords := PCA2D(vectors, WithRand(rand.New(rand.NewSource(1))))
	require.Len(t, coords.X, len(vectors))
	require.Len(t, coords.Y, len(vectors))

	for i := range vectors {
		assert.GreaterOrEqual(t, coords.X[i], -1.0)
		assert.LessOrEqual(t, coords.X[i], 1.0)
		assert.GreaterOrEqual(t, coords.Y[i], -1.0)
		assert.LessOrEqual(t, coords.Y[i], 1.0)
	}

	// Each axis reaches its bound exactly once normalized.
	assert.InDelta(t, 1.0, maxAbs(coords.X), 1e-9)
	assert.InDelta(t, 1.0, maxAbs(coords.Y), 1e-9)
}

func TestPCA2D_IdenticalVectors(t *testing.T) {
	vectors := [][]float64{{1, 2, 3}, {1, 2, 3}, {1, 2, 3}}
	coords := PCA2D(vectors, WithRand(rand.New(rand.NewSource(2))))
	for i := range vectors {
		assert.Equal(t, 0.0, coords.X[i])
		assert.Equal(t, 0.0, coords.Y[i])
		assert.False(t, math.IsNaN(coords.X[i]))
	}
}

func TestPCA2D_RecoversDominantAxis(t *testing.T) {
	// Points spread along the first dimension, little spread along the third.
	vectors := [][]float64{
		{-4, 0, 0.1},
		{-2, 0, -0.1},
		{2, 0, -0.1},
		{4, 0, 0.1},
	}
	coords := PCA2D(vectors, WithRand(rand.New(rand.NewSource(4))))

	// x follows the first dimension up to sign.
	sign := 1.0
	if coords.X[0] > 0 {
		sign = -1.0
	}
	assert.InDelta(t, -1.0, sign*coords.X[0], 1e-6)
	assert.InDelta(t, -0.5, sign*coords.X[1], 1e-6)
	assert.InDelta(t, 0.5, sign*coords.X[2], 1e-6)
	assert.InDelta(t, 1.0, sign*coords.X[3], 1e-6)
}

func TestPowerIteration_DiagonalMatrix(t *testing.T) {
	m := [][]float64{
		{5, 0, 0},
		{0, 2, 0},
		{0, 0, 1},
	}
	v, lambda := powerIteration(m, 200, rand.New(rand.NewSource(8)))
	assert.InDelta(t, 5.0, lambda, 1e-6)
	assert.InDelta(t, 1.0, math.Abs(v[0]), 1e-6)
}

func TestPowerIteration_ZeroMatrixStopsEarly(t *testing.T) {
	m := [][]float64{{0, 0}, {0, 0}}
	v, lambda := powerIteration(m, 200, rand.New(rand.NewSource(8)))
	assert.Equal(t, 0.0, lambda)
	assert.Len(t, v, 2)
}

func maxAbs(values []float64) float64 {
	var m float64
	for _, v := range values {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}
