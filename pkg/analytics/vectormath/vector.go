package vectormath

import (
	"errors"
	"fmt"
	"math"
)

// ErrDimensionMismatch is reported when two embeddings of different length meet.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

func mustMatch(a, b []float64) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("%v: %d != %d", ErrDimensionMismatch, len(a), len(b)))
	}
}

// Dot returns the inner product of a and b.
func Dot(a, b []float64) float64 {
	mustMatch(a, b)
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm returns the L2 norm of v.
func Norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// CosineSimilarity returns dot(a,b) / (|a|*|b|), or 0 when either vector has zero norm.
func CosineSimilarity(a, b []float64) float64 {
	mustMatch(a, b)
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// SquaredEuclidean returns the squared L2 distance between a and b.
func SquaredEuclidean(a, b []float64) float64 {
	mustMatch(a, b)
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// EuclideanDistance returns the L2 distance between a and b.
func EuclideanDistance(a, b []float64) float64 {
	return math.Sqrt(SquaredEuclidean(a, b))
}

// Mean returns the dimension-wise mean of vectors. Returns nil for an empty input.
func Mean(vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return nil
	}
	mean := make([]float64, len(vectors[0]))
	for _, v := range vectors {
		mustMatch(mean, v)
		for i, x := range v {
			mean[i] += x
		}
	}
	n := float64(len(vectors))
	for i := range mean {
		mean[i] /= n
	}
	return mean
}

// MeanStdDev returns the population mean and standard deviation of values.
func MeanStdDev(values []float64) (mean, stddev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

// CheckDimensions verifies that every vector is non-empty and shares the length of the
// first one. It returns the common dimension.
func CheckDimensions(vectors [][]float64) (int, error) {
	if len(vectors) == 0 {
		return 0, nil
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) == 0 {
			return 0, fmt.Errorf("vector %d is empty", i)
		}
		if len(v) != dim {
			return 0, fmt.Errorf("vector %d: %w (%d != %d)", i, ErrDimensionMismatch, len(v), dim)
		}
	}
	return dim, nil
}

// ToFloat64 widens a float32 embedding as stored by pgvector.
func ToFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
