package outlier

import (
	"fmt"

	"legal-insight-be/pkg/analytics/vectormath"
)

// Multiplier is the number of standard deviations above the mean score an item must
// exceed to be flagged.
const Multiplier = 1.5

// Report holds the per-item scores of one run and the threshold they were judged by.
type Report struct {
	Scores    []float64
	Flags     []bool
	Mean      float64
	StdDev    float64
	Threshold float64
}

// Score measures how far each vector sits from its assigned centroid as
// 1 - cosine similarity, then flags everything above mean + 1.5 * stddev.
func Score(vectors [][]float64, assignments []int, centroids [][]float64) (Report, error) {
	if len(assignments) != len(vectors) {
		return Report{}, fmt.Errorf("outlier: %d assignments for %d vectors", len(assignments), len(vectors))
	}

	scores := make([]float64, len(vectors))
	for i, v := range vectors {
		c := assignments[i]
		if c < 0 || c >= len(centroids) {
			return Report{}, fmt.Errorf("outlier: vector %d assigned to unknown cluster %d", i, c)
		}
		scores[i] = 1 - vectormath.CosineSimilarity(v, centroids[c])
	}

	return Flag(scores), nil
}

// Flag derives the threshold from the scores themselves and marks the items above it.
func Flag(scores []float64) Report {
	mean, std := vectormath.MeanStdDev(scores)
	threshold := mean + Multiplier*std

	flags := make([]bool, len(scores))
	for i, s := range scores {
		flags[i] = s > threshold
	}

	return Report{
		Scores:    scores,
		Flags:     flags,
		Mean:      mean,
		StdDev:    std,
		Threshold: threshold,
	}
}
