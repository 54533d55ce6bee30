package insight

import "legal-insight-be/pkg/analytics/vectormath"

// SimilarityMatrix returns the pairwise cosine similarity of vectors. The diagonal is
// set to exactly 1 rather than computed.
func SimilarityMatrix(vectors [][]float64) [][]float64 {
	n := len(vectors)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sim := vectormath.CosineSimilarity(vectors[i], vectors[j])
			matrix[i][j] = sim
			matrix[j][i] = sim
		}
	}
	return matrix
}

// BuildSimilarityData pairs the matrix with the agreement labels it is indexed by.
func BuildSimilarityData(agreements []Agreement, matrix [][]float64) SimilarityMatrixData {
	data := SimilarityMatrixData{
		Matrix:       matrix,
		Labels:       make([]string, len(agreements)),
		AgreementIDs: make([]string, len(agreements)),
		Providers:    make([]string, len(agreements)),
	}
	for i, a := range agreements {
		data.Labels[i] = a.Name
		data.AgreementIDs[i] = a.ID
		data.Providers[i] = a.Provider
	}
	return data
}

// MostSimilarPair returns the off-diagonal argmax of matrix. ok is false when there
// are fewer than two rows.
func MostSimilarPair(matrix [][]float64) (i, j int, similarity float64, ok bool) {
	for a := 0; a < len(matrix); a++ {
		for b := a + 1; b < len(matrix); b++ {
			if !ok || matrix[a][b] > similarity {
				i, j, similarity, ok = a, b, matrix[a][b], true
			}
		}
	}
	return i, j, similarity, ok
}

// MostUnique returns the row with the lowest average similarity to every other row.
func MostUnique(matrix [][]float64) (index int, avgSimilarity float64, ok bool) {
	n := len(matrix)
	if n < 2 {
		return 0, 0, false
	}
	for a := 0; a < n; a++ {
		var sum float64
		for b := 0; b < n; b++ {
			if a != b {
				sum += matrix[a][b]
			}
		}
		avg := sum / float64(n-1)
		if !ok || avg < avgSimilarity {
			index, avgSimilarity, ok = a, avg, true
		}
	}
	return index, avgSimilarity, ok
}
