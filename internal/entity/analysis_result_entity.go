package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	AnalysisTypeClusters         = "clusters"
	AnalysisTypeSimilarityMatrix = "similarity_matrix"
	AnalysisTypeOutliers         = "outliers"
	AnalysisTypeInsights         = "insights"
	AnalysisTypeRiskAnalysis     = "risk_analysis"
)

// AnalysisTypes lists every result type a run appends, in write order.
var AnalysisTypes = []string{
	AnalysisTypeClusters,
	AnalysisTypeSimilarityMatrix,
	AnalysisTypeOutliers,
	AnalysisTypeInsights,
	AnalysisTypeRiskAnalysis,
}

func IsAnalysisType(t string) bool {
	for _, known := range AnalysisTypes {
		if t == known {
			return true
		}
	}
	return false
}

// AnalysisResult is an append-only snapshot of one analysis type. The rows written by
// a single run share RunId.
type AnalysisResult struct {
	Id           uuid.UUID
	RunId        uuid.UUID
	AnalysisType string
	Title        string
	Description  string
	Data         json.RawMessage
	CreatedAt    time.Time
}
