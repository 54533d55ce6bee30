package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AnalysisRunResponse struct {
	RunId          uuid.UUID `json:"run_id"`
	K              int       `json:"k"`
	ClauseCount    int       `json:"clause_count"`
	AgreementCount int       `json:"agreement_count"`
	OutlierCount   int       `json:"outlier_count"`
	Iterations     int       `json:"iterations"`
	Converged      bool      `json:"converged"`
	DurationMs     int64     `json:"duration_ms"`
}

type AnalysisResultResponse struct {
	Id           uuid.UUID       `json:"id"`
	RunId        uuid.UUID       `json:"run_id"`
	AnalysisType string          `json:"analysis_type"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Data         json.RawMessage `json:"data"`
	CreatedAt    time.Time       `json:"created_at"`
}

type AnalysisJobResponse struct {
	JobId  string `json:"job_id"`
	Status string `json:"status"`
}

type LatestAnalysisRequest struct {
	AnalysisType string `json:"analysis_type" validate:"required,oneof=clusters similarity_matrix outliers insights risk_analysis"`
}

type AnalysisRunRequest struct {
	RunId string `json:"run_id" validate:"required,uuid"`
}

// PublishAnalysisJobMessage is the payload queued on the in-process job topic.
type PublishAnalysisJobMessage struct {
	JobId       string    `json:"job_id"`
	Trigger     string    `json:"trigger"` // "http" or "event"
	RequestedAt time.Time `json:"requested_at"`
}
