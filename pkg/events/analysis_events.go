package events

import "time"

const (
	TypeCorpusIngested    = "CORPUS_INGESTED"
	TypeAnalysisCompleted = "ANALYSIS_COMPLETED"
	TypeAnalysisFailed    = "ANALYSIS_FAILED"
)

// AnalysisCompleted announces a persisted run.
func AnalysisCompleted(runID string, k, clauseCount, agreementCount, outlierCount int, durationMs int64) BaseEvent {
	return BaseEvent{
		Type: TypeAnalysisCompleted,
		Data: map[string]interface{}{
			"run_id":          runID,
			"k":               k,
			"clause_count":    clauseCount,
			"agreement_count": agreementCount,
			"outlier_count":   outlierCount,
			"duration_ms":     durationMs,
		},
		OccurredAt: time.Now(),
	}
}

func AnalysisFailed(reason string, cause error) BaseEvent {
	data := map[string]interface{}{"reason": reason}
	if cause != nil {
		data["error"] = cause.Error()
	}
	return BaseEvent{
		Type:       TypeAnalysisFailed,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
