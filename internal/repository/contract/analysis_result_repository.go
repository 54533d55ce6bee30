package contract

import (
	"context"

	"legal-insight-be/internal/entity"
	"legal-insight-be/internal/repository/specification"
)

type AnalysisResultRepository interface {
	CreateBulk(ctx context.Context, results []*entity.AnalysisResult) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AnalysisResult, error)
	// LatestByType returns nil when no run has produced the type yet.
	LatestByType(ctx context.Context, analysisType string) (*entity.AnalysisResult, error)
	// LatestPerType returns the newest row of every type that exists.
	LatestPerType(ctx context.Context) ([]*entity.AnalysisResult, error)
	// PruneRuns deletes every run except the newest keep runs.
	PruneRuns(ctx context.Context, keep int) (int64, error)
}
