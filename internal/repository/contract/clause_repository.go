package contract

import (
	"context"

	"legal-insight-be/internal/entity"
	"legal-insight-be/internal/repository/specification"
)

type ClauseRepository interface {
	Create(ctx context.Context, clause *entity.Clause) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Clause, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// ApplyAnalysis overwrites x, y, cluster_id, is_outlier and outlier_score of every
	// patched clause.
	ApplyAnalysis(ctx context.Context, patches []entity.ClausePatch) error
}
