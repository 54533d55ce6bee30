package contract

import (
	"context"

	"legal-insight-be/internal/entity"
	"legal-insight-be/internal/repository/specification"
)

type AgreementRepository interface {
	Create(ctx context.Context, agreement *entity.Agreement) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Agreement, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	ApplyProjection(ctx context.Context, patches []entity.AgreementPatch) error
}
