package implementation

import (
	"context"
	"fmt"
	"strings"

	"legal-insight-be/internal/entity"
	"legal-insight-be/internal/mapper"
	"legal-insight-be/internal/model"
	"legal-insight-be/internal/repository/contract"
	"legal-insight-be/internal/repository/specification"

	"gorm.io/gorm"
)

type AgreementRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AgreementMapper
}

func NewAgreementRepository(db *gorm.DB) contract.AgreementRepository {
	return &AgreementRepositoryImpl{
		db:     db,
		mapper: mapper.NewAgreementMapper(),
	}
}

func (r *AgreementRepositoryImpl) Create(ctx context.Context, agreement *entity.Agreement) error {
	m := r.mapper.ToModel(agreement)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*agreement = *r.mapper.ToEntity(m)
	return nil
}

func (r *AgreementRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Agreement, error) {
	var models []*model.Agreement
	query := specification.Apply(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *AgreementRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := specification.Apply(r.db.WithContext(ctx).Model(&model.Agreement{}), specs...)
	err := query.Count(&count).Error
	return count, err
}

func (r *AgreementRepositoryImpl) ApplyProjection(ctx context.Context, patches []entity.AgreementPatch) error {
	for start := 0; start < len(patches); start += patchChunkSize {
		chunk := patches[start:min(start+patchChunkSize, len(patches))]

		rows := make([]string, len(chunk))
		args := make([]interface{}, 0, len(chunk)*3)
		for i, p := range chunk {
			rows[i] = "(?::uuid, ?::double precision, ?::double precision)"
			args = append(args, p.Id, p.X, p.Y)
		}

		query := fmt.Sprintf(`UPDATE agreements AS a
SET x = v.x, y = v.y, updated_at = NOW()
FROM (VALUES %s) AS v(id, x, y)
WHERE a.id = v.id`, strings.Join(rows, ", "))

		res := r.db.WithContext(ctx).Exec(query, args...)
		if res.Error != nil {
			return fmt.Errorf("failed to patch agreements: %w", res.Error)
		}
		if res.RowsAffected != int64(len(chunk)) {
			return fmt.Errorf("failed to patch agreements: updated %d of %d rows", res.RowsAffected, len(chunk))
		}
	}
	return nil
}
