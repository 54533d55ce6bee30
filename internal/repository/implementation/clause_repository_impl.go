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

// Rows per UPDATE ... FROM (VALUES ...) statement. Six bind parameters per row keeps
// a chunk well below the postgres limit of 65535.
const patchChunkSize = 500

type ClauseRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ClauseMapper
}

func NewClauseRepository(db *gorm.DB) contract.ClauseRepository {
	return &ClauseRepositoryImpl{
		db:     db,
		mapper: mapper.NewClauseMapper(),
	}
}

func (r *ClauseRepositoryImpl) Create(ctx context.Context, clause *entity.Clause) error {
	m := r.mapper.ToModel(clause)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	name := clause.AgreementName
	*clause = *r.mapper.ToEntity(m)
	clause.AgreementName = name
	return nil
}

func (r *ClauseRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Clause, error) {
	var models []*model.Clause
	query := r.db.WithContext(ctx).
		Model(&model.Clause{}).
		Select("clauses.*, agreements.name AS agreement_name").
		Joins("LEFT JOIN agreements ON agreements.id = clauses.agreement_id")
	query = specification.Apply(query, specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ClauseRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := specification.Apply(r.db.WithContext(ctx).Model(&model.Clause{}), specs...)
	err := query.Count(&count).Error
	return count, err
}

func (r *ClauseRepositoryImpl) ApplyAnalysis(ctx context.Context, patches []entity.ClausePatch) error {
	for start := 0; start < len(patches); start += patchChunkSize {
		chunk := patches[start:min(start+patchChunkSize, len(patches))]

		rows := make([]string, len(chunk))
		args := make([]interface{}, 0, len(chunk)*6)
		for i, p := range chunk {
			rows[i] = "(?::uuid, ?::double precision, ?::double precision, ?::integer, ?::boolean, ?::double precision)"
			args = append(args, p.Id, p.X, p.Y, p.ClusterId, p.IsOutlier, p.OutlierScore)
		}

		query := fmt.Sprintf(`UPDATE clauses AS c
SET x = v.x, y = v.y, cluster_id = v.cluster_id, is_outlier = v.is_outlier,
    outlier_score = v.outlier_score, updated_at = NOW()
FROM (VALUES %s) AS v(id, x, y, cluster_id, is_outlier, outlier_score)
WHERE c.id = v.id`, strings.Join(rows, ", "))

		res := r.db.WithContext(ctx).Exec(query, args...)
		if res.Error != nil {
			return fmt.Errorf("failed to patch clauses: %w", res.Error)
		}
		if res.RowsAffected != int64(len(chunk)) {
			return fmt.Errorf("failed to patch clauses: updated %d of %d rows", res.RowsAffected, len(chunk))
		}
	}
	return nil
}
