package implementation

import (
	"context"
	"errors"

	"legal-insight-be/internal/entity"
	"legal-insight-be/internal/mapper"
	"legal-insight-be/internal/model"
	"legal-insight-be/internal/repository/contract"
	"legal-insight-be/internal/repository/specification"

	"gorm.io/gorm"
)

type AnalysisResultRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AnalysisResultMapper
}

func NewAnalysisResultRepository(db *gorm.DB) contract.AnalysisResultRepository {
	return &AnalysisResultRepositoryImpl{
		db:     db,
		mapper: mapper.NewAnalysisResultMapper(),
	}
}

func (r *AnalysisResultRepositoryImpl) CreateBulk(ctx context.Context, results []*entity.AnalysisResult) error {
	if len(results) == 0 {
		return nil
	}
	models := make([]*model.AnalysisResult, len(results))
	for i, res := range results {
		models[i] = r.mapper.ToModel(res)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	// Update IDs and timestamps back to entities
	for i, m := range models {
		*results[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *AnalysisResultRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AnalysisResult, error) {
	var models []*model.AnalysisResult
	query := specification.Apply(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *AnalysisResultRepositoryImpl) LatestByType(ctx context.Context, analysisType string) (*entity.AnalysisResult, error) {
	var m model.AnalysisResult
	err := r.db.WithContext(ctx).
		Where("analysis_type = ?", analysisType).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AnalysisResultRepositoryImpl) LatestPerType(ctx context.Context) ([]*entity.AnalysisResult, error) {
	var models []*model.AnalysisResult
	err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (analysis_type) * FROM analysis_results ORDER BY analysis_type, created_at DESC`).
		Scan(&models).Error
	if err != nil {
		return nil, err
	}

	byType := make(map[string]*model.AnalysisResult, len(models))
	for _, m := range models {
		byType[m.AnalysisType] = m
	}

	// Keep the order runs write them in
	results := make([]*entity.AnalysisResult, 0, len(models))
	for _, t := range entity.AnalysisTypes {
		if m, ok := byType[t]; ok {
			results = append(results, r.mapper.ToEntity(m))
		}
	}
	return results, nil
}

func (r *AnalysisResultRepositoryImpl) PruneRuns(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Exec(`DELETE FROM analysis_results
WHERE run_id NOT IN (
    SELECT run_id FROM analysis_results
    GROUP BY run_id
    ORDER BY MAX(created_at) DESC
    LIMIT ?
)`, keep)
	return res.RowsAffected, res.Error
}
