package mapper

import (
	"encoding/json"

	"legal-insight-be/internal/entity"
	"legal-insight-be/internal/model"

	"gorm.io/datatypes"
)

type AnalysisResultMapper struct{}

func NewAnalysisResultMapper() *AnalysisResultMapper {
	return &AnalysisResultMapper{}
}

func (m *AnalysisResultMapper) ToEntity(r *model.AnalysisResult) *entity.AnalysisResult {
	if r == nil {
		return nil
	}
	return &entity.AnalysisResult{
		Id:           r.Id,
		RunId:        r.RunId,
		AnalysisType: r.AnalysisType,
		Title:        r.Title,
		Description:  r.Description,
		Data:         json.RawMessage(r.Data),
		CreatedAt:    r.CreatedAt,
	}
}

func (m *AnalysisResultMapper) ToModel(r *entity.AnalysisResult) *model.AnalysisResult {
	if r == nil {
		return nil
	}
	return &model.AnalysisResult{
		Id:           r.Id,
		RunId:        r.RunId,
		AnalysisType: r.AnalysisType,
		Title:        r.Title,
		Description:  r.Description,
		Data:         datatypes.JSON(r.Data),
		CreatedAt:    r.CreatedAt,
	}
}

func (m *AnalysisResultMapper) ToEntities(results []*model.AnalysisResult) []*entity.AnalysisResult {
	entities := make([]*entity.AnalysisResult, len(results))
	for i, r := range results {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
