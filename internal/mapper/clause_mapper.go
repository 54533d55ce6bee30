package mapper

import (
	"time"

	"legal-insight-be/internal/entity"
	"legal-insight-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ClauseMapper struct{}

func NewClauseMapper() *ClauseMapper {
	return &ClauseMapper{}
}

func (m *ClauseMapper) ToEntity(c *model.Clause) *entity.Clause {
	if c == nil {
		return nil
	}

	var embedding []float32
	if c.Embedding != nil {
		embedding = c.Embedding.Slice()
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Clause{
		Id:            c.Id,
		AgreementId:   c.AgreementId,
		AgreementName: c.AgreementName,
		ClauseType:    c.ClauseType,
		Title:         c.Title,
		Text:          c.Text,
		Summary:       c.Summary,
		RiskLevel:     c.RiskLevel,
		Favorability:  c.Favorability,
		Embedding:     embedding,
		X:             c.X,
		Y:             c.Y,
		ClusterId:     c.ClusterId,
		IsOutlier:     c.IsOutlier,
		OutlierScore:  c.OutlierScore,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

func (m *ClauseMapper) ToModel(c *entity.Clause) *model.Clause {
	if c == nil {
		return nil
	}

	var embedding *pgvector.Vector
	if len(c.Embedding) > 0 {
		v := pgvector.NewVector(c.Embedding)
		embedding = &v
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Clause{
		Id:           c.Id,
		AgreementId:  c.AgreementId,
		ClauseType:   c.ClauseType,
		Title:        c.Title,
		Text:         c.Text,
		Summary:      c.Summary,
		RiskLevel:    c.RiskLevel,
		Favorability: c.Favorability,
		Embedding:    embedding,
		X:            c.X,
		Y:            c.Y,
		ClusterId:    c.ClusterId,
		IsOutlier:    c.IsOutlier,
		OutlierScore: c.OutlierScore,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *ClauseMapper) ToEntities(clauses []*model.Clause) []*entity.Clause {
	entities := make([]*entity.Clause, len(clauses))
	for i, c := range clauses {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
