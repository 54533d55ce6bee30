package mapper

import (
	"time"

	"legal-insight-be/internal/entity"
	"legal-insight-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type AgreementMapper struct{}

func NewAgreementMapper() *AgreementMapper {
	return &AgreementMapper{}
}

func (m *AgreementMapper) ToEntity(a *model.Agreement) *entity.Agreement {
	if a == nil {
		return nil
	}

	var embedding []float32
	if a.Embedding != nil {
		embedding = a.Embedding.Slice()
	}

	var updatedAt *time.Time
	if !a.UpdatedAt.IsZero() {
		t := a.UpdatedAt
		updatedAt = &t
	}

	return &entity.Agreement{
		Id:        a.Id,
		Name:      a.Name,
		Provider:  a.Provider,
		Embedding: embedding,
		X:         a.X,
		Y:         a.Y,
		CreatedAt: a.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *AgreementMapper) ToModel(a *entity.Agreement) *model.Agreement {
	if a == nil {
		return nil
	}

	var embedding *pgvector.Vector
	if len(a.Embedding) > 0 {
		v := pgvector.NewVector(a.Embedding)
		embedding = &v
	}

	var updatedAt time.Time
	if a.UpdatedAt != nil {
		updatedAt = *a.UpdatedAt
	}

	return &model.Agreement{
		Id:        a.Id,
		Name:      a.Name,
		Provider:  a.Provider,
		Embedding: embedding,
		X:         a.X,
		Y:         a.Y,
		CreatedAt: a.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *AgreementMapper) ToEntities(agreements []*model.Agreement) []*entity.Agreement {
	entities := make([]*entity.Agreement, len(agreements))
	for i, a := range agreements {
		entities[i] = m.ToEntity(a)
	}
	return entities
}
