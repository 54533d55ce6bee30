package entity

import (
	"time"

	"github.com/google/uuid"
)

type Agreement struct {
	Id        uuid.UUID
	Name      string
	Provider  string
	Embedding []float32 // aggregate over the agreement's clauses
	X         *float64
	Y         *float64
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type AgreementPatch struct {
	Id uuid.UUID
	X  float64
	Y  float64
}
