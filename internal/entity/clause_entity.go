package entity

import (
	"time"

	"github.com/google/uuid"
)

type Clause struct {
	Id            uuid.UUID
	AgreementId   uuid.UUID
	AgreementName string
	ClauseType    string
	Title         string
	Text          string
	Summary       string
	RiskLevel     string
	Favorability  string
	Embedding     []float32

	// Written by the analysis run
	X            *float64
	Y            *float64
	ClusterId    *int
	IsOutlier    bool
	OutlierScore *float64

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// ClausePatch carries the derived fields of one clause, overwritten on every run.
type ClausePatch struct {
	Id           uuid.UUID
	X            float64
	Y            float64
	ClusterId    int
	IsOutlier    bool
	OutlierScore float64
}
