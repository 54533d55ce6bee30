package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByAnalysisType filters analysis results by type
type ByAnalysisType struct {
	Type string
}

func (s ByAnalysisType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("analysis_type = ?", s.Type)
}

// ByRunID selects the rows appended by one analysis run
type ByRunID struct {
	RunID uuid.UUID
}

func (s ByRunID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("run_id = ?", s.RunID)
}

// ByAgreementID filters clauses by their agreement
type ByAgreementID struct {
	AgreementID uuid.UUID
}

func (s ByAgreementID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("agreement_id = ?", s.AgreementID)
}

// CorpusOrder gives clauses and agreements a stable order so that seeded runs are
// reproducible.
type CorpusOrder struct {
	Table string
}

func (s CorpusOrder) Apply(db *gorm.DB) *gorm.DB {
	prefix := ""
	if s.Table != "" {
		prefix = s.Table + "."
	}
	return db.Order(prefix + "created_at ASC").Order(prefix + "id ASC")
}
