package unitofwork

import (
	"context"

	"legal-insight-be/internal/repository/contract"
)

// UnitOfWork scopes the corpus repositories to one transaction once Begin is called.
// Before Begin the accessors read through the shared pool.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ClauseRepository() contract.ClauseRepository
	AgreementRepository() contract.AgreementRepository
	AnalysisResultRepository() contract.AnalysisResultRepository
}
