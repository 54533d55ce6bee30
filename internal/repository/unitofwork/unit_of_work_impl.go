package unitofwork

import (
	"context"
	"fmt"

	"legal-insight-be/internal/repository/contract"
	"legal-insight-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // nil outside a transaction
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	return nil
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

// Rollback is a no-op once the transaction has been committed, so it can be deferred.
func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return nil
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) ClauseRepository() contract.ClauseRepository {
	return implementation.NewClauseRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AgreementRepository() contract.AgreementRepository {
	return implementation.NewAgreementRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AnalysisResultRepository() contract.AnalysisResultRepository {
	return implementation.NewAnalysisResultRepository(u.getDB())
}
