package repository

import (
	"context"

	"invoice-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StatementRepository struct {
	db *gorm.DB
}

func NewStatementRepository(db *gorm.DB) *StatementRepository {
	return &StatementRepository{db: db}
}

func (r *StatementRepository) Create(ctx context.Context, stmt *models.BankStatement) error {
	return r.db.WithContext(ctx).Create(stmt).Error
}

// ListWithTransactions returns all of the owner's statements with their
// transactions preloaded in row order.
func (r *StatementRepository) ListWithTransactions(ctx context.Context, owner uuid.UUID) ([]models.BankStatement, error) {
	var statements []models.BankStatement
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("idx ASC")
		}).
		Order("created_at ASC, id ASC").
		Find(&statements).Error
	return statements, err
}

func (r *StatementRepository) GetByID(ctx context.Context, owner, id uuid.UUID) (*models.BankStatement, error) {
	var stmt models.BankStatement
	err := r.db.WithContext(ctx).
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("idx ASC")
		}).
		First(&stmt, "id = ? AND owner_id = ?", id, owner).Error
	if err != nil {
		return nil, err
	}
	return &stmt, nil
}

// Delete removes a statement, its transactions and any manual mappings that
// pointed at them.
func (r *StatementRepository) Delete(ctx context.Context, owner, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("owner_id = ?", owner).Delete(&models.BankStatement{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("statement_id = ?", id).Delete(&models.BankTransaction{}).Error; err != nil {
			return err
		}
		return tx.Where("statement_id = ?", id).Delete(&models.TransactionMapping{}).Error
	})
}
