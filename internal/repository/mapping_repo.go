package repository

import (
	"context"
	"time"

	"invoice-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MappingRepository struct {
	db *gorm.DB
}

func NewMappingRepository(db *gorm.DB) *MappingRepository {
	return &MappingRepository{db: db}
}

// Upsert writes a mapping for one (statement, idx) pair. Last write wins.
func (r *MappingRepository) Upsert(ctx context.Context, owner, statementID uuid.UUID, idx int, kind, partyName string) error {
	mapping := models.TransactionMapping{
		ID:             uuid.New(),
		OwnerID:        owner,
		StatementID:    statementID,
		TransactionIdx: idx,
		Kind:           kind,
		PartyName:      partyName,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "owner_id"}, {Name: "statement_id"}, {Name: "transaction_idx"}, {Name: "kind"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"party_name", "updated_at"}),
	}).Create(&mapping).Error
}

func (r *MappingRepository) Delete(ctx context.Context, owner, statementID uuid.UUID, idx int, kind string) error {
	return r.db.WithContext(ctx).
		Where("owner_id = ? AND statement_id = ? AND transaction_idx = ? AND kind = ?",
			owner, statementID, idx, kind).
		Delete(&models.TransactionMapping{}).Error
}

func (r *MappingRepository) ListByOwnerAndKind(ctx context.Context, owner uuid.UUID, kind string) ([]models.TransactionMapping, error) {
	var mappings []models.TransactionMapping
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND kind = ?", owner, kind).
		Find(&mappings).Error
	return mappings, err
}
