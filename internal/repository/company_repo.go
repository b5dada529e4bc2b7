package repository

import (
	"context"
	"errors"
	"time"

	"invoice-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) GetByOwner(ctx context.Context, owner uuid.UUID) (*models.CompanyProfile, error) {
	var profile models.CompanyProfile
	err := r.db.WithContext(ctx).First(&profile, "owner_id = ?", owner).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GSTIN returns the owner's configured company GSTIN, with ok=false when no
// profile exists or the GSTIN field is empty.
func (r *CompanyRepository) GSTIN(ctx context.Context, owner uuid.UUID) (string, bool, error) {
	profile, err := r.GetByOwner(ctx, owner)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if profile.GSTIN == "" {
		return "", false, nil
	}
	return profile.GSTIN, true, nil
}

func (r *CompanyRepository) Upsert(ctx context.Context, owner uuid.UUID, name, gstin string) error {
	profile := models.CompanyProfile{
		ID:        uuid.New(),
		OwnerID:   owner,
		Name:      name,
		GSTIN:     gstin,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "gstin", "updated_at"}),
	}).Create(&profile).Error
}
