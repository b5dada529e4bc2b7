package repository

import (
	"context"

	"invoice-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *models.Invoice) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *InvoiceRepository) GetByID(ctx context.Context, owner, id uuid.UUID) (*models.Invoice, error) {
	var inv models.Invoice
	err := r.db.WithContext(ctx).
		First(&inv, "id = ? AND owner_id = ?", id, owner).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) ListByOwner(ctx context.Context, owner uuid.UUID) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Order("created_at ASC, id ASC").
		Find(&invoices).Error
	return invoices, err
}

// ListByOwnerAndType returns the owner's non-deleted invoices of one type in
// a stable order, so the counterparty universe (and with it fuzzy tie-breaks)
// is reproducible across report runs.
func (r *InvoiceRepository) ListByOwnerAndType(ctx context.Context, owner uuid.UUID, invoiceType string) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND type = ?", owner, invoiceType).
		Order("created_at ASC, id ASC").
		Find(&invoices).Error
	return invoices, err
}

// FindIDsByNumber returns the ids of the owner's non-deleted invoices with
// the given invoice number, optionally excluding one id (for updates).
func (r *InvoiceRepository) FindIDsByNumber(ctx context.Context, owner uuid.UUID, invoiceNumber string, excludeID *uuid.UUID) ([]uuid.UUID, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("owner_id = ? AND invoice_number = ?", owner, invoiceNumber)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var ids []uuid.UUID
	err := query.Order("created_at ASC").Pluck("id", &ids).Error
	return ids, err
}

func (r *InvoiceRepository) Delete(ctx context.Context, owner, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Delete(&models.Invoice{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
