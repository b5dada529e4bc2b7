package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Invoice types.
const (
	InvoiceTypeSale     = "sale"
	InvoiceTypePurchase = "purchase"
)

// Invoice statuses.
const (
	InvoiceStatusPending  = "pending"
	InvoiceStatusVerified = "verified"
	InvoiceStatusExported = "exported"
)

type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID       uuid.UUID `gorm:"type:uuid;index"`
	Type          string    `gorm:"index"`
	InvoiceNumber string    `gorm:"index"`
	InvoiceDate   *time.Time

	BuyerName     string
	BuyerGSTIN    string
	SupplierName  string
	SupplierGSTIN string
	Address       string

	BasicAmount decimal.Decimal `gorm:"type:numeric"`
	GSTAmount   decimal.Decimal `gorm:"type:numeric"`
	TotalAmount decimal.Decimal `gorm:"type:numeric;index"`

	Status string `gorm:"index"`

	// Non-blocking validation flags, set when an update re-introduces a
	// duplicate number or fails the GSTIN check.
	DuplicateFlag   bool
	GSTINFlag       bool
	GSTINFlagReason string

	Filename   string
	FileType   string
	Confidence datatypes.JSON

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// CounterpartyName returns the name on the other side of the invoice:
// the buyer for sales, the supplier for purchases.
func (i *Invoice) CounterpartyName() string {
	if i.Type == InvoiceTypePurchase {
		return i.SupplierName
	}
	return i.BuyerName
}
