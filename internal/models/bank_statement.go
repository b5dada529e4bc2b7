package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BankStatement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID `gorm:"type:uuid;index"`
	Filename    string
	AccountHint string
	PeriodStart *time.Time
	PeriodEnd   *time.Time

	Transactions []BankTransaction `gorm:"foreignKey:StatementID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
}

// BankTransaction is one row of a statement. Idx is the stable ordinal of
// the row within its statement and, together with StatementID, identifies
// the transaction for manual mappings.
type BankTransaction struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	StatementID uuid.UUID `gorm:"type:uuid;index"`
	Idx         int       `gorm:"index"`
	Date        *time.Time
	Description string
	PartyHint   string
	Reference   string

	// Exactly one of Credit/Debit is meaningfully populated.
	Credit  decimal.NullDecimal `gorm:"type:numeric"`
	Debit   decimal.NullDecimal `gorm:"type:numeric"`
	Balance decimal.NullDecimal `gorm:"type:numeric"`

	CreatedAt time.Time
}
