package models

import (
	"time"

	"github.com/google/uuid"
)

// Mapping kinds, matching the two report directions.
const (
	MappingKindReceivable = "receivable"
	MappingKindPayable    = "payable"
)

// TransactionMapping is a user-entered override binding one statement row to
// one counterparty, bypassing fuzzy matching. At most one mapping exists per
// (owner, statement, idx, kind); upserts overwrite.
type TransactionMapping struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID        uuid.UUID `gorm:"type:uuid;index;uniqueIndex:ux_txn_mapping"`
	StatementID    uuid.UUID `gorm:"type:uuid;index;uniqueIndex:ux_txn_mapping"`
	TransactionIdx int       `gorm:"uniqueIndex:ux_txn_mapping"`
	Kind           string    `gorm:"uniqueIndex:ux_txn_mapping"`
	PartyName      string

	CreatedAt time.Time
	UpdatedAt time.Time
}
