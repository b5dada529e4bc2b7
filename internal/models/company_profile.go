package models

import (
	"time"

	"github.com/google/uuid"
)

// CompanyProfile holds the owner's own registration details, used by the
// GSTIN consistency check.
type CompanyProfile struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Name    string
	GSTIN   string

	CreatedAt time.Time
	UpdatedAt time.Time
}
