package validation

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrDuplicateInvoice matches any DuplicateInvoiceError via errors.Is.
var ErrDuplicateInvoice = errors.New("duplicate invoice number")

// ErrValidation matches any ValidationError via errors.Is.
var ErrValidation = errors.New("invoice validation failed")

// DuplicateInvoiceError blocks invoice creation and carries the conflicting
// invoice ids so the caller can link to them.
type DuplicateInvoiceError struct {
	InvoiceNumber string
	ConflictIDs   []uuid.UUID
}

func (e *DuplicateInvoiceError) Error() string {
	return fmt.Sprintf("invoice number %q already exists (%d conflicting invoices)",
		e.InvoiceNumber, len(e.ConflictIDs))
}

func (e *DuplicateInvoiceError) Is(target error) bool {
	return target == ErrDuplicateInvoice
}

// ValidationError carries a specific human-readable reason. It is always
// recoverable by the caller correcting input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
