package validation

import (
	"context"
	"fmt"
	"strings"

	"invoice-reconciliation-backend/internal/logger"
	"invoice-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// InvoiceLookup is the slice of the invoice store the gate needs.
type InvoiceLookup interface {
	FindIDsByNumber(ctx context.Context, owner uuid.UUID, invoiceNumber string, excludeID *uuid.UUID) ([]uuid.UUID, error)
}

// CompanyLookup resolves the owner's configured company GSTIN.
type CompanyLookup interface {
	GSTIN(ctx context.Context, owner uuid.UUID) (string, bool, error)
}

// Gate runs the duplicate and GSTIN-consistency checks that admit invoices
// into the reconciled set. Creation failures block; update failures are
// recorded as flags without blocking the write.
type Gate struct {
	invoices  InvoiceLookup
	companies CompanyLookup
	log       zerolog.Logger
}

func NewGate(invoices InvoiceLookup, companies CompanyLookup) *Gate {
	return &Gate{
		invoices:  invoices,
		companies: companies,
		log:       logger.WithComponent("validation-gate"),
	}
}

// CheckDuplicate reports whether the owner already has a non-deleted invoice
// with the same number, along with the conflicting ids. excludeID skips the
// invoice's own row on updates.
func (g *Gate) CheckDuplicate(ctx context.Context, owner uuid.UUID, invoiceNumber string, excludeID *uuid.UUID) (bool, []uuid.UUID, error) {
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	if invoiceNumber == "" {
		return false, nil, nil
	}
	ids, err := g.invoices.FindIDsByNumber(ctx, owner, invoiceNumber, excludeID)
	if err != nil {
		return false, nil, err
	}
	return len(ids) > 0, ids, nil
}

// ValidateGSTIN verifies that the owner's own company appears on the correct
// side of the invoice: the buyer side for purchases, the supplier side for
// sales. Each failure mode carries its own reason.
func (g *Gate) ValidateGSTIN(ctx context.Context, owner uuid.UUID, invoiceType, buyerGSTIN, supplierGSTIN string) (bool, string, error) {
	companyGSTIN, configured, err := g.companies.GSTIN(ctx, owner)
	if err != nil {
		return false, "", err
	}
	if !configured {
		return false, "company GSTIN is not configured; set it in the company profile before validating invoices", nil
	}

	side := "buyer"
	declared := buyerGSTIN
	if invoiceType == models.InvoiceTypeSale {
		side = "supplier"
		declared = supplierGSTIN
	}

	declared = strings.ToUpper(strings.TrimSpace(declared))
	if declared == "" {
		return false, fmt.Sprintf("invoice has no %s GSTIN to verify against the company GSTIN", side), nil
	}

	companyGSTIN = strings.ToUpper(strings.TrimSpace(companyGSTIN))
	if declared != companyGSTIN {
		return false, fmt.Sprintf("%s GSTIN %s does not match company GSTIN %s", side, declared, companyGSTIN), nil
	}
	return true, "", nil
}

// ScreenCreate gates a new invoice: a duplicate number or a failed GSTIN
// check rejects the write with a typed error.
func (g *Gate) ScreenCreate(ctx context.Context, owner uuid.UUID, inv *models.Invoice) error {
	dup, ids, err := g.CheckDuplicate(ctx, owner, inv.InvoiceNumber, nil)
	if err != nil {
		return err
	}
	if dup {
		return &DuplicateInvoiceError{InvoiceNumber: inv.InvoiceNumber, ConflictIDs: ids}
	}

	ok, reason, err := g.ValidateGSTIN(ctx, owner, inv.Type, inv.BuyerGSTIN, inv.SupplierGSTIN)
	if err != nil {
		return err
	}
	if !ok {
		return &ValidationError{Reason: reason}
	}
	return nil
}

// Flags is the outcome of screening an update.
type Flags struct {
	Duplicate   bool
	GSTIN       bool
	GSTINReason string
}

// ScreenUpdate runs the same checks for an update, but maps failures to
// flags instead of blocking. The asymmetry with ScreenCreate is intentional
// and mirrors how the product behaves.
func (g *Gate) ScreenUpdate(ctx context.Context, owner uuid.UUID, inv *models.Invoice) (Flags, error) {
	var flags Flags

	dup, ids, err := g.CheckDuplicate(ctx, owner, inv.InvoiceNumber, &inv.ID)
	if err != nil {
		return flags, err
	}
	if dup {
		flags.Duplicate = true
		g.log.Warn().
			Str("invoice_number", inv.InvoiceNumber).
			Int("conflicts", len(ids)).
			Msg("update keeps a duplicate invoice number, flagging")
	}

	ok, reason, err := g.ValidateGSTIN(ctx, owner, inv.Type, inv.BuyerGSTIN, inv.SupplierGSTIN)
	if err != nil {
		return flags, err
	}
	if !ok {
		flags.GSTIN = true
		flags.GSTINReason = reason
	}
	return flags, nil
}
