package validation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"invoice-reconciliation-backend/internal/models"

	"github.com/google/uuid"
)

type fakeInvoiceLookup struct {
	// invoice number -> ids
	byNumber map[string][]uuid.UUID
}

func (f *fakeInvoiceLookup) FindIDsByNumber(_ context.Context, _ uuid.UUID, number string, excludeID *uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, id := range f.byNumber[number] {
		if excludeID != nil && id == *excludeID {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeCompanyLookup struct {
	gstin      string
	configured bool
}

func (f *fakeCompanyLookup) GSTIN(context.Context, uuid.UUID) (string, bool, error) {
	return f.gstin, f.configured, nil
}

func TestCheckDuplicate(t *testing.T) {
	owner := uuid.New()
	a, b := uuid.New(), uuid.New()
	gate := NewGate(&fakeInvoiceLookup{byNumber: map[string][]uuid.UUID{
		"INV-001": {a, b},
	}}, &fakeCompanyLookup{})

	dup, ids, err := gate.CheckDuplicate(context.Background(), owner, "INV-001", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !dup {
		t.Fatal("expected duplicate")
	}
	if len(ids) != 2 {
		t.Errorf("expected both conflicting ids, got %d", len(ids))
	}

	// The invoice's own id is excluded on update.
	dup, ids, err = gate.CheckDuplicate(context.Background(), owner, "INV-001", &a)
	if err != nil {
		t.Fatal(err)
	}
	if !dup || len(ids) != 1 || ids[0] != b {
		t.Errorf("exclude-id check failed: dup=%v ids=%v", dup, ids)
	}

	dup, _, err = gate.CheckDuplicate(context.Background(), owner, "INV-999", nil)
	if err != nil {
		t.Fatal(err)
	}
	if dup {
		t.Error("unknown number must not be a duplicate")
	}
}

func TestValidateGSTIN(t *testing.T) {
	owner := uuid.New()

	testCases := []struct {
		name          string
		company       fakeCompanyLookup
		invoiceType   string
		buyerGSTIN    string
		supplierGSTIN string
		expectOK      bool
		reasonPart    string
	}{
		{
			name:        "not configured",
			company:     fakeCompanyLookup{configured: false},
			invoiceType: models.InvoiceTypePurchase,
			buyerGSTIN:  "27AAAAA0000A1Z5",
			expectOK:    false,
			reasonPart:  "not configured",
		},
		{
			name:        "purchase missing buyer gstin",
			company:     fakeCompanyLookup{gstin: "27AAAAA0000A1Z5", configured: true},
			invoiceType: models.InvoiceTypePurchase,
			expectOK:    false,
			reasonPart:  "no buyer GSTIN",
		},
		{
			name:          "sale missing supplier gstin",
			company:       fakeCompanyLookup{gstin: "27AAAAA0000A1Z5", configured: true},
			invoiceType:   models.InvoiceTypeSale,
			buyerGSTIN:    "29BBBBB1111B2Z6",
			supplierGSTIN: "",
			expectOK:      false,
			reasonPart:    "no supplier GSTIN",
		},
		{
			name:        "purchase buyer mismatch",
			company:     fakeCompanyLookup{gstin: "27AAAAA0000A1Z5", configured: true},
			invoiceType: models.InvoiceTypePurchase,
			buyerGSTIN:  "29BBBBB1111B2Z6",
			expectOK:    false,
			reasonPart:  "does not match",
		},
		{
			name:        "purchase buyer matches",
			company:     fakeCompanyLookup{gstin: "27AAAAA0000A1Z5", configured: true},
			invoiceType: models.InvoiceTypePurchase,
			buyerGSTIN:  "27AAAAA0000A1Z5",
			expectOK:    true,
		},
		{
			name:          "sale supplier matches case-insensitively",
			company:       fakeCompanyLookup{gstin: "27aaaaa0000a1z5", configured: true},
			invoiceType:   models.InvoiceTypeSale,
			supplierGSTIN: " 27AAAAA0000A1Z5 ",
			expectOK:      true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gate := NewGate(&fakeInvoiceLookup{}, &tc.company)
			ok, reason, err := gate.ValidateGSTIN(context.Background(), owner, tc.invoiceType, tc.buyerGSTIN, tc.supplierGSTIN)
			if err != nil {
				t.Fatal(err)
			}
			if ok != tc.expectOK {
				t.Fatalf("ok = %v, expected %v (reason %q)", ok, tc.expectOK, reason)
			}
			if !tc.expectOK && !strings.Contains(reason, tc.reasonPart) {
				t.Errorf("reason %q does not contain %q", reason, tc.reasonPart)
			}
		})
	}
}

func TestScreenCreateBlocksDuplicate(t *testing.T) {
	owner := uuid.New()
	conflict := uuid.New()
	gate := NewGate(
		&fakeInvoiceLookup{byNumber: map[string][]uuid.UUID{"INV-7": {conflict}}},
		&fakeCompanyLookup{gstin: "27AAAAA0000A1Z5", configured: true},
	)

	inv := &models.Invoice{
		ID:            uuid.New(),
		Type:          models.InvoiceTypePurchase,
		InvoiceNumber: "INV-7",
		BuyerGSTIN:    "27AAAAA0000A1Z5",
	}
	err := gate.ScreenCreate(context.Background(), owner, inv)
	if !errors.Is(err, ErrDuplicateInvoice) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	var dupErr *DuplicateInvoiceError
	if !errors.As(err, &dupErr) {
		t.Fatal("expected *DuplicateInvoiceError")
	}
	if len(dupErr.ConflictIDs) != 1 || dupErr.ConflictIDs[0] != conflict {
		t.Errorf("conflict ids = %v", dupErr.ConflictIDs)
	}
}

func TestScreenCreateBlocksGSTINFailure(t *testing.T) {
	owner := uuid.New()
	gate := NewGate(&fakeInvoiceLookup{}, &fakeCompanyLookup{configured: false})

	inv := &models.Invoice{
		ID:            uuid.New(),
		Type:          models.InvoiceTypeSale,
		InvoiceNumber: "INV-1",
		SupplierGSTIN: "27AAAAA0000A1Z5",
	}
	err := gate.ScreenCreate(context.Background(), owner, inv)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestScreenUpdateFlagsInsteadOfBlocking(t *testing.T) {
	owner := uuid.New()
	self, other := uuid.New(), uuid.New()
	gate := NewGate(
		&fakeInvoiceLookup{byNumber: map[string][]uuid.UUID{"INV-7": {self, other}}},
		&fakeCompanyLookup{gstin: "27AAAAA0000A1Z5", configured: true},
	)

	inv := &models.Invoice{
		ID:            self,
		Type:          models.InvoiceTypePurchase,
		InvoiceNumber: "INV-7",
		BuyerGSTIN:    "29WRONG9999X1Z1",
	}
	flags, err := gate.ScreenUpdate(context.Background(), owner, inv)
	if err != nil {
		t.Fatal(err)
	}
	if !flags.Duplicate {
		t.Error("expected duplicate flag")
	}
	if !flags.GSTIN || flags.GSTINReason == "" {
		t.Errorf("expected GSTIN flag with reason, got %+v", flags)
	}
}
