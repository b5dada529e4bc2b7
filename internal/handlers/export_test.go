package handler

import (
	"strings"
	"testing"
	"time"

	"invoice-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func testInvoice() models.Invoice {
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	return models.Invoice{
		ID:            uuid.New(),
		Type:          models.InvoiceTypePurchase,
		InvoiceNumber: "INV-42",
		InvoiceDate:   &date,
		SupplierName:  "Sharma & Sons",
		SupplierGSTIN: "27AAAAA0000A1Z5",
		BuyerName:     "Own Company",
		TotalAmount:   decimal.RequireFromString("11800.00"),
		GSTAmount:     decimal.RequireFromString("1800.00"),
		BasicAmount:   decimal.RequireFromString("10000.00"),
		Status:        models.InvoiceStatusVerified,
	}
}

func TestGenerateTallyXML(t *testing.T) {
	xml := generateTallyXML([]models.Invoice{testInvoice()})

	for _, want := range []string{
		"<TALLYREQUEST>Import Data</TALLYREQUEST>",
		"<REPORTNAME>Vouchers</REPORTNAME>",
		"<VOUCHERNUMBER>INV-42</VOUCHERNUMBER>",
		"<DATE>01/04/2025</DATE>",
		// The purchase counterparty is the supplier, with the ampersand escaped.
		"<PARTYLEDGERNAME>Sharma &amp; Sons</PARTYLEDGERNAME>",
		"<AMOUNT>11800.00</AMOUNT>",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("tally export missing %q", want)
		}
	}
	if strings.Contains(xml, "Sharma & Sons<") {
		t.Error("unescaped ampersand in XML output")
	}
}

func TestGenerateCSV(t *testing.T) {
	out := generateCSV([]models.Invoice{testInvoice()})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Invoice No,Invoice Date,Type") {
		t.Errorf("unexpected header %q", lines[0])
	}
	row := lines[1]
	for _, want := range []string{"INV-42", "01/04/2025", "purchase", "Sharma & Sons", "10000.00", "1800.00", "11800.00", "verified"} {
		if !strings.Contains(row, want) {
			t.Errorf("csv row missing %q (row: %q)", want, row)
		}
	}
}

func TestGenerateTallyXMLEmpty(t *testing.T) {
	xml := generateTallyXML(nil)
	if strings.Contains(xml, "<VOUCHER>") {
		t.Error("empty export must contain no vouchers")
	}
	if !strings.Contains(xml, "<ENVELOPE>") {
		t.Error("envelope missing")
	}
}
