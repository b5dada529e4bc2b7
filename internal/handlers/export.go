package handler

import (
	"encoding/csv"
	"strings"

	"invoice-reconciliation-backend/internal/models"
)

// generateTallyXML renders invoices as a Tally "Import Data" voucher
// envelope.
func generateTallyXML(invoices []models.Invoice) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString("<ENVELOPE>\n")
	b.WriteString("  <HEADER>\n")
	b.WriteString("    <TALLYREQUEST>Import Data</TALLYREQUEST>\n")
	b.WriteString("  </HEADER>\n")
	b.WriteString("  <BODY>\n")
	b.WriteString("    <IMPORTDATA>\n")
	b.WriteString("      <REQUESTDESC>\n")
	b.WriteString("        <REPORTNAME>Vouchers</REPORTNAME>\n")
	b.WriteString("      </REQUESTDESC>\n")
	b.WriteString("      <REQUESTDATA>\n")

	for _, inv := range invoices {
		date := ""
		if inv.InvoiceDate != nil {
			date = inv.InvoiceDate.Format("02/01/2006")
		}
		b.WriteString("        <TALLYMESSAGE>\n")
		b.WriteString("          <VOUCHER>\n")
		writeTallyField(&b, "DATE", date)
		writeTallyField(&b, "VOUCHERNUMBER", inv.InvoiceNumber)
		writeTallyField(&b, "PARTYLEDGERNAME", inv.CounterpartyName())
		writeTallyField(&b, "AMOUNT", inv.TotalAmount.StringFixed(2))
		b.WriteString("          </VOUCHER>\n")
		b.WriteString("        </TALLYMESSAGE>\n")
	}

	b.WriteString("      </REQUESTDATA>\n")
	b.WriteString("    </IMPORTDATA>\n")
	b.WriteString("  </BODY>\n")
	b.WriteString("</ENVELOPE>")
	return b.String()
}

func writeTallyField(b *strings.Builder, tag, value string) {
	b.WriteString("            <" + tag + ">")
	b.WriteString(escapeXML(value))
	b.WriteString("</" + tag + ">\n")
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlReplacer.Replace(s)
}

func generateCSV(invoices []models.Invoice) string {
	var b strings.Builder
	w := csv.NewWriter(&b)

	_ = w.Write([]string{
		"Invoice No", "Invoice Date", "Type", "Buyer Name", "Supplier Name",
		"Buyer GSTIN", "Supplier GSTIN", "Basic Amount", "GST", "Total Amount", "Status",
	})
	for _, inv := range invoices {
		date := ""
		if inv.InvoiceDate != nil {
			date = inv.InvoiceDate.Format("02/01/2006")
		}
		_ = w.Write([]string{
			inv.InvoiceNumber,
			date,
			inv.Type,
			inv.BuyerName,
			inv.SupplierName,
			inv.BuyerGSTIN,
			inv.SupplierGSTIN,
			inv.BasicAmount.StringFixed(2),
			inv.GSTAmount.StringFixed(2),
			inv.TotalAmount.StringFixed(2),
			inv.Status,
		})
	}
	w.Flush()
	return b.String()
}
