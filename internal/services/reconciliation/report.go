package reconciliation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Report kinds.
const (
	KindReceivables = "receivables"
	KindPayables    = "payables"
)

// Match methods. Manual mappings always carry score 100.
const (
	MatchMethodAuto   = "auto"
	MatchMethodManual = "manual"
)

// Report is the full reconciliation output for one owner and one direction.
// It is rebuilt from scratch on every request; nothing is cached between
// runs.
type Report struct {
	Kind      string                 `json:"kind"`
	Summary   Summary                `json:"summary"`
	Parties   []PartyLedger          `json:"parties"`
	Unmatched []UnmatchedTransaction `json:"unmatched"`
}

type Summary struct {
	TotalInvoiced    float64 `json:"total_invoiced"`
	TotalReceived    float64 `json:"total_received"`
	TotalOutstanding float64 `json:"total_outstanding"`
	PartyCount       int     `json:"party_count"`
	TransactionCount int     `json:"transaction_count"`
	UnmatchedCount   int     `json:"unmatched_count"`
}

// PartyLedger is one counterparty's slice of the report. For payables
// TotalReceived holds the total paid out; the shape is mirrored.
// Outstanding may be negative when the party overpaid.
type PartyLedger struct {
	Party         string        `json:"party"`
	TotalInvoiced float64       `json:"total_invoiced"`
	TotalReceived float64       `json:"total_received"`
	Outstanding   float64       `json:"outstanding"`
	InvoiceCount  int           `json:"invoice_count"`
	PaymentCount  int           `json:"payment_count"`
	Invoices      []InvoiceLine `json:"invoices"`
	Payments      []PaymentLine `json:"payments"`
}

type InvoiceLine struct {
	ID            uuid.UUID  `json:"id"`
	InvoiceNumber string     `json:"invoice_number"`
	Date          *time.Time `json:"date,omitempty"`
	Amount        float64    `json:"amount"`
}

type PaymentLine struct {
	StatementID    uuid.UUID  `json:"statement_id"`
	TransactionIdx int        `json:"transaction_idx"`
	Date           *time.Time `json:"date,omitempty"`
	Description    string     `json:"description"`
	Reference      string     `json:"reference,omitempty"`
	Amount         float64    `json:"amount"`
	MatchMethod    string     `json:"match_method"`
	MatchScore     float64    `json:"match_score"`
}

// UnmatchedTransaction is a transaction no counterparty claimed. It carries
// the search text that was scored so a human can judge why it missed and
// map it manually.
type UnmatchedTransaction struct {
	StatementID    uuid.UUID  `json:"statement_id"`
	TransactionIdx int        `json:"transaction_idx"`
	Date           *time.Time `json:"date,omitempty"`
	Description    string     `json:"description"`
	Amount         float64    `json:"amount"`
	SearchText     string     `json:"search_text"`
}

// round2 is applied only at report emission; accumulation stays exact.
func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
