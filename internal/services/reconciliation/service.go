package reconciliation

import (
	"context"
	"sort"
	"strings"

	"invoice-reconciliation-backend/internal/logger"
	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/services/matching"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// InvoiceSource, StatementSource and MappingSource are the snapshot the
// engine needs from the persistence layer. A report run fetches each once
// and computes from the materialized data; no consistency stronger than a
// point-in-time read is assumed.
type InvoiceSource interface {
	ListByOwnerAndType(ctx context.Context, owner uuid.UUID, invoiceType string) ([]models.Invoice, error)
}

type StatementSource interface {
	ListWithTransactions(ctx context.Context, owner uuid.UUID) ([]models.BankStatement, error)
}

type MappingSource interface {
	ListByOwnerAndKind(ctx context.Context, owner uuid.UUID, kind string) ([]models.TransactionMapping, error)
}

type Service struct {
	invoices   InvoiceSource
	statements StatementSource
	mappings   MappingSource
	log        zerolog.Logger
}

func NewService(invoices InvoiceSource, statements StatementSource, mappings MappingSource) *Service {
	return &Service{
		invoices:   invoices,
		statements: statements,
		mappings:   mappings,
		log:        logger.WithComponent("reconciliation"),
	}
}

// direction parameterizes the two mirrored report builds.
type direction struct {
	reportKind    string
	mappingKind   string
	invoiceType   string
	fallbackParty string
}

var (
	receivables = direction{
		reportKind:    KindReceivables,
		mappingKind:   models.MappingKindReceivable,
		invoiceType:   models.InvoiceTypeSale,
		fallbackParty: matching.UnknownBuyer,
	}
	payables = direction{
		reportKind:    KindPayables,
		mappingKind:   models.MappingKindPayable,
		invoiceType:   models.InvoiceTypePurchase,
		fallbackParty: matching.UnknownSupplier,
	}
)

// amount picks the transaction amount of this direction's polarity: credits
// for receivables, debits for payables. Rows without a positive amount on
// that side are out of the report's scope.
func (d direction) amount(t models.BankTransaction) (decimal.Decimal, bool) {
	side := t.Credit
	if d.reportKind == KindPayables {
		side = t.Debit
	}
	if !side.Valid || side.Decimal.Sign() <= 0 {
		return decimal.Decimal{}, false
	}
	return side.Decimal, true
}

// BuildReceivablesReport reconciles the owner's sales invoices against
// incoming bank credits.
func (s *Service) BuildReceivablesReport(ctx context.Context, owner uuid.UUID) (*Report, error) {
	return s.buildReport(ctx, owner, receivables)
}

// BuildPayablesReport reconciles the owner's purchase invoices against
// outgoing bank debits.
func (s *Service) BuildPayablesReport(ctx context.Context, owner uuid.UUID) (*Report, error) {
	return s.buildReport(ctx, owner, payables)
}

func (s *Service) buildReport(ctx context.Context, owner uuid.UUID, dir direction) (*Report, error) {
	invoices, err := s.invoices.ListByOwnerAndType(ctx, owner, dir.invoiceType)
	if err != nil {
		return nil, err
	}
	statements, err := s.statements.ListWithTransactions(ctx, owner)
	if err != nil {
		return nil, err
	}
	mappings, err := s.mappings.ListByOwnerAndKind(ctx, owner, dir.mappingKind)
	if err != nil {
		return nil, err
	}

	ledger, universe := buildLedger(invoices, dir)
	matcher := matching.NewMatcher(universe)
	overrides := indexMappings(mappings, dir.fallbackParty)

	var unmatched []UnmatchedTransaction
	transactionCount := 0

	for _, stmt := range statements {
		for _, txn := range stmt.Transactions {
			amount, ok := dir.amount(txn)
			if !ok {
				continue
			}
			transactionCount++

			searchText := strings.TrimSpace(strings.TrimSpace(txn.PartyHint) + " " + txn.Description)
			line := PaymentLine{
				StatementID:    stmt.ID,
				TransactionIdx: txn.Idx,
				Date:           txn.Date,
				Description:    txn.Description,
				Reference:      txn.Reference,
				Amount:         round2(amount),
			}

			// Manual mappings take precedence over fuzzy matching. A
			// mapping whose party no longer has invoices falls through.
			if party, mapped := overrides[mappingKey{stmt.ID, txn.Idx}]; mapped {
				if acc, exists := ledger[party]; exists {
					line.MatchMethod = MatchMethodManual
					line.MatchScore = 100
					acc.received = acc.received.Add(amount)
					acc.payments = append(acc.payments, line)
					continue
				}
			}

			if match, found := matcher.Match(searchText); found {
				acc := ledger[match.Party]
				line.MatchMethod = MatchMethodAuto
				line.MatchScore = match.Score
				acc.received = acc.received.Add(amount)
				acc.payments = append(acc.payments, line)
				continue
			}

			unmatched = append(unmatched, UnmatchedTransaction{
				StatementID:    stmt.ID,
				TransactionIdx: txn.Idx,
				Date:           txn.Date,
				Description:    txn.Description,
				Amount:         round2(amount),
				SearchText:     searchText,
			})
		}
	}

	report := emitReport(dir, ledger, universe, unmatched, transactionCount)

	s.log.Info().
		Str("kind", dir.reportKind).
		Str("owner", owner.String()).
		Int("parties", report.Summary.PartyCount).
		Int("transactions", transactionCount).
		Int("unmatched", report.Summary.UnmatchedCount).
		Msg("report built")
	return report, nil
}

// partyAccum accumulates one counterparty's ledger with exact decimals.
type partyAccum struct {
	invoiced decimal.Decimal
	received decimal.Decimal
	invoices []InvoiceLine
	payments []PaymentLine
}

// buildLedger folds invoices into per-counterparty accumulators. The
// returned universe preserves first-seen order, which is also the fuzzy
// matcher's tie-break order.
func buildLedger(invoices []models.Invoice, dir direction) (map[string]*partyAccum, []string) {
	ledger := make(map[string]*partyAccum)
	var universe []string

	for _, inv := range invoices {
		name := matching.NormalizeParty(inv.CounterpartyName(), dir.fallbackParty)
		acc, ok := ledger[name]
		if !ok {
			acc = &partyAccum{}
			ledger[name] = acc
			universe = append(universe, name)
		}
		acc.invoiced = acc.invoiced.Add(inv.TotalAmount)
		acc.invoices = append(acc.invoices, InvoiceLine{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			Date:          inv.InvoiceDate,
			Amount:        round2(inv.TotalAmount),
		})
	}
	return ledger, universe
}

type mappingKey struct {
	statementID uuid.UUID
	idx         int
}

func indexMappings(mappings []models.TransactionMapping, fallback string) map[mappingKey]string {
	index := make(map[mappingKey]string, len(mappings))
	for _, m := range mappings {
		index[mappingKey{m.StatementID, m.TransactionIdx}] = matching.NormalizeParty(m.PartyName, fallback)
	}
	return index
}

func emitReport(dir direction, ledger map[string]*partyAccum, universe []string, unmatched []UnmatchedTransaction, transactionCount int) *Report {
	parties := make([]PartyLedger, 0, len(universe))
	totalInvoiced := decimal.Decimal{}
	totalReceived := decimal.Decimal{}

	for _, name := range universe {
		acc := ledger[name]
		totalInvoiced = totalInvoiced.Add(acc.invoiced)
		totalReceived = totalReceived.Add(acc.received)
		parties = append(parties, PartyLedger{
			Party:         name,
			TotalInvoiced: round2(acc.invoiced),
			TotalReceived: round2(acc.received),
			Outstanding:   round2(acc.invoiced.Sub(acc.received)),
			InvoiceCount:  len(acc.invoices),
			PaymentCount:  len(acc.payments),
			Invoices:      acc.invoices,
			Payments:      acc.payments,
		})
	}

	// Largest exposure first.
	sort.SliceStable(parties, func(i, j int) bool {
		return parties[i].Outstanding > parties[j].Outstanding
	})

	return &Report{
		Kind: dir.reportKind,
		Summary: Summary{
			TotalInvoiced:    round2(totalInvoiced),
			TotalReceived:    round2(totalReceived),
			TotalOutstanding: round2(totalInvoiced.Sub(totalReceived)),
			PartyCount:       len(parties),
			TransactionCount: transactionCount,
			UnmatchedCount:   len(unmatched),
		},
		Parties:   parties,
		Unmatched: unmatched,
	}
}
