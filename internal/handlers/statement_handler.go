package handler

import (
	"net/http"
	"time"

	"invoice-reconciliation-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type statementRow struct {
	Date        string   `json:"date"` // DD/MM/YYYY
	Description string   `json:"description"`
	PartyHint   string   `json:"party_hint"`
	Reference   string   `json:"reference"`
	Credit      *float64 `json:"credit"`
	Debit       *float64 `json:"debit"`
	Balance     *float64 `json:"balance"`
}

type statementPayload struct {
	Filename    string         `json:"filename"`
	AccountHint string         `json:"account_hint"`
	Rows        []statementRow `json:"rows"`
}

// CreateStatement stores an already-parsed bank statement. Row order in the
// payload defines each transaction's stable index, which manual mappings
// key on.
func (h *ReconciliationHandler) CreateStatement(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var payload statementPayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if len(payload.Rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rows are required"})
		return
	}

	stmt := models.BankStatement{
		ID:          uuid.New(),
		OwnerID:     owner,
		Filename:    payload.Filename,
		AccountHint: payload.AccountHint,
		CreatedAt:   time.Now(),
	}
	for i, row := range payload.Rows {
		stmt.Transactions = append(stmt.Transactions, models.BankTransaction{
			ID:          uuid.New(),
			StatementID: stmt.ID,
			Idx:         i,
			Date:        parseInvoiceDate(row.Date),
			Description: row.Description,
			PartyHint:   row.PartyHint,
			Reference:   row.Reference,
			Credit:      nullDecimalFromPtr(row.Credit),
			Debit:       nullDecimalFromPtr(row.Debit),
			Balance:     nullDecimalFromPtr(row.Balance),
			CreatedAt:   time.Now(),
		})
	}

	if err := h.statements.Create(c.Request.Context(), &stmt); err != nil {
		h.log.Error().Err(err).Msg("statement create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save statement"})
		return
	}
	c.JSON(http.StatusCreated, stmt)
}

func nullDecimalFromPtr(v *float64) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(*v), Valid: true}
}
