package handler

import (
	"errors"
	"net/http"

	"invoice-reconciliation-backend/internal/logger"
	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/repository"
	service "invoice-reconciliation-backend/internal/services/reconciliation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type ReconciliationHandler struct {
	service    *service.Service
	mappings   *repository.MappingRepository
	statements *repository.StatementRepository
	log        zerolog.Logger
}

func NewReconciliationHandler(svc *service.Service, mappings *repository.MappingRepository, statements *repository.StatementRepository) *ReconciliationHandler {
	return &ReconciliationHandler{
		service:    svc,
		mappings:   mappings,
		statements: statements,
		log:        logger.WithComponent("reconciliation-handler"),
	}
}

func (h *ReconciliationHandler) Receivables(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	report, err := h.service.BuildReceivablesReport(c.Request.Context(), owner)
	if err != nil {
		h.log.Error().Err(err).Msg("receivables report failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReconciliationHandler) Payables(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	report, err := h.service.BuildPayablesReport(c.Request.Context(), owner)
	if err != nil {
		h.log.Error().Err(err).Msg("payables report failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func validMappingKind(kind string) bool {
	return kind == models.MappingKindReceivable || kind == models.MappingKindPayable
}

type mapPayload struct {
	StatementID    uuid.UUID `json:"statement_id"`
	TransactionIdx *int      `json:"transaction_idx"`
	Kind           string    `json:"kind"`
	PartyName      string    `json:"party_name"`
}

// MapTransaction upserts one manual transaction-to-counterparty override.
func (h *ReconciliationHandler) MapTransaction(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var payload mapPayload
	if err := c.BindJSON(&payload); err != nil || payload.TransactionIdx == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if !validMappingKind(payload.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be receivable or payable"})
		return
	}
	if payload.PartyName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "party_name is required"})
		return
	}

	err := h.mappings.Upsert(c.Request.Context(), owner, payload.StatementID, *payload.TransactionIdx, payload.Kind, payload.PartyName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save mapping"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction mapped"})
}

type bulkMapPayload struct {
	StatementID        uuid.UUID `json:"statement_id"`
	TransactionIndices []int     `json:"transaction_indices"`
	Kind               string    `json:"kind"`
	PartyName          string    `json:"party_name"`
}

// BulkMap applies one counterparty to a batch of transaction indices. Each
// upsert is independent; failures are reported per index, not rolled back.
func (h *ReconciliationHandler) BulkMap(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var payload bulkMapPayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if !validMappingKind(payload.Kind) || payload.PartyName == "" || len(payload.TransactionIndices) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind, party_name and transaction_indices are required"})
		return
	}

	mapped := 0
	var failed []int
	for _, idx := range payload.TransactionIndices {
		err := h.mappings.Upsert(c.Request.Context(), owner, payload.StatementID, idx, payload.Kind, payload.PartyName)
		if err != nil {
			h.log.Error().Err(err).Int("idx", idx).Msg("bulk map upsert failed")
			failed = append(failed, idx)
			continue
		}
		mapped++
	}
	c.JSON(http.StatusOK, gin.H{"mapped": mapped, "failed": failed})
}

// Unmap removes one manual override.
func (h *ReconciliationHandler) Unmap(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var payload mapPayload
	if err := c.BindJSON(&payload); err != nil || payload.TransactionIdx == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if !validMappingKind(payload.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be receivable or payable"})
		return
	}
	err := h.mappings.Delete(c.Request.Context(), owner, payload.StatementID, *payload.TransactionIdx, payload.Kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove mapping"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction unmapped"})
}

func (h *ReconciliationHandler) ListStatements(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	statements, err := h.statements.ListWithTransactions(c.Request.Context(), owner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list statements"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"statements": statements})
}

// DeleteStatement removes a statement with its transactions and any manual
// mappings pointing at them.
func (h *ReconciliationHandler) DeleteStatement(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid statement ID"})
		return
	}
	err = h.statements.Delete(c.Request.Context(), owner, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "statement not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete statement"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "statement deleted"})
}
