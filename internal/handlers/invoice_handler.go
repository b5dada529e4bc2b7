package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"invoice-reconciliation-backend/internal/logger"
	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/repository"
	"invoice-reconciliation-backend/internal/services/extraction"
	"invoice-reconciliation-backend/internal/services/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"application/pdf": true,
}

type InvoiceHandler struct {
	invoices  *repository.InvoiceRepository
	gate      *validation.Gate
	extractor *extraction.Extractor
	log       zerolog.Logger
}

func NewInvoiceHandler(invoices *repository.InvoiceRepository, gate *validation.Gate, extractor *extraction.Extractor) *InvoiceHandler {
	return &InvoiceHandler{
		invoices:  invoices,
		gate:      gate,
		extractor: extractor,
		log:       logger.WithComponent("invoice-handler"),
	}
}

// Upload accepts a scanned invoice, extracts fields with the vision model
// and creates the invoice if it passes the duplicate and GSTIN gates.
func (h *InvoiceHandler) Upload(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	mimeType := fileHeader.Header.Get("Content-Type")
	if !allowedUploadTypes[mimeType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file type, only JPEG, PNG and PDF are allowed"})
		return
	}

	invoiceType := c.DefaultPostForm("type", models.InvoiceTypePurchase)
	if invoiceType != models.InvoiceTypePurchase && invoiceType != models.InvoiceTypeSale {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be purchase or sale"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read upload"})
		return
	}
	defer file.Close()
	fileData, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read upload"})
		return
	}

	fields, confidence := h.extractor.Extract(c.Request.Context(), fileData, mimeType)
	confidenceJSON, _ := json.Marshal(confidence)

	inv := models.Invoice{
		ID:            uuid.New(),
		OwnerID:       owner,
		Type:          invoiceType,
		InvoiceNumber: fields.InvoiceNo,
		InvoiceDate:   parseInvoiceDate(fields.InvoiceDate),
		BuyerName:     fields.BuyerName,
		BuyerGSTIN:    fields.BuyerGSTIN,
		SupplierName:  fields.SupplierName,
		SupplierGSTIN: fields.SupplierGSTIN,
		Address:       fields.Address,
		BasicAmount:   decimalFromPtr(fields.BasicAmount),
		GSTAmount:     decimalFromPtr(fields.GSTAmount),
		TotalAmount:   decimalFromPtr(fields.TotalAmount),
		Status:        models.InvoiceStatusPending,
		Filename:      fileHeader.Filename,
		FileType:      mimeType,
		Confidence:    confidenceJSON,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := h.gate.ScreenCreate(c.Request.Context(), owner, &inv); err != nil {
		respondGateError(c, err)
		return
	}

	if err := h.invoices.Create(c.Request.Context(), &inv); err != nil {
		h.log.Error().Err(err).Msg("invoice create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save invoice"})
		return
	}
	c.JSON(http.StatusCreated, inv)
}

type invoicePayload struct {
	Type          string   `json:"type"`
	InvoiceNumber string   `json:"invoice_number"`
	InvoiceDate   string   `json:"invoice_date"` // DD/MM/YYYY
	BuyerName     string   `json:"buyer_name"`
	BuyerGSTIN    string   `json:"buyer_gstin"`
	SupplierName  string   `json:"supplier_name"`
	SupplierGSTIN string   `json:"supplier_gstin"`
	Address       string   `json:"address"`
	BasicAmount   *float64 `json:"basic_amount"`
	GSTAmount     *float64 `json:"gst"`
	TotalAmount   *float64 `json:"total_amount"`
	Status        string   `json:"status"`
}

// Create makes an invoice from manually entered fields, gated the same way
// as uploads.
func (h *InvoiceHandler) Create(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var payload invoicePayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.Type != models.InvoiceTypePurchase && payload.Type != models.InvoiceTypeSale {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be purchase or sale"})
		return
	}

	status := payload.Status
	if status == "" {
		status = models.InvoiceStatusPending
	}
	inv := models.Invoice{
		ID:            uuid.New(),
		OwnerID:       owner,
		Type:          payload.Type,
		InvoiceNumber: payload.InvoiceNumber,
		InvoiceDate:   parseInvoiceDate(payload.InvoiceDate),
		BuyerName:     payload.BuyerName,
		BuyerGSTIN:    payload.BuyerGSTIN,
		SupplierName:  payload.SupplierName,
		SupplierGSTIN: payload.SupplierGSTIN,
		Address:       payload.Address,
		BasicAmount:   decimalFromPtr(payload.BasicAmount),
		GSTAmount:     decimalFromPtr(payload.GSTAmount),
		TotalAmount:   decimalFromPtr(payload.TotalAmount),
		Status:        status,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := h.gate.ScreenCreate(c.Request.Context(), owner, &inv); err != nil {
		respondGateError(c, err)
		return
	}
	if err := h.invoices.Create(c.Request.Context(), &inv); err != nil {
		h.log.Error().Err(err).Msg("invoice create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save invoice"})
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (h *InvoiceHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	invoices, err := h.invoices.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list invoices"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice ID"})
		return
	}
	inv, err := h.invoices.GetByID(c.Request.Context(), owner, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load invoice"})
		return
	}
	c.JSON(http.StatusOK, inv)
}

// Update rewrites the editable fields. Validation failures do not block
// here; they are recorded as flags on the invoice instead.
func (h *InvoiceHandler) Update(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice ID"})
		return
	}
	var payload invoicePayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	inv, err := h.invoices.GetByID(c.Request.Context(), owner, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load invoice"})
		return
	}

	inv.InvoiceNumber = payload.InvoiceNumber
	inv.InvoiceDate = parseInvoiceDate(payload.InvoiceDate)
	inv.BuyerName = payload.BuyerName
	inv.BuyerGSTIN = payload.BuyerGSTIN
	inv.SupplierName = payload.SupplierName
	inv.SupplierGSTIN = payload.SupplierGSTIN
	inv.Address = payload.Address
	inv.BasicAmount = decimalFromPtr(payload.BasicAmount)
	inv.GSTAmount = decimalFromPtr(payload.GSTAmount)
	inv.TotalAmount = decimalFromPtr(payload.TotalAmount)
	if payload.Status != "" {
		inv.Status = payload.Status
	}
	inv.UpdatedAt = time.Now()

	flags, err := h.gate.ScreenUpdate(c.Request.Context(), owner, inv)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed"})
		return
	}
	inv.DuplicateFlag = flags.Duplicate
	inv.GSTINFlag = flags.GSTIN
	inv.GSTINFlagReason = flags.GSTINReason

	if err := h.invoices.Update(c.Request.Context(), inv); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save invoice"})
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice ID"})
		return
	}
	err = h.invoices.Delete(c.Request.Context(), owner, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete invoice"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "invoice deleted"})
}

type exportRequest struct {
	InvoiceIDs []uuid.UUID `json:"invoice_ids"`
	Format     string      `json:"format"` // tally | csv
}

// Export renders the selected invoices as a Tally voucher import or CSV.
func (h *InvoiceHandler) Export(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req exportRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	var invoices []models.Invoice
	for _, id := range req.InvoiceIDs {
		inv, err := h.invoices.GetByID(c.Request.Context(), owner, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load invoices"})
			return
		}
		invoices = append(invoices, *inv)
	}

	switch req.Format {
	case "tally":
		c.JSON(http.StatusOK, gin.H{"format": "tally", "data": generateTallyXML(invoices)})
	case "csv":
		c.JSON(http.StatusOK, gin.H{"format": "csv", "data": generateCSV(invoices)})
	default:
		c.JSON(http.StatusOK, gin.H{"format": "json", "data": invoices})
	}
}

func respondGateError(c *gin.Context, err error) {
	var dupErr *validation.DuplicateInvoiceError
	if errors.As(err, &dupErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":        dupErr.Error(),
			"conflict_ids": dupErr.ConflictIDs,
		})
		return
	}
	var valErr *validation.ValidationError
	if errors.As(err, &valErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": valErr.Reason})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed"})
}

func parseInvoiceDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse("02/01/2006", raw)
	if err != nil {
		return nil
	}
	return &t
}

func decimalFromPtr(v *float64) decimal.Decimal {
	if v == nil {
		return decimal.Decimal{}
	}
	return decimal.NewFromFloat(*v)
}
