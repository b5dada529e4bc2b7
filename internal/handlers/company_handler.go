package handler

import (
	"errors"
	"net/http"

	"invoice-reconciliation-backend/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CompanyHandler struct {
	companies *repository.CompanyRepository
}

func NewCompanyHandler(companies *repository.CompanyRepository) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

func (h *CompanyHandler) Get(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	profile, err := h.companies.GetByOwner(c.Request.Context(), owner)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "company profile not configured"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load company profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *CompanyHandler) Put(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var payload struct {
		Name  string `json:"name"`
		GSTIN string `json:"gstin"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := h.companies.Upsert(c.Request.Context(), owner, payload.Name, payload.GSTIN); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save company profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "company profile saved"})
}
