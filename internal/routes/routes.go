package routes

import (
	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
	"gorm.io/gorm"

	"invoice-reconciliation-backend/internal/config"
	handler "invoice-reconciliation-backend/internal/handlers"
	"invoice-reconciliation-backend/internal/repository"
	"invoice-reconciliation-backend/internal/services/extraction"
	service "invoice-reconciliation-backend/internal/services/reconciliation"
	"invoice-reconciliation-backend/internal/services/validation"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	invoiceRepo := repository.NewInvoiceRepository(db)
	statementRepo := repository.NewStatementRepository(db)
	mappingRepo := repository.NewMappingRepository(db)
	companyRepo := repository.NewCompanyRepository(db)

	gate := validation.NewGate(invoiceRepo, companyRepo)
	reconService := service.NewService(invoiceRepo, statementRepo, mappingRepo)
	extractor := extraction.New(openai.NewClient(cfg.OpenAIKey), cfg.OpenAIModel)

	invoiceHandler := handler.NewInvoiceHandler(invoiceRepo, gate, extractor)
	reconHandler := handler.NewReconciliationHandler(reconService, mappingRepo, statementRepo)
	companyHandler := handler.NewCompanyHandler(companyRepo)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Invoice routes
	invoices := api.Group("/invoices")
	{
		invoices.POST("/upload", invoiceHandler.Upload)
		invoices.POST("", invoiceHandler.Create)
		invoices.GET("", invoiceHandler.List)
		invoices.GET("/:id", invoiceHandler.Get)
		invoices.PUT("/:id", invoiceHandler.Update)
		invoices.DELETE("/:id", invoiceHandler.Delete)
		invoices.POST("/export", invoiceHandler.Export)
	}

	// Bank statement routes
	statements := api.Group("/statements")
	{
		statements.POST("", reconHandler.CreateStatement)
		statements.GET("", reconHandler.ListStatements)
		statements.DELETE("/:id", reconHandler.DeleteStatement)
	}

	// Reconciliation routes
	recon := api.Group("/reconciliation")
	{
		recon.GET("/receivables", reconHandler.Receivables)
		recon.GET("/payables", reconHandler.Payables)
		recon.POST("/map", reconHandler.MapTransaction)
		recon.POST("/map/bulk", reconHandler.BulkMap)
		recon.DELETE("/map", reconHandler.Unmap)
	}

	// Company profile routes
	company := api.Group("/company")
	{
		company.GET("", companyHandler.Get)
		company.PUT("", companyHandler.Put)
	}
}
