package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/keabooks/kea_books_app/cmd/docs"
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/middleware"
	"github.com/keabooks/kea_books_app/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Setup API v1 routes, passing service interfaces
	setupAPIV1Routes(r, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	// Every v1 route needs an acting user for audit attribution
	v1 := r.Group("/api/v1", middleware.RequireActor())

	registerCompanyRoutes(v1, services.Company)

	// Everything else is scoped to one company
	companies := v1.Group("/companies/:company_id")

	registerAccountRoutes(companies, services.Account, services.Reporting)
	registerDepartmentRoutes(companies, services.Department)
	registerContactRoutes(companies, services.Contact)
	registerPeriodRoutes(companies, services.Period, services.Reporting)
	registerTaxCodeRoutes(companies, services.TaxCode)
	registerTransactionRoutes(companies, services.Transaction, services.Posting)
	registerInvoiceRoutes(companies, services.Invoice, services.Allocation)
	registerBillRoutes(companies, services.Bill, services.Allocation)
	registerAllocationRoutes(companies, services.Allocation)
	registerBankFeedRoutes(companies, services.Reconciliation)
	registerRecurringRoutes(companies, services.Recurring)
	registerAuditRoutes(companies, services.Audit)
	registerReportingRoutes(companies, services.Reporting)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
