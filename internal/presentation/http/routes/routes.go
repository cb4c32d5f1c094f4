// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leadrelay/leadrelay-go/internal/application/container"
	"github.com/leadrelay/leadrelay-go/internal/presentation/http/handlers"
	"github.com/leadrelay/leadrelay-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	accountHandlers := handlers.NewAccountHandlers(container.AccountService, container.TokenService, container.Logger, container.PerfTracker)
	leadFormHandlers := handlers.NewLeadFormHandlers(container.LeadFormService, container.Logger, container.PerfTracker)
	leadHandlers := handlers.NewLeadHandlers(container.LeadService, container.ExportService, container.DeliveryService, container.Logger, container.PerfTracker, time.Now)
	relayHandlers := handlers.NewRelayHandlers(container.EmailService, container.LeadCache, container.Logger, container.PerfTracker)

	api := r.Group("/api/v1")
	{
		api.GET("/health", relayHandlers.Health)

		// Account store and token lifecycle
		api.GET("/accounts", accountHandlers.ListAccounts)
		api.POST("/accounts", accountHandlers.UpsertAccount)
		api.POST("/accounts/set-current", accountHandlers.SetCurrentAccount)
		api.POST("/accounts/add-page", accountHandlers.AddPage)
		api.GET("/accounts/permanent-pages", accountHandlers.ListPermanentPages)
		api.DELETE("/accounts/permanent-pages", accountHandlers.DeletePermanentPage)
		api.POST("/accounts/refresh-token", accountHandlers.RefreshToken)

		// Lead retrieval
		api.GET("/lead-forms", leadFormHandlers.ListForms)
		api.GET("/lead-forms/direct", leadFormHandlers.ListFormsDirect)
		api.GET("/leads/direct", leadHandlers.PreviewDirect)
		api.GET("/leads/download/direct", leadHandlers.DownloadDirect)
		api.POST("/leads/refresh", leadHandlers.RefreshLeads)

		// Export delivery
		api.POST("/leads/email", leadHandlers.EmailLeads)
		api.POST("/send-email", relayHandlers.SendEmail)
	}

	return r
}
