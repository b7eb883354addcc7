package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/coldbrew-labs/franchise-inventory/internal/api/handlers"
	"github.com/coldbrew-labs/franchise-inventory/internal/api/middleware"
	"github.com/coldbrew-labs/franchise-inventory/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	TenantService     *service.TenantService
	CatalogService    *service.CatalogService
	LedgerService     *service.LedgerService
	ForecastService   *service.ForecastService
	OrderService      *service.OrderService
	SubmissionService *service.SubmissionService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	tenantHandler := handlers.NewTenantHandler(services.TenantService)

	// Registration happens before an actor exists.
	apiGroup.POST("/users", tenantHandler.EnsureUser)

	authed := apiGroup.Group("", middleware.Actor(services.TenantService))
	authed.GET("/me", tenantHandler.Me)

	companies := authed.Group("/companies")
	{
		companies.POST("", tenantHandler.CreateCompany)
		companies.GET("", tenantHandler.ListCompanies)
		companies.GET("/:id", tenantHandler.GetCompany)
		companies.PUT("/:id/subscription", tenantHandler.UpdateSubscription)
		companies.DELETE("/:id", tenantHandler.DeleteCompany)
		companies.POST("/:id/clone-catalog", tenantHandler.CloneCatalog)
		companies.GET("/:id/users", tenantHandler.ListUsers)
		companies.POST("/:id/users", tenantHandler.AssignUser)
		companies.PUT("/:id/users/:userID/role", tenantHandler.SetUserRole)
	}

	if services.CatalogService != nil {
		catalogHandler := handlers.NewCatalogHandler(services.CatalogService)
		{
			companies.POST("/:id/products", catalogHandler.AddProduct)
			companies.GET("/:id/products", catalogHandler.ListProducts)
			companies.GET("/:id/products/:productID", catalogHandler.GetProduct)
		}
	}

	if services.LedgerService != nil {
		ledgerHandler := handlers.NewLedgerHandler(services.LedgerService)
		{
			companies.POST("/:id/stock", ledgerHandler.RecordSnapshot)
			companies.GET("/:id/stock", ledgerHandler.GetStock)
			companies.GET("/:id/stock/dates", ledgerHandler.GetStockDates)
			companies.POST("/:id/supplies", ledgerHandler.RecordSupply)
			companies.GET("/:id/products/:productID/history", ledgerHandler.GetHistory)
			companies.GET("/:id/products/:productID/supplies", ledgerHandler.GetSupplies)
			companies.GET("/:id/products/:productID/consumption", ledgerHandler.GetProductConsumption)
			companies.GET("/:id/consumption", ledgerHandler.GetConsumption)
		}
	}

	if services.ForecastService != nil {
		forecastHandler := handlers.NewForecastHandler(services.ForecastService)
		{
			companies.GET("/:id/products/:productID/forecast", forecastHandler.GetAverageConsumption)
			companies.GET("/:id/order-report", forecastHandler.GetOrderReport)
			companies.POST("/:id/order-drafts", forecastHandler.CreateDraft)
			companies.GET("/:id/order-drafts/:token", forecastHandler.GetDraft)
			companies.PUT("/:id/order-drafts/:token/items/:productID", forecastHandler.UpdateDraftItem)
			companies.POST("/:id/order-drafts/:token/confirm", forecastHandler.ConfirmDraft)
		}
	}

	if services.OrderService != nil {
		orderHandler := handlers.NewOrderHandler(services.OrderService)
		{
			companies.POST("/:id/orders", orderHandler.CreateOrder)
			companies.GET("/:id/orders", orderHandler.ListPending)
			companies.GET("/:id/orders/:orderID", orderHandler.GetOrder)
			companies.GET("/:id/orders/:orderID/items", orderHandler.GetOrderItems)
			companies.POST("/:id/orders/:orderID/complete", orderHandler.CompleteOrder)
			companies.POST("/:id/orders/:orderID/cancel", orderHandler.CancelOrder)
		}
	}

	if services.SubmissionService != nil {
		submissionHandler := handlers.NewSubmissionHandler(services.SubmissionService)
		{
			companies.POST("/:id/submissions", submissionHandler.SubmitStock)
			companies.GET("/:id/submissions/pending", submissionHandler.ListPending)
			companies.GET("/:id/submissions/:submissionID", submissionHandler.GetSubmission)
			companies.GET("/:id/submissions/:submissionID/items", submissionHandler.GetSubmissionItems)
			companies.PUT("/:id/submissions/:submissionID/items/:productID", submissionHandler.EditItem)
			companies.POST("/:id/submissions/:submissionID/approve", submissionHandler.Approve)
			companies.POST("/:id/submissions/:submissionID/reject", submissionHandler.Reject)
			companies.GET("/:id/users/:userID/submissions", submissionHandler.UserSubmissions)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
