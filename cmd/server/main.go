package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coldbrew-labs/franchise-inventory/internal/api"
	"github.com/coldbrew-labs/franchise-inventory/internal/cache"
	"github.com/coldbrew-labs/franchise-inventory/internal/clock"
	"github.com/coldbrew-labs/franchise-inventory/internal/config"
	"github.com/coldbrew-labs/franchise-inventory/internal/notify"
	"github.com/coldbrew-labs/franchise-inventory/internal/repository/postgres"
	"github.com/coldbrew-labs/franchise-inventory/internal/scheduler"
	"github.com/coldbrew-labs/franchise-inventory/internal/service"
	"github.com/coldbrew-labs/franchise-inventory/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Setup(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.InitSchema(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize schema")
	}

	// Initialize repositories
	tenantRepo := postgres.NewTenantRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	submissionRepo := postgres.NewSubmissionRepository(db)

	// Initialize caches and supporting collaborators
	reportCache, err := cache.NewOrderReportCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("report cache unavailable, running without it")
		reportCache = cache.NewNoopOrderReportCache()
	}
	clk := clock.New(cfg.Scheduler.Timezone)
	notifier := notify.NewLogNotifier()

	// Initialize services
	tenantService := service.NewTenantService(tenantRepo)
	catalogService := service.NewCatalogService(catalogRepo)
	ledgerService := service.NewLedgerService(ledgerRepo, catalogRepo, reportCache, clk)
	orderService := service.NewOrderService(orderRepo, catalogRepo, reportCache, clk)
	forecastService := service.NewForecastService(ledgerRepo, catalogRepo, orderRepo, orderService, reportCache, cfg.Forecast)
	defer forecastService.Close()
	submissionService := service.NewSubmissionService(submissionRepo, catalogRepo, tenantRepo, reportCache, notifier, clk)

	// Start the reminder scheduler
	schedCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	go scheduler.New(tenantRepo, ledgerRepo, notifier, clk, cfg.Scheduler).Run(schedCtx)

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		TenantService:     tenantService,
		CatalogService:    catalogService,
		LedgerService:     ledgerService,
		ForecastService:   forecastService,
		OrderService:      orderService,
		SubmissionService: submissionService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	stopScheduler()

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
