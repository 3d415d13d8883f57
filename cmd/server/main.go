package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/facturalo/facturalo/internal/api"
	v1 "github.com/facturalo/facturalo/internal/api/v1"
	"github.com/facturalo/facturalo/internal/config"
	"github.com/facturalo/facturalo/internal/logger"
	"github.com/facturalo/facturalo/internal/postgres"
	"github.com/facturalo/facturalo/internal/repository"
	"github.com/facturalo/facturalo/internal/service"
	"github.com/facturalo/facturalo/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// @title Facturalo API
// @version 1.0
// @description Electronic invoicing backend for SUNAT regulated documents
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC

	// Load .env if present; real deployments use environment variables
	_ = godotenv.Load()
}

func main() {
	app := fx.New(
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			provideLogger,

			// Postgres
			postgres.NewDB,
			postgres.NewClient,

			// Repositories
			repository.NewInvoiceRepository,
			repository.NewSequenceRepository,
			repository.NewCustomerRepository,
			repository.NewProductRepository,

			// Services
			service.NewServiceParams,
			service.NewInvoiceService,
			service.NewSequenceService,
			service.NewCustomerService,
			service.NewProductService,

			// API
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)
	app.Run()
}

func provideLogger(cfg *config.Configuration) (*logger.Logger, error) {
	return logger.NewLogger(cfg.Logging.Level)
}

func provideHandlers(
	logger *logger.Logger,
	invoiceService service.InvoiceService,
	sequenceService service.SequenceService,
	customerService service.CustomerService,
	productService service.ProductService,
) api.Handlers {
	return api.Handlers{
		Health:   v1.NewHealthHandler(logger),
		Invoice:  v1.NewInvoiceHandler(invoiceService, logger),
		Sequence: v1.NewSequenceHandler(sequenceService, logger),
		Customer: v1.NewCustomerHandler(customerService, logger),
		Product:  v1.NewProductHandler(productService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	db *postgres.DB,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infof("Starting API server on %s", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			// Drain in-flight issuances before the connection pool goes away
			if err := srv.Shutdown(ctx); err != nil {
				log.Errorf("Server shutdown failed: %v", err)
			}
			db.Close()
			return nil
		},
	})
}
