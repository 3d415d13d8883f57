package api

import (
	v1 "github.com/facturalo/facturalo/internal/api/v1"
	"github.com/facturalo/facturalo/internal/config"
	"github.com/facturalo/facturalo/internal/logger"
	"github.com/facturalo/facturalo/internal/rest/middleware"
	"github.com/facturalo/facturalo/internal/types"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health   *v1.HealthHandler
	Invoice  *v1.InvoiceHandler
	Sequence *v1.SequenceHandler
	Customer *v1.CustomerHandler
	Product  *v1.ProductHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Health)

	// v1 routes require tenant context; local mode trusts everybody
	v1Group := router.Group("/v1")
	if cfg.Deployment.Mode == types.ModeLocal {
		v1Group.Use(middleware.GuestAuthenticateMiddleware)
	} else {
		v1Group.Use(middleware.TenantAuthenticateMiddleware(logger))
	}
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// Invoice routes
	invoices := router.Group("/invoices")
	{
		invoices.POST("", handlers.Invoice.CreateInvoice)
		invoices.GET("", handlers.Invoice.ListInvoices)
		invoices.GET("/:id", handlers.Invoice.GetInvoice)
	}

	// Sequence routes
	sequences := router.Group("/sequences")
	{
		sequences.POST("", handlers.Sequence.CreateSequence)
		sequences.GET("", handlers.Sequence.ListSequences)
		sequences.GET("/:document_type/:series", handlers.Sequence.GetSequence)
		sequences.PUT("/:document_type/:series/status", handlers.Sequence.UpdateSequenceStatus)
	}

	// Customer routes
	customers := router.Group("/customers")
	{
		customers.POST("", handlers.Customer.CreateCustomer)
		customers.GET("", handlers.Customer.ListCustomers)
		customers.GET("/:id", handlers.Customer.GetCustomer)
		customers.PUT("/:id", handlers.Customer.UpdateCustomer)
		customers.DELETE("/:id", handlers.Customer.DeleteCustomer)
	}

	// Product routes
	products := router.Group("/products")
	{
		products.POST("", handlers.Product.CreateProduct)
		products.GET("", handlers.Product.ListProducts)
		products.GET("/:id", handlers.Product.GetProduct)
		products.PUT("/:id", handlers.Product.UpdateProduct)
		products.DELETE("/:id", handlers.Product.DeleteProduct)
	}
}
