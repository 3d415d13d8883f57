package service

import (
	"github.com/facturalo/facturalo/internal/config"
	"github.com/facturalo/facturalo/internal/domain/customer"
	"github.com/facturalo/facturalo/internal/domain/invoice"
	"github.com/facturalo/facturalo/internal/domain/product"
	"github.com/facturalo/facturalo/internal/domain/sequence"
	"github.com/facturalo/facturalo/internal/logger"
	"github.com/facturalo/facturalo/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	// Repositories
	InvoiceRepo  invoice.Repository
	SequenceRepo sequence.Repository
	CustomerRepo customer.Repository
	ProductRepo  product.Repository
}

// NewServiceParams builds the common service dependency bundle
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	invoiceRepo invoice.Repository,
	sequenceRepo sequence.Repository,
	customerRepo customer.Repository,
	productRepo product.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		DB:           db,
		InvoiceRepo:  invoiceRepo,
		SequenceRepo: sequenceRepo,
		CustomerRepo: customerRepo,
		ProductRepo:  productRepo,
	}
}
