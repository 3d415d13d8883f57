package repository

import (
	"github.com/facturalo/facturalo/internal/domain/customer"
	"github.com/facturalo/facturalo/internal/domain/invoice"
	"github.com/facturalo/facturalo/internal/domain/product"
	"github.com/facturalo/facturalo/internal/domain/sequence"
	"github.com/facturalo/facturalo/internal/logger"
	"github.com/facturalo/facturalo/internal/postgres"
	postgresRepo "github.com/facturalo/facturalo/internal/repository/postgres"
)

func NewInvoiceRepository(client postgres.IClient, logger *logger.Logger) invoice.Repository {
	return postgresRepo.NewInvoiceRepository(client, logger)
}

func NewSequenceRepository(client postgres.IClient, logger *logger.Logger) sequence.Repository {
	return postgresRepo.NewSequenceRepository(client, logger)
}

func NewCustomerRepository(client postgres.IClient, logger *logger.Logger) customer.Repository {
	return postgresRepo.NewCustomerRepository(client, logger)
}

func NewProductRepository(client postgres.IClient, logger *logger.Logger) product.Repository {
	return postgresRepo.NewProductRepository(client, logger)
}
