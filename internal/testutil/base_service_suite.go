package testutil

import (
	"context"
	"time"

	"github.com/facturalo/facturalo/internal/config"
	"github.com/facturalo/facturalo/internal/domain/customer"
	"github.com/facturalo/facturalo/internal/domain/invoice"
	"github.com/facturalo/facturalo/internal/domain/product"
	"github.com/facturalo/facturalo/internal/domain/sequence"
	"github.com/facturalo/facturalo/internal/logger"
	"github.com/facturalo/facturalo/internal/postgres"
	"github.com/facturalo/facturalo/internal/types"
	"github.com/facturalo/facturalo/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	InvoiceRepo  invoice.Repository
	SequenceRepo sequence.Repository
	CustomerRepo customer.Repository
	ProductRepo  product.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	db     postgres.IClient
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	s.config = config.GetDefaultConfig()

	var err error
	s.logger, err = logger.NewLogger(s.config.Logging.Level)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	invoiceStore := NewInMemoryInvoiceStore()
	sequenceStore := NewInMemorySequenceStore()
	customerStore := NewInMemoryCustomerStore()
	productStore := NewInMemoryProductStore()

	s.stores = Stores{
		InvoiceRepo:  invoiceStore,
		SequenceRepo: sequenceStore,
		CustomerRepo: customerStore,
		ProductRepo:  productStore,
	}

	s.db = NewMockPostgresClient(s.logger, invoiceStore, sequenceStore, customerStore, productStore)
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.InvoiceRepo.(*InMemoryInvoiceStore).Clear()
	s.stores.SequenceRepo.(*InMemorySequenceStore).Clear()
	s.stores.CustomerRepo.(*InMemoryCustomerStore).Clear()
	s.stores.ProductRepo.(*InMemoryProductStore).Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// SetContext overrides the test context, used by permission tests
func (s *BaseServiceTestSuite) SetContext(ctx context.Context) {
	s.ctx = ctx
}

// GetStores returns the test stores
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetDB returns the mock db client
func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}

// GetUUID returns a new unique identifier
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
