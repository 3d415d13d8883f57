package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/facturalo/facturalo/internal/api/dto"
	"github.com/facturalo/facturalo/internal/domain/customer"
	"github.com/facturalo/facturalo/internal/domain/product"
	"github.com/facturalo/facturalo/internal/domain/sequence"
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/testutil"
	"github.com/facturalo/facturalo/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service      InvoiceService
	invoiceRepo  *testutil.InMemoryInvoiceStore
	sequenceRepo *testutil.InMemorySequenceStore
	testData     struct {
		customer *customer.Customer
		product  *product.Product
		sequence *sequence.DocumentSequence
	}
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
	s.setupTestData()
}

func (s *InvoiceServiceSuite) setupService() {
	s.invoiceRepo = s.GetStores().InvoiceRepo.(*testutil.InMemoryInvoiceStore)
	s.sequenceRepo = s.GetStores().SequenceRepo.(*testutil.InMemorySequenceStore)

	s.service = NewInvoiceService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		InvoiceRepo:  s.invoiceRepo,
		SequenceRepo: s.sequenceRepo,
		CustomerRepo: s.GetStores().CustomerRepo,
		ProductRepo:  s.GetStores().ProductRepo,
	})
}

func (s *InvoiceServiceSuite) setupTestData() {
	ctx := s.GetContext()

	s.testData.customer = &customer.Customer{
		ID:             "cust_test",
		IdentityType:   customer.IdentityTypeRUC,
		IdentityNumber: "20123456789",
		LegalName:      "Comercial Andina S.A.C.",
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().CustomerRepo.Create(ctx, s.testData.customer))

	s.testData.product = &product.Product{
		ID:            "prod_test",
		Code:          "SKU-001",
		Description:   "Cemento x 42.5kg",
		UnitPrice:     decimal.RequireFromString("10.00"),
		TaxRate:       decimal.RequireFromString("18"),
		UnitOfMeasure: "NIU",
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().ProductRepo.Create(ctx, s.testData.product))

	s.testData.sequence = &sequence.DocumentSequence{
		ID:            "seq_test",
		DocumentType:  types.DocumentTypeFactura,
		Series:        "F001",
		CurrentNumber: 0,
		MinDigits:     8,
		IsActive:      true,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.sequenceRepo.Create(ctx, s.testData.sequence))
}

func (s *InvoiceServiceSuite) issuanceRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		CustomerID:   s.testData.customer.ID,
		DocumentType: types.DocumentTypeFactura,
		Series:       "F001",
		LineItems: []dto.CreateInvoiceLineItemRequest{
			{
				ProductID:    s.testData.product.ID,
				Quantity:     decimal.RequireFromString("3"),
				DiscountRate: lo.ToPtr(decimal.RequireFromString("5")),
			},
		},
	}
}

func (s *InvoiceServiceSuite) TestCreateInvoice() {
	resp, err := s.service.CreateInvoice(s.GetContext(), s.issuanceRequest())
	s.NoError(err)
	s.NotNil(resp)

	s.Equal("F001-00000001", resp.InvoiceNumber)
	s.Equal(int64(1), resp.Correlative)
	s.Equal("F001", resp.Series)
	s.Equal("PEN", resp.Currency)
	s.Equal(types.InvoiceStatusDraft, resp.InvoiceStatus)
	s.Equal(types.SunatStatusPending, resp.SunatStatus)

	// 3 x 10.00 with 5% discount and 18% IGV
	s.True(decimal.RequireFromString("28.50").Equal(resp.Subtotal), "subtotal %s", resp.Subtotal)
	s.True(decimal.RequireFromString("1.50").Equal(resp.DiscountAmount), "discount %s", resp.DiscountAmount)
	s.True(decimal.RequireFromString("5.13").Equal(resp.TaxAmount), "tax %s", resp.TaxAmount)
	s.True(decimal.RequireFromString("33.63").Equal(resp.TotalAmount), "total %s", resp.TotalAmount)

	s.Len(resp.LineItems, 1)
	line := resp.LineItems[0]
	s.Equal(s.testData.product.ID, line.ProductID)
	s.Equal("Cemento x 42.5kg", line.Description)
	s.True(decimal.RequireFromString("18").Equal(line.TaxRate))

	// Sequence advanced exactly once
	seq, err := s.sequenceRepo.Get(s.GetContext(), types.DocumentTypeFactura, "F001")
	s.NoError(err)
	s.Equal(int64(1), seq.CurrentNumber)

	// The invoice is readable back with its line items
	got, err := s.service.GetInvoice(s.GetContext(), resp.ID)
	s.NoError(err)
	s.Equal(resp.InvoiceNumber, got.InvoiceNumber)
	s.True(resp.TotalAmount.Equal(got.TotalAmount))
	s.True(resp.Subtotal.Equal(got.Subtotal))
	s.Len(got.LineItems, 1)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceSequentialNumbers() {
	for i := 1; i <= 3; i++ {
		resp, err := s.service.CreateInvoice(s.GetContext(), s.issuanceRequest())
		s.NoError(err)
		s.Equal(fmt.Sprintf("F001-%08d", i), resp.InvoiceNumber)
	}
}

func (s *InvoiceServiceSuite) TestCreateInvoiceSnapshotsProductValues() {
	resp, err := s.service.CreateInvoice(s.GetContext(), s.issuanceRequest())
	s.NoError(err)

	// Changing the product afterwards must not affect the issued invoice
	prod, err := s.GetStores().ProductRepo.Get(s.GetContext(), s.testData.product.ID)
	s.NoError(err)
	prod.UnitPrice = decimal.RequireFromString("99.99")
	prod.TaxRate = decimal.RequireFromString("10")
	s.NoError(s.GetStores().ProductRepo.Update(s.GetContext(), prod))

	got, err := s.service.GetInvoice(s.GetContext(), resp.ID)
	s.NoError(err)
	s.True(decimal.RequireFromString("10.00").Equal(got.LineItems[0].UnitPrice))
	s.True(decimal.RequireFromString("18").Equal(got.LineItems[0].TaxRate))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceLinePriceOverride() {
	req := s.issuanceRequest()
	req.LineItems[0].UnitPrice = lo.ToPtr(decimal.RequireFromString("20.00"))
	req.LineItems[0].DiscountRate = nil

	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)
	s.True(decimal.RequireFromString("60.00").Equal(resp.Subtotal), "subtotal %s", resp.Subtotal)
	s.True(decimal.RequireFromString("10.80").Equal(resp.TaxAmount), "tax %s", resp.TaxAmount)

	// The tax rate still comes from the product, never from the request
	s.True(s.testData.product.TaxRate.Equal(resp.LineItems[0].TaxRate))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceInactiveSequence() {
	s.NoError(s.sequenceRepo.SetActive(s.GetContext(), types.DocumentTypeFactura, "F001", false))

	resp, err := s.service.CreateInvoice(s.GetContext(), s.issuanceRequest())
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsSequenceInactive(err))

	// Nothing was issued and the counter did not move
	seq, err := s.sequenceRepo.Get(s.GetContext(), types.DocumentTypeFactura, "F001")
	s.NoError(err)
	s.Equal(int64(0), seq.CurrentNumber)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceCustomerNotFound() {
	req := s.issuanceRequest()
	req.CustomerID = "cust_missing"

	_, err := s.service.CreateInvoice(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceProductNotFound() {
	req := s.issuanceRequest()
	req.LineItems[0].ProductID = "prod_missing"

	_, err := s.service.CreateInvoice(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	seq, err := s.sequenceRepo.Get(s.GetContext(), types.DocumentTypeFactura, "F001")
	s.NoError(err)
	s.Equal(int64(0), seq.CurrentNumber)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceBadSecondLineLeavesCounterUntouched() {
	req := s.issuanceRequest()
	req.LineItems = append(req.LineItems, dto.CreateInvoiceLineItemRequest{
		ProductID:    s.testData.product.ID,
		Quantity:     decimal.RequireFromString("1"),
		DiscountRate: lo.ToPtr(decimal.RequireFromString("150")),
	})

	_, err := s.service.CreateInvoice(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))

	seq, err := s.sequenceRepo.Get(s.GetContext(), types.DocumentTypeFactura, "F001")
	s.NoError(err)
	s.Equal(int64(0), seq.CurrentNumber)

	count, err := s.invoiceRepo.Count(s.GetContext(), types.NewInvoiceFilter())
	s.NoError(err)
	s.Equal(0, count)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceForeignTenant() {
	ctx := types.SetTenantID(testutil.SetupContext(), "tenant_other")

	_, err := s.service.CreateInvoice(ctx, s.issuanceRequest())
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceUnknownSeries() {
	req := s.issuanceRequest()
	req.Series = "F999"

	_, err := s.service.CreateInvoice(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceValidation() {
	testCases := []struct {
		name   string
		mutate func(req *dto.CreateInvoiceRequest)
	}{
		{
			name:   "missing_customer",
			mutate: func(req *dto.CreateInvoiceRequest) { req.CustomerID = "" },
		},
		{
			name:   "invalid_document_type",
			mutate: func(req *dto.CreateInvoiceRequest) { req.DocumentType = "99" },
		},
		{
			name:   "no_line_items",
			mutate: func(req *dto.CreateInvoiceRequest) { req.LineItems = nil },
		},
		{
			name: "zero_quantity",
			mutate: func(req *dto.CreateInvoiceRequest) {
				req.LineItems[0].Quantity = decimal.Zero
			},
		},
		{
			name: "negative_price_override",
			mutate: func(req *dto.CreateInvoiceRequest) {
				req.LineItems[0].UnitPrice = lo.ToPtr(decimal.RequireFromString("-1"))
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req := s.issuanceRequest()
			tc.mutate(&req)

			_, err := s.service.CreateInvoice(s.GetContext(), req)
			s.Error(err)
			s.True(ierr.IsValidation(err))
		})
	}
}

func (s *InvoiceServiceSuite) TestCreateInvoicePermissionDenied() {
	ctx := testutil.SetupContextWithRoles(types.UserRoleViewer)

	_, err := s.service.CreateInvoice(ctx, s.issuanceRequest())
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))

	seq, err := s.sequenceRepo.Get(s.GetContext(), types.DocumentTypeFactura, "F001")
	s.NoError(err)
	s.Equal(int64(0), seq.CurrentNumber)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceRollsBackOnPersistFailure() {
	s.invoiceRepo.FailNextCreate(ierr.NewError("disk full").Mark(ierr.ErrDatabase))

	_, err := s.service.CreateInvoice(s.GetContext(), s.issuanceRequest())
	s.Error(err)
	s.True(ierr.IsDatabase(err))

	// The failed issuance must leave no trace: counter unchanged, no
	// invoice rows
	seq, err := s.sequenceRepo.Get(s.GetContext(), types.DocumentTypeFactura, "F001")
	s.NoError(err)
	s.Equal(int64(0), seq.CurrentNumber)

	count, err := s.invoiceRepo.Count(s.GetContext(), types.NewInvoiceFilter())
	s.NoError(err)
	s.Equal(0, count)

	// The next issuance reuses the number the failed attempt never got
	resp, err := s.service.CreateInvoice(s.GetContext(), s.issuanceRequest())
	s.NoError(err)
	s.Equal("F001-00000001", resp.InvoiceNumber)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceConcurrent() {
	const n = 25

	var mu sync.Mutex
	numbers := make(map[string]struct{})

	var wg conc.WaitGroup
	for i := 0; i < n; i++ {
		wg.Go(func() {
			resp, err := s.service.CreateInvoice(s.GetContext(), s.issuanceRequest())
			s.NoError(err)
			if resp == nil {
				return
			}
			mu.Lock()
			numbers[resp.InvoiceNumber] = struct{}{}
			mu.Unlock()
		})
	}
	wg.Wait()

	// Every issuance got a distinct number with no gaps
	s.Len(numbers, n)
	for i := 1; i <= n; i++ {
		s.Contains(numbers, fmt.Sprintf("F001-%08d", i))
	}

	seq, err := s.sequenceRepo.Get(s.GetContext(), types.DocumentTypeFactura, "F001")
	s.NoError(err)
	s.Equal(int64(n), seq.CurrentNumber)

	count, err := s.invoiceRepo.Count(s.GetContext(), types.NewInvoiceFilter())
	s.NoError(err)
	s.Equal(n, count)
}

func (s *InvoiceServiceSuite) TestListInvoices() {
	for i := 0; i < 3; i++ {
		_, err := s.service.CreateInvoice(s.GetContext(), s.issuanceRequest())
		s.NoError(err)
	}

	resp, err := s.service.ListInvoices(s.GetContext(), types.NewInvoiceFilter())
	s.NoError(err)
	s.Len(resp.Items, 3)
	s.Equal(3, resp.Pagination.Total)

	// Filter by series
	filter := types.NewInvoiceFilter()
	filter.Series = "F999"
	resp, err = s.service.ListInvoices(s.GetContext(), filter)
	s.NoError(err)
	s.Len(resp.Items, 0)
}

func (s *InvoiceServiceSuite) TestGetInvoiceNotFound() {
	_, err := s.service.GetInvoice(s.GetContext(), "inv_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceWithDueDate() {
	issue := time.Now().UTC()
	due := issue.Add(30 * 24 * time.Hour)

	req := s.issuanceRequest()
	req.IssueDate = &issue
	req.DueDate = &due

	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)
	s.NotNil(resp.DueDate)
	s.True(resp.DueDate.Equal(due))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceDueBeforeIssue() {
	issue := time.Now().UTC()
	due := issue.Add(-24 * time.Hour)

	req := s.issuanceRequest()
	req.IssueDate = &issue
	req.DueDate = &due

	_, err := s.service.CreateInvoice(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
