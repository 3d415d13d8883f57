package service

import (
	"testing"

	"github.com/facturalo/facturalo/internal/api/dto"
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/testutil"
	"github.com/facturalo/facturalo/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ProductServiceSuite struct {
	testutil.BaseServiceTestSuite
	service ProductService
}

func TestProductService(t *testing.T) {
	suite.Run(t, new(ProductServiceSuite))
}

func (s *ProductServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewProductService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		InvoiceRepo:  s.GetStores().InvoiceRepo,
		SequenceRepo: s.GetStores().SequenceRepo,
		CustomerRepo: s.GetStores().CustomerRepo,
		ProductRepo:  s.GetStores().ProductRepo,
	})
}

func (s *ProductServiceSuite) TestCreateProduct() {
	resp, err := s.service.CreateProduct(s.GetContext(), dto.CreateProductRequest{
		Code:        "SKU-001",
		Description: "Cemento x 42.5kg",
		UnitPrice:   decimal.RequireFromString("25.90"),
		TaxRate:     decimal.RequireFromString("18"),
	})
	s.NoError(err)
	s.NotEmpty(resp.ID)
	// NIU is the SUNAT default unit when none is given
	s.Equal("NIU", resp.UnitOfMeasure)

	resp, err = s.service.CreateProduct(s.GetContext(), dto.CreateProductRequest{
		Description:   "Servicio de instalacion",
		UnitPrice:     decimal.RequireFromString("150.00"),
		TaxRate:       decimal.RequireFromString("18"),
		UnitOfMeasure: "ZZ",
	})
	s.NoError(err)
	s.Equal("ZZ", resp.UnitOfMeasure)
}

func (s *ProductServiceSuite) TestCreateProductValidation() {
	testCases := []struct {
		name string
		req  dto.CreateProductRequest
	}{
		{
			name: "missing_description",
			req: dto.CreateProductRequest{
				UnitPrice: decimal.RequireFromString("10.00"),
			},
		},
		{
			name: "negative_price",
			req: dto.CreateProductRequest{
				Description: "Cemento",
				UnitPrice:   decimal.RequireFromString("-1"),
			},
		},
		{
			name: "tax_rate_over_100",
			req: dto.CreateProductRequest{
				Description: "Cemento",
				UnitPrice:   decimal.RequireFromString("10.00"),
				TaxRate:     decimal.RequireFromString("101"),
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.service.CreateProduct(s.GetContext(), tc.req)
			s.Error(err)
			s.True(ierr.IsValidation(err))
		})
	}
}

func (s *ProductServiceSuite) TestUpdateProduct() {
	resp, err := s.service.CreateProduct(s.GetContext(), dto.CreateProductRequest{
		Description: "Cemento",
		UnitPrice:   decimal.RequireFromString("25.90"),
		TaxRate:     decimal.RequireFromString("18"),
	})
	s.NoError(err)

	updated, err := s.service.UpdateProduct(s.GetContext(), resp.ID, dto.UpdateProductRequest{
		UnitPrice: lo.ToPtr(decimal.RequireFromString("27.50")),
	})
	s.NoError(err)
	s.True(decimal.RequireFromString("27.50").Equal(updated.UnitPrice))
	s.Equal("Cemento", updated.Description)
}

func (s *ProductServiceSuite) TestDeleteProduct() {
	resp, err := s.service.CreateProduct(s.GetContext(), dto.CreateProductRequest{
		Description: "Cemento",
		UnitPrice:   decimal.RequireFromString("25.90"),
	})
	s.NoError(err)

	s.NoError(s.service.DeleteProduct(s.GetContext(), resp.ID))

	_, err = s.service.GetProduct(s.GetContext(), resp.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *ProductServiceSuite) TestListProducts() {
	for _, desc := range []string{"Cemento", "Ladrillo"} {
		_, err := s.service.CreateProduct(s.GetContext(), dto.CreateProductRequest{
			Description: desc,
			UnitPrice:   decimal.RequireFromString("10.00"),
		})
		s.NoError(err)
	}

	resp, err := s.service.ListProducts(s.GetContext(), types.NewDefaultQueryFilter())
	s.NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(2, resp.Pagination.Total)
}

func (s *ProductServiceSuite) TestWriteRequiresPermission() {
	ctx := testutil.SetupContextWithRoles(types.UserRoleSales)

	_, err := s.service.CreateProduct(ctx, dto.CreateProductRequest{
		Description: "Cemento",
		UnitPrice:   decimal.RequireFromString("10.00"),
	})
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}
