package service

import (
	"testing"

	"github.com/facturalo/facturalo/internal/api/dto"
	"github.com/facturalo/facturalo/internal/domain/customer"
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/testutil"
	"github.com/facturalo/facturalo/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type CustomerServiceSuite struct {
	testutil.BaseServiceTestSuite
	service CustomerService
}

func TestCustomerService(t *testing.T) {
	suite.Run(t, new(CustomerServiceSuite))
}

func (s *CustomerServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewCustomerService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		InvoiceRepo:  s.GetStores().InvoiceRepo,
		SequenceRepo: s.GetStores().SequenceRepo,
		CustomerRepo: s.GetStores().CustomerRepo,
		ProductRepo:  s.GetStores().ProductRepo,
	})
}

func (s *CustomerServiceSuite) TestCreateCustomer() {
	testCases := []struct {
		name          string
		req           dto.CreateCustomerRequest
		expectedError bool
	}{
		{
			name: "valid_ruc_customer",
			req: dto.CreateCustomerRequest{
				IdentityType:   customer.IdentityTypeRUC,
				IdentityNumber: "20123456789",
				LegalName:      "Comercial Andina S.A.C.",
			},
		},
		{
			name: "valid_dni_customer",
			req: dto.CreateCustomerRequest{
				IdentityType:   customer.IdentityTypeDNI,
				IdentityNumber: "45678912",
				LegalName:      "Juan Quispe",
				Email:          "juan@example.com",
			},
		},
		{
			name: "missing_legal_name",
			req: dto.CreateCustomerRequest{
				IdentityType:   customer.IdentityTypeRUC,
				IdentityNumber: "20123456789",
			},
			expectedError: true,
		},
		{
			name: "unknown_identity_type",
			req: dto.CreateCustomerRequest{
				IdentityType:   customer.IdentityType("9"),
				IdentityNumber: "20123456789",
				LegalName:      "Comercial Andina S.A.C.",
			},
			expectedError: true,
		},
		{
			name: "invalid_email",
			req: dto.CreateCustomerRequest{
				IdentityType:   customer.IdentityTypeRUC,
				IdentityNumber: "20123456789",
				LegalName:      "Comercial Andina S.A.C.",
				Email:          "not-an-email",
			},
			expectedError: true,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			resp, err := s.service.CreateCustomer(s.GetContext(), tc.req)
			if tc.expectedError {
				s.Error(err)
				s.True(ierr.IsValidation(err))
				return
			}
			s.NoError(err)
			s.NotNil(resp)
			s.NotEmpty(resp.ID)
			s.Equal(tc.req.LegalName, resp.LegalName)
		})
	}
}

func (s *CustomerServiceSuite) TestUpdateCustomer() {
	resp, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
		IdentityType:   customer.IdentityTypeRUC,
		IdentityNumber: "20123456789",
		LegalName:      "Comercial Andina S.A.C.",
	})
	s.NoError(err)

	updated, err := s.service.UpdateCustomer(s.GetContext(), resp.ID, dto.UpdateCustomerRequest{
		TradeName: lo.ToPtr("Andina"),
		Email:     lo.ToPtr("ventas@andina.pe"),
	})
	s.NoError(err)
	s.Equal("Andina", updated.TradeName)
	s.Equal("ventas@andina.pe", updated.Email)
	// Untouched fields keep their values
	s.Equal("Comercial Andina S.A.C.", updated.LegalName)

	_, err = s.service.UpdateCustomer(s.GetContext(), "cust_missing", dto.UpdateCustomerRequest{
		TradeName: lo.ToPtr("Andina"),
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *CustomerServiceSuite) TestDeleteCustomer() {
	resp, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
		IdentityType:   customer.IdentityTypeDNI,
		IdentityNumber: "45678912",
		LegalName:      "Juan Quispe",
	})
	s.NoError(err)

	s.NoError(s.service.DeleteCustomer(s.GetContext(), resp.ID))

	_, err = s.service.GetCustomer(s.GetContext(), resp.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *CustomerServiceSuite) TestListCustomers() {
	customers := []dto.CreateCustomerRequest{
		{IdentityType: customer.IdentityTypeRUC, IdentityNumber: "20123456789", LegalName: "Alfa S.A.C."},
		{IdentityType: customer.IdentityTypeRUC, IdentityNumber: "20987654321", LegalName: "Beta E.I.R.L."},
	}
	for _, req := range customers {
		_, err := s.service.CreateCustomer(s.GetContext(), req)
		s.NoError(err)
	}

	resp, err := s.service.ListCustomers(s.GetContext(), types.NewDefaultQueryFilter())
	s.NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(2, resp.Pagination.Total)
}

func (s *CustomerServiceSuite) TestWriteRequiresPermission() {
	// Accountants can read customers but never modify them
	ctx := testutil.SetupContextWithRoles(types.UserRoleAccountant)

	_, err := s.service.CreateCustomer(ctx, dto.CreateCustomerRequest{
		IdentityType:   customer.IdentityTypeRUC,
		IdentityNumber: "20123456789",
		LegalName:      "Comercial Andina S.A.C.",
	})
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}
