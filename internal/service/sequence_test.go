package service

import (
	"testing"

	"github.com/facturalo/facturalo/internal/api/dto"
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/testutil"
	"github.com/facturalo/facturalo/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type SequenceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service SequenceService
}

func TestSequenceService(t *testing.T) {
	suite.Run(t, new(SequenceServiceSuite))
}

func (s *SequenceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewSequenceService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		InvoiceRepo:  s.GetStores().InvoiceRepo,
		SequenceRepo: s.GetStores().SequenceRepo,
		CustomerRepo: s.GetStores().CustomerRepo,
		ProductRepo:  s.GetStores().ProductRepo,
	})
}

func (s *SequenceServiceSuite) TestCreateSequence() {
	resp, err := s.service.CreateSequence(s.GetContext(), dto.CreateSequenceRequest{
		DocumentType: types.DocumentTypeFactura,
		Series:       "F001",
	})
	s.NoError(err)
	s.NotNil(resp)
	s.Equal("F001", resp.Series)
	s.Equal(int64(0), resp.CurrentNumber)
	s.Equal(8, resp.MinDigits)
	s.True(resp.IsActive)
}

func (s *SequenceServiceSuite) TestCreateSequenceCustomDigits() {
	resp, err := s.service.CreateSequence(s.GetContext(), dto.CreateSequenceRequest{
		DocumentType: types.DocumentTypeBoleta,
		Series:       "B001",
		MinDigits:    lo.ToPtr(6),
	})
	s.NoError(err)
	s.Equal(6, resp.MinDigits)
	s.Equal("B001-000001", resp.FormatNumber(1))
}

func (s *SequenceServiceSuite) TestCreateSequenceInitialNumber() {
	// Migrating an existing series continues after the last used number
	resp, err := s.service.CreateSequence(s.GetContext(), dto.CreateSequenceRequest{
		DocumentType:  types.DocumentTypeFactura,
		Series:        "F002",
		InitialNumber: lo.ToPtr(int64(1500)),
	})
	s.NoError(err)
	s.Equal(int64(1500), resp.CurrentNumber)
}

func (s *SequenceServiceSuite) TestCreateSequenceDuplicate() {
	req := dto.CreateSequenceRequest{
		DocumentType: types.DocumentTypeFactura,
		Series:       "F001",
	}
	_, err := s.service.CreateSequence(s.GetContext(), req)
	s.NoError(err)

	_, err = s.service.CreateSequence(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *SequenceServiceSuite) TestCreateSequenceValidation() {
	testCases := []struct {
		name string
		req  dto.CreateSequenceRequest
	}{
		{
			name: "missing_series",
			req:  dto.CreateSequenceRequest{DocumentType: types.DocumentTypeFactura},
		},
		{
			name: "missing_document_type",
			req:  dto.CreateSequenceRequest{Series: "F001"},
		},
		{
			name: "unknown_document_type",
			req:  dto.CreateSequenceRequest{DocumentType: "99", Series: "F001"},
		},
		{
			name: "bad_series_format",
			req:  dto.CreateSequenceRequest{DocumentType: types.DocumentTypeFactura, Series: "f-01"},
		},
		{
			name: "min_digits_out_of_range",
			req: dto.CreateSequenceRequest{
				DocumentType: types.DocumentTypeFactura,
				Series:       "F001",
				MinDigits:    lo.ToPtr(13),
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.service.CreateSequence(s.GetContext(), tc.req)
			s.Error(err)
			s.True(ierr.IsValidation(err))
		})
	}
}

func (s *SequenceServiceSuite) TestGetSequence() {
	_, err := s.service.CreateSequence(s.GetContext(), dto.CreateSequenceRequest{
		DocumentType: types.DocumentTypeFactura,
		Series:       "F001",
	})
	s.NoError(err)

	resp, err := s.service.GetSequence(s.GetContext(), types.DocumentTypeFactura, "F001")
	s.NoError(err)
	s.Equal("F001", resp.Series)

	_, err = s.service.GetSequence(s.GetContext(), types.DocumentTypeFactura, "F999")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *SequenceServiceSuite) TestSetSequenceActive() {
	_, err := s.service.CreateSequence(s.GetContext(), dto.CreateSequenceRequest{
		DocumentType: types.DocumentTypeFactura,
		Series:       "F001",
	})
	s.NoError(err)

	s.NoError(s.service.SetSequenceActive(s.GetContext(), types.DocumentTypeFactura, "F001", false))

	resp, err := s.service.GetSequence(s.GetContext(), types.DocumentTypeFactura, "F001")
	s.NoError(err)
	s.False(resp.IsActive)

	s.NoError(s.service.SetSequenceActive(s.GetContext(), types.DocumentTypeFactura, "F001", true))

	resp, err = s.service.GetSequence(s.GetContext(), types.DocumentTypeFactura, "F001")
	s.NoError(err)
	s.True(resp.IsActive)
}

func (s *SequenceServiceSuite) TestListSequences() {
	for _, series := range []string{"F001", "F002"} {
		_, err := s.service.CreateSequence(s.GetContext(), dto.CreateSequenceRequest{
			DocumentType: types.DocumentTypeFactura,
			Series:       series,
		})
		s.NoError(err)
	}
	_, err := s.service.CreateSequence(s.GetContext(), dto.CreateSequenceRequest{
		DocumentType: types.DocumentTypeBoleta,
		Series:       "B001",
	})
	s.NoError(err)

	resp, err := s.service.ListSequences(s.GetContext(), types.NewSequenceFilter())
	s.NoError(err)
	s.Len(resp.Items, 3)
	s.Equal(3, resp.Pagination.Total)

	filter := types.NewSequenceFilter()
	filter.DocumentType = types.DocumentTypeFactura
	resp, err = s.service.ListSequences(s.GetContext(), filter)
	s.NoError(err)
	s.Len(resp.Items, 2)
}

func (s *SequenceServiceSuite) TestManageRequiresPermission() {
	// Sales can read sequences but cannot create or deactivate them
	ctx := testutil.SetupContextWithRoles(types.UserRoleSales)

	_, err := s.service.CreateSequence(ctx, dto.CreateSequenceRequest{
		DocumentType: types.DocumentTypeFactura,
		Series:       "F001",
	})
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))

	_, err = s.service.CreateSequence(s.GetContext(), dto.CreateSequenceRequest{
		DocumentType: types.DocumentTypeFactura,
		Series:       "F001",
	})
	s.NoError(err)

	err = s.service.SetSequenceActive(ctx, types.DocumentTypeFactura, "F001", false)
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))

	_, err = s.service.GetSequence(ctx, types.DocumentTypeFactura, "F001")
	s.NoError(err)
}
