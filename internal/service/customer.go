package service

import (
	"context"

	"github.com/facturalo/facturalo/internal/api/dto"
	"github.com/facturalo/facturalo/internal/rbac"
	"github.com/facturalo/facturalo/internal/types"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error)
	UpdateCustomer(ctx context.Context, id string, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	DeleteCustomer(ctx context.Context, id string) error
	ListCustomers(ctx context.Context, filter *types.QueryFilter) (*dto.ListCustomersResponse, error)
}

type customerService struct {
	ServiceParams
}

func NewCustomerService(params ServiceParams) CustomerService {
	return &customerService{
		ServiceParams: params,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := rbac.Authorize(ctx, rbac.PermCustomerWrite); err != nil {
		return nil, err
	}

	cust := req.ToCustomer(ctx)
	if err := cust.Validate(); err != nil {
		return nil, err
	}
	if err := s.CustomerRepo.Create(ctx, cust); err != nil {
		return nil, err
	}
	return dto.NewCustomerResponse(cust), nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	if err := rbac.Authorize(ctx, rbac.PermCustomerRead); err != nil {
		return nil, err
	}

	cust, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewCustomerResponse(cust), nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id string, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := rbac.Authorize(ctx, rbac.PermCustomerWrite); err != nil {
		return nil, err
	}

	cust, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(cust)
	if err := cust.Validate(); err != nil {
		return nil, err
	}
	if err := s.CustomerRepo.Update(ctx, cust); err != nil {
		return nil, err
	}
	return dto.NewCustomerResponse(cust), nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	if err := rbac.Authorize(ctx, rbac.PermCustomerWrite); err != nil {
		return err
	}
	return s.CustomerRepo.Delete(ctx, id)
}

func (s *customerService) ListCustomers(ctx context.Context, filter *types.QueryFilter) (*dto.ListCustomersResponse, error) {
	if err := rbac.Authorize(ctx, rbac.PermCustomerRead); err != nil {
		return nil, err
	}

	if filter == nil {
		filter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	customers, err := s.CustomerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.CustomerRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.CustomerResponse, len(customers))
	for i, cust := range customers {
		items[i] = dto.NewCustomerResponse(cust)
	}

	response := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &response, nil
}
