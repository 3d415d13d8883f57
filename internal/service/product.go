package service

import (
	"context"

	"github.com/facturalo/facturalo/internal/api/dto"
	"github.com/facturalo/facturalo/internal/rbac"
	"github.com/facturalo/facturalo/internal/types"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error)
	UpdateProduct(ctx context.Context, id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context, filter *types.QueryFilter) (*dto.ListProductsResponse, error)
}

type productService struct {
	ServiceParams
}

func NewProductService(params ServiceParams) ProductService {
	return &productService{
		ServiceParams: params,
	}
}

func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := rbac.Authorize(ctx, rbac.PermProductWrite); err != nil {
		return nil, err
	}

	prod := req.ToProduct(ctx)
	if err := prod.Validate(); err != nil {
		return nil, err
	}
	if err := s.ProductRepo.Create(ctx, prod); err != nil {
		return nil, err
	}
	return dto.NewProductResponse(prod), nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	if err := rbac.Authorize(ctx, rbac.PermProductRead); err != nil {
		return nil, err
	}

	prod, err := s.ProductRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewProductResponse(prod), nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := rbac.Authorize(ctx, rbac.PermProductWrite); err != nil {
		return nil, err
	}

	prod, err := s.ProductRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(prod)
	if err := prod.Validate(); err != nil {
		return nil, err
	}
	if err := s.ProductRepo.Update(ctx, prod); err != nil {
		return nil, err
	}
	return dto.NewProductResponse(prod), nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	if err := rbac.Authorize(ctx, rbac.PermProductWrite); err != nil {
		return err
	}
	return s.ProductRepo.Delete(ctx, id)
}

func (s *productService) ListProducts(ctx context.Context, filter *types.QueryFilter) (*dto.ListProductsResponse, error) {
	if err := rbac.Authorize(ctx, rbac.PermProductRead); err != nil {
		return nil, err
	}

	if filter == nil {
		filter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	products, err := s.ProductRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.ProductRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ProductResponse, len(products))
	for i, prod := range products {
		items[i] = dto.NewProductResponse(prod)
	}

	response := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &response, nil
}
