package dto

import (
	"context"

	"github.com/facturalo/facturalo/internal/domain/product"
	"github.com/facturalo/facturalo/internal/types"
	"github.com/facturalo/facturalo/internal/validator"
	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Code          string          `json:"code,omitempty" validate:"omitempty,max=50"`
	Description   string          `json:"description" validate:"required,max=500"`
	UnitPrice     decimal.Decimal `json:"unit_price" validate:"required"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	UnitOfMeasure string          `json:"unit_of_measure,omitempty" validate:"omitempty,max=10"`
	Metadata      types.Metadata  `json:"metadata,omitempty"`
}

type UpdateProductRequest struct {
	Code          *string          `json:"code,omitempty" validate:"omitempty,max=50"`
	Description   *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"`
	TaxRate       *decimal.Decimal `json:"tax_rate,omitempty"`
	UnitOfMeasure *string          `json:"unit_of_measure,omitempty" validate:"omitempty,max=10"`
	Metadata      types.Metadata   `json:"metadata,omitempty"`
}

type ProductResponse struct {
	*product.Product
}

func NewProductResponse(p *product.Product) *ProductResponse {
	return &ProductResponse{Product: p}
}

// ListProductsResponse represents the response for listing products
type ListProductsResponse = types.ListResponse[*ProductResponse]

func (r *CreateProductRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateProductRequest) ToProduct(ctx context.Context) *product.Product {
	unitOfMeasure := r.UnitOfMeasure
	if unitOfMeasure == "" {
		unitOfMeasure = "NIU"
	}
	return &product.Product{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRODUCT),
		Code:          r.Code,
		Description:   r.Description,
		UnitPrice:     r.UnitPrice,
		TaxRate:       r.TaxRate,
		UnitOfMeasure: unitOfMeasure,
		Metadata:      r.Metadata,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

func (r *UpdateProductRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// Apply copies the set fields onto the product
func (r *UpdateProductRequest) Apply(p *product.Product) {
	if r.Code != nil {
		p.Code = *r.Code
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.UnitPrice != nil {
		p.UnitPrice = *r.UnitPrice
	}
	if r.TaxRate != nil {
		p.TaxRate = *r.TaxRate
	}
	if r.UnitOfMeasure != nil {
		p.UnitOfMeasure = *r.UnitOfMeasure
	}
	if r.Metadata != nil {
		p.Metadata = r.Metadata
	}
}
