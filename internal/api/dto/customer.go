package dto

import (
	"context"

	"github.com/facturalo/facturalo/internal/domain/customer"
	"github.com/facturalo/facturalo/internal/types"
	"github.com/facturalo/facturalo/internal/validator"
)

type CreateCustomerRequest struct {
	IdentityType   customer.IdentityType `json:"identity_type" validate:"required"`
	IdentityNumber string                `json:"identity_number" validate:"required,max=15"`
	LegalName      string                `json:"legal_name" validate:"required,max=255"`
	TradeName      string                `json:"trade_name,omitempty" validate:"omitempty,max=255"`
	Email          string                `json:"email,omitempty" validate:"omitempty,email"`
	Address        string                `json:"address,omitempty" validate:"omitempty,max=500"`
	Metadata       types.Metadata        `json:"metadata,omitempty"`
}

type UpdateCustomerRequest struct {
	IdentityType   *customer.IdentityType `json:"identity_type,omitempty"`
	IdentityNumber *string                `json:"identity_number,omitempty" validate:"omitempty,max=15"`
	LegalName      *string                `json:"legal_name,omitempty" validate:"omitempty,max=255"`
	TradeName      *string                `json:"trade_name,omitempty" validate:"omitempty,max=255"`
	Email          *string                `json:"email,omitempty" validate:"omitempty,email"`
	Address        *string                `json:"address,omitempty" validate:"omitempty,max=500"`
	Metadata       types.Metadata         `json:"metadata,omitempty"`
}

type CustomerResponse struct {
	*customer.Customer
}

func NewCustomerResponse(c *customer.Customer) *CustomerResponse {
	return &CustomerResponse{Customer: c}
}

// ListCustomersResponse represents the response for listing customers
type ListCustomersResponse = types.ListResponse[*CustomerResponse]

func (r *CreateCustomerRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.IdentityType.Validate()
}

func (r *CreateCustomerRequest) ToCustomer(ctx context.Context) *customer.Customer {
	return &customer.Customer{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CUSTOMER),
		IdentityType:   r.IdentityType,
		IdentityNumber: r.IdentityNumber,
		LegalName:      r.LegalName,
		TradeName:      r.TradeName,
		Email:          r.Email,
		Address:        r.Address,
		Metadata:       r.Metadata,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
}

func (r *UpdateCustomerRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.IdentityType != nil {
		return r.IdentityType.Validate()
	}
	return nil
}

// Apply copies the set fields onto the customer
func (r *UpdateCustomerRequest) Apply(c *customer.Customer) {
	if r.IdentityType != nil {
		c.IdentityType = *r.IdentityType
	}
	if r.IdentityNumber != nil {
		c.IdentityNumber = *r.IdentityNumber
	}
	if r.LegalName != nil {
		c.LegalName = *r.LegalName
	}
	if r.TradeName != nil {
		c.TradeName = *r.TradeName
	}
	if r.Email != nil {
		c.Email = *r.Email
	}
	if r.Address != nil {
		c.Address = *r.Address
	}
	if r.Metadata != nil {
		c.Metadata = r.Metadata
	}
}
