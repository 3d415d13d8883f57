package dto

import (
	"time"

	"github.com/facturalo/facturalo/internal/domain/invoice"
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/types"
	"github.com/facturalo/facturalo/internal/validator"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest represents the request payload for issuing an invoice
type CreateInvoiceRequest struct {
	// customer_id is the unique identifier of the customer being billed
	CustomerID string `json:"customer_id" validate:"required"`

	// document_type is the SUNAT catalog code of the document to issue
	DocumentType types.DocumentType `json:"document_type" validate:"required"`

	// series is the numbering series to draw the correlative from, e.g. F001
	Series string `json:"series" validate:"required"`

	// currency is the three-letter ISO currency code, defaults to PEN
	Currency string `json:"currency,omitempty" validate:"omitempty,len=3"`

	// exchange_rate is the informational PEN exchange rate for foreign
	// currency documents
	ExchangeRate *decimal.Decimal `json:"exchange_rate,omitempty"`

	// issue_date is the issuance date, defaults to the current time
	IssueDate *time.Time `json:"issue_date,omitempty"`

	// due_date is the optional payment due date
	DueDate *time.Time `json:"due_date,omitempty"`

	// notes is optional free text printed on the document
	Notes string `json:"notes,omitempty"`

	// line_items are the priced lines of the invoice
	LineItems []CreateInvoiceLineItemRequest `json:"line_items" validate:"required,min=1,dive"`

	// metadata contains additional custom key-value pairs
	Metadata types.Metadata `json:"metadata,omitempty"`
}

// CreateInvoiceLineItemRequest represents one line of an issuance request.
// Description and unit price default to the referenced product's values; an
// explicit value overrides the default and is snapshotted onto the line. The
// tax rate always comes from the product, callers never set it.
type CreateInvoiceLineItemRequest struct {
	// product_id is the unique identifier of the product being sold
	ProductID string `json:"product_id" validate:"required"`

	// description overrides the product description when set
	Description *string `json:"description,omitempty"`

	// quantity is the number of units, must be greater than zero
	Quantity decimal.Decimal `json:"quantity" validate:"required"`

	// unit_price overrides the product unit price when set
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`

	// discount_rate is the percentage discount applied to this line
	DiscountRate *decimal.Decimal `json:"discount_rate,omitempty"`
}

func (r *CreateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if err := r.DocumentType.Validate(); err != nil {
		return err
	}

	if r.ExchangeRate != nil && !r.ExchangeRate.IsPositive() {
		return ierr.NewError("invalid exchange rate").
			WithHint("Exchange rate must be greater than zero").
			Mark(ierr.ErrValidation)
	}

	for _, item := range r.LineItems {
		if !item.Quantity.IsPositive() {
			return ierr.NewError("invalid line item").
				WithHint("Quantity must be greater than zero").
				WithReportableDetails(map[string]any{
					"product_id": item.ProductID,
					"quantity":   item.Quantity.String(),
				}).
				Mark(ierr.ErrValidation)
		}
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			return ierr.NewError("invalid line item").
				WithHint("Unit price must not be negative").
				WithReportableDetails(map[string]any{
					"product_id": item.ProductID,
				}).
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	*invoice.Invoice
}

func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	return &InvoiceResponse{Invoice: inv}
}

// ListInvoicesResponse represents the response for listing invoices
type ListInvoicesResponse = types.ListResponse[*InvoiceResponse]
