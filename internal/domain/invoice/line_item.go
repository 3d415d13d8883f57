package invoice

import (
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/types"
	"github.com/shopspring/decimal"
)

// InvoiceLineItem represents a single priced line of an invoice. Line values
// are immutable once committed; TaxRate is the snapshot taken from the
// product at issuance time, never a live reference.
type InvoiceLineItem struct {
	ID             string          `db:"id" json:"id"`
	InvoiceID      string          `db:"invoice_id" json:"invoice_id"`
	ProductID      string          `db:"product_id" json:"product_id"`
	Description    string          `db:"description" json:"description"`
	Quantity       decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice      decimal.Decimal `db:"unit_price" json:"unit_price"`
	DiscountRate   decimal.Decimal `db:"discount_rate" json:"discount_rate"`
	TaxRate        decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	Subtotal       decimal.Decimal `db:"subtotal" json:"subtotal"`
	DiscountAmount decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	TaxAmount      decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	Total          decimal.Decimal `db:"total" json:"total"`
	types.BaseModel
}

// Validate validates the invoice line item
func (i *InvoiceLineItem) Validate() error {
	if i.ProductID == "" {
		return ierr.NewError("invoice line item validation failed").
			WithHint("product_id is required").
			Mark(ierr.ErrValidation)
	}

	if !i.Quantity.IsPositive() {
		return ierr.NewError("invoice line item validation failed").
			WithHint("quantity must be greater than zero").
			Mark(ierr.ErrValidation)
	}

	if i.UnitPrice.IsNegative() {
		return ierr.NewError("invoice line item validation failed").
			WithHint("unit price must be non negative").
			Mark(ierr.ErrValidation)
	}

	if i.Subtotal.IsNegative() || i.TaxAmount.IsNegative() || i.Total.IsNegative() {
		return ierr.NewError("invoice line item validation failed").
			WithHint("line amounts must be non negative").
			Mark(ierr.ErrValidation)
	}

	if !i.Subtotal.Add(i.TaxAmount).Equal(i.Total) {
		return ierr.NewError("invoice line item validation failed").
			WithHint("total must equal subtotal plus tax").
			Mark(ierr.ErrValidation)
	}

	return nil
}
