package invoice

import (
	"time"

	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice represents an issued document header. It is created exactly once
// by the issuance transaction and never re-numbered. The tuple
// (tenant, document_type, series, correlative) is unique across the system.
type Invoice struct {
	ID             string              `db:"id" json:"id"`
	CustomerID     string              `db:"customer_id" json:"customer_id"`
	DocumentType   types.DocumentType  `db:"document_type" json:"document_type"`
	Series         string              `db:"series" json:"series"`
	Correlative    int64               `db:"correlative" json:"correlative"`
	InvoiceNumber  string              `db:"invoice_number" json:"invoice_number"`
	Currency       string              `db:"currency" json:"currency"`
	ExchangeRate   decimal.Decimal     `db:"exchange_rate" json:"exchange_rate"`
	IssueDate      time.Time           `db:"issue_date" json:"issue_date"`
	DueDate        *time.Time          `db:"due_date" json:"due_date,omitempty"`
	Notes          string              `db:"notes" json:"notes,omitempty"`
	Subtotal       decimal.Decimal     `db:"subtotal" json:"subtotal"`
	DiscountAmount decimal.Decimal     `db:"discount_amount" json:"discount_amount"`
	TaxAmount      decimal.Decimal     `db:"tax_amount" json:"tax_amount"`
	TotalAmount    decimal.Decimal     `db:"total_amount" json:"total_amount"`
	InvoiceStatus  types.InvoiceStatus `db:"invoice_status" json:"invoice_status"`
	SunatStatus    types.SunatStatus   `db:"sunat_status" json:"sunat_status"`
	Metadata       types.Metadata      `db:"metadata" json:"metadata,omitempty"`
	LineItems      []*InvoiceLineItem  `json:"line_items,omitempty"`
	types.BaseModel
}

// Validate validates the invoice and its line items
func (i *Invoice) Validate() error {
	if err := i.DocumentType.Validate(); err != nil {
		return err
	}

	if i.CustomerID == "" {
		return ierr.NewError("invoice validation failed").
			WithHint("customer_id is required").
			Mark(ierr.ErrValidation)
	}

	if i.Correlative <= 0 {
		return ierr.NewError("invoice validation failed").
			WithHint("correlative must be positive").
			Mark(ierr.ErrValidation)
	}

	if i.Subtotal.IsNegative() || i.TaxAmount.IsNegative() || i.TotalAmount.IsNegative() {
		return ierr.NewError("invoice validation failed").
			WithHint("amounts must be non negative").
			Mark(ierr.ErrValidation)
	}

	// discount is already netted into subtotal, so the invariant is
	// total == subtotal + tax
	if !i.Subtotal.Add(i.TaxAmount).Equal(i.TotalAmount) {
		return ierr.NewError("invoice validation failed").
			WithHint("total_amount must equal subtotal plus tax_amount").
			WithReportableDetails(map[string]any{
				"subtotal":     i.Subtotal.String(),
				"tax_amount":   i.TaxAmount.String(),
				"total_amount": i.TotalAmount.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	if i.DueDate != nil && i.DueDate.Before(i.IssueDate) {
		return ierr.NewError("invoice validation failed").
			WithHint("due_date must not be before issue_date").
			Mark(ierr.ErrValidation)
	}

	if len(i.LineItems) == 0 {
		return ierr.NewError("invoice validation failed").
			WithHint("invoice must have at least one line item").
			Mark(ierr.ErrValidation)
	}

	for _, item := range i.LineItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	return nil
}
