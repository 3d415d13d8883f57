package product

import (
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/types"
	"github.com/shopspring/decimal"
)

// Product is a sellable item or service. UnitPrice and TaxRate are the
// defaults applied to a line at issuance time; the invoice line keeps its
// own snapshot so later product edits never change issued documents.
type Product struct {
	// ID is the unique identifier for the product
	ID string `db:"id" json:"id"`

	// Code is the seller's internal product code
	Code string `db:"code" json:"code"`

	// Description is the default line description
	Description string `db:"description" json:"description"`

	// UnitPrice is the default unit price before tax
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`

	// TaxRate is the default tax percentage, 18.00 for IGV
	TaxRate decimal.Decimal `db:"tax_rate" json:"tax_rate"`

	// UnitOfMeasure is the SUNAT catalog 03 unit code, NIU for units
	UnitOfMeasure string `db:"unit_of_measure" json:"unit_of_measure"`

	// Metadata
	Metadata types.Metadata `db:"metadata" json:"metadata"`

	types.BaseModel
}

func (p *Product) Validate() error {
	if p.Description == "" {
		return ierr.NewError("description is required").
			WithHint("Product description is required").
			Mark(ierr.ErrValidation)
	}
	if p.UnitPrice.IsNegative() {
		return ierr.NewError("unit price must not be negative").
			WithHint("Unit price must be zero or positive").
			WithReportableDetails(map[string]any{
				"unit_price": p.UnitPrice.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return ierr.NewError("tax rate must be between 0 and 100").
			WithHint("Tax rate is a percentage between 0 and 100").
			WithReportableDetails(map[string]any{
				"tax_rate": p.TaxRate.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
