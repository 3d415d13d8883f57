package invoice

import (
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineAmounts holds the computed monetary values for a single line.
// Subtotal is the net base after discount, rounded to 2 decimal places;
// TaxAmount is computed on that rounded base and rounded again; Total is
// the exact sum of the two already-rounded values.
type LineAmounts struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
}

// Totals holds invoice-level aggregates. They are arithmetic sums of
// already-rounded per-line values, never a re-rounding of summed raw values,
// so no single line can be disputed over cent drift.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
}

// CalculateLine computes the monetary values for one line. Rounding is
// half-up at 2 decimal places and applied exactly once per quantity:
// once to the net base, once to the tax.
func CalculateLine(quantity, unitPrice, discountRate, taxRate decimal.Decimal) (LineAmounts, error) {
	if err := validateLineInput(quantity, unitPrice, discountRate, taxRate); err != nil {
		return LineAmounts{}, err
	}

	gross := quantity.Mul(unitPrice)
	discount := gross.Mul(discountRate).Div(hundred)
	netBase := gross.Sub(discount).Round(2)
	tax := netBase.Mul(taxRate).Div(hundred).Round(2)

	return LineAmounts{
		Subtotal:       netBase,
		DiscountAmount: discount.Round(2),
		TaxAmount:      tax,
		Total:          netBase.Add(tax),
	}, nil
}

// SumLines aggregates already-rounded line amounts into invoice totals
func SumLines(lines []LineAmounts) Totals {
	totals := Totals{
		Subtotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		TaxAmount:      decimal.Zero,
		Total:          decimal.Zero,
	}
	for _, line := range lines {
		totals.Subtotal = totals.Subtotal.Add(line.Subtotal)
		totals.DiscountAmount = totals.DiscountAmount.Add(line.DiscountAmount)
		totals.TaxAmount = totals.TaxAmount.Add(line.TaxAmount)
		totals.Total = totals.Total.Add(line.Total)
	}
	return totals
}

func validateLineInput(quantity, unitPrice, discountRate, taxRate decimal.Decimal) error {
	if !quantity.IsPositive() {
		return ierr.NewError("invalid line input").
			WithHint("quantity must be greater than zero").
			WithReportableDetails(map[string]any{
				"quantity": quantity.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if unitPrice.IsNegative() {
		return ierr.NewError("invalid line input").
			WithHint("unit price must be non negative").
			WithReportableDetails(map[string]any{
				"unit_price": unitPrice.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if discountRate.IsNegative() || discountRate.GreaterThan(hundred) {
		return ierr.NewError("invalid line input").
			WithHint("discount rate must be between 0 and 100").
			WithReportableDetails(map[string]any{
				"discount_rate": discountRate.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(hundred) {
		return ierr.NewError("invalid line input").
			WithHint("tax rate must be between 0 and 100").
			WithReportableDetails(map[string]any{
				"tax_rate": taxRate.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
