package invoice

import (
	"testing"

	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateLine(t *testing.T) {
	testCases := []struct {
		name         string
		quantity     string
		unitPrice    string
		discountRate string
		taxRate      string
		subtotal     string
		discount     string
		tax          string
		total        string
	}{
		{
			name:         "discounted_line_with_igv",
			quantity:     "3",
			unitPrice:    "10.00",
			discountRate: "5",
			taxRate:      "18",
			subtotal:     "28.50",
			discount:     "1.50",
			tax:          "5.13",
			total:        "33.63",
		},
		{
			name:         "no_discount_no_tax",
			quantity:     "2",
			unitPrice:    "50.00",
			discountRate: "0",
			taxRate:      "0",
			subtotal:     "100.00",
			discount:     "0.00",
			tax:          "0.00",
			total:        "100.00",
		},
		{
			name:         "fractional_quantity",
			quantity:     "1.5",
			unitPrice:    "7.33",
			discountRate: "0",
			taxRate:      "18",
			subtotal:     "11.00",
			discount:     "0.00",
			tax:          "1.98",
			total:        "12.98",
		},
		{
			name:         "tax_rounds_half_up",
			quantity:     "1",
			unitPrice:    "10.25",
			discountRate: "0",
			taxRate:      "18",
			// 10.25 * 0.18 = 1.845, half up to 1.85
			subtotal: "10.25",
			discount: "0.00",
			tax:      "1.85",
			total:    "12.10",
		},
		{
			name:         "base_rounds_half_up",
			quantity:     "3",
			unitPrice:    "10.025",
			discountRate: "0",
			taxRate:      "18",
			// 30.075 rounds to 30.08, tax on the rounded base
			subtotal: "30.08",
			discount: "0.00",
			tax:      "5.41",
			total:    "35.49",
		},
		{
			name:         "full_discount",
			quantity:     "4",
			unitPrice:    "25.00",
			discountRate: "100",
			taxRate:      "18",
			subtotal:     "0.00",
			discount:     "100.00",
			tax:          "0.00",
			total:        "0.00",
		},
		{
			name:         "zero_price",
			quantity:     "10",
			unitPrice:    "0",
			discountRate: "0",
			taxRate:      "18",
			subtotal:     "0.00",
			discount:     "0.00",
			tax:          "0.00",
			total:        "0.00",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			amounts, err := CalculateLine(d(tc.quantity), d(tc.unitPrice), d(tc.discountRate), d(tc.taxRate))
			require.NoError(t, err)

			assert.True(t, d(tc.subtotal).Equal(amounts.Subtotal), "subtotal: want %s got %s", tc.subtotal, amounts.Subtotal)
			assert.True(t, d(tc.discount).Equal(amounts.DiscountAmount), "discount: want %s got %s", tc.discount, amounts.DiscountAmount)
			assert.True(t, d(tc.tax).Equal(amounts.TaxAmount), "tax: want %s got %s", tc.tax, amounts.TaxAmount)
			assert.True(t, d(tc.total).Equal(amounts.Total), "total: want %s got %s", tc.total, amounts.Total)

			// The line invariant must hold exactly
			assert.True(t, amounts.Subtotal.Add(amounts.TaxAmount).Equal(amounts.Total))
		})
	}
}

func TestCalculateLineInvalidInput(t *testing.T) {
	testCases := []struct {
		name         string
		quantity     string
		unitPrice    string
		discountRate string
		taxRate      string
	}{
		{name: "zero_quantity", quantity: "0", unitPrice: "10", discountRate: "0", taxRate: "18"},
		{name: "negative_quantity", quantity: "-1", unitPrice: "10", discountRate: "0", taxRate: "18"},
		{name: "negative_price", quantity: "1", unitPrice: "-10", discountRate: "0", taxRate: "18"},
		{name: "negative_discount", quantity: "1", unitPrice: "10", discountRate: "-5", taxRate: "18"},
		{name: "discount_over_100", quantity: "1", unitPrice: "10", discountRate: "101", taxRate: "18"},
		{name: "negative_tax", quantity: "1", unitPrice: "10", discountRate: "0", taxRate: "-18"},
		{name: "tax_over_100", quantity: "1", unitPrice: "10", discountRate: "0", taxRate: "200"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CalculateLine(d(tc.quantity), d(tc.unitPrice), d(tc.discountRate), d(tc.taxRate))
			require.Error(t, err)
			assert.True(t, ierr.IsValidation(err))
		})
	}
}

func TestSumLines(t *testing.T) {
	// Totals must be sums of already-rounded line values. Each of these
	// lines rounds individually; a re-rounding of the raw sum would give
	// a different result.
	lineA, err := CalculateLine(d("1"), d("10.004"), d("0"), d("18"))
	require.NoError(t, err)
	lineB, err := CalculateLine(d("1"), d("10.004"), d("0"), d("18"))
	require.NoError(t, err)

	totals := SumLines([]LineAmounts{lineA, lineB})

	// Each base rounds to 10.00; raw 20.008 would have rounded to 20.01
	assert.True(t, d("20.00").Equal(totals.Subtotal), "got %s", totals.Subtotal)
	assert.True(t, d("3.60").Equal(totals.TaxAmount), "got %s", totals.TaxAmount)
	assert.True(t, d("23.60").Equal(totals.Total), "got %s", totals.Total)
	assert.True(t, totals.Subtotal.Add(totals.TaxAmount).Equal(totals.Total))
}

func TestSumLinesEmpty(t *testing.T) {
	totals := SumLines(nil)
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.Total.IsZero())
}
