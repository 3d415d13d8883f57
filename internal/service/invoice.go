package service

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/facturalo/facturalo/internal/api/dto"
	"github.com/facturalo/facturalo/internal/domain/invoice"
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/rbac"
	"github.com/facturalo/facturalo/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const defaultCurrency = "PEN"

type InvoiceService interface {
	// CreateInvoice issues a new invoice. The whole issuance runs in one
	// database transaction: sequence allocation, number formatting and
	// persistence of the header and line items commit together or not at
	// all, so no correlative is ever burned on a failed issuance.
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := rbac.Authorize(ctx, rbac.PermInvoiceCreate); err != nil {
		return nil, err
	}

	var inv *invoice.Invoice
	issue := func() error {
		var err error
		inv, err = s.issueInTx(ctx, req)
		if err != nil {
			// Version conflicts mean another issuance raced us on the
			// same sequence; a fresh attempt re-reads the counter.
			// Everything else is final.
			if ierr.IsVersionConflict(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.Config.Issuance.MaxRetries),
		ctx,
	)
	if err := backoff.Retry(issue, bo); err != nil {
		return nil, err
	}

	s.Logger.Infow("issued invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"customer_id", inv.CustomerID,
		"total_amount", inv.TotalAmount,
	)

	return dto.NewInvoiceResponse(inv), nil
}

// issueInTx runs one issuance attempt inside a transaction
func (s *invoiceService) issueInTx(ctx context.Context, req dto.CreateInvoiceRequest) (*invoice.Invoice, error) {
	var inv *invoice.Invoice

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		cust, err := s.CustomerRepo.Get(ctx, req.CustomerID)
		if err != nil {
			return err
		}

		lineItems, totals, err := s.buildLineItems(ctx, req.LineItems)
		if err != nil {
			return err
		}

		// Lock the sequence row for the remainder of the transaction so
		// concurrent issuances on the same series serialize here.
		seq, err := s.SequenceRepo.GetForUpdate(ctx, req.DocumentType, req.Series)
		if err != nil {
			return err
		}
		if !seq.IsActive {
			return ierr.NewError("sequence is not active").
				WithHintf("Series %s for document type %s is not accepting issuances", seq.Series, seq.DocumentType).
				WithReportableDetails(map[string]any{
					"document_type": seq.DocumentType,
					"series":        seq.Series,
				}).
				Mark(ierr.ErrSequenceInactive)
		}

		correlative := seq.CurrentNumber + 1
		if err := s.SequenceRepo.SetCurrentNumber(ctx, seq.ID, seq.CurrentNumber, correlative); err != nil {
			return err
		}

		issueDate := time.Now().UTC()
		if req.IssueDate != nil {
			issueDate = *req.IssueDate
		}

		currency := req.Currency
		if currency == "" {
			currency = defaultCurrency
		}
		exchangeRate := decimal.NewFromInt(1)
		if req.ExchangeRate != nil {
			exchangeRate = *req.ExchangeRate
		}

		inv = &invoice.Invoice{
			ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
			CustomerID:     cust.ID,
			DocumentType:   req.DocumentType,
			Series:         seq.Series,
			Correlative:    correlative,
			InvoiceNumber:  seq.FormatNumber(correlative),
			Currency:       currency,
			ExchangeRate:   exchangeRate,
			IssueDate:      issueDate,
			DueDate:        req.DueDate,
			Notes:          req.Notes,
			Subtotal:       totals.Subtotal,
			DiscountAmount: totals.DiscountAmount,
			TaxAmount:      totals.TaxAmount,
			TotalAmount:    totals.Total,
			InvoiceStatus:  types.InvoiceStatusDraft,
			SunatStatus:    types.SunatStatusPending,
			Metadata:       req.Metadata,
			BaseModel:      types.GetDefaultBaseModel(ctx),
		}
		for _, item := range lineItems {
			item.InvoiceID = inv.ID
		}
		inv.LineItems = lineItems

		if err := inv.Validate(); err != nil {
			return err
		}

		return s.InvoiceRepo.CreateWithLineItems(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// buildLineItems resolves products, applies overrides and computes line
// amounts. The product's price and tax rate are snapshotted onto the line
// so later product edits never change an issued document.
func (s *invoiceService) buildLineItems(ctx context.Context, reqItems []dto.CreateInvoiceLineItemRequest) ([]*invoice.InvoiceLineItem, invoice.Totals, error) {
	lineItems := make([]*invoice.InvoiceLineItem, 0, len(reqItems))
	amounts := make([]invoice.LineAmounts, 0, len(reqItems))

	for _, reqItem := range reqItems {
		prod, err := s.ProductRepo.Get(ctx, reqItem.ProductID)
		if err != nil {
			return nil, invoice.Totals{}, err
		}

		unitPrice := prod.UnitPrice
		if reqItem.UnitPrice != nil {
			unitPrice = *reqItem.UnitPrice
		}
		// The tax rate is never caller-supplied; the product's current
		// rate is the only source and is frozen onto the line.
		taxRate := prod.TaxRate
		discountRate := lo.FromPtrOr(reqItem.DiscountRate, decimal.Zero)
		description := prod.Description
		if reqItem.Description != nil {
			description = *reqItem.Description
		}

		lineAmounts, err := invoice.CalculateLine(reqItem.Quantity, unitPrice, discountRate, taxRate)
		if err != nil {
			return nil, invoice.Totals{}, err
		}

		lineItems = append(lineItems, &invoice.InvoiceLineItem{
			ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
			ProductID:      prod.ID,
			Description:    description,
			Quantity:       reqItem.Quantity,
			UnitPrice:      unitPrice,
			DiscountRate:   discountRate,
			TaxRate:        taxRate,
			Subtotal:       lineAmounts.Subtotal,
			DiscountAmount: lineAmounts.DiscountAmount,
			TaxAmount:      lineAmounts.TaxAmount,
			Total:          lineAmounts.Total,
			BaseModel:      types.GetDefaultBaseModel(ctx),
		})
		amounts = append(amounts, lineAmounts)
	}

	return lineItems, invoice.SumLines(amounts), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	if err := rbac.Authorize(ctx, rbac.PermInvoiceRead); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if err := rbac.Authorize(ctx, rbac.PermInvoiceRead); err != nil {
		return nil, err
	}

	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		items[i] = dto.NewInvoiceResponse(inv)
	}

	response := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &response, nil
}
