package types

import (
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/samber/lo"
)

// DocumentType identifies the kind of document being issued, following the
// SUNAT document catalog codes.
type DocumentType string

const (
	// DocumentTypeFactura is a full tax invoice (catalog code 01)
	DocumentTypeFactura DocumentType = "01"
	// DocumentTypeBoleta is a consumer receipt (catalog code 03)
	DocumentTypeBoleta DocumentType = "03"
	// DocumentTypeNotaCredito is a credit note (catalog code 07)
	DocumentTypeNotaCredito DocumentType = "07"
	// DocumentTypeNotaDebito is a debit note (catalog code 08)
	DocumentTypeNotaDebito DocumentType = "08"
)

func (t DocumentType) String() string {
	return string(t)
}

func (t DocumentType) Validate() error {
	allowed := []DocumentType{
		DocumentTypeFactura,
		DocumentTypeBoleta,
		DocumentTypeNotaCredito,
		DocumentTypeNotaDebito,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid document type").
			WithHint("Please provide a valid document type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceStatus represents the current state of an invoice in its lifecycle.
// Issuance always produces a draft invoice; later transitions are owned by
// the SUNAT integration.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusAccepted  InvoiceStatus = "accepted"
	InvoiceStatusRejected  InvoiceStatus = "rejected"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusSent,
		InvoiceStatusAccepted,
		InvoiceStatusRejected,
		InvoiceStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Please provide a valid invoice status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SunatStatus tracks the downstream submission state of an issued document.
// It is written exclusively by the SUNAT integration and never mutated by
// issuance.
type SunatStatus string

const (
	SunatStatusPending   SunatStatus = "pending"
	SunatStatusSubmitted SunatStatus = "submitted"
	SunatStatusAccepted  SunatStatus = "accepted"
	SunatStatusRejected  SunatStatus = "rejected"
)

func (s SunatStatus) String() string {
	return string(s)
}

// InvoiceFilter represents filters for invoice queries
type InvoiceFilter struct {
	*QueryFilter
	*TimeRangeFilter

	InvoiceIDs    []string        `json:"invoice_ids,omitempty" form:"invoice_ids"`
	CustomerID    string          `json:"customer_id,omitempty" form:"customer_id"`
	DocumentType  DocumentType    `json:"document_type,omitempty" form:"document_type"`
	Series        string          `json:"series,omitempty" form:"series"`
	InvoiceStatus []InvoiceStatus `json:"invoice_status,omitempty" form:"invoice_status"`
}

func NewInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func (f *InvoiceFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return ierr.WithError(err).
				WithHint("invalid pagination parameters").
				Mark(ierr.ErrValidation)
		}
	}
	if f.TimeRangeFilter != nil {
		if err := f.TimeRangeFilter.Validate(); err != nil {
			return ierr.WithError(err).
				WithHint("invalid time range").
				Mark(ierr.ErrValidation)
		}
	}
	if f.DocumentType != "" {
		if err := f.DocumentType.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (f *InvoiceFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

func (f *InvoiceFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOffset()
	}
	return f.QueryFilter.GetOffset()
}
