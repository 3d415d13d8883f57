package testutil

import (
	"context"
	"fmt"

	"github.com/facturalo/facturalo/internal/domain/invoice"
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/types"
	"github.com/samber/lo"
)

// InMemoryInvoiceStore implements invoice.Repository
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]

	// createErr, when set, fails the next create. Used to exercise the
	// all-or-nothing issuance path.
	createErr error
}

// NewInMemoryInvoiceStore creates a new in-memory invoice store
func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

// FailNextCreate makes the next CreateWithLineItems call return err
func (s *InMemoryInvoiceStore) FailNextCreate(err error) {
	s.createErr = err
}

func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}
	out := *inv
	if len(inv.LineItems) > 0 {
		out.LineItems = make([]*invoice.InvoiceLineItem, len(inv.LineItems))
		for i, item := range inv.LineItems {
			itemCopy := *item
			out.LineItems[i] = &itemCopy
		}
	}
	return &out
}

func (s *InMemoryInvoiceStore) CreateWithLineItems(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return fmt.Errorf("invoice cannot be nil")
	}
	if s.createErr != nil {
		err := s.createErr
		s.createErr = nil
		return err
	}

	// Enforce the correlative uniqueness guard the database index provides
	existing, _ := s.InMemoryStore.List(ctx, nil, nil, nil)
	for _, other := range existing {
		if other.TenantID == inv.TenantID &&
			other.DocumentType == inv.DocumentType &&
			other.Series == inv.Series &&
			other.Correlative == inv.Correlative {
			return ierr.NewError("duplicate correlative").
				WithHint("An invoice with this number was issued concurrently").
				Mark(ierr.ErrVersionConflict)
		}
	}

	return s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv))
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || inv.TenantID != types.GetTenantID(ctx) || inv.Status == types.StatusDeleted {
		return nil, ierr.NewError("invoice not found").
			WithHintf("Invoice with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	invoices, err := s.InMemoryStore.List(ctx, filter, invoiceFilterFn, invoiceSortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(invoices, func(inv *invoice.Invoice, _ int) *invoice.Invoice {
		return copyInvoice(inv)
	}), nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, invoiceFilterFn)
}

func invoiceFilterFn(ctx context.Context, inv *invoice.Invoice, filter interface{}) bool {
	if inv.TenantID != types.GetTenantID(ctx) || inv.Status == types.StatusDeleted {
		return false
	}

	f, ok := filter.(*types.InvoiceFilter)
	if !ok || f == nil {
		return true
	}
	if len(f.InvoiceIDs) > 0 && !lo.Contains(f.InvoiceIDs, inv.ID) {
		return false
	}
	if f.CustomerID != "" && inv.CustomerID != f.CustomerID {
		return false
	}
	if f.DocumentType != "" && inv.DocumentType != f.DocumentType {
		return false
	}
	if f.Series != "" && inv.Series != f.Series {
		return false
	}
	if len(f.InvoiceStatus) > 0 && !lo.Contains(f.InvoiceStatus, inv.InvoiceStatus) {
		return false
	}
	if f.TimeRangeFilter != nil {
		if f.StartTime != nil && inv.IssueDate.Before(*f.StartTime) {
			return false
		}
		if f.EndTime != nil && inv.IssueDate.After(*f.EndTime) {
			return false
		}
	}
	return true
}

func invoiceSortFn(i, j *invoice.Invoice) bool {
	return i.CreatedAt.After(j.CreatedAt)
}

func (s *InMemoryInvoiceStore) SnapshotState() any {
	return s.Snapshot()
}

func (s *InMemoryInvoiceStore) RestoreState(snapshot any) {
	if items, ok := snapshot.(map[string]*invoice.Invoice); ok {
		s.Restore(items)
	}
}
