package testutil

import (
	"context"
	"fmt"

	"github.com/facturalo/facturalo/internal/domain/customer"
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/types"
)

// InMemoryCustomerStore implements customer.Repository
type InMemoryCustomerStore struct {
	*InMemoryStore[*customer.Customer]
}

// NewInMemoryCustomerStore creates a new in-memory customer store
func NewInMemoryCustomerStore() *InMemoryCustomerStore {
	return &InMemoryCustomerStore{
		InMemoryStore: NewInMemoryStore[*customer.Customer](),
	}
}

func copyCustomer(c *customer.Customer) *customer.Customer {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

func (s *InMemoryCustomerStore) Create(ctx context.Context, c *customer.Customer) error {
	if c == nil {
		return fmt.Errorf("customer cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, c.ID, copyCustomer(c))
}

func (s *InMemoryCustomerStore) Get(ctx context.Context, id string) (*customer.Customer, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || c.TenantID != types.GetTenantID(ctx) || c.Status == types.StatusDeleted {
		return nil, ierr.NewError("customer not found").
			WithHintf("Customer with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyCustomer(c), nil
}

func (s *InMemoryCustomerStore) Update(ctx context.Context, c *customer.Customer) error {
	if _, err := s.Get(ctx, c.ID); err != nil {
		return err
	}
	return s.InMemoryStore.Update(ctx, c.ID, copyCustomer(c))
}

func (s *InMemoryCustomerStore) Delete(ctx context.Context, id string) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	c.Status = types.StatusDeleted
	return s.InMemoryStore.Update(ctx, id, c)
}

func (s *InMemoryCustomerStore) List(ctx context.Context, filter *types.QueryFilter) ([]*customer.Customer, error) {
	return s.InMemoryStore.List(ctx, filter, customerFilterFn, customerSortFn)
}

func (s *InMemoryCustomerStore) Count(ctx context.Context, filter *types.QueryFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, customerFilterFn)
}

func customerFilterFn(ctx context.Context, c *customer.Customer, _ interface{}) bool {
	return c.TenantID == types.GetTenantID(ctx) && c.Status != types.StatusDeleted
}

func customerSortFn(i, j *customer.Customer) bool {
	return i.CreatedAt.After(j.CreatedAt)
}

func (s *InMemoryCustomerStore) SnapshotState() any {
	return s.Snapshot()
}

func (s *InMemoryCustomerStore) RestoreState(snapshot any) {
	if items, ok := snapshot.(map[string]*customer.Customer); ok {
		s.Restore(items)
	}
}
