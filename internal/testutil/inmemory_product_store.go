package testutil

import (
	"context"
	"fmt"

	"github.com/facturalo/facturalo/internal/domain/product"
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/types"
)

// InMemoryProductStore implements product.Repository
type InMemoryProductStore struct {
	*InMemoryStore[*product.Product]
}

// NewInMemoryProductStore creates a new in-memory product store
func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{
		InMemoryStore: NewInMemoryStore[*product.Product](),
	}
}

func copyProduct(p *product.Product) *product.Product {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

func (s *InMemoryProductStore) Create(ctx context.Context, p *product.Product) error {
	if p == nil {
		return fmt.Errorf("product cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, p.ID, copyProduct(p))
}

func (s *InMemoryProductStore) Get(ctx context.Context, id string) (*product.Product, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || p.TenantID != types.GetTenantID(ctx) || p.Status == types.StatusDeleted {
		return nil, ierr.NewError("product not found").
			WithHintf("Product with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyProduct(p), nil
}

func (s *InMemoryProductStore) Update(ctx context.Context, p *product.Product) error {
	if _, err := s.Get(ctx, p.ID); err != nil {
		return err
	}
	return s.InMemoryStore.Update(ctx, p.ID, copyProduct(p))
}

func (s *InMemoryProductStore) Delete(ctx context.Context, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	p.Status = types.StatusDeleted
	return s.InMemoryStore.Update(ctx, id, p)
}

func (s *InMemoryProductStore) List(ctx context.Context, filter *types.QueryFilter) ([]*product.Product, error) {
	return s.InMemoryStore.List(ctx, filter, productFilterFn, productSortFn)
}

func (s *InMemoryProductStore) Count(ctx context.Context, filter *types.QueryFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, productFilterFn)
}

func productFilterFn(ctx context.Context, p *product.Product, _ interface{}) bool {
	return p.TenantID == types.GetTenantID(ctx) && p.Status != types.StatusDeleted
}

func productSortFn(i, j *product.Product) bool {
	return i.CreatedAt.After(j.CreatedAt)
}

func (s *InMemoryProductStore) SnapshotState() any {
	return s.Snapshot()
}

func (s *InMemoryProductStore) RestoreState(snapshot any) {
	if items, ok := snapshot.(map[string]*product.Product); ok {
		s.Restore(items)
	}
}
