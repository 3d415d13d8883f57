package customer

import (
	"context"

	"github.com/facturalo/facturalo/internal/types"
)

// Repository defines the interface for customer persistence operations
type Repository interface {
	Create(ctx context.Context, customer *Customer) error
	Get(ctx context.Context, id string) (*Customer, error)
	Update(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *types.QueryFilter) ([]*Customer, error)
	Count(ctx context.Context, filter *types.QueryFilter) (int, error)
}
