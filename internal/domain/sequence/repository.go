package sequence

import (
	"context"

	"github.com/facturalo/facturalo/internal/types"
)

// Repository defines the interface for document sequence persistence
// operations. All lookups are scoped to the tenant in the context.
type Repository interface {
	// Create creates a new sequence; the (tenant, document type, series)
	// key is unique and a duplicate fails with an already-exists error
	Create(ctx context.Context, seq *DocumentSequence) error

	// Get retrieves a sequence by its natural key
	Get(ctx context.Context, docType types.DocumentType, series string) (*DocumentSequence, error)

	// GetForUpdate retrieves a sequence by its natural key holding an
	// exclusive row lock for the remainder of the surrounding transaction.
	// Must only be called inside a transaction.
	GetForUpdate(ctx context.Context, docType types.DocumentType, series string) (*DocumentSequence, error)

	// SetCurrentNumber advances the counter from current to next. The
	// update is guarded by the current value; zero rows updated surfaces
	// a version conflict.
	SetCurrentNumber(ctx context.Context, id string, current, next int64) error

	// SetActive toggles whether the sequence can be allocated from
	SetActive(ctx context.Context, docType types.DocumentType, series string, active bool) error

	// List retrieves sequences based on filter criteria
	List(ctx context.Context, filter *types.SequenceFilter) ([]*DocumentSequence, error)

	// Count returns the total count of sequences based on filter criteria
	Count(ctx context.Context, filter *types.SequenceFilter) (int, error)
}
