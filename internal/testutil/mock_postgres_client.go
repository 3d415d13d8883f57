package testutil

import (
	"context"
	"sync"

	"github.com/facturalo/facturalo/internal/logger"
	"github.com/facturalo/facturalo/internal/postgres"
)

var _ postgres.IClient = (*MockPostgresClient)(nil)

type mockTxKey struct{}

// TxRollbacker is implemented by in-memory stores that can undo the writes
// of a failed transaction.
type TxRollbacker interface {
	SnapshotState() any
	RestoreState(snapshot any)
}

// MockPostgresClient emulates the transactional client for service tests.
// Transactions are serialized with a mutex, which mirrors what the row lock
// on the sequence does in the real database, and store snapshots give
// all-or-nothing semantics on failure.
type MockPostgresClient struct {
	mu     sync.Mutex
	stores []TxRollbacker
	logger *logger.Logger
}

// NewMockPostgresClient creates a new mock postgres client. The given
// stores are rolled back when a transaction function returns an error.
func NewMockPostgresClient(logger *logger.Logger, stores ...TxRollbacker) *MockPostgresClient {
	return &MockPostgresClient{
		stores: stores,
		logger: logger,
	}
}

// WithTx executes the given function within an emulated transaction
func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	// Nested transactions join the outer one
	if ctx.Value(mockTxKey{}) != nil {
		return fn(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	snapshots := make([]any, len(c.stores))
	for i, store := range c.stores {
		snapshots[i] = store.SnapshotState()
	}

	err := fn(context.WithValue(ctx, mockTxKey{}, true))
	if err != nil {
		for i, store := range c.stores {
			store.RestoreState(snapshots[i])
		}
		return err
	}
	return nil
}

// Querier is unused by the in-memory repositories
func (c *MockPostgresClient) Querier(ctx context.Context) postgres.Querier {
	return nil
}
