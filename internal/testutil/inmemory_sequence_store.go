package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/facturalo/facturalo/internal/domain/sequence"
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/types"
)

// InMemorySequenceStore implements sequence.Repository
type InMemorySequenceStore struct {
	mu   sync.Mutex
	seqs map[string]*sequence.DocumentSequence
}

// NewInMemorySequenceStore creates a new in-memory sequence store
func NewInMemorySequenceStore() *InMemorySequenceStore {
	return &InMemorySequenceStore{
		seqs: make(map[string]*sequence.DocumentSequence),
	}
}

func sequenceKey(tenantID string, docType types.DocumentType, series string) string {
	return fmt.Sprintf("%s/%s/%s", tenantID, docType, series)
}

func copySequence(seq *sequence.DocumentSequence) *sequence.DocumentSequence {
	if seq == nil {
		return nil
	}
	out := *seq
	return &out
}

func (s *InMemorySequenceStore) Create(ctx context.Context, seq *sequence.DocumentSequence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sequenceKey(seq.TenantID, seq.DocumentType, seq.Series)
	if _, exists := s.seqs[key]; exists {
		return ierr.NewError("sequence already exists").
			WithHint("A sequence for this document type and series already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	s.seqs[key] = copySequence(seq)
	return nil
}

func (s *InMemorySequenceStore) Get(ctx context.Context, docType types.DocumentType, series string) (*sequence.DocumentSequence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(ctx, docType, series)
}

// GetForUpdate behaves like Get; exclusivity comes from the mock client
// serializing transactions.
func (s *InMemorySequenceStore) GetForUpdate(ctx context.Context, docType types.DocumentType, series string) (*sequence.DocumentSequence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(ctx, docType, series)
}

func (s *InMemorySequenceStore) getLocked(ctx context.Context, docType types.DocumentType, series string) (*sequence.DocumentSequence, error) {
	key := sequenceKey(types.GetTenantID(ctx), docType, series)
	seq, exists := s.seqs[key]
	if !exists || seq.Status == types.StatusDeleted {
		return nil, ierr.NewError("sequence not found").
			WithHintf("Sequence for document type %s series %s was not found", docType, series).
			Mark(ierr.ErrNotFound)
	}
	return copySequence(seq), nil
}

func (s *InMemorySequenceStore) SetCurrentNumber(ctx context.Context, id string, current, next int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, seq := range s.seqs {
		if seq.ID != id || seq.TenantID != types.GetTenantID(ctx) {
			continue
		}
		if seq.CurrentNumber != current {
			return ierr.NewError("sequence was advanced concurrently").
				WithHint("The sequence number changed under us, retry the operation").
				Mark(ierr.ErrVersionConflict)
		}
		seq.CurrentNumber = next
		return nil
	}

	return ierr.NewError("sequence not found").
		WithHint("Sequence was not found").
		Mark(ierr.ErrNotFound)
}

func (s *InMemorySequenceStore) SetActive(ctx context.Context, docType types.DocumentType, series string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sequenceKey(types.GetTenantID(ctx), docType, series)
	seq, exists := s.seqs[key]
	if !exists || seq.Status == types.StatusDeleted {
		return ierr.NewError("sequence not found").
			WithHintf("Sequence for document type %s series %s was not found", docType, series).
			Mark(ierr.ErrNotFound)
	}
	seq.IsActive = active
	return nil
}

func (s *InMemorySequenceStore) List(ctx context.Context, filter *types.SequenceFilter) ([]*sequence.DocumentSequence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*sequence.DocumentSequence
	for _, seq := range s.seqs {
		if s.matches(ctx, seq, filter) {
			result = append(result, copySequence(seq))
		}
	}
	return result, nil
}

func (s *InMemorySequenceStore) Count(ctx context.Context, filter *types.SequenceFilter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, seq := range s.seqs {
		if s.matches(ctx, seq, filter) {
			count++
		}
	}
	return count, nil
}

func (s *InMemorySequenceStore) matches(ctx context.Context, seq *sequence.DocumentSequence, filter *types.SequenceFilter) bool {
	if seq.TenantID != types.GetTenantID(ctx) || seq.Status == types.StatusDeleted {
		return false
	}
	if filter == nil {
		return true
	}
	if filter.DocumentType != "" && seq.DocumentType != filter.DocumentType {
		return false
	}
	if filter.Series != "" && seq.Series != filter.Series {
		return false
	}
	if filter.OnlyActive && !seq.IsActive {
		return false
	}
	return true
}

// Clear removes all sequences
func (s *InMemorySequenceStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seqs = make(map[string]*sequence.DocumentSequence)
}

func (s *InMemorySequenceStore) SnapshotState() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string]*sequence.DocumentSequence, len(s.seqs))
	for k, v := range s.seqs {
		snapshot[k] = copySequence(v)
	}
	return snapshot
}

func (s *InMemorySequenceStore) RestoreState(snapshot any) {
	seqs, ok := snapshot.(map[string]*sequence.DocumentSequence)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seqs = make(map[string]*sequence.DocumentSequence, len(seqs))
	for k, v := range seqs {
		s.seqs[k] = copySequence(v)
	}
}
