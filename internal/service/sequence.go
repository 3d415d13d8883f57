package service

import (
	"context"

	"github.com/facturalo/facturalo/internal/api/dto"
	"github.com/facturalo/facturalo/internal/rbac"
	"github.com/facturalo/facturalo/internal/types"
)

type SequenceService interface {
	// CreateSequence registers a new numbering series. Issuance draws
	// correlatives starting at the initial number plus one.
	CreateSequence(ctx context.Context, req dto.CreateSequenceRequest) (*dto.SequenceResponse, error)
	GetSequence(ctx context.Context, docType types.DocumentType, series string) (*dto.SequenceResponse, error)
	SetSequenceActive(ctx context.Context, docType types.DocumentType, series string, active bool) error
	ListSequences(ctx context.Context, filter *types.SequenceFilter) (*dto.ListSequencesResponse, error)
}

type sequenceService struct {
	ServiceParams
}

func NewSequenceService(params ServiceParams) SequenceService {
	return &sequenceService{
		ServiceParams: params,
	}
}

func (s *sequenceService) CreateSequence(ctx context.Context, req dto.CreateSequenceRequest) (*dto.SequenceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := rbac.Authorize(ctx, rbac.PermSequenceManage); err != nil {
		return nil, err
	}

	seq := req.ToSequence(ctx)
	if err := seq.Validate(); err != nil {
		return nil, err
	}
	if err := s.SequenceRepo.Create(ctx, seq); err != nil {
		return nil, err
	}

	s.Logger.Infow("created document sequence",
		"sequence_id", seq.ID,
		"document_type", seq.DocumentType,
		"series", seq.Series,
	)

	return dto.NewSequenceResponse(seq), nil
}

func (s *sequenceService) GetSequence(ctx context.Context, docType types.DocumentType, series string) (*dto.SequenceResponse, error) {
	if err := rbac.Authorize(ctx, rbac.PermSequenceRead); err != nil {
		return nil, err
	}

	seq, err := s.SequenceRepo.Get(ctx, docType, series)
	if err != nil {
		return nil, err
	}
	return dto.NewSequenceResponse(seq), nil
}

func (s *sequenceService) SetSequenceActive(ctx context.Context, docType types.DocumentType, series string, active bool) error {
	if err := docType.Validate(); err != nil {
		return err
	}

	if err := rbac.Authorize(ctx, rbac.PermSequenceManage); err != nil {
		return err
	}

	if err := s.SequenceRepo.SetActive(ctx, docType, series, active); err != nil {
		return err
	}

	s.Logger.Infow("updated document sequence",
		"document_type", docType,
		"series", series,
		"is_active", active,
	)
	return nil
}

func (s *sequenceService) ListSequences(ctx context.Context, filter *types.SequenceFilter) (*dto.ListSequencesResponse, error) {
	if err := rbac.Authorize(ctx, rbac.PermSequenceRead); err != nil {
		return nil, err
	}

	if filter == nil {
		filter = types.NewSequenceFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	seqs, err := s.SequenceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.SequenceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.SequenceResponse, len(seqs))
	for i, seq := range seqs {
		items[i] = dto.NewSequenceResponse(seq)
	}

	response := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &response, nil
}
