package dto

import (
	"context"

	"github.com/facturalo/facturalo/internal/domain/sequence"
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/types"
	"github.com/facturalo/facturalo/internal/validator"
)

// CreateSequenceRequest represents the request payload for registering a
// numbering series
type CreateSequenceRequest struct {
	// document_type is the SUNAT catalog code this series issues
	DocumentType types.DocumentType `json:"document_type" validate:"required"`

	// series is the series identifier, e.g. F001 or B001
	Series string `json:"series" validate:"required,max=10"`

	// prefix is an optional literal prepended to the formatted number
	Prefix string `json:"prefix,omitempty" validate:"omitempty,max=10"`

	// suffix is an optional literal appended to the formatted number
	Suffix string `json:"suffix,omitempty" validate:"omitempty,max=10"`

	// min_digits is the zero-padded width of the correlative, defaults to 8
	MinDigits *int `json:"min_digits,omitempty" validate:"omitempty,min=1,max=12"`

	// initial_number is the last already-used correlative when migrating an
	// existing series; issuance continues at initial_number + 1. Defaults
	// to 0 for a fresh series.
	InitialNumber *int64 `json:"initial_number,omitempty" validate:"omitempty,min=0"`
}

func (r *CreateSequenceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.DocumentType.Validate()
}

func (r *CreateSequenceRequest) ToSequence(ctx context.Context) *sequence.DocumentSequence {
	minDigits := 8
	if r.MinDigits != nil {
		minDigits = *r.MinDigits
	}
	var initialNumber int64
	if r.InitialNumber != nil {
		initialNumber = *r.InitialNumber
	}
	return &sequence.DocumentSequence{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SEQUENCE),
		DocumentType:  r.DocumentType,
		Series:        r.Series,
		CurrentNumber: initialNumber,
		Prefix:        r.Prefix,
		Suffix:        r.Suffix,
		MinDigits:     minDigits,
		IsActive:      true,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

// UpdateSequenceStatusRequest toggles whether a series accepts issuances
type UpdateSequenceStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func (r *UpdateSequenceStatusRequest) Validate() error {
	if r.IsActive == nil {
		return ierr.NewError("is_active is required").
			WithHint("Provide is_active as true or false").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SequenceResponse represents a document sequence in API responses
type SequenceResponse struct {
	*sequence.DocumentSequence
}

func NewSequenceResponse(seq *sequence.DocumentSequence) *SequenceResponse {
	return &SequenceResponse{DocumentSequence: seq}
}

// ListSequencesResponse represents the response for listing sequences
type ListSequencesResponse = types.ListResponse[*SequenceResponse]
