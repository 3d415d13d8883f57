package types

import (
	ierr "github.com/facturalo/facturalo/internal/errors"
)

// SequenceFilter represents filters for document sequence queries
type SequenceFilter struct {
	*QueryFilter

	DocumentType DocumentType `json:"document_type,omitempty" form:"document_type"`
	Series       string       `json:"series,omitempty" form:"series"`
	OnlyActive   bool         `json:"only_active,omitempty" form:"only_active"`
}

func NewSequenceFilter() *SequenceFilter {
	return &SequenceFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func (f *SequenceFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return ierr.WithError(err).
				WithHint("invalid pagination parameters").
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
