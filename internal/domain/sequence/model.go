package sequence

import (
	"fmt"
	"regexp"

	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/types"
)

// seriesPattern follows the SUNAT series format: a letter followed by three
// alphanumerics, e.g. F001, B001, FE01.
var seriesPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{2,3}$`)

// DocumentSequence represents one numbering series for one tenant and
// document kind. CurrentNumber is the last issued correlative; it only ever
// advances, by exactly one per committed invoice, and only inside an
// issuance transaction.
type DocumentSequence struct {
	ID            string             `db:"id" json:"id"`
	DocumentType  types.DocumentType `db:"document_type" json:"document_type"`
	Series        string             `db:"series" json:"series"`
	CurrentNumber int64              `db:"current_number" json:"current_number"`
	Prefix        string             `db:"prefix" json:"prefix"`
	Suffix        string             `db:"suffix" json:"suffix"`
	MinDigits     int                `db:"min_digits" json:"min_digits"`
	IsActive      bool               `db:"is_active" json:"is_active"`
	types.BaseModel
}

func (s *DocumentSequence) Validate() error {
	if err := s.DocumentType.Validate(); err != nil {
		return err
	}
	if !seriesPattern.MatchString(s.Series) {
		return ierr.NewError("invalid series").
			WithHint("Series must be a letter followed by 2 or 3 alphanumerics, e.g. F001").
			WithReportableDetails(map[string]any{
				"series": s.Series,
			}).
			Mark(ierr.ErrValidation)
	}
	if s.MinDigits < 1 || s.MinDigits > 12 {
		return ierr.NewError("invalid min_digits").
			WithHint("min_digits must be between 1 and 12").
			Mark(ierr.ErrValidation)
	}
	if s.CurrentNumber < 0 {
		return ierr.NewError("invalid current_number").
			WithHint("current_number cannot be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// FormatNumber renders the regulatory-facing document number for a
// correlative drawn from this sequence, e.g. "F001-00000042". Correlatives
// wider than MinDigits are never truncated.
func (s *DocumentSequence) FormatNumber(correlative int64) string {
	return fmt.Sprintf("%s%s-%0*d%s", s.Prefix, s.Series, s.MinDigits, correlative, s.Suffix)
}
