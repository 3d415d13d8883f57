package sequence

import (
	"testing"

	"github.com/facturalo/facturalo/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	testCases := []struct {
		name        string
		sequence    DocumentSequence
		correlative int64
		expected    string
	}{
		{
			name:        "factura_series",
			sequence:    DocumentSequence{Series: "F001", MinDigits: 8},
			correlative: 1,
			expected:    "F001-00000001",
		},
		{
			name:        "boleta_series",
			sequence:    DocumentSequence{Series: "B001", MinDigits: 8},
			correlative: 42,
			expected:    "B001-00000042",
		},
		{
			name:        "with_prefix_and_suffix",
			sequence:    DocumentSequence{Prefix: "T", Series: "F001", Suffix: "-X", MinDigits: 6},
			correlative: 7,
			expected:    "TF001-000007-X",
		},
		{
			name:        "correlative_wider_than_min_digits",
			sequence:    DocumentSequence{Series: "F001", MinDigits: 4},
			correlative: 123456,
			expected:    "F001-123456",
		},
		{
			name:        "min_digits_one",
			sequence:    DocumentSequence{Series: "N1", MinDigits: 1},
			correlative: 9,
			expected:    "N1-9",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.sequence.FormatNumber(tc.correlative))
		})
	}
}

func TestDocumentSequenceValidate(t *testing.T) {
	valid := func() *DocumentSequence {
		return &DocumentSequence{
			DocumentType: types.DocumentTypeFactura,
			Series:       "F001",
			MinDigits:    8,
		}
	}

	assert.NoError(t, valid().Validate())

	seq := valid()
	seq.Series = "f001"
	assert.Error(t, seq.Validate())

	seq = valid()
	seq.Series = "F0001"
	assert.Error(t, seq.Validate())

	seq = valid()
	seq.Series = "FE01"
	assert.NoError(t, seq.Validate())

	seq = valid()
	seq.MinDigits = 0
	assert.Error(t, seq.Validate())

	seq = valid()
	seq.MinDigits = 13
	assert.Error(t, seq.Validate())

	seq = valid()
	seq.CurrentNumber = -1
	assert.Error(t, seq.Validate())

	seq = valid()
	seq.DocumentType = "99"
	assert.Error(t, seq.Validate())
}
