package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserRoles(t *testing.T) {
	roles, err := ParseUserRoles([]string{"owner", "viewer"})
	assert.NoError(t, err)
	assert.Equal(t, []UserRole{UserRoleOwner, UserRoleViewer}, roles)

	roles, err = ParseUserRoles(nil)
	assert.NoError(t, err)
	assert.Empty(t, roles)

	_, err = ParseUserRoles([]string{"owner", "intern"})
	assert.Error(t, err)
}

func TestDocumentTypeValidate(t *testing.T) {
	for _, dt := range []DocumentType{
		DocumentTypeFactura,
		DocumentTypeBoleta,
		DocumentTypeNotaCredito,
		DocumentTypeNotaDebito,
	} {
		assert.NoError(t, dt.Validate())
	}

	assert.Error(t, DocumentType("99").Validate())
	assert.Error(t, DocumentType("").Validate())
}
