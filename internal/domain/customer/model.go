package customer

import (
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/types"
	"github.com/samber/lo"
)

// IdentityType is the SUNAT catalog 06 code identifying the customer document.
type IdentityType string

const (
	// IdentityTypeDNI is the national identity document (catalog 06 code 1)
	IdentityTypeDNI IdentityType = "1"
	// IdentityTypeRUC is the tax registry number (catalog 06 code 6)
	IdentityTypeRUC IdentityType = "6"
	// IdentityTypeCE is the foreigner card (catalog 06 code 4)
	IdentityTypeCE IdentityType = "4"
	// IdentityTypePassport is a passport (catalog 06 code 7)
	IdentityTypePassport IdentityType = "7"
)

func (t IdentityType) Validate() error {
	allowed := []IdentityType{
		IdentityTypeDNI,
		IdentityTypeRUC,
		IdentityTypeCE,
		IdentityTypePassport,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid identity type").
			WithHint("Identity type must be a valid SUNAT catalog 06 code").
			WithReportableDetails(map[string]any{
				"identity_type": t,
				"allowed":       allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Customer is the billing party an invoice is issued to.
type Customer struct {
	// ID is the unique identifier for the customer
	ID string `db:"id" json:"id"`

	// IdentityType is the SUNAT document type of the identity number
	IdentityType IdentityType `db:"identity_type" json:"identity_type"`

	// IdentityNumber is the DNI, RUC or other document number
	IdentityNumber string `db:"identity_number" json:"identity_number"`

	// LegalName is the registered name (razón social) or full name
	LegalName string `db:"legal_name" json:"legal_name"`

	// TradeName is the optional commercial name
	TradeName string `db:"trade_name" json:"trade_name"`

	// Email is the optional contact email
	Email string `db:"email" json:"email"`

	// Address is the fiscal address
	Address string `db:"address" json:"address"`

	// Metadata
	Metadata types.Metadata `db:"metadata" json:"metadata"`

	types.BaseModel
}

func (c *Customer) Validate() error {
	if err := c.IdentityType.Validate(); err != nil {
		return err
	}
	if c.IdentityNumber == "" {
		return ierr.NewError("identity number is required").
			WithHint("Identity number is required").
			Mark(ierr.ErrValidation)
	}
	if c.LegalName == "" {
		return ierr.NewError("legal name is required").
			WithHint("Legal name is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
