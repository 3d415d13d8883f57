package postgres

import (
	"database/sql"
	"errors"

	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/lib/pq"
)

// Postgres error codes we translate into domain errors.
const (
	pqUniqueViolation     = "23505"
	pqSerializationFailed = "40001"
	pqDeadlockDetected    = "40P01"
)

// Unique constraint names defined in migrations. Keep these in sync with
// the schema; they drive which already-exists hint the caller sees.
const (
	idxSequenceTenantDocTypeSeries      = "idx_document_sequences_tenant_doc_type_series_unique"
	idxInvoiceTenantDocTypeSeriesCorrel = "idx_invoices_tenant_doc_type_series_correlative_unique"
	idxInvoiceTenantNumber              = "idx_invoices_tenant_invoice_number_unique"
	idxCustomerTenantIdentity           = "idx_customers_tenant_identity_unique"
	idxProductTenantCode                = "idx_products_tenant_code_unique"
)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// pqErr unwraps the driver error if present
func pqError(err error) (*pq.Error, bool) {
	var e *pq.Error
	if ierr.As(err, &e) {
		return e, true
	}
	return nil, false
}

func isUniqueViolation(err error, constraint string) bool {
	e, ok := pqError(err)
	if !ok {
		return false
	}
	return string(e.Code) == pqUniqueViolation && (constraint == "" || e.Constraint == constraint)
}

// isRetryableTxError reports whether the error is a transient transaction
// failure that a fresh attempt may clear.
func isRetryableTxError(err error) bool {
	e, ok := pqError(err)
	if !ok {
		return false
	}
	return string(e.Code) == pqSerializationFailed || string(e.Code) == pqDeadlockDetected
}
