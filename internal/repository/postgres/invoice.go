package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/facturalo/facturalo/internal/domain/invoice"
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/logger"
	pg "github.com/facturalo/facturalo/internal/postgres"
	"github.com/facturalo/facturalo/internal/types"
)

type invoiceRepository struct {
	client pg.IClient
	logger *logger.Logger
}

func NewInvoiceRepository(client pg.IClient, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{
		client: client,
		logger: logger,
	}
}

const invoiceColumns = `id, tenant_id, customer_id, document_type, series, correlative,
	invoice_number, currency, exchange_rate, issue_date, due_date, notes,
	subtotal, discount_amount, tax_amount, total_amount, invoice_status, sunat_status,
	metadata, status, created_at, updated_at, created_by, updated_by`

const lineItemColumns = `id, tenant_id, invoice_id, product_id, description, quantity,
	unit_price, discount_rate, tax_rate, subtotal, discount_amount, tax_amount, total,
	status, created_at, updated_at, created_by, updated_by`

// CreateWithLineItems writes the header and all line items. It is expected
// to run inside the issuance transaction so the unique correlative index
// and the sequence increment commit or roll back together.
func (r *invoiceRepository) CreateWithLineItems(ctx context.Context, inv *invoice.Invoice) error {
	client := r.client.Querier(ctx)

	r.logger.Debugw("creating invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"customer_id", inv.CustomerID,
		"tenant_id", inv.TenantID,
		"line_items", len(inv.LineItems),
	)

	query := fmt.Sprintf(`INSERT INTO invoices (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`, invoiceColumns)

	_, err := client.ExecContext(ctx, query,
		inv.ID, inv.TenantID, inv.CustomerID, inv.DocumentType, inv.Series, inv.Correlative,
		inv.InvoiceNumber, inv.Currency, inv.ExchangeRate, inv.IssueDate, inv.DueDate, inv.Notes,
		inv.Subtotal, inv.DiscountAmount, inv.TaxAmount, inv.TotalAmount, inv.InvoiceStatus, inv.SunatStatus,
		inv.Metadata, inv.Status, inv.CreatedAt, inv.UpdatedAt, inv.CreatedBy, inv.UpdatedBy,
	)
	if err != nil {
		// The correlative index is the last line of defense for gapless
		// numbering. Hitting it means a concurrent issuance won the same
		// number, which the caller treats as retryable.
		if isUniqueViolation(err, idxInvoiceTenantDocTypeSeriesCorrel) || isUniqueViolation(err, idxInvoiceTenantNumber) {
			return ierr.WithError(err).
				WithHint("An invoice with this number was issued concurrently").
				WithReportableDetails(map[string]any{
					"document_type": inv.DocumentType,
					"series":        inv.Series,
					"correlative":   inv.Correlative,
				}).
				Mark(ierr.ErrVersionConflict)
		}
		if isRetryableTxError(err) {
			return ierr.WithError(err).
				WithHint("Invoice creation hit a transient conflict").
				Mark(ierr.ErrVersionConflict)
		}
		return ierr.WithError(err).
			WithHint("Failed to create invoice").
			Mark(ierr.ErrDatabase)
	}

	lineQuery := fmt.Sprintf(`INSERT INTO invoice_line_items (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`, lineItemColumns)

	for _, item := range inv.LineItems {
		_, err := client.ExecContext(ctx, lineQuery,
			item.ID, item.TenantID, item.InvoiceID, item.ProductID, item.Description, item.Quantity,
			item.UnitPrice, item.DiscountRate, item.TaxRate, item.Subtotal, item.DiscountAmount, item.TaxAmount, item.Total,
			item.Status, item.CreatedAt, item.UpdatedAt, item.CreatedBy, item.UpdatedBy,
		)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to create invoice line items").
				WithReportableDetails(map[string]any{
					"invoice_id":   inv.ID,
					"line_item_id": item.ID,
				}).
				Mark(ierr.ErrDatabase)
		}
	}

	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	client := r.client.Querier(ctx)

	var inv invoice.Invoice
	query := fmt.Sprintf(`SELECT %s FROM invoices
		WHERE id = $1 AND tenant_id = $2 AND status != $3`, invoiceColumns)
	err := client.GetContext(ctx, &inv, query, id, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("Invoice with ID %s was not found", id).
				WithReportableDetails(map[string]any{
					"invoice_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice").
			Mark(ierr.ErrDatabase)
	}

	items := make([]*invoice.InvoiceLineItem, 0)
	lineQuery := fmt.Sprintf(`SELECT %s FROM invoice_line_items
		WHERE invoice_id = $1 AND tenant_id = $2 AND status != $3
		ORDER BY created_at ASC, id ASC`, lineItemColumns)
	if err := client.SelectContext(ctx, &items, lineQuery, id, types.GetTenantID(ctx), types.StatusDeleted); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice line items").
			Mark(ierr.ErrDatabase)
	}
	inv.LineItems = items

	return &inv, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	client := r.client.Querier(ctx)

	query, args := r.buildListQuery(ctx, filter, false)
	invoices := make([]*invoice.Invoice, 0)
	if err := client.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices").
			Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	client := r.client.Querier(ctx)

	query, args := r.buildListQuery(ctx, filter, true)
	var count int
	if err := client.GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count invoices").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *invoiceRepository) buildListQuery(ctx context.Context, filter *types.InvoiceFilter, count bool) (string, []any) {
	var sb strings.Builder
	if count {
		sb.WriteString("SELECT COUNT(*) FROM invoices")
	} else {
		sb.WriteString(fmt.Sprintf("SELECT %s FROM invoices", invoiceColumns))
	}

	args := []any{types.GetTenantID(ctx), types.StatusDeleted}
	sb.WriteString(" WHERE tenant_id = $1 AND status != $2")

	if filter != nil {
		if len(filter.InvoiceIDs) > 0 {
			placeholders := make([]string, 0, len(filter.InvoiceIDs))
			for _, id := range filter.InvoiceIDs {
				args = append(args, id)
				placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
			}
			sb.WriteString(fmt.Sprintf(" AND id IN (%s)", strings.Join(placeholders, ", ")))
		}
		if filter.CustomerID != "" {
			args = append(args, filter.CustomerID)
			sb.WriteString(fmt.Sprintf(" AND customer_id = $%d", len(args)))
		}
		if filter.DocumentType != "" {
			args = append(args, filter.DocumentType)
			sb.WriteString(fmt.Sprintf(" AND document_type = $%d", len(args)))
		}
		if filter.Series != "" {
			args = append(args, filter.Series)
			sb.WriteString(fmt.Sprintf(" AND series = $%d", len(args)))
		}
		if len(filter.InvoiceStatus) > 0 {
			placeholders := make([]string, 0, len(filter.InvoiceStatus))
			for _, s := range filter.InvoiceStatus {
				args = append(args, s)
				placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
			}
			sb.WriteString(fmt.Sprintf(" AND invoice_status IN (%s)", strings.Join(placeholders, ", ")))
		}
		if filter.TimeRangeFilter != nil {
			if filter.StartTime != nil {
				args = append(args, *filter.StartTime)
				sb.WriteString(fmt.Sprintf(" AND issue_date >= $%d", len(args)))
			}
			if filter.EndTime != nil {
				args = append(args, *filter.EndTime)
				sb.WriteString(fmt.Sprintf(" AND issue_date <= $%d", len(args)))
			}
		}
	}

	if !count {
		sb.WriteString(" ORDER BY created_at DESC, id DESC")
		if filter != nil && filter.QueryFilter != nil && !filter.IsUnlimited() {
			args = append(args, filter.GetLimit())
			sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
			args = append(args, filter.GetOffset())
			sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
		}
	}

	return sb.String(), args
}
