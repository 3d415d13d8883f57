package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/facturalo/facturalo/internal/domain/product"
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/logger"
	pg "github.com/facturalo/facturalo/internal/postgres"
	"github.com/facturalo/facturalo/internal/types"
)

type productRepository struct {
	client pg.IClient
	logger *logger.Logger
}

func NewProductRepository(client pg.IClient, logger *logger.Logger) product.Repository {
	return &productRepository{
		client: client,
		logger: logger,
	}
}

const productColumns = `id, tenant_id, code, description, unit_price, tax_rate, unit_of_measure,
	metadata, status, created_at, updated_at, created_by, updated_by`

func (r *productRepository) Create(ctx context.Context, p *product.Product) error {
	client := r.client.Querier(ctx)

	r.logger.Debugw("creating product",
		"product_id", p.ID,
		"code", p.Code,
		"tenant_id", p.TenantID,
	)

	query := fmt.Sprintf(`INSERT INTO products (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`, productColumns)

	_, err := client.ExecContext(ctx, query,
		p.ID, p.TenantID, p.Code, p.Description, p.UnitPrice, p.TaxRate, p.UnitOfMeasure,
		p.Metadata, p.Status, p.CreatedAt, p.UpdatedAt, p.CreatedBy, p.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, idxProductTenantCode) {
			return ierr.WithError(err).
				WithHint("A product with this code already exists").
				WithReportableDetails(map[string]any{
					"code": p.Code,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create product").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *productRepository) Get(ctx context.Context, id string) (*product.Product, error) {
	client := r.client.Querier(ctx)

	var p product.Product
	query := fmt.Sprintf(`SELECT %s FROM products
		WHERE id = $1 AND tenant_id = $2 AND status != $3`, productColumns)
	err := client.GetContext(ctx, &p, query, id, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("Product with ID %s was not found", id).
				WithReportableDetails(map[string]any{
					"product_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get product").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *productRepository) Update(ctx context.Context, p *product.Product) error {
	client := r.client.Querier(ctx)

	res, err := client.ExecContext(ctx, `UPDATE products
		SET code = $1, description = $2, unit_price = $3, tax_rate = $4,
			unit_of_measure = $5, metadata = $6, updated_at = $7, updated_by = $8
		WHERE id = $9 AND tenant_id = $10 AND status != $11`,
		p.Code, p.Description, p.UnitPrice, p.TaxRate,
		p.UnitOfMeasure, p.Metadata, time.Now().UTC(), types.GetUserID(ctx),
		p.ID, types.GetTenantID(ctx), types.StatusDeleted,
	)
	if err != nil {
		if isUniqueViolation(err, idxProductTenantCode) {
			return ierr.WithError(err).
				WithHint("A product with this code already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to update product").
			Mark(ierr.ErrDatabase)
	}
	return r.requireRow(res, p.ID)
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	client := r.client.Querier(ctx)

	res, err := client.ExecContext(ctx, `UPDATE products
		SET status = $1, updated_at = $2, updated_by = $3
		WHERE id = $4 AND tenant_id = $5 AND status != $1`,
		types.StatusDeleted, time.Now().UTC(), types.GetUserID(ctx),
		id, types.GetTenantID(ctx),
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete product").
			Mark(ierr.ErrDatabase)
	}
	return r.requireRow(res, id)
}

func (r *productRepository) List(ctx context.Context, filter *types.QueryFilter) ([]*product.Product, error) {
	client := r.client.Querier(ctx)

	query, args := r.buildListQuery(ctx, filter, false)
	products := make([]*product.Product, 0)
	if err := client.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list products").
			Mark(ierr.ErrDatabase)
	}
	return products, nil
}

func (r *productRepository) Count(ctx context.Context, filter *types.QueryFilter) (int, error) {
	client := r.client.Querier(ctx)

	query, args := r.buildListQuery(ctx, filter, true)
	var count int
	if err := client.GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count products").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *productRepository) buildListQuery(ctx context.Context, filter *types.QueryFilter, count bool) (string, []any) {
	var sb strings.Builder
	if count {
		sb.WriteString("SELECT COUNT(*) FROM products")
	} else {
		sb.WriteString(fmt.Sprintf("SELECT %s FROM products", productColumns))
	}

	args := []any{types.GetTenantID(ctx), types.StatusDeleted}
	sb.WriteString(" WHERE tenant_id = $1 AND status != $2")

	if !count {
		sb.WriteString(" ORDER BY created_at DESC, id DESC")
		if filter != nil && !filter.IsUnlimited() {
			args = append(args, filter.GetLimit())
			sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
			args = append(args, filter.GetOffset())
			sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
		}
	}

	return sb.String(), args
}

func (r *productRepository) requireRow(res sql.Result, id string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update product").
			Mark(ierr.ErrDatabase)
	}
	if rows == 0 {
		return ierr.NewError("product not found").
			WithHintf("Product with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
