package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/facturalo/facturalo/internal/domain/customer"
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/logger"
	pg "github.com/facturalo/facturalo/internal/postgres"
	"github.com/facturalo/facturalo/internal/types"
)

type customerRepository struct {
	client pg.IClient
	logger *logger.Logger
}

func NewCustomerRepository(client pg.IClient, logger *logger.Logger) customer.Repository {
	return &customerRepository{
		client: client,
		logger: logger,
	}
}

const customerColumns = `id, tenant_id, identity_type, identity_number, legal_name, trade_name,
	email, address, metadata, status, created_at, updated_at, created_by, updated_by`

func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	client := r.client.Querier(ctx)

	r.logger.Debugw("creating customer",
		"customer_id", c.ID,
		"identity_number", c.IdentityNumber,
		"tenant_id", c.TenantID,
	)

	query := fmt.Sprintf(`INSERT INTO customers (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`, customerColumns)

	_, err := client.ExecContext(ctx, query,
		c.ID, c.TenantID, c.IdentityType, c.IdentityNumber, c.LegalName, c.TradeName,
		c.Email, c.Address, c.Metadata, c.Status, c.CreatedAt, c.UpdatedAt, c.CreatedBy, c.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, idxCustomerTenantIdentity) {
			return ierr.WithError(err).
				WithHint("A customer with this identity number already exists").
				WithReportableDetails(map[string]any{
					"identity_type":   c.IdentityType,
					"identity_number": c.IdentityNumber,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create customer").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *customerRepository) Get(ctx context.Context, id string) (*customer.Customer, error) {
	client := r.client.Querier(ctx)

	var c customer.Customer
	query := fmt.Sprintf(`SELECT %s FROM customers
		WHERE id = $1 AND tenant_id = $2 AND status != $3`, customerColumns)
	err := client.GetContext(ctx, &c, query, id, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("Customer with ID %s was not found", id).
				WithReportableDetails(map[string]any{
					"customer_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get customer").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *customerRepository) Update(ctx context.Context, c *customer.Customer) error {
	client := r.client.Querier(ctx)

	res, err := client.ExecContext(ctx, `UPDATE customers
		SET identity_type = $1, identity_number = $2, legal_name = $3, trade_name = $4,
			email = $5, address = $6, metadata = $7, updated_at = $8, updated_by = $9
		WHERE id = $10 AND tenant_id = $11 AND status != $12`,
		c.IdentityType, c.IdentityNumber, c.LegalName, c.TradeName,
		c.Email, c.Address, c.Metadata, time.Now().UTC(), types.GetUserID(ctx),
		c.ID, types.GetTenantID(ctx), types.StatusDeleted,
	)
	if err != nil {
		if isUniqueViolation(err, idxCustomerTenantIdentity) {
			return ierr.WithError(err).
				WithHint("A customer with this identity number already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to update customer").
			Mark(ierr.ErrDatabase)
	}
	return r.requireRow(res, c.ID)
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	client := r.client.Querier(ctx)

	res, err := client.ExecContext(ctx, `UPDATE customers
		SET status = $1, updated_at = $2, updated_by = $3
		WHERE id = $4 AND tenant_id = $5 AND status != $1`,
		types.StatusDeleted, time.Now().UTC(), types.GetUserID(ctx),
		id, types.GetTenantID(ctx),
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete customer").
			Mark(ierr.ErrDatabase)
	}
	return r.requireRow(res, id)
}

func (r *customerRepository) List(ctx context.Context, filter *types.QueryFilter) ([]*customer.Customer, error) {
	client := r.client.Querier(ctx)

	query, args := r.buildListQuery(ctx, filter, false)
	customers := make([]*customer.Customer, 0)
	if err := client.SelectContext(ctx, &customers, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list customers").
			Mark(ierr.ErrDatabase)
	}
	return customers, nil
}

func (r *customerRepository) Count(ctx context.Context, filter *types.QueryFilter) (int, error) {
	client := r.client.Querier(ctx)

	query, args := r.buildListQuery(ctx, filter, true)
	var count int
	if err := client.GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count customers").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *customerRepository) buildListQuery(ctx context.Context, filter *types.QueryFilter, count bool) (string, []any) {
	var sb strings.Builder
	if count {
		sb.WriteString("SELECT COUNT(*) FROM customers")
	} else {
		sb.WriteString(fmt.Sprintf("SELECT %s FROM customers", customerColumns))
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

func (r *customerRepository) requireRow(res sql.Result, id string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update customer").
			Mark(ierr.ErrDatabase)
	}
	if rows == 0 {
		return ierr.NewError("customer not found").
			WithHintf("Customer with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
