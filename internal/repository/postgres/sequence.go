package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/facturalo/facturalo/internal/domain/sequence"
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/logger"
	pg "github.com/facturalo/facturalo/internal/postgres"
	"github.com/facturalo/facturalo/internal/types"
)

type sequenceRepository struct {
	client pg.IClient
	logger *logger.Logger
}

func NewSequenceRepository(client pg.IClient, logger *logger.Logger) sequence.Repository {
	return &sequenceRepository{
		client: client,
		logger: logger,
	}
}

const sequenceColumns = `id, tenant_id, document_type, series, current_number, prefix, suffix,
	min_digits, is_active, status, created_at, updated_at, created_by, updated_by`

func (r *sequenceRepository) Create(ctx context.Context, seq *sequence.DocumentSequence) error {
	client := r.client.Querier(ctx)

	r.logger.Debugw("creating document sequence",
		"sequence_id", seq.ID,
		"document_type", seq.DocumentType,
		"series", seq.Series,
		"tenant_id", seq.TenantID,
	)

	query := fmt.Sprintf(`INSERT INTO document_sequences (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`, sequenceColumns)

	_, err := client.ExecContext(ctx, query,
		seq.ID, seq.TenantID, seq.DocumentType, seq.Series, seq.CurrentNumber,
		seq.Prefix, seq.Suffix, seq.MinDigits, seq.IsActive, seq.Status,
		seq.CreatedAt, seq.UpdatedAt, seq.CreatedBy, seq.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, idxSequenceTenantDocTypeSeries) {
			return ierr.WithError(err).
				WithHint("A sequence for this document type and series already exists").
				WithReportableDetails(map[string]any{
					"document_type": seq.DocumentType,
					"series":        seq.Series,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create document sequence").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *sequenceRepository) Get(ctx context.Context, docType types.DocumentType, series string) (*sequence.DocumentSequence, error) {
	return r.get(ctx, docType, series, false)
}

// GetForUpdate locks the sequence row for the remainder of the transaction.
// Refuses to run outside one: a row lock on the pool connection would be
// released immediately and the gapless guarantee silently lost.
func (r *sequenceRepository) GetForUpdate(ctx context.Context, docType types.DocumentType, series string) (*sequence.DocumentSequence, error) {
	if _, ok := pg.GetTx(ctx); !ok {
		return nil, ierr.NewError("sequence lock requested outside a transaction").
			WithHint("Sequence allocation must run inside a transaction").
			Mark(ierr.ErrInvalidOperation)
	}
	return r.get(ctx, docType, series, true)
}

func (r *sequenceRepository) get(ctx context.Context, docType types.DocumentType, series string, forUpdate bool) (*sequence.DocumentSequence, error) {
	client := r.client.Querier(ctx)

	query := fmt.Sprintf(`SELECT %s FROM document_sequences
		WHERE tenant_id = $1 AND document_type = $2 AND series = $3 AND status != $4`, sequenceColumns)
	if forUpdate {
		query += " FOR UPDATE"
	}

	var seq sequence.DocumentSequence
	err := client.GetContext(ctx, &seq, query,
		types.GetTenantID(ctx), docType, series, types.StatusDeleted,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("Sequence for document type %s series %s was not found", docType, series).
				WithReportableDetails(map[string]any{
					"document_type": docType,
					"series":        series,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get document sequence").
			Mark(ierr.ErrDatabase)
	}
	return &seq, nil
}

// SetCurrentNumber advances the counter with a guard on the previously read
// value. Zero rows updated means another writer got there first.
func (r *sequenceRepository) SetCurrentNumber(ctx context.Context, id string, current, next int64) error {
	client := r.client.Querier(ctx)

	res, err := client.ExecContext(ctx, `UPDATE document_sequences
		SET current_number = $1, updated_at = $2, updated_by = $3
		WHERE id = $4 AND tenant_id = $5 AND current_number = $6`,
		next, time.Now().UTC(), types.GetUserID(ctx),
		id, types.GetTenantID(ctx), current,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to advance document sequence").
			Mark(ierr.ErrDatabase)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to advance document sequence").
			Mark(ierr.ErrDatabase)
	}
	if rows == 0 {
		return ierr.NewError("sequence was advanced concurrently").
			WithHint("The sequence number changed under us, retry the operation").
			WithReportableDetails(map[string]any{
				"sequence_id": id,
				"expected":    current,
			}).
			Mark(ierr.ErrVersionConflict)
	}
	return nil
}

func (r *sequenceRepository) SetActive(ctx context.Context, docType types.DocumentType, series string, active bool) error {
	client := r.client.Querier(ctx)

	res, err := client.ExecContext(ctx, `UPDATE document_sequences
		SET is_active = $1, updated_at = $2, updated_by = $3
		WHERE tenant_id = $4 AND document_type = $5 AND series = $6 AND status != $7`,
		active, time.Now().UTC(), types.GetUserID(ctx),
		types.GetTenantID(ctx), docType, series, types.StatusDeleted,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update document sequence").
			Mark(ierr.ErrDatabase)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update document sequence").
			Mark(ierr.ErrDatabase)
	}
	if rows == 0 {
		return ierr.NewError("sequence not found").
			WithHintf("Sequence for document type %s series %s was not found", docType, series).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *sequenceRepository) List(ctx context.Context, filter *types.SequenceFilter) ([]*sequence.DocumentSequence, error) {
	client := r.client.Querier(ctx)

	query, args := r.buildListQuery(ctx, filter, false)
	seqs := make([]*sequence.DocumentSequence, 0)
	if err := client.SelectContext(ctx, &seqs, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list document sequences").
			Mark(ierr.ErrDatabase)
	}
	return seqs, nil
}

func (r *sequenceRepository) Count(ctx context.Context, filter *types.SequenceFilter) (int, error) {
	client := r.client.Querier(ctx)

	query, args := r.buildListQuery(ctx, filter, true)
	var count int
	if err := client.GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count document sequences").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *sequenceRepository) buildListQuery(ctx context.Context, filter *types.SequenceFilter, count bool) (string, []any) {
	var sb strings.Builder
	if count {
		sb.WriteString("SELECT COUNT(*) FROM document_sequences")
	} else {
		sb.WriteString(fmt.Sprintf("SELECT %s FROM document_sequences", sequenceColumns))
	}

	args := []any{types.GetTenantID(ctx), types.StatusDeleted}
	sb.WriteString(" WHERE tenant_id = $1 AND status != $2")

	if filter != nil {
		if filter.DocumentType != "" {
			args = append(args, filter.DocumentType)
			sb.WriteString(fmt.Sprintf(" AND document_type = $%d", len(args)))
		}
		if filter.Series != "" {
			args = append(args, filter.Series)
			sb.WriteString(fmt.Sprintf(" AND series = $%d", len(args)))
		}
		if filter.OnlyActive {
			sb.WriteString(" AND is_active = true")
		}
	}

	if !count {
		sb.WriteString(" ORDER BY document_type ASC, series ASC")
		if filter != nil && filter.QueryFilter != nil && !filter.IsUnlimited() {
			args = append(args, filter.GetLimit())
			sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
			args = append(args, filter.GetOffset())
			sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
		}
	}

	return sb.String(), args
}
