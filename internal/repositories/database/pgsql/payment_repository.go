package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invoicelab/invoicing_backend/internal/apperrors"
	"github.com/invoicelab/invoicing_backend/internal/core/domain"
	portsrepo "github.com/invoicelab/invoicing_backend/internal/core/ports/repositories"
	"github.com/invoicelab/invoicing_backend/internal/models"
	"github.com/invoicelab/invoicing_backend/internal/utils/mapping"
	"github.com/invoicelab/invoicing_backend/internal/utils/pagination"
)

const paymentColumns = `payment_id, invoice_id, amount, method, status, received_at, reference, created_at, updated_at`

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment data.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPaymentRepository implements portsrepo.PaymentRepositoryFacade
var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

// SavePayment inserts a payment. When invoice is non-nil the invoice's
// financial fields are updated in the same transaction, so a crash can never
// leave a recorded payment without its effect on the invoice.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment, invoice *domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelPayment := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, query,
		modelPayment.PaymentID,
		modelPayment.InvoiceID,
		modelPayment.Amount,
		modelPayment.Method,
		modelPayment.Status,
		modelPayment.ReceivedAt,
		modelPayment.Reference,
		modelPayment.CreatedAt,
		modelPayment.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: payment reference %q", apperrors.ErrDuplicate, payment.Reference)
		}
		return fmt.Errorf("failed to insert payment %s: %w", payment.PaymentID, err)
	}

	if invoice != nil {
		if err := updateInvoiceTx(ctx, tx, *invoice); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// UpdatePayment updates a payment's status; a non-nil invoice persists in the
// same transaction.
func (r *PgxPaymentRepository) UpdatePayment(ctx context.Context, payment domain.Payment, invoice *domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelPayment := mapping.ToModelPayment(payment)
	query := `UPDATE payments SET status = $1, updated_at = $2 WHERE payment_id = $3;`
	tag, err := tx.Exec(ctx, query, modelPayment.Status, modelPayment.UpdatedAt, modelPayment.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to update payment %s: %w", payment.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if invoice != nil {
		if err := updateInvoiceTx(ctx, tx, *invoice); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// DeletePayment removes a payment; a non-nil invoice persists in the same
// transaction.
func (r *PgxPaymentRepository) DeletePayment(ctx context.Context, payment domain.Payment, invoice *domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM payments WHERE payment_id = $1;`, payment.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to delete payment %s: %w", payment.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if invoice != nil {
		if err := updateInvoiceTx(ctx, tx, *invoice); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// FindPaymentByID retrieves a payment by its unique identifier.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	m, err := scanPaymentRow(r.Pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment by ID %s: %w", paymentID, err)
	}
	payment := mapping.ToDomainPayment(m)
	return &payment, nil
}

// ListPayments retrieves a paginated list of payments using token-based
// pagination over (created_at, payment_id).
func (r *PgxPaymentRepository) ListPayments(ctx context.Context, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + paymentColumns + ` FROM payments`
	orderByClause := `ORDER BY created_at DESC, payment_id DESC`

	var rows pgx.Rows
	var err error

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeCursorToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		query := baseQuery + ` WHERE (created_at, payment_id) < ($1, $2) ` + orderByClause + ` LIMIT $3;`
		rows, err = r.Pool.Query(ctx, query, lastCreatedAt, lastID, fetchLimit)
	} else {
		query := baseQuery + ` ` + orderByClause + ` LIMIT $1;`
		rows, err = r.Pool.Query(ctx, query, fetchLimit)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	modelPayments := make([]models.Payment, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanPaymentRow(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan payment row: %w", scanErr)
		}
		modelPayments = append(modelPayments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate payment rows: %w", err)
	}

	var newNextToken *string
	if len(modelPayments) > limit {
		modelPayments = modelPayments[:limit]
		last := modelPayments[limit-1]
		token := pagination.EncodeCursorToken(last.CreatedAt, last.PaymentID)
		newNextToken = &token
	}

	return mapping.ToDomainPaymentSlice(modelPayments), newNextToken, nil
}

// FindPaymentsByInvoiceID retrieves all payments recorded against an invoice,
// oldest first.
func (r *PgxPaymentRepository) FindPaymentsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE invoice_id = $1 ORDER BY received_at ASC, created_at ASC;`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	var modelPayments []models.Payment
	for rows.Next() {
		m, scanErr := scanPaymentRow(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", scanErr)
		}
		modelPayments = append(modelPayments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment rows: %w", err)
	}
	return mapping.ToDomainPaymentSlice(modelPayments), nil
}

// ExistsByReference reports whether a payment with the given reference exists.
func (r *PgxPaymentRepository) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM payments WHERE reference = $1);`, reference).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check payment reference %q: %w", reference, err)
	}
	return exists, nil
}

// scanPaymentRow scans a row holding the paymentColumns selection.
func scanPaymentRow(row pgx.Row) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.InvoiceID,
		&m.Amount,
		&m.Method,
		&m.Status,
		&m.ReceivedAt,
		&m.Reference,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}
