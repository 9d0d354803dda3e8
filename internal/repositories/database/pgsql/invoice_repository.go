package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

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

const invoiceColumns = `invoice_id, number, client_id, issue_date, due_date, status, subtotal, tax_rate,
	tax_amount, total, amount_paid, balance, notes, created_by_id, created_at, updated_at`

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoice and line item data.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxInvoiceRepository implements portsrepo.InvoiceRepositoryFacade
var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

// SaveInvoice inserts an invoice and its line items within a DB transaction.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelInvoice := mapping.ToModelInvoice(invoice)
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = tx.Exec(ctx, query,
		modelInvoice.InvoiceID,
		modelInvoice.Number,
		modelInvoice.ClientID,
		modelInvoice.IssueDate,
		modelInvoice.DueDate,
		modelInvoice.Status,
		modelInvoice.Subtotal,
		modelInvoice.TaxRate,
		modelInvoice.TaxAmount,
		modelInvoice.Total,
		modelInvoice.AmountPaid,
		modelInvoice.Balance,
		modelInvoice.Notes,
		modelInvoice.CreatedByID,
		modelInvoice.CreatedAt,
		modelInvoice.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: invoice number %s", apperrors.ErrDuplicate, invoice.Number)
		}
		return fmt.Errorf("failed to insert invoice %s: %w", invoice.InvoiceID, err)
	}

	if err := insertInvoiceItemsTx(ctx, tx, invoice.Items); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UpdateInvoice updates the invoice row and replaces its line items within a
// DB transaction.
func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := updateInvoiceTx(ctx, tx, invoice); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1;`, invoice.InvoiceID); err != nil {
		return fmt.Errorf("failed to clear line items for invoice %s: %w", invoice.InvoiceID, err)
	}
	if err := insertInvoiceItemsTx(ctx, tx, invoice.Items); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UpdateInvoiceStatus updates only the status column of an invoice.
func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, updatedAt time.Time) error {
	query := `UPDATE invoices SET status = $1, updated_at = $2 WHERE invoice_id = $3;`
	tag, err := r.Pool.Exec(ctx, query, string(status), updatedAt, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to update status of invoice %s: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteInvoice removes an invoice; line items go with it via ON DELETE CASCADE.
func (r *PgxInvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM invoices WHERE invoice_id = $1;`, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice %s: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindInvoiceByID retrieves an invoice with its line items.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return r.findInvoiceBy(ctx, "invoice_id", invoiceID)
}

// FindInvoiceByNumber retrieves an invoice by its unique number.
func (r *PgxInvoiceRepository) FindInvoiceByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	return r.findInvoiceBy(ctx, "number", number)
}

func (r *PgxInvoiceRepository) findInvoiceBy(ctx context.Context, column, value string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE ` + column + ` = $1;`
	modelInvoice, err := scanInvoiceRow(r.Pool.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by %s %s: %w", column, value, err)
	}

	invoice := mapping.ToDomainInvoice(modelInvoice)
	items, err := r.findItemsByInvoiceID(ctx, invoice.InvoiceID)
	if err != nil {
		return nil, err
	}
	invoice.Items = items
	return &invoice, nil
}

// ExistsByNumber reports whether an invoice with the given number exists.
func (r *PgxInvoiceRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM invoices WHERE number = $1);`, number).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check invoice number %s: %w", number, err)
	}
	return exists, nil
}

// ListInvoices retrieves a paginated list of invoices using token-based
// pagination over (created_at, invoice_id). Line items are not loaded for
// list views.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + invoiceColumns + ` FROM invoices`
	orderByClause := `ORDER BY created_at DESC, invoice_id DESC`

	var rows pgx.Rows
	var err error

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeCursorToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		query := baseQuery + ` WHERE (created_at, invoice_id) < ($1, $2) ` + orderByClause + ` LIMIT $3;`
		rows, err = r.Pool.Query(ctx, query, lastCreatedAt, lastID, fetchLimit)
	} else {
		query := baseQuery + ` ` + orderByClause + ` LIMIT $1;`
		rows, err = r.Pool.Query(ctx, query, fetchLimit)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	modelInvoices := make([]models.Invoice, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanInvoiceRow(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan invoice row: %w", scanErr)
		}
		modelInvoices = append(modelInvoices, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate invoice rows: %w", err)
	}

	var newNextToken *string
	if len(modelInvoices) > limit {
		modelInvoices = modelInvoices[:limit]
		last := modelInvoices[limit-1]
		token := pagination.EncodeCursorToken(last.CreatedAt, last.InvoiceID)
		newNextToken = &token
	}

	invoices := make([]domain.Invoice, len(modelInvoices))
	for i, m := range modelInvoices {
		invoices[i] = mapping.ToDomainInvoice(m)
	}
	return invoices, newNextToken, nil
}

// FindInvoicesByClientID retrieves all invoices for a client, newest first.
func (r *PgxInvoiceRepository) FindInvoicesByClientID(ctx context.Context, clientID string) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE client_id = $1 ORDER BY created_at DESC;`
	return r.queryInvoices(ctx, query, clientID)
}

// FindInvoicesByStatus retrieves all invoices in the given status.
func (r *PgxInvoiceRepository) FindInvoicesByStatus(ctx context.Context, status domain.InvoiceStatus) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE status = $1 ORDER BY created_at DESC;`
	return r.queryInvoices(ctx, query, string(status))
}

// FindOverdueInvoices retrieves SENT invoices whose due date is before asOf.
func (r *PgxInvoiceRepository) FindOverdueInvoices(ctx context.Context, asOf time.Time) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE status = 'SENT' AND due_date < $1 ORDER BY due_date ASC;`
	return r.queryInvoices(ctx, query, asOf)
}

func (r *PgxInvoiceRepository) queryInvoices(ctx context.Context, query string, args ...any) ([]domain.Invoice, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		m, scanErr := scanInvoiceRow(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", scanErr)
		}
		invoices = append(invoices, mapping.ToDomainInvoice(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoice rows: %w", err)
	}
	return invoices, nil
}

func (r *PgxInvoiceRepository) findItemsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceLineItem, error) {
	query := `
		SELECT item_id, invoice_id, description, quantity, unit_price, amount, created_at, updated_at
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY created_at ASC, item_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	var modelItems []models.InvoiceItem
	for rows.Next() {
		var m models.InvoiceItem
		if err := rows.Scan(&m.ItemID, &m.InvoiceID, &m.Description, &m.Quantity, &m.UnitPrice, &m.Amount, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan line item row: %w", err)
		}
		modelItems = append(modelItems, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate line item rows: %w", err)
	}
	return mapping.ToDomainInvoiceItemSlice(modelItems), nil
}

// scanInvoiceRow scans a row holding the invoiceColumns selection.
func scanInvoiceRow(row pgx.Row) (models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.Number,
		&m.ClientID,
		&m.IssueDate,
		&m.DueDate,
		&m.Status,
		&m.Subtotal,
		&m.TaxRate,
		&m.TaxAmount,
		&m.Total,
		&m.AmountPaid,
		&m.Balance,
		&m.Notes,
		&m.CreatedByID,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

// insertInvoiceItemsTx batch-inserts line items inside the given transaction.
func insertInvoiceItemsTx(ctx context.Context, tx pgx.Tx, items []domain.InvoiceLineItem) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	itemQuery := `
		INSERT INTO invoice_items (item_id, invoice_id, description, quantity, unit_price, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, item := range items {
		modelItem := mapping.ToModelInvoiceItem(item)
		batch.Queue(itemQuery,
			modelItem.ItemID,
			modelItem.InvoiceID,
			modelItem.Description,
			modelItem.Quantity,
			modelItem.UnitPrice,
			modelItem.Amount,
			modelItem.CreatedAt,
			modelItem.UpdatedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert line item %d: %w", i, err)
		}
	}
	return nil
}

// updateInvoiceTx updates the invoice row inside the given transaction.
// Shared with the payment repository, which persists invoice financial
// changes alongside payment rows.
func updateInvoiceTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	modelInvoice := mapping.ToModelInvoice(invoice)
	query := `
		UPDATE invoices SET
			number = $1, client_id = $2, issue_date = $3, due_date = $4, status = $5,
			subtotal = $6, tax_rate = $7, tax_amount = $8, total = $9,
			amount_paid = $10, balance = $11, notes = $12, updated_at = $13
		WHERE invoice_id = $14;
	`
	tag, err := tx.Exec(ctx, query,
		modelInvoice.Number,
		modelInvoice.ClientID,
		modelInvoice.IssueDate,
		modelInvoice.DueDate,
		modelInvoice.Status,
		modelInvoice.Subtotal,
		modelInvoice.TaxRate,
		modelInvoice.TaxAmount,
		modelInvoice.Total,
		modelInvoice.AmountPaid,
		modelInvoice.Balance,
		modelInvoice.Notes,
		modelInvoice.UpdatedAt,
		modelInvoice.InvoiceID,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice %s: %w", invoice.InvoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
