package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/invoicelab/invoicing_backend/internal/core/ports/repositories"
)

type PgxInvoiceNumberSequence struct {
	db *pgxpool.Pool
}

// newPgxInvoiceNumberSequence creates the invoice numbering sequence backed by
// a native Postgres sequence, so concurrent instances never hand out the same
// count.
func newPgxInvoiceNumberSequence(db *pgxpool.Pool) portsrepo.InvoiceNumberSequence {
	return &PgxInvoiceNumberSequence{db: db}
}

// Ensure PgxInvoiceNumberSequence implements portsrepo.InvoiceNumberSequence
var _ portsrepo.InvoiceNumberSequence = (*PgxInvoiceNumberSequence)(nil)

// NextValue returns the next running count for invoice number generation.
func (r *PgxInvoiceNumberSequence) NextValue(ctx context.Context) (int64, error) {
	var next int64
	err := r.db.QueryRow(ctx, `SELECT nextval('invoice_number_seq');`).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to advance invoice number sequence: %w", err)
	}
	return next, nil
}
