package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/invoicelab/invoicing_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires up all pgx-backed repositories over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	clientRepo := newPgxClientRepository(dbPool)
	invoiceRepo := newPgxInvoiceRepository(dbPool)
	paymentRepo := newPgxPaymentRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	sequenceRepo := newPgxInvoiceNumberSequence(dbPool)

	return portsrepo.RepositoryProvider{
		ClientRepo:   clientRepo,
		InvoiceRepo:  invoiceRepo,
		PaymentRepo:  paymentRepo,
		UserRepo:     userRepo,
		SequenceRepo: sequenceRepo,
	}
}
