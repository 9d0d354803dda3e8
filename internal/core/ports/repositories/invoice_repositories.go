package repositories

import (
	"context"
	"time"

	"github.com/invoicelab/invoicing_backend/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data.
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice, including its line items.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// FindInvoiceByNumber retrieves an invoice by its unique number.
	FindInvoiceByNumber(ctx context.Context, number string) (*domain.Invoice, error)

	// ListInvoices retrieves a paginated list of invoices using token-based
	// pagination. It returns the invoices, a token for the next page, and an error.
	ListInvoices(ctx context.Context, limit int, nextToken *string) ([]domain.Invoice, *string, error)

	// FindInvoicesByClientID retrieves all invoices for a client.
	FindInvoicesByClientID(ctx context.Context, clientID string) ([]domain.Invoice, error)

	// FindInvoicesByStatus retrieves all invoices in the given status.
	FindInvoicesByStatus(ctx context.Context, status domain.InvoiceStatus) ([]domain.Invoice, error)

	// FindOverdueInvoices retrieves SENT invoices whose due date is before asOf.
	FindOverdueInvoices(ctx context.Context, asOf time.Time) ([]domain.Invoice, error)

	// ExistsByNumber reports whether an invoice with the given number exists.
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}

// InvoiceWriter defines write operations for invoice data.
type InvoiceWriter interface {
	// SaveInvoice inserts a new invoice together with its line items.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// UpdateInvoice updates an invoice and replaces its line items.
	UpdateInvoice(ctx context.Context, invoice domain.Invoice) error

	// UpdateInvoiceStatus updates only the status column of an invoice.
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, updatedAt time.Time) error

	// DeleteInvoice removes an invoice and, via cascade, its line items.
	DeleteInvoice(ctx context.Context, invoiceID string) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}

// InvoiceNumberSequence hands out the next value of the invoice numbering
// sequence. Injected into the invoice service so numbering carries no global
// mutable state.
type InvoiceNumberSequence interface {
	// NextValue returns the next running count for invoice number generation.
	NextValue(ctx context.Context) (int64, error)
}
