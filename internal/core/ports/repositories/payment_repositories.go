package repositories

import (
	"context"

	"github.com/invoicelab/invoicing_backend/internal/core/domain"
)

// PaymentReader defines read operations for payment data.
type PaymentReader interface {
	// FindPaymentByID retrieves a payment by its unique identifier.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPayments retrieves a paginated list of payments using token-based
	// pagination. It returns the payments, a token for the next page, and an error.
	ListPayments(ctx context.Context, limit int, nextToken *string) ([]domain.Payment, *string, error)

	// FindPaymentsByInvoiceID retrieves all payments recorded against an invoice.
	FindPaymentsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.Payment, error)

	// ExistsByReference reports whether a payment with the given reference exists.
	ExistsByReference(ctx context.Context, reference string) (bool, error)
}

// PaymentWriter defines write operations for payment data. Methods that also
// take an invoice persist payment and invoice inside a single database
// transaction, keeping the read-modify-write of the invoice's financial
// fields atomic per invoice.
type PaymentWriter interface {
	// SavePayment inserts a payment; when invoice is non-nil its financial
	// fields and status are updated in the same transaction.
	SavePayment(ctx context.Context, payment domain.Payment, invoice *domain.Invoice) error

	// UpdatePayment updates a payment's status; when invoice is non-nil its
	// financial fields and status are updated in the same transaction.
	UpdatePayment(ctx context.Context, payment domain.Payment, invoice *domain.Invoice) error

	// DeletePayment removes a payment; when invoice is non-nil its financial
	// fields and status are updated in the same transaction.
	DeletePayment(ctx context.Context, payment domain.Payment, invoice *domain.Invoice) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
