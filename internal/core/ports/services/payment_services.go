package services

import (
	"context"

	"github.com/invoicelab/invoicing_backend/internal/core/domain"
	"github.com/invoicelab/invoicing_backend/internal/dto"
)

// PaymentReaderSvc defines read operations for payment data.
type PaymentReaderSvc interface {
	// GetPaymentByID retrieves a single payment.
	GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPayments retrieves a paginated list of payments.
	ListPayments(ctx context.Context, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error)

	// ListPaymentsByInvoice retrieves all payments recorded against an invoice.
	ListPaymentsByInvoice(ctx context.Context, invoiceID string) ([]domain.Payment, error)
}

// PaymentWriterSvc defines write operations for payment data.
type PaymentWriterSvc interface {
	// RecordPayment records a payment against an invoice. A COMPLETED payment
	// is applied to the invoice financials in the same transaction.
	RecordPayment(ctx context.Context, req dto.RecordPaymentRequest) (*domain.Payment, error)

	// UpdatePaymentStatus moves a payment through its lifecycle and applies or
	// reverses the invoice effect as needed.
	UpdatePaymentStatus(ctx context.Context, paymentID string, newStatus domain.PaymentStatus) (*domain.Payment, error)

	// DeletePayment removes a payment, reversing its invoice effect when it
	// had been completed. Reversed payments cannot be deleted.
	DeletePayment(ctx context.Context, paymentID string) error
}

// PaymentSvcFacade combines all payment-related service interfaces.
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}
