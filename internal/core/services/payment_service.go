package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invoicelab/invoicing_backend/internal/apperrors"
	"github.com/invoicelab/invoicing_backend/internal/core/domain"
	portsrepo "github.com/invoicelab/invoicing_backend/internal/core/ports/repositories"
	portssvc "github.com/invoicelab/invoicing_backend/internal/core/ports/services"
	"github.com/invoicelab/invoicing_backend/internal/dto"
	"github.com/invoicelab/invoicing_backend/internal/middleware"
)

// PaymentService handles recording payments and keeping invoice financials in
// step with their payments.
type PaymentService struct {
	paymentRepo portsrepo.PaymentRepositoryFacade
	invoiceRepo portsrepo.InvoiceReader
	publisher   portssvc.EventPublisher
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	pr portsrepo.PaymentRepositoryFacade,
	ir portsrepo.InvoiceReader,
	pub portssvc.EventPublisher,
) portssvc.PaymentSvcFacade {
	return &PaymentService{
		paymentRepo: pr,
		invoiceRepo: ir,
		publisher:   pub,
	}
}

// Ensure PaymentService implements the portssvc.PaymentSvcFacade interface
var _ portssvc.PaymentSvcFacade = (*PaymentService)(nil)

// RecordPayment records a payment against an invoice. The payment amount must
// be positive, at most the invoice's remaining balance, and the invoice must
// accept payments in its current status. A COMPLETED payment is applied to
// the invoice in the same database transaction; a PENDING one only recorded.
func (s *PaymentService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	method, err := domain.ParsePaymentMethod(req.Method)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	status := domain.PaymentStatusPending
	if req.Status != "" {
		parsed, err := domain.ParsePaymentStatus(req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		if parsed == domain.PaymentStatusReversed {
			return nil, fmt.Errorf("%w: cannot record a payment as REVERSED", apperrors.ErrValidation)
		}
		status = parsed
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, req.InvoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to retrieve invoice %s: %w", req.InvoiceID, err)
	}

	if invoice.Status == domain.InvoiceStatusPaid || invoice.Status == domain.InvoiceStatusCanceled {
		return nil, fmt.Errorf("%w: invoice %s does not accept payments in status %s",
			apperrors.ErrValidation, invoice.InvoiceID, invoice.Status)
	}

	// Remaining is derived from the financial fields, never from the status.
	remaining := invoice.Total.Sub(invoice.AmountPaid)
	if req.Amount.GreaterThan(remaining) {
		return nil, fmt.Errorf("%w: payment %s exceeds remaining balance %s",
			domain.ErrOverpayment, req.Amount, remaining)
	}

	if req.Reference != "" {
		exists, err := s.paymentRepo.ExistsByReference(ctx, req.Reference)
		if err != nil {
			logger.Error("Failed to check payment reference uniqueness", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to check payment reference: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: payment reference %q already exists", apperrors.ErrDuplicate, req.Reference)
		}
	}

	now := time.Now()
	receivedAt := now
	if req.ReceivedAt != nil {
		receivedAt = *req.ReceivedAt
	}

	payment := domain.Payment{
		PaymentID:  uuid.NewString(),
		InvoiceID:  invoice.InvoiceID,
		Amount:     domain.Round2(req.Amount),
		Method:     method,
		Status:     status,
		ReceivedAt: receivedAt,
		Reference:  req.Reference,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	// Only a completed payment moves the invoice financials.
	var invoiceUpdate *domain.Invoice
	if status == domain.PaymentStatusCompleted {
		if err := invoice.ApplyPayment(payment.Amount); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		invoice.UpdatedAt = now
		invoiceUpdate = invoice
	}

	if err := s.paymentRepo.SavePayment(ctx, payment, invoiceUpdate); err != nil {
		logger.Error("Failed to save payment in repository", slog.String("error", err.Error()), slog.String("invoice_id", invoice.InvoiceID))
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.publisher.PublishPaymentRecorded(ctx, domain.PaymentRecordedEvent{
		PaymentID:  payment.PaymentID,
		InvoiceID:  payment.InvoiceID,
		Amount:     payment.Amount,
		Method:     payment.Method,
		Status:     payment.Status,
		OccurredAt: now,
	})

	logger.Info("Payment recorded",
		slog.String("payment_id", payment.PaymentID),
		slog.String("invoice_id", payment.InvoiceID),
		slog.String("amount", payment.Amount.String()),
		slog.String("status", string(payment.Status)),
	)
	return &payment, nil
}

// UpdatePaymentStatus moves a payment through its lifecycle. Completing a
// PENDING payment applies it to the invoice; reversing a COMPLETED payment
// backs it out. Payment and invoice changes persist in one transaction.
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, paymentID string, newStatus domain.PaymentStatus) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to retrieve payment %s: %w", paymentID, err)
	}

	if payment.Status == newStatus {
		return payment, nil
	}
	if err := domain.ValidatePaymentStatusTransition(payment.Status, newStatus); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, payment.InvoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve invoice %s for payment %s: %w", payment.InvoiceID, paymentID, err)
	}

	now := time.Now()
	var invoiceUpdate *domain.Invoice

	switch newStatus {
	case domain.PaymentStatusCompleted:
		if err := invoice.ApplyPayment(payment.Amount); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		invoice.UpdatedAt = now
		invoiceUpdate = invoice

	case domain.PaymentStatusReversed:
		// The invoice row may predate this payment's application, for
		// example after a partial restore. Re-apply before reversing so
		// the reversal never drives amountPaid negative.
		if invoice.AmountPaid.LessThan(payment.Amount) {
			if err := invoice.ApplyPayment(payment.Amount); err != nil {
				return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
			}
		}
		if err := invoice.ReversePayment(payment.Amount); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		invoice.UpdatedAt = now
		invoiceUpdate = invoice
	}

	payment.Status = newStatus
	payment.UpdatedAt = now

	if err := s.paymentRepo.UpdatePayment(ctx, *payment, invoiceUpdate); err != nil {
		logger.Error("Failed to update payment in repository", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	s.publisher.PublishPaymentRecorded(ctx, domain.PaymentRecordedEvent{
		PaymentID:  payment.PaymentID,
		InvoiceID:  payment.InvoiceID,
		Amount:     payment.Amount,
		Method:     payment.Method,
		Status:     payment.Status,
		OccurredAt: now,
	})

	logger.Info("Payment status updated",
		slog.String("payment_id", paymentID),
		slog.String("to", string(newStatus)),
	)
	return payment, nil
}

// DeletePayment removes a payment. Deleting a COMPLETED payment reverses its
// effect on the invoice first; a REVERSED payment is immutable and cannot be
// deleted. The deletion of a completed payment publishes an event carrying
// status REVERSED, since that is the financial effect observers care about.
func (s *PaymentService) DeletePayment(ctx context.Context, paymentID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to retrieve payment %s: %w", paymentID, err)
	}

	if payment.Status == domain.PaymentStatusReversed {
		return fmt.Errorf("%w: cannot delete a reversed payment", apperrors.ErrValidation)
	}

	now := time.Now()
	var invoiceUpdate *domain.Invoice

	if payment.Status == domain.PaymentStatusCompleted {
		invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, payment.InvoiceID)
		if err != nil {
			return fmt.Errorf("failed to retrieve invoice %s for payment %s: %w", payment.InvoiceID, paymentID, err)
		}
		if invoice.AmountPaid.LessThan(payment.Amount) {
			if err := invoice.ApplyPayment(payment.Amount); err != nil {
				return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
			}
		}
		if err := invoice.ReversePayment(payment.Amount); err != nil {
			return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		invoice.UpdatedAt = now
		invoiceUpdate = invoice
	}

	if err := s.paymentRepo.DeletePayment(ctx, *payment, invoiceUpdate); err != nil {
		logger.Error("Failed to delete payment in repository", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return fmt.Errorf("failed to delete payment: %w", err)
	}

	eventStatus := payment.Status
	if payment.Status == domain.PaymentStatusCompleted {
		eventStatus = domain.PaymentStatusReversed
	}
	s.publisher.PublishPaymentRecorded(ctx, domain.PaymentRecordedEvent{
		PaymentID:  payment.PaymentID,
		InvoiceID:  payment.InvoiceID,
		Amount:     payment.Amount,
		Method:     payment.Method,
		Status:     eventStatus,
		OccurredAt: now,
	})

	logger.Info("Payment deleted",
		slog.String("payment_id", paymentID),
		slog.String("invoice_id", payment.InvoiceID),
	)
	return nil
}

// GetPaymentByID retrieves a single payment.
func (s *PaymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to retrieve payment %s: %w", paymentID, err)
	}
	return payment, nil
}

// ListPayments retrieves a page of payments.
func (s *PaymentService) ListPayments(ctx context.Context, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	payments, nextToken, err := s.paymentRepo.ListPayments(ctx, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return &dto.ListPaymentsResponse{
		Payments:  dto.ToPaymentResponses(payments),
		NextToken: nextToken,
	}, nil
}

// ListPaymentsByInvoice retrieves all payments recorded against an invoice.
func (s *PaymentService) ListPaymentsByInvoice(ctx context.Context, invoiceID string) ([]domain.Payment, error) {
	payments, err := s.paymentRepo.FindPaymentsByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments for invoice %s: %w", invoiceID, err)
	}
	return payments, nil
}
