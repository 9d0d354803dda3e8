package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/invoicelab/invoicing_backend/internal/apperrors"
	"github.com/invoicelab/invoicing_backend/internal/core/domain"
	portsrepo "github.com/invoicelab/invoicing_backend/internal/core/ports/repositories"
	portssvc "github.com/invoicelab/invoicing_backend/internal/core/ports/services"
	"github.com/invoicelab/invoicing_backend/internal/dto"
	"github.com/invoicelab/invoicing_backend/internal/middleware"
)

// invoiceNumberFormat produces numbers like INV-2026-0042.
const invoiceNumberFormat = "INV-%d-%04d"

// InvoiceService handles business logic related to invoices.
type InvoiceService struct {
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	clientRepo  portsrepo.ClientReader
	userRepo    portsrepo.UserReader
	sequence    portsrepo.InvoiceNumberSequence
	publisher   portssvc.EventPublisher
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(
	ir portsrepo.InvoiceRepositoryFacade,
	cr portsrepo.ClientReader,
	ur portsrepo.UserReader,
	seq portsrepo.InvoiceNumberSequence,
	pub portssvc.EventPublisher,
) portssvc.InvoiceSvcFacade {
	return &InvoiceService{
		invoiceRepo: ir,
		clientRepo:  cr,
		userRepo:    ur,
		sequence:    seq,
		publisher:   pub,
	}
}

// Ensure InvoiceService implements the portssvc.InvoiceSvcFacade interface
var _ portssvc.InvoiceSvcFacade = (*InvoiceService)(nil)

// CreateInvoice validates the request, generates a unique invoice number,
// computes totals from the line items and persists the new invoice.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.DueDate.Before(req.IssueDate) {
		return nil, fmt.Errorf("%w: due date %s is before issue date %s", apperrors.ErrValidation,
			req.DueDate.Format(time.DateOnly), req.IssueDate.Format(time.DateOnly))
	}
	if req.TaxRate != nil && req.TaxRate.IsNegative() {
		return nil, fmt.Errorf("%w: tax rate cannot be negative", apperrors.ErrValidation)
	}

	initialStatus := domain.InvoiceStatusDraft
	if req.Status != "" {
		parsed, err := domain.ParseInvoiceStatus(req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		initialStatus = parsed
	}

	// Validate the client exists
	exists, err := s.clientRepo.ExistsByID(ctx, req.ClientID)
	if err != nil {
		logger.Error("Failed to check client existence", slog.String("error", err.Error()), slog.String("client_id", req.ClientID))
		return nil, fmt.Errorf("failed to validate client: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: client %s not found", apperrors.ErrValidation, req.ClientID)
	}

	// Validate the creator exists
	if creatorUserID != "" {
		if _, err := s.userRepo.FindUserByID(ctx, creatorUserID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: user %s not found", apperrors.ErrValidation, creatorUserID)
			}
			logger.Error("Failed to check creator existence", slog.String("error", err.Error()), slog.String("user_id", creatorUserID))
			return nil, fmt.Errorf("failed to validate creator: %w", err)
		}
	}

	number, err := s.nextInvoiceNumber(ctx, req.IssueDate)
	if err != nil {
		logger.Error("Failed to generate invoice number", slog.String("error", err.Error()))
		return nil, err
	}

	now := time.Now()
	invoice := domain.Invoice{
		InvoiceID:   uuid.NewString(),
		Number:      number,
		ClientID:    req.ClientID,
		IssueDate:   req.IssueDate,
		DueDate:     req.DueDate,
		Status:      initialStatus,
		TaxRate:     req.TaxRate,
		Notes:       req.Notes,
		CreatedByID: creatorUserID,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	items, err := buildLineItems(invoice.InvoiceID, req.Items, now)
	if err != nil {
		return nil, err
	}
	invoice.Items = items
	invoice.RecalcTotals()

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		logger.Error("Failed to save invoice in repository", slog.String("error", err.Error()), slog.String("invoice_number", number))
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	logger.Info("Invoice created successfully",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("invoice_number", number),
		slog.String("total", invoice.Total.String()),
	)
	return &invoice, nil
}

// nextInvoiceNumber draws from the numbering sequence until it lands on a
// number no existing invoice carries. The sequence only ever moves forward,
// so a collision means another instance consumed the count first.
func (s *InvoiceService) nextInvoiceNumber(ctx context.Context, issueDate time.Time) (string, error) {
	for {
		next, err := s.sequence.NextValue(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to advance invoice number sequence: %w", err)
		}
		number := fmt.Sprintf(invoiceNumberFormat, issueDate.Year(), next)

		exists, err := s.invoiceRepo.ExistsByNumber(ctx, number)
		if err != nil {
			return "", fmt.Errorf("failed to check invoice number uniqueness: %w", err)
		}
		if !exists {
			return number, nil
		}
	}
}

// buildLineItems converts request items into domain line items with derived
// amounts.
func buildLineItems(invoiceID string, reqs []dto.InvoiceItemRequest, now time.Time) ([]domain.InvoiceLineItem, error) {
	items := make([]domain.InvoiceLineItem, 0, len(reqs))
	for _, r := range reqs {
		if r.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be positive", apperrors.ErrValidation)
		}
		if r.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: item unit price cannot be negative", apperrors.ErrValidation)
		}
		item := domain.InvoiceLineItem{
			ItemID:      uuid.NewString(),
			InvoiceID:   invoiceID,
			Description: r.Description,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			AuditFields: domain.AuditFields{
				CreatedAt: now,
				UpdatedAt: now,
			},
		}
		item.CalculateAmount()
		items = append(items, item)
	}
	return items, nil
}

// GetInvoiceByID retrieves a single invoice with its line items.
func (s *InvoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to retrieve invoice %s: %w", invoiceID, err)
	}
	return invoice, nil
}

// GetInvoiceByNumber retrieves a single invoice by its unique number.
func (s *InvoiceService) GetInvoiceByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to retrieve invoice by number %s: %w", number, err)
	}
	return invoice, nil
}

// ListInvoices retrieves a page of invoices.
func (s *InvoiceService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	invoices, nextToken, err := s.invoiceRepo.ListInvoices(ctx, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	return &dto.ListInvoicesResponse{
		Invoices:  dto.ToInvoiceResponses(invoices),
		NextToken: nextToken,
	}, nil
}

// ListInvoicesByClient retrieves all invoices for a client.
func (s *InvoiceService) ListInvoicesByClient(ctx context.Context, clientID string) ([]domain.Invoice, error) {
	invoices, err := s.invoiceRepo.FindInvoicesByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices for client %s: %w", clientID, err)
	}
	return invoices, nil
}

// ListInvoicesByStatus retrieves all invoices in the given status.
func (s *InvoiceService) ListInvoicesByStatus(ctx context.Context, status domain.InvoiceStatus) ([]domain.Invoice, error) {
	invoices, err := s.invoiceRepo.FindInvoicesByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices by status %s: %w", status, err)
	}
	return invoices, nil
}

// ListOverdueInvoices retrieves SENT invoices whose due date has passed.
func (s *InvoiceService) ListOverdueInvoices(ctx context.Context) ([]domain.Invoice, error) {
	invoices, err := s.invoiceRepo.FindOverdueInvoices(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue invoices: %w", err)
	}
	return invoices, nil
}

// UpdateInvoice updates mutable fields of an invoice and, when the request
// carries items, replaces the line items wholesale and recomputes totals.
// Invoices that are PAID or CANCELED reject updates.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to retrieve invoice %s for update: %w", invoiceID, err)
	}

	if invoice.Status == domain.InvoiceStatusPaid || invoice.Status == domain.InvoiceStatusCanceled {
		return nil, fmt.Errorf("%w: cannot update invoice in status %s", apperrors.ErrValidation, invoice.Status)
	}

	if req.IssueDate != nil {
		invoice.IssueDate = *req.IssueDate
	}
	if req.DueDate != nil {
		invoice.DueDate = *req.DueDate
	}
	if invoice.DueDate.Before(invoice.IssueDate) {
		return nil, fmt.Errorf("%w: due date %s is before issue date %s", apperrors.ErrValidation,
			invoice.DueDate.Format(time.DateOnly), invoice.IssueDate.Format(time.DateOnly))
	}
	if req.TaxRate != nil {
		if req.TaxRate.IsNegative() {
			return nil, fmt.Errorf("%w: tax rate cannot be negative", apperrors.ErrValidation)
		}
		invoice.TaxRate = req.TaxRate
	}
	if req.Notes != nil {
		invoice.Notes = *req.Notes
	}

	now := time.Now()
	if req.Items != nil {
		items, err := buildLineItems(invoice.InvoiceID, *req.Items, now)
		if err != nil {
			return nil, err
		}
		invoice.Items = items
	}

	// Totals move with the items and tax rate; amountPaid stays untouched.
	invoice.RecalcTotals()
	if invoice.AmountPaid.GreaterThan(invoice.Total) {
		return nil, fmt.Errorf("%w: new total %s is below amount already paid %s", apperrors.ErrValidation,
			invoice.Total, invoice.AmountPaid)
	}
	invoice.UpdatedAt = now

	if err := s.invoiceRepo.UpdateInvoice(ctx, *invoice); err != nil {
		logger.Error("Failed to update invoice in repository", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	logger.Info("Invoice updated successfully", slog.String("invoice_id", invoiceID))
	return invoice, nil
}

// UpdateInvoiceStatus applies an explicit status change after checking the
// invoice state machine, persists it and publishes an event. A no-op change
// returns the invoice without persisting or publishing.
func (s *InvoiceService) UpdateInvoiceStatus(ctx context.Context, invoiceID string, newStatus domain.InvoiceStatus) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to retrieve invoice %s for status update: %w", invoiceID, err)
	}

	previous := invoice.Status
	if previous == newStatus {
		return invoice, nil
	}

	if err := domain.ValidateInvoiceStatusTransition(previous, newStatus); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	now := time.Now()
	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID, newStatus, now); err != nil {
		logger.Error("Failed to update invoice status in repository", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}
	invoice.Status = newStatus
	invoice.UpdatedAt = now

	s.publisher.PublishInvoiceStatusChanged(ctx, domain.InvoiceStatusChangedEvent{
		InvoiceID:      invoiceID,
		PreviousStatus: previous,
		NewStatus:      newStatus,
		OccurredAt:     now,
	})

	logger.Info("Invoice status updated",
		slog.String("invoice_id", invoiceID),
		slog.String("from", string(previous)),
		slog.String("to", string(newStatus)),
	)
	return invoice, nil
}

// DeleteInvoice removes an invoice and its line items.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, invoiceID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to retrieve invoice %s for deletion: %w", invoiceID, err)
	}

	if err := s.invoiceRepo.DeleteInvoice(ctx, invoiceID); err != nil {
		logger.Error("Failed to delete invoice in repository", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	logger.Info("Invoice deleted", slog.String("invoice_id", invoiceID))
	return nil
}
