package events

import (
	"context"
	"log/slog"

	"github.com/invoicelab/invoicing_backend/internal/core/domain"
	portssvc "github.com/invoicelab/invoicing_backend/internal/core/ports/services"
)

// SlogPublisher writes domain events to the structured log. Used as the
// default publisher when no analytics sink is configured, and handy in
// development.
type SlogPublisher struct {
	logger *slog.Logger
}

// NewSlogPublisher creates a SlogPublisher.
func NewSlogPublisher(logger *slog.Logger) *SlogPublisher {
	return &SlogPublisher{logger: logger}
}

// Ensure SlogPublisher implements the portssvc.EventPublisher interface
var _ portssvc.EventPublisher = (*SlogPublisher)(nil)

func (p *SlogPublisher) PublishPaymentRecorded(_ context.Context, event domain.PaymentRecordedEvent) {
	p.logger.Info("event: payment recorded",
		slog.String("payment_id", event.PaymentID),
		slog.String("invoice_id", event.InvoiceID),
		slog.String("amount", event.Amount.String()),
		slog.String("method", string(event.Method)),
		slog.String("status", string(event.Status)),
		slog.Time("occurred_at", event.OccurredAt),
	)
}

func (p *SlogPublisher) PublishInvoiceStatusChanged(_ context.Context, event domain.InvoiceStatusChangedEvent) {
	p.logger.Info("event: invoice status changed",
		slog.String("invoice_id", event.InvoiceID),
		slog.String("previous_status", string(event.PreviousStatus)),
		slog.String("new_status", string(event.NewStatus)),
		slog.Time("occurred_at", event.OccurredAt),
	)
}
