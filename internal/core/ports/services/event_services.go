package services

import (
	"context"

	"github.com/invoicelab/invoicing_backend/internal/core/domain"
)

// EventPublisher publishes domain events after state changes are persisted.
// Publishing is best effort. Implementations must not fail the calling
// operation and must not block it for long.
type EventPublisher interface {
	PublishPaymentRecorded(ctx context.Context, event domain.PaymentRecordedEvent)
	PublishInvoiceStatusChanged(ctx context.Context, event domain.InvoiceStatusChangedEvent)
}
