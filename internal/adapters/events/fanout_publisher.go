package events

import (
	"context"

	"github.com/invoicelab/invoicing_backend/internal/core/domain"
	portssvc "github.com/invoicelab/invoicing_backend/internal/core/ports/services"
)

// FanoutPublisher delivers every event to each wrapped publisher in order.
type FanoutPublisher struct {
	publishers []portssvc.EventPublisher
}

// NewFanoutPublisher creates a FanoutPublisher over the given publishers.
func NewFanoutPublisher(publishers ...portssvc.EventPublisher) *FanoutPublisher {
	return &FanoutPublisher{publishers: publishers}
}

// Ensure FanoutPublisher implements the portssvc.EventPublisher interface
var _ portssvc.EventPublisher = (*FanoutPublisher)(nil)

func (f *FanoutPublisher) PublishPaymentRecorded(ctx context.Context, event domain.PaymentRecordedEvent) {
	for _, p := range f.publishers {
		p.PublishPaymentRecorded(ctx, event)
	}
}

func (f *FanoutPublisher) PublishInvoiceStatusChanged(ctx context.Context, event domain.InvoiceStatusChangedEvent) {
	for _, p := range f.publishers {
		p.PublishInvoiceStatusChanged(ctx, event)
	}
}
