// Package events provides EventPublisher adapters. Publishing is best effort;
// no adapter fails or blocks the calling operation.
package events

import (
	"context"
	"log/slog"

	"github.com/posthog/posthog-go"

	"github.com/invoicelab/invoicing_backend/internal/core/domain"
	portssvc "github.com/invoicelab/invoicing_backend/internal/core/ports/services"
)

// PosthogPublisher forwards domain events to PostHog as analytics captures.
// When the API key is empty the publisher is a no-op, so callers never need
// to check whether analytics is configured.
type PosthogPublisher struct {
	client posthog.Client
	logger *slog.Logger
}

// NewPosthogPublisher creates a PosthogPublisher. An empty apiKey yields a
// disabled publisher.
func NewPosthogPublisher(apiKey string, logger *slog.Logger) *PosthogPublisher {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, event publishing to posthog disabled.")
		return &PosthogPublisher{logger: logger}
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: "https://eu.i.posthog.com"})
	if err != nil {
		logger.Error("Failed to initialize posthog client", slog.String("error", err.Error()))
		return &PosthogPublisher{logger: logger}
	}
	return &PosthogPublisher{client: client, logger: logger}
}

// Ensure PosthogPublisher implements the portssvc.EventPublisher interface
var _ portssvc.EventPublisher = (*PosthogPublisher)(nil)

func (p *PosthogPublisher) PublishPaymentRecorded(_ context.Context, event domain.PaymentRecordedEvent) {
	if p.client == nil {
		return
	}
	err := p.client.Enqueue(posthog.Capture{
		DistinctId: event.InvoiceID,
		Event:      "payment_recorded",
		Properties: map[string]any{
			"payment_id": event.PaymentID,
			"invoice_id": event.InvoiceID,
			"amount":     event.Amount.String(),
			"method":     string(event.Method),
			"status":     string(event.Status),
		},
	})
	if err != nil {
		p.logger.Warn("Failed to enqueue payment event", slog.String("error", err.Error()))
	}
}

func (p *PosthogPublisher) PublishInvoiceStatusChanged(_ context.Context, event domain.InvoiceStatusChangedEvent) {
	if p.client == nil {
		return
	}
	err := p.client.Enqueue(posthog.Capture{
		DistinctId: event.InvoiceID,
		Event:      "invoice_status_changed",
		Properties: map[string]any{
			"invoice_id":      event.InvoiceID,
			"previous_status": string(event.PreviousStatus),
			"new_status":      string(event.NewStatus),
		},
	})
	if err != nil {
		p.logger.Warn("Failed to enqueue invoice status event", slog.String("error", err.Error()))
	}
}

// Close flushes and shuts down the underlying client.
func (p *PosthogPublisher) Close() {
	if p.client == nil {
		return
	}
	p.client.Close()
}
