package services

import (
	"context"

	"github.com/invoicelab/invoicing_backend/internal/core/domain"
	"github.com/invoicelab/invoicing_backend/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoice data.
type InvoiceReaderSvc interface {
	// GetInvoiceByID retrieves an invoice with its line items.
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// GetInvoiceByNumber retrieves an invoice by its unique number.
	GetInvoiceByNumber(ctx context.Context, number string) (*domain.Invoice, error)

	// ListInvoices retrieves a paginated list of invoices.
	ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)

	// ListInvoicesByClient retrieves all invoices for a client.
	ListInvoicesByClient(ctx context.Context, clientID string) ([]domain.Invoice, error)

	// ListInvoicesByStatus retrieves all invoices in a given status.
	ListInvoicesByStatus(ctx context.Context, status domain.InvoiceStatus) ([]domain.Invoice, error)

	// ListOverdueInvoices retrieves SENT invoices past their due date.
	ListOverdueInvoices(ctx context.Context) ([]domain.Invoice, error)
}

// InvoiceWriterSvc defines write operations for invoice data.
type InvoiceWriterSvc interface {
	// CreateInvoice validates the command, builds the line items, computes
	// totals and persists the new invoice with a generated number.
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error)

	// UpdateInvoice updates mutable fields and optionally replaces line items,
	// recomputing totals while preserving the amount paid.
	UpdateInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest) (*domain.Invoice, error)

	// UpdateInvoiceStatus applies an explicit status change after validating it
	// against the invoice state machine, then publishes an event.
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, newStatus domain.InvoiceStatus) (*domain.Invoice, error)

	// DeleteInvoice removes an invoice and its line items.
	DeleteInvoice(ctx context.Context, invoiceID string) error
}

// InvoiceSvcFacade combines all invoice-related service interfaces.
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
}
