package dto

import (
	"time"

	"github.com/invoicelab/invoicing_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceItemRequest defines one line item in a create/update invoice request.
type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    int64           `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
}

// CreateInvoiceRequest defines the data needed to create an invoice.
type CreateInvoiceRequest struct {
	ClientID  string               `json:"clientID" binding:"required"`
	IssueDate time.Time            `json:"issueDate" binding:"required"`
	DueDate   time.Time            `json:"dueDate" binding:"required"`
	Status    string               `json:"status,omitempty"` // optional initial status, defaults to DRAFT
	TaxRate   *decimal.Decimal     `json:"taxRate,omitempty"`
	Notes     string               `json:"notes,omitempty"`
	Items     []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateInvoiceRequest defines the data allowed when updating an invoice.
// Pointer fields differentiate omitted fields from zero values; a non-nil
// Items slice replaces the invoice's line items wholesale.
type UpdateInvoiceRequest struct {
	IssueDate *time.Time            `json:"issueDate,omitempty"`
	DueDate   *time.Time            `json:"dueDate,omitempty"`
	TaxRate   *decimal.Decimal      `json:"taxRate,omitempty"`
	Notes     *string               `json:"notes,omitempty"`
	Items     *[]InvoiceItemRequest `json:"items,omitempty" binding:"omitempty,min=1,dive"`
}

// UpdateInvoiceStatusRequest defines an explicit status change command.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// InvoiceItemResponse defines the data returned for a line item.
type InvoiceItemResponse struct {
	ItemID      string          `json:"itemID"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID   string                `json:"invoiceID"`
	Number      string                `json:"number"`
	ClientID    string                `json:"clientID"`
	IssueDate   time.Time             `json:"issueDate"`
	DueDate     time.Time             `json:"dueDate"`
	Status      string                `json:"status"`
	Subtotal    decimal.Decimal       `json:"subtotal"`
	TaxRate     *decimal.Decimal      `json:"taxRate,omitempty"`
	TaxAmount   decimal.Decimal       `json:"taxAmount"`
	Total       decimal.Decimal       `json:"total"`
	AmountPaid  decimal.Decimal       `json:"amountPaid"`
	Balance     decimal.Decimal       `json:"balance"`
	Notes       string                `json:"notes,omitempty"`
	CreatedByID string                `json:"createdByID"`
	Items       []InvoiceItemResponse `json:"items"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// ListInvoicesResponse wraps a page of invoices.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToInvoiceItemResponse converts a domain.InvoiceLineItem to its DTO.
func ToInvoiceItemResponse(item *domain.InvoiceLineItem) InvoiceItemResponse {
	return InvoiceItemResponse{
		ItemID:      item.ItemID,
		Description: item.Description,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		Amount:      item.Amount,
	}
}

// ToInvoiceResponse converts a domain.Invoice to InvoiceResponse DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i := range inv.Items {
		items[i] = ToInvoiceItemResponse(&inv.Items[i])
	}
	return InvoiceResponse{
		InvoiceID:   inv.InvoiceID,
		Number:      inv.Number,
		ClientID:    inv.ClientID,
		IssueDate:   inv.IssueDate,
		DueDate:     inv.DueDate,
		Status:      string(inv.Status),
		Subtotal:    inv.Subtotal,
		TaxRate:     inv.TaxRate,
		TaxAmount:   inv.TaxAmount,
		Total:       inv.Total,
		AmountPaid:  inv.AmountPaid,
		Balance:     inv.Balance,
		Notes:       inv.Notes,
		CreatedByID: inv.CreatedByID,
		Items:       items,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}
}

// ToInvoiceResponses converts a slice of domain.Invoice to response DTOs.
func ToInvoiceResponses(invoices []domain.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses
}
