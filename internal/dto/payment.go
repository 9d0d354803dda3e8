package dto

import (
	"time"

	"github.com/invoicelab/invoicing_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest defines the data needed to record a payment against an
// invoice.
type RecordPaymentRequest struct {
	InvoiceID  string          `json:"invoiceID" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Method     string          `json:"method" binding:"required"`
	Status     string          `json:"status,omitempty"` // optional, defaults to PENDING
	ReceivedAt *time.Time      `json:"receivedAt,omitempty"`
	Reference  string          `json:"reference,omitempty"`
}

// UpdatePaymentStatusRequest defines a payment status change command.
type UpdatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListPaymentsParams defines query parameters for listing payments.
type ListPaymentsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID  string          `json:"paymentID"`
	InvoiceID  string          `json:"invoiceID"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Status     string          `json:"status"`
	ReceivedAt time.Time       `json:"receivedAt"`
	Reference  string          `json:"reference,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// ListPaymentsResponse wraps a page of payments.
type ListPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:  p.PaymentID,
		InvoiceID:  p.InvoiceID,
		Amount:     p.Amount,
		Method:     string(p.Method),
		Status:     string(p.Status),
		ReceivedAt: p.ReceivedAt,
		Reference:  p.Reference,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// ToPaymentResponses converts a slice of domain.Payment to response DTOs.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses
}
