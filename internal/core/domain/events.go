package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRecordedEvent is published whenever a payment is recorded, changes
// status, or is deleted (deletion of a completed payment is published with
// status REVERSED).
type PaymentRecordedEvent struct {
	PaymentID  string          `json:"paymentID"`
	InvoiceID  string          `json:"invoiceID"`
	Amount     decimal.Decimal `json:"amount"`
	Method     PaymentMethod   `json:"method"`
	Status     PaymentStatus   `json:"status"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// InvoiceStatusChangedEvent is published after an explicit invoice status
// change is persisted.
type InvoiceStatusChangedEvent struct {
	InvoiceID      string        `json:"invoiceID"`
	PreviousStatus InvoiceStatus `json:"previousStatus"`
	NewStatus      InvoiceStatus `json:"newStatus"`
	OccurredAt     time.Time     `json:"occurredAt"`
}
