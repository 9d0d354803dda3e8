package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents a row in the payments table.
type Payment struct {
	PaymentID  string          `db:"payment_id"`
	InvoiceID  string          `db:"invoice_id"`
	Amount     decimal.Decimal `db:"amount"`
	Method     string          `db:"method"`
	Status     string          `db:"status"`
	ReceivedAt time.Time       `db:"received_at"`
	Reference  *string         `db:"reference"` // Nullable, unique when set
	AuditFields
}
