package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice represents a row in the invoices table.
type Invoice struct {
	InvoiceID   string           `db:"invoice_id"`
	Number      string           `db:"number"`
	ClientID    string           `db:"client_id"`
	IssueDate   time.Time        `db:"issue_date"`
	DueDate     time.Time        `db:"due_date"`
	Status      string           `db:"status"`
	Subtotal    decimal.Decimal  `db:"subtotal"`
	TaxRate     *decimal.Decimal `db:"tax_rate"` // Nullable
	TaxAmount   decimal.Decimal  `db:"tax_amount"`
	Total       decimal.Decimal  `db:"total"`
	AmountPaid  decimal.Decimal  `db:"amount_paid"`
	Balance     decimal.Decimal  `db:"balance"`
	Notes       string           `db:"notes"`
	CreatedByID string           `db:"created_by_id"`
	AuditFields
}

// InvoiceItem represents a row in the invoice_items table.
type InvoiceItem struct {
	ItemID      string          `db:"item_id"`
	InvoiceID   string          `db:"invoice_id"`
	Description string          `db:"description"`
	Quantity    int64           `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Amount      decimal.Decimal `db:"amount"`
	AuditFields
}
