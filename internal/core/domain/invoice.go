package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount indicates a non-positive monetary input.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrOverpayment indicates a payment that would push amountPaid above the invoice total.
	ErrOverpayment = errors.New("payment amount would exceed invoice total")
	// ErrReversalExceedsPaid indicates a reversal larger than the amount paid so far.
	ErrReversalExceedsPaid = errors.New("reversal amount cannot exceed amount paid")
)

// InvoiceLineItem is a single billed line, owned exclusively by one invoice.
type InvoiceLineItem struct {
	ItemID      string          `json:"itemID"`
	InvoiceID   string          `json:"invoiceID"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"` // quantity * unitPrice
	AuditFields
}

// CalculateAmount derives the line amount from quantity and unit price.
func (it *InvoiceLineItem) CalculateAmount() {
	it.Amount = it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
}

// Invoice is the aggregate root for billing: it owns its line items and the
// monetary fields derived from them, and is the only legal place where
// amountPaid and balance move.
type Invoice struct {
	InvoiceID   string            `json:"invoiceID"`
	Number      string            `json:"number"`
	ClientID    string            `json:"clientID"`
	IssueDate   time.Time         `json:"issueDate"`
	DueDate     time.Time         `json:"dueDate"`
	Status      InvoiceStatus     `json:"status"`
	Subtotal    decimal.Decimal   `json:"subtotal"`
	TaxRate     *decimal.Decimal  `json:"taxRate,omitempty"` // percentage 0-100, nil means no tax
	TaxAmount   decimal.Decimal   `json:"taxAmount"`
	Total       decimal.Decimal   `json:"total"`
	AmountPaid  decimal.Decimal   `json:"amountPaid"`
	Balance     decimal.Decimal   `json:"balance"`
	Notes       string            `json:"notes"`
	CreatedByID string            `json:"createdByID"`
	Items       []InvoiceLineItem `json:"items"`
	AuditFields
}

// AddItem attaches a line item to the invoice. Callers must RecalcTotals
// afterwards; adding does not recompute by itself.
func (inv *Invoice) AddItem(item InvoiceLineItem) {
	item.InvoiceID = inv.InvoiceID
	inv.Items = append(inv.Items, item)
}

// RemoveItem detaches the line item with the given ID. Callers must
// RecalcTotals afterwards.
func (inv *Invoice) RemoveItem(itemID string) {
	for i, it := range inv.Items {
		if it.ItemID == itemID {
			inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
			return
		}
	}
}

// RecalcTotals recomputes subtotal, tax and total from the line items, then
// the balance. Pure in-memory computation, no I/O.
func (inv *Invoice) RecalcTotals() {
	subtotal := decimal.Zero
	for _, it := range inv.Items {
		subtotal = subtotal.Add(it.Amount)
	}
	inv.Subtotal = Round2(subtotal)

	if inv.TaxRate != nil {
		inv.TaxAmount = Round2(inv.Subtotal.Mul(inv.TaxRate.Div(decimal.NewFromInt(100))))
	} else {
		inv.TaxAmount = decimal.Zero
	}

	inv.Total = Round2(inv.Subtotal.Add(inv.TaxAmount))
	inv.RecalcBalance()
}

// RecalcBalance recomputes balance = total - amountPaid.
func (inv *Invoice) RecalcBalance() {
	inv.Balance = Round2(inv.Total.Sub(inv.AmountPaid))
}

// ApplyPayment moves amountPaid up by amount and derives the new status.
// It fails without mutating state if the amount is non-positive or would
// overpay the invoice.
func (inv *Invoice) ApplyPayment(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}

	newAmountPaid := inv.AmountPaid.Add(amount)
	if newAmountPaid.GreaterThan(inv.Total) {
		return fmt.Errorf("%w: paid %s + %s > total %s", ErrOverpayment, inv.AmountPaid, amount, inv.Total)
	}

	inv.AmountPaid = newAmountPaid
	inv.RecalcBalance()

	// Derived status change; bypasses the explicit transition table.
	if inv.Balance.IsZero() {
		inv.Status = InvoiceStatusPaid
	} else if inv.AmountPaid.GreaterThan(decimal.Zero) {
		inv.Status = InvoiceStatusPartiallyPaid
	}
	return nil
}

// ReversePayment moves amountPaid down by amount and derives the new status:
// back to SENT when nothing remains paid, PARTIALLY_PAID while a balance is
// still open. Fails without mutating state on non-positive amounts or
// reversals exceeding the amount paid.
func (inv *Invoice) ReversePayment(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}
	if amount.GreaterThan(inv.AmountPaid) {
		return fmt.Errorf("%w: reversal %s > paid %s", ErrReversalExceedsPaid, amount, inv.AmountPaid)
	}

	inv.AmountPaid = inv.AmountPaid.Sub(amount)
	inv.RecalcBalance()

	if inv.AmountPaid.IsZero() {
		inv.Status = InvoiceStatusSent
	} else if inv.Balance.GreaterThan(decimal.Zero) {
		inv.Status = InvoiceStatusPartiallyPaid
	}
	return nil
}
