package domain_test

import (
	"testing"

	"github.com/invoicelab/invoicing_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func newItem(qty int64, unitPrice string) domain.InvoiceLineItem {
	item := domain.InvoiceLineItem{
		ItemID:    "item-" + unitPrice,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString(unitPrice),
	}
	item.CalculateAmount()
	return item
}

func TestInvoice_RecalcTotals(t *testing.T) {
	tests := []struct {
		name         string
		items        []domain.InvoiceLineItem
		taxRate      *decimal.Decimal
		wantSubtotal string
		wantTax      string
		wantTotal    string
	}{
		{
			name: "two items with 10 percent tax",
			items: []domain.InvoiceLineItem{
				newItem(2, "100.00"),
				newItem(1, "50.00"),
			},
			taxRate:      decimalPtr(decimal.NewFromInt(10)),
			wantSubtotal: "250.00",
			wantTax:      "25.00",
			wantTotal:    "275.00",
		},
		{
			name: "nil tax rate yields zero tax",
			items: []domain.InvoiceLineItem{
				newItem(3, "19.99"),
			},
			taxRate:      nil,
			wantSubtotal: "59.97",
			wantTax:      "0",
			wantTotal:    "59.97",
		},
		{
			name:         "no items",
			items:        nil,
			taxRate:      decimalPtr(decimal.NewFromInt(21)),
			wantSubtotal: "0.00",
			wantTax:      "0.00",
			wantTotal:    "0.00",
		},
		{
			name: "tax amount is rounded half up",
			items: []domain.InvoiceLineItem{
				newItem(1, "10.33"),
			},
			taxRate:      decimalPtr(decimal.NewFromInt(15)), // 1.5495 -> 1.55
			wantSubtotal: "10.33",
			wantTax:      "1.55",
			wantTotal:    "11.88",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := domain.Invoice{TaxRate: tt.taxRate}
			for _, it := range tt.items {
				inv.AddItem(it)
			}
			inv.RecalcTotals()

			assert.True(t, inv.Subtotal.Equal(decimal.RequireFromString(tt.wantSubtotal)), "subtotal %s", inv.Subtotal)
			assert.True(t, inv.TaxAmount.Equal(decimal.RequireFromString(tt.wantTax)), "taxAmount %s", inv.TaxAmount)
			assert.True(t, inv.Total.Equal(decimal.RequireFromString(tt.wantTotal)), "total %s", inv.Total)
			// total == subtotal + taxAmount holds after every recomputation
			assert.True(t, inv.Total.Equal(inv.Subtotal.Add(inv.TaxAmount)))
			// balance == total - amountPaid
			assert.True(t, inv.Balance.Equal(inv.Total.Sub(inv.AmountPaid)))
		})
	}
}

func TestInvoice_AddRemoveItem(t *testing.T) {
	inv := domain.Invoice{InvoiceID: "inv-1"}
	first := newItem(2, "100.00")
	second := newItem(1, "50.00")
	inv.AddItem(first)
	inv.AddItem(second)

	require.Len(t, inv.Items, 2)
	assert.Equal(t, "inv-1", inv.Items[0].InvoiceID, "item back-reference set on add")

	inv.RemoveItem(first.ItemID)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, second.ItemID, inv.Items[0].ItemID)

	// Removing an unknown item is a no-op.
	inv.RemoveItem("missing")
	assert.Len(t, inv.Items, 1)
}

func paidInvoice(total string, status domain.InvoiceStatus) domain.Invoice {
	return domain.Invoice{
		InvoiceID:  "inv-1",
		Status:     status,
		Subtotal:   decimal.RequireFromString(total),
		Total:      decimal.RequireFromString(total),
		AmountPaid: decimal.Zero,
		Balance:    decimal.RequireFromString(total),
	}
}

func TestInvoice_ApplyPayment(t *testing.T) {
	t.Run("partial then full payment", func(t *testing.T) {
		inv := paidInvoice("1000.00", domain.InvoiceStatusSent)

		require.NoError(t, inv.ApplyPayment(decimal.RequireFromString("400.00")))
		assert.True(t, inv.Balance.Equal(decimal.RequireFromString("600.00")))
		assert.Equal(t, domain.InvoiceStatusPartiallyPaid, inv.Status)

		require.NoError(t, inv.ApplyPayment(decimal.RequireFromString("600.00")))
		assert.True(t, inv.Balance.IsZero())
		assert.Equal(t, domain.InvoiceStatusPaid, inv.Status)
	})

	t.Run("overpayment fails and leaves state unchanged", func(t *testing.T) {
		inv := paidInvoice("100.00", domain.InvoiceStatusSent)

		err := inv.ApplyPayment(decimal.RequireFromString("150.00"))
		assert.ErrorIs(t, err, domain.ErrOverpayment)
		assert.True(t, inv.AmountPaid.IsZero())
		assert.True(t, inv.Balance.Equal(inv.Total))
		assert.Equal(t, domain.InvoiceStatusSent, inv.Status)
	})

	t.Run("non-positive amount fails", func(t *testing.T) {
		inv := paidInvoice("100.00", domain.InvoiceStatusSent)

		assert.ErrorIs(t, inv.ApplyPayment(decimal.Zero), domain.ErrInvalidAmount)
		assert.ErrorIs(t, inv.ApplyPayment(decimal.NewFromInt(-5)), domain.ErrInvalidAmount)
		assert.True(t, inv.AmountPaid.IsZero())
	})

	t.Run("paying an overdue invoice moves it to partially paid", func(t *testing.T) {
		inv := paidInvoice("500.00", domain.InvoiceStatusOverdue)

		require.NoError(t, inv.ApplyPayment(decimal.RequireFromString("100.00")))
		assert.Equal(t, domain.InvoiceStatusPartiallyPaid, inv.Status)
	})
}

func TestInvoice_ReversePayment(t *testing.T) {
	t.Run("full reversal returns invoice to sent", func(t *testing.T) {
		inv := paidInvoice("1000.00", domain.InvoiceStatusSent)
		require.NoError(t, inv.ApplyPayment(decimal.RequireFromString("500.00")))

		require.NoError(t, inv.ReversePayment(decimal.RequireFromString("500.00")))
		assert.True(t, inv.AmountPaid.IsZero())
		assert.True(t, inv.Balance.Equal(decimal.RequireFromString("1000.00")))
		assert.Equal(t, domain.InvoiceStatusSent, inv.Status)
	})

	t.Run("partial reversal keeps invoice partially paid", func(t *testing.T) {
		inv := paidInvoice("1000.00", domain.InvoiceStatusSent)
		require.NoError(t, inv.ApplyPayment(decimal.RequireFromString("1000.00")))
		require.Equal(t, domain.InvoiceStatusPaid, inv.Status)

		require.NoError(t, inv.ReversePayment(decimal.RequireFromString("300.00")))
		assert.True(t, inv.AmountPaid.Equal(decimal.RequireFromString("700.00")))
		assert.Equal(t, domain.InvoiceStatusPartiallyPaid, inv.Status)
	})

	t.Run("reversal exceeding amount paid fails and leaves state unchanged", func(t *testing.T) {
		inv := paidInvoice("1000.00", domain.InvoiceStatusSent)
		require.NoError(t, inv.ApplyPayment(decimal.RequireFromString("200.00")))

		err := inv.ReversePayment(decimal.RequireFromString("300.00"))
		assert.ErrorIs(t, err, domain.ErrReversalExceedsPaid)
		assert.True(t, inv.AmountPaid.Equal(decimal.RequireFromString("200.00")))
		assert.Equal(t, domain.InvoiceStatusPartiallyPaid, inv.Status)
	})

	t.Run("non-positive amount fails", func(t *testing.T) {
		inv := paidInvoice("1000.00", domain.InvoiceStatusSent)
		assert.ErrorIs(t, inv.ReversePayment(decimal.Zero), domain.ErrInvalidAmount)
	})
}

// amountPaid must stay within [0, total] across any sequence of applies and
// reversals; violating calls fail and do not mutate.
func TestInvoice_PaymentSequenceInvariant(t *testing.T) {
	inv := paidInvoice("300.00", domain.InvoiceStatusSent)

	steps := []struct {
		apply  bool
		amount string
		ok     bool
	}{
		{true, "100.00", true},
		{true, "250.00", false}, // would exceed total
		{true, "200.00", true},
		{false, "250.00", false}, // would underflow below applied 300
		{false, "300.00", true},
		{false, "0.01", false}, // nothing left to reverse
	}

	for _, step := range steps {
		var err error
		if step.apply {
			err = inv.ApplyPayment(decimal.RequireFromString(step.amount))
		} else {
			err = inv.ReversePayment(decimal.RequireFromString(step.amount))
		}
		if step.ok {
			require.NoError(t, err)
		} else {
			require.Error(t, err)
		}
		assert.True(t, inv.AmountPaid.GreaterThanOrEqual(decimal.Zero))
		assert.True(t, inv.AmountPaid.LessThanOrEqual(inv.Total))
		assert.True(t, inv.Balance.Equal(inv.Total.Sub(inv.AmountPaid)))
	}
}
