package domain_test

import (
	"testing"

	"github.com/invoicelab/invoicing_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidatePaymentStatusTransition(t *testing.T) {
	statuses := []domain.PaymentStatus{
		domain.PaymentStatusPending,
		domain.PaymentStatusCompleted,
		domain.PaymentStatusReversed,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			err := domain.ValidatePaymentStatusTransition(from, to)

			// Only PENDING->COMPLETED and COMPLETED->REVERSED are legal.
			legal := (from == domain.PaymentStatusPending && to == domain.PaymentStatusCompleted) ||
				(from == domain.PaymentStatusCompleted && to == domain.PaymentStatusReversed)

			if legal {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition, "%s -> %s", from, to)
			}
		}
	}
}

func TestParsePaymentMethod(t *testing.T) {
	for _, m := range []string{"CASH", "CREDIT_CARD", "BANK_TRANSFER", "CHECK", "OTHER"} {
		parsed, err := domain.ParsePaymentMethod(m)
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentMethod(m), parsed)
	}

	_, err := domain.ParsePaymentMethod("BITCOIN")
	assert.Error(t, err)
}

func TestParsePaymentStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "COMPLETED", "REVERSED"} {
		parsed, err := domain.ParsePaymentStatus(s)
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatus(s), parsed)
	}

	_, err := domain.ParsePaymentStatus("VOID")
	assert.Error(t, err)
}
