package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is the means by which a payment was made.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCheck        PaymentMethod = "CHECK"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// ParsePaymentMethod converts a raw string into a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentMethodCash, PaymentMethodCreditCard, PaymentMethodBankTransfer,
		PaymentMethodCheck, PaymentMethodOther:
		return PaymentMethod(s), nil
	default:
		return "", fmt.Errorf("invalid payment method: %q", s)
	}
}

// PaymentStatus is the lifecycle state of a single payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusReversed  PaymentStatus = "REVERSED" // terminal
)

// ParsePaymentStatus converts a raw string into a PaymentStatus.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusReversed:
		return PaymentStatus(s), nil
	default:
		return "", fmt.Errorf("invalid payment status: %q", s)
	}
}

// ValidatePaymentStatusTransition enforces the payment state machine:
// PENDING -> COMPLETED -> REVERSED, nothing else.
func ValidatePaymentStatusTransition(current, next PaymentStatus) error {
	switch current {
	case PaymentStatusPending:
		if next != PaymentStatusCompleted {
			return fmt.Errorf("%w: cannot transition payment from PENDING to %s", ErrInvalidStatusTransition, next)
		}
	case PaymentStatusCompleted:
		if next != PaymentStatusReversed {
			return fmt.Errorf("%w: cannot transition payment from COMPLETED to %s", ErrInvalidStatusTransition, next)
		}
	case PaymentStatusReversed:
		return fmt.Errorf("%w: cannot transition payment from REVERSED", ErrInvalidStatusTransition)
	}
	return nil
}

// Payment represents money received against one invoice. A payment references
// its invoice but does not own it; once REVERSED it is immutable.
type Payment struct {
	PaymentID  string          `json:"paymentID"`
	InvoiceID  string          `json:"invoiceID"`
	Amount     decimal.Decimal `json:"amount"` // positive, 2dp
	Method     PaymentMethod   `json:"method"`
	Status     PaymentStatus   `json:"status"`
	ReceivedAt time.Time       `json:"receivedAt"`
	Reference  string          `json:"reference,omitempty"` // optional, unique when set
	AuditFields
}
