package domain

import (
	"errors"
	"fmt"
)

// InvoiceStatus indicates where an invoice sits in its lifecycle.
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"
	InvoiceStatusSent          InvoiceStatus = "SENT"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusOverdue       InvoiceStatus = "OVERDUE"
	InvoiceStatusCanceled      InvoiceStatus = "CANCELED" // terminal
)

// ErrInvalidStatusTransition indicates a status change that the state machine does not allow.
var ErrInvalidStatusTransition = errors.New("invalid status transition")

// allowedInvoiceTransitions is the explicit status-change table. Payment-driven
// status changes (ApplyPayment/ReversePayment) do not consult it; they are
// derived from the invoice's balance, not user intent.
var allowedInvoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:         {InvoiceStatusSent, InvoiceStatusCanceled},
	InvoiceStatusSent:          {InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCanceled},
	InvoiceStatusPartiallyPaid: {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCanceled},
	InvoiceStatusPaid:          {InvoiceStatusCanceled},
	InvoiceStatusOverdue:       {InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusCanceled},
	InvoiceStatusCanceled:      {},
}

// ValidateInvoiceStatusTransition checks whether an explicit status change from
// current to next is allowed. Transitioning to the current status is a no-op
// success.
func ValidateInvoiceStatusTransition(current, next InvoiceStatus) error {
	if current == next {
		return nil
	}
	for _, allowed := range allowedInvoiceTransitions[current] {
		if next == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot transition invoice from %s to %s", ErrInvalidStatusTransition, current, next)
}

// ParseInvoiceStatus converts a raw string into an InvoiceStatus. The core
// never accepts raw strings for status; callers at the boundary must parse
// first.
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	switch InvoiceStatus(s) {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPartiallyPaid,
		InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCanceled:
		return InvoiceStatus(s), nil
	default:
		return "", fmt.Errorf("invalid invoice status: %q", s)
	}
}
