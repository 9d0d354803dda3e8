package mapping

import (
	"github.com/invoicelab/invoicing_backend/internal/core/domain"
	"github.com/invoicelab/invoicing_backend/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	var reference *string
	if d.Reference != "" {
		ref := d.Reference
		reference = &ref
	}
	return models.Payment{
		PaymentID:   d.PaymentID,
		InvoiceID:   d.InvoiceID,
		Amount:      d.Amount,
		Method:      string(d.Method),
		Status:      string(d.Status),
		ReceivedAt:  d.ReceivedAt,
		Reference:   reference,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	reference := ""
	if m.Reference != nil {
		reference = *m.Reference
	}
	return domain.Payment{
		PaymentID:   m.PaymentID,
		InvoiceID:   m.InvoiceID,
		Amount:      m.Amount,
		Method:      domain.PaymentMethod(m.Method),
		Status:      domain.PaymentStatus(m.Status),
		ReceivedAt:  m.ReceivedAt,
		Reference:   reference,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentSlice converts a slice of model Payments to domain Payments
func ToDomainPaymentSlice(ms []models.Payment) []domain.Payment {
	ds := make([]domain.Payment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayment(m)
	}
	return ds
}
