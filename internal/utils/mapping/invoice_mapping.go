package mapping

import (
	"github.com/invoicelab/invoicing_backend/internal/core/domain"
	"github.com/invoicelab/invoicing_backend/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:   d.InvoiceID,
		Number:      d.Number,
		ClientID:    d.ClientID,
		IssueDate:   d.IssueDate,
		DueDate:     d.DueDate,
		Status:      string(d.Status),
		Subtotal:    d.Subtotal,
		TaxRate:     d.TaxRate,
		TaxAmount:   d.TaxAmount,
		Total:       d.Total,
		AmountPaid:  d.AmountPaid,
		Balance:     d.Balance,
		Notes:       d.Notes,
		CreatedByID: d.CreatedByID,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice. Items are
// attached separately by the repository.
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:   m.InvoiceID,
		Number:      m.Number,
		ClientID:    m.ClientID,
		IssueDate:   m.IssueDate,
		DueDate:     m.DueDate,
		Status:      domain.InvoiceStatus(m.Status),
		Subtotal:    m.Subtotal,
		TaxRate:     m.TaxRate,
		TaxAmount:   m.TaxAmount,
		Total:       m.Total,
		AmountPaid:  m.AmountPaid,
		Balance:     m.Balance,
		Notes:       m.Notes,
		CreatedByID: m.CreatedByID,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInvoiceItem converts a domain InvoiceLineItem to a model InvoiceItem
func ToModelInvoiceItem(d domain.InvoiceLineItem) models.InvoiceItem {
	return models.InvoiceItem{
		ItemID:      d.ItemID,
		InvoiceID:   d.InvoiceID,
		Description: d.Description,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		Amount:      d.Amount,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoiceItem converts a model InvoiceItem to a domain InvoiceLineItem
func ToDomainInvoiceItem(m models.InvoiceItem) domain.InvoiceLineItem {
	return domain.InvoiceLineItem{
		ItemID:      m.ItemID,
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Amount:      m.Amount,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInvoiceItemSlice converts a slice of model InvoiceItems to domain line items
func ToDomainInvoiceItemSlice(ms []models.InvoiceItem) []domain.InvoiceLineItem {
	ds := make([]domain.InvoiceLineItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvoiceItem(m)
	}
	return ds
}
