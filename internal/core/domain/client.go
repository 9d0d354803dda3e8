package domain

// Client represents a billable customer. Invoices reference clients by ID;
// deleting a client cascades to its invoices at the persistence layer.
type Client struct {
	ClientID string `json:"clientID"`
	Name     string `json:"name"`
	Email    string `json:"email"` // unique
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address"`
	AuditFields
}
