package models

// Client represents a row in the clients table.
type Client struct {
	ClientID string `db:"client_id"`
	Name     string `db:"name"`
	Email    string `db:"email"`
	Phone    string `db:"phone"`
	Address  string `db:"address"`
	AuditFields
}
