package domain

// User is an operator of the system; invoices carry a created-by reference
// to the user that issued them.
type User struct {
	UserID       string `json:"userID"`
	Name         string `json:"name"`
	Email        string `json:"email"` // unique, used for login
	PasswordHash string `json:"-"`
	AuditFields
}
