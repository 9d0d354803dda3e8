package repositories

import (
	"context"

	"github.com/invoicelab/invoicing_backend/internal/core/domain"
)

// ClientReader defines read operations for client data.
type ClientReader interface {
	// FindClientByID retrieves a client by its unique identifier.
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)

	// ListClients retrieves a paginated list of clients using token-based
	// pagination. It returns the clients, a token for the next page, and an error.
	ListClients(ctx context.Context, limit int, nextToken *string) ([]domain.Client, *string, error)

	// FindClientsByName retrieves clients whose name contains the given
	// fragment, case-insensitively.
	FindClientsByName(ctx context.Context, name string) ([]domain.Client, error)

	// ExistsByID reports whether a client with the given ID exists.
	ExistsByID(ctx context.Context, clientID string) (bool, error)

	// ExistsByEmail reports whether a client with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ClientWriter defines write operations for client data.
type ClientWriter interface {
	// SaveClient inserts a new client.
	SaveClient(ctx context.Context, client domain.Client) error

	// UpdateClient updates an existing client.
	UpdateClient(ctx context.Context, client domain.Client) error

	// DeleteClient removes a client.
	DeleteClient(ctx context.Context, clientID string) error
}

// ClientRepositoryFacade combines all client-related repository interfaces.
type ClientRepositoryFacade interface {
	ClientReader
	ClientWriter
}
