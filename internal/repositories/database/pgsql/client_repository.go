package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invoicelab/invoicing_backend/internal/apperrors"
	"github.com/invoicelab/invoicing_backend/internal/core/domain"
	portsrepo "github.com/invoicelab/invoicing_backend/internal/core/ports/repositories"
	"github.com/invoicelab/invoicing_backend/internal/models"
	"github.com/invoicelab/invoicing_backend/internal/utils/mapping"
	"github.com/invoicelab/invoicing_backend/internal/utils/pagination"
)

const clientColumns = `client_id, name, email, phone, address, created_at, updated_at`

type PgxClientRepository struct {
	db *pgxpool.Pool
}

// newPgxClientRepository creates a new repository for client data.
func newPgxClientRepository(db *pgxpool.Pool) portsrepo.ClientRepositoryFacade {
	return &PgxClientRepository{db: db}
}

// Ensure PgxClientRepository implements portsrepo.ClientRepositoryFacade
var _ portsrepo.ClientRepositoryFacade = (*PgxClientRepository)(nil)

// SaveClient inserts a new client.
func (r *PgxClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	modelClient := mapping.ToModelClient(client)
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.Exec(ctx, query,
		modelClient.ClientID,
		modelClient.Name,
		modelClient.Email,
		modelClient.Phone,
		modelClient.Address,
		modelClient.CreatedAt,
		modelClient.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: client email %s", apperrors.ErrDuplicate, client.Email)
		}
		return fmt.Errorf("failed to save client: %w", err)
	}
	return nil
}

// UpdateClient updates an existing client.
func (r *PgxClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	modelClient := mapping.ToModelClient(client)
	query := `
		UPDATE clients SET name = $1, email = $2, phone = $3, address = $4, updated_at = $5
		WHERE client_id = $6;
	`
	tag, err := r.db.Exec(ctx, query,
		modelClient.Name,
		modelClient.Email,
		modelClient.Phone,
		modelClient.Address,
		modelClient.UpdatedAt,
		modelClient.ClientID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: client email %s", apperrors.ErrDuplicate, client.Email)
		}
		return fmt.Errorf("failed to update client %s: %w", client.ClientID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteClient removes a client.
func (r *PgxClientRepository) DeleteClient(ctx context.Context, clientID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE client_id = $1;`, clientID)
	if err != nil {
		return fmt.Errorf("failed to delete client %s: %w", clientID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindClientByID retrieves a client by its unique identifier.
func (r *PgxClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE client_id = $1;`
	m, err := scanClientRow(r.db.QueryRow(ctx, query, clientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find client by ID %s: %w", clientID, err)
	}
	client := mapping.ToDomainClient(m)
	return &client, nil
}

// ListClients retrieves a paginated list of clients using token-based
// pagination over (created_at, client_id).
func (r *PgxClientRepository) ListClients(ctx context.Context, limit int, nextToken *string) ([]domain.Client, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + clientColumns + ` FROM clients`
	orderByClause := `ORDER BY created_at DESC, client_id DESC`

	var rows pgx.Rows
	var err error

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeCursorToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		query := baseQuery + ` WHERE (created_at, client_id) < ($1, $2) ` + orderByClause + ` LIMIT $3;`
		rows, err = r.db.Query(ctx, query, lastCreatedAt, lastID, fetchLimit)
	} else {
		query := baseQuery + ` ` + orderByClause + ` LIMIT $1;`
		rows, err = r.db.Query(ctx, query, fetchLimit)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	modelClients := make([]models.Client, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanClientRow(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan client row: %w", scanErr)
		}
		modelClients = append(modelClients, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate client rows: %w", err)
	}

	var newNextToken *string
	if len(modelClients) > limit {
		modelClients = modelClients[:limit]
		last := modelClients[limit-1]
		token := pagination.EncodeCursorToken(last.CreatedAt, last.ClientID)
		newNextToken = &token
	}

	return mapping.ToDomainClientSlice(modelClients), newNextToken, nil
}

// FindClientsByName retrieves clients whose name contains the fragment,
// case-insensitively.
func (r *PgxClientRepository) FindClientsByName(ctx context.Context, name string) ([]domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE name ILIKE '%' || $1 || '%' ORDER BY name ASC;`
	rows, err := r.db.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search clients by name: %w", err)
	}
	defer rows.Close()

	var modelClients []models.Client
	for rows.Next() {
		m, scanErr := scanClientRow(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan client row: %w", scanErr)
		}
		modelClients = append(modelClients, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate client rows: %w", err)
	}
	return mapping.ToDomainClientSlice(modelClients), nil
}

// ExistsByID reports whether a client with the given ID exists.
func (r *PgxClientRepository) ExistsByID(ctx context.Context, clientID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM clients WHERE client_id = $1);`, clientID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check client %s: %w", clientID, err)
	}
	return exists, nil
}

// ExistsByEmail reports whether a client with the given email exists.
func (r *PgxClientRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM clients WHERE email = $1);`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check client email %s: %w", email, err)
	}
	return exists, nil
}

// scanClientRow scans a row holding the clientColumns selection.
func scanClientRow(row pgx.Row) (models.Client, error) {
	var m models.Client
	err := row.Scan(
		&m.ClientID,
		&m.Name,
		&m.Email,
		&m.Phone,
		&m.Address,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}
