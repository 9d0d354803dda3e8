package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/invoicelab/invoicing_backend/internal/apperrors"
	"github.com/invoicelab/invoicing_backend/internal/core/domain"
	portsrepo "github.com/invoicelab/invoicing_backend/internal/core/ports/repositories"
	portssvc "github.com/invoicelab/invoicing_backend/internal/core/ports/services"
	"github.com/invoicelab/invoicing_backend/internal/dto"
	"github.com/invoicelab/invoicing_backend/internal/middleware"
)

// ClientService handles business logic related to clients.
type ClientService struct {
	clientRepo portsrepo.ClientRepositoryFacade
}

// NewClientService creates a new ClientService.
func NewClientService(cr portsrepo.ClientRepositoryFacade) portssvc.ClientSvcFacade {
	return &ClientService{clientRepo: cr}
}

// Ensure ClientService implements the portssvc.ClientSvcFacade interface
var _ portssvc.ClientSvcFacade = (*ClientService)(nil)

// CreateClient creates a new client after checking email uniqueness.
func (s *ClientService) CreateClient(ctx context.Context, req dto.CreateClientRequest) (*domain.Client, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	exists, err := s.clientRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		logger.Error("Failed to check client email uniqueness", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to check client email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: client with email %s already exists", apperrors.ErrDuplicate, req.Email)
	}

	now := time.Now()
	client := domain.Client{
		ClientID: uuid.NewString(),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.clientRepo.SaveClient(ctx, client); err != nil {
		logger.Error("Failed to save client in repository", slog.String("error", err.Error()), slog.String("client_name", req.Name))
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	logger.Info("Client created successfully", slog.String("client_id", client.ClientID))
	return &client, nil
}

// GetClientByID retrieves a single client.
func (s *ClientService) GetClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to retrieve client %s: %w", clientID, err)
	}
	return client, nil
}

// ListClients retrieves a page of clients, optionally filtered by a name
// fragment.
func (s *ClientService) ListClients(ctx context.Context, params dto.ListClientsParams) (*dto.ListClientsResponse, error) {
	if params.Name != "" {
		clients, err := s.clientRepo.FindClientsByName(ctx, params.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to search clients by name: %w", err)
		}
		return &dto.ListClientsResponse{Clients: dto.ToClientResponses(clients)}, nil
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	clients, nextToken, err := s.clientRepo.ListClients(ctx, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	return &dto.ListClientsResponse{
		Clients:   dto.ToClientResponses(clients),
		NextToken: nextToken,
	}, nil
}

// UpdateClient updates the provided fields of an existing client.
func (s *ClientService) UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest) (*domain.Client, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to retrieve client %s for update: %w", clientID, err)
	}

	if req.Email != nil && *req.Email != client.Email {
		exists, err := s.clientRepo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check client email: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: client with email %s already exists", apperrors.ErrDuplicate, *req.Email)
		}
		client.Email = *req.Email
	}
	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	client.UpdatedAt = time.Now()

	if err := s.clientRepo.UpdateClient(ctx, *client); err != nil {
		logger.Error("Failed to update client in repository", slog.String("error", err.Error()), slog.String("client_id", clientID))
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	logger.Info("Client updated successfully", slog.String("client_id", clientID))
	return client, nil
}

// DeleteClient removes a client.
func (s *ClientService) DeleteClient(ctx context.Context, clientID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.clientRepo.FindClientByID(ctx, clientID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to retrieve client %s for deletion: %w", clientID, err)
	}

	if err := s.clientRepo.DeleteClient(ctx, clientID); err != nil {
		logger.Error("Failed to delete client in repository", slog.String("error", err.Error()), slog.String("client_id", clientID))
		return fmt.Errorf("failed to delete client: %w", err)
	}

	logger.Info("Client deleted", slog.String("client_id", clientID))
	return nil
}
