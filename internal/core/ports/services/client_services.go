package services

import (
	"context"

	"github.com/invoicelab/invoicing_backend/internal/core/domain"
	"github.com/invoicelab/invoicing_backend/internal/dto"
)

// ClientReaderSvc defines read operations for client data.
type ClientReaderSvc interface {
	GetClientByID(ctx context.Context, clientID string) (*domain.Client, error)
	ListClients(ctx context.Context, params dto.ListClientsParams) (*dto.ListClientsResponse, error)
}

// ClientWriterSvc defines write operations for client data.
type ClientWriterSvc interface {
	CreateClient(ctx context.Context, req dto.CreateClientRequest) (*domain.Client, error)
	UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest) (*domain.Client, error)
	DeleteClient(ctx context.Context, clientID string) error
}

// ClientSvcFacade combines all client-related service interfaces.
type ClientSvcFacade interface {
	ClientReaderSvc
	ClientWriterSvc
}
