package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/IFRN-SPP/presente/internal/dto"
	"github.com/IFRN-SPP/presente/internal/models"
	"github.com/IFRN-SPP/presente/internal/repository"
)

// ErrNetworkNotFound indicates the requested network does not exist.
var ErrNetworkNotFound = errors.New("network not found")

// NetworkService exposes allow-list management use cases. Networks are
// administered globally and referenced by activities, so all mutations
// are audited.
type NetworkService interface {
	List(ctx context.Context) ([]dto.NetworkResponse, error)
	Get(ctx context.Context, id uint) (dto.NetworkResponse, error)
	Create(ctx context.Context, payload dto.NetworkCreateRequest, actorID uint) (dto.NetworkResponse, error)
	Update(ctx context.Context, id uint, payload dto.NetworkUpdateRequest, actorID uint) (dto.NetworkResponse, error)
	Delete(ctx context.Context, id, actorID uint) error
}

type networkService struct {
	networks  repository.NetworkRepository
	auditLogs repository.AuditLogRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewNetworkService builds a new network service.
func NewNetworkService(networks repository.NetworkRepository, auditLogs repository.AuditLogRepository, validate *validator.Validate, logger zerolog.Logger) NetworkService {
	return &networkService{
		networks:  networks,
		auditLogs: auditLogs,
		validator: validate,
		logger:    logger.With().Str("component", "network_service").Logger(),
	}
}

func (s *networkService) List(ctx context.Context) ([]dto.NetworkResponse, error) {
	networks, err := s.networks.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewNetworkResponseSlice(networks), nil
}

func (s *networkService) Get(ctx context.Context, id uint) (dto.NetworkResponse, error) {
	network, err := s.networks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NetworkResponse{}, ErrNetworkNotFound
		}
		return dto.NetworkResponse{}, err
	}

	return dto.NewNetworkResponse(network), nil
}

func (s *networkService) Create(ctx context.Context, payload dto.NetworkCreateRequest, actorID uint) (dto.NetworkResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.NetworkResponse{}, err
	}

	network := models.Network{
		Name:        payload.Name,
		IPAddresses: payload.IPAddresses,
		IsActive:    true,
	}
	if payload.IsActive != nil {
		network.IsActive = *payload.IsActive
	}

	if err := s.networks.Create(ctx, &network); err != nil {
		return dto.NetworkResponse{}, err
	}

	s.audit(ctx, actorID, "network.create", network.ID, datatypes.JSONMap{"name": network.Name})
	s.logger.Info().Uint("network_id", network.ID).Str("name", network.Name).Msg("network created")

	return dto.NewNetworkResponse(network), nil
}

func (s *networkService) Update(ctx context.Context, id uint, payload dto.NetworkUpdateRequest, actorID uint) (dto.NetworkResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.NetworkResponse{}, err
	}

	network, err := s.networks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NetworkResponse{}, ErrNetworkNotFound
		}
		return dto.NetworkResponse{}, err
	}

	if payload.Name != nil {
		network.Name = *payload.Name
	}
	if payload.IPAddresses != nil {
		network.IPAddresses = *payload.IPAddresses
	}
	if payload.IsActive != nil {
		network.IsActive = *payload.IsActive
	}

	if err := s.networks.Update(ctx, &network); err != nil {
		return dto.NetworkResponse{}, err
	}

	s.audit(ctx, actorID, "network.update", network.ID, datatypes.JSONMap{"name": network.Name})
	s.logger.Info().Uint("network_id", network.ID).Msg("network updated")

	return dto.NewNetworkResponse(network), nil
}

func (s *networkService) Delete(ctx context.Context, id, actorID uint) error {
	network, err := s.networks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNetworkNotFound
		}
		return err
	}

	if err := s.networks.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNetworkNotFound
		}
		return err
	}

	s.audit(ctx, actorID, "network.delete", id, datatypes.JSONMap{"name": network.Name})
	s.logger.Info().Uint("network_id", id).Msg("network deleted")

	return nil
}

func (s *networkService) audit(ctx context.Context, actorID uint, action string, entityID uint, metadata datatypes.JSONMap) {
	entry := models.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: "network",
		EntityID:   &entityID,
		Metadata:   metadata,
	}
	if err := s.auditLogs.Create(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to write audit log entry")
	}
}
