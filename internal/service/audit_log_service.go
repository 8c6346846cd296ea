package service

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/IFRN-SPP/presente/internal/dto"
	"github.com/IFRN-SPP/presente/internal/repository"
)

// AuditLogService exposes the audit trail to administrators.
type AuditLogService interface {
	List(ctx context.Context, req dto.AuditLogListRequest) (dto.AuditLogListResponse, error)
}

type auditLogService struct {
	auditLogs repository.AuditLogRepository
	logger    zerolog.Logger
}

// NewAuditLogService constructs the audit trail service.
func NewAuditLogService(auditLogs repository.AuditLogRepository, logger zerolog.Logger) AuditLogService {
	return &auditLogService{
		auditLogs: auditLogs,
		logger:    logger.With().Str("component", "audit_log_service").Logger(),
	}
}

func (s *auditLogService) List(ctx context.Context, req dto.AuditLogListRequest) (dto.AuditLogListResponse, error) {
	filter := repository.AuditLogFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Action:     strings.TrimSpace(req.Action),
		EntityType: strings.TrimSpace(req.EntityType),
	}
	if req.ActorID > 0 {
		filter.ActorID = &req.ActorID
	}

	entries, total, err := s.auditLogs.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list audit logs")
		return dto.AuditLogListResponse{}, err
	}

	items := make([]dto.AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewAuditLogResponse(entry))
	}

	pagination := dto.PaginationMeta{
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalItems: total,
		TotalPages: 1,
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}
	if req.PageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	}

	return dto.AuditLogListResponse{Items: items, Pagination: pagination}, nil
}
