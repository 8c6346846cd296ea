package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/IFRN-SPP/presente/internal/dto"
	"github.com/IFRN-SPP/presente/internal/service"
	"github.com/IFRN-SPP/presente/internal/utils"
)

// AuditLogHandler exposes the audit trail to administrators.
type AuditLogHandler struct {
	service service.AuditLogService
	logger  zerolog.Logger
}

// NewAuditLogHandler constructs the handler.
func NewAuditLogHandler(service service.AuditLogService, logger zerolog.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		service: service,
		logger:  logger.With().Str("component", "audit_log_handler").Logger(),
	}
}

// Register attaches audit trail routes to the router group.
func (h *AuditLogHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *AuditLogHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	if page <= 0 {
		page = 1
	}

	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	if pageSize <= 0 {
		pageSize = 25
	} else if pageSize > 200 {
		pageSize = 200
	}

	actorID, err := parseQueryInt(c, "actor_id")
	if err != nil || actorID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid actor id")
	}

	req := dto.AuditLogListRequest{
		Page:       page,
		PageSize:   pageSize,
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	}
	if actorID > 0 {
		req.ActorID = uint(actorID)
	}

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list audit logs")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list audit logs")
	}

	return utils.SendSuccess(c, "audit logs", response)
}
