package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/IFRN-SPP/presente/internal/service"
	"github.com/IFRN-SPP/presente/internal/utils"
)

// DashboardHandler exposes the signed-in user's dashboard endpoint.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler creates a new handler instance.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches the dashboard endpoint.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.getDashboard)
}

func (h *DashboardHandler) getDashboard(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	dashboard, err := h.service.GetDashboard(c.Context(), userID, isSuperuser(c))
	if err != nil {
		h.logger.Error().Err(err).Uint("user_id", userID).Msg("failed to load dashboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}

	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}
