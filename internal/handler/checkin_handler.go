package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/IFRN-SPP/presente/internal/service"
	"github.com/IFRN-SPP/presente/internal/utils"
)

// CheckinHandler exposes the authenticated check-in endpoint.
type CheckinHandler struct {
	service service.CheckinService
	logger  zerolog.Logger
}

// NewCheckinHandler constructs the handler.
func NewCheckinHandler(service service.CheckinService, logger zerolog.Logger) *CheckinHandler {
	return &CheckinHandler{
		service: service,
		logger:  logger.With().Str("component", "checkin_handler").Logger(),
	}
}

// Register attaches the check-in endpoint to the router group.
func (h *CheckinHandler) Register(router fiber.Router) {
	router.Post("/checkin/:token", h.checkIn)
}

func (h *CheckinHandler) checkIn(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	result, err := h.service.CheckIn(c.Context(), c.Params("token"), userID, c.Get(fiber.HeaderXForwardedFor), c.Context().RemoteAddr().String())
	if err != nil {
		return h.handleError(c, err)
	}

	message := "attendance already registered"
	if result.Created {
		message = "attendance registered"
	}

	return utils.SendSuccess(c, message, result)
}

func (h *CheckinHandler) handleError(c *fiber.Ctx, err error) error {
	var denied *service.IPDeniedError
	switch {
	case errors.Is(err, service.ErrInvalidCheckinToken) || errors.Is(err, service.ErrActivityNotFound):
		return utils.SendError(c, fiber.StatusNotFound, service.ErrInvalidCheckinToken.Error())
	case errors.Is(err, service.ErrCheckinTokenExpired):
		return utils.SendError(c, fiber.StatusGone, err.Error())
	case errors.Is(err, service.ErrActivityNotStarted),
		errors.Is(err, service.ErrActivityEnded),
		errors.Is(err, service.ErrCheckinDisabled):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.As(err, &denied):
		return utils.SendError(c, fiber.StatusForbidden, denied.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
