package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/IFRN-SPP/presente/internal/service"
	"github.com/IFRN-SPP/presente/internal/utils"
)

// PublicHandler serves the unauthenticated activity surface: the shareable
// activity page and its rotating QR payload, addressed by obfuscated codes.
type PublicHandler struct {
	activities service.ActivityService
	checkin    service.CheckinService
	logger     zerolog.Logger
}

// NewPublicHandler constructs the handler.
func NewPublicHandler(activities service.ActivityService, checkin service.CheckinService, logger zerolog.Logger) *PublicHandler {
	return &PublicHandler{
		activities: activities,
		checkin:    checkin,
		logger:     logger.With().Str("component", "public_handler").Logger(),
	}
}

// Register attaches the public endpoints to the router group.
func (h *PublicHandler) Register(router fiber.Router) {
	router.Get("/activities/:code", h.getActivity)
	router.Get("/activities/:code/qr", h.getQR)
}

func (h *PublicHandler) getActivity(c *fiber.Ctx) error {
	activity, err := h.activities.GetPublic(c.Context(), c.Params("code"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "activity retrieved", activity)
}

func (h *PublicHandler) getQR(c *fiber.Ctx) error {
	content, err := h.checkin.QRContent(c.Context(), c.Params("code"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "QR content retrieved", content)
}

func (h *PublicHandler) handleError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrActivityNotFound) {
		return utils.SendError(c, fiber.StatusNotFound, "activity not found")
	}

	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
