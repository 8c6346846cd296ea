package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/IFRN-SPP/presente/internal/dto"
	"github.com/IFRN-SPP/presente/internal/service"
	"github.com/IFRN-SPP/presente/internal/utils"
)

// NetworkHandler wires network allow-list HTTP routes. The whole group is
// admin-only, enforced at registration time.
type NetworkHandler struct {
	service service.NetworkService
	logger  zerolog.Logger
}

// NewNetworkHandler constructs the handler.
func NewNetworkHandler(service service.NetworkService, logger zerolog.Logger) *NetworkHandler {
	return &NetworkHandler{
		service: service,
		logger:  logger.With().Str("component", "network_handler").Logger(),
	}
}

// Register attaches network endpoints to the router group.
func (h *NetworkHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *NetworkHandler) list(c *fiber.Ctx) error {
	networks, err := h.service.List(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "networks retrieved", networks)
}

func (h *NetworkHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	network, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "network retrieved", network)
}

func (h *NetworkHandler) create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	var payload dto.NetworkCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	network, err := h.service.Create(c.Context(), payload, userID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "network created", network)
}

func (h *NetworkHandler) update(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.NetworkUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	network, err := h.service.Update(c.Context(), id, payload, userID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "network updated", network)
}

func (h *NetworkHandler) delete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id, userID); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "network deleted", fiber.Map{"id": id})
}

func (h *NetworkHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrNetworkNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "network not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *NetworkHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
