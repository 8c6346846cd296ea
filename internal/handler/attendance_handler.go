package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/IFRN-SPP/presente/internal/service"
	"github.com/IFRN-SPP/presente/internal/utils"
)

// AttendanceHandler wires attendance listing and removal routes.
type AttendanceHandler struct {
	service service.AttendanceService
	logger  zerolog.Logger
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service service.AttendanceService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		logger:  logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register attaches per-activity attendance endpoints under the activities
// group and the caller's own history at the API root.
func (h *AttendanceHandler) Register(api fiber.Router, activities fiber.Router) {
	activities.Get("/:id/attendances", h.listForActivity)
	activities.Delete("/:id/attendances/:attendanceId", h.delete)
	api.Get("/attendances", h.listMine)
}

func (h *AttendanceHandler) listForActivity(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	activityID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	attendances, err := h.service.ListForActivity(c.Context(), activityID, userID, isSuperuser(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendances retrieved", attendances)
}

func (h *AttendanceHandler) listMine(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	attendances, err := h.service.ListMine(c.Context(), userID)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "attendances retrieved", attendances)
}

func (h *AttendanceHandler) delete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	activityID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	attendanceID, err := parseUintParam(c, "attendanceId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), activityID, attendanceID, userID, isSuperuser(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance deleted", fiber.Map{"id": attendanceID})
}

func (h *AttendanceHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrActivityNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "activity not found")
	case errors.Is(err, service.ErrAttendanceNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "attendance not found")
	default:
		return h.internalError(c, err)
	}
}

func (h *AttendanceHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
