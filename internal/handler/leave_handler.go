package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/middleware"
	"github.com/edumate/sims-api/internal/service"
	"github.com/edumate/sims-api/internal/utils"
)

// LeaveHandler serves the leave application workflow.
type LeaveHandler struct {
	service service.LeaveService
	logger  zerolog.Logger
}

// NewLeaveHandler constructs the handler.
func NewLeaveHandler(service service.LeaveService, logger zerolog.Logger) *LeaveHandler {
	return &LeaveHandler{
		service: service,
		logger:  logger.With().Str("component", "leave_handler").Logger(),
	}
}

// Register attaches the routes open to any authenticated user.
func (h *LeaveHandler) Register(router fiber.Router) {
	router.Post("", h.apply)
	router.Get("/mine", h.listMine)
}

// RegisterAdmin attaches the admin-guarded routes.
func (h *LeaveHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.listAll)
	router.Post("/:id/decision", h.decide)
}

func (h *LeaveHandler) apply(c *fiber.Ctx) error {
	var payload dto.LeaveApplyRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	leave, err := h.service.Apply(c.Context(), middleware.CurrentUserID(c), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidDateRange), errors.Is(err, service.ErrEmptyReason):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Msg("failed to submit leave application")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit leave application")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "leave application submitted", leave)
}

func (h *LeaveHandler) listMine(c *fiber.Ctx) error {
	leaves, err := h.service.ListMine(c.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list leave applications")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list leave applications")
	}
	return utils.SendSuccess(c, "leave applications retrieved", leaves)
}

func (h *LeaveHandler) listAll(c *fiber.Ctx) error {
	leaves, err := h.service.ListAll(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list leave applications")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list leave applications")
	}
	return utils.SendSuccess(c, "leave applications retrieved", leaves)
}

func (h *LeaveHandler) decide(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	var payload dto.LeaveDecisionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	leave, err := h.service.Decide(c.Context(), id, payload, middleware.CurrentUserID(c))
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrLeaveNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "leave application not found")
		case errors.Is(err, service.ErrLeaveDecided):
			return utils.SendError(c, fiber.StatusConflict, "leave application already decided")
		default:
			h.logger.Error().Err(err).Uint("leave_id", id).Msg("failed to decide leave application")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to decide leave application")
		}
	}

	return utils.SendSuccess(c, "leave application decided", leave)
}
