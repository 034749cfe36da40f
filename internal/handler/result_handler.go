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

// ResultHandler serves marks entry and result views.
type ResultHandler struct {
	service service.ResultService
	logger  zerolog.Logger
}

// NewResultHandler constructs the handler.
func NewResultHandler(service service.ResultService, logger zerolog.Logger) *ResultHandler {
	return &ResultHandler{
		service: service,
		logger:  logger.With().Str("component", "result_handler").Logger(),
	}
}

// RegisterEntry attaches the staff-guarded marks entry routes.
func (h *ResultHandler) RegisterEntry(router fiber.Router) {
	router.Post("", h.enter)
	router.Get("/class", h.classResults)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

// RegisterSelf attaches the student's own results route.
func (h *ResultHandler) RegisterSelf(router fiber.Router) {
	router.Get("", h.myResults)
}

func (h *ResultHandler) enter(c *fiber.Ctx) error {
	var payload dto.ResultEntryRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	results, skipped, err := h.service.Enter(c.Context(), payload, middleware.CurrentUserID(c))
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrExamNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "exam not found")
		case errors.Is(err, service.ErrStudentNotInClass),
			errors.Is(err, service.ErrMarksOutOfRange):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Msg("failed to enter results")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to enter results")
		}
	}

	return utils.SendPaginated(c, "results recorded", results, fiber.Map{"skipped": skipped})
}

func (h *ResultHandler) classResults(c *fiber.Ctx) error {
	examID, err := parseQueryUintPtr(c, "exam_id")
	if err != nil || examID == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "exam_id is required")
	}
	classID, err := parseQueryUintPtr(c, "class_id")
	if err != nil || classID == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "class_id is required")
	}

	results, err := h.service.ClassResults(c.Context(), *examID, *classID)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "exam not found")
		}
		h.logger.Error().Err(err).Msg("failed to fetch class results")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch class results")
	}

	return utils.SendSuccess(c, "class results retrieved", results)
}

func (h *ResultHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	var payload dto.ResultUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrResultNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "result not found")
		case errors.Is(err, service.ErrMarksOutOfRange):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Uint("result_id", id).Msg("failed to update result")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update result")
		}
	}

	return utils.SendSuccess(c, "result updated", result)
}

func (h *ResultHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	echo, err := h.service.Delete(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrResultNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "result not found")
		}
		h.logger.Error().Err(err).Uint("result_id", id).Msg("failed to delete result")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete result")
	}

	return utils.SendSuccess(c, "result deleted", echo)
}

func (h *ResultHandler) myResults(c *fiber.Ctx) error {
	groups, err := h.service.MyResults(c.Context(), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		h.logger.Error().Err(err).Msg("failed to fetch results")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch results")
	}

	return utils.SendSuccess(c, "results retrieved", groups)
}
