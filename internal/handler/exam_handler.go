package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/middleware"
	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/service"
	"github.com/edumate/sims-api/internal/utils"
)

// ExamHandler serves examination management and the student exam view.
type ExamHandler struct {
	service service.ExamService
	logger  zerolog.Logger
}

// NewExamHandler constructs the handler.
func NewExamHandler(service service.ExamService, logger zerolog.Logger) *ExamHandler {
	return &ExamHandler{
		service: service,
		logger:  logger.With().Str("component", "exam_handler").Logger(),
	}
}

// Register attaches routes. Listing is open to any authenticated user;
// students see only their own class's exams.
func (h *ExamHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

// RegisterManage attaches the staff-guarded management routes.
func (h *ExamHandler) RegisterManage(router fiber.Router) {
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *ExamHandler) list(c *fiber.Ctx) error {
	if middleware.CurrentRole(c) == models.RoleStudent {
		exams, err := h.service.ListForStudent(c.Context(), middleware.CurrentUserID(c))
		if err != nil {
			if errors.Is(err, service.ErrStudentNotFound) {
				return utils.SendError(c, fiber.StatusNotFound, "student not found")
			}
			h.logger.Error().Err(err).Msg("failed to list exams")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to list exams")
		}
		return utils.SendSuccess(c, "exams retrieved", exams)
	}

	classID, err := parseQueryUintPtr(c, "class_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid class_id")
	}
	sectionID, err := parseQueryUintPtr(c, "section_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid section_id")
	}

	exams, err := h.service.List(c.Context(), classID, sectionID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list exams")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list exams")
	}
	return utils.SendSuccess(c, "exams retrieved", exams)
}

func (h *ExamHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	exam, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "exam not found")
		}
		h.logger.Error().Err(err).Uint("exam_id", id).Msg("failed to fetch exam")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch exam")
	}

	return utils.SendSuccess(c, "exam retrieved", exam)
}

func (h *ExamHandler) create(c *fiber.Ctx) error {
	var payload dto.ExamSaveRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	exam, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.examError(c, err, "failed to create exam")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "exam created", exam)
}

func (h *ExamHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	var payload dto.ExamSaveRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	exam, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		return h.examError(c, err, "failed to update exam")
	}
	return utils.SendSuccess(c, "exam updated", exam)
}

func (h *ExamHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "exam not found")
		}
		h.logger.Error().Err(err).Uint("exam_id", id).Msg("failed to delete exam")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete exam")
	}

	return utils.SendSuccess(c, "exam deleted", fiber.Map{"id": id})
}

func (h *ExamHandler) examError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrSectionClassMismatch),
		errors.Is(err, service.ErrScheduleNeedsClass):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrExamNotFound),
		errors.Is(err, service.ErrAcademicYearNotFound),
		errors.Is(err, service.ErrClassNotFound),
		errors.Is(err, service.ErrSectionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	default:
		h.logger.Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
