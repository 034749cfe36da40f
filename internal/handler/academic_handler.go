package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/service"
	"github.com/edumate/sims-api/internal/utils"
)

// AcademicHandler serves years, classes, sections, subjects and
// teacher assignments.
type AcademicHandler struct {
	service service.AcademicService
	logger  zerolog.Logger
}

// NewAcademicHandler constructs the handler.
func NewAcademicHandler(service service.AcademicService, logger zerolog.Logger) *AcademicHandler {
	return &AcademicHandler{
		service: service,
		logger:  logger.With().Str("component", "academic_handler").Logger(),
	}
}

// Register attaches routes.
func (h *AcademicHandler) Register(router fiber.Router) {
	years := router.Group("/years")
	years.Get("", h.listYears)
	years.Post("", h.createYear)
	years.Put("/:id", h.updateYear)
	years.Delete("/:id", h.deleteYear)

	classes := router.Group("/classes")
	classes.Get("", h.listClasses)
	classes.Post("", h.createClass)
	classes.Get("/:id", h.classDetail)
	classes.Put("/:id", h.updateClass)
	classes.Delete("/:id", h.deleteClass)

	sections := router.Group("/sections")
	sections.Post("", h.createSection)
	sections.Delete("/:id", h.deleteSection)

	subjects := router.Group("/subjects")
	subjects.Get("", h.listSubjects)
	subjects.Post("", h.createSubject)
	subjects.Put("/:id", h.updateSubject)
	subjects.Delete("/:id", h.deleteSubject)

	assignments := router.Group("/assignments")
	assignments.Get("", h.listAssignments)
	assignments.Post("", h.createAssignment)
	assignments.Delete("/:id", h.deleteAssignment)
}

func (h *AcademicHandler) listYears(c *fiber.Ctx) error {
	years, err := h.service.ListYears(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list academic years")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list academic years")
	}
	return utils.SendSuccess(c, "academic years retrieved", years)
}

func (h *AcademicHandler) createYear(c *fiber.Ctx) error {
	var payload dto.AcademicYearRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	year, err := h.service.CreateYear(c.Context(), payload)
	if err != nil {
		return h.academicError(c, err, "failed to create academic year")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "academic year created", year)
}

func (h *AcademicHandler) updateYear(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	var payload dto.AcademicYearRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	year, err := h.service.UpdateYear(c.Context(), id, payload)
	if err != nil {
		return h.academicError(c, err, "failed to update academic year")
	}
	return utils.SendSuccess(c, "academic year updated", year)
}

func (h *AcademicHandler) deleteYear(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	if err := h.service.DeleteYear(c.Context(), id); err != nil {
		return h.academicError(c, err, "failed to delete academic year")
	}
	return utils.SendSuccess(c, "academic year deleted", fiber.Map{"id": id})
}

func (h *AcademicHandler) listClasses(c *fiber.Ctx) error {
	classes, err := h.service.ListClasses(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list classes")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list classes")
	}
	return utils.SendSuccess(c, "classes retrieved", classes)
}

func (h *AcademicHandler) classDetail(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	detail, err := h.service.GetClassDetail(c.Context(), id)
	if err != nil {
		return h.academicError(c, err, "failed to fetch class")
	}
	return utils.SendSuccess(c, "class retrieved", detail)
}

func (h *AcademicHandler) createClass(c *fiber.Ctx) error {
	var payload dto.ClassRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	class, err := h.service.CreateClass(c.Context(), payload)
	if err != nil {
		return h.academicError(c, err, "failed to create class")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "class created", class)
}

func (h *AcademicHandler) updateClass(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	var payload dto.ClassRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	class, err := h.service.UpdateClass(c.Context(), id, payload)
	if err != nil {
		return h.academicError(c, err, "failed to update class")
	}
	return utils.SendSuccess(c, "class updated", class)
}

func (h *AcademicHandler) deleteClass(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	if err := h.service.DeleteClass(c.Context(), id); err != nil {
		return h.academicError(c, err, "failed to delete class")
	}
	return utils.SendSuccess(c, "class deleted", fiber.Map{"id": id})
}

func (h *AcademicHandler) createSection(c *fiber.Ctx) error {
	var payload dto.SectionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	section, err := h.service.CreateSection(c.Context(), payload)
	if err != nil {
		return h.academicError(c, err, "failed to create section")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "section created", section)
}

func (h *AcademicHandler) deleteSection(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	if err := h.service.DeleteSection(c.Context(), id); err != nil {
		return h.academicError(c, err, "failed to delete section")
	}
	return utils.SendSuccess(c, "section deleted", fiber.Map{"id": id})
}

func (h *AcademicHandler) listSubjects(c *fiber.Ctx) error {
	subjects, err := h.service.ListSubjects(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list subjects")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list subjects")
	}
	return utils.SendSuccess(c, "subjects retrieved", subjects)
}

func (h *AcademicHandler) createSubject(c *fiber.Ctx) error {
	var payload dto.SubjectRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	subject, err := h.service.CreateSubject(c.Context(), payload)
	if err != nil {
		return h.academicError(c, err, "failed to create subject")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "subject created", subject)
}

func (h *AcademicHandler) updateSubject(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	var payload dto.SubjectRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	subject, err := h.service.UpdateSubject(c.Context(), id, payload)
	if err != nil {
		return h.academicError(c, err, "failed to update subject")
	}
	return utils.SendSuccess(c, "subject updated", subject)
}

func (h *AcademicHandler) deleteSubject(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	if err := h.service.DeleteSubject(c.Context(), id); err != nil {
		return h.academicError(c, err, "failed to delete subject")
	}
	return utils.SendSuccess(c, "subject deleted", fiber.Map{"id": id})
}

func (h *AcademicHandler) listAssignments(c *fiber.Ctx) error {
	assignments, err := h.service.ListAssignments(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list teacher assignments")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list teacher assignments")
	}
	return utils.SendSuccess(c, "teacher assignments retrieved", assignments)
}

func (h *AcademicHandler) createAssignment(c *fiber.Ctx) error {
	var payload dto.TeacherAssignmentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	assignment, err := h.service.CreateAssignment(c.Context(), payload)
	if err != nil {
		return h.academicError(c, err, "failed to create teacher assignment")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "teacher assignment created", assignment)
}

func (h *AcademicHandler) deleteAssignment(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	if err := h.service.DeleteAssignment(c.Context(), id); err != nil {
		return h.academicError(c, err, "failed to delete teacher assignment")
	}
	return utils.SendSuccess(c, "teacher assignment deleted", fiber.Map{"id": id})
}

// academicError maps the service error taxonomy onto HTTP statuses.
func (h *AcademicHandler) academicError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrNotATeacher),
		errors.Is(err, service.ErrYearInactive),
		errors.Is(err, service.ErrSubjectNotInClass):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAcademicYearNotFound),
		errors.Is(err, service.ErrClassNotFound),
		errors.Is(err, service.ErrSectionNotFound),
		errors.Is(err, service.ErrSubjectNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return utils.SendError(c, fiber.StatusConflict, "a record with the same unique value already exists")
	default:
		h.logger.Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
