package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edumate/sims-api/internal/service"
	"github.com/edumate/sims-api/internal/utils"
)

// LookupHandler serves the cascading dropdown endpoints.
type LookupHandler struct {
	service service.LookupService
	logger  zerolog.Logger
}

// NewLookupHandler constructs the handler.
func NewLookupHandler(service service.LookupService, logger zerolog.Logger) *LookupHandler {
	return &LookupHandler{
		service: service,
		logger:  logger.With().Str("component", "lookup_handler").Logger(),
	}
}

// Register attaches routes.
func (h *LookupHandler) Register(router fiber.Router) {
	router.Get("/sections", h.sections)
	router.Get("/subjects", h.subjects)
	router.Get("/students", h.students)
}

func (h *LookupHandler) sections(c *fiber.Ctx) error {
	classID, err := parseQueryUintPtr(c, "class_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid class_id")
	}

	items, err := h.service.SectionsByClass(c.Context(), classID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to look up sections")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to look up sections")
	}
	return utils.SendSuccess(c, "sections retrieved", items)
}

func (h *LookupHandler) subjects(c *fiber.Ctx) error {
	classID, err := parseQueryUintPtr(c, "class_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid class_id")
	}

	items, err := h.service.SubjectsByClass(c.Context(), classID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to look up subjects")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to look up subjects")
	}
	return utils.SendSuccess(c, "subjects retrieved", items)
}

func (h *LookupHandler) students(c *fiber.Ctx) error {
	sectionID, err := parseQueryUintPtr(c, "section_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid section_id")
	}
	classID, err := parseQueryUintPtr(c, "class_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid class_id")
	}

	items, err := h.service.StudentsBySectionOrClass(c.Context(), sectionID, classID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to look up students")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to look up students")
	}
	return utils.SendSuccess(c, "students retrieved", items)
}
