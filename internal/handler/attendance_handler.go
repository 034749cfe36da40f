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

// AttendanceHandler serves roster marking, reports and the student's
// own attendance view.
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

// Register attaches the staff-guarded routes.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Get("/roster", h.roster)
	router.Post("/mark", h.mark)
	router.Get("/report", h.report)
}

// RegisterSelf attaches the student's own attendance route.
func (h *AttendanceHandler) RegisterSelf(router fiber.Router) {
	router.Get("", h.myAttendance)
}

func (h *AttendanceHandler) roster(c *fiber.Ctx) error {
	classID, err := parseQueryUintPtr(c, "class_id")
	if err != nil || classID == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "class_id is required")
	}
	sectionID, err := parseQueryUintPtr(c, "section_id")
	if err != nil || sectionID == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "section_id is required")
	}

	students, err := h.service.Roster(c.Context(), *classID, *sectionID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load roster")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load roster")
	}

	return utils.SendSuccess(c, "roster retrieved", students)
}

func (h *AttendanceHandler) mark(c *fiber.Ctx) error {
	var payload dto.MarkAttendanceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	records, err := h.service.Mark(c.Context(), payload, middleware.CurrentUserID(c))
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEmptyRoster),
			errors.Is(err, service.ErrStudentNotInRoster),
			errors.Is(err, service.ErrInvalidStatus):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Msg("failed to mark attendance")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to mark attendance")
		}
	}

	return utils.SendSuccess(c, "attendance marked", records)
}

func (h *AttendanceHandler) report(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	classID, err := parseQueryUintPtr(c, "class_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid class_id")
	}
	sectionID, err := parseQueryUintPtr(c, "section_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid section_id")
	}

	filter := dto.AttendanceReportFilter{
		ClassID:   classID,
		SectionID: sectionID,
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
		Status:    c.Query("status"),
		Page:      page,
	}

	records, meta, err := h.service.Report(c.Context(), filter)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			return utils.SendError(c, fiber.StatusBadRequest, "unknown attendance status")
		case errors.Is(err, service.ErrInvalidDate):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Msg("failed to build attendance report")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to build attendance report")
		}
	}

	return utils.SendPaginated(c, "attendance report retrieved", records, fiber.Map{"pagination": meta})
}

func (h *AttendanceHandler) myAttendance(c *fiber.Ctx) error {
	records, err := h.service.MyAttendance(c.Context(), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		h.logger.Error().Err(err).Msg("failed to fetch attendance")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch attendance")
	}

	return utils.SendSuccess(c, "attendance retrieved", records)
}
