package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/service"
	"github.com/edumate/sims-api/internal/utils"
)

// StudentHandler serves enrollment, student records, guardians and
// document uploads.
type StudentHandler struct {
	students  service.StudentService
	documents service.DocumentService
	logger    zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(students service.StudentService, documents service.DocumentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		students:  students,
		documents: documents,
		logger:    logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches routes.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)

	router.Get("/:id/guardians", h.listGuardians)
	router.Post("/:id/guardians", h.addGuardian)
	router.Delete("/:id/guardians/:guardianId", h.deleteGuardian)

	router.Get("/:id/documents", h.listDocuments)
	router.Post("/:id/documents", h.uploadDocument)
	router.Delete("/:id/documents/:documentId", h.deleteDocument)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}

	students, meta, err := h.students.List(c.Context(), c.Query("search"), page)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list students")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list students")
	}

	return utils.SendPaginated(c, "students retrieved", students, fiber.Map{"pagination": meta})
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	student, err := h.students.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		h.logger.Error().Err(err).Uint("student_id", id).Msg("failed to fetch student")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch student")
	}

	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	var payload dto.StudentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.students.Create(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAdmissionTaken):
			return utils.SendError(c, fiber.StatusConflict, "admission number already in use")
		default:
			h.logger.Error().Err(err).Msg("failed to enroll student")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to enroll student")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student enrolled", student)
}

func (h *StudentHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	var payload dto.StudentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.students.Update(c.Context(), id, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		default:
			h.logger.Error().Err(err).Uint("student_id", id).Msg("failed to update student")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update student")
		}
	}

	return utils.SendSuccess(c, "student updated", student)
}

func (h *StudentHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.students.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		h.logger.Error().Err(err).Uint("student_id", id).Msg("failed to delete student")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete student")
	}

	return utils.SendSuccess(c, "student deleted", fiber.Map{"id": id})
}

func (h *StudentHandler) listGuardians(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	guardians, err := h.students.ListGuardians(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		h.logger.Error().Err(err).Uint("student_id", id).Msg("failed to list guardians")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list guardians")
	}

	return utils.SendSuccess(c, "guardians retrieved", guardians)
}

func (h *StudentHandler) addGuardian(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	var payload dto.GuardianRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	guardian, err := h.students.AddGuardian(c.Context(), id, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		default:
			h.logger.Error().Err(err).Uint("student_id", id).Msg("failed to add guardian")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to add guardian")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "guardian added", guardian)
}

func (h *StudentHandler) deleteGuardian(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	guardianID, err := parseUintParam(c, "guardianId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.students.DeleteGuardian(c.Context(), id, guardianID); err != nil {
		if errors.Is(err, service.ErrGuardianNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "guardian not found")
		}
		h.logger.Error().Err(err).Uint("guardian_id", guardianID).Msg("failed to delete guardian")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete guardian")
	}

	return utils.SendSuccess(c, "guardian deleted", fiber.Map{"id": guardianID})
}

func (h *StudentHandler) listDocuments(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	documents, err := h.documents.List(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		h.logger.Error().Err(err).Uint("student_id", id).Msg("failed to list documents")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list documents")
	}

	return utils.SendSuccess(c, "documents retrieved", documents)
}

func (h *StudentHandler) uploadDocument(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	document, err := h.documents.Upload(c.Context(), id, c.FormValue("title"), file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		case errors.Is(err, service.ErrDocumentTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "file exceeds maximum allowed size")
		case errors.Is(err, service.ErrDocumentTypeInvalid):
			return utils.SendError(c, fiber.StatusUnsupportedMediaType, "only images and PDF documents are accepted")
		case errors.Is(err, service.ErrDocumentRequired):
			return utils.SendError(c, fiber.StatusBadRequest, "file is required")
		case errors.Is(err, service.ErrUploadsDisabled):
			return utils.SendError(c, fiber.StatusServiceUnavailable, "document storage is not configured")
		default:
			h.logger.Error().Err(err).Uint("student_id", id).Msg("failed to upload document")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to upload document")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "document uploaded", document)
}

func (h *StudentHandler) deleteDocument(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	documentID, err := parseUintParam(c, "documentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.documents.Delete(c.Context(), id, documentID); err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "document not found")
		}
		h.logger.Error().Err(err).Uint("document_id", documentID).Msg("failed to delete document")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete document")
	}

	return utils.SendSuccess(c, "document deleted", fiber.Map{"id": documentID})
}
