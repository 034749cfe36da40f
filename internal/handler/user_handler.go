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

// UserHandler serves account management and self-service profile routes.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register attaches the admin-guarded account routes.
func (h *UserHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

// RegisterProfile attaches the self-service profile routes.
func (h *UserHandler) RegisterProfile(router fiber.Router) {
	router.Get("", h.profile)
	router.Patch("", h.updateProfile)
}

func (h *UserHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}

	users, meta, err := h.service.List(c.Context(), c.Query("role"), c.Query("search"), page)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list users")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list users")
	}

	return utils.SendPaginated(c, "users retrieved", users, fiber.Map{"pagination": meta})
}

func (h *UserHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	user, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		}
		h.logger.Error().Err(err).Uint("user_id", id).Msg("failed to fetch user")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch user")
	}

	return utils.SendSuccess(c, "user retrieved", user)
}

func (h *UserHandler) create(c *fiber.Ctx) error {
	var payload dto.UserCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.Create(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUnknownRole):
			return utils.SendError(c, fiber.StatusBadRequest, "unknown role")
		case errors.Is(err, service.ErrUsernameTaken):
			return utils.SendError(c, fiber.StatusConflict, "username already taken")
		default:
			h.logger.Error().Err(err).Msg("failed to create user")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create user")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user created", user)
}

func (h *UserHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	var payload dto.UserUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUnknownRole):
			return utils.SendError(c, fiber.StatusBadRequest, "unknown role")
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		default:
			h.logger.Error().Err(err).Uint("user_id", id).Msg("failed to update user")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update user")
		}
	}

	return utils.SendSuccess(c, "user updated", user)
}

func (h *UserHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Delete(c.Context(), id, middleware.CurrentUserID(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfDeletion):
			return utils.SendError(c, fiber.StatusBadRequest, "cannot delete own account")
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		default:
			h.logger.Error().Err(err).Uint("user_id", id).Msg("failed to delete user")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete user")
		}
	}

	return utils.SendSuccess(c, "user deleted", fiber.Map{"id": id})
}

func (h *UserHandler) profile(c *fiber.Ctx) error {
	user, student, err := h.service.GetProfile(c.Context(), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		}
		h.logger.Error().Err(err).Msg("failed to fetch profile")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch profile")
	}

	return utils.SendSuccess(c, "profile retrieved", fiber.Map{
		"user":    user,
		"student": student,
	})
}

func (h *UserHandler) updateProfile(c *fiber.Ctx) error {
	var payload dto.ProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.UpdateProfile(c.Context(), middleware.CurrentUserID(c), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrProfileMissing):
			return utils.SendError(c, fiber.StatusBadRequest, "no student profile for this account")
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		default:
			h.logger.Error().Err(err).Msg("failed to update profile")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update profile")
		}
	}

	return utils.SendSuccess(c, "profile updated", user)
}
