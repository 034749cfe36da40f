package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/service"
	"github.com/edumate/sims-api/internal/utils"
)

// AuthHandler serves login and token refresh.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/login", h.login)
	router.Post("/refresh", h.refresh)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Login(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidCredentials):
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid username or password")
		case errors.Is(err, service.ErrAccountInactive):
			return utils.SendError(c, fiber.StatusForbidden, "account is inactive")
		default:
			h.logger.Error().Err(err).Msg("login failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "login failed")
		}
	}

	return utils.SendSuccess(c, "login successful", response)
}

func (h *AuthHandler) refresh(c *fiber.Ctx) error {
	var payload dto.RefreshRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Refresh(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidRefresh):
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid refresh token")
		case errors.Is(err, service.ErrAccountInactive):
			return utils.SendError(c, fiber.StatusForbidden, "account is inactive")
		default:
			h.logger.Error().Err(err).Msg("token refresh failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "token refresh failed")
		}
	}

	return utils.SendSuccess(c, "token refreshed", response)
}
