package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edumate/sims-api/internal/service"
	"github.com/edumate/sims-api/internal/utils"
)

// DashboardHandler serves the staff and admin landing counters.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches the staff dashboard route.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("", h.staff)
}

// RegisterAdmin attaches the admin dashboard route.
func (h *DashboardHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.admin)
}

func (h *DashboardHandler) staff(c *fiber.Ctx) error {
	dashboard, err := h.service.StaffDashboard(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to build dashboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build dashboard")
	}
	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}

func (h *DashboardHandler) admin(c *fiber.Ctx) error {
	dashboard, err := h.service.AdminDashboard(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to build admin dashboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build admin dashboard")
	}
	return utils.SendSuccess(c, "admin dashboard retrieved", dashboard)
}
