package handlers

import (
	"aesthetx/internal/services/dashboard"
	"aesthetx/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService dashboard.Service
}

func NewDashboardHandler(dashboardService dashboard.Service) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetStats returns the back office overview.
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, stats)
}
