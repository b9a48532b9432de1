package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hr-portal/recruitment-service/internal/service"
)

// StatsHandler serves dashboard counters.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Overview handles GET /stats/overview.
func (h *StatsHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.stats.Overview(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": overview})
}
