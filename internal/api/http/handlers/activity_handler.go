package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-dashboard/internal/api/dto"
	"github.com/spec-kit/support-dashboard/internal/observability"
	"github.com/spec-kit/support-dashboard/internal/service"
)

// ActivityHandler exposes the recent-activity feed and request counters.
type ActivityHandler struct {
	activity *service.ActivityService
	metrics  *observability.Metrics
}

// NewActivityHandler constructs handler.
func NewActivityHandler(activity *service.ActivityService, metrics *observability.Metrics) *ActivityHandler {
	return &ActivityHandler{activity: activity, metrics: metrics}
}

// Recent GET /api/activity?limit=.
func (h *ActivityHandler) Recent(c *fiber.Ctx) error {
	entries := h.activity.Recent(c.QueryInt("limit", 20))
	resp := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.ActivityResponse{
			ID:        entry.ID,
			Type:      string(entry.Type),
			TicketID:  entry.TicketID,
			Summary:   entry.Summary,
			Timestamp: entry.Timestamp,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Metrics GET /metrics.
func (h *ActivityHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Snapshot()})
}
