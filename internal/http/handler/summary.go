package handler

import (
	"github.com/gofiber/fiber/v2"

	"qualityweb/internal/service"
)

// Summary godoc
// @Summary  Dashboard record counts
// @Tags     dashboard
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} model.DashboardSummary
// @Router   /api/metrics [get]
func Summary(svc service.SummaryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sum, err := svc.Counts(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(sum)
	}
}
