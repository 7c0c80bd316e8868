package handler

import (
	"github.com/gofiber/fiber/v2"

	"casedocs/internal/service"
)

// CaseTypes returns the per-category document counts across the corpus.
func CaseTypes(analytics service.AnalyticsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		counts, err := analytics.CaseTypeCounts(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(counts)
	}
}

// RecentActivity returns the newest uploads with their display labels.
func RecentActivity(analytics service.AnalyticsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries, err := analytics.RecentActivity(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(entries)
	}
}

// Trends returns day-bucketed upload counts, oldest day first.
func Trends(analytics service.AnalyticsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		buckets, err := analytics.Trends(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(buckets)
	}
}
