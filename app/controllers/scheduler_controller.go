package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maidsflow/control-api/internal/pkg/jobqueue"
)

// HandleRunScheduler triggers one materialization pass immediately.
// The same pass the cron trigger runs; safe to invoke while the cron
// is live because every occurrence is claimed with a compare-and-swap.
func HandleRunScheduler(c *fiber.Ctx) error {
	stats := schedulerRunner.RunDueRecurrences(c.Context())
	return c.JSON(fiber.Map{
		"due":       stats.Due,
		"created":   stats.Created,
		"conflicts": stats.Conflicts,
		"quota":     stats.QuotaHits,
		"exhausted": stats.Exhausted,
		"errors":    stats.Errors,
	})
}

// HandleQueueStats reports background job queue depths and counters.
func HandleQueueStats(c *fiber.Ctx) error {
	queue := jobqueue.GetManager().GetQueue()

	stats, err := queue.GetJobStats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	pending, err := queue.GetQueueSize(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	processing, err := queue.GetProcessingSize(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"pending":    pending,
		"processing": processing,
		"counters":   stats,
	})
}
