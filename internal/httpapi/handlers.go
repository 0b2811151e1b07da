package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/llmrank/crawlengine/internal/models"
)

func (s *Server) createJob(c *fiber.Ctx) error {
	var payload models.JobPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(payload.SeedURLs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "seedUrls is required"})
	}
	if payload.Config.UserAgent == "" {
		payload.Config = models.DefaultCrawlConfig()
	}

	jobID := s.manager.Submit(payload)
	s.logger.Info().Str("job_id", jobID).Strs("seed_urls", payload.SeedURLs).Msg("job submitted")

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"jobId":  jobID,
		"status": "queued",
	})
}

func (s *Server) jobStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	return c.JSON(s.manager.Status(id))
}

func (s *Server) cancelJob(c *fiber.Ctx) error {
	id := c.Params("id")
	if !s.manager.Cancel(id) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
	}
	return c.JSON(fiber.Map{"jobId": id, "status": "cancelled"})
}
