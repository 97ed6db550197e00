package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/candidate-ranker/internal/models"
	"alfredoptarigan/candidate-ranker/internal/services"
)

type PathwayHandler struct {
	pathways services.PathwayService
}

func NewPathwayHandler(pathways services.PathwayService) *PathwayHandler {
	return &PathwayHandler{pathways: pathways}
}

// HandleParse handles POST /pathways/parse. It never calls the model.
func (h *PathwayHandler) HandleParse(c *fiber.Ctx) error {
	var req models.PathwayParseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request payload")
	}

	return c.JSON(services.ParsePathway(req.Text))
}

// HandleGenerate handles POST /pathways
func (h *PathwayHandler) HandleGenerate(c *fiber.Ctx) error {
	var req models.PathwayRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request payload")
	}

	if strings.TrimSpace(req.Job.Title) == "" {
		return badRequest(c, "job.title is required")
	}

	pathway, err := h.pathways.Generate(c.UserContext(), req.Job)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(pathway)
}
