package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/candidate-ranker/internal/models"
	"alfredoptarigan/candidate-ranker/internal/services"
)

type SearchHandler struct {
	search services.CandidateSearchService
}

func NewSearchHandler(search services.CandidateSearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// HandleSearch handles POST /candidates/search
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	var req models.CandidateSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request payload")
	}

	if strings.TrimSpace(req.JobID) == "" {
		return badRequest(c, "job_id is required")
	}

	matches, err := h.search.Search(c.UserContext(), req.JobID, req.Query, req.Limit)
	if err != nil {
		if errors.Is(err, services.ErrEmptyQuery) {
			return badRequest(c, err.Error())
		}
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"job_id":  req.JobID,
		"matches": matches,
	})
}
