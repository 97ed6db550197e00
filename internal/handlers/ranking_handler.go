package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/candidate-ranker/internal/models"
	"alfredoptarigan/candidate-ranker/internal/repositories"
	"alfredoptarigan/candidate-ranker/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RunFinder is the read side of the ranking run store.
type RunFinder interface {
	FindByID(id uuid.UUID) (*models.RankingRun, error)
}

type RankingHandler struct {
	runs   services.RankingRunService
	finder RunFinder
	worker services.Worker
	ranker services.CandidateRanker
}

func NewRankingHandler(
	runs services.RankingRunService,
	finder RunFinder,
	worker services.Worker,
	ranker services.CandidateRanker,
) *RankingHandler {
	return &RankingHandler{
		runs:   runs,
		finder: finder,
		worker: worker,
		ranker: ranker,
	}
}

// HandleCreate handles POST /rankings
func (h *RankingHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.RankingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request payload")
	}

	if err := services.ValidateRankingRequest(req); err != nil {
		return badRequest(c, err.Error())
	}

	run, err := h.runs.Submit(req)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, services.KindInternal, "failed to create ranking run")
	}

	h.worker.EnqueueJob(run.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.RankingAcceptedResponse{
		ID:     run.ID.String(),
		Status: string(run.Status),
	})
}

// HandlePreview handles POST /rankings/preview by ranking within the request.
func (h *RankingHandler) HandlePreview(c *fiber.Ctx) error {
	var req models.RankingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request payload")
	}
	if err := services.ValidateRankingRequest(req); err != nil {
		return badRequest(c, err.Error())
	}

	results, err := h.ranker.Rank(c.UserContext(), req)
	if err != nil {
		if results == nil {
			return respondServiceError(c, err)
		}
		kind := services.ErrorKind(err)
		return c.Status(StatusForKind(kind)).JSON(models.RankingPreviewResponse{
			Job:        req.Job,
			Applicants: results,
			Error:      err.Error(),
			Kind:       kind,
		})
	}

	return c.JSON(models.RankingPreviewResponse{
		Job:        req.Job,
		Applicants: results,
		Success:    true,
	})
}

// HandleGet handles GET /rankings/:id
func (h *RankingHandler) HandleGet(c *fiber.Ctx) error {
	run, err := h.findRun(c)
	if err != nil {
		return err
	}
	if run == nil {
		return nil
	}

	response := models.RankingResultResponse{
		ID:             run.ID.String(),
		Status:         string(run.Status),
		Job:            run.Request.Job,
		CandidateCount: run.CandidateCount,
		FailedCount:    run.FailedCount,
	}

	if run.Status == models.StatusCompleted {
		response.Applicants = run.Results
	}
	if run.Status == models.StatusFailed {
		response.ErrorMessage = run.ErrorMessage
	}

	return c.JSON(response)
}

// HandleExport handles GET /rankings/:id/export
func (h *RankingHandler) HandleExport(c *fiber.Ctx) error {
	run, err := h.findRun(c)
	if err != nil {
		return err
	}
	if run == nil {
		return nil
	}

	if run.Status != models.StatusCompleted {
		return respondError(c, fiber.StatusConflict, KindValidation, fmt.Sprintf("ranking run is %s", run.Status))
	}

	raw, err := services.ExportRankingXLSX(run.Request.Job, run.Results)
	if err != nil {
		return respondServiceError(c, err)
	}

	c.Attachment(fmt.Sprintf("ranking_%s.xlsx", run.ID))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(raw)
}

// findRun writes the error response itself and returns a nil run when the
// request cannot continue.
func (h *RankingHandler) findRun(c *fiber.Ctx) (*models.RankingRun, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, badRequest(c, "invalid ranking run ID format")
	}

	run, err := h.finder.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrRunNotFound) {
			return nil, respondError(c, fiber.StatusNotFound, KindValidation, "ranking run not found")
		}
		return nil, respondServiceError(c, err)
	}

	return run, nil
}
