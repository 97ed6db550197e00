package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/candidate-ranker/internal/models"
	"alfredoptarigan/candidate-ranker/internal/repositories"
	"alfredoptarigan/candidate-ranker/internal/services"
)

type ProfileHandler struct {
	synthesizer services.ProfileSynthesizer
	extractor   services.TextExtractor
	docRepo     repositories.DocumentRepository
}

func NewProfileHandler(
	synthesizer services.ProfileSynthesizer,
	extractor services.TextExtractor,
	docRepo repositories.DocumentRepository,
) *ProfileHandler {
	return &ProfileHandler{
		synthesizer: synthesizer,
		extractor:   extractor,
		docRepo:     docRepo,
	}
}

// HandleSynthesize handles POST /profiles/synthesize. Exactly one of text,
// document_id or resume_url supplies the résumé.
func (h *ProfileHandler) HandleSynthesize(c *fiber.Ctx) error {
	var req models.SynthesizeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request payload")
	}

	var extraction *models.ExtractedText
	text := strings.TrimSpace(req.Text)

	switch {
	case text != "":
	case req.DocumentID != "":
		id, err := uuid.Parse(req.DocumentID)
		if err != nil {
			return badRequest(c, "invalid document_id format")
		}
		doc, err := h.docRepo.FindByID(id)
		if err != nil {
			if errors.Is(err, repositories.ErrDocumentNotFound) {
				return respondError(c, fiber.StatusNotFound, KindValidation, "document not found")
			}
			return respondServiceError(c, err)
		}
		ext := h.extractor.ExtractFile(doc.FilePath)
		extraction, text = &ext, ext.Text
	case req.ResumeURL != "":
		ext := h.extractor.ExtractFromURL(c.UserContext(), req.ResumeURL)
		extraction, text = &ext, ext.Text
	default:
		return badRequest(c, "one of text, document_id or resume_url is required")
	}

	profile, err := h.synthesizer.Synthesize(c.UserContext(), text)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(models.SynthesizeResponse{Profile: profile, Extraction: extraction})
}
