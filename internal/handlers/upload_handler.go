package handlers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/candidate-ranker/internal/logger"
	"alfredoptarigan/candidate-ranker/internal/models"
	"alfredoptarigan/candidate-ranker/internal/repositories"
	"alfredoptarigan/candidate-ranker/internal/services"
)

type UploadHandler struct {
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	maxFileSize    int64
	log            *zap.Logger
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	maxFileSize int64,
	log *zap.Logger,
) *UploadHandler {
	return &UploadHandler{
		docRepo:        docRepo,
		storageService: storageService,
		maxFileSize:    maxFileSize,
		log:            logger.OrNop(log),
	}
}

// HandleUpload handles POST /upload with a multipart "resume" file.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return badRequest(c, "a 'resume' file (pdf, doc or docx) is required")
	}

	if file.Size > h.maxFileSize {
		return badRequest(c, fmt.Sprintf("resume file too large. Max size: %d bytes", h.maxFileSize))
	}

	filename, filePath, err := h.storageService.SaveFile(file, "resume")
	if err != nil {
		if services.ErrorKind(err) == services.KindUnsupportedFormat {
			return respondServiceError(c, err)
		}
		h.log.Error("failed to save resume", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, services.KindInternal, "failed to save resume file")
	}

	now := time.Now()
	doc := models.Document{
		ID:               uuid.New(),
		Filename:         filename,
		OriginalFileName: file.Filename,
		Format:           strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."),
		FilePath:         filePath,
		URL:              h.storageService.PublicURL(filename),
		Size:             file.Size,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := h.docRepo.Create(&doc); err != nil {
		if delErr := h.storageService.DeleteFile(filename); delErr != nil {
			h.log.Warn("failed to clean up resume file", zap.String("filename", filename), zap.Error(delErr))
		}
		h.log.Error("failed to save document record", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, services.KindInternal, "failed to save resume document record")
	}

	h.log.Info("resume uploaded", zap.String("document_id", doc.ID.String()), zap.Int64("size", doc.Size))

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		ID:           doc.ID.String(),
		Filename:     doc.Filename,
		OriginalName: doc.OriginalFileName,
		Format:       doc.Format,
		URL:          doc.URL,
	})
}
