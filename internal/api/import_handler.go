package api

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/article-review-portal/internal/config"
	"github.com/article-review-portal/internal/notice"
	"github.com/article-review-portal/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ImportHandler handles bulk reviewer assignment
type ImportHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "import").Logger(),
	}
}

// ImportAssignments handles POST /admin/assignments/import
// Accepts a CSV upload with article_id and reviewer_email columns. The report
// is rendered as a page, or as JSON with ?format=json.
func (h *ImportHandler) ImportAssignments(c *gin.Context) {
	asJSON := c.Query("format") == "json"
	fail := func(status int, msg string) {
		if asJSON {
			c.JSON(status, gin.H{"error": msg})
			return
		}
		redirect(c, "/admin", notice.Error(msg))
	}

	tooLarge := fmt.Sprintf("Dosya çok büyük, en fazla %d MB.", h.cfg.Upload.MaxUploadSize/(1024*1024))
	if err := limitUpload(c, h.cfg.Upload.MaxUploadSize); err != nil {
		fail(http.StatusRequestEntityTooLarge, tooLarge)
		return
	}
	file, header, err := uploadedFile(c, "file", h.cfg.Upload.MaxUploadSize)
	if errors.Is(err, errUploadTooLarge) {
		fail(http.StatusRequestEntityTooLarge, tooLarge)
		return
	}
	if err != nil {
		fail(http.StatusBadRequest, "CSV dosyası gerekli.")
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".csv" {
		fail(http.StatusBadRequest, "Toplu atama için CSV dosyası gerekli.")
		return
	}

	report, err := h.services.Import.ImportAssignments(c.Request.Context(), file)
	if err != nil {
		h.log.Error().Err(err).Str("file", header.Filename).Msg("Assignment import failed")
		switch {
		case errors.Is(err, service.ErrImportHeader):
			fail(http.StatusBadRequest, "CSV dosyasında article_id ve reviewer_email sütunları olmalı.")
		case errors.Is(err, service.ErrImportTooLarge):
			fail(http.StatusBadRequest, "CSV dosyasında çok fazla satır var.")
		default:
			fail(http.StatusBadGateway, notice.FromError(err, "Toplu atama başarısız oldu.").Message)
		}
		return
	}

	h.log.Info().
		Str("file", header.Filename).
		Int64("size_bytes", header.Size).
		Int("assigned", report.Assigned).
		Int("failed", report.Failed).
		Msg("Assignment import completed")

	if asJSON {
		c.JSON(http.StatusOK, report)
		return
	}
	n := notice.Success(fmt.Sprintf("%d hakem ataması yapıldı.", report.Assigned))
	if report.Failed > 0 {
		n = notice.Notice{Kind: notice.KindWarning, Message: fmt.Sprintf("%d atama yapıldı, %d satır başarısız.", report.Assigned, report.Failed)}
	}
	page(c, http.StatusOK, "import_result.html", "Toplu Hakem Atama", gin.H{
		"Report": report,
		"Notice": n,
	})
}
