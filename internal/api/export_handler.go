package api

import (
	"errors"
	"net/http"

	"github.com/article-review-portal/internal/listing"
	"github.com/article-review-portal/internal/notice"
	"github.com/article-review-portal/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ExportHandler handles admin data exports
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// Export handles GET /admin/export?resource=articles|audit-logs&format=ndjson|json|csv
// Article exports honour the dashboard's q, status and sort parameters.
func (h *ExportHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()

	resource := c.DefaultQuery("resource", "articles")
	format := c.DefaultQuery("format", "ndjson")

	if !service.ValidExportFormat(format) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: ndjson, json, csv"})
		return
	}

	var err error
	switch resource {
	case "articles":
		var opts listing.Options
		if bindErr := c.ShouldBindQuery(&opts); bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": bindErr.Error()})
			return
		}
		err = h.services.Export.StreamArticles(ctx, c.Writer, format, opts)
	case "audit-logs":
		err = h.services.Export.StreamAuditLogs(ctx, c.Writer, format)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource must be one of: articles, audit-logs"})
		return
	}

	if err != nil {
		h.log.Error().Err(err).Str("resource", resource).Str("format", format).Msg("Export failed")
		if c.Writer.Written() {
			// headers are gone; the client sees a truncated file
			return
		}
		if errors.Is(err, service.ErrUnsupportedFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		redirect(c, "/admin", notice.FromError(err, "Dışa aktarma başarısız oldu."))
	}
}
