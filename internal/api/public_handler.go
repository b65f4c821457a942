package api

import (
	"net/http"
	"strings"

	"github.com/article-review-portal/internal/apiclient"
	"github.com/article-review-portal/internal/models"
	"github.com/article-review-portal/internal/notice"
	"github.com/article-review-portal/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PublicHandler handles the pages that need no session
type PublicHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewPublicHandler creates a new PublicHandler
func NewPublicHandler(services *service.Services, log zerolog.Logger) *PublicHandler {
	return &PublicHandler{
		services: services,
		log:      log.With().Str("handler", "public").Logger(),
	}
}

// Index handles GET /
func (h *PublicHandler) Index(c *gin.Context) {
	page(c, http.StatusOK, "index.html", "Ana Sayfa", nil)
}

// Track handles GET /track. Without a code it shows the lookup form.
func (h *PublicHandler) Track(c *gin.Context) {
	code := strings.TrimSpace(c.Query("code"))
	data := gin.H{"Code": code, "Article": (*models.Article)(nil)}
	if code == "" {
		page(c, http.StatusOK, "track.html", "Makale Takibi", data)
		return
	}

	article, err := h.services.Articles.Track(c.Request.Context(), code)
	if err != nil {
		status := http.StatusBadGateway
		if apiclient.IsNotFound(err) {
			status = http.StatusNotFound
		}
		data["Notice"] = notice.FromError(err, "Bu takip koduna ait makale bulunamadı.")
		page(c, status, "track.html", "Makale Takibi", data)
		return
	}
	data["Article"] = article
	page(c, http.StatusOK, "track.html", "Makale Takibi", data)
}
