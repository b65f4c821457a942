package api

import (
	"net/http"
	"net/url"

	"github.com/article-review-portal/internal/listing"
	"github.com/article-review-portal/internal/models"
	"github.com/article-review-portal/internal/notice"
	"github.com/article-review-portal/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AdminHandler handles the administrator pages and actions
type AdminHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services *service.Services, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

// Dashboard handles GET /admin
func (h *AdminHandler) Dashboard(c *gin.Context) {
	var opts listing.Options
	if err := c.ShouldBindQuery(&opts); err != nil {
		opts = listing.Options{}
	}
	data := gin.H{
		"Options":       opts,
		"SortKeys":      listing.SortKeys,
		"ExportFormats": service.ExportFormats,
	}

	dashboard, err := h.services.Articles.Dashboard(c.Request.Context(), opts)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load dashboard")
		data["Notice"] = notice.FromError(err, "Makaleler yüklenemedi.")
		page(c, http.StatusBadGateway, "admin_dashboard.html", "Yönetici Paneli", data)
		return
	}
	data["Dashboard"] = dashboard
	page(c, http.StatusOK, "admin_dashboard.html", "Yönetici Paneli", data)
}

// Detail handles GET /admin/articles/:id
func (h *AdminHandler) Detail(c *gin.Context) {
	id := c.Param("id")
	detail, err := h.services.Articles.Detail(c.Request.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Str("article_id", id).Msg("Failed to load article")
		errorPage(c, err, "Makale detayları yüklenemedi.")
		return
	}
	page(c, http.StatusOK, "article_detail.html", detail.Article.Title, gin.H{"Detail": detail})
}

// Approve handles POST /admin/articles/:id/approve
func (h *AdminHandler) Approve(c *gin.Context) {
	id := c.Param("id")
	msg, err := h.services.Actions.Approve(c.Request.Context(), id)
	h.finish(c, id, msg, err, "Makale onaylandı.", "Makale onaylanamadı.")
}

// Reject handles POST /admin/articles/:id/reject
func (h *AdminHandler) Reject(c *gin.Context) {
	id := c.Param("id")
	msg, err := h.services.Actions.Reject(c.Request.Context(), id)
	h.finish(c, id, msg, err, "Makale reddedildi.", "Makale reddedilemedi.")
}

// Anonymize handles POST /admin/articles/:id/anonymize
func (h *AdminHandler) Anonymize(c *gin.Context) {
	id := c.Param("id")
	var form models.AnonymizeForm
	if err := c.ShouldBind(&form); err != nil {
		redirect(c, detailPath(id), notice.Error("Geçersiz form."))
		return
	}
	msg, err := h.services.Actions.Anonymize(c.Request.Context(), id, form)
	h.finish(c, id, msg, err, "Makale anonimleştirildi.", "Anonimleştirme başarısız oldu.")
}

// AssignReviewer handles POST /admin/articles/:id/assign-reviewer
func (h *AdminHandler) AssignReviewer(c *gin.Context) {
	id := c.Param("id")
	req := &models.AssignReviewerRequest{ArticleID: id}
	if err := c.ShouldBind(req); err != nil {
		redirect(c, detailPath(id), notice.Error("Geçersiz form."))
		return
	}
	req.ArticleID = id
	msg, err := h.services.Actions.AssignReviewer(c.Request.Context(), req)
	h.finish(c, id, msg, err, "Hakem atandı.", "Hakem atanamadı.")
}

// AddTestReviewers handles POST /admin/test-reviewers
func (h *AdminHandler) AddTestReviewers(c *gin.Context) {
	msg, err := h.services.Actions.AddTestReviewers(c.Request.Context())
	if err != nil {
		redirect(c, "/admin", notice.FromError(err, "Test hakemleri eklenemedi."))
		return
	}
	redirect(c, "/admin", successNotice(msg, "Test hakemleri eklendi."))
}

// Download handles GET /admin/articles/:id/download
func (h *AdminHandler) Download(c *gin.Context) {
	id := c.Param("id")
	anonymized := c.Query("variant") == "anonymized"

	d, err := h.services.Actions.Download(c.Request.Context(), id, anonymized)
	if err != nil {
		redirect(c, detailPath(id), notice.FromError(err, "Dosya indirilemedi."))
		return
	}
	name := "makale_" + id + ".pdf"
	if anonymized {
		name = "anonim_" + name
	}
	if err := sendDownload(c, d, name); err != nil {
		h.log.Warn().Err(err).Str("article_id", id).Msg("Download interrupted")
	}
}

// finish redirects back to the article after an action.
func (h *AdminHandler) finish(c *gin.Context, id, msg string, err error, success, failure string) {
	if err != nil {
		redirect(c, detailPath(id), notice.FromError(err, failure))
		return
	}
	redirect(c, detailPath(id), successNotice(msg, success))
}

func detailPath(id string) string {
	return "/admin/articles/" + url.PathEscape(id)
}
