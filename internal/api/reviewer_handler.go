package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/article-review-portal/internal/models"
	"github.com/article-review-portal/internal/notice"
	"github.com/article-review-portal/internal/service"
	"github.com/article-review-portal/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const reviewerLoginPath = "/reviewer/login"

// ReviewerHandler handles the reviewer pages
type ReviewerHandler struct {
	services *service.Services
	guard    *session.Guard
	log      zerolog.Logger
}

// NewReviewerHandler creates a new ReviewerHandler
func NewReviewerHandler(services *service.Services, guard *session.Guard, log zerolog.Logger) *ReviewerHandler {
	return &ReviewerHandler{
		services: services,
		guard:    guard,
		log:      log.With().Str("handler", "reviewer").Logger(),
	}
}

func reviewerLoginPage(c *gin.Context, status int, req models.LoginRequest, n *notice.Notice) {
	data := gin.H{
		"Heading": "Hakem Girişi",
		"Action":  reviewerLoginPath,
		"AskName": true,
		"Email":   req.Email,
		"Name":    req.Name,
	}
	if n != nil {
		data["Notice"] = *n
	}
	page(c, status, "login.html", "Hakem Girişi", data)
}

// LoginPage handles GET /reviewer/login
func (h *ReviewerHandler) LoginPage(c *gin.Context) {
	reviewerLoginPage(c, http.StatusOK, models.LoginRequest{}, nil)
}

// Login handles POST /reviewer/login
func (h *ReviewerHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	_ = c.ShouldBind(&req)

	user, err := h.services.Reviewers.Login(c.Request.Context(), &req)
	if err != nil {
		n := notice.FromError(err, "Giriş başarısız. E-posta adresinizi kontrol edin.")
		reviewerLoginPage(c, http.StatusUnauthorized, req, &n)
		return
	}
	if err := h.guard.Login(c.Writer, *user); err != nil {
		h.log.Error().Err(err).Msg("Failed to issue session")
		n := notice.Error(notice.MsgGeneric)
		reviewerLoginPage(c, http.StatusInternalServerError, req, &n)
		return
	}
	redirect(c, "/reviewer/dashboard", notice.Success("Hoş geldiniz, "+user.DisplayName()))
}

// Logout handles POST /reviewer/logout
func (h *ReviewerHandler) Logout(c *gin.Context) {
	if err := h.guard.Logout(c.Request.Context(), c.Writer, c.Request); err != nil {
		h.log.Error().Err(err).Msg("Failed to revoke session")
	}
	redirect(c, reviewerLoginPath, notice.Info("Çıkış yapıldı."))
}

// Dashboard handles GET /reviewer/dashboard
func (h *ReviewerHandler) Dashboard(c *gin.Context) {
	user, _ := session.CurrentUser(c)
	articles, err := h.services.Reviewers.Assigned(c.Request.Context(), user)
	if err != nil {
		h.log.Error().Err(err).Str("reviewer", user.Email).Msg("Failed to load assigned articles")
		page(c, http.StatusBadGateway, "reviewer_dashboard.html", "Hakem Paneli", gin.H{
			"Notice": notice.FromError(err, "Makaleler yüklenemedi."),
		})
		return
	}
	page(c, http.StatusOK, "reviewer_dashboard.html", "Hakem Paneli", gin.H{"Articles": articles})
}

// ReviewPage handles GET /reviewer/articles/:id/review
func (h *ReviewerHandler) ReviewPage(c *gin.Context) {
	user, _ := session.CurrentUser(c)
	id := c.Param("id")

	article, err := h.services.Reviewers.ReviewTarget(c.Request.Context(), user, id)
	if err != nil && !errors.Is(err, service.ErrReviewClosed) {
		if errors.Is(err, service.ErrNotAssigned) {
			redirect(c, "/reviewer/dashboard", notice.Error("Bu makale size atanmamış."))
			return
		}
		errorPage(c, err, "Makale yüklenemedi.")
		return
	}
	page(c, http.StatusOK, "reviewer_review.html", "Değerlendirme", gin.H{
		"Article": article,
		"Form":    models.ReviewForm{},
	})
}

// SubmitReview handles POST /reviewer/articles/:id/review
func (h *ReviewerHandler) SubmitReview(c *gin.Context) {
	user, _ := session.CurrentUser(c)
	id := c.Param("id")

	var form models.ReviewForm
	_ = c.ShouldBind(&form)

	msg, err := h.services.Reviewers.SubmitReview(c.Request.Context(), user, id, form)
	if err != nil {
		// keep the form so the reviewer does not lose the text
		article, terr := h.services.Reviewers.ReviewTarget(c.Request.Context(), user, id)
		if terr != nil && !errors.Is(terr, service.ErrReviewClosed) {
			redirect(c, "/reviewer/dashboard", notice.FromError(err, "Değerlendirme gönderilemedi."))
			return
		}
		page(c, http.StatusUnprocessableEntity, "reviewer_review.html", "Değerlendirme", gin.H{
			"Article": article,
			"Form":    form,
			"Notice":  notice.FromError(err, "Değerlendirme gönderilemedi."),
		})
		return
	}
	redirect(c, "/reviewer/dashboard", successNotice(msg, "Değerlendirmeniz kaydedildi."))
}

// Download handles GET /reviewer/articles/:id/download
func (h *ReviewerHandler) Download(c *gin.Context) {
	user, _ := session.CurrentUser(c)
	id := c.Param("id")

	d, err := h.services.Reviewers.Download(c.Request.Context(), user, id)
	if err != nil {
		redirect(c, "/reviewer/dashboard", notice.FromError(err, "Dosya indirilemedi."))
		return
	}
	if err := sendDownload(c, d, "anonim_makale_"+url.PathEscape(id)+".pdf"); err != nil {
		h.log.Warn().Err(err).Str("article_id", id).Msg("Download interrupted")
	}
}
