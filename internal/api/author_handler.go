package api

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/article-review-portal/internal/apiclient"
	"github.com/article-review-portal/internal/config"
	"github.com/article-review-portal/internal/models"
	"github.com/article-review-portal/internal/notice"
	"github.com/article-review-portal/internal/service"
	"github.com/article-review-portal/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const authorLoginPath = "/author/login"

// AuthorHandler handles the author pages
type AuthorHandler struct {
	services *service.Services
	guard    *session.Guard
	cfg      *config.Config
	log      zerolog.Logger
}

// NewAuthorHandler creates a new AuthorHandler
func NewAuthorHandler(services *service.Services, guard *session.Guard, cfg *config.Config, log zerolog.Logger) *AuthorHandler {
	return &AuthorHandler{
		services: services,
		guard:    guard,
		cfg:      cfg,
		log:      log.With().Str("handler", "author").Logger(),
	}
}

func authorLoginPage(c *gin.Context, status int, email string, n *notice.Notice) {
	data := gin.H{
		"Heading": "Yazar Girişi",
		"Action":  authorLoginPath,
		"AskName": false,
		"Email":   email,
		"Name":    "",
	}
	if n != nil {
		data["Notice"] = *n
	}
	page(c, status, "login.html", "Yazar Girişi", data)
}

// LoginPage handles GET /author/login
func (h *AuthorHandler) LoginPage(c *gin.Context) {
	authorLoginPage(c, http.StatusOK, "", nil)
}

// Login handles POST /author/login
func (h *AuthorHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	_ = c.ShouldBind(&req)

	user, err := h.services.Authors.Login(c.Request.Context(), &req)
	if err != nil {
		n := notice.FromError(err, "Bu e-posta adresine ait yazar bulunamadı.")
		authorLoginPage(c, http.StatusUnauthorized, req.Email, &n)
		return
	}
	if err := h.guard.Login(c.Writer, *user); err != nil {
		h.log.Error().Err(err).Msg("Failed to issue session")
		n := notice.Error(notice.MsgGeneric)
		authorLoginPage(c, http.StatusInternalServerError, req.Email, &n)
		return
	}
	redirect(c, "/author/profile", notice.Success("Hoş geldiniz, "+user.DisplayName()))
}

// Logout handles POST /author/logout
func (h *AuthorHandler) Logout(c *gin.Context) {
	if err := h.guard.Logout(c.Request.Context(), c.Writer, c.Request); err != nil {
		h.log.Error().Err(err).Msg("Failed to revoke session")
	}
	redirect(c, authorLoginPath, notice.Info("Çıkış yapıldı."))
}

// Profile handles GET /author/profile
func (h *AuthorHandler) Profile(c *gin.Context) {
	user, _ := session.CurrentUser(c)
	p, err := h.services.Authors.Profile(c.Request.Context(), user)
	if err != nil {
		h.log.Error().Err(err).Str("email", user.Email).Msg("Failed to load profile")
		errorPage(c, err, "Profil bilgileri yüklenemedi.")
		return
	}
	page(c, http.StatusOK, "author_profile.html", "Yazar Profili", gin.H{"Page": p})
}

// UploadPage handles GET /author/upload
func (h *AuthorHandler) UploadPage(c *gin.Context) {
	page(c, http.StatusOK, "author_upload.html", "Makale Yükle", gin.H{
		"Form":   models.SubmitArticleRequest{},
		"Result": (*models.SubmitResult)(nil),
	})
}

// Upload handles POST /author/upload
func (h *AuthorHandler) Upload(c *gin.Context) {
	user, _ := session.CurrentUser(c)
	req := models.SubmitArticleRequest{Email: user.Email}

	fail := func(status int, n notice.Notice) {
		page(c, status, "author_upload.html", "Makale Yükle", gin.H{
			"Form":   req,
			"Result": (*models.SubmitResult)(nil),
			"Notice": n,
		})
	}

	if err := limitUpload(c, h.cfg.Upload.MaxUploadSize); err != nil {
		fail(http.StatusRequestEntityTooLarge, notice.Error(msgFileTooLarge))
		return
	}
	req.Title = c.PostForm("title")
	req.Keywords = c.PostForm("keywords")
	req.Institution = c.PostForm("institution")

	file, header, err := uploadedFile(c, "file", h.cfg.Upload.MaxUploadSize)
	switch {
	case errors.Is(err, errUploadTooLarge):
		fail(http.StatusRequestEntityTooLarge, notice.Error(msgFileTooLarge))
		return
	case err == nil:
		defer file.Close()
		if !isPDF(header.Filename) {
			fail(http.StatusBadRequest, notice.Error(msgPDFOnly))
			return
		}
		req.File = file
		req.FileName = filepath.Base(header.Filename)
	}

	res, err := h.services.Authors.Submit(c.Request.Context(), &req)
	if err != nil {
		fail(http.StatusUnprocessableEntity, notice.FromError(err, "Makale yüklenemedi."))
		return
	}

	h.log.Info().
		Str("tracking_code", res.Code()).
		Str("file", req.FileName).
		Msg("Article uploaded")

	page(c, http.StatusCreated, "author_upload.html", "Makale Yükle", gin.H{
		"Form":   models.SubmitArticleRequest{},
		"Result": res,
		"Notice": successNotice(res.Message, "Makale başarıyla yüklendi."),
	})
}

// Revise handles POST /author/revise
func (h *AuthorHandler) Revise(c *gin.Context) {
	user, _ := session.CurrentUser(c)
	back := func(n notice.Notice) { redirect(c, "/author/profile", n) }

	if err := limitUpload(c, h.cfg.Upload.MaxUploadSize); err != nil {
		back(notice.Error(msgFileTooLarge))
		return
	}
	req := models.ReviseArticleRequest{TrackingCode: c.PostForm("tracking_code")}

	file, header, err := uploadedFile(c, "file", h.cfg.Upload.MaxUploadSize)
	switch {
	case errors.Is(err, errUploadTooLarge):
		back(notice.Error(msgFileTooLarge))
		return
	case err == nil:
		defer file.Close()
		if !isPDF(header.Filename) {
			back(notice.Error(msgPDFOnly))
			return
		}
		req.File = file
		req.FileName = filepath.Base(header.Filename)
	}

	msg, err := h.services.Authors.Revise(c.Request.Context(), user, &req)
	if err != nil {
		back(authorActionNotice(err, "Revize makale yüklenemedi."))
		return
	}
	back(successNotice(msg, "Revize makale yüklendi."))
}

// Message handles POST /author/messages
func (h *AuthorHandler) Message(c *gin.Context) {
	user, _ := session.CurrentUser(c)
	var form models.MessageForm
	_ = c.ShouldBind(&form)

	msg, err := h.services.Authors.SendMessage(c.Request.Context(), user, form)
	if err != nil {
		redirect(c, "/author/profile", authorActionNotice(err, "Mesaj gönderilemedi."))
		return
	}
	redirect(c, "/author/profile", successNotice(msg, "Mesajınız editöre iletildi."))
}

func authorActionNotice(err error, fallback string) notice.Notice {
	switch {
	case errors.Is(err, service.ErrNotOwner):
		return notice.Error("Bu makale size ait değil.")
	case apiclient.IsNotFound(err):
		return notice.Error("Bu takip koduna ait makale bulunamadı.")
	}
	return notice.FromError(err, fallback)
}

const (
	msgFileTooLarge = "Dosya çok büyük."
	msgPDFOnly      = "Yalnızca PDF dosyaları yüklenebilir."
)

func isPDF(name string) bool {
	return strings.ToLower(filepath.Ext(name)) == ".pdf"
}
