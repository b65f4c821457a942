package api

import (
	"html/template"
	"net/http"
	"time"

	"github.com/article-review-portal/internal/apiclient"
	"github.com/article-review-portal/internal/config"
	"github.com/article-review-portal/internal/models"
	"github.com/article-review-portal/internal/service"
	"github.com/article-review-portal/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, guard *session.Guard, tmpl *template.Template, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.MaxMultipartMemory = cfg.Upload.MaxUploadSize

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(securityHeadersMiddleware())

	// Handlers
	publicHandler := NewPublicHandler(services, log)
	adminHandler := NewAdminHandler(services, log)
	reviewerHandler := NewReviewerHandler(services, guard, log)
	authorHandler := NewAuthorHandler(services, guard, cfg, log)
	exportHandler := NewExportHandler(services, log)
	importHandler := NewImportHandler(services, cfg, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services))

	router.GET("/", publicHandler.Index)
	router.GET("/track", publicHandler.Track)

	// Admin pages carry no session; the backend owns admin authorization.
	admin := router.Group("/admin")
	{
		admin.GET("", adminHandler.Dashboard)
		admin.POST("/test-reviewers", adminHandler.AddTestReviewers)
		admin.GET("/export", exportHandler.Export)
		admin.POST("/assignments/import", importHandler.ImportAssignments)

		articles := admin.Group("/articles/:id")
		{
			articles.GET("", adminHandler.Detail)
			articles.GET("/download", adminHandler.Download)
			articles.POST("/approve", adminHandler.Approve)
			articles.POST("/reject", adminHandler.Reject)
			articles.POST("/anonymize", adminHandler.Anonymize)
			articles.POST("/assign-reviewer", adminHandler.AssignReviewer)
		}
	}

	reviewer := router.Group("/reviewer")
	{
		reviewer.GET("/login", reviewerHandler.LoginPage)
		reviewer.POST("/login", reviewerHandler.Login)
		reviewer.POST("/logout", reviewerHandler.Logout)

		guarded := reviewer.Group("", guard.Require(models.RoleReviewer, reviewerLoginPath))
		{
			guarded.GET("/dashboard", reviewerHandler.Dashboard)
			guarded.GET("/articles/:id/review", reviewerHandler.ReviewPage)
			guarded.POST("/articles/:id/review", reviewerHandler.SubmitReview)
			guarded.GET("/articles/:id/download", reviewerHandler.Download)
		}
	}

	author := router.Group("/author")
	{
		author.GET("/login", authorHandler.LoginPage)
		author.POST("/login", authorHandler.Login)
		author.POST("/logout", authorHandler.Logout)

		guarded := author.Group("", guard.Require(models.RoleAuthor, authorLoginPath))
		{
			guarded.GET("/profile", authorHandler.Profile)
			guarded.GET("/upload", authorHandler.UploadPage)
			guarded.POST("/upload", authorHandler.Upload)
			guarded.POST("/revise", authorHandler.Revise)
			guarded.POST("/messages", authorHandler.Message)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		page(c, http.StatusNotFound, "error.html", "Sayfa Bulunamadı", gin.H{
			"Status":  http.StatusNotFound,
			"Message": "Aradığınız sayfa bulunamadı.",
		})
	})

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "article-review-portal",
	})
}

// metricsHandler returns article counts per status
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := services.Articles.StatusCounts(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":     "backend unavailable",
				"timestamp": time.Now().Format(time.RFC3339),
			})
			return
		}
		total := 0
		for _, n := range counts {
			total += n
		}
		c.JSON(http.StatusOK, gin.H{
			"articles": gin.H{
				"total":     total,
				"by_status": counts,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// requestIDMiddleware tags each request with an id that is forwarded to the
// backend
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(apiclient.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("request_id", c.GetString("request_id")).
					Str("path", c.Request.URL.Path).
					Msg("Panic recovered")
				c.HTML(http.StatusInternalServerError, "error.html", gin.H{
					"Title":   "Hata",
					"Status":  http.StatusInternalServerError,
					"Message": "Beklenmeyen bir hata oluştu.",
					"User":    (*models.User)(nil),
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString("request_id")).
			Msg("Request completed")
	}
}

// securityHeadersMiddleware sets the headers every page carries
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		h.Set("Cache-Control", "no-store")
		c.Next()
	}
}
