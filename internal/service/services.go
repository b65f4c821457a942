package service

import (
	"context"
	"io"
	"net/http"

	"github.com/article-review-portal/internal/listing"
	"github.com/article-review-portal/internal/models"
	"github.com/article-review-portal/internal/repository"
	"github.com/article-review-portal/internal/status"
	"github.com/article-review-portal/internal/validation"
	"github.com/rs/zerolog"
)

// ArticleService defines the read side of the portal
type ArticleService interface {
	List(ctx context.Context, opts listing.Options) ([]models.Article, error)
	Dashboard(ctx context.Context, opts listing.Options) (*Dashboard, error)
	Detail(ctx context.Context, id string) (*ArticleDetail, error)
	Track(ctx context.Context, code string) (*models.Article, error)
	StatusCounts(ctx context.Context) (map[string]int, error)
}

// ActionService defines the administrator actions
type ActionService interface {
	Approve(ctx context.Context, id string) (string, error)
	Reject(ctx context.Context, id string) (string, error)
	Anonymize(ctx context.Context, id string, form models.AnonymizeForm) (string, error)
	AssignReviewer(ctx context.Context, req *models.AssignReviewerRequest) (string, error)
	AddTestReviewers(ctx context.Context) (string, error)
	Download(ctx context.Context, id string, anonymized bool) (*models.Download, error)
}

// ReviewerService defines the reviewer flows
type ReviewerService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, error)
	Assigned(ctx context.Context, user models.User) ([]AssignedArticle, error)
	ReviewTarget(ctx context.Context, user models.User, id string) (*AssignedArticle, error)
	SubmitReview(ctx context.Context, user models.User, id string, form models.ReviewForm) (string, error)
	Download(ctx context.Context, user models.User, id string) (*models.Download, error)
}

// AuthorService defines the author flows
type AuthorService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, error)
	Profile(ctx context.Context, user models.User) (*AuthorPage, error)
	Submit(ctx context.Context, req *models.SubmitArticleRequest) (*models.SubmitResult, error)
	Revise(ctx context.Context, user models.User, req *models.ReviseArticleRequest) (string, error)
	SendMessage(ctx context.Context, user models.User, form models.MessageForm) (string, error)
}

// ExportService defines the admin data exports
type ExportService interface {
	StreamArticles(ctx context.Context, w http.ResponseWriter, format string, opts listing.Options) error
	StreamAuditLogs(ctx context.Context, w http.ResponseWriter, format string) error
}

// ImportService defines bulk reviewer assignment
type ImportService interface {
	ImportAssignments(ctx context.Context, r io.Reader) (*ImportReport, error)
}

// Services holds all service interfaces
type Services struct {
	Articles  ArticleService
	Actions   ActionService
	Reviewers ReviewerService
	Authors   AuthorService
	Export    ExportService
	Import    ImportService
}

// NewServices creates all services. A nil normalizer uses the built-in
// status table.
func NewServices(repos *repository.Repositories, normalizer *status.Normalizer, log zerolog.Logger) *Services {
	if normalizer == nil {
		normalizer = status.Default()
	}
	v := validation.NewValidator()

	articleSvc := newArticleService(repos, normalizer, v, log)
	actionSvc := newActionService(repos.Admin, v, log)

	return &Services{
		Articles:  articleSvc,
		Actions:   actionSvc,
		Reviewers: newReviewerService(repos, normalizer, v, log),
		Authors:   newAuthorService(repos, normalizer, v, log),
		Export:    newExportService(articleSvc, repos.Admin, log),
		Import:    newImportService(actionSvc, v, log),
	}
}

func normalizeArticle(n *status.Normalizer, a *models.Article) {
	a.Status = n.Normalize(a.Status)
	a.ReviewStatus = n.Normalize(a.ReviewStatus)
}

func normalizeAll(n *status.Normalizer, articles []models.Article) {
	for i := range articles {
		normalizeArticle(n, &articles[i])
	}
}
