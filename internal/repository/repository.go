package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"

	"github.com/article-review-portal/internal/apiclient"
	"github.com/article-review-portal/internal/models"
)

// ArticleRepository defines read access to articles and public submission
type ArticleRepository interface {
	List(ctx context.Context) ([]models.Article, error)
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetReviewers(ctx context.Context, id string) ([]models.Reviewer, error)
	GetReviews(ctx context.Context, id string) ([]models.Review, error)
	Track(ctx context.Context, code string) (*models.Article, error)
	Submit(ctx context.Context, req *models.SubmitArticleRequest) (*models.SubmitResult, error)
	Revise(ctx context.Context, req *models.ReviseArticleRequest) (string, error)
}

// AdminRepository defines the administrator operations
type AdminRepository interface {
	AuditLogs(ctx context.Context) ([]models.AuditLog, error)
	Approve(ctx context.Context, id string) (string, error)
	Reject(ctx context.Context, id string) (string, error)
	Anonymize(ctx context.Context, id string, sensitiveInfo []string) (string, error)
	AssignReviewer(ctx context.Context, req *models.AssignReviewerRequest) (string, error)
	AddTestReviewers(ctx context.Context) (string, error)
	Download(ctx context.Context, id string, anonymized bool) (*models.Download, error)
}

// ReviewerRepository defines the reviewer operations
type ReviewerRepository interface {
	Login(ctx context.Context, email string) (*models.LoginResponse, error)
	AssignedArticles(ctx context.Context, email string) ([]models.Article, error)
	SubmitReview(ctx context.Context, sub *models.ReviewSubmission) (string, error)
	Download(ctx context.Context, id, email string) (*models.Download, error)
}

// AuthorRepository defines the author profile lookups and messaging
type AuthorRepository interface {
	Profile(ctx context.Context, email string) (*models.AuthorProfile, error)
	Reviews(ctx context.Context, email string) ([]models.AuthorReview, error)
	SendMessage(ctx context.Context, req *models.MessageRequest) (string, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article  ArticleRepository
	Admin    AdminRepository
	Reviewer ReviewerRepository
	Author   AuthorRepository
}

// New creates all repositories over the given backend client
func New(client *apiclient.Client) *Repositories {
	return &Repositories{
		Article:  NewArticleRepo(client),
		Admin:    NewAdminRepo(client),
		Reviewer: NewReviewerRepo(client),
		Author:   NewAuthorRepo(client),
	}
}

func seg(s string) string {
	return url.PathEscape(s)
}

// unwrap returns the value under key when raw is an object holding it, and
// raw otherwise. Some endpoints wrap their list in an envelope.
func unwrap(raw json.RawMessage, key string) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return raw
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return raw
	}
	if inner, ok := env[key]; ok {
		return inner
	}
	return raw
}
