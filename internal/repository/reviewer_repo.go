package repository

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/article-review-portal/internal/apiclient"
	"github.com/article-review-portal/internal/models"
)

// reviewerRepo is the concrete implementation of ReviewerRepository
type reviewerRepo struct {
	client *apiclient.Client
}

// NewReviewerRepo creates a new reviewer repository
func NewReviewerRepo(client *apiclient.Client) ReviewerRepository {
	return &reviewerRepo{client: client}
}

// Login checks the reviewer email with the backend. The backend issues no
// token; any 2xx means the email is a known reviewer.
func (r *reviewerRepo) Login(ctx context.Context, email string) (*models.LoginResponse, error) {
	var res models.LoginResponse
	if err := r.client.PostJSON(ctx, "/reviewer/login", models.LoginRequest{Email: email}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// AssignedArticles fetches the articles assigned to a reviewer
func (r *reviewerRepo) AssignedArticles(ctx context.Context, email string) ([]models.Article, error) {
	path := "/reviewer/articles/" + seg(email)
	var raw json.RawMessage
	if err := r.client.GetJSON(ctx, path, &raw); err != nil {
		return nil, err
	}
	return decodeArticles(unwrap(raw, "articles"), path)
}

func (r *reviewerRepo) SubmitReview(ctx context.Context, sub *models.ReviewSubmission) (string, error) {
	var msg models.MessageResponse
	if err := r.client.PostJSON(ctx, "/reviewer/submit-review", sub, &msg); err != nil {
		return "", err
	}
	return msg.Text(), nil
}

// Download fetches the anonymized copy handed to reviewers
func (r *reviewerRepo) Download(ctx context.Context, id, email string) (*models.Download, error) {
	return r.client.Download(ctx, http.MethodPost, "/reviewer/download/"+seg(id),
		models.ReviewerDownloadRequest{ReviewerEmail: email})
}
