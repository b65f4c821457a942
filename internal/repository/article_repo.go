package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/article-review-portal/internal/apiclient"
	"github.com/article-review-portal/internal/models"
)

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	client *apiclient.Client
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(client *apiclient.Client) ArticleRepository {
	return &articleRepo{client: client}
}

// List fetches every article
func (r *articleRepo) List(ctx context.Context) ([]models.Article, error) {
	var raw json.RawMessage
	if err := r.client.GetJSON(ctx, "/articles", &raw); err != nil {
		return nil, err
	}
	return decodeArticles(unwrap(raw, "articles"), "/articles")
}

// GetByID fetches one article
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	var article models.Article
	if err := r.client.GetJSON(ctx, "/articles/"+seg(id), &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// GetReviewers fetches the reviewer sub-resource of an article
func (r *articleRepo) GetReviewers(ctx context.Context, id string) ([]models.Reviewer, error) {
	path := "/articles/" + seg(id) + "/reviewers"
	var raw json.RawMessage
	if err := r.client.GetJSON(ctx, path, &raw); err != nil {
		return nil, err
	}
	reviewers, err := models.DecodeReviewers(unwrap(raw, "reviewers"))
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", apiclient.ErrMalformedResponse, path, err)
	}
	return reviewers, nil
}

// GetReviews fetches the review sub-resource of an article
func (r *articleRepo) GetReviews(ctx context.Context, id string) ([]models.Review, error) {
	path := "/articles/" + seg(id) + "/reviews"
	var raw json.RawMessage
	if err := r.client.GetJSON(ctx, path, &raw); err != nil {
		return nil, err
	}
	reviews, err := models.DecodeReviews(unwrap(raw, "reviews"))
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", apiclient.ErrMalformedResponse, path, err)
	}
	return reviews, nil
}

// Track looks an article up by its public tracking code
func (r *articleRepo) Track(ctx context.Context, code string) (*models.Article, error) {
	var article models.Article
	if err := r.client.GetJSON(ctx, "/track/"+seg(code), &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// Submit uploads a new article as multipart form data
func (r *articleRepo) Submit(ctx context.Context, req *models.SubmitArticleRequest) (*models.SubmitResult, error) {
	fields := []apiclient.FormField{
		{Name: "title", Value: req.Title},
		{Name: "keywords", Value: req.Keywords},
		{Name: "institution", Value: req.Institution},
	}
	if req.Email != "" {
		fields = append(fields, apiclient.FormField{Name: "email", Value: req.Email})
	}

	var res models.SubmitResult
	err := r.client.PostMultipart(ctx, "/submit-article", fields,
		&apiclient.FilePart{Field: "file", FileName: req.FileName, Content: req.File}, &res)
	if err != nil {
		return nil, err
	}
	if res.Code() == "" {
		return nil, fmt.Errorf("%w: POST /submit-article: no tracking code", apiclient.ErrMalformedResponse)
	}
	return &res, nil
}

// Revise uploads a revised manuscript for the article behind a tracking code
func (r *articleRepo) Revise(ctx context.Context, req *models.ReviseArticleRequest) (string, error) {
	var msg models.MessageResponse
	err := r.client.PostMultipart(ctx, "/revise-article/"+seg(req.TrackingCode), nil,
		&apiclient.FilePart{Field: "file", FileName: req.FileName, Content: req.File}, &msg)
	if err != nil {
		return "", err
	}
	return msg.Text(), nil
}

func decodeArticles(raw json.RawMessage, path string) ([]models.Article, error) {
	var articles []models.Article
	if err := json.Unmarshal(raw, &articles); err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", apiclient.ErrMalformedResponse, path, err)
	}
	return articles, nil
}
