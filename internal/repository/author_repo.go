package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/article-review-portal/internal/apiclient"
	"github.com/article-review-portal/internal/models"
)

// authorRepo is the concrete implementation of AuthorRepository
type authorRepo struct {
	client *apiclient.Client
}

// NewAuthorRepo creates a new author repository
func NewAuthorRepo(client *apiclient.Client) AuthorRepository {
	return &authorRepo{client: client}
}

func (r *authorRepo) Profile(ctx context.Context, email string) (*models.AuthorProfile, error) {
	var p models.AuthorProfile
	if err := r.client.GetJSON(ctx, "/author/profile/"+seg(email), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *authorRepo) Reviews(ctx context.Context, email string) ([]models.AuthorReview, error) {
	path := "/author/reviews/" + seg(email)
	var raw json.RawMessage
	if err := r.client.GetJSON(ctx, path, &raw); err != nil {
		return nil, err
	}
	var reviews []models.AuthorReview
	if err := json.Unmarshal(unwrap(raw, "reviews"), &reviews); err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", apiclient.ErrMalformedResponse, path, err)
	}
	return reviews, nil
}

func (r *authorRepo) SendMessage(ctx context.Context, req *models.MessageRequest) (string, error) {
	var msg models.MessageResponse
	if err := r.client.PostJSON(ctx, "/send-message", req, &msg); err != nil {
		return "", err
	}
	return msg.Text(), nil
}
