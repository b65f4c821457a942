package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/article-review-portal/internal/models"
	"github.com/article-review-portal/internal/repository"
	"github.com/article-review-portal/internal/status"
	"github.com/article-review-portal/internal/validation"
	"github.com/rs/zerolog"
)

var (
	// ErrNotAssigned is returned when a reviewer opens an article that is not
	// in their assignment list.
	ErrNotAssigned = errors.New("article is not assigned to this reviewer")
	// ErrReviewClosed is returned when the review of an article is complete.
	ErrReviewClosed = errors.New("review already completed")
)

// AssignedArticle is one row of the reviewer dashboard.
type AssignedArticle struct {
	models.Article
	// ReviewState is the canonical review status, or the article status
	// when the backend sends no review status.
	ReviewState string
	Actions     []status.Action
}

// CanReview reports whether the review form is available.
func (a AssignedArticle) CanReview() bool {
	return status.Has(a.Actions, status.ActionReview)
}

type reviewerService struct {
	reviewers  repository.ReviewerRepository
	normalizer *status.Normalizer
	validator  *validation.Validator
	log        zerolog.Logger
}

func newReviewerService(repos *repository.Repositories, n *status.Normalizer, v *validation.Validator, log zerolog.Logger) *reviewerService {
	return &reviewerService{
		reviewers:  repos.Reviewer,
		normalizer: n,
		validator:  v,
		log:        log.With().Str("service", "reviewer").Logger(),
	}
}

// Login checks the email with the backend and returns the session user.
// The display name comes from the backend reply when it has one.
func (s *reviewerService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, err
	}
	res, err := s.reviewers.Login(ctx, req.Email)
	if err != nil {
		s.log.Warn().Err(err).Str("email", req.Email).Msg("Reviewer login rejected")
		return nil, fmt.Errorf("reviewer login: %w", err)
	}

	user := &models.User{
		ID:    res.ID.String(),
		Email: req.Email,
		Name:  firstNonEmpty(res.Name, res.Username, req.Name),
		Role:  models.RoleReviewer,
	}
	if r := res.Reviewer; r != nil {
		user.ID = firstNonEmpty(r.ID.String(), user.ID)
		user.Name = firstNonEmpty(r.Name, user.Name)
	}
	return user, nil
}

// Assigned lists the articles assigned to user with the actions each allows.
func (s *reviewerService) Assigned(ctx context.Context, user models.User) ([]AssignedArticle, error) {
	articles, err := s.reviewers.AssignedArticles(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("load assigned articles: %w", err)
	}

	out := make([]AssignedArticle, len(articles))
	for i, a := range articles {
		normalizeArticle(s.normalizer, &a)
		state := firstNonEmpty(a.ReviewStatus, a.Status)
		out[i] = AssignedArticle{
			Article:     a,
			ReviewState: state,
			Actions:     status.ReviewerActions(state),
		}
	}
	return out, nil
}

// ReviewTarget returns the assigned article id if it can still be reviewed.
func (s *reviewerService) ReviewTarget(ctx context.Context, user models.User, id string) (*AssignedArticle, error) {
	assigned, err := s.Assigned(ctx, user)
	if err != nil {
		return nil, err
	}
	for i := range assigned {
		if assigned[i].ID.String() != id {
			continue
		}
		if !assigned[i].CanReview() {
			return &assigned[i], ErrReviewClosed
		}
		return &assigned[i], nil
	}
	return nil, ErrNotAssigned
}

// SubmitReview maps the decision label and sends the review. The decision is
// carried in both the decision and status fields.
func (s *reviewerService) SubmitReview(ctx context.Context, user models.User, id string, form models.ReviewForm) (string, error) {
	decision := status.DecisionFromLabel(form.Decision)
	sub := &models.ReviewSubmission{
		ArticleID:     id,
		ReviewerEmail: user.Email,
		Decision:      decision,
		Status:        decision,
		Comments:      form.Comments,
	}
	if err := s.validator.ValidateReview(sub); err != nil {
		return "", err
	}

	msg, err := s.reviewers.SubmitReview(ctx, sub)
	if err != nil {
		s.log.Error().Err(err).Str("article_id", id).Str("reviewer", user.Email).Msg("Review submission failed")
		return "", fmt.Errorf("submit review %s: %w", id, err)
	}
	s.log.Info().Str("article_id", id).Str("reviewer", user.Email).Str("decision", decision).Msg("Review submitted")
	return msg, nil
}

// Download opens the anonymized copy handed to the reviewer.
func (s *reviewerService) Download(ctx context.Context, user models.User, id string) (*models.Download, error) {
	d, err := s.reviewers.Download(ctx, id, user.Email)
	if err != nil {
		return nil, fmt.Errorf("reviewer download %s: %w", id, err)
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
