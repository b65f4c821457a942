package service

import (
	"context"
	"fmt"

	"github.com/article-review-portal/internal/models"
	"github.com/article-review-portal/internal/repository"
	"github.com/article-review-portal/internal/validation"
	"github.com/rs/zerolog"
)

// actionService is the concrete implementation of ActionService. Each method
// is one request to the backend; the returned string is the backend's
// acknowledgement, possibly empty.
type actionService struct {
	admin     repository.AdminRepository
	validator *validation.Validator
	log       zerolog.Logger
}

// newActionService creates a new ActionService
func newActionService(admin repository.AdminRepository, v *validation.Validator, log zerolog.Logger) *actionService {
	return &actionService{
		admin:     admin,
		validator: v,
		log:       log.With().Str("service", "action").Logger(),
	}
}

func (s *actionService) Approve(ctx context.Context, id string) (string, error) {
	msg, err := s.admin.Approve(ctx, id)
	return s.done("approve", id, msg, err)
}

func (s *actionService) Reject(ctx context.Context, id string) (string, error) {
	msg, err := s.admin.Reject(ctx, id)
	return s.done("reject", id, msg, err)
}

// Anonymize sends the checked fields. An empty selection is sent as an empty
// list and left to the backend.
func (s *actionService) Anonymize(ctx context.Context, id string, form models.AnonymizeForm) (string, error) {
	msg, err := s.admin.Anonymize(ctx, id, form.SensitiveInfo())
	return s.done("anonymize", id, msg, err)
}

// AssignReviewer validates the assignment before sending it
func (s *actionService) AssignReviewer(ctx context.Context, req *models.AssignReviewerRequest) (string, error) {
	if err := s.validator.ValidateAssignment(req); err != nil {
		return "", err
	}
	msg, err := s.admin.AssignReviewer(ctx, req)
	return s.done("assign-reviewer", req.ArticleID, msg, err)
}

func (s *actionService) AddTestReviewers(ctx context.Context) (string, error) {
	msg, err := s.admin.AddTestReviewers(ctx)
	return s.done("add-test-reviewers", "", msg, err)
}

// Download opens the original or the anonymized document. The caller closes
// the body.
func (s *actionService) Download(ctx context.Context, id string, anonymized bool) (*models.Download, error) {
	d, err := s.admin.Download(ctx, id, anonymized)
	if err != nil {
		s.log.Error().Err(err).Str("article_id", id).Bool("anonymized", anonymized).Msg("Download failed")
		return nil, fmt.Errorf("download article %s: %w", id, err)
	}
	return d, nil
}

func (s *actionService) done(action, id, msg string, err error) (string, error) {
	if err != nil {
		s.log.Error().Err(err).Str("action", action).Str("article_id", id).Msg("Action failed")
		return "", fmt.Errorf("%s %s: %w", action, id, err)
	}
	s.log.Info().Str("action", action).Str("article_id", id).Msg("Action completed")
	return msg, nil
}
