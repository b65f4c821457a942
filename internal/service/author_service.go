package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/article-review-portal/internal/models"
	"github.com/article-review-portal/internal/repository"
	"github.com/article-review-portal/internal/status"
	"github.com/article-review-portal/internal/validation"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrNotOwner is returned when an author acts on an article submitted under
// another e-mail address.
var ErrNotOwner = errors.New("article belongs to another author")

// AuthorPage is the author profile page data. A failed reviews lookup does
// not fail the page; it is reported in ReviewsErr.
type AuthorPage struct {
	Profile    models.AuthorProfile
	Reviews    []models.AuthorReview
	ReviewsErr error
}

type authorService struct {
	articles   repository.ArticleRepository
	authors    repository.AuthorRepository
	normalizer *status.Normalizer
	validator  *validation.Validator
	log        zerolog.Logger
}

func newAuthorService(repos *repository.Repositories, n *status.Normalizer, v *validation.Validator, log zerolog.Logger) *authorService {
	return &authorService{
		articles:   repos.Article,
		authors:    repos.Author,
		normalizer: n,
		validator:  v,
		log:        log.With().Str("service", "author").Logger(),
	}
}

// Login accepts an author whose profile the backend can find.
func (s *authorService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, err
	}
	profile, err := s.authors.Profile(ctx, req.Email)
	if err != nil {
		s.log.Warn().Err(err).Str("email", req.Email).Msg("Author login rejected")
		return nil, fmt.Errorf("author login: %w", err)
	}
	return &models.User{
		Email: req.Email,
		Name:  firstNonEmpty(profile.FullName(), req.Name),
		Role:  models.RoleAuthor,
	}, nil
}

// Profile loads the statistics and the recent reviews together.
func (s *authorService) Profile(ctx context.Context, user models.User) (*AuthorPage, error) {
	page := &AuthorPage{}

	var g errgroup.Group
	g.Go(func() error {
		p, err := s.authors.Profile(ctx, user.Email)
		if err != nil {
			return fmt.Errorf("load author profile: %w", err)
		}
		page.Profile = *p
		return nil
	})
	g.Go(func() error {
		reviews, err := s.authors.Reviews(ctx, user.Email)
		if err != nil {
			s.log.Warn().Err(err).Str("email", user.Email).Msg("Author reviews unavailable")
			page.ReviewsErr = err
			return nil
		}
		for i := range reviews {
			reviews[i].Status = s.normalizer.Normalize(reviews[i].Status)
		}
		page.Reviews = reviews
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}

// Submit validates the upload form and sends it to the backend. The result
// always carries a tracking code.
func (s *authorService) Submit(ctx context.Context, req *models.SubmitArticleRequest) (*models.SubmitResult, error) {
	if err := s.validator.ValidateSubmission(req); err != nil {
		return nil, err
	}
	res, err := s.articles.Submit(ctx, req)
	if err != nil {
		s.log.Error().Err(err).Str("title", req.Title).Msg("Article submission failed")
		return nil, fmt.Errorf("submit article: %w", err)
	}
	s.log.Info().Str("tracking_code", res.Code()).Str("email", req.Email).Msg("Article submitted")
	return res, nil
}

// Revise uploads a revised manuscript for one of the author's articles.
func (s *authorService) Revise(ctx context.Context, user models.User, req *models.ReviseArticleRequest) (string, error) {
	if err := s.validator.ValidateRevision(req); err != nil {
		return "", err
	}
	req.TrackingCode = strings.TrimSpace(req.TrackingCode)
	if _, err := s.owned(ctx, user, req.TrackingCode); err != nil {
		return "", err
	}
	msg, err := s.articles.Revise(ctx, req)
	if err != nil {
		s.log.Error().Err(err).Str("tracking_code", req.TrackingCode).Msg("Revision upload failed")
		return "", fmt.Errorf("revise article %s: %w", req.TrackingCode, err)
	}
	s.log.Info().Str("tracking_code", req.TrackingCode).Str("email", user.Email).Msg("Article revised")
	return msg, nil
}

// SendMessage sends the author's message about one of their articles to the
// editor.
func (s *authorService) SendMessage(ctx context.Context, user models.User, form models.MessageForm) (string, error) {
	if err := s.validator.ValidateMessage(&form); err != nil {
		return "", err
	}
	article, err := s.owned(ctx, user, form.TrackingCode)
	if err != nil {
		return "", err
	}
	msg, err := s.authors.SendMessage(ctx, &models.MessageRequest{
		ArticleID: article.ID.String(),
		Message:   strings.TrimSpace(form.Message),
		Email:     user.Email,
	})
	if err != nil {
		s.log.Error().Err(err).Str("tracking_code", form.TrackingCode).Msg("Message to editor failed")
		return "", fmt.Errorf("send message %s: %w", form.TrackingCode, err)
	}
	return msg, nil
}

// owned resolves a tracking code and checks the article was submitted by
// user. Articles without a recorded e-mail are accepted.
func (s *authorService) owned(ctx context.Context, user models.User, code string) (*models.Article, error) {
	code = strings.TrimSpace(code)
	article, err := s.articles.Track(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("track %s: %w", code, err)
	}
	if article.Email != "" && !strings.EqualFold(article.Email, user.Email) {
		s.log.Warn().Str("tracking_code", code).Str("email", user.Email).Msg("Author acted on another author's article")
		return nil, ErrNotOwner
	}
	return article, nil
}
