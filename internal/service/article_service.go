package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/article-review-portal/internal/listing"
	"github.com/article-review-portal/internal/models"
	"github.com/article-review-portal/internal/repository"
	"github.com/article-review-portal/internal/status"
	"github.com/article-review-portal/internal/validation"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Dashboard is the admin landing page data.
type Dashboard struct {
	Articles  []models.Article
	Total     int
	AuditLogs []models.AuditLog
	Options   listing.Options
}

// ArticleDetail is one article with its reviewers, reviews and the actions
// its status allows.
type ArticleDetail struct {
	Article   models.Article
	Reviewers []models.Reviewer
	Reviews   []models.Review
	Actions   []status.Action
}

// articleService is the concrete implementation of ArticleService
type articleService struct {
	articles   repository.ArticleRepository
	admin      repository.AdminRepository
	normalizer *status.Normalizer
	validator  *validation.Validator
	log        zerolog.Logger
}

// newArticleService creates a new ArticleService
func newArticleService(repos *repository.Repositories, n *status.Normalizer, v *validation.Validator, log zerolog.Logger) *articleService {
	return &articleService{
		articles:   repos.Article,
		admin:      repos.Admin,
		normalizer: n,
		validator:  v,
		log:        log.With().Str("service", "article").Logger(),
	}
}

// List fetches all articles, normalizes their statuses and applies opts
func (s *articleService) List(ctx context.Context, opts listing.Options) ([]models.Article, error) {
	all, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return listing.Apply(all, opts), nil
}

// Dashboard loads articles and audit logs together. Either failure fails the
// whole page and cancels the other request.
func (s *articleService) Dashboard(ctx context.Context, opts listing.Options) (*Dashboard, error) {
	var (
		all  []models.Article
		logs []models.AuditLog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		all, err = s.fetchAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		logs, err = s.admin.AuditLogs(gctx)
		if err != nil {
			return fmt.Errorf("load audit logs: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.Error().Err(err).Msg("Dashboard load failed")
		return nil, err
	}

	models.SortAuditLogsNewestFirst(logs)

	return &Dashboard{
		Articles:  listing.Apply(all, opts),
		Total:     len(all),
		AuditLogs: logs,
		Options:   opts,
	}, nil
}

// Detail fetches one article. Reviewers and reviews missing from the main
// payload are fetched from their sub-resources; a failed fallback leaves the
// list empty.
func (s *articleService) Detail(ctx context.Context, id string) (*ArticleDetail, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load article %s: %w", id, err)
	}
	normalizeArticle(s.normalizer, article)

	detail := &ArticleDetail{
		Article:   *article,
		Reviewers: article.Reviewers,
		Reviews:   article.Reviews,
		Actions:   status.AdminActions(article.Status),
	}

	var g errgroup.Group
	if len(detail.Reviewers) == 0 {
		g.Go(func() error {
			reviewers, err := s.articles.GetReviewers(ctx, id)
			if err != nil {
				s.log.Warn().Err(err).Str("article_id", id).Msg("Reviewer fallback failed")
				return nil
			}
			detail.Reviewers = reviewers
			return nil
		})
	}
	if len(detail.Reviews) == 0 {
		g.Go(func() error {
			reviews, err := s.articles.GetReviews(ctx, id)
			if err != nil {
				s.log.Warn().Err(err).Str("article_id", id).Msg("Review fallback failed")
				return nil
			}
			detail.Reviews = reviews
			return nil
		})
	}
	g.Wait()

	return detail, nil
}

// Track looks an article up by tracking code
func (s *articleService) Track(ctx context.Context, code string) (*models.Article, error) {
	code = strings.TrimSpace(code)
	if err := s.validator.ValidateTrackingCode(code); err != nil {
		return nil, err
	}
	article, err := s.articles.Track(ctx, code)
	if err != nil {
		return nil, err
	}
	normalizeArticle(s.normalizer, article)
	return article, nil
}

// StatusCounts counts articles per canonical status. Non-canonical statuses
// are counted under their raw value.
func (s *articleService) StatusCounts(ctx context.Context) (map[string]int, error) {
	all, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(status.Canonical()))
	for _, c := range status.Canonical() {
		counts[c] = 0
	}
	for _, a := range all {
		counts[a.Status]++
	}
	return counts, nil
}

func (s *articleService) fetchAll(ctx context.Context) ([]models.Article, error) {
	all, err := s.articles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}
	normalizeAll(s.normalizer, all)
	return all, nil
}
