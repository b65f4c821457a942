package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/article-review-portal/internal/listing"
	"github.com/article-review-portal/internal/models"
	"github.com/article-review-portal/internal/repository"
	"github.com/rs/zerolog"
)

// ErrUnsupportedFormat is returned for an export format other than ndjson,
// json or csv.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ExportFormats lists the accepted export formats
var ExportFormats = []string{"ndjson", "json", "csv"}

// ValidExportFormat reports whether format can be exported
func ValidExportFormat(format string) bool {
	for _, f := range ExportFormats {
		if f == format {
			return true
		}
	}
	return false
}

// exportService is the concrete implementation of ExportService. Records are
// fetched in full before the first byte is written, so a backend failure can
// still be reported as a normal page.
type exportService struct {
	articles ArticleService
	admin    repository.AdminRepository
	log      zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(articles ArticleService, admin repository.AdminRepository, log zerolog.Logger) *exportService {
	return &exportService{
		articles: articles,
		admin:    admin,
		log:      log.With().Str("service", "export").Logger(),
	}
}

var articleColumns = []string{"id", "title", "author", "institution", "email", "status", "review_status", "submission_date", "tracking_code"}

var auditColumns = []string{"timestamp", "article_id", "action", "details"}

// StreamArticles writes the filtered and sorted article list in format
func (s *exportService) StreamArticles(ctx context.Context, w http.ResponseWriter, format string, opts listing.Options) error {
	if !ValidExportFormat(format) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	s.log.Info().Str("format", format).Msg("Starting articles export")

	articles, err := s.articles.List(ctx, opts)
	if err != nil {
		return err
	}

	count, err := writeRecords(w, format, "articles", articles, articleColumns, func(a models.Article) []string {
		return []string{
			a.ID.String(), a.Title, a.Author, a.Institution, a.Email,
			a.Status, a.ReviewStatus, a.SubmissionDate, a.TrackingCode,
		}
	})
	s.log.Info().Int("count", count).Msg("Articles export completed")
	return err
}

// StreamAuditLogs writes the audit log, newest first, in format
func (s *exportService) StreamAuditLogs(ctx context.Context, w http.ResponseWriter, format string) error {
	if !ValidExportFormat(format) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	s.log.Info().Str("format", format).Msg("Starting audit log export")

	logs, err := s.admin.AuditLogs(ctx)
	if err != nil {
		return fmt.Errorf("load audit logs: %w", err)
	}
	models.SortAuditLogsNewestFirst(logs)

	count, err := writeRecords(w, format, "audit-logs", logs, auditColumns, func(l models.AuditLog) []string {
		return []string{l.Timestamp, l.ArticleID.String(), l.Action, string(l.Details)}
	})
	s.log.Info().Int("count", count).Msg("Audit log export completed")
	return err
}

func writeRecords[T any](w http.ResponseWriter, format, name string, records []T, columns []string, row func(T) []string) (int, error) {
	switch format {
	case "ndjson":
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Header().Set("Content-Disposition", "attachment; filename="+name+".ndjson")

		flusher, _ := w.(http.Flusher)
		enc := json.NewEncoder(w)
		for i, r := range records {
			if err := enc.Encode(r); err != nil {
				return i, err
			}
			// Flush every 100 records
			if (i+1)%100 == 0 && flusher != nil {
				flusher.Flush()
			}
		}
		return len(records), nil

	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", "attachment; filename="+name+".json")

		if records == nil {
			records = []T{}
		}
		return len(records), json.NewEncoder(w).Encode(records)

	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename="+name+".csv")

		writer := csv.NewWriter(w)
		if err := writer.Write(columns); err != nil {
			return 0, err
		}
		for i, r := range records {
			if err := writer.Write(row(r)); err != nil {
				return i, err
			}
		}
		writer.Flush()
		return len(records), writer.Error()

	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
