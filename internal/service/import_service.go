package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/article-review-portal/internal/models"
	"github.com/article-review-portal/internal/notice"
	"github.com/article-review-portal/internal/validation"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	// maxImportRows bounds one assignment file
	maxImportRows = 1000
	// importConcurrency is the number of assignments in flight at once
	importConcurrency = 4
)

var (
	// ErrImportHeader is returned when the file lacks the required columns.
	ErrImportHeader = errors.New("assignment file must have article_id and reviewer_email columns")
	// ErrImportTooLarge is returned for files over maxImportRows rows.
	ErrImportTooLarge = fmt.Errorf("assignment file exceeds %d rows", maxImportRows)
)

// ImportReport summarizes a bulk assignment run. Errors are ordered by line.
type ImportReport struct {
	Total      int                          `json:"total"`
	Assigned   int                          `json:"assigned"`
	Failed     int                          `json:"failed"`
	Errors     []validation.ValidationError `json:"errors,omitempty"`
	DurationMs int64                        `json:"duration_ms"`
}

// importService is the concrete implementation of ImportService
type importService struct {
	actions   ActionService
	validator *validation.Validator
	log       zerolog.Logger
}

// newImportService creates a new ImportService
func newImportService(actions ActionService, v *validation.Validator, log zerolog.Logger) *importService {
	return &importService{
		actions:   actions,
		validator: v,
		log:       log.With().Str("service", "import").Logger(),
	}
}

type assignmentRow struct {
	line int
	req  models.AssignReviewerRequest
}

// ImportAssignments reads an article_id,reviewer_email CSV and assigns every
// valid row. Invalid rows and rejected assignments are reported per line;
// they do not stop the run.
func (s *importService) ImportAssignments(ctx context.Context, r io.Reader) (*ImportReport, error) {
	startTime := time.Now()
	report := &ImportReport{}

	rows, err := s.readAssignments(r, report)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(importConcurrency)

	for _, row := range rows {
		row := row
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, err := s.actions.AssignReviewer(gctx, &row.req)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				report.Errors = append(report.Errors, validation.ValidationError{
					Line:    row.line,
					Field:   "reviewer_email",
					Message: notice.FromError(err, "").Message,
					Value:   row.req.ReviewerEmail,
				})
				return nil
			}
			report.Assigned++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(report.Errors, func(i, j int) bool {
		return report.Errors[i].Line < report.Errors[j].Line
	})
	report.DurationMs = time.Since(startTime).Milliseconds()

	s.log.Info().
		Int("total", report.Total).
		Int("assigned", report.Assigned).
		Int("failed", report.Failed).
		Int64("duration_ms", report.DurationMs).
		Msg("Assignment import completed")

	return report, nil
}

// readAssignments parses and validates the file. Rows failing validation are
// counted as failed and are not returned.
func (s *importService) readAssignments(r io.Reader, report *ImportReport) ([]assignmentRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrImportHeader
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	headerMap := make(map[string]int)
	for i, h := range header {
		headerMap[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := headerMap["article_id"]; !ok {
		return nil, ErrImportHeader
	}
	if _, ok := headerMap["reviewer_email"]; !ok {
		return nil, ErrImportHeader
	}

	var rows []assignmentRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err == nil && isBlank(record) {
			continue
		}
		// unreadable rows count toward the limit too
		report.Total++
		if report.Total > maxImportRows {
			return nil, ErrImportTooLarge
		}
		if err != nil {
			var perr *csv.ParseError
			line := 0
			if errors.As(err, &perr) {
				line = perr.Line
			}
			report.Failed++
			report.Errors = append(report.Errors, validation.ValidationError{
				Line:    line,
				Message: "Satır okunamadı.",
			})
			continue
		}
		lineNum, _ := reader.FieldPos(0)

		req := models.AssignReviewerRequest{
			ArticleID:     getField(record, headerMap, "article_id"),
			ReviewerEmail: getField(record, headerMap, "reviewer_email"),
		}
		if err := s.validator.ValidateAssignment(&req); err != nil {
			report.Failed++
			var verrs validation.Errors
			if errors.As(err, &verrs) {
				for _, ve := range verrs {
					ve.Line = lineNum
					report.Errors = append(report.Errors, ve)
				}
			}
			continue
		}
		rows = append(rows, assignmentRow{line: lineNum, req: req})
	}
	return rows, nil
}

func getField(record []string, headerMap map[string]int, field string) string {
	if idx, ok := headerMap[field]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
