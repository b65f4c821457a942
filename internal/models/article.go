package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ID is an identifier the backend sends either as a JSON number or string.
type ID string

// UnmarshalJSON accepts a number, a string or null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: expected number or string, got %s", b)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Article is the portal's read-only copy of a backend article.
type Article struct {
	ID             ID         `json:"id"`
	Title          string     `json:"title,omitempty"`
	Author         string     `json:"author,omitempty"`
	Institution    string     `json:"institution,omitempty"`
	Email          string     `json:"email,omitempty"`
	Keywords       string     `json:"keywords,omitempty"`
	Abstract       string     `json:"abstract,omitempty"`
	Status         string     `json:"status,omitempty"`
	ReviewStatus   string     `json:"review_status,omitempty"`
	SubmissionDate string     `json:"submission_date,omitempty"`
	TrackingCode   string     `json:"tracking_code,omitempty"`
	Reviewers      []Reviewer `json:"reviewers,omitempty"`
	Reviews        []Review   `json:"reviews,omitempty"`
}

// articleWire carries every key variant the backend has been seen to use.
type articleWire struct {
	ID             ID              `json:"id"`
	Title          string          `json:"title"`
	Author         string          `json:"author"`
	Institution    string          `json:"institution"`
	Email          string          `json:"email"`
	Keywords       keywordList     `json:"keywords"`
	Abstract       string          `json:"abstract"`
	Status         string          `json:"status"`
	ReviewStatus   string          `json:"review_status"`
	SubmissionDate string          `json:"submission_date"`
	UploadDate     string          `json:"upload_date"`
	TrackingCode   string          `json:"tracking_code"`
	TrackingNumber string          `json:"tracking_number"`
	Reviewers      json.RawMessage `json:"reviewers"`
	Reviews        json.RawMessage `json:"reviews"`
	Comments       json.RawMessage `json:"comments"`
}

// UnmarshalJSON folds key variants into one shape and decodes the
// reviewers and reviews variants.
func (a *Article) UnmarshalJSON(b []byte) error {
	var w articleWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	reviewers, err := DecodeReviewers(w.Reviewers)
	if err != nil {
		return fmt.Errorf("article %s: %w", w.ID, err)
	}
	reviewsRaw := w.Reviews
	if isAbsent(reviewsRaw) {
		reviewsRaw = w.Comments
	}
	reviews, err := DecodeReviews(reviewsRaw)
	if err != nil {
		return fmt.Errorf("article %s: %w", w.ID, err)
	}

	*a = Article{
		ID:             w.ID,
		Title:          w.Title,
		Author:         w.Author,
		Institution:    w.Institution,
		Email:          w.Email,
		Keywords:       string(w.Keywords),
		Abstract:       w.Abstract,
		Status:         w.Status,
		ReviewStatus:   w.ReviewStatus,
		SubmissionDate: firstNonEmpty(w.SubmissionDate, w.UploadDate),
		TrackingCode:   firstNonEmpty(w.TrackingCode, w.TrackingNumber),
		Reviewers:      reviewers,
		Reviews:        reviews,
	}
	return nil
}

// SubmittedAt parses SubmissionDate. ok is false when the date is missing or
// in no known layout.
func (a Article) SubmittedAt() (t time.Time, ok bool) {
	return ParseTimestamp(a.SubmissionDate)
}

// keywordList accepts either a plain string or a list of strings.
type keywordList string

func (k *keywordList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*k = ""
		return nil
	}
	if b[0] == '[' {
		var parts []string
		if err := json.Unmarshal(b, &parts); err != nil {
			return fmt.Errorf("keywords: %w", err)
		}
		*k = keywordList(strings.Join(parts, ", "))
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("keywords: %w", err)
	}
	*k = keywordList(s)
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02",
}

// ParseTimestamp parses the timestamp formats the backend emits.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
