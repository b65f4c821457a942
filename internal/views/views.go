// Package views holds the portal's embedded HTML templates and the helper
// functions they share.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/article-review-portal/internal/models"
	"github.com/article-review-portal/internal/status"
)

//go:embed templates/*.html
var files embed.FS

// DateLayout is the display format for timestamps.
const DateLayout = "02.01.2006 15:04"

// Load parses every template with the shared helpers. n normalizes statuses
// in templates; nil uses the built-in table.
func Load(n *status.Normalizer) (*template.Template, error) {
	t, err := template.New("").Funcs(Funcs(n)).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

// Funcs returns the template helpers.
func Funcs(n *status.Normalizer) template.FuncMap {
	return template.FuncMap{
		"badge":         status.Badge,
		"decisionBadge": status.DecisionBadge,
		"normalize":     n.Normalize,
		"formatDate":    FormatDate,
		"orDefault":     OrDefault,
		"canonical":     status.Canonical,
		"hasAction":     status.Has,
		"join":          strings.Join,
		"sortLabel":     SortLabel,
		"decisionLabel": DecisionLabel,
	}
}

// FormatDate renders a backend timestamp. Missing values render as "-" and
// unparseable ones as given.
func FormatDate(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "-"
	}
	t, ok := models.ParseTimestamp(raw)
	if !ok {
		return raw
	}
	return t.Format(DateLayout)
}

// OrDefault returns fallback when s is blank.
func OrDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

var sortLabels = map[string]string{
	"":           "Sıralama yok",
	"date_desc":  "Tarih (yeni → eski)",
	"date_asc":   "Tarih (eski → yeni)",
	"title_asc":  "Başlık (A → Z)",
	"title_desc": "Başlık (Z → A)",
}

// SortLabel returns the caption of a sort key.
func SortLabel(key string) string {
	if l, ok := sortLabels[key]; ok {
		return l
	}
	return key
}

var decisionLabels = map[string]string{
	status.DecisionAccept: "Kabul",
	status.DecisionReject: "Red",
	status.DecisionRevise: "Revizyon",
}

// DecisionLabel returns the Turkish caption of a review decision.
func DecisionLabel(decision string) string {
	if l, ok := decisionLabels[strings.ToLower(strings.TrimSpace(decision))]; ok {
		return l
	}
	return OrDefault(decision, "-")
}
