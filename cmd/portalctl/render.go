package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/article-review-portal/internal/models"
	"github.com/article-review-portal/internal/status"
	"github.com/article-review-portal/internal/views"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// badge colours follow the portal's badge classes
var badgeColors = map[string]lipgloss.Color{
	status.BadgePrimary:   lipgloss.Color("#0D6EFD"),
	status.BadgeSuccess:   lipgloss.Color("#198754"),
	status.BadgeDanger:    lipgloss.Color("#DC3545"),
	status.BadgeInfo:      lipgloss.Color("#0DCAF0"),
	status.BadgeWarning:   lipgloss.Color("#FFC107"),
	status.BadgeSecondary: lipgloss.Color("#6C757D"),
}

func badge(s string) string {
	label := views.OrDefault(s, "Bilinmiyor")
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(badgeColors[status.Badge(s)]).
		Render(label)
}

func renderArticle(w io.Writer, a *models.Article) {
	lines := []string{
		headerStyle.Render(views.OrDefault(a.Title, "Başlık bilgisi yok")),
		"Durum:       " + badge(a.Status),
		"Yükleme:     " + views.FormatDate(a.SubmissionDate),
		"Takip kodu:  " + views.OrDefault(a.TrackingCode, "-"),
	}
	if len(a.Reviews) == 0 {
		lines = append(lines, mutedStyle.Render("Henüz değerlendirme yapılmamış."))
	}
	for _, r := range a.Reviews {
		lines = append(lines, fmt.Sprintf("%s · %s · %s",
			views.OrDefault(r.Reviewer(), "Hakem"),
			views.DecisionLabel(r.Decision),
			views.OrDefault(r.Comments, "Yorum yapılmamış")))
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}

func renderArticles(w io.Writer, articles []models.Article) {
	if len(articles) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Makale bulunamadı."))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%d makale", len(articles))))
	for _, a := range articles {
		fmt.Fprintf(w, "%-6s %-16s %s  %s\n",
			a.ID.String(),
			views.FormatDate(a.SubmissionDate),
			badge(a.Status),
			views.OrDefault(a.Title, "Başlık bilgisi yok"))
	}
}

func renderAuditLogs(w io.Writer, logs []models.AuditLog) {
	if len(logs) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Log kaydı bulunamadı"))
		return
	}
	for _, l := range logs {
		fmt.Fprintf(w, "%s  %-6s %-20s %s\n",
			mutedStyle.Render(views.FormatDate(l.Timestamp)),
			l.ArticleID.String(),
			l.Action,
			string(l.Details))
	}
}
