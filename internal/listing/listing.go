// Package listing filters and sorts article lists. Every function is pure:
// the input slice is never modified and the result is recomputed from the
// full set on each call.
package listing

import (
	"sort"
	"strings"

	"github.com/article-review-portal/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort keys.
const (
	SortNone      = ""
	SortDateDesc  = "date_desc"
	SortDateAsc   = "date_asc"
	SortTitleAsc  = "title_asc"
	SortTitleDesc = "title_desc"
)

// SortKeys lists the accepted sort keys in display order.
var SortKeys = []string{SortDateDesc, SortDateAsc, SortTitleAsc, SortTitleDesc}

// Options are the list controls. Status is compared against the article's
// already-normalized status.
type Options struct {
	Query  string `form:"q"`
	Status string `form:"status"`
	Sort   string `form:"sort"`
}

// IsZero reports whether no control is set.
func (o Options) IsZero() bool {
	return strings.TrimSpace(o.Query) == "" && o.Status == "" && o.Sort == ""
}

// Apply filters then sorts articles.
func Apply(articles []models.Article, opts Options) []models.Article {
	return Sort(Filter(articles, opts), opts.Sort)
}

// Filter keeps articles whose title contains the query case-insensitively,
// and whose status equals opts.Status when set. Titles match under either
// Turkish or locale-neutral case folding, so "İNSAN" finds "insan" and
// "intro" finds "Introduction".
func Filter(articles []models.Article, opts Options) []models.Article {
	query := strings.TrimSpace(opts.Query)
	folds := []cases.Caser{cases.Lower(language.Turkish), cases.Fold()}

	out := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if opts.Status != "" && a.Status != opts.Status {
			continue
		}
		if query != "" && !containsFolded(folds, a.Title, query) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func containsFolded(folds []cases.Caser, title, query string) bool {
	for _, f := range folds {
		if strings.Contains(f.String(title), f.String(query)) {
			return true
		}
	}
	return false
}

// Sort returns a sorted copy. Unknown keys keep the provided order.
func Sort(articles []models.Article, key string) []models.Article {
	out := make([]models.Article, len(articles))
	copy(out, articles)

	switch key {
	case SortDateDesc:
		return byDate(out, true)
	case SortDateAsc:
		return byDate(out, false)
	case SortTitleAsc, SortTitleDesc:
		col := collate.New(language.Turkish, collate.IgnoreCase)
		desc := key == SortTitleDesc
		sort.SliceStable(out, func(i, j int) bool {
			c := col.CompareString(out[i].Title, out[j].Title)
			if desc {
				return c > 0
			}
			return c < 0
		})
	}
	return out
}

// byDate sorts dated articles and appends the undated ones after them in
// their provided order.
func byDate(articles []models.Article, newestFirst bool) []models.Article {
	type dated struct {
		a models.Article
		t int64
	}
	withDate := make([]dated, 0, len(articles))
	var without []models.Article

	for _, a := range articles {
		if t, ok := a.SubmittedAt(); ok {
			withDate = append(withDate, dated{a: a, t: t.UnixNano()})
		} else {
			without = append(without, a)
		}
	}

	sort.SliceStable(withDate, func(i, j int) bool {
		if newestFirst {
			return withDate[i].t > withDate[j].t
		}
		return withDate[i].t < withDate[j].t
	})

	out := articles[:0]
	for _, d := range withDate {
		out = append(out, d.a)
	}
	return append(out, without...)
}

// ValidSort reports whether key is empty or a known sort key.
func ValidSort(key string) bool {
	if key == SortNone {
		return true
	}
	for _, k := range SortKeys {
		if k == key {
			return true
		}
	}
	return false
}
