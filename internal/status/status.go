// Package status maps the backend's heterogeneous article status strings onto
// the portal's canonical vocabulary and derives the two presentations every
// view needs from a canonical status: a badge class and a set of actions.
//
// The backend is the only party that moves an article between states:
//
//	Beklemede ──approve──▶ Onaylandı ──anonymize──▶ Değerlendiriliyor ──review──▶ Değerlendirildi / Tamamlandı
//	    │
//	    └──reject──▶ Onaylanmadı
//
// The portal re-fetches after every action and renders whatever it is told.
package status

import (
	"fmt"
	"strings"
)

// Canonical statuses.
const (
	Pending     = "Beklemede"
	Approved    = "Onaylandı"
	Rejected    = "Onaylanmadı"
	UnderReview = "Değerlendiriliyor"
	Reviewed    = "Değerlendirildi"
	Completed   = "Tamamlandı"
)

var canonical = []string{Pending, Approved, Rejected, UnderReview, Reviewed, Completed}

// backend synonyms observed in the wild
var defaultAliases = map[string]string{
	"Kabul Edildi":      Approved,
	"Reddedildi":        Rejected,
	"Değerlendirildide": UnderReview,
	"Onay Bekliyor":     Pending,
}

// Canonical returns the canonical statuses in lifecycle order.
func Canonical() []string {
	out := make([]string, len(canonical))
	copy(out, canonical)
	return out
}

// IsCanonical reports whether s is one of the canonical statuses.
func IsCanonical(s string) bool {
	for _, c := range canonical {
		if c == s {
			return true
		}
	}
	return false
}

// Normalizer maps raw backend statuses to canonical ones. It is immutable
// after construction and safe for concurrent use.
type Normalizer struct {
	table map[string]string
}

var std = mustNormalizer(nil)

// NewNormalizer builds a Normalizer from the built-in table plus extra
// aliases. Every extra alias must target a canonical status.
func NewNormalizer(extra map[string]string) (*Normalizer, error) {
	table := make(map[string]string, len(canonical)+len(defaultAliases)+len(extra))
	for _, c := range canonical {
		table[c] = c
	}
	for alias, target := range defaultAliases {
		table[alias] = target
	}
	for alias, target := range extra {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			return nil, fmt.Errorf("status: empty alias for %q", target)
		}
		if !IsCanonical(target) {
			return nil, fmt.Errorf("status: alias %q targets non-canonical status %q", alias, target)
		}
		table[alias] = target
	}
	return &Normalizer{table: table}, nil
}

func mustNormalizer(extra map[string]string) *Normalizer {
	n, err := NewNormalizer(extra)
	if err != nil {
		panic(err)
	}
	return n
}

// Normalize returns the canonical status for raw. Unmapped values are
// returned unchanged so new backend statuses still render.
func (n *Normalizer) Normalize(raw string) string {
	if n == nil {
		n = std
	}
	if c, ok := n.table[raw]; ok {
		return c
	}
	if c, ok := n.table[strings.TrimSpace(raw)]; ok {
		return c
	}
	return raw
}

// Normalize maps raw through the built-in table.
func Normalize(raw string) string {
	return std.Normalize(raw)
}

// Default returns the Normalizer backed by the built-in table only.
func Default() *Normalizer {
	return std
}
