package status

import "strings"

// Bootstrap contextual classes used for badges.
const (
	BadgePrimary   = "primary"
	BadgeSuccess   = "success"
	BadgeDanger    = "danger"
	BadgeInfo      = "info"
	BadgeWarning   = "warning"
	BadgeSecondary = "secondary"
)

// Badge returns the badge class for a canonical status. Unknown and empty
// statuses get BadgeSecondary.
func Badge(status string) string {
	switch status {
	case Pending:
		return BadgePrimary
	case Approved, Completed:
		return BadgeSuccess
	case Rejected:
		return BadgeDanger
	case UnderReview:
		return BadgeInfo
	case Reviewed:
		return BadgeWarning
	default:
		return BadgeSecondary
	}
}

// Review decisions. These are a separate vocabulary from article statuses.
const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
	DecisionRevise = "revise"
)

var decisionLabels = map[string]string{
	"kabul":    DecisionAccept,
	"red":      DecisionReject,
	"revizyon": DecisionRevise,
}

// DecisionFromLabel maps the review form labels (Kabul, Red, Revizyon) to
// decision values. Anything else is passed through lower-cased.
func DecisionFromLabel(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	if d, ok := decisionLabels[key]; ok {
		return d
	}
	return key
}

// DecisionBadge returns the badge class for a review decision.
func DecisionBadge(decision string) string {
	switch strings.ToLower(strings.TrimSpace(decision)) {
	case DecisionAccept, "kabul", "kabul edildi":
		return BadgeSuccess
	case DecisionReject, "red", "reddedildi":
		return BadgeDanger
	case DecisionRevise, "revizyon":
		return BadgeWarning
	default:
		return BadgeSecondary
	}
}
