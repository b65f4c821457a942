package status

// Action is a user-triggerable operation offered by a view.
type Action string

const (
	ActionDownload           Action = "download"
	ActionDownloadAnonymized Action = "download-anonymized"
	ActionApprove            Action = "approve"
	ActionReject             Action = "reject"
	ActionAnonymize          Action = "anonymize"
	ActionAssignReviewer     Action = "assign-reviewer"
	ActionView               Action = "view"
	ActionReview             Action = "review"
)

var actionLabels = map[Action]string{
	ActionDownload:           "Makaleyi İndir",
	ActionDownloadAnonymized: "Anonim Halini İndir",
	ActionApprove:            "Onay Ver",
	ActionReject:             "Reddet",
	ActionAnonymize:          "Anonimleştir",
	ActionAssignReviewer:     "Hakem Ata",
	ActionView:               "Görüntüle",
	ActionReview:             "Değerlendir",
}

// Label returns the button caption for a.
func (a Action) Label() string {
	if l, ok := actionLabels[a]; ok {
		return l
	}
	return string(a)
}

// AdminActions returns the actions an administrator may take on an article
// in the given canonical status. Unknown statuses get the default set.
func AdminActions(status string) []Action {
	actions := []Action{ActionDownload}
	switch status {
	case Pending:
		actions = append(actions, ActionApprove, ActionReject)
	case Approved:
		actions = append(actions, ActionAnonymize)
	case UnderReview:
		actions = append(actions, ActionAssignReviewer, ActionDownloadAnonymized)
	case Reviewed, Completed:
		actions = append(actions, ActionDownloadAnonymized)
	}
	return actions
}

// ReviewerActions returns the actions a reviewer may take on an assigned
// article given its canonical review status. Review is withheld once the
// review is complete.
func ReviewerActions(reviewStatus string) []Action {
	actions := []Action{ActionView, ActionDownload}
	if !IsReviewComplete(reviewStatus) {
		actions = append(actions, ActionReview)
	}
	return actions
}

// IsReviewComplete reports whether a canonical status means the review has
// been delivered.
func IsReviewComplete(s string) bool {
	return s == Completed || s == Reviewed
}

// Has reports whether a is in actions.
func Has(actions []Action, a Action) bool {
	for _, x := range actions {
		if x == a {
			return true
		}
	}
	return false
}
