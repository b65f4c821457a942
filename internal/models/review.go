package models

import "encoding/json"

// Reviewer is a person assigned to review an article.
type Reviewer struct {
	ID    ID     `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (r *Reviewer) UnmarshalJSON(b []byte) error {
	var w struct {
		ID         ID     `json:"id"`
		ReviewerID ID     `json:"reviewer_id"`
		Name       string `json:"name"`
		Username   string `json:"username"`
		Email      string `json:"email"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*r = Reviewer{
		ID:    ID(firstNonEmpty(string(w.ID), string(w.ReviewerID))),
		Name:  firstNonEmpty(w.Name, w.Username),
		Email: w.Email,
	}
	return nil
}

// DisplayName is the name, or the email when no name is known.
func (r Reviewer) DisplayName() string {
	return firstNonEmpty(r.Name, r.Email)
}

// Review is one reviewer's evaluation of an article.
type Review struct {
	ReviewerName  string `json:"reviewer_name,omitempty"`
	ReviewerEmail string `json:"reviewer_email,omitempty"`
	Decision      string `json:"decision,omitempty"`
	Comments      string `json:"comments,omitempty"`
	Date          string `json:"review_date,omitempty"`
}

func (r *Review) UnmarshalJSON(b []byte) error {
	var w struct {
		ReviewerName  string `json:"reviewer_name"`
		Reviewer      string `json:"reviewer"`
		ReviewerEmail string `json:"reviewer_email"`
		Decision      string `json:"decision"`
		Status        string `json:"status"`
		Evaluation    string `json:"evaluation"`
		Comments      string `json:"comments"`
		Comment       string `json:"comment"`
		ReviewDate    string `json:"review_date"`
		Date          string `json:"date"`
		Timestamp     string `json:"timestamp"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*r = Review{
		ReviewerName:  firstNonEmpty(w.ReviewerName, w.Reviewer),
		ReviewerEmail: w.ReviewerEmail,
		Decision:      firstNonEmpty(w.Decision, w.Status, w.Evaluation),
		Comments:      firstNonEmpty(w.Comments, w.Comment),
		Date:          firstNonEmpty(w.ReviewDate, w.Date, w.Timestamp),
	}
	return nil
}

// Reviewer returns the best available reviewer label.
func (r Review) Reviewer() string {
	return firstNonEmpty(r.ReviewerName, r.ReviewerEmail)
}
