package models

import "io"

// MessageResponse is the backend's generic acknowledgement and error body.
type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Text returns the message, falling back to the error field.
func (m MessageResponse) Text() string {
	return firstNonEmpty(m.Message, m.Error)
}

// Sensitive fields an anonymization may mask.
const (
	SensitiveAuthor      = "author"
	SensitiveInstitution = "institution"
	SensitiveEmail       = "email"
)

// AnonymizeRequest is the body of POST /admin/anonymize/{id}.
type AnonymizeRequest struct {
	SensitiveInfo []string `json:"sensitive_info"`
}

// AnonymizeForm is the anonymize checkbox form.
type AnonymizeForm struct {
	Author      bool `form:"author"`
	Institution bool `form:"institution"`
	Email       bool `form:"email"`
}

// SensitiveInfo lists the checked fields in a fixed order.
func (f AnonymizeForm) SensitiveInfo() []string {
	info := []string{}
	if f.Author {
		info = append(info, SensitiveAuthor)
	}
	if f.Institution {
		info = append(info, SensitiveInstitution)
	}
	if f.Email {
		info = append(info, SensitiveEmail)
	}
	return info
}

// AssignReviewerRequest is the body of POST /admin/assign-reviewer.
type AssignReviewerRequest struct {
	ArticleID     string `json:"article_id" validate:"present"`
	ReviewerEmail string `json:"reviewer_email" form:"reviewer_email" validate:"present"`
}

// LoginRequest is the reviewer and author login form.
type LoginRequest struct {
	Email string `json:"email" form:"email" validate:"present"`
	Name  string `json:"-" form:"name"`
}

// LoginResponse is the backend's reviewer login reply. All fields are
// optional.
type LoginResponse struct {
	Message  string    `json:"message"`
	Reviewer *Reviewer `json:"reviewer"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
	ID       ID        `json:"id"`
}

// ReviewForm is the reviewer's evaluation form.
type ReviewForm struct {
	Decision string `form:"decision" validate:"present"`
	Comments string `form:"comments" validate:"present"`
}

// ReviewSubmission is the body of POST /reviewer/submit-review. The decision
// is sent under both keys the backend has accepted.
type ReviewSubmission struct {
	ArticleID     string `json:"article_id" validate:"present"`
	ReviewerEmail string `json:"reviewer_email" validate:"present"`
	Decision      string `json:"decision" validate:"present"`
	Status        string `json:"status"`
	Comments      string `json:"comments" validate:"present"`
}

// ReviewerDownloadRequest is the body of POST /reviewer/download/{id}.
type ReviewerDownloadRequest struct {
	ReviewerEmail string `json:"reviewer_email"`
}

// SubmitArticleRequest is the multipart submission sent to
// POST /submit-article.
type SubmitArticleRequest struct {
	Title       string    `form:"title" validate:"present"`
	Keywords    string    `form:"keywords" validate:"present"`
	Institution string    `form:"institution" validate:"present"`
	Email       string    `form:"-"`
	FileName    string    `form:"-"`
	File        io.Reader `form:"-" validate:"required"`
}

// ReviseArticleRequest is the multipart revised manuscript sent to
// POST /revise-article/{tracking_code}.
type ReviseArticleRequest struct {
	TrackingCode string    `form:"tracking_code" validate:"present"`
	FileName     string    `form:"-"`
	File         io.Reader `form:"-" validate:"required"`
}

// MessageForm is the author's message to the editor.
type MessageForm struct {
	TrackingCode string `form:"tracking_code" validate:"present"`
	Message      string `form:"message" validate:"present"`
}

// MessageRequest is the body of POST /send-message.
type MessageRequest struct {
	ArticleID string `json:"article_id"`
	Message   string `json:"message"`
	Email     string `json:"email"`
}

// SubmitResult is the backend's reply to an article submission.
type SubmitResult struct {
	Message        string `json:"message"`
	TrackingCode   string `json:"tracking_code"`
	TrackingNumber string `json:"tracking_number"`
	ID             ID     `json:"id"`
}

// Code returns the tracking code under either key.
func (r SubmitResult) Code() string {
	return firstNonEmpty(r.TrackingCode, r.TrackingNumber)
}

// Download is a binary document proxied from the backend.
type Download struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
	FileName      string
}
