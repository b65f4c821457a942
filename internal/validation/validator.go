package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/article-review-portal/internal/models"
	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Line    int         `json:"line,omitempty"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Errors is the set of failures for one form. It is returned as an error.
type Errors []ValidationError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Message
	}
	return strings.Join(msgs, " ")
}

// Has reports whether field failed validation.
func (e Errors) Has(field string) bool {
	for _, ve := range e {
		if ve.Field == field {
			return true
		}
	}
	return false
}

// user-facing field names
var fieldLabels = map[string]string{
	"title":          "Başlık",
	"keywords":       "Anahtar kelimeler",
	"institution":    "Kurum",
	"file":           "Makale dosyası",
	"email":          "E-posta",
	"reviewer_email": "Hakem e-postası",
	"article_id":     "Makale",
	"decision":       "Karar",
	"comments":       "Değerlendirme yorumu",
	"code":           "Takip kodu",
	"tracking_code":  "Takip kodu",
	"message":        "Mesaj",
}

// Validator checks form input before it is sent to the backend. Checks are
// presence checks; the backend owns every business rule.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(fieldName)
	// "present" rejects empty and whitespace-only strings
	_ = v.RegisterValidation("present", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &Validator{validate: v}
}

// ValidateSubmission validates an article submission
func (v *Validator) ValidateSubmission(req *models.SubmitArticleRequest) error {
	return v.check(req)
}

// ValidateAssignment validates a reviewer assignment
func (v *Validator) ValidateAssignment(req *models.AssignReviewerRequest) error {
	return v.check(req)
}

// ValidateReview validates a review submission after its decision label has
// been mapped to a decision value
func (v *Validator) ValidateReview(req *models.ReviewSubmission) error {
	return v.check(req)
}

// ValidateLogin validates a reviewer or author login form
func (v *Validator) ValidateLogin(req *models.LoginRequest) error {
	return v.check(req)
}

// ValidateRevision validates a revised manuscript upload
func (v *Validator) ValidateRevision(req *models.ReviseArticleRequest) error {
	return v.check(req)
}

// ValidateMessage validates a message to the editor
func (v *Validator) ValidateMessage(form *models.MessageForm) error {
	return v.check(form)
}

// ValidateTrackingCode validates a tracking lookup
func (v *Validator) ValidateTrackingCode(code string) error {
	if err := v.validate.Var(code, "present"); err != nil {
		return Errors{{Field: "code", Message: message("code")}}
	}
	return nil
}

func (v *Validator) check(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate %T: %w", s, err)
	}

	errs := make(Errors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Message: message(fe.Field()),
			Value:   fe.Value(),
		})
	}
	return errs
}

func message(field string) string {
	label, ok := fieldLabels[field]
	if !ok {
		label = field
	}
	return fmt.Sprintf("%s alanı zorunludur.", label)
}

func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"form", "json"} {
		name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(fld.Name)
}
