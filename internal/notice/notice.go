// Package notice is the single channel for user-visible outcomes. Every
// action and every failed load ends in a Notice, rendered by one template
// partial, and carried across redirects in a one-shot flash cookie.
package notice

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/article-review-portal/internal/apiclient"
	"github.com/article-review-portal/internal/validation"
)

// Kind is the severity of a notice.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// Generic messages used when the backend gives none.
const (
	MsgUnreachable = "Sunucuya ulaşılamadı. Lütfen daha sonra tekrar deneyin."
	MsgMalformed   = "Sunucudan beklenmeyen bir yanıt alındı."
	MsgGeneric     = "İşlem sırasında bir hata oluştu."
)

// Notice is a message shown to the user.
type Notice struct {
	Kind    Kind   `json:"k"`
	Message string `json:"m"`
}

func Success(msg string) Notice { return Notice{Kind: KindSuccess, Message: msg} }
func Error(msg string) Notice   { return Notice{Kind: KindError, Message: msg} }
func Info(msg string) Notice    { return Notice{Kind: KindInfo, Message: msg} }

// Class returns the alert class for the notice.
func (n Notice) Class() string {
	switch n.Kind {
	case KindSuccess:
		return "success"
	case KindError:
		return "danger"
	case KindWarning:
		return "warning"
	default:
		return "info"
	}
}

// IsZero reports whether n carries no message.
func (n Notice) IsZero() bool {
	return n.Message == ""
}

// FromError turns err into an error notice. Backend messages and validation
// messages are shown as is; other failures get a generic text, or fallback
// when given.
func FromError(err error, fallback string) Notice {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return Error(verrs.Error())
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return Error(apiErr.Message)
	}

	switch {
	case errors.Is(err, apiclient.ErrTransport):
		return Error(MsgUnreachable)
	case errors.Is(err, apiclient.ErrMalformedResponse):
		return Error(MsgMalformed)
	case fallback != "":
		return Error(fallback)
	default:
		return Error(MsgGeneric)
	}
}

const flashCookie = "portal_flash"

// SetFlash stores n for the next request.
func SetFlash(w http.ResponseWriter, n Notice) {
	b, err := json.Marshal(n)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash returns the pending notice, if any, and clears it.
func PopFlash(w http.ResponseWriter, r *http.Request) (Notice, bool) {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return Notice{}, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	b, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return Notice{}, false
	}
	var n Notice
	if err := json.Unmarshal(b, &n); err != nil || n.IsZero() {
		return Notice{}, false
	}
	return n, true
}
