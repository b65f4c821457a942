package mocks

import (
	"net/http"

	"github.com/article-review-portal/internal/apiclient"
)

// ErrNotFound is the backend's 404 as the client reports it
var ErrNotFound = &apiclient.APIError{StatusCode: http.StatusNotFound, Message: "Kayıt bulunamadı"}
