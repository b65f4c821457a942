package api_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/article-review-portal/internal/api"
	"github.com/article-review-portal/internal/apiclient"
	"github.com/article-review-portal/internal/config"
	"github.com/article-review-portal/internal/mocks"
	"github.com/article-review-portal/internal/repository"
	"github.com/article-review-portal/internal/service"
	"github.com/article-review-portal/internal/session"
	"github.com/article-review-portal/internal/views"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Backend: config.BackendConfig{Timeout: 5 * time.Second},
		Session: config.SessionConfig{
			Secret:     "test-secret-0123456789",
			TTL:        time.Hour,
			CookieName: "portal_session",
		},
		Upload: config.UploadConfig{MaxUploadSize: 1 << 20},
	}
}

func newRouter(t *testing.T, services *service.Services) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	tmpl, err := views.Load(nil)
	require.NoError(t, err)
	guard := session.NewGuard(&cfg.Session, session.NewMemoryStore(), zerolog.Nop())
	return api.NewRouter(services, guard, tmpl, cfg, zerolog.Nop())
}

// newPortal wires the real services to a fake backend.
func newPortal(t *testing.T) (*gin.Engine, *mocks.Backend, *service.Services) {
	t.Helper()
	backend := mocks.NewBackend()
	srv := backend.Start()
	t.Cleanup(srv.Close)

	client := apiclient.NewWithHTTPClient(srv.URL+"/api", srv.Client(), zerolog.Nop())
	services := service.NewServices(repository.New(client), nil, zerolog.Nop())
	return newRouter(t, services), backend, services
}

// browser keeps cookies across requests like a real client would.
type browser struct {
	t       *testing.T
	router  http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, router http.Handler) *browser {
	return &browser{t: t, router: router, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) postFile(path string, fields map[string]string, fileName string, content []byte) *httptest.ResponseRecorder {
	body, contentType := multipartBody(b.t, fields, fileName, content)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	return b.do(req)
}

// follow performs the redirect in w, if any.
func (b *browser) follow(w *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	b.t.Helper()
	require.Equal(b.t, http.StatusSeeOther, w.Code, w.Body.String())
	return b.get(w.Header().Get("Location"))
}

func multipartBody(t *testing.T, fields map[string]string, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}
