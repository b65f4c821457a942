package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/article-review-portal/internal/apiclient"
	"github.com/article-review-portal/internal/listing"
	"github.com/article-review-portal/internal/mocks"
	"github.com/article-review-portal/internal/notice"
	"github.com/article-review-portal/internal/repository"
	"github.com/article-review-portal/internal/service"
	"github.com/article-review-portal/internal/validation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	router := newRouter(t, &service.Services{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "article-review-portal", response["service"])
}

func TestMetrics(t *testing.T) {
	router, backend, _ := newPortal(t)
	backend.AddArticle(mocks.SeedArticle{Title: "A"})
	backend.AddArticle(mocks.SeedArticle{Title: "B", Status: "Kabul Edildi"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Articles struct {
			Total    int            `json:"total"`
			ByStatus map[string]int `json:"by_status"`
		} `json:"articles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Articles.Total)
	assert.Equal(t, 1, response.Articles.ByStatus["Beklemede"])
	assert.Equal(t, 1, response.Articles.ByStatus["Onaylandı"])
	assert.Equal(t, 0, response.Articles.ByStatus["Tamamlandı"])
}

func TestMetrics_BackendDown(t *testing.T) {
	router, backend, _ := newPortal(t)
	backend.Fail("GET /api/articles", http.StatusInternalServerError, "db down")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestMiddleware_Headers(t *testing.T) {
	router := newRouter(t, &service.Services{})

	t.Run("generated request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	})

	t.Run("echoed request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-ID", "req-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	})
}

func TestRequestIDForwardedToBackend(t *testing.T) {
	router, backend, _ := newPortal(t)
	id, code := backend.AddArticle(mocks.SeedArticle{Title: "A"})
	require.NotEmpty(t, id)

	req := httptest.NewRequest(http.MethodGet, "/track?code="+code, nil)
	req.Header.Set("X-Request-ID", "trace-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	sent, ok := backend.LastRequest(http.MethodGet, "/api/track/"+code)
	require.True(t, ok)
	assert.Equal(t, "trace-42", sent.RequestID)
}

func TestNoRoute(t *testing.T) {
	router := newRouter(t, &service.Services{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Aradığınız sayfa bulunamadı.")
}

func TestRecovery(t *testing.T) {
	// no article service wired: the dashboard handler panics
	router := newRouter(t, &service.Services{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Beklenmeyen bir hata oluştu.")
}

func TestGuardedRoutesRedirect(t *testing.T) {
	router := newRouter(t, &service.Services{})

	tests := []struct {
		path  string
		login string
	}{
		{"/reviewer/dashboard", "/reviewer/login"},
		{"/reviewer/articles/1/review", "/reviewer/login"},
		{"/reviewer/articles/1/download", "/reviewer/login"},
		{"/author/profile", "/author/login"},
		{"/author/upload", "/author/login"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, tt.login, w.Header().Get("Location"))
		})
	}
}

func TestAdminDashboard(t *testing.T) {
	router, backend, _ := newPortal(t)
	backend.AddArticle(mocks.SeedArticle{Title: "Zeytin Ağaçları", Author: "Ayşe Demir"})
	backend.AddArticle(mocks.SeedArticle{Title: "Kuantum Hesaplama", Status: "Kabul Edildi"})

	t.Run("lists everything", func(t *testing.T) {
		w := newBrowser(t, router).get("/admin")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Zeytin Ağaçları")
		assert.Contains(t, w.Body.String(), "Kuantum Hesaplama")
	})

	t.Run("filters by status", func(t *testing.T) {
		w := newBrowser(t, router).get("/admin?status=" + url.QueryEscape("Onaylandı"))
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "Zeytin Ağaçları")
		assert.Contains(t, w.Body.String(), "Kuantum Hesaplama")
	})

	t.Run("searches case-insensitively", func(t *testing.T) {
		w := newBrowser(t, router).get("/admin?q=" + url.QueryEscape("ZEYTİN"))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Zeytin Ağaçları")
		assert.NotContains(t, w.Body.String(), "Kuantum Hesaplama")
	})
}

func TestAdminDashboard_BackendDown(t *testing.T) {
	router, backend, _ := newPortal(t)
	backend.Fail("GET /api/admin/audit-logs", http.StatusServiceUnavailable, "")

	w := newBrowser(t, router).get("/admin")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "alert-danger")
}

func TestAdminDashboard_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := apiclient.NewWithHTTPClient(srv.URL+"/api", srv.Client(), zerolog.Nop())
	services := service.NewServices(repository.New(client), nil, zerolog.Nop())

	w := newBrowser(t, newRouter(t, services)).get("/admin")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), notice.MsgUnreachable)
}

func TestAdminDetail_NotFound(t *testing.T) {
	router, _, _ := newPortal(t)
	w := newBrowser(t, router).get("/admin/articles/999")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrack(t *testing.T) {
	router, _, _ := newPortal(t)
	b := newBrowser(t, router)

	w := b.get("/track")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="code"`)

	w = b.get("/track?code=TRK-NOPE")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Bu takip numarasına ait makale bulunamadı")
}

func TestReviewerLogin_Unknown(t *testing.T) {
	router, _, _ := newPortal(t)
	w := newBrowser(t, router).postForm("/reviewer/login", url.Values{"email": {"kimse@example.org"}})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Hakem bulunamadı")
	assert.Contains(t, w.Body.String(), `value="kimse@example.org"`)
}

func TestReviewerReview_NotAssigned(t *testing.T) {
	router, backend, _ := newPortal(t)
	backend.AddReviewer("Ali Veli", "ali@example.org")
	id, _ := backend.AddArticle(mocks.SeedArticle{Title: "Başkasının"})
	b := newBrowser(t, router)
	b.postForm("/reviewer/login", url.Values{"email": {"ali@example.org"}})

	w := b.get("/reviewer/articles/" + id + "/review")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/reviewer/dashboard", w.Header().Get("Location"))
}

func TestReviewerReview_MissingComments(t *testing.T) {
	router, backend, _ := newPortal(t)
	backend.AddReviewer("Ali Veli", "ali@example.org")
	id, _ := backend.AddArticle(mocks.SeedArticle{Title: "T"})
	backend.Assign(id, "ali@example.org")
	b := newBrowser(t, router)
	b.postForm("/reviewer/login", url.Values{"email": {"ali@example.org"}})

	w := b.postForm("/reviewer/articles/"+id+"/review", url.Values{"decision": {"Red"}, "comments": {"  "}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Değerlendirme yorumu alanı zorunludur.")
	assert.Contains(t, w.Body.String(), `value="Red" selected`)

	_, sent := backend.LastRequest(http.MethodPost, "/api/reviewer/submit-review")
	assert.False(t, sent, "invalid forms never reach the backend")
}

func TestReviewerDownload(t *testing.T) {
	router, backend, _ := newPortal(t)
	backend.AddReviewer("Ali Veli", "ali@example.org")
	id, _ := backend.AddArticle(mocks.SeedArticle{Title: "T"})
	backend.Assign(id, "ali@example.org")
	b := newBrowser(t, router)
	b.postForm("/reviewer/login", url.Values{"email": {"ali@example.org"}})

	w := b.get("/reviewer/articles/" + id + "/download")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, mocks.PDF, w.Body.Bytes())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "anonim_"+id+".pdf")
}

func TestAuthorUpload_Rejections(t *testing.T) {
	router, backend, _ := newPortal(t)
	backend.AddArticle(mocks.SeedArticle{Title: "A", Email: "d@example.org"})
	b := newBrowser(t, router)
	b.postForm("/author/login", url.Values{"email": {"d@example.org"}})
	fields := map[string]string{"title": "T", "keywords": "k", "institution": "I"}

	t.Run("not a pdf", func(t *testing.T) {
		w := b.postFile("/author/upload", fields, "notes.docx", []byte("x"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Yalnızca PDF dosyaları yüklenebilir.")
	})

	t.Run("too large", func(t *testing.T) {
		w := b.postFile("/author/upload", fields, "big.pdf", make([]byte, 1<<20+1))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("missing title keeps the other fields", func(t *testing.T) {
		w := b.postFile("/author/upload", map[string]string{"keywords": "k", "institution": "Kurum X"}, "a.pdf", []byte("%PDF"))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Başlık alanı zorunludur.")
		assert.Contains(t, w.Body.String(), `value="Kurum X"`)
	})

	_, sent := backend.LastRequest(http.MethodPost, "/api/submit-article")
	assert.False(t, sent)
}

func TestExport(t *testing.T) {
	export := mocks.NewMockExportService()
	router := newRouter(t, &service.Services{Export: export})

	t.Run("bad format", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/export?format=xml", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad resource", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/export?resource=users", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("articles with listing options", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/export?format=csv&q=kuantum&status=Beklemede&sort=date_desc", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotEmpty(t, export.Options)
		assert.Equal(t, listing.Options{Query: "kuantum", Status: "Beklemede", Sort: "date_desc"}, export.Options[len(export.Options)-1])
		assert.Equal(t, "csv", export.Formats[len(export.Formats)-1])
	})

	t.Run("audit logs default to ndjson", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/export?resource=audit-logs", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ndjson", export.Formats[len(export.Formats)-1])
	})
}

func TestExport_FailureBeforeWrite(t *testing.T) {
	export := mocks.NewMockExportService()
	export.StreamAuditLogsFunc = func(ctx context.Context, w http.ResponseWriter, format string) error {
		return fmt.Errorf("%w: connection refused", apiclient.ErrTransport)
	}
	router := newRouter(t, &service.Services{Export: export})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/export?resource=audit-logs&format=json", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))
}

func TestExport_Articles_EndToEnd(t *testing.T) {
	router, backend, _ := newPortal(t)
	backend.AddArticle(mocks.SeedArticle{Title: "Birinci", Author: "Ayşe"})
	backend.AddArticle(mocks.SeedArticle{Title: "İkinci", Status: "Reddedildi"})

	w := newBrowser(t, router).get("/admin/export?format=csv")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "id,title,author"))
	assert.Contains(t, w.Body.String(), "Onaylanmadı", "statuses are exported canonical")
}

func TestImport(t *testing.T) {
	imports := mocks.NewMockImportService()
	imports.ImportFunc = func(ctx context.Context, r io.Reader) (*service.ImportReport, error) {
		return &service.ImportReport{
			Total:    2,
			Assigned: 1,
			Failed:   1,
			Errors:   []validation.ValidationError{{Line: 3, Field: "reviewer_email", Message: "Hakem bulunamadı"}},
		}, nil
	}
	router := newRouter(t, &service.Services{Import: imports})
	csv := []byte("article_id,reviewer_email\n1,a@example.org\n2,yok@example.org\n")

	t.Run("rejects non-csv", func(t *testing.T) {
		body, ct := multipartBody(t, nil, "assign.xlsx", csv)
		req := httptest.NewRequest(http.MethodPost, "/admin/assignments/import?format=json", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"x": "y"}, "", nil)
		req := httptest.NewRequest(http.MethodPost, "/admin/assignments/import?format=json", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("json report", func(t *testing.T) {
		body, ct := multipartBody(t, nil, "assign.csv", csv)
		req := httptest.NewRequest(http.MethodPost, "/admin/assignments/import?format=json", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var report service.ImportReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, 1, report.Assigned)
		require.Len(t, report.Errors, 1)
		assert.Equal(t, 3, report.Errors[0].Line)
		assert.Equal(t, csv, imports.Received[len(imports.Received)-1])
	})

	t.Run("html report warns on failures", func(t *testing.T) {
		body, ct := multipartBody(t, nil, "assign.csv", csv)
		req := httptest.NewRequest(http.MethodPost, "/admin/assignments/import", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "alert-warning")
		assert.Contains(t, w.Body.String(), "Hakem bulunamadı")
	})
}

func TestImport_HeaderError(t *testing.T) {
	imports := mocks.NewMockImportService()
	imports.ImportFunc = func(ctx context.Context, r io.Reader) (*service.ImportReport, error) {
		return nil, service.ErrImportHeader
	}
	router := newRouter(t, &service.Services{Import: imports})

	body, ct := multipartBody(t, nil, "assign.csv", []byte("a,b\n"))
	req := httptest.NewRequest(http.MethodPost, "/admin/assignments/import?format=json", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "article_id ve reviewer_email")
}
