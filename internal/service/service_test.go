package service_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/article-review-portal/internal/apiclient"
	"github.com/article-review-portal/internal/listing"
	"github.com/article-review-portal/internal/mocks"
	"github.com/article-review-portal/internal/models"
	"github.com/article-review-portal/internal/repository"
	"github.com/article-review-portal/internal/service"
	"github.com/article-review-portal/internal/status"
	"github.com/article-review-portal/internal/validation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backendServices(t *testing.T) (*mocks.Backend, *service.Services) {
	t.Helper()
	backend := mocks.NewBackend()
	srv := backend.Start()
	t.Cleanup(srv.Close)
	client := apiclient.NewWithHTTPClient(srv.URL+"/api", srv.Client(), zerolog.Nop())
	return backend, service.NewServices(repository.New(client), nil, zerolog.Nop())
}

func mockServices(articles *mocks.MockArticleRepository, admin *mocks.MockAdminRepository) *service.Services {
	repos := &repository.Repositories{Article: articles, Admin: admin}
	return service.NewServices(repos, status.Default(), zerolog.Nop())
}

func TestArticleService_ListNormalizes(t *testing.T) {
	articles := mocks.NewMockArticleRepository()
	articles.Articles = []models.Article{
		{ID: "1", Title: "Beta", Status: "Kabul Edildi", SubmissionDate: "2024-01-02T00:00:00"},
		{ID: "2", Title: "alfa", Status: "Onay Bekliyor", SubmissionDate: "2024-01-03T00:00:00"},
		{ID: "3", Title: "Gama", Status: "Reddedildi"},
	}
	svc := mockServices(articles, mocks.NewMockAdminRepository())

	got, err := svc.Articles.List(context.Background(), listing.Options{Status: status.Approved})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Beta", got[0].Title)

	got, err = svc.Articles.List(context.Background(), listing.Options{Sort: listing.SortDateDesc})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"2", "1", "3"}, ids(got))
	assert.Equal(t, status.Pending, got[0].Status)
	assert.Equal(t, status.Rejected, got[2].Status)
}

func TestArticleService_Dashboard(t *testing.T) {
	admin := mocks.NewMockAdminRepository()
	admin.Logs = []models.AuditLog{
		{Timestamp: "2024-01-01T10:00:00", Action: "old"},
		{Timestamp: "2024-02-01T10:00:00", Action: "new"},
	}
	articles := mocks.NewMockArticleRepository()
	articles.Articles = []models.Article{{ID: "1", Title: "Makine Öğrenmesi"}, {ID: "2", Title: "Ağ Güvenliği"}}
	svc := mockServices(articles, admin)

	d, err := svc.Articles.Dashboard(context.Background(), listing.Options{Query: "MAKİNE"})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Total)
	require.Len(t, d.Articles, 1)
	assert.Equal(t, "1", d.Articles[0].ID.String())
	require.Len(t, d.AuditLogs, 2)
	assert.Equal(t, "new", d.AuditLogs[0].Action)
}

func TestArticleService_DashboardFailsOnEitherLoad(t *testing.T) {
	boom := &apiclient.APIError{StatusCode: 500, Message: "hata"}

	t.Run("audit logs", func(t *testing.T) {
		admin := mocks.NewMockAdminRepository()
		admin.AuditLogsFunc = func(ctx context.Context) ([]models.AuditLog, error) {
			return nil, boom
		}
		articles := mocks.NewMockArticleRepository()
		_, err := mockServices(articles, admin).Articles.Dashboard(context.Background(), listing.Options{})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("articles cancel the audit load", func(t *testing.T) {
		admin := mocks.NewMockAdminRepository()
		admin.AuditLogsFunc = func(ctx context.Context) ([]models.AuditLog, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		articles := mocks.NewMockArticleRepository()
		articles.ListError = boom
		_, err := mockServices(articles, admin).Articles.Dashboard(context.Background(), listing.Options{})
		assert.ErrorIs(t, err, boom)
	})
}

func TestArticleService_DetailFallbacks(t *testing.T) {
	articles := mocks.NewMockArticleRepository()
	articles.ByID["5"] = &models.Article{ID: "5", Title: "T", Status: "Kabul Edildi"}
	articles.Reviewers["5"] = []models.Reviewer{{Name: "Hakem"}}
	articles.ReviewsError = &apiclient.APIError{StatusCode: 500}
	svc := mockServices(articles, mocks.NewMockAdminRepository())

	d, err := svc.Articles.Detail(context.Background(), "5")
	require.NoError(t, err)
	assert.Equal(t, status.Approved, d.Article.Status)
	assert.Equal(t, []models.Reviewer{{Name: "Hakem"}}, d.Reviewers)
	assert.Empty(t, d.Reviews, "a failed fallback leaves an empty list")
	assert.Equal(t, []status.Action{status.ActionDownload, status.ActionAnonymize}, d.Actions)
	assert.Equal(t, 1, articles.Called("GetReviewers"))
	assert.Equal(t, 1, articles.Called("GetReviews"))
}

func TestArticleService_DetailSkipsFallbackWhenInline(t *testing.T) {
	articles := mocks.NewMockArticleRepository()
	articles.ByID["5"] = &models.Article{
		ID:        "5",
		Reviewers: []models.Reviewer{{Name: "A"}},
		Reviews:   []models.Review{{Comments: "iyi"}},
	}
	svc := mockServices(articles, mocks.NewMockAdminRepository())

	d, err := svc.Articles.Detail(context.Background(), "5")
	require.NoError(t, err)
	assert.Len(t, d.Reviewers, 1)
	assert.Len(t, d.Reviews, 1)
	assert.Zero(t, articles.Called("GetReviewers"))
	assert.Zero(t, articles.Called("GetReviews"))
}

func TestArticleService_DetailNotFound(t *testing.T) {
	svc := mockServices(mocks.NewMockArticleRepository(), mocks.NewMockAdminRepository())
	_, err := svc.Articles.Detail(context.Background(), "404")
	assert.True(t, apiclient.IsNotFound(err))
}

func TestArticleService_TrackValidates(t *testing.T) {
	articles := mocks.NewMockArticleRepository()
	svc := mockServices(articles, mocks.NewMockAdminRepository())

	_, err := svc.Articles.Track(context.Background(), "   ")
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("code"))
	assert.Zero(t, articles.Called("Track"))
}

func TestArticleService_StatusCounts(t *testing.T) {
	articles := mocks.NewMockArticleRepository()
	articles.Articles = []models.Article{
		{ID: "1", Status: "Beklemede"},
		{ID: "2", Status: "Onay Bekliyor"},
		{ID: "3", Status: "Arşivlendi"},
	}
	counts, err := mockServices(articles, mocks.NewMockAdminRepository()).Articles.StatusCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, counts[status.Pending])
	assert.Equal(t, 0, counts[status.Completed])
	assert.Equal(t, 1, counts["Arşivlendi"])
}

func TestActionService(t *testing.T) {
	admin := mocks.NewMockAdminRepository()
	svc := mockServices(mocks.NewMockArticleRepository(), admin)
	ctx := context.Background()

	_, err := svc.Actions.Anonymize(ctx, "1", models.AnonymizeForm{Author: true, Email: true})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"author", "email"}}, admin.SensitiveInfos)

	_, err = svc.Actions.AssignReviewer(ctx, &models.AssignReviewerRequest{ArticleID: "1", ReviewerEmail: " "})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("reviewer_email"))
	assert.Empty(t, admin.Assignments, "invalid input never reaches the backend")

	admin.ActionError = &apiclient.APIError{StatusCode: 409, Message: "Zaten onaylı"}
	_, err = svc.Actions.Approve(ctx, "1")
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Zaten onaylı", apiErr.Message)
}

func TestReviewerService_Flow(t *testing.T) {
	backend, svc := backendServices(t)
	backend.AddReviewer("Ali Veli", "ali@example.org")
	id, _ := backend.AddArticle(mocks.SeedArticle{Title: "T"})
	backend.Assign(id, "ali@example.org")
	ctx := context.Background()

	user, err := svc.Reviewers.Login(ctx, &models.LoginRequest{Email: "ali@example.org", Name: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "Ali Veli", user.Name)
	assert.Equal(t, "1", user.ID)
	assert.Equal(t, models.RoleReviewer, user.Role)

	assigned, err := svc.Reviewers.Assigned(ctx, *user)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.True(t, assigned[0].CanReview())

	target, err := svc.Reviewers.ReviewTarget(ctx, *user, id)
	require.NoError(t, err)
	assert.Equal(t, "T", target.Title)

	_, err = svc.Reviewers.SubmitReview(ctx, *user, id, models.ReviewForm{Decision: "Kabul", Comments: "Güzel çalışma"})
	require.NoError(t, err)

	assigned, err = svc.Reviewers.Assigned(ctx, *user)
	require.NoError(t, err)
	assert.Equal(t, status.Completed, assigned[0].ReviewState)
	assert.False(t, assigned[0].CanReview())

	_, err = svc.Reviewers.ReviewTarget(ctx, *user, id)
	assert.ErrorIs(t, err, service.ErrReviewClosed)

	_, err = svc.Reviewers.ReviewTarget(ctx, *user, "999")
	assert.ErrorIs(t, err, service.ErrNotAssigned)
}

func TestReviewerService_SubmitReviewValidation(t *testing.T) {
	_, svc := backendServices(t)
	user := models.User{Email: "ali@example.org", Role: models.RoleReviewer}

	_, err := svc.Reviewers.SubmitReview(context.Background(), user, "1", models.ReviewForm{Decision: "", Comments: ""})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("decision"))
	assert.True(t, verrs.Has("comments"))
}

func TestReviewerService_UnknownDecisionReachesBackend(t *testing.T) {
	backend, svc := backendServices(t)
	backend.AddReviewer("Ali Veli", "ali@example.org")
	id, _ := backend.AddArticle(mocks.SeedArticle{Title: "T"})
	backend.Assign(id, "ali@example.org")
	user := models.User{Email: "ali@example.org", Role: models.RoleReviewer}

	_, err := svc.Reviewers.SubmitReview(context.Background(), user, id, models.ReviewForm{Decision: "Belki", Comments: "iyi"})
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Geçersiz karar", apiErr.Message)

	_, ok := backend.LastRequest(http.MethodPost, "/api/reviewer/submit-review")
	assert.True(t, ok)
}

func TestReviewerService_LoginRejected(t *testing.T) {
	_, svc := backendServices(t)
	_, err := svc.Reviewers.Login(context.Background(), &models.LoginRequest{Email: "x@example.org"})
	assert.Equal(t, http.StatusUnauthorized, apiclient.StatusCode(err))
}

func TestAuthorService(t *testing.T) {
	backend, svc := backendServices(t)
	backend.AddArticle(mocks.SeedArticle{Title: "T", Author: "Zeynep Yılmaz", Email: "z@example.org"})
	ctx := context.Background()

	_, err := svc.Authors.Login(ctx, &models.LoginRequest{Email: "nobody@example.org"})
	assert.True(t, apiclient.IsNotFound(err))

	user, err := svc.Authors.Login(ctx, &models.LoginRequest{Email: "z@example.org"})
	require.NoError(t, err)
	assert.Equal(t, "Zeynep Yılmaz", user.Name)

	backend.Fail("GET /api/author/reviews/:email", http.StatusInternalServerError, "hata")
	page, err := svc.Authors.Profile(ctx, *user)
	require.NoError(t, err, "reviews failure does not fail the page")
	assert.Equal(t, 1, page.Profile.TotalArticles)
	assert.Error(t, page.ReviewsErr)

	_, err = svc.Authors.Submit(ctx, &models.SubmitArticleRequest{Title: "x"})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("file"))

	res, err := svc.Authors.Submit(ctx, &models.SubmitArticleRequest{
		Title: "Yeni", Keywords: "k", Institution: "I", Email: user.Email, FileName: "a.pdf", File: strings.NewReader("%PDF"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Code())
}

func TestAuthorService_Revise(t *testing.T) {
	backend, svc := backendServices(t)
	id, code := backend.AddArticle(mocks.SeedArticle{Title: "T", Email: "z@example.org"})
	_, otherCode := backend.AddArticle(mocks.SeedArticle{Title: "U", Email: "baska@example.org"})
	user := models.User{Email: "Z@example.org", Role: models.RoleAuthor}
	ctx := context.Background()

	_, err := svc.Authors.Revise(ctx, user, &models.ReviseArticleRequest{TrackingCode: code})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("file"))

	_, err = svc.Authors.Revise(ctx, user, &models.ReviseArticleRequest{
		TrackingCode: otherCode, FileName: "r.pdf", File: strings.NewReader("%PDF"),
	})
	assert.ErrorIs(t, err, service.ErrNotOwner)
	_, sent := backend.LastRequest(http.MethodPost, "/api/revise-article/"+otherCode)
	assert.False(t, sent)

	_, err = svc.Authors.Revise(ctx, user, &models.ReviseArticleRequest{
		TrackingCode: "YOK", FileName: "r.pdf", File: strings.NewReader("%PDF"),
	})
	assert.True(t, apiclient.IsNotFound(err))

	msg, err := svc.Authors.Revise(ctx, user, &models.ReviseArticleRequest{
		TrackingCode: " " + code + " ", FileName: "revize.pdf", File: strings.NewReader("%PDF"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Revize makale başarıyla yüklendi", msg)
	assert.Equal(t, "revised", backend.Status(id))
	assert.Equal(t, "revize.pdf", backend.FileName(id))

	dash, err := svc.Articles.Dashboard(ctx, listing.Options{})
	require.NoError(t, err)
	actions := make([]string, 0, len(dash.AuditLogs))
	for _, l := range dash.AuditLogs {
		actions = append(actions, l.Action)
	}
	assert.Contains(t, actions, "Makale revize edildi")
}

func TestAuthorService_ReviseWithoutRecordedEmail(t *testing.T) {
	articles := mocks.NewMockArticleRepository()
	articles.Articles = []models.Article{{ID: "1", TrackingCode: "TRK-1"}}
	svc := mockServices(articles, mocks.NewMockAdminRepository())
	user := models.User{Email: "z@example.org", Role: models.RoleAuthor}
	req := func() *models.ReviseArticleRequest {
		return &models.ReviseArticleRequest{TrackingCode: "TRK-1", FileName: "r.pdf", File: strings.NewReader("%PDF")}
	}

	_, err := svc.Authors.Revise(context.Background(), user, req())
	require.NoError(t, err)
	assert.Equal(t, 1, articles.Called("Revise"))

	articles.ReviseError = &apiclient.APIError{StatusCode: http.StatusBadRequest, Message: "Dosya seçilmedi"}
	_, err = svc.Authors.Revise(context.Background(), user, req())
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Dosya seçilmedi", apiErr.Message)
}

func TestAuthorService_SendMessage(t *testing.T) {
	backend, svc := backendServices(t)
	id, code := backend.AddArticle(mocks.SeedArticle{Title: "T", Email: "z@example.org"})
	_, otherCode := backend.AddArticle(mocks.SeedArticle{Title: "U", Email: "baska@example.org"})
	user := models.User{Email: "z@example.org", Role: models.RoleAuthor}
	ctx := context.Background()

	_, err := svc.Authors.SendMessage(ctx, user, models.MessageForm{TrackingCode: code, Message: "  "})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("message"))

	_, err = svc.Authors.SendMessage(ctx, user, models.MessageForm{TrackingCode: otherCode, Message: "Merhaba"})
	assert.ErrorIs(t, err, service.ErrNotOwner)

	msg, err := svc.Authors.SendMessage(ctx, user, models.MessageForm{TrackingCode: code, Message: " Ek dosya gönderdim. "})
	require.NoError(t, err)
	assert.Equal(t, "Mesaj gönderildi", msg)
	assert.Equal(t, []mocks.Message{{ArticleID: id, Email: "z@example.org", Content: "Ek dosya gönderdim."}}, backend.Messages())

	backend.Fail("POST /api/send-message", http.StatusBadRequest, "Eksik bilgi")
	_, err = svc.Authors.SendMessage(ctx, user, models.MessageForm{TrackingCode: code, Message: "x"})
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Eksik bilgi", apiErr.Message)
}

func TestExportService(t *testing.T) {
	articles := mocks.NewMockArticleRepository()
	articles.Articles = []models.Article{
		{ID: "1", Title: "Alfa", Status: "Kabul Edildi", TrackingCode: "A1"},
		{ID: "2", Title: "Beta, ikinci", Status: "Beklemede"},
	}
	admin := mocks.NewMockAdminRepository()
	admin.Logs = []models.AuditLog{{Timestamp: "2024-01-01T00:00:00", ArticleID: "1", Action: "approve", Details: "ok"}}
	svc := mockServices(articles, admin)
	ctx := context.Background()

	t.Run("csv", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, svc.Export.StreamArticles(ctx, w, "csv", listing.Options{}))
		assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], "id,title,"))
		assert.Contains(t, lines[1], "Onaylandı")
		assert.Contains(t, lines[2], `"Beta, ikinci"`)
	})

	t.Run("ndjson filtered", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, svc.Export.StreamArticles(ctx, w, "ndjson", listing.Options{Status: status.Pending}))
		lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
		assert.Len(t, lines, 1)
	})

	t.Run("json audit logs", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, svc.Export.StreamAuditLogs(ctx, w, "json"))
		assert.JSONEq(t, `[{"timestamp":"2024-01-01T00:00:00","article_id":"1","action":"approve","details":"ok"}]`, w.Body.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := svc.Export.StreamArticles(ctx, w, "xml", listing.Options{})
		assert.ErrorIs(t, err, service.ErrUnsupportedFormat)
		assert.Zero(t, w.Body.Len())
	})

	t.Run("backend failure writes nothing", func(t *testing.T) {
		articles.ListError = errors.New("down")
		defer func() { articles.ListError = nil }()
		w := httptest.NewRecorder()
		assert.Error(t, svc.Export.StreamArticles(ctx, w, "json", listing.Options{}))
		assert.Zero(t, w.Body.Len())
	})
}

func TestImportService(t *testing.T) {
	admin := mocks.NewMockAdminRepository()
	admin.AssignFunc = func(ctx context.Context, req *models.AssignReviewerRequest) (string, error) {
		if req.ReviewerEmail == "unknown@example.org" {
			return "", &apiclient.APIError{StatusCode: 404, Message: "Hakem bulunamadı"}
		}
		return "", nil
	}
	svc := mockServices(mocks.NewMockArticleRepository(), admin)

	csvData := "article_id,reviewer_email\n" +
		"1,a@example.org\n" +
		"2,\n" +
		"\n" +
		"3,unknown@example.org\n" +
		"4,b@example.org\n"

	report, err := svc.Import.ImportAssignments(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Assigned)
	assert.Equal(t, 2, report.Failed)
	require.Len(t, report.Errors, 2)
	assert.Equal(t, 3, report.Errors[0].Line)
	assert.Equal(t, "reviewer_email", report.Errors[0].Field)
	assert.Equal(t, 5, report.Errors[1].Line)
	assert.Equal(t, "Hakem bulunamadı", report.Errors[1].Message)
	assert.Len(t, admin.Assignments, 2)
}

func TestImportService_BadHeader(t *testing.T) {
	svc := mockServices(mocks.NewMockArticleRepository(), mocks.NewMockAdminRepository())

	_, err := svc.Import.ImportAssignments(context.Background(), strings.NewReader("id,email\n1,a@b.c\n"))
	assert.ErrorIs(t, err, service.ErrImportHeader)

	_, err = svc.Import.ImportAssignments(context.Background(), strings.NewReader(""))
	assert.ErrorIs(t, err, service.ErrImportHeader)
}

func TestImportService_TooManyRows(t *testing.T) {
	admin := mocks.NewMockAdminRepository()
	svc := mockServices(mocks.NewMockArticleRepository(), admin)

	tests := []struct {
		name string
		row  string
	}{
		{name: "valid rows", row: "1,a@example.org\n"},
		{name: "unreadable rows", row: "1,a\"b@example.org\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csvData := "article_id,reviewer_email\n" + strings.Repeat(tt.row, 1001)
			_, err := svc.Import.ImportAssignments(context.Background(), strings.NewReader(csvData))
			assert.ErrorIs(t, err, service.ErrImportTooLarge)
		})
	}
	assert.Empty(t, admin.Assignments)
}

func TestImportService_UnreadableRowsReported(t *testing.T) {
	svc := mockServices(mocks.NewMockArticleRepository(), mocks.NewMockAdminRepository())

	csvData := "article_id,reviewer_email\n1,a\"b@example.org\n2,c@example.org\n"
	report, err := svc.Import.ImportAssignments(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Assigned)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 2, report.Errors[0].Line)
}

func ids(articles []models.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.ID.String()
	}
	return out
}
