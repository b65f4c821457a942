package mocks

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/article-review-portal/internal/models"
	"github.com/article-review-portal/internal/repository"
)

// MockArticleRepository is a mock implementation of ArticleRepository
type MockArticleRepository struct {
	mu sync.Mutex

	Articles  []models.Article
	ByID      map[string]*models.Article
	Reviewers map[string][]models.Reviewer
	Reviews   map[string][]models.Review

	ListError      error
	GetError       error
	ReviewersError error
	ReviewsError   error
	ReviseError    error
	SubmitFunc     func(ctx context.Context, req *models.SubmitArticleRequest) (*models.SubmitResult, error)

	Calls []string
}

var _ repository.ArticleRepository = (*MockArticleRepository)(nil)

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		ByID:      make(map[string]*models.Article),
		Reviewers: make(map[string][]models.Reviewer),
		Reviews:   make(map[string][]models.Review),
	}
}

func (m *MockArticleRepository) call(name string) {
	m.mu.Lock()
	m.Calls = append(m.Calls, name)
	m.mu.Unlock()
}

// Called reports how many times name was called
func (m *MockArticleRepository) Called(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *MockArticleRepository) List(ctx context.Context) ([]models.Article, error) {
	m.call("List")
	if m.ListError != nil {
		return nil, m.ListError
	}
	out := make([]models.Article, len(m.Articles))
	copy(out, m.Articles)
	return out, nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	m.call("GetByID")
	if m.GetError != nil {
		return nil, m.GetError
	}
	a, ok := m.ByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MockArticleRepository) GetReviewers(ctx context.Context, id string) ([]models.Reviewer, error) {
	m.call("GetReviewers")
	if m.ReviewersError != nil {
		return nil, m.ReviewersError
	}
	return m.Reviewers[id], nil
}

func (m *MockArticleRepository) GetReviews(ctx context.Context, id string) ([]models.Review, error) {
	m.call("GetReviews")
	if m.ReviewsError != nil {
		return nil, m.ReviewsError
	}
	return m.Reviews[id], nil
}

func (m *MockArticleRepository) Track(ctx context.Context, code string) (*models.Article, error) {
	m.call("Track")
	for i := range m.Articles {
		if m.Articles[i].TrackingCode == code {
			cp := m.Articles[i]
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MockArticleRepository) Submit(ctx context.Context, req *models.SubmitArticleRequest) (*models.SubmitResult, error) {
	m.call("Submit")
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, req)
	}
	return &models.SubmitResult{TrackingCode: "TRK-MOCK"}, nil
}

func (m *MockArticleRepository) Revise(ctx context.Context, req *models.ReviseArticleRequest) (string, error) {
	m.call("Revise")
	if m.ReviseError != nil {
		return "", m.ReviseError
	}
	return "Revize makale yüklendi", nil
}

// MockAdminRepository is a mock implementation of AdminRepository
type MockAdminRepository struct {
	mu sync.Mutex

	Logs           []models.AuditLog
	AuditLogsFunc  func(ctx context.Context) ([]models.AuditLog, error)
	ActionError    error
	AssignFunc     func(ctx context.Context, req *models.AssignReviewerRequest) (string, error)
	Assignments    []models.AssignReviewerRequest
	SensitiveInfos [][]string
	Approved       []string
	Rejected       []string
}

var _ repository.AdminRepository = (*MockAdminRepository)(nil)

func NewMockAdminRepository() *MockAdminRepository {
	return &MockAdminRepository{}
}

func (m *MockAdminRepository) AuditLogs(ctx context.Context) ([]models.AuditLog, error) {
	if m.AuditLogsFunc != nil {
		return m.AuditLogsFunc(ctx)
	}
	out := make([]models.AuditLog, len(m.Logs))
	copy(out, m.Logs)
	return out, nil
}

func (m *MockAdminRepository) Approve(ctx context.Context, id string) (string, error) {
	if m.ActionError != nil {
		return "", m.ActionError
	}
	m.mu.Lock()
	m.Approved = append(m.Approved, id)
	m.mu.Unlock()
	return "approved", nil
}

func (m *MockAdminRepository) Reject(ctx context.Context, id string) (string, error) {
	if m.ActionError != nil {
		return "", m.ActionError
	}
	m.mu.Lock()
	m.Rejected = append(m.Rejected, id)
	m.mu.Unlock()
	return "rejected", nil
}

func (m *MockAdminRepository) Anonymize(ctx context.Context, id string, sensitiveInfo []string) (string, error) {
	if m.ActionError != nil {
		return "", m.ActionError
	}
	m.mu.Lock()
	m.SensitiveInfos = append(m.SensitiveInfos, sensitiveInfo)
	m.mu.Unlock()
	return "anonymized", nil
}

func (m *MockAdminRepository) AssignReviewer(ctx context.Context, req *models.AssignReviewerRequest) (string, error) {
	if m.AssignFunc != nil {
		if msg, err := m.AssignFunc(ctx, req); err != nil {
			return msg, err
		}
	} else if m.ActionError != nil {
		return "", m.ActionError
	}
	m.mu.Lock()
	m.Assignments = append(m.Assignments, *req)
	m.mu.Unlock()
	return "assigned", nil
}

func (m *MockAdminRepository) AddTestReviewers(ctx context.Context) (string, error) {
	if m.ActionError != nil {
		return "", m.ActionError
	}
	return "added", nil
}

func (m *MockAdminRepository) Download(ctx context.Context, id string, anonymized bool) (*models.Download, error) {
	if m.ActionError != nil {
		return nil, m.ActionError
	}
	return &models.Download{
		Body:          io.NopCloser(bytes.NewReader(PDF)),
		ContentType:   "application/pdf",
		ContentLength: int64(len(PDF)),
		FileName:      id + ".pdf",
	}, nil
}
