package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/article-review-portal/internal/apiclient"
	"github.com/article-review-portal/internal/models"
)

// adminRepo is the concrete implementation of AdminRepository
type adminRepo struct {
	client *apiclient.Client
}

// NewAdminRepo creates a new admin repository
func NewAdminRepo(client *apiclient.Client) AdminRepository {
	return &adminRepo{client: client}
}

// AuditLogs fetches the audit trail in backend order
func (r *adminRepo) AuditLogs(ctx context.Context) ([]models.AuditLog, error) {
	var raw json.RawMessage
	if err := r.client.GetJSON(ctx, "/admin/audit-logs", &raw); err != nil {
		return nil, err
	}
	var logs []models.AuditLog
	if err := json.Unmarshal(unwrap(raw, "logs"), &logs); err != nil {
		return nil, fmt.Errorf("%w: GET /admin/audit-logs: %w", apiclient.ErrMalformedResponse, err)
	}
	return logs, nil
}

func (r *adminRepo) Approve(ctx context.Context, id string) (string, error) {
	return r.post(ctx, "/admin/approve/"+seg(id), nil)
}

func (r *adminRepo) Reject(ctx context.Context, id string) (string, error) {
	return r.post(ctx, "/admin/reject/"+seg(id), nil)
}

func (r *adminRepo) Anonymize(ctx context.Context, id string, sensitiveInfo []string) (string, error) {
	if sensitiveInfo == nil {
		sensitiveInfo = []string{}
	}
	return r.post(ctx, "/admin/anonymize/"+seg(id), models.AnonymizeRequest{SensitiveInfo: sensitiveInfo})
}

func (r *adminRepo) AssignReviewer(ctx context.Context, req *models.AssignReviewerRequest) (string, error) {
	return r.post(ctx, "/admin/assign-reviewer", req)
}

// AddTestReviewers asks the backend to bulk-assign its test reviewers
func (r *adminRepo) AddTestReviewers(ctx context.Context) (string, error) {
	return r.post(ctx, "/admin/add-test-reviewer", nil)
}

// Download fetches the original or the anonymized PDF
func (r *adminRepo) Download(ctx context.Context, id string, anonymized bool) (*models.Download, error) {
	path := "/admin/download/" + seg(id)
	if anonymized {
		path = "/admin/download-anonymized/" + seg(id)
	}
	return r.client.Download(ctx, http.MethodGet, path, nil)
}

func (r *adminRepo) post(ctx context.Context, path string, in interface{}) (string, error) {
	var msg models.MessageResponse
	if err := r.client.PostJSON(ctx, path, in, &msg); err != nil {
		return "", err
	}
	return msg.Text(), nil
}
