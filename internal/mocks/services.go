package mocks

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/article-review-portal/internal/listing"
	"github.com/article-review-portal/internal/service"
)

// MockImportService is a mock implementation of ImportService
type MockImportService struct {
	ImportFunc func(ctx context.Context, r io.Reader) (*service.ImportReport, error)
	Received   [][]byte
}

// Verify interface compliance
var _ service.ImportService = (*MockImportService)(nil)

func NewMockImportService() *MockImportService {
	return &MockImportService{}
}

func (m *MockImportService) ImportAssignments(ctx context.Context, r io.Reader) (*service.ImportReport, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m.Received = append(m.Received, data)
	if m.ImportFunc != nil {
		return m.ImportFunc(ctx, bytes.NewReader(data))
	}
	return &service.ImportReport{}, nil
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamArticlesFunc  func(ctx context.Context, w http.ResponseWriter, format string, opts listing.Options) error
	StreamAuditLogsFunc func(ctx context.Context, w http.ResponseWriter, format string) error
	Formats             []string
	Options             []listing.Options
}

// Verify interface compliance
var _ service.ExportService = (*MockExportService)(nil)

func NewMockExportService() *MockExportService {
	return &MockExportService{}
}

func (m *MockExportService) StreamArticles(ctx context.Context, w http.ResponseWriter, format string, opts listing.Options) error {
	m.Formats = append(m.Formats, format)
	m.Options = append(m.Options, opts)
	if m.StreamArticlesFunc != nil {
		return m.StreamArticlesFunc(ctx, w, format, opts)
	}
	w.Header().Set("Content-Type", "application/json")
	_, err := w.Write([]byte("[]"))
	return err
}

func (m *MockExportService) StreamAuditLogs(ctx context.Context, w http.ResponseWriter, format string) error {
	m.Formats = append(m.Formats, format)
	if m.StreamAuditLogsFunc != nil {
		return m.StreamAuditLogsFunc(ctx, w, format)
	}
	w.Header().Set("Content-Type", "application/json")
	_, err := w.Write([]byte("[]"))
	return err
}
