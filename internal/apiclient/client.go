package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/article-review-portal/internal/config"
	"github.com/article-review-portal/internal/models"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

type ctxKey struct{}

// WithRequestID returns a context that carries id to outgoing requests.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the request id carried by ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Client is a JSON-over-HTTP client for the article backend
type Client struct {
	http    *http.Client
	baseURL string
	log     zerolog.Logger
}

// New creates a backend client with the configured timeout
func New(cfg *config.BackendConfig, log zerolog.Logger) *Client {
	return NewWithHTTPClient(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout}, log)
}

// NewWithHTTPClient creates a backend client over an existing http.Client
func NewWithHTTPClient(baseURL string, hc *http.Client, log zerolog.Logger) *Client {
	c := &Client{
		http:    hc,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log.With().Str("component", "apiclient").Logger(),
	}

	c.log.Info().
		Str("base_url", c.baseURL).
		Dur("timeout", hc.Timeout).
		Msg("Backend client configured")

	return c
}

// BaseURL returns the backend base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends a request and returns the response when the status is 2xx. The
// caller closes the body. Non-2xx responses are returned as *APIError.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if id := RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("Backend request failed")
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", RequestID(ctx)).
		Msg("Backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp, method, path)
	}
	return resp, nil
}

// GetJSON issues a GET and decodes the JSON body into out
func (c *Client) GetJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.Do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeBody(resp.Body, out, http.MethodGet, path)
}

// PostJSON issues a POST with in as the JSON body (none when in is nil) and
// decodes the reply into out when out is not nil
func (c *Client) PostJSON(ctx context.Context, path string, in, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	resp, err := c.Do(ctx, http.MethodPost, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeBody(resp.Body, out, http.MethodPost, path)
}

// FormField is one text part of a multipart request.
type FormField struct {
	Name  string
	Value string
}

// FilePart is the file part of a multipart request.
type FilePart struct {
	Field    string
	FileName string
	Content  io.Reader
}

// PostMultipart issues a multipart/form-data POST with fields in order
// followed by file
func (c *Client) PostMultipart(ctx context.Context, path string, fields []FormField, file *FilePart, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}
	if file != nil {
		part, err := w.CreateFormFile(file.Field, file.FileName)
		if err != nil {
			return fmt.Errorf("create file part: %w", err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return fmt.Errorf("copy file part: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	resp, err := c.Do(ctx, http.MethodPost, path, &buf, w.FormDataContentType())
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeBody(resp.Body, out, http.MethodPost, path)
}

// Download issues a request for a binary document. in, when not nil, is sent
// as a JSON body. The caller closes the returned body.
func (c *Client) Download(ctx context.Context, method, path string, in interface{}) (*models.Download, error) {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	resp, err := c.Do(ctx, method, path, body, contentType)
	if err != nil {
		return nil, err
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/pdf"
	}
	return &models.Download{
		Body:          resp.Body,
		ContentType:   ct,
		ContentLength: resp.ContentLength,
		FileName:      fileNameFrom(resp.Header.Get("Content-Disposition")),
	}, nil
}

// HealthCheck verifies the backend answers HTTP at all. Any HTTP status
// counts as reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/articles", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
	return nil
}

// WaitReady polls HealthCheck with exponential backoff until the backend
// answers or attempts run out
func (c *Client) WaitReady(ctx context.Context, attempts uint64, base time.Duration) error {
	backoff := retry.WithMaxRetries(attempts, retry.NewExponential(base))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := c.HealthCheck(ctx); err != nil {
			c.log.Debug().Err(err).Msg("Backend not ready")
			return retry.RetryableError(err)
		}
		return nil
	})
}

func decodeBody(r io.Reader, out interface{}, method, path string) error {
	if out == nil {
		io.Copy(io.Discard, r)
		return nil
	}
	if err := json.NewDecoder(r).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %s %s: %w", ErrMalformedResponse, method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response, method, path string) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Method: method, Path: path}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(bytes.TrimSpace(b)) == 0 {
		return apiErr
	}
	var msg models.MessageResponse
	if json.Unmarshal(b, &msg) == nil {
		apiErr.Message = msg.Text()
	}
	return apiErr
}

func fileNameFrom(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
