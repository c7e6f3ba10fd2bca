// Package api is the HTTP client for the grievance backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Endpoint paths.
const (
	PathSubmitGrievance = "/submit_grievance"
	PathChat            = "/chat"
	PathUploadImage     = "/upload_image"
)

// RequestIDHeader carries a per-request uuid for log correlation.
const RequestIDHeader = "X-Request-ID"

const maxResponseBytes = 1 << 20

// Client talks to the backend. It holds no session state; the grievance id
// travels in each request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	newID      func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Nil is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a whole-request timeout. Zero means none. It applies to a
// copy of the current http.Client so a client passed to WithHTTPClient keeps
// its transport and is not mutated.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client rooted at baseURL (scheme and host, optional
// path prefix).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("api: base URL must not be empty")
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SubmitGrievance posts the form and returns the issued grievance id.
func (c *Client) SubmitGrievance(ctx context.Context, req GrievanceRequest) (GrievanceResponse, error) {
	var resp GrievanceResponse
	if err := c.postJSON(ctx, PathSubmitGrievance, req, &resp); err != nil {
		return GrievanceResponse{}, err
	}
	if err := resp.err(); err != nil {
		return GrievanceResponse{}, err
	}
	if resp.GrievanceID.IsZero() {
		return GrievanceResponse{}, fmt.Errorf("%w: missing grievance_id", ErrMalformedResponse)
	}
	return resp, nil
}

// Chat relays one message and returns the reply.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	var resp ChatResponse
	if err := c.postJSON(ctx, PathChat, req, &resp); err != nil {
		return "", err
	}
	if err := resp.err(); err != nil {
		return "", err
	}
	if resp.Reply == nil {
		return "", fmt.Errorf("%w: missing reply", ErrMalformedResponse)
	}
	return *resp.Reply, nil
}

// UploadImage sends an image as multipart field "image" and returns the
// backend's image id.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("api: create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("api: read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("api: close multipart: %w", err)
	}

	var resp UploadResponse
	if err := c.do(ctx, PathUploadImage, mw.FormDataContentType(), &buf, &resp); err != nil {
		return "", err
	}
	if err := resp.err(); err != nil {
		return "", err
	}
	if resp.ImageID == "" {
		return "", fmt.Errorf("%w: missing image_id", ErrMalformedResponse)
	}
	return resp.ImageID, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("api: marshal request: %w", err)
	}
	return c.do(ctx, path, "application/json", bytes.NewReader(body), out)
}

func (c *Client) do(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("api: create request: %w", err)
	}
	reqID := c.newID()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)

	log := c.logger.With(zap.String("path", path), zap.String("request_id", reqID))
	start := time.Now()

	res, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return fmt.Errorf("api: %s: %w", path, err)
	}
	defer func() { _ = res.Body.Close() }()

	log.Debug("response received",
		zap.Int("status", res.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		statusErr := &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       strings.TrimSpace(string(buf)),
		}
		var env envelope
		if json.Unmarshal(buf, &env) == nil {
			statusErr.Message = env.Message
		}
		return statusErr
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("api: read response: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Warn("undecodable response", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
