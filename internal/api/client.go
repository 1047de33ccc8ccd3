package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config holds common client configuration.
type Config struct {
	// BaseURL is the storefront API root, e.g. https://shop.example.com
	BaseURL string
	Timeout time.Duration
	// CacheDir enables a disk-backed cache for public catalog requests.
	// Empty means an in-memory cache.
	CacheDir string
	Debug    bool
}

// DefaultConfig returns a default client configuration.
func DefaultConfig() Config {
	return Config{
		Timeout: 30 * time.Second,
	}
}

// Client talks to the storefront HTTP API. Bearer-authenticated endpoints
// take the token explicitly per call; the client itself holds no session
// state.
type Client struct {
	baseURL string
	httpc   *http.Client
	// public requests (product catalog, categories) go through a caching
	// transport since the catalog is fetched once per session
	publicc *http.Client
	logger  zerolog.Logger
}

// NewClient creates a storefront API client with the given configuration.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	public := NewCachingHTTPClient(cfg.CacheDir)
	public.Timeout = timeout

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		publicc: public,
		logger:  logger,
	}, nil
}

// do issues a JSON request and decodes the response body into out (when out
// is non-nil). An HTTP 401 maps to ErrUnauthorized, other non-2xx statuses
// map to *Error with the server message when one is present.
func (c *Client) do(ctx context.Context, httpc *http.Client, method, path, token string, body, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}

	return c.send(ctx, httpc, method, path, token, contentType, reader, out)
}

// formFile attaches a local file to a multipart request field.
type formFile struct {
	field string
	path  string
}

// doMultipart issues a multipart/form-data POST, the encoding the store and
// product management endpoints expect for their file uploads.
func (c *Client) doMultipart(ctx context.Context, path, token string, fields map[string]string, files []formFile, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to build form: %w", err)
		}
	}

	for _, f := range files {
		if err := attachFile(w, f); err != nil {
			return err
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to build form: %w", err)
	}

	return c.send(ctx, c.httpc, http.MethodPost, path, token, w.FormDataContentType(), &buf, out)
}

func attachFile(w *multipart.Writer, f formFile) error {
	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filepath.Base(f.path), err)
	}
	defer file.Close()

	part, err := w.CreateFormFile(f.field, filepath.Base(f.path))
	if err != nil {
		return fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(f.path), err)
	}

	return nil
}

func (c *Client) send(ctx context.Context, httpc *http.Client, method, path, token, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(started)).
		Msg("api call")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			StatusCode: resp.StatusCode,
			Message:    serverMessage(data),
		}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// serverMessage pulls the conventional {"message": ...} field out of an
// error body. Returns empty when the body is not JSON or has no message.
func serverMessage(data []byte) string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return ""
	}
	return env.Message
}

// flexID tolerates the backend's two id spellings: JSON strings and raw
// numbers both decode to the string form used as map keys client-side.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

func (f flexID) String() string { return string(f) }
