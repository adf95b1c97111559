package clientcli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kmehta/imagebin"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// Client performs operations against an imagebin server.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	// Apply defaults
	cfg = cfg.WithDefaults()

	// Normalize endpoint URL (remove trailing slash)
	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")

	c := &Client{
		config: &Config{
			Endpoint: endpoint,
			UserID:   cfg.UserID,
		},
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Upload reads a local file, base64 encodes it, and uploads it under the
// configured user id.
func (c *Client) Upload(ctx context.Context, opts UploadOptions) (UploadResult, error) {
	if opts.LocalPath == "" {
		return UploadResult{}, fmt.Errorf("upload: %w", ErrEmptyPath)
	}
	if err := c.config.Validate(); err != nil {
		return UploadResult{}, fmt.Errorf("upload: %w", err)
	}

	data, err := os.ReadFile(opts.LocalPath) //#nosec G304 -- localPath is user-provided input
	if err != nil {
		return UploadResult{}, fmt.Errorf("read file: %w", err)
	}

	reqBody := uploadRequest{
		UserID:      c.config.UserID,
		Filename:    filepath.Base(opts.LocalPath),
		ImageData:   base64.StdEncoding.EncodeToString(data),
		Title:       opts.Title,
		Description: opts.Description,
		Tags:        opts.Tags,
	}

	body, err := c.doJSON(ctx, http.MethodPost, "/images", reqBody, http.StatusCreated)
	if err != nil {
		return UploadResult{}, err
	}

	var resp uploadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return UploadResult{}, fmt.Errorf("parse response: %w", err)
	}

	return UploadResult{
		LocalPath: opts.LocalPath,
		ImageID:   resp.ImageID,
		Metadata:  resp.Metadata,
	}, nil
}

// List fetches images matching the given filters.
func (c *Client) List(ctx context.Context, opts ListOptions) (*imagebin.ListResult, error) {
	query := url.Values{}
	if opts.OwnerID != "" {
		query.Set("user_id", opts.OwnerID)
	}
	if opts.Tags != "" {
		query.Set("tags", opts.Tags)
	}
	if opts.DateFrom != "" {
		query.Set("date_from", opts.DateFrom)
	}
	if opts.DateTo != "" {
		query.Set("date_to", opts.DateTo)
	}
	if opts.Title != "" {
		query.Set("title", opts.Title)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	path := "/images"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	body, err := c.doJSON(ctx, http.MethodGet, path, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var result imagebin.ListResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return &result, nil
}

// View fetches an image's metadata without its content.
func (c *Client) View(ctx context.Context, imageID string) (imagebin.ImageRecord, error) {
	path := "/images/" + url.PathEscape(imageID) + "?metadata_only=true"

	body, err := c.doJSON(ctx, http.MethodGet, path, nil, http.StatusOK)
	if err != nil {
		return imagebin.ImageRecord{}, err
	}

	var resp viewResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return imagebin.ImageRecord{}, fmt.Errorf("parse response: %w", err)
	}

	return resp.Metadata, nil
}

// Download fetches an image's raw bytes.
// If opts.LocalPath is "-", the content is returned via the io.ReadCloser and must be closed by the caller.
// Otherwise, the content is written to the file and the io.ReadCloser is nil.
func (c *Client) Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, io.ReadCloser, error) {
	if opts.ImageID == "" {
		return nil, nil, fmt.Errorf("download: %w", ErrNoIDs)
	}

	reqURL := c.config.Endpoint + "/images/" + url.PathEscape(opts.ImageID) + "?download=true"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, nil, parseServerError(resp.StatusCode, body)
	}

	filename := filenameFromHeader(resp.Header.Get("Content-Disposition"))
	result := &DownloadResult{
		ImageID:     opts.ImageID,
		Filename:    filename,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}

	// If stdout requested, return the body for the caller to handle
	if opts.LocalPath == "-" {
		result.LocalPath = "-"
		return result, resp.Body, nil
	}

	// Determine local path
	localPath := opts.LocalPath
	if localPath == "" {
		localPath = filename
		if localPath == "" {
			localPath = opts.ImageID
		}
	}
	result.LocalPath = localPath

	// Create parent directories if needed
	dir := filepath.Dir(localPath)
	if dir != "" && dir != "." {
		if mkdirErr := os.MkdirAll(dir, 0o750); mkdirErr != nil {
			_ = resp.Body.Close()
			return nil, nil, fmt.Errorf("create directory: %w", mkdirErr)
		}
	}

	// Create the file
	file, createErr := os.Create(localPath) //#nosec G304 -- localPath is user-provided input
	if createErr != nil {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("create file: %w", createErr)
	}

	// Copy content to file
	written, copyErr := io.Copy(file, resp.Body)
	_ = resp.Body.Close()
	if copyErr != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf("write file: %w", copyErr)
	}

	if closeErr := file.Close(); closeErr != nil {
		return nil, nil, fmt.Errorf("close file: %w", closeErr)
	}

	result.Size = written
	return result, nil, nil
}

// Delete deletes one or more images owned by the configured user.
// Continues on error, collecting results for all ids.
func (c *Client) Delete(ctx context.Context, opts DeleteOptions) ([]DeleteResult, error) {
	if len(opts.ImageIDs) == 0 {
		return nil, ErrNoIDs
	}
	if err := c.config.Validate(); err != nil {
		return nil, fmt.Errorf("delete: %w", err)
	}

	results := make([]DeleteResult, 0, len(opts.ImageIDs))

	for _, id := range opts.ImageIDs {
		// Check context cancellation
		if err := ctx.Err(); err != nil {
			return results, err
		}

		results = append(results, c.deleteSingle(ctx, id))
	}

	return results, nil
}

// deleteSingle deletes a single image.
func (c *Client) deleteSingle(ctx context.Context, imageID string) DeleteResult {
	path := "/images/" + url.PathEscape(imageID)
	reqBody := struct {
		UserID string `json:"user_id"`
	}{UserID: c.config.UserID}

	body, err := c.doJSON(ctx, http.MethodDelete, path, reqBody, http.StatusOK)
	if err != nil {
		return DeleteResult{ImageID: imageID, Deleted: false, Err: err}
	}

	var resp deleteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return DeleteResult{ImageID: imageID, Deleted: false, Err: fmt.Errorf("parse response: %w", err)}
	}

	return DeleteResult{ImageID: imageID, Deleted: true}
}

// HasDeleteErrors returns true if any delete operation failed.
func HasDeleteErrors(results []DeleteResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// doJSON sends a request with an optional JSON body and returns the
// response body when the status matches wantStatus.
func (c *Client) doJSON(ctx context.Context, method, path string, reqBody any, wantStatus int) ([]byte, error) {
	var bodyReader io.Reader = http.NoBody
	if reqBody != nil {
		encoded, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.Endpoint+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		return nil, parseServerError(resp.StatusCode, body)
	}

	return body, nil
}

// filenameFromHeader extracts the filename from a Content-Disposition header.
func filenameFromHeader(header string) string {
	if header == "" {
		return ""
	}

	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}

// parseServerError extracts error message from server response.
func parseServerError(statusCode int, body []byte) error {
	return &APIError{
		StatusCode: statusCode,
		Body:       string(body),
	}
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Body
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// IsNotFound returns true if the error is a 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound is returned when the requested image does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrForbidden is returned when deleting an image owned by someone else (403).
	ErrForbidden = &APIError{StatusCode: http.StatusForbidden}

	// ErrBadRequest is returned when the server rejects the input (400).
	ErrBadRequest = &APIError{StatusCode: http.StatusBadRequest}
)
