// Package listing fetches a repository's complete file list from the stack
// analysis server.
package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrMissingRepoID is returned before any request when no repository ID is
// available to address the listing endpoint.
var ErrMissingRepoID = errors.New("repository id is required")

// Config holds client configuration. A zero Timeout leaves the transport
// default in place.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client calls the stack analysis API with bearer auth.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a client for the given server.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authToken:  cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// applyAuth adds the auth header to a request if a token is set.
func (c *Client) applyAuth(req *http.Request) {
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
}

// listResponse is the endpoint's envelope. Message explains a rejection,
// Files is the payload on success.
type listResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Files   []string `json:"files"`
}

// AllFiles returns every file path the server knows for the repository.
// The call fails fast when repoID is empty, issues exactly one request, and
// distinguishes transport failures (non-2xx, status code in the message)
// from application rejections (success=false, server message).
func (c *Client) AllFiles(ctx context.Context, repoID string) ([]string, error) {
	if repoID == "" {
		return nil, ErrMissingRepoID
	}

	endpoint := c.baseURL + "/api/stack-analysis/repository/" + url.PathEscape(repoID) + "/all-files"
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.applyAuth(req)

	c.logger.Debug("requesting file listing", zap.String("repository_id", repoID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list repository files: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("list repository files: server returned %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var payload listResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode file listing: %w", err)
	}
	if !payload.Success {
		message := payload.Message
		if message == "" {
			message = "file listing rejected by server"
		}
		return nil, fmt.Errorf("list repository files: %s", message)
	}

	c.logger.Debug("file listing received", zap.String("repository_id", repoID), zap.Int("files", len(payload.Files)))
	return payload.Files, nil
}
