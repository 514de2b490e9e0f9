// Package github creates demo repositories from templates via the
// GitHub REST API and verifies the code-sync app installation.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"demoforge/internal/errors"
	"demoforge/internal/logger"
)

const apiBaseURL = "https://api.github.com"

// HTTPClient abstracts HTTP operations for testing
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Repository is the subset of the GitHub repository payload we consume
type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
	CloneURL string `json:"clone_url"`
	Private  bool   `json:"private"`
}

// Client talks to the GitHub REST API on behalf of one authenticated user
type Client struct {
	httpClient HTTPClient
	baseURL    string
	token      string
}

// NewClient creates a GitHub client with the given access token
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    apiBaseURL,
		token:      token,
	}
}

// NewClientWithHTTP creates a client with a custom HTTP client and base
// URL, used by tests
func NewClientWithHTTP(token, baseURL string, httpClient HTTPClient) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      token,
	}
}

// CreateFromTemplate creates a new repository from a template repo and
// returns the created repository
func (c *Client) CreateFromTemplate(ctx context.Context, templateOwner, templateRepo, owner, name string) (*Repository, error) {
	body, err := json.Marshal(map[string]interface{}{
		"owner":   owner,
		"name":    name,
		"private": true,
	})
	if err != nil {
		return nil, errors.InternalError("marshal template request", err)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/generate", c.baseURL, templateOwner, templateRepo)
	resp, err := c.do(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, classifyResponse(resp)
	}

	var repo Repository
	if err := json.NewDecoder(resp.Body).Decode(&repo); err != nil {
		return nil, errors.Wrap(errors.ErrNetworkError, "Failed to decode repository response", err)
	}

	logger.WithFields(logger.Fields{
		"repo":     repo.FullName,
		"template": templateOwner + "/" + templateRepo,
	}).Info("Repository created from template")

	return &repo, nil
}

// IsAppInstalled reports whether the code-sync GitHub App is installed
// on the repository
func (c *Client) IsAppInstalled(ctx context.Context, owner, repo string) (bool, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/installation", c.baseURL, owner, repo)
	resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, classifyResponse(resp)
	}
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.InternalError("build request", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "demoforge")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrNetworkError, "GitHub request failed", err)
	}
	return resp, nil
}

// classifyResponse maps a non-success GitHub response onto the stable
// error taxonomy. The response body goes to the logger only; formatters
// decide what the user sees.
func classifyResponse(resp *http.Response) *errors.DemoforgeError {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := fmt.Sprintf("Status: %d", resp.StatusCode)

	logger.WithFields(logger.Fields{
		"status": resp.StatusCode,
		"body":   string(payload),
	}).Debug("GitHub API error response")

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return errors.NewWithDetails(errors.ErrAuthExpired, "GitHub authentication expired", detail)
	case resp.StatusCode == http.StatusForbidden && rateLimited(resp):
		return errors.NewWithDetails(errors.ErrRateLimited, "GitHub rate limit exceeded", detail)
	case resp.StatusCode == http.StatusTooManyRequests:
		return errors.NewWithDetails(errors.ErrRateLimited, "GitHub rate limit exceeded", detail)
	case resp.StatusCode == http.StatusForbidden:
		return errors.NewWithDetails(errors.ErrAccessDenied, "GitHub denied access", detail)
	case resp.StatusCode == http.StatusUnprocessableEntity && bytes.Contains(payload, []byte("already exists")):
		return errors.NewWithDetails(errors.ErrRepoExists, "Repository already exists", detail)
	case resp.StatusCode >= 500:
		return errors.NewWithDetails(errors.ErrServiceUnavailable, "GitHub is unavailable", detail)
	default:
		return errors.NewWithDetails(errors.ErrNetworkError, "Unexpected GitHub response", detail)
	}
}

func rateLimited(resp *http.Response) bool {
	return resp.Header.Get("X-RateLimit-Remaining") == "0" ||
		resp.Header.Get("Retry-After") != ""
}
