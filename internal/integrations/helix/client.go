// Package helix registers a site with the Helix admin service and waits
// for the code-sync service to pick up the repository.
package helix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"demoforge/internal/constants"
	"demoforge/internal/errors"
	"demoforge/internal/logger"
)

const apiBaseURL = "https://admin.hlx.page"

// HTTPClient abstracts HTTP operations for testing
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// SiteConfig describes a Helix site bound to a GitHub repository
type SiteConfig struct {
	Org     string
	Site    string
	RepoURL string
}

// Client talks to the Helix admin API
type Client struct {
	httpClient   HTTPClient
	baseURL      string
	token        string
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// NewClient creates a Helix client with the given access token
func NewClient(token string) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		baseURL:      apiBaseURL,
		token:        token,
		pollInterval: constants.CodeSyncPollInterval,
		pollTimeout:  constants.CodeSyncTimeout,
	}
}

// NewClientWithHTTP creates a client with a custom HTTP client, base URL,
// and poll timing, used by tests
func NewClientWithHTTP(token, baseURL string, httpClient HTTPClient, pollInterval, pollTimeout time.Duration) *Client {
	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		token:        token,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
	}
}

// ConfigureSite registers the site configuration and verifies it was
// stored by reading it back
func (c *Client) ConfigureSite(ctx context.Context, cfg SiteConfig) error {
	body, err := json.Marshal(map[string]interface{}{
		"code": map[string]string{
			"owner":  cfg.Org,
			"repo":   cfg.Site,
			"source": cfg.RepoURL,
		},
	})
	if err != nil {
		return errors.InternalError("marshal site config", err)
	}

	url := c.configURL(cfg)
	resp, err := c.do(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return classifyResponse(resp)
	}

	// Read the config back; a write that does not verify is treated as
	// a failure so later phases never run against a half-configured site.
	verify, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	defer verify.Body.Close()

	if verify.StatusCode != http.StatusOK {
		return errors.NewWithDetails(errors.ErrServiceUnavailable,
			"Site configuration did not verify",
			fmt.Sprintf("Status: %d", verify.StatusCode))
	}

	logger.WithFields(logger.Fields{
		"org":  cfg.Org,
		"site": cfg.Site,
	}).Info("Helix site configured")
	return nil
}

// WaitForCodeSync polls until the code-sync service reports the site's
// code as available or the timeout elapses. On timeout the returned
// error carries ErrTimeout so the caller can run its app-installation
// diagnosis before surfacing the failure.
func (c *Client) WaitForCodeSync(ctx context.Context, cfg SiteConfig) error {
	deadline := time.Now().Add(c.pollTimeout)
	url := fmt.Sprintf("%s/code/%s/%s/main", c.baseURL, cfg.Org, cfg.Site)

	for {
		synced, err := c.checkCodeSync(ctx, url)
		if err != nil {
			return err
		}
		if synced {
			logger.WithFields(logger.Fields{
				"org":  cfg.Org,
				"site": cfg.Site,
			}).Info("Code sync verified")
			return nil
		}

		if time.Now().After(deadline) {
			return errors.TimeoutError("code sync", c.pollTimeout)
		}

		select {
		case <-ctx.Done():
			return errors.Wrap(errors.ErrCancelled, "Code sync wait cancelled", ctx.Err())
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) checkCodeSync(ctx context.Context, url string) (bool, error) {
	resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 500:
		// The sync service flaps while a new repo propagates; treat
		// server errors during the poll as not-yet-synced.
		return false, nil
	default:
		return false, classifyResponse(resp)
	}
}

func (c *Client) configURL(cfg SiteConfig) string {
	return fmt.Sprintf("%s/config/%s/sites/%s.json", c.baseURL, cfg.Org, cfg.Site)
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.InternalError("build request", err)
	}

	req.Header.Set("User-Agent", "demoforge")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrNetworkError, "Helix request failed", err)
	}
	return resp, nil
}

func classifyResponse(resp *http.Response) *errors.DemoforgeError {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := fmt.Sprintf("Status: %d", resp.StatusCode)

	logger.WithFields(logger.Fields{
		"status": resp.StatusCode,
		"body":   string(payload),
	}).Debug("Helix API error response")

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return errors.NewWithDetails(errors.ErrAuthExpired, "Helix authentication expired", detail)
	case resp.StatusCode == http.StatusForbidden:
		return errors.NewWithDetails(errors.ErrAccessDenied, "Helix denied access", detail)
	case resp.StatusCode == http.StatusTooManyRequests:
		return errors.NewWithDetails(errors.ErrRateLimited, "Helix rate limit exceeded", detail)
	case resp.StatusCode >= 500:
		return errors.NewWithDetails(errors.ErrServiceUnavailable, "Helix is unavailable", detail)
	default:
		return errors.NewWithDetails(errors.ErrNetworkError, "Unexpected Helix response", detail)
	}
}
