// Package dalive provisions document-authoring content for a demo site.
// Content copy is the only fatal step; permissions, block library, org
// settings, and cache purge are best-effort and only log warnings.
package dalive

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

const apiBaseURL = "https://admin.da.live"

// HTTPClient abstracts HTTP operations for testing
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config identifies the target site and the content to seed it with
type Config struct {
	Org           string
	Site          string
	TemplateOrg   string
	TemplateSite  string
	Collaborators []string
}

// Client talks to the DA.live admin API
type Client struct {
	httpClient HTTPClient
	baseURL    string
	token      string
}

// NewClient creates a DA.live client with the given access token
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
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

// EnsureContent makes sure the site has authoring content, copying it
// from the template when absent. Returns true when content was newly
// created, false when it already existed. Only the content copy itself
// can fail the call; the remaining sub-steps degrade to warnings.
func (c *Client) EnsureContent(ctx context.Context, cfg Config) (bool, error) {
	exists, err := c.contentExists(ctx, cfg)
	if err != nil {
		return false, err
	}
	if exists {
		logger.WithFields(logger.Fields{
			"org":  cfg.Org,
			"site": cfg.Site,
		}).Info("DA.live content already present, skipping copy")
		return false, nil
	}

	if err := c.copyContent(ctx, cfg); err != nil {
		return false, err
	}

	// Best-effort sub-steps. Each failure is logged and skipped so a
	// partially restricted account still ends up with usable content.
	if err := c.setupPermissions(ctx, cfg); err != nil {
		logger.WithError(err).Warn("Failed to set up content permissions")
	}
	if err := c.createBlockLibrary(ctx, cfg); err != nil {
		logger.WithError(err).Warn("Failed to create block library")
	}
	if err := c.applyOrgSettings(ctx, cfg); err != nil {
		logger.WithError(err).Warn("Failed to apply organization settings")
	}
	if err := c.purgeCache(ctx, cfg); err != nil {
		logger.WithError(err).Warn("Failed to purge content cache")
	}

	return true, nil
}

func (c *Client) contentExists(ctx context.Context, cfg Config) (bool, error) {
	url := fmt.Sprintf("%s/list/%s/%s/", c.baseURL, cfg.Org, cfg.Site)
	resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var entries []json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
			return false, errors.Wrap(errors.ErrNetworkError, "Failed to decode content listing", err)
		}
		return len(entries) > 0, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, classifyResponse(resp)
	}
}

func (c *Client) copyContent(ctx context.Context, cfg Config) error {
	body, err := json.Marshal(map[string]string{
		"destination": fmt.Sprintf("/%s/%s/", cfg.Org, cfg.Site),
	})
	if err != nil {
		return errors.InternalError("marshal copy request", err)
	}

	url := fmt.Sprintf("%s/copy/%s/%s/", c.baseURL, cfg.TemplateOrg, cfg.TemplateSite)
	resp, err := c.do(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return classifyResponse(resp)
	}

	logger.WithFields(logger.Fields{
		"org":  cfg.Org,
		"site": cfg.Site,
	}).Info("DA.live content copied from template")
	return nil
}

func (c *Client) setupPermissions(ctx context.Context, cfg Config) error {
	body, err := json.Marshal(map[string]interface{}{
		"collaborators": cfg.Collaborators,
	})
	if err != nil {
		return errors.InternalError("marshal permissions request", err)
	}

	url := fmt.Sprintf("%s/config/%s/%s/permissions", c.baseURL, cfg.Org, cfg.Site)
	return c.postExpectOK(ctx, url, bytes.NewReader(body))
}

func (c *Client) createBlockLibrary(ctx context.Context, cfg Config) error {
	url := fmt.Sprintf("%s/source/%s/%s/library/blocks.json", c.baseURL, cfg.Org, cfg.Site)
	return c.postExpectOK(ctx, url, nil)
}

func (c *Client) applyOrgSettings(ctx context.Context, cfg Config) error {
	url := fmt.Sprintf("%s/config/%s/", c.baseURL, cfg.Org)
	return c.postExpectOK(ctx, url, nil)
}

func (c *Client) purgeCache(ctx context.Context, cfg Config) error {
	url := fmt.Sprintf("%s/cache/%s/%s/", c.baseURL, cfg.Org, cfg.Site)
	resp, err := c.do(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return classifyResponse(resp)
	}
	return nil
}

func (c *Client) postExpectOK(ctx context.Context, url string, body io.Reader) error {
	resp, err := c.do(ctx, http.MethodPost, url, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return classifyResponse(resp)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.InternalError("build request", err)
	}

	req.Header.Set("User-Agent", "demoforge")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrNetworkError, "DA.live request failed", err)
	}
	return resp, nil
}

func classifyResponse(resp *http.Response) *errors.DemoforgeError {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := fmt.Sprintf("Status: %d", resp.StatusCode)

	logger.WithFields(logger.Fields{
		"status": resp.StatusCode,
		"body":   string(payload),
	}).Debug("DA.live API error response")

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return errors.NewWithDetails(errors.ErrAuthExpired, "DA.live authentication expired", detail)
	case resp.StatusCode == http.StatusForbidden:
		return errors.NewWithDetails(errors.ErrAccessDenied, "DA.live denied access", detail)
	case resp.StatusCode == http.StatusTooManyRequests:
		return errors.NewWithDetails(errors.ErrRateLimited, "DA.live rate limit exceeded", detail)
	case resp.StatusCode >= 500:
		return errors.NewWithDetails(errors.ErrServiceUnavailable, "DA.live is unavailable", detail)
	default:
		return errors.NewWithDetails(errors.ErrNetworkError, "Unexpected DA.live response", detail)
	}
}
