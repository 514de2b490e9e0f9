// Package api provides the HTTP client for the demoforge dashboard API
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"demoforge/internal/constants"
)

// Client represents the HTTP client for the dashboard server API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new dashboard API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: constants.DefaultHTTPClientTimeout,
		},
	}
}

// SystemStatus is the dashboard status report
type SystemStatus struct {
	Status       string `json:"status"`
	Uptime       string `json:"uptime"`
	Database     string `json:"database"`
	ProjectCount int    `json:"project_count"`
}

// ProjectInfo represents project information from the API
type ProjectInfo struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Path       string          `json:"path"`
	Status     string          `json:"status"`
	Components []ComponentInfo `json:"components"`
}

// ComponentInfo represents a project component from the API
type ComponentInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Port   int    `json:"port,omitempty"`
	PID    int32  `json:"pid,omitempty"`
	Status string `json:"status,omitempty"`
}

// Health checks whether the server is up
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.get(ctx, "/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// GetStatus fetches the dashboard system status
func (c *Client) GetStatus(ctx context.Context) (*SystemStatus, error) {
	resp, err := c.get(ctx, "/api/status")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var status SystemStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &status, nil
}

// GetProjects lists all projects
func (c *Client) GetProjects(ctx context.Context) ([]*ProjectInfo, error) {
	resp, err := c.get(ctx, "/api/projects")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var response struct {
		Projects []*ProjectInfo `json:"projects"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return response.Projects, nil
}

// StartProject starts the named project's demo frontend
func (c *Client) StartProject(ctx context.Context, name string) error {
	return c.lifecycle(ctx, http.MethodPost, fmt.Sprintf("/api/projects/%s/start", name), "start")
}

// StopProject stops the named project's demo frontend
func (c *Client) StopProject(ctx context.Context, name string) error {
	return c.lifecycle(ctx, http.MethodPost, fmt.Sprintf("/api/projects/%s/stop", name), "stop")
}

// DeleteProject deletes the named project
func (c *Client) DeleteProject(ctx context.Context, name string) error {
	return c.lifecycle(ctx, http.MethodDelete, fmt.Sprintf("/api/projects/%s", name), "delete")
}

func (c *Client) lifecycle(ctx context.Context, method, path, action string) error {
	resp, err := c.do(ctx, method, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to %s project: %s", action, string(body))
	}
	return nil
}

// Internal HTTP methods

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
