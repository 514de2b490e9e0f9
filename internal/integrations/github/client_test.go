package github

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"demoforge/internal/errors"
)

type stubHTTPClient struct {
	resp *http.Response
	err  error
	req  *http.Request
}

func (s *stubHTTPClient) Do(req *http.Request) (*http.Response, error) {
	s.req = req
	return s.resp, s.err
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

func TestCreateFromTemplate_Success(t *testing.T) {
	stub := &stubHTTPClient{
		resp: jsonResponse(http.StatusCreated, `{
			"name": "my-demo",
			"full_name": "acme/my-demo",
			"html_url": "https://github.com/acme/my-demo",
			"clone_url": "https://github.com/acme/my-demo.git"
		}`),
	}
	client := NewClientWithHTTP("token", "https://api.example.test", stub)

	repo, err := client.CreateFromTemplate(context.Background(), "tmpl-org", "storefront-template", "acme", "my-demo")
	require.NoError(t, err)

	assert.Equal(t, "acme/my-demo", repo.FullName)
	assert.Equal(t, "https://github.com/acme/my-demo.git", repo.CloneURL)
	assert.Equal(t, http.MethodPost, stub.req.Method)
	assert.Contains(t, stub.req.URL.String(), "/repos/tmpl-org/storefront-template/generate")
	assert.Equal(t, "Bearer token", stub.req.Header.Get("Authorization"))
}

func TestCreateFromTemplate_RepoExists(t *testing.T) {
	stub := &stubHTTPClient{
		resp: jsonResponse(http.StatusUnprocessableEntity, `{"message": "Name already exists on this account"}`),
	}
	client := NewClientWithHTTP("token", "https://api.example.test", stub)

	_, err := client.CreateFromTemplate(context.Background(), "tmpl-org", "tmpl", "acme", "taken")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrRepoExists))
}

func TestCreateFromTemplate_RateLimited(t *testing.T) {
	resp := jsonResponse(http.StatusForbidden, `{"message": "API rate limit exceeded"}`)
	resp.Header.Set("X-RateLimit-Remaining", "0")
	client := NewClientWithHTTP("token", "https://api.example.test", &stubHTTPClient{resp: resp})

	_, err := client.CreateFromTemplate(context.Background(), "tmpl-org", "tmpl", "acme", "demo")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrRateLimited))
}

func TestCreateFromTemplate_AuthExpired(t *testing.T) {
	client := NewClientWithHTTP("token", "https://api.example.test", &stubHTTPClient{
		resp: jsonResponse(http.StatusUnauthorized, `{"message": "Bad credentials"}`),
	})

	_, err := client.CreateFromTemplate(context.Background(), "tmpl-org", "tmpl", "acme", "demo")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAuthExpired))
}

func TestIsAppInstalled(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"installed", http.StatusOK, true},
		{"not installed", http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClientWithHTTP("token", "https://api.example.test", &stubHTTPClient{
				resp: jsonResponse(tt.status, `{}`),
			})

			installed, err := client.IsAppInstalled(context.Background(), "acme", "my-demo")
			require.NoError(t, err)
			assert.Equal(t, tt.want, installed)
		})
	}
}

func TestIsAppInstalled_ServerError(t *testing.T) {
	client := NewClientWithHTTP("token", "https://api.example.test", &stubHTTPClient{
		resp: jsonResponse(http.StatusBadGateway, `{}`),
	})

	_, err := client.IsAppInstalled(context.Background(), "acme", "my-demo")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrServiceUnavailable))
}
