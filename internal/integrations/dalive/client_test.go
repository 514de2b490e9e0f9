package dalive

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"demoforge/internal/errors"
)

// routedHTTPClient dispatches by method+path prefix so one stub covers
// the whole EnsureContent flow.
type routedHTTPClient struct {
	routes   map[string]*http.Response
	requests []string
}

func (r *routedHTTPClient) Do(req *http.Request) (*http.Response, error) {
	key := req.Method + " " + req.URL.Path
	r.requests = append(r.requests, key)

	for prefix, resp := range r.routes {
		if strings.HasPrefix(key, prefix) {
			return resp, nil
		}
	}
	return jsonResponse(http.StatusOK, `{}`), nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

func testConfig() Config {
	return Config{
		Org:          "acme",
		Site:         "demo-store",
		TemplateOrg:  "templates",
		TemplateSite: "storefront",
	}
}

func TestEnsureContent_CopiesWhenAbsent(t *testing.T) {
	stub := &routedHTTPClient{routes: map[string]*http.Response{
		"GET /list/acme/demo-store/":       jsonResponse(http.StatusNotFound, `{}`),
		"POST /copy/templates/storefront/": jsonResponse(http.StatusCreated, `{}`),
	}}
	client := NewClientWithHTTP("token", "https://admin.example.test", stub)

	created, err := client.EnsureContent(context.Background(), testConfig())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Contains(t, stub.requests, "POST /copy/templates/storefront/")
}

func TestEnsureContent_SkipsWhenPresent(t *testing.T) {
	stub := &routedHTTPClient{routes: map[string]*http.Response{
		"GET /list/acme/demo-store/": jsonResponse(http.StatusOK, `[{"path": "/index"}]`),
	}}
	client := NewClientWithHTTP("token", "https://admin.example.test", stub)

	created, err := client.EnsureContent(context.Background(), testConfig())
	require.NoError(t, err)
	assert.False(t, created)

	for _, req := range stub.requests {
		assert.NotContains(t, req, "/copy/", "existing content must not be overwritten")
	}
}

func TestEnsureContent_CopyFailureIsFatal(t *testing.T) {
	stub := &routedHTTPClient{routes: map[string]*http.Response{
		"GET /list/acme/demo-store/":       jsonResponse(http.StatusNotFound, `{}`),
		"POST /copy/templates/storefront/": jsonResponse(http.StatusForbidden, `{}`),
	}}
	client := NewClientWithHTTP("token", "https://admin.example.test", stub)

	_, err := client.EnsureContent(context.Background(), testConfig())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAccessDenied))
}

func TestEnsureContent_SubStepFailuresAreNonFatal(t *testing.T) {
	stub := &routedHTTPClient{routes: map[string]*http.Response{
		"GET /list/acme/demo-store/":                       jsonResponse(http.StatusNotFound, `{}`),
		"POST /copy/templates/storefront/":                 jsonResponse(http.StatusOK, `{}`),
		"POST /config/acme/demo-store/permissions":         jsonResponse(http.StatusForbidden, `{}`),
		"POST /source/acme/demo-store/library/blocks.json": jsonResponse(http.StatusBadGateway, `{}`),
		"DELETE /cache/acme/demo-store/":                   jsonResponse(http.StatusServiceUnavailable, `{}`),
	}}
	client := NewClientWithHTTP("token", "https://admin.example.test", stub)

	created, err := client.EnsureContent(context.Background(), testConfig())
	require.NoError(t, err, "sub-step failures must not abort content setup")
	assert.True(t, created)

	// All sub-steps were still attempted despite earlier failures.
	assert.Contains(t, stub.requests, "POST /config/acme/demo-store/permissions")
	assert.Contains(t, stub.requests, "DELETE /cache/acme/demo-store/")
}

func TestFormatError_Unknown(t *testing.T) {
	formatted := FormatError(assert.AnError)

	assert.Equal(t, string(errors.ErrUnknown), formatted.Code)
	assert.NotEmpty(t, formatted.UserMessage)
}
