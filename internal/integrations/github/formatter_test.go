package github

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"demoforge/internal/errors"
)

func TestFormatError_RateLimited(t *testing.T) {
	err := errors.New(errors.ErrRateLimited, "GitHub rate limit exceeded")

	formatted := FormatError(err)

	assert.Regexp(t, regexp.MustCompile(`(?i)too many requests|try again later`), formatted.UserMessage)
	assert.Regexp(t, regexp.MustCompile(`(?i)wait|minute`), formatted.RecoveryHint)
}

func TestFormatError_NeverMentionsOAuth(t *testing.T) {
	codes := []errors.ErrorCode{
		errors.ErrOAuthCancelled,
		errors.ErrRepoExists,
		errors.ErrAuthExpired,
		errors.ErrRateLimited,
		errors.ErrAccessDenied,
		errors.ErrNetworkError,
		errors.ErrServiceUnavailable,
		errors.ErrUnknown,
	}

	for _, code := range codes {
		formatted := FormatError(errors.New(code, "raw provider text"))
		assert.NotContains(t, formatted.UserMessage, "OAuth",
			"user message for %s must not leak auth internals", code)
	}
}

func TestFormatError_KnownCodes(t *testing.T) {
	tests := []struct {
		code        errors.ErrorCode
		wantMessage string
		wantHint    bool
	}{
		{errors.ErrOAuthCancelled, "cancelled", true},
		{errors.ErrRepoExists, "already exists", true},
		{errors.ErrAuthExpired, "expired", true},
		{errors.ErrAccessDenied, "permission", true},
		{errors.ErrNetworkError, "reach", true},
		{errors.ErrServiceUnavailable, "unavailable", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			formatted := FormatError(errors.New(tt.code, "raw"))
			assert.Contains(t, strings.ToLower(formatted.UserMessage), tt.wantMessage)
			if tt.wantHint {
				assert.NotEmpty(t, formatted.RecoveryHint)
			}
		})
	}
}

func TestFormatError_UnknownFallsBackWithoutThrowing(t *testing.T) {
	formatted := FormatError(fmt.Errorf("some opaque failure"))

	assert.Equal(t, string(errors.ErrUnknown), formatted.Code)
	assert.NotEmpty(t, formatted.UserMessage)
	assert.NotContains(t, formatted.UserMessage, "opaque failure",
		"raw error text must never surface to the user")
}

func TestFormatError_FallsBackToHTTPStatus(t *testing.T) {
	err := errors.New("", "raw provider failure")
	err.HTTPStatus = 429

	formatted := FormatError(err)
	assert.Equal(t, string(errors.ErrRateLimited), formatted.Code)

	err = errors.New("", "raw provider failure")
	err.HTTPStatus = 503

	formatted = FormatError(err)
	assert.Equal(t, string(errors.ErrServiceUnavailable), formatted.Code)
}
