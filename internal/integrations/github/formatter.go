package github

import "demoforge/internal/errors"

// FormatError renders a GitHub failure for the user. Classification is
// by error code, with the HTTP status as fallback when no code is
// attached. User messages are stable wording and never echo provider
// internals such as auth-protocol names or raw API text.
func FormatError(err error) errors.FormattedError {
	code := errors.GetCode(err)
	if code == "" || code == errors.ErrUnknown {
		code = codeFromStatus(err)
	}

	switch code {
	case errors.ErrOAuthCancelled:
		return errors.FormattedError{
			Code:        string(code),
			UserMessage: "Sign-in was cancelled before it completed.",
			RecoveryHint: "Run the setup again and complete the sign-in " +
				"prompt in your browser.",
		}
	case errors.ErrRepoExists:
		return errors.FormattedError{
			Code:         string(code),
			UserMessage:  "A repository with this name already exists on your account.",
			RecoveryHint: "Choose a different project name or delete the existing repository.",
		}
	case errors.ErrAuthExpired:
		return errors.FormattedError{
			Code:         string(code),
			UserMessage:  "Your GitHub session has expired.",
			RecoveryHint: "Sign in to GitHub again.",
		}
	case errors.ErrRateLimited:
		return errors.FormattedError{
			Code:         string(code),
			UserMessage:  "GitHub is receiving too many requests from your account. Please try again later.",
			RecoveryHint: "Wait a few minutes before retrying.",
		}
	case errors.ErrAccessDenied:
		return errors.FormattedError{
			Code:         string(code),
			UserMessage:  "You don't have permission to perform this action on GitHub.",
			RecoveryHint: "Check that your account has access to the organization or repository.",
		}
	case errors.ErrNetworkError:
		return errors.FormattedError{
			Code:         string(code),
			UserMessage:  "Could not reach GitHub.",
			RecoveryHint: "Check your network connection and try again.",
		}
	case errors.ErrServiceUnavailable:
		return errors.FormattedError{
			Code:         string(code),
			UserMessage:  "GitHub is temporarily unavailable.",
			RecoveryHint: "Try again in a few minutes.",
		}
	default:
		return errors.FormattedError{
			Code:        string(errors.ErrUnknown),
			UserMessage: "Something went wrong while talking to GitHub.",
		}
	}
}

// codeFromStatus maps an attached HTTP status onto the taxonomy when the
// error carries no code of its own
func codeFromStatus(err error) errors.ErrorCode {
	dfErr, ok := err.(*errors.DemoforgeError)
	if !ok || dfErr.HTTPStatus == 0 {
		return errors.ErrUnknown
	}

	switch {
	case dfErr.HTTPStatus == 401:
		return errors.ErrAuthExpired
	case dfErr.HTTPStatus == 403:
		return errors.ErrAccessDenied
	case dfErr.HTTPStatus == 429:
		return errors.ErrRateLimited
	case dfErr.HTTPStatus >= 500:
		return errors.ErrServiceUnavailable
	default:
		return errors.ErrUnknown
	}
}
