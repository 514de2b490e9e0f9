package dalive

import "demoforge/internal/errors"

// FormatError renders a DA.live failure for the user
func FormatError(err error) errors.FormattedError {
	switch errors.GetCode(err) {
	case errors.ErrAuthExpired:
		return errors.FormattedError{
			Code:         string(errors.ErrAuthExpired),
			UserMessage:  "Your content-authoring session has expired.",
			RecoveryHint: "Sign in to DA.live again.",
		}
	case errors.ErrAccessDenied:
		return errors.FormattedError{
			Code:         string(errors.ErrAccessDenied),
			UserMessage:  "You don't have permission to manage content for this site.",
			RecoveryHint: "Ask an organization admin to grant you access.",
		}
	case errors.ErrRateLimited:
		return errors.FormattedError{
			Code:         string(errors.ErrRateLimited),
			UserMessage:  "The content service is receiving too many requests. Please try again later.",
			RecoveryHint: "Wait a few minutes before retrying.",
		}
	case errors.ErrServiceUnavailable:
		return errors.FormattedError{
			Code:         string(errors.ErrServiceUnavailable),
			UserMessage:  "The content service is temporarily unavailable.",
			RecoveryHint: "Try again in a few minutes.",
		}
	case errors.ErrNetworkError:
		return errors.FormattedError{
			Code:         string(errors.ErrNetworkError),
			UserMessage:  "Could not reach the content service.",
			RecoveryHint: "Check your network connection and try again.",
		}
	default:
		return errors.FormattedError{
			Code:        string(errors.ErrUnknown),
			UserMessage: "Something went wrong while setting up site content.",
		}
	}
}
