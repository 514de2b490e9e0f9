package helix

import "demoforge/internal/errors"

// FormatError renders a Helix failure for the user
func FormatError(err error) errors.FormattedError {
	switch errors.GetCode(err) {
	case errors.ErrAuthExpired:
		return errors.FormattedError{
			Code:         string(errors.ErrAuthExpired),
			UserMessage:  "Your site-admin session has expired.",
			RecoveryHint: "Sign in again and rerun the setup.",
		}
	case errors.ErrAccessDenied:
		return errors.FormattedError{
			Code:         string(errors.ErrAccessDenied),
			UserMessage:  "You don't have permission to configure this site.",
			RecoveryHint: "Check that your account can administer the site's organization.",
		}
	case errors.ErrRateLimited:
		return errors.FormattedError{
			Code:         string(errors.ErrRateLimited),
			UserMessage:  "The site service is receiving too many requests. Please try again later.",
			RecoveryHint: "Wait a few minutes before retrying.",
		}
	case errors.ErrServiceUnavailable:
		return errors.FormattedError{
			Code:         string(errors.ErrServiceUnavailable),
			UserMessage:  "The site service is temporarily unavailable.",
			RecoveryHint: "Try again in a few minutes.",
		}
	case errors.ErrTimeout:
		return errors.FormattedError{
			Code:         string(errors.ErrTimeout),
			UserMessage:  "The site's code did not sync in time.",
			RecoveryHint: "Verify the code-sync app is installed on the repository, then retry.",
		}
	case errors.ErrNetworkError:
		return errors.FormattedError{
			Code:         string(errors.ErrNetworkError),
			UserMessage:  "Could not reach the site service.",
			RecoveryHint: "Check your network connection and try again.",
		}
	default:
		return errors.FormattedError{
			Code:        string(errors.ErrUnknown),
			UserMessage: "Something went wrong while configuring the site.",
		}
	}
}
