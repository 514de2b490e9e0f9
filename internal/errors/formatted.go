package errors

// FormattedError is the user-facing rendering of a raw integration failure.
// UserMessage is stable and never echoes provider internals; RecoveryHint is
// present only when a corrective action exists.
type FormattedError struct {
	Code         string `json:"code"`
	UserMessage  string `json:"userMessage"`
	RecoveryHint string `json:"recoveryHint,omitempty"`
}
