// Package validation guards every untrusted value that reaches a shell
// command or the filesystem. Validation here is a security boundary, not
// just input hygiene: several values are interpolated into external CLI
// invocations.
package validation

import (
	"path/filepath"
	"regexp"
	"strings"

	"demoforge/internal/constants"
	"demoforge/internal/errors"
)

var (
	// projectNameRegex validates project and component names
	projectNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

	// nodeVersionRegex is the strict allow-list for Node version strings.
	// Anything outside digits, dots and an optional leading "v" is rejected,
	// which covers every shell metacharacter and embedded space.
	nodeVersionRegex = regexp.MustCompile(`^v?[0-9]+(\.[0-9]+){0,2}$`)

	// meshIDRegex validates mesh identifiers extracted from CLI output
	meshIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*$`)

	// safeStringRegex matches strings that are safe for shell use without escaping
	safeStringRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-./=]+$`)
)

// ProjectName validates a project or component name to prevent injection
func ProjectName(name string) error {
	if name == "" {
		return errors.ValidationFailed("project_name", name, "cannot be empty")
	}

	if len(name) > 100 {
		return errors.ValidationFailed("project_name", name, "too long (max 100 characters)")
	}

	if !projectNameRegex.MatchString(name) {
		return errors.ValidationFailed("project_name", name, "must start with an alphanumeric character and contain only letters, numbers, dots, dashes and underscores")
	}

	return nil
}

// PortNumber validates a single port number
func PortNumber(port int) error {
	if port < constants.MinPortNumber || port > constants.MaxPortNumber {
		return errors.InvalidPort(port, "must be between 1 and 65535")
	}
	return nil
}

// IsValidPort reports whether a port is inside the valid TCP range
func IsValidPort(port int) bool {
	return port >= constants.MinPortNumber && port <= constants.MaxPortNumber
}

// NodeVersion validates a Node version string against the strict allow-list.
// The value is later interpolated into version-manager and package-manager
// invocations, so rejection happens before any external effect.
func NodeVersion(version string) error {
	if version == "" {
		return errors.InvalidNodeVersion(version)
	}

	if !nodeVersionRegex.MatchString(version) {
		return errors.InvalidNodeVersion(version)
	}

	return nil
}

// MeshID validates a mesh identifier parsed out of mesh CLI output
func MeshID(id string) error {
	if id == "" {
		return errors.ValidationFailed("mesh_id", id, "cannot be empty")
	}

	if !meshIDRegex.MatchString(id) {
		return errors.ValidationFailed("mesh_id", id, "contains characters outside the mesh identifier alphabet")
	}

	return nil
}

// Path validates and cleans a file path to prevent traversal attacks
func Path(path string) (string, error) {
	if path == "" {
		return "", errors.InvalidPath(path, "cannot be empty")
	}

	// Clean the path to prevent traversal
	cleaned := filepath.Clean(path)

	if strings.HasPrefix(cleaned, "../") || cleaned == ".." || strings.Contains(cleaned, "/../") {
		return "", errors.InvalidPath(path, "path traversal detected")
	}

	if strings.Contains(path, "../") {
		return "", errors.InvalidPath(path, "path traversal detected")
	}

	return cleaned, nil
}

// NonEmptyString validates that a string is not empty or only whitespace
func NonEmptyString(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.ValidationFailed("string", s, "cannot be empty or only whitespace")
	}
	return nil
}

// ShellEscape escapes a string for safe use in shell commands
func ShellEscape(s string) string {
	// If the string is simple (alphanumeric + safe chars), return as-is
	if safeStringRegex.MatchString(s) {
		return s
	}

	// Otherwise, wrap in single quotes and escape any single quotes
	return "'" + strings.ReplaceAll(s, "'", "'\"'\"'") + "'"
}

// SanitizeCommandArgs escapes shell arguments to prevent injection
func SanitizeCommandArgs(args []string) []string {
	sanitized := make([]string, len(args))
	for i, arg := range args {
		sanitized[i] = ShellEscape(arg)
	}
	return sanitized
}
