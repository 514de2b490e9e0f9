package errors

import "fmt"

// Configuration Errors
func ConfigNotFound(path string) *DemoforgeError {
	return NewWithDetails(ErrConfigNotFound, "Configuration file not found", fmt.Sprintf("Path: %s", path))
}

func ConfigInvalid(reason string) *DemoforgeError {
	return NewWithDetails(ErrConfigInvalid, "Invalid configuration", reason)
}

func ConfigParseError(cause error) *DemoforgeError {
	return Wrap(ErrConfigParse, "Failed to parse configuration", cause)
}

// Project Errors
func ProjectNotFound(name string) *DemoforgeError {
	return NewWithDetails(ErrProjectNotFound, "Project not found", fmt.Sprintf("Project: %s", name))
}

func ProjectInvalidState(name, status string) *DemoforgeError {
	return NewWithDetails(ErrProjectInvalidState, "Project is not in a valid state for this operation",
		fmt.Sprintf("Project: %s, Status: %s", name, status))
}

func ComponentNotFound(id string) *DemoforgeError {
	return NewWithDetails(ErrComponentNotFound, "Component not found", fmt.Sprintf("Component: %s", id))
}

// Command Execution Errors
func CommandFailed(command string, cause error) *DemoforgeError {
	return WrapWithDetails(ErrCommandFailed, "Command execution failed",
		fmt.Sprintf("Command: %s", command), cause)
}

func CommandTimeout(command string, duration interface{}) *DemoforgeError {
	return NewWithDetails(ErrCommandTimeout, "Command timed out",
		fmt.Sprintf("Command: %s, Timeout: %v", command, duration))
}

// Process Errors
func ProcessKillFailed(pid int32, cause error) *DemoforgeError {
	return WrapWithDetails(ErrProcessKillFailed, "Failed to terminate process",
		fmt.Sprintf("PID: %d", pid), cause)
}

// Database Errors
func DatabaseConnectionError(cause error) *DemoforgeError {
	return Wrap(ErrDatabaseConnection, "Database connection failed", cause)
}

func DatabaseQueryError(query string, cause error) *DemoforgeError {
	return WrapWithDetails(ErrDatabaseQuery, "Database query failed",
		fmt.Sprintf("Query: %s", query), cause)
}

func DatabaseMigrationError(cause error) *DemoforgeError {
	return Wrap(ErrDatabaseMigration, "Database migration failed", cause)
}

// Validation Errors
func ValidationFailed(field, value, reason string) *DemoforgeError {
	return NewWithDetails(ErrValidationFailed, "Validation failed",
		fmt.Sprintf("Field: %s, Value: %s, Reason: %s", field, value, reason))
}

func InvalidInput(input, expected string) *DemoforgeError {
	return NewWithDetails(ErrInvalidInput, "Invalid input",
		fmt.Sprintf("Input: %s, Expected: %s", input, expected))
}

func InvalidPath(path, reason string) *DemoforgeError {
	return NewWithDetails(ErrInvalidPath, "Invalid path",
		fmt.Sprintf("Path: %s, Reason: %s", path, reason))
}

func InvalidPort(port interface{}, reason string) *DemoforgeError {
	return NewWithDetails(ErrInvalidPort, "Invalid port",
		fmt.Sprintf("Port: %v, Reason: %s", port, reason))
}

func InvalidNodeVersion(version string) *DemoforgeError {
	return NewWithDetails(ErrInvalidNodeVersion, "Invalid Node version",
		fmt.Sprintf("Version: %s", version))
}

// Mesh Errors
func MeshCreateFailed(cause error) *DemoforgeError {
	return Wrap(ErrMeshCreateFailed, "Failed to create API mesh", cause)
}

func MeshUpdateFailed(message string, cause error) *DemoforgeError {
	return Wrap(ErrMeshUpdateFailed, message, cause)
}

func MeshNotFound() *DemoforgeError {
	return New(ErrMeshNotFound, "No API mesh found for this workspace")
}

// Internal Errors
func InternalError(details string, cause error) *DemoforgeError {
	if cause != nil {
		return WrapWithDetails(ErrInternal, "Internal error", details, cause)
	}
	return NewWithDetails(ErrInternal, "Internal error", details)
}

func TimeoutError(operation string, duration interface{}) *DemoforgeError {
	return NewWithDetails(ErrTimeout, "Operation timed out",
		fmt.Sprintf("Operation: %s, Duration: %v", operation, duration))
}

func RetryExhausted(operation string, attempts int, cause error) *DemoforgeError {
	return WrapWithDetails(ErrRetryExhausted, "Operation failed after all retries",
		fmt.Sprintf("Operation: %s, Attempts: %d", operation, attempts), cause)
}
