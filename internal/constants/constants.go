// Package constants defines application-wide constants to avoid magic numbers
package constants

import "time"

// Network and Port Constants
const (
	// DefaultServerPort is the default port for the demoforge dashboard server
	DefaultServerPort = 8080

	// DefaultDevPort is the default port assigned to demo frontends
	DefaultDevPort = 3000

	// MinPortNumber is the minimum valid TCP port number
	MinPortNumber = 1

	// MaxPortNumber is the maximum valid TCP port number
	MaxPortNumber = 65535
)

// File System Permissions
const (
	// DirPermissions is the standard directory permissions for demoforge directories
	DirPermissions = 0755

	// FilePermissions is the standard file permissions for demoforge config files
	FilePermissions = 0644
)

// Database Configuration
const (
	// DefaultMaxOpenConnections is the default maximum number of database connections
	DefaultMaxOpenConnections = 25

	// DefaultMaxIdleConnections is the default maximum number of idle database connections
	DefaultMaxIdleConnections = 5

	// DefaultConnectionTimeout is the default database connection timeout
	DefaultConnectionTimeout = 5 * time.Minute

	// DefaultIdleTimeout is the default database idle connection timeout
	DefaultIdleTimeout = 1 * time.Minute
)

// HTTP Configuration
const (
	// DefaultHTTPClientTimeout is the default timeout for HTTP client requests
	DefaultHTTPClientTimeout = 30 * time.Second

	// DefaultServerReadTimeout is the default server read timeout
	DefaultServerReadTimeout = 10 * time.Second

	// DefaultServerWriteTimeout is the default server write timeout
	DefaultServerWriteTimeout = 10 * time.Second

	// DefaultServerShutdownTimeout is the default server graceful shutdown timeout
	DefaultServerShutdownTimeout = 30 * time.Second
)

// External Command Execution
const (
	// DefaultCommandTimeout is the default timeout for shelled-out commands
	DefaultCommandTimeout = 2 * time.Minute

	// MeshCommandTimeout is the timeout for mesh CLI create/update invocations,
	// which include a remote deployment step
	MeshCommandTimeout = 5 * time.Minute

	// MaxOutputLength is the maximum length for command output before truncation
	MaxOutputLength = 200
)

// Process Supervision
const (
	// ProcessExitPollInterval is the interval between process liveness polls
	// after a termination signal has been delivered
	ProcessExitPollInterval = 250 * time.Millisecond

	// ProcessExitTimeout is how long to wait for graceful exit before
	// escalating to SIGKILL
	ProcessExitTimeout = 5 * time.Second
)

// Retry and Delete
const (
	// DeleteRetryAttempts is the attempt budget for project directory removal
	DeleteRetryAttempts = 5

	// DeleteRetryDelay is the fixed delay between directory removal attempts
	DeleteRetryDelay = 500 * time.Millisecond
)

// EDS Setup
const (
	// CodeSyncPollInterval is the interval between code-sync verification polls
	CodeSyncPollInterval = 5 * time.Second

	// CodeSyncTimeout bounds the code-sync verification phase
	CodeSyncTimeout = 2 * time.Minute
)

// Mesh Status
const (
	// MeshStatusCacheTTL is how long a mesh status check result stays fresh
	MeshStatusCacheTTL = 30 * time.Second
)
