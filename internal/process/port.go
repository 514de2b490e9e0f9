package process

import (
	"context"
	"strconv"
	"strings"

	"demoforge/internal/executor"
	"demoforge/internal/logger"
	"demoforge/internal/validation"
)

// FindProcessByPort resolves the PID listening on the given TCP port by
// shelling out to lsof. The port is validated before the executor is
// invoked: its value ends up inside a command invocation, so range
// checking here is an injection defense, not just correctness.
//
// The lookup tool may print several PIDs when a parent and its children
// share the listener; the first line is taken as the top-level process,
// relying on KillProcessTree to sweep up descendants. Malformed output,
// empty output and non-zero exits all resolve to "not found" without an
// error.
func FindProcessByPort(ctx context.Context, exec executor.Executor, port int) (int32, bool) {
	if !validation.IsValidPort(port) {
		logger.WithFields(logger.Fields{"port": port}).Debug("Port outside valid range, skipping lookup")
		return 0, false
	}

	result, err := exec.Execute(ctx, "lsof", []string{"-ti", "tcp:" + strconv.Itoa(port)}, executor.Options{})
	if err != nil || result == nil || result.Code != 0 {
		// lsof exits non-zero when nothing listens on the port.
		return 0, false
	}

	lines := strings.Split(strings.TrimSpace(result.Stdout), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return 0, false
	}

	pid, err := strconv.ParseInt(strings.TrimSpace(lines[0]), 10, 32)
	if err != nil || pid <= 0 {
		logger.WithFields(logger.Fields{
			"port":   port,
			"output": strings.TrimSpace(result.Stdout),
		}).Warn("Port lookup produced non-numeric output")
		return 0, false
	}

	if len(lines) > 1 {
		logger.WithFields(logger.Fields{
			"port": port,
			"pids": len(lines),
		}).Debug("Multiple PIDs on port, using the first")
	}

	return int32(pid), true
}
