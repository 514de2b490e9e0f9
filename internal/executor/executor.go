// Package executor runs external commands and reports structured results.
// Every demoforge interaction with an external CLI (mesh tooling, port
// lookup, package managers) flows through this package.
package executor

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"demoforge/internal/constants"
	"demoforge/internal/errors"
	"demoforge/internal/validation"
)

// CommandResult is the immutable outcome of one command execution.
type CommandResult struct {
	Code     int           `json:"code"`
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	Duration time.Duration `json:"duration"`
}

// Options controls a single Execute call.
type Options struct {
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env holds KEY=VALUE overrides appended to the parent environment.
	Env []string
	// Timeout kills the process on expiry. Zero means DefaultCommandTimeout.
	Timeout time.Duration
	// OnOutput receives each output line as it is produced, stdout and
	// stderr interleaved in arrival order. Calls are serialized, so the
	// callback never runs concurrently with itself.
	OnOutput func(line string)
	// Shell runs the command through "sh -c" instead of a direct exec.
	Shell bool
}

// Executor runs external commands. The interface exists so lifecycle
// commands and orchestrators can take a fake in tests instead of spawning
// real processes.
type Executor interface {
	Execute(ctx context.Context, name string, args []string, opts Options) (*CommandResult, error)
	IsPortAvailable(port int) bool
}

// OSExecutor is the production Executor. It spawns exactly one OS process
// per Execute call and never pools or reuses processes.
type OSExecutor struct{}

// New returns the production executor.
func New() *OSExecutor {
	return &OSExecutor{}
}

// Execute runs the command and waits for it to finish. The returned
// CommandResult is populated whenever the process actually ran, including
// non-zero exits; the error is non-nil for spawn failures, timeouts and
// non-zero exit codes so callers can either inspect the result or treat
// the failure as opaque.
func (e *OSExecutor) Execute(ctx context.Context, name string, args []string, opts Options) (*CommandResult, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultCommandTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var cmd *exec.Cmd
	if opts.Shell {
		full := name
		if len(args) > 0 {
			full = name + " " + strings.Join(args, " ")
		}
		cmd = exec.CommandContext(runCtx, "sh", "-c", full)
	} else {
		cmd = exec.CommandContext(runCtx, name, args...)
	}

	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.CommandFailed(name, err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.CommandFailed(name, err)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, errors.CommandFailed(name, err)
	}

	// Both pipes are drained concurrently, but the callback contract is a
	// single-threaded sink: one mutex serializes delivery across streams.
	onOutput := opts.OnOutput
	if onOutput != nil {
		var outputMu sync.Mutex
		sink := opts.OnOutput
		onOutput = func(line string) {
			outputMu.Lock()
			defer outputMu.Unlock()
			sink(line)
		}
	}

	var stdout, stderr bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		e.drain(stdoutPipe, &stdout, onOutput)
	}()
	go func() {
		defer wg.Done()
		e.drain(stderrPipe, &stderr, onOutput)
	}()
	wg.Wait()

	waitErr := cmd.Wait()
	result := &CommandResult{
		Code:     cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if runCtx.Err() == context.DeadlineExceeded {
		return result, errors.CommandTimeout(name, timeout)
	}
	if waitErr != nil {
		return result, errors.CommandFailed(name, waitErr).
			WithContext("exit_code", result.Code).
			WithContext("stderr", truncate(result.Stderr, constants.MaxOutputLength))
	}

	return result, nil
}

// drain reads a pipe line by line, collecting the full output and feeding
// the streaming callback.
func (e *OSExecutor) drain(r io.Reader, buf *bytes.Buffer, onOutput func(string)) {
	scanner := bufio.NewScanner(r)

	// Increase buffer size for long lines
	const maxLineSize = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Text()
		buf.WriteString(line)
		buf.WriteByte('\n')

		if onOutput != nil {
			onOutput(line)
		}
	}
}

// IsPortAvailable performs a bind-and-release probe on the local TCP port.
// "In use" is a normal outcome, not an error; invalid ports are reported
// as unavailable without touching the network stack.
func (e *OSExecutor) IsPortAvailable(port int) bool {
	if !validation.IsValidPort(port) {
		return false
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return false
	}
	_ = ln.Close()
	return true
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
