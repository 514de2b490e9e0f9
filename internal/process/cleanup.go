// Package process supervises the OS processes behind running demo
// components: discovering them by port and terminating whole process
// trees. Dev servers routinely fork children, so killing only the root
// PID leaves orphaned listeners behind and breaks the next start.
package process

import (
	"context"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"demoforge/internal/constants"
	"demoforge/internal/errors"
	"demoforge/internal/logger"
)

// Signal names accepted by KillProcessTree.
const (
	SignalTerm = syscall.SIGTERM
	SignalKill = syscall.SIGKILL
)

// KillProcessTree terminates pid and every process it transitively
// spawned. Descendants are signalled before the root so the root cannot
// respawn them mid-cleanup. After the signal round it polls for exit up to
// a bounded timeout and escalates any survivors to SIGKILL. A PID that is
// already gone is success, not an error.
func KillProcessTree(ctx context.Context, pid int32, sig syscall.Signal) error {
	root, err := process.NewProcess(pid)
	if err != nil {
		// No such process: the tree is already dead.
		logger.WithFields(logger.Fields{"pid": pid}).Debug("Process already gone, nothing to kill")
		return nil
	}

	targets := append(descendants(root), root)

	logger.WithFields(logger.Fields{
		"pid":     pid,
		"targets": len(targets),
		"signal":  sig.String(),
	}).Debug("Terminating process tree")

	for _, p := range targets {
		if err := p.SendSignalWithContext(ctx, sig); err != nil {
			// Racing against natural exit is fine; anything else is
			// best-effort and the escalation pass below covers it.
			logger.WithFields(logger.Fields{"pid": p.Pid}).WithError(err).Debug("Signal delivery failed")
		}
	}

	survivors := waitForExit(ctx, targets, constants.ProcessExitTimeout)
	if len(survivors) == 0 {
		return nil
	}

	if sig != syscall.SIGKILL {
		logger.WithFields(logger.Fields{
			"pid":       pid,
			"survivors": len(survivors),
		}).Warn("Process tree survived graceful shutdown, escalating to SIGKILL")

		for _, p := range survivors {
			if err := p.SendSignalWithContext(ctx, syscall.SIGKILL); err != nil {
				logger.WithFields(logger.Fields{"pid": p.Pid}).WithError(err).Debug("SIGKILL delivery failed")
			}
		}
		survivors = waitForExit(ctx, survivors, constants.ProcessExitTimeout)
	}

	if len(survivors) > 0 {
		return errors.ProcessKillFailed(pid, nil).WithContext("survivors", len(survivors))
	}
	return nil
}

// descendants returns every transitive child of p, leaves first. Direct
// children come from the platform process table via gopsutil.
func descendants(p *process.Process) []*process.Process {
	children, err := p.Children()
	if err != nil {
		// ErrorNoChildren and permission failures both mean "nothing
		// more to enumerate" for our purposes.
		return nil
	}

	var all []*process.Process
	for _, child := range children {
		all = append(all, descendants(child)...)
		all = append(all, child)
	}
	return all
}

// waitForExit polls the given processes until they are all gone or the
// timeout elapses, returning whichever are still alive.
func waitForExit(ctx context.Context, procs []*process.Process, timeout time.Duration) []*process.Process {
	deadline := time.Now().Add(timeout)

	for {
		alive := procs[:0]
		for _, p := range procs {
			running, err := p.IsRunning()
			if err == nil && running {
				alive = append(alive, p)
			}
		}
		procs = alive

		if len(procs) == 0 {
			return nil
		}
		if time.Now().After(deadline) || ctx.Err() != nil {
			return procs
		}

		select {
		case <-ctx.Done():
			return procs
		case <-time.After(constants.ProcessExitPollInterval):
		}
	}
}
