package project

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"demoforge/internal/constants"
	"demoforge/internal/db"
	"demoforge/internal/errors"
	"demoforge/internal/executor"
	"demoforge/internal/logger"
	"demoforge/internal/process"
	"demoforge/internal/retry"
	"demoforge/internal/validation"
)

// Commands runs the project lifecycle operations. All dependencies come
// in through the constructor; nothing is resolved from global state.
type Commands struct {
	state     StateManager
	exec      executor.Executor
	terminals TerminalManager
	statusBar StatusBar
	ui        UserInterface
	locks     *lockRegistry

	// killTree and removeDir are swapped out in tests
	killTree  func(ctx context.Context, pid int32, sig syscall.Signal) error
	removeDir func(path string) error
}

// NewCommands creates the lifecycle command runner
func NewCommands(state StateManager, exec executor.Executor, terminals TerminalManager, statusBar StatusBar, ui UserInterface) *Commands {
	return &Commands{
		state:     state,
		exec:      exec,
		terminals: terminals,
		statusBar: statusBar,
		ui:        ui,
		locks:     newLockRegistry(),
		killTree:  process.KillProcessTree,
		removeDir: os.RemoveAll,
	}
}

// StartDemo launches the current project's frontend dev server in a
// terminal. All inputs are validated before any process or terminal is
// touched; on a failure after the status flipped to starting, the
// status reverts so the user can retry.
func (c *Commands) StartDemo(ctx context.Context) error {
	project, err := c.currentProject(ctx)
	if err != nil {
		return err
	}
	unlock := c.locks.acquire(project.ID)
	defer unlock()

	comp := project.Frontend()
	if comp == nil {
		return c.surface(errors.ComponentNotFound("frontend"), "No frontend component configured")
	}

	if err := validation.PortNumber(comp.Port); err != nil {
		return c.surface(err, fmt.Sprintf("Invalid port %d", comp.Port))
	}
	nodeVersion := comp.NodeVersion()
	if nodeVersion != "" {
		if err := validation.NodeVersion(nodeVersion); err != nil {
			return c.surface(err, "Invalid Node version")
		}
	}

	prevStatus := project.Status
	project.Status = db.StatusStarting
	if err := c.state.SaveProject(ctx, project); err != nil {
		return err
	}
	c.statusBar.SetStatus(project.Name, db.StatusStarting)

	if err := c.launch(comp, nodeVersion); err != nil {
		c.revert(ctx, project, prevStatus)
		return c.surface(err, "Failed to start demo")
	}

	comp.Status = string(db.StatusRunning)
	project.Status = db.StatusRunning
	if err := c.state.SaveProject(ctx, project); err != nil {
		// The store itself is failing; revert is best-effort so the
		// persisted status is not left mid-transition.
		c.revert(ctx, project, prevStatus)
		return c.surface(err, "Failed to record demo status")
	}
	c.statusBar.SetStatus(project.Name, db.StatusRunning)

	logger.WithFields(logger.Fields{
		"project": project.Name,
		"port":    comp.Port,
	}).Info("Demo started")
	return nil
}

func (c *Commands) launch(comp *db.ComponentInstance, nodeVersion string) error {
	if !c.exec.IsPortAvailable(comp.Port) {
		return errors.InvalidPort(comp.Port, "already in use")
	}

	term, err := c.terminals.CreateTerminal(comp.ID)
	if err != nil {
		return err
	}

	if comp.Path != "" {
		if err := term.SendText("cd " + validation.ShellEscape(comp.Path)); err != nil {
			return err
		}
	}
	if nodeVersion != "" {
		if err := term.SendText("nvm use " + nodeVersion); err != nil {
			return err
		}
	}

	start := comp.StartCommand()
	if start == "" {
		start = fmt.Sprintf("npm run dev -- --port %d", comp.Port)
	}
	if err := term.SendText(start); err != nil {
		return err
	}

	term.Show()
	return nil
}

// StopDemo terminates the frontend's process tree and disposes its
// terminal. The terminal is disposed even when no PID is found or the
// kill fails; a demo that is already gone counts as stopped.
func (c *Commands) StopDemo(ctx context.Context) error {
	project, err := c.currentProject(ctx)
	if err != nil {
		return err
	}
	unlock := c.locks.acquire(project.ID)
	defer unlock()

	comp := project.Frontend()
	if comp == nil {
		return c.surface(errors.ComponentNotFound("frontend"), "No frontend component configured")
	}

	prevStatus := project.Status
	project.Status = db.StatusStopping
	if err := c.state.SaveProject(ctx, project); err != nil {
		return err
	}
	c.statusBar.SetStatus(project.Name, db.StatusStopping)

	defer c.terminals.DisposeTerminal(comp.ID)

	if pid, found := process.FindProcessByPort(ctx, c.exec, comp.Port); found {
		if err := c.killTree(ctx, pid, process.SignalTerm); err != nil {
			c.revert(ctx, project, prevStatus)
			return c.surface(err, "Failed to stop demo")
		}
	} else {
		logger.WithField("port", comp.Port).Debug("No process found on component port")
	}

	comp.PID = 0
	comp.Status = string(db.StatusStopped)
	project.Status = db.StatusStopped
	if err := c.state.SaveProject(ctx, project); err != nil {
		c.revert(ctx, project, prevStatus)
		return c.surface(err, "Failed to record demo status")
	}
	c.statusBar.SetStatus(project.Name, db.StatusStopped)

	logger.WithField("project", project.Name).Info("Demo stopped")
	return nil
}

// DeleteProject removes the current project's directory and clears its
// persisted state. Directory removal is retried for transient
// filesystem errors; when all attempts fail, state is left untouched so
// the user can retry or investigate.
func (c *Commands) DeleteProject(ctx context.Context) error {
	project, err := c.currentProject(ctx)
	if err != nil {
		return err
	}
	unlock := c.locks.acquire(project.ID)
	defer unlock()

	if !c.ui.Confirm(fmt.Sprintf("Delete project %q and all local files?", project.Name)) {
		return nil
	}

	_, err = retry.Do(ctx, func() (struct{}, error) {
		return struct{}{}, c.removeDir(project.Path)
	}, retry.Options{
		MaxAttempts: constants.DeleteRetryAttempts,
		Delay:       constants.DeleteRetryDelay,
		IsRetryable: retry.IsTransientFSError,
	})
	if err != nil {
		c.ui.ShowError("Failed to delete project", "OK")
		return errors.Wrap(errors.ErrDeleteFailed, "Failed to delete project", err)
	}

	for _, comp := range project.Components {
		c.terminals.DisposeTerminal(comp.ID)
	}

	if err := c.state.ClearProject(ctx, project.ID); err != nil {
		return err
	}
	c.statusBar.Clear()

	logger.WithField("project", project.Name).Info("Project deleted")
	c.ui.ShowInfo(fmt.Sprintf("Project %q deleted", project.Name))
	return nil
}

func (c *Commands) currentProject(ctx context.Context) (*db.Project, error) {
	project, err := c.state.GetCurrentProject(ctx)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, c.surface(errors.ProjectNotFound("current"), "No project selected")
	}
	return project, nil
}

// revert restores the pre-operation status so the command can be retried
func (c *Commands) revert(ctx context.Context, project *db.Project, status db.ProjectStatus) {
	project.Status = status
	if err := c.state.SaveProject(ctx, project); err != nil {
		logger.WithError(err).Error("Failed to revert project status")
	}
	c.statusBar.SetStatus(project.Name, status)
}

// surface shows a single user-facing notification and returns the error
func (c *Commands) surface(err error, message string) error {
	c.ui.ShowError(message, "OK")
	return err
}
