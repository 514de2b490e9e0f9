package project

import (
	"io"
	"os"
	"os/exec"
	"sync"

	"demoforge/internal/logger"
)

// shellTerminal hosts one long-lived shell whose stdin receives the
// component's commands. Output goes to the demoforge process's own
// stdout so `demoforge project start` behaves like running the dev
// server directly.
type shellTerminal struct {
	name  string
	cmd   *exec.Cmd
	stdin io.WriteCloser
	mu    sync.Mutex
	dead  bool
}

func newShellTerminal(name string) (*shellTerminal, error) {
	cmd := exec.Command("sh")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &shellTerminal{name: name, cmd: cmd, stdin: stdin}, nil
}

// SendText writes one command line to the shell
func (t *shellTerminal) SendText(text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.dead {
		return nil
	}
	_, err := io.WriteString(t.stdin, text+"\n")
	return err
}

// Show is a no-op for shell terminals; output is already attached to
// the parent process
func (t *shellTerminal) Show() {}

// Dispose closes stdin and reaps the shell. Idempotent.
func (t *shellTerminal) Dispose() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.dead {
		return
	}
	t.dead = true

	_ = t.stdin.Close()
	if t.cmd.Process != nil {
		_ = t.cmd.Process.Kill()
	}
	_ = t.cmd.Wait()

	logger.WithField("terminal", t.name).Debug("Terminal disposed")
}

// ShellTerminalManager tracks shell terminals by component ID
type ShellTerminalManager struct {
	mu        sync.Mutex
	terminals map[string]Terminal
}

// NewShellTerminalManager creates an empty terminal manager
func NewShellTerminalManager() *ShellTerminalManager {
	return &ShellTerminalManager{terminals: make(map[string]Terminal)}
}

// CreateTerminal creates a terminal for the given name, disposing any
// previous one under the same name first
func (m *ShellTerminalManager) CreateTerminal(name string) (Terminal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.terminals[name]; ok {
		old.Dispose()
	}

	term, err := newShellTerminal(name)
	if err != nil {
		return nil, err
	}
	m.terminals[name] = term
	return term, nil
}

// GetTerminal returns the terminal for name, if one exists
func (m *ShellTerminalManager) GetTerminal(name string) (Terminal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	term, ok := m.terminals[name]
	return term, ok
}

// DisposeTerminal disposes and forgets the terminal for name. Unknown
// names are ignored.
func (m *ShellTerminalManager) DisposeTerminal(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if term, ok := m.terminals[name]; ok {
		term.Dispose()
		delete(m.terminals, name)
	}
}

// DisposeAll tears down every terminal, used at shutdown
func (m *ShellTerminalManager) DisposeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, term := range m.terminals {
		term.Dispose()
		delete(m.terminals, name)
	}
}
