package project

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"demoforge/internal/db"
	"demoforge/internal/logger"
)

// ConsoleUI implements UserInterface over stdin/stdout for CLI use
type ConsoleUI struct {
	in  *bufio.Reader
	out io.Writer
	// AssumeYes skips confirmation prompts, set by the --yes flag
	AssumeYes bool
}

// NewConsoleUI creates a console-backed user interface
func NewConsoleUI(in io.Reader, out io.Writer) *ConsoleUI {
	return &ConsoleUI{in: bufio.NewReader(in), out: out}
}

// Confirm prompts for y/N on the console
func (u *ConsoleUI) Confirm(message string) bool {
	if u.AssumeYes {
		return true
	}

	fmt.Fprintf(u.out, "%s [y/N]: ", message)
	line, err := u.in.ReadString('\n')
	if err != nil {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// ShowError prints the failure; with a console there are no buttons, so
// the first action is reported as acknowledged
func (u *ConsoleUI) ShowError(message string, actions ...string) string {
	fmt.Fprintf(u.out, "Error: %s\n", message)
	if len(actions) > 0 {
		return actions[0]
	}
	return ""
}

// ShowInfo prints an informational message
func (u *ConsoleUI) ShowInfo(message string) {
	fmt.Fprintln(u.out, message)
}

// LogStatusBar implements StatusBar by logging status transitions; the
// dashboard reflects the same transitions over its websocket
type LogStatusBar struct{}

// SetStatus records a project status transition
func (LogStatusBar) SetStatus(projectName string, status db.ProjectStatus) {
	logger.WithFields(logger.Fields{
		"project": projectName,
		"status":  status,
	}).Debug("Status changed")
}

// Clear records that no project is active
func (LogStatusBar) Clear() {
	logger.Debug("Status cleared")
}
