package commands

import (
	"fmt"
	"os"
	"strings"

	"demoforge/internal/errors"
	"demoforge/internal/logger"
)

// HandleError processes errors and provides user-friendly output
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	if de, ok := err.(*errors.DemoforgeError); ok {
		logger.WithError(err).Debug("Operation failed")

		msg := de.Message
		if de.Details != "" {
			msg = fmt.Sprintf("%s (%s)", de.Message, de.Details)
		}
		return fmt.Errorf("%s", msg)
	}

	// Check for common error patterns and provide helpful messages
	errStr := err.Error()
	switch {
	case strings.Contains(errStr, "permission denied"):
		return fmt.Errorf("%v\n\nTip: You may need elevated permissions. Check file permissions in the project directory.", err)

	case strings.Contains(errStr, "no such file or directory"):
		return fmt.Errorf("%v\n\nTip: Check if the path exists and is accessible.", err)

	case strings.Contains(errStr, "not found"):
		return fmt.Errorf("%v\n\nTip: Use 'demoforge project list' to see available projects.", err)

	case strings.Contains(errStr, "git"):
		return fmt.Errorf("%v\n\nTip: Ensure you have git installed and configured.", err)

	default:
		return err
	}
}

// ExitOnError handles errors consistently across CLI commands
func ExitOnError(err error) {
	if err == nil {
		return
	}

	processedErr := HandleError(err)
	fmt.Fprintf(os.Stderr, "Error: %v\n", processedErr)

	if de, ok := err.(*errors.DemoforgeError); ok {
		switch de.Code {
		case errors.ErrProjectNotFound, errors.ErrComponentNotFound, errors.ErrConfigNotFound, errors.ErrMeshNotFound:
			os.Exit(2)
		case errors.ErrAccessDenied, errors.ErrAuthExpired:
			os.Exit(126)
		default:
			os.Exit(1)
		}
	}

	os.Exit(1)
}
