package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"demoforge/internal/api"
	"demoforge/internal/config"
	"demoforge/internal/constants"
	"demoforge/internal/xdg"

	"github.com/spf13/cobra"
)

// ServerCommands creates dashboard server management commands
func ServerCommands() []*cobra.Command {
	commands := []*cobra.Command{}

	// demoforge server start
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the dashboard server",
		Long: `Start the demoforge dashboard server. The server provides the web
dashboard and API endpoints for managing demo projects.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := cmd.Flags().GetInt("port")
			daemon, _ := cmd.Flags().GetBool("daemon")

			return startServer(cmd.Context(), port, daemon)
		},
	}

	defaultPort := constants.DefaultServerPort
	if globalConfig, err := config.LoadGlobalConfig(); err == nil {
		defaultPort = globalConfig.Server.Port
	}

	startCmd.Flags().IntP("port", "p", defaultPort, "Port to run the server on")
	startCmd.Flags().BoolP("daemon", "d", false, "Run server in daemon mode (background)")
	commands = append(commands, startCmd)

	// demoforge server stop
	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the dashboard server",
		Long:  `Stop a running dashboard server by sending a graceful shutdown signal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return stopServer()
		},
	}
	commands = append(commands, stopCmd)

	// demoforge server status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Check server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serverStatus(cmd.Context())
		},
	}
	commands = append(commands, statusCmd)

	return commands
}

// startServer starts the dashboard server
func startServer(ctx context.Context, port int, daemon bool) error {
	if daemon {
		return startServerDaemon(port)
	}

	// Start server in foreground by re-executing with internal serve command
	args := serveArgs(port)

	cmd := exec.CommandContext(ctx, os.Args[0], args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	return cmd.Run()
}

func serveArgs(port int) []string {
	args := []string{"serve"}
	if port != constants.DefaultServerPort {
		args = append(args, "--port", strconv.Itoa(port))
	}
	return args
}

// startServerDaemon starts the server in background daemon mode
func startServerDaemon(port int) error {
	cmd := exec.Command(os.Args[0], serveArgs(port)...)

	stateDir, err := xdg.StateDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	logFile, err := os.OpenFile(filepath.Join(stateDir, "server.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start server daemon: %w", err)
	}

	// Save PID for later shutdown
	pidFile := filepath.Join(stateDir, "server.pid")
	if err := os.WriteFile(pidFile, []byte(strconv.Itoa(cmd.Process.Pid)), 0644); err != nil {
		cmd.Process.Kill()
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	fmt.Printf("Dashboard server started in daemon mode on port %d (PID: %d)\n", port, cmd.Process.Pid)
	fmt.Printf("Logs: %s\n", filepath.Join(stateDir, "server.log"))
	fmt.Printf("Use 'demoforge server stop' to stop the server\n")

	return nil
}

// stopServer stops a running dashboard server
func stopServer() error {
	stateDir, err := xdg.StateDir()
	if err != nil {
		return err
	}
	pidFile := filepath.Join(stateDir, "server.pid")

	pidBytes, err := os.ReadFile(pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No server PID file found. Server may not be running.")
			return nil
		}
		return fmt.Errorf("failed to read PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(pidBytes)))
	if err != nil {
		return fmt.Errorf("invalid PID in file: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	fmt.Printf("Sending shutdown signal to server (PID: %d)...\n", pid)
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send shutdown signal: %w", err)
	}

	// Wait for process to exit (with timeout)
	done := make(chan error, 1)
	go func() {
		_, err := process.Wait()
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			fmt.Printf("Process exited with error: %v\n", err)
		} else {
			fmt.Println("Server stopped successfully")
		}
	case <-time.After(10 * time.Second):
		fmt.Println("Server didn't stop gracefully, sending SIGKILL...")
		process.Kill()
		fmt.Println("Server force-stopped")
	}

	if err := os.Remove(pidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}

	return nil
}

// serverStatus checks whether the dashboard server is responding
func serverStatus(ctx context.Context) error {
	port := constants.DefaultServerPort
	if globalConfig, err := config.LoadGlobalConfig(); err == nil {
		port = globalConfig.Server.Port
	}

	client := api.NewClient(fmt.Sprintf("http://localhost:%d", port))
	status, err := client.GetStatus(ctx)
	if err != nil {
		fmt.Printf("Server is not running on port %d\n", port)
		return nil
	}

	fmt.Printf("Server is running on port %d\n", port)
	fmt.Printf("  Uptime:   %s\n", status.Uptime)
	fmt.Printf("  Database: %s\n", status.Database)
	fmt.Printf("  Projects: %d\n", status.ProjectCount)
	return nil
}
