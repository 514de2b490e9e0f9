package process

import (
	"context"
	"os/exec"
	"syscall"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKillProcessTree_AlreadyGone(t *testing.T) {
	// Let a short-lived process finish, then target its former PID.
	cmd := exec.Command("true")
	require.NoError(t, cmd.Run())

	pid := int32(cmd.Process.Pid)
	err := KillProcessTree(context.Background(), pid, syscall.SIGTERM)
	assert.NoError(t, err, "a missing target process is success, not failure")
}

func TestKillProcessTree_TerminatesChildren(t *testing.T) {
	// Keep the shell alive alongside its child so the tree has depth.
	cmd := exec.Command("sh", "-c", "sleep 30 & wait")
	require.NoError(t, cmd.Start())
	defer cmd.Process.Kill()

	rootPID := int32(cmd.Process.Pid)

	// Give the shell a moment to fork its child.
	time.Sleep(200 * time.Millisecond)

	err := KillProcessTree(context.Background(), rootPID, syscall.SIGTERM)
	require.NoError(t, err)

	// Reap the shell so it does not linger as a zombie.
	_ = cmd.Wait()

	assert.Eventually(t, func() bool {
		p, err := process.NewProcess(rootPID)
		if err != nil {
			return true
		}
		running, err := p.IsRunning()
		return err != nil || !running
	}, 5*time.Second, 100*time.Millisecond, "root process should be gone after tree kill")
}

func TestKillProcessTree_SIGKILL(t *testing.T) {
	// A process ignoring SIGTERM still dies under SIGKILL.
	cmd := exec.Command("sh", "-c", "trap '' TERM; sleep 30")
	require.NoError(t, cmd.Start())
	defer cmd.Process.Kill()

	rootPID := int32(cmd.Process.Pid)
	time.Sleep(200 * time.Millisecond)

	err := KillProcessTree(context.Background(), rootPID, syscall.SIGKILL)
	require.NoError(t, err)

	_ = cmd.Wait()
}
