package mesh

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"demoforge/internal/errors"
	"demoforge/internal/executor"
)

type scriptedCall struct {
	result *executor.CommandResult
	err    error
	lines  []string
}

// scriptedExecutor dispatches on the CLI verb (first argument) so one
// fake can serve the create-then-update flows.
type scriptedExecutor struct {
	calls    map[string]scriptedCall
	executed []string
}

func (s *scriptedExecutor) Execute(ctx context.Context, name string, args []string, opts executor.Options) (*executor.CommandResult, error) {
	verb := args[0]
	s.executed = append(s.executed, verb)

	call := s.calls[verb]
	if opts.OnOutput != nil {
		for _, line := range call.lines {
			opts.OnOutput(line)
		}
	}
	return call.result, call.err
}

func (s *scriptedExecutor) IsPortAvailable(port int) bool { return true }

func newTestOrchestrator(exec executor.Executor) *Orchestrator {
	o := NewOrchestrator(exec)
	o.cliName = "aio"
	return o
}

func TestDeployMesh_CreateSucceeds(t *testing.T) {
	exec := &scriptedExecutor{calls: map[string]scriptedCall{
		"api-mesh:create": {
			result: &executor.CommandResult{Code: 0, Stdout: "Mesh ID: abc123\n"},
			lines:  []string{"Creating mesh", "Mesh ID: abc123"},
		},
	}}
	o := newTestOrchestrator(exec)
	defer o.Close()

	result, err := o.DeployMesh(context.Background(), "mesh.json", nil)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "abc123", result.MeshID)
	assert.Contains(t, result.Endpoint, "abc123")
	assert.Equal(t, "API Mesh deployed successfully", result.Message)
	assert.Equal(t, []string{"api-mesh:create"}, exec.executed)
}

func TestDeployMesh_AlreadyExistsFallsBackToUpdate(t *testing.T) {
	createErr := errors.CommandFailed("aio api-mesh:create", assert.AnError)
	exec := &scriptedExecutor{calls: map[string]scriptedCall{
		"api-mesh:create": {
			result: &executor.CommandResult{Code: 1, Stderr: "Error: this workspace already has a mesh"},
			err:    createErr,
		},
		"api-mesh:update": {
			result: &executor.CommandResult{Code: 0, Stdout: "Successfully updated\nMesh ID: xyz\n"},
			lines:  []string{"Updating mesh", "Successfully updated"},
		},
	}}
	o := newTestOrchestrator(exec)
	defer o.Close()

	var phases []string
	result, err := o.DeployMesh(context.Background(), "mesh.json", func(phase, detail string) {
		phases = append(phases, phase)
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "xyz", result.MeshID)
	assert.NotEmpty(t, result.Endpoint)
	assert.Equal(t, "API Mesh deployed successfully", result.Message)
	assert.Equal(t, []string{"api-mesh:create", "api-mesh:update"}, exec.executed)
	assert.Contains(t, phases, "Updating Existing Mesh...")
	assert.Contains(t, phases, "✓ API Mesh Ready")
}

func TestDeployMesh_PartialCreationThenUpdateFails(t *testing.T) {
	exec := &scriptedExecutor{calls: map[string]scriptedCall{
		"api-mesh:create": {
			result: &executor.CommandResult{Code: 1, Stdout: "Mesh created\ndeployment interrupted"},
			err:    errors.CommandFailed("aio api-mesh:create", assert.AnError),
		},
		"api-mesh:update": {
			result: &executor.CommandResult{Code: 1, Stderr: "update exploded"},
			err:    errors.CommandFailed("aio api-mesh:update", assert.AnError),
		},
	}}
	o := newTestOrchestrator(exec)
	defer o.Close()

	result, err := o.DeployMesh(context.Background(), "mesh.json", nil)
	require.Error(t, err)
	assert.Nil(t, result)

	assert.True(t, errors.HasCode(err, errors.ErrMeshUpdateFailed))
	assert.Contains(t, err.Error(), "update exploded")
	assert.Equal(t, []string{"api-mesh:create", "api-mesh:update"}, exec.executed)
}

func TestDeployMesh_TerminalFailureReturnsOriginalError(t *testing.T) {
	createErr := errors.CommandFailed("aio api-mesh:create", assert.AnError)
	exec := &scriptedExecutor{calls: map[string]scriptedCall{
		"api-mesh:create": {
			result: &executor.CommandResult{Code: 1, Stderr: "invalid mesh configuration"},
			err:    createErr,
		},
	}}
	o := newTestOrchestrator(exec)
	defer o.Close()

	_, err := o.DeployMesh(context.Background(), "mesh.json", nil)
	assert.Same(t, createErr, err)
	assert.Equal(t, []string{"api-mesh:create"}, exec.executed)
}

func TestDeployMesh_AlreadyExistsTakesPrecedenceOverPartial(t *testing.T) {
	// Both markers present: the already-exists branch must win.
	exec := &scriptedExecutor{calls: map[string]scriptedCall{
		"api-mesh:create": {
			result: &executor.CommandResult{
				Code:   1,
				Stdout: "Mesh created",
				Stderr: "workspace already has a mesh",
			},
			err: errors.CommandFailed("aio api-mesh:create", assert.AnError),
		},
		"api-mesh:update": {
			result: &executor.CommandResult{Code: 0, Stdout: "Mesh ID: both\n"},
		},
	}}
	o := newTestOrchestrator(exec)
	defer o.Close()

	var phases []string
	result, err := o.DeployMesh(context.Background(), "mesh.json", func(phase, detail string) {
		phases = append(phases, phase)
	})
	require.NoError(t, err)
	assert.Equal(t, "both", result.MeshID)
	assert.Contains(t, phases, "Updating Existing Mesh...")
	assert.NotContains(t, phases, "Completing API Mesh Setup...")
}

func TestCheckMeshStatus_ParsesAndCaches(t *testing.T) {
	exec := &scriptedExecutor{calls: map[string]scriptedCall{
		"api-mesh:get": {
			result: &executor.CommandResult{Code: 0, Stdout: "Mesh ID: m1\nstatus: success\n"},
		},
	}}
	o := newTestOrchestrator(exec)
	defer o.Close()

	check, err := o.CheckMeshStatus(context.Background(), "ws1")
	require.NoError(t, err)
	assert.True(t, check.MeshExists)
	assert.Equal(t, "m1", check.MeshID)
	assert.Equal(t, StatusDeployed, check.MeshStatus)

	// Second call within the TTL is served from cache.
	_, err = o.CheckMeshStatus(context.Background(), "ws1")
	require.NoError(t, err)
	assert.Len(t, exec.executed, 1)
}

func TestCheckMeshStatus_NoMesh(t *testing.T) {
	exec := &scriptedExecutor{calls: map[string]scriptedCall{
		"api-mesh:get": {
			result: &executor.CommandResult{Code: 1, Stderr: "Error: unable to get mesh for workspace"},
			err:    errors.CommandFailed("aio api-mesh:get", assert.AnError),
		},
	}}
	o := newTestOrchestrator(exec)
	defer o.Close()

	check, err := o.CheckMeshStatus(context.Background(), "ws1")
	require.NoError(t, err)
	assert.False(t, check.MeshExists)
}

func TestExtractMeshID(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
		found  bool
	}{
		{"label with space", "Deploying...\nMesh ID: abc-123\ndone", "abc-123", true},
		{"snake case", "mesh_id: def456", "def456", true},
		{"kebab case", "MESH-ID: ghi", "ghi", true},
		{"first match wins", "Mesh ID: first\nMesh ID: second", "first", true},
		{"absent", "no identifiers here", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := extractMeshID(tt.output)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}
