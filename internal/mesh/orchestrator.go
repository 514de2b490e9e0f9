// Package mesh drives the API mesh CLI for create, update, and status
// operations. The CLI has no idempotent create-or-update verb, so the
// orchestrator attempts create and falls back to update when the output
// indicates the workspace already holds a mesh or a create was left
// half-finished.
package mesh

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"demoforge/internal/cache"
	"demoforge/internal/constants"
	"demoforge/internal/errors"
	"demoforge/internal/executor"
	"demoforge/internal/logger"
	"demoforge/internal/validation"
)

// Result is the outcome of a completed deploy
type Result struct {
	Success  bool   `json:"success"`
	MeshID   string `json:"meshId"`
	Endpoint string `json:"endpoint"`
	Message  string `json:"message"`
}

// CheckResult describes the current mesh state of a workspace.
// Produced fresh on every check; the orchestrator's TTL cache only
// smooths over rapid repeat calls within one process lifetime.
type CheckResult struct {
	MeshExists bool   `json:"meshExists"`
	MeshStatus string `json:"meshStatus,omitempty"`
	MeshID     string `json:"meshId,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Mesh status values reported by CheckMeshStatus
const (
	StatusDeployed = "deployed"
	StatusPending  = "pending"
	StatusError    = "error"
)

// createFailure classifies a failed create attempt from its output text.
// Detection is string matching by necessity: the CLI signals these
// conditions only in prose, not via exit codes.
type createFailure int

const (
	failureTerminal createFailure = iota
	failureAlreadyExists
	failurePartialCreation
)

// meshIDPattern matches "Mesh ID: xyz", "mesh_id: xyz", "mesh-id: xyz"
var meshIDPattern = regexp.MustCompile(`(?i)mesh[ _-]id\s*:\s*([A-Za-z0-9][A-Za-z0-9-]*)`)

// Orchestrator runs mesh CLI commands through an Executor
type Orchestrator struct {
	exec        executor.Executor
	cliName     string
	statusCache *cache.Cache[string, *CheckResult]
}

// NewOrchestrator creates a mesh orchestrator using the given executor
func NewOrchestrator(exec executor.Executor) *Orchestrator {
	return &Orchestrator{
		exec:        exec,
		cliName:     "aio",
		statusCache: cache.New[string, *CheckResult](constants.MeshStatusCacheTTL, 64),
	}
}

// Close releases the orchestrator's cache resources
func (o *Orchestrator) Close() {
	o.statusCache.Close()
}

// DeployMesh creates the API mesh described by configPath, falling back
// to an update when the workspace already has one. Progress is reported
// through onProgress as output arrives; onProgress may be nil.
func (o *Orchestrator) DeployMesh(ctx context.Context, configPath string, onProgress ProgressFunc) (*Result, error) {
	cleanPath, err := validation.Path(configPath)
	if err != nil {
		return nil, err
	}
	configPath = cleanPath

	acc := &OutputAccumulator{}
	var lastChunk string
	callback := NewProgressCallback(OperationCreate, onProgress, acc)

	result, err := o.exec.Execute(ctx, o.cliName, []string{"api-mesh:create", configPath, "--autoConfirmAction"}, executor.Options{
		Timeout: constants.MeshCommandTimeout,
		OnOutput: func(line string) {
			lastChunk = line
			callback(line)
		},
	})
	if err == nil {
		return o.buildResult(acc.Value+"\n"+result.Stdout, onProgress)
	}

	var stdout, stderr string
	if result != nil {
		stdout, stderr = result.Stdout, result.Stderr
	}

	kind := classifyCreateFailure(stdout, stderr, lastChunk)
	if kind == failureTerminal {
		logger.WithError(err).Error("Mesh create failed with no recoverable condition")
		return nil, err
	}

	return o.HandleMeshAlreadyExists(ctx, configPath, kind, onProgress)
}

// HandleMeshAlreadyExists runs the update path taken when a create
// attempt found an existing or half-created mesh
func (o *Orchestrator) HandleMeshAlreadyExists(ctx context.Context, configPath string, kind createFailure, onProgress ProgressFunc) (*Result, error) {
	switch kind {
	case failureAlreadyExists:
		logger.Info("Workspace already has a mesh, switching to update")
		if onProgress != nil {
			onProgress("Updating Existing Mesh...", "A mesh already exists; applying configuration")
		}
	case failurePartialCreation:
		logger.Info("Mesh was partially created, completing setup via update")
		if onProgress != nil {
			onProgress("Completing API Mesh Setup...", "Finishing an interrupted mesh creation")
		}
	}

	callback := NewProgressCallback(OperationUpdate, onProgress, nil)
	result, err := o.exec.Execute(ctx, o.cliName, []string{"api-mesh:update", configPath, "--autoConfirmAction"}, executor.Options{
		Timeout:  constants.MeshCommandTimeout,
		OnOutput: callback,
	})
	if err != nil {
		message := "Failed to update API mesh"
		if result != nil && strings.TrimSpace(result.Stderr) != "" {
			message = strings.TrimSpace(result.Stderr)
		}
		logger.WithError(err).Error("Mesh update fallback failed")
		return nil, errors.MeshUpdateFailed(message, err)
	}

	return o.buildResult(result.Stdout, onProgress)
}

// CheckMeshStatus queries the mesh state for a workspace. Results are
// cached briefly so dashboard polling does not hammer the CLI.
func (o *Orchestrator) CheckMeshStatus(ctx context.Context, workspace string) (*CheckResult, error) {
	if cached, ok := o.statusCache.Get(workspace); ok {
		return cached, nil
	}

	result, err := o.exec.Execute(ctx, o.cliName, []string{"api-mesh:get"}, executor.Options{
		Timeout: constants.DefaultCommandTimeout,
	})
	if err != nil {
		var combined string
		if result != nil {
			combined = result.Stdout + "\n" + result.Stderr
		}
		if containsFold(combined, "no mesh") || containsFold(combined, "unable to get mesh") {
			check := &CheckResult{MeshExists: false}
			o.statusCache.Set(workspace, check)
			return check, nil
		}
		return nil, errors.Wrap(errors.ErrCommandFailed, "Failed to query mesh status", err)
	}

	check := parseMeshStatus(result.Stdout)
	o.statusCache.Set(workspace, check)
	return check, nil
}

// InvalidateStatus drops the cached status for a workspace, forcing the
// next check to hit the CLI. Called after deploys.
func (o *Orchestrator) InvalidateStatus(workspace string) {
	o.statusCache.Delete(workspace)
}

func (o *Orchestrator) buildResult(output string, onProgress ProgressFunc) (*Result, error) {
	meshID, found := extractMeshID(output)
	if !found {
		return nil, errors.MeshCreateFailed(
			fmt.Errorf("mesh command succeeded but no mesh ID appeared in output"))
	}

	if onProgress != nil {
		onProgress("✓ API Mesh Ready", "Mesh "+meshID+" is deployed")
	}

	return &Result{
		Success:  true,
		MeshID:   meshID,
		Endpoint: endpointForMesh(meshID),
		Message:  "API Mesh deployed successfully",
	}, nil
}

// classifyCreateFailure inspects stderr, stdout, and the last streamed
// chunk. Already-exists takes precedence over partial creation when both
// texts appear.
func classifyCreateFailure(stdout, stderr, lastChunk string) createFailure {
	if containsFold(stderr, "already has a mesh") || containsFold(lastChunk, "already has a mesh") {
		return failureAlreadyExists
	}
	if containsFold(stdout, "mesh created") || containsFold(lastChunk, "mesh created") {
		return failurePartialCreation
	}
	return failureTerminal
}

// extractMeshID returns the first mesh identifier found in the output
func extractMeshID(output string) (string, bool) {
	match := meshIDPattern.FindStringSubmatch(output)
	if match == nil {
		return "", false
	}
	return match[1], true
}

func endpointForMesh(meshID string) string {
	return fmt.Sprintf("https://edge-graph.adobe.io/api/%s/graphql", meshID)
}

func parseMeshStatus(output string) *CheckResult {
	check := &CheckResult{MeshExists: true}

	if meshID, ok := extractMeshID(output); ok {
		check.MeshID = meshID
		check.Endpoint = endpointForMesh(meshID)
	} else {
		check.MeshExists = false
		return check
	}

	switch {
	case containsFold(output, "success") || containsFold(output, "deployed"):
		check.MeshStatus = StatusDeployed
	case containsFold(output, "pending") || containsFold(output, "provisioning") || containsFold(output, "building"):
		check.MeshStatus = StatusPending
	case containsFold(output, "error") || containsFold(output, "failed"):
		check.MeshStatus = StatusError
		check.Error = "mesh reported a failed deployment"
	default:
		check.MeshStatus = StatusPending
	}

	return check
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
