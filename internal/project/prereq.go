package project

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"demoforge/internal/constants"
	"demoforge/internal/executor"
	"demoforge/internal/logger"
	"demoforge/internal/validation"
)

// PrereqResult reports whether one Node version is installed locally
type PrereqResult struct {
	Version   string `json:"version"`
	Installed bool   `json:"installed"`
}

// CheckNodeVersions checks every required Node version concurrently, so
// total time is bounded by the slowest version-manager invocation
// rather than their sum. Invalid version strings fail the whole check
// before anything is executed.
func CheckNodeVersions(ctx context.Context, exec executor.Executor, versions []string) ([]PrereqResult, error) {
	for _, v := range versions {
		if err := validation.NodeVersion(v); err != nil {
			return nil, err
		}
	}

	results := make([]PrereqResult, len(versions))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, version := range versions {
		i, version := i, version
		g.Go(func() error {
			installed := nodeVersionInstalled(gctx, exec, version)
			mu.Lock()
			results[i] = PrereqResult{Version: version, Installed: installed}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// nodeVersionInstalled asks the version manager whether a version is
// present. Any failure counts as not installed; the caller decides
// whether that blocks the operation.
func nodeVersionInstalled(ctx context.Context, exec executor.Executor, version string) bool {
	result, err := exec.Execute(ctx, "nvm ls "+version, nil, executor.Options{
		Shell:   true,
		Timeout: constants.DefaultCommandTimeout,
	})
	if err != nil {
		logger.WithFields(logger.Fields{
			"version": version,
			"error":   err.Error(),
		}).Debug("Node version check failed")
		return false
	}

	return strings.Contains(result.Stdout, version) && !strings.Contains(result.Stdout, "N/A")
}
