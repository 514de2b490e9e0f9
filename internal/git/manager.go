// Package git clones and inspects project repositories
package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"demoforge/internal/errors"
	"demoforge/internal/logger"
)

// Manager handles git operations for demo projects
type Manager struct {
	token string
}

// New creates a git manager. token, when non-empty, is used as a GitHub
// access token for HTTPS operations.
func New(token string) *Manager {
	return &Manager{token: token}
}

// Clone clones repoURL into path. The destination must not exist; a
// partial clone is removed on failure so retries start clean.
func (m *Manager) Clone(ctx context.Context, repoURL, path string) error {
	if repoURL == "" {
		return errors.InvalidInput("", "a repository URL")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.InvalidPath(path, err.Error())
	}

	if _, err := os.Stat(absPath); err == nil {
		return errors.InvalidPath(absPath, "destination already exists")
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return errors.Wrap(errors.ErrFileSystem, "Failed to create parent directory", err)
	}

	logger.WithFields(logger.Fields{
		"url":  repoURL,
		"path": absPath,
	}).Info("Cloning repository")

	_, err = gogit.PlainCloneContext(ctx, absPath, false, &gogit.CloneOptions{
		URL:  repoURL,
		Auth: m.authMethod(),
	})
	if err != nil {
		os.RemoveAll(absPath)

		switch {
		case strings.Contains(err.Error(), "authentication"):
			return errors.Wrap(errors.ErrAuthExpired, "Authentication failed while cloning", err)
		case strings.Contains(err.Error(), "not found"):
			return errors.Wrap(errors.ErrNotFound, "Repository not found", err)
		case ctx.Err() != nil:
			return errors.Wrap(errors.ErrCancelled, "Clone cancelled", ctx.Err())
		default:
			return errors.Wrap(errors.ErrNetworkError, "Failed to clone repository", err)
		}
	}

	return nil
}

// IsRepository reports whether path holds a git repository
func (m *Manager) IsRepository(path string) bool {
	_, err := gogit.PlainOpen(path)
	return err == nil
}

// CurrentBranch returns the checked-out branch name
func (m *Manager) CurrentBranch(path string) (string, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrFileSystem, "Failed to open repository", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", errors.Wrap(errors.ErrFileSystem, "Failed to resolve HEAD", err)
	}

	if !head.Name().IsBranch() {
		return "", errors.New(errors.ErrInvalidInput, "Repository is in detached HEAD state")
	}
	return head.Name().Short(), nil
}

// HasUncommittedChanges reports whether the working tree is dirty.
// Delete asks before discarding local edits.
func (m *Manager) HasUncommittedChanges(path string) (bool, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return false, errors.Wrap(errors.ErrFileSystem, "Failed to open repository", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return false, errors.Wrap(errors.ErrFileSystem, "Failed to get worktree", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return false, errors.Wrap(errors.ErrFileSystem, "Failed to get worktree status", err)
	}

	return !status.IsClean(), nil
}

// authMethod picks credentials for remote operations: explicit token,
// then SSH agent, then environment basic auth.
func (m *Manager) authMethod() transport.AuthMethod {
	if m.token != "" {
		return &githttp.BasicAuth{Username: "token", Password: m.token}
	}

	if auth, err := ssh.NewSSHAgentAuth("git"); err == nil {
		return auth
	}

	if username := os.Getenv("GIT_USERNAME"); username != "" {
		if password := os.Getenv("GIT_PASSWORD"); password != "" {
			return &githttp.BasicAuth{Username: username, Password: password}
		}
	}

	return nil
}
