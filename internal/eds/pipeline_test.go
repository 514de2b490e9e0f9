package eds

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"demoforge/internal/errors"
	"demoforge/internal/integrations/dalive"
	"demoforge/internal/integrations/github"
	"demoforge/internal/integrations/helix"
)

type fakeGitHub struct {
	createErr    error
	installed    bool
	installedErr error
	checkedApp   bool
}

func (f *fakeGitHub) CreateFromTemplate(ctx context.Context, templateOwner, templateRepo, owner, name string) (*github.Repository, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &github.Repository{
		FullName: owner + "/" + name,
		HTMLURL:  "https://github.com/" + owner + "/" + name,
		CloneURL: "https://github.com/" + owner + "/" + name + ".git",
	}, nil
}

func (f *fakeGitHub) IsAppInstalled(ctx context.Context, owner, repo string) (bool, error) {
	f.checkedApp = true
	return f.installed, f.installedErr
}

type fakeCloner struct {
	err    error
	cloned string
}

func (f *fakeCloner) Clone(ctx context.Context, repoURL, path string) error {
	f.cloned = repoURL
	return f.err
}

type fakeHelix struct {
	configErr error
	syncErr   error
}

func (f *fakeHelix) ConfigureSite(ctx context.Context, cfg helix.SiteConfig) error {
	return f.configErr
}

func (f *fakeHelix) WaitForCodeSync(ctx context.Context, cfg helix.SiteConfig) error {
	return f.syncErr
}

type fakeDaLive struct {
	created bool
	err     error
}

func (f *fakeDaLive) EnsureContent(ctx context.Context, cfg dalive.Config) (bool, error) {
	return f.created, f.err
}

func testSetup() SetupConfig {
	return SetupConfig{
		Org:           "acme",
		ProjectName:   "demo-store",
		TemplateOwner: "templates",
		TemplateRepo:  "storefront",
		ClonePath:     "/tmp/demo-store",
	}
}

func TestPipeline_AllPhasesSucceed(t *testing.T) {
	var phases []string
	p := NewPipeline(&fakeGitHub{}, &fakeCloner{}, &fakeHelix{}, &fakeDaLive{created: true},
		func(phase string) { phases = append(phases, phase) })

	result := p.Run(context.Background(), testSetup())

	require.True(t, result.Success)
	assert.Empty(t, result.Phase)
	assert.True(t, result.ContentCreated)
	assert.Equal(t, "https://github.com/acme/demo-store", result.RepoURL)
	assert.Equal(t, []string{
		PhaseGitHubRepo,
		PhaseGitHubClone,
		PhaseHelixConfig,
		PhaseCodeSync,
		PhaseDaLiveContent,
	}, phases)
}

func TestPipeline_RepoCreationFailure(t *testing.T) {
	p := NewPipeline(&fakeGitHub{
		createErr: errors.New(errors.ErrRepoExists, "Repository already exists"),
	}, &fakeCloner{}, &fakeHelix{}, &fakeDaLive{}, nil)

	result := p.Run(context.Background(), testSetup())

	require.False(t, result.Success)
	assert.Equal(t, PhaseGitHubRepo, result.Phase)
	assert.Empty(t, result.RepoURL)
	require.NotNil(t, result.Error)
	assert.Equal(t, string(errors.ErrRepoExists), result.Error.Code)
}

func TestPipeline_CloneFailurePreservesRepoURL(t *testing.T) {
	cloner := &fakeCloner{err: errors.New(errors.ErrNetworkError, "clone failed")}
	p := NewPipeline(&fakeGitHub{}, cloner, &fakeHelix{}, &fakeDaLive{}, nil)

	result := p.Run(context.Background(), testSetup())

	require.False(t, result.Success)
	assert.Equal(t, PhaseGitHubClone, result.Phase)
	assert.Equal(t, "https://github.com/acme/demo-store", result.RepoURL,
		"completed-phase evidence must survive a later failure")
}

func TestPipeline_CodeSyncTimeoutChecksAppInstallation(t *testing.T) {
	gh := &fakeGitHub{installed: false}
	p := NewPipeline(gh, &fakeCloner{}, &fakeHelix{
		syncErr: errors.TimeoutError("code sync", time.Minute),
	}, &fakeDaLive{}, nil)

	result := p.Run(context.Background(), testSetup())

	require.False(t, result.Success)
	assert.Equal(t, PhaseCodeSync, result.Phase)
	assert.True(t, gh.checkedApp, "timeout must trigger the app-installation check")
	assert.Equal(t, string(errors.ErrTimeout), result.Error.Code)
}

func TestPipeline_CodeSyncNonTimeoutSkipsAppCheck(t *testing.T) {
	gh := &fakeGitHub{}
	p := NewPipeline(gh, &fakeCloner{}, &fakeHelix{
		syncErr: errors.New(errors.ErrAuthExpired, "session expired"),
	}, &fakeDaLive{}, nil)

	result := p.Run(context.Background(), testSetup())

	require.False(t, result.Success)
	assert.False(t, gh.checkedApp)
}

func TestPipeline_ContentFailure(t *testing.T) {
	p := NewPipeline(&fakeGitHub{}, &fakeCloner{}, &fakeHelix{}, &fakeDaLive{
		err: errors.New(errors.ErrAccessDenied, "no permission"),
	}, nil)

	result := p.Run(context.Background(), testSetup())

	require.False(t, result.Success)
	assert.Equal(t, PhaseDaLiveContent, result.Phase)
	assert.Equal(t, "https://github.com/acme/demo-store", result.RepoURL)
}
