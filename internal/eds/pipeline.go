// Package eds runs the edge-delivery setup pipeline for a demo project:
// create the GitHub repository from a template, clone it locally,
// register the site configuration, wait for code sync, then seed
// authoring content. Phases run strictly in order and each failure is
// tagged with the phase that produced it.
package eds

import (
	"context"

	"demoforge/internal/errors"
	"demoforge/internal/integrations/dalive"
	"demoforge/internal/integrations/github"
	"demoforge/internal/integrations/helix"
	"demoforge/internal/logger"
)

// Phase names reported in SetupResult
const (
	PhaseGitHubRepo    = "github-repo"
	PhaseGitHubClone   = "github-clone"
	PhaseHelixConfig   = "helix-config"
	PhaseCodeSync      = "code-sync"
	PhaseDaLiveContent = "dalive-content"
)

// SetupConfig describes one EDS project setup
type SetupConfig struct {
	Org           string
	ProjectName   string
	TemplateOwner string
	TemplateRepo  string
	ClonePath     string
	Content       dalive.Config
}

// SetupResult reports the pipeline outcome. Fields populated by earlier
// phases survive a later failure so the caller can offer partial
// recovery, e.g. RepoURL stays set when the clone phase fails.
type SetupResult struct {
	Success        bool                   `json:"success"`
	Phase          string                 `json:"phase,omitempty"`
	RepoURL        string                 `json:"repoUrl,omitempty"`
	ContentCreated bool                   `json:"contentCreated"`
	Error          *errors.FormattedError `json:"error,omitempty"`
}

// RepoCreator creates repositories and checks the code-sync app
type RepoCreator interface {
	CreateFromTemplate(ctx context.Context, templateOwner, templateRepo, owner, name string) (*github.Repository, error)
	IsAppInstalled(ctx context.Context, owner, repo string) (bool, error)
}

// Cloner clones a repository to a local path
type Cloner interface {
	Clone(ctx context.Context, repoURL, path string) error
}

// SiteConfigurer registers a site and waits for its code to sync
type SiteConfigurer interface {
	ConfigureSite(ctx context.Context, cfg helix.SiteConfig) error
	WaitForCodeSync(ctx context.Context, cfg helix.SiteConfig) error
}

// ContentProvisioner seeds authoring content
type ContentProvisioner interface {
	EnsureContent(ctx context.Context, cfg dalive.Config) (bool, error)
}

// Pipeline wires the integration clients into the phased setup
type Pipeline struct {
	github  RepoCreator
	git     Cloner
	helix   SiteConfigurer
	dalive  ContentProvisioner
	onPhase func(phase string)
}

// NewPipeline creates an EDS setup pipeline. onPhase, when non-nil, is
// called as each phase starts.
func NewPipeline(gh RepoCreator, git Cloner, hlx SiteConfigurer, da ContentProvisioner, onPhase func(phase string)) *Pipeline {
	return &Pipeline{
		github:  gh,
		git:     git,
		helix:   hlx,
		dalive:  da,
		onPhase: onPhase,
	}
}

// Run executes all phases for one project setup
func (p *Pipeline) Run(ctx context.Context, cfg SetupConfig) *SetupResult {
	result := &SetupResult{}

	p.enterPhase(PhaseGitHubRepo)
	repo, err := p.github.CreateFromTemplate(ctx, cfg.TemplateOwner, cfg.TemplateRepo, cfg.Org, cfg.ProjectName)
	if err != nil {
		return p.fail(result, PhaseGitHubRepo, github.FormatError(err), err)
	}
	result.RepoURL = repo.HTMLURL

	p.enterPhase(PhaseGitHubClone)
	if err := p.git.Clone(ctx, repo.CloneURL, cfg.ClonePath); err != nil {
		return p.fail(result, PhaseGitHubClone, github.FormatError(err), err)
	}

	site := helix.SiteConfig{
		Org:     cfg.Org,
		Site:    cfg.ProjectName,
		RepoURL: repo.HTMLURL,
	}

	p.enterPhase(PhaseHelixConfig)
	if err := p.helix.ConfigureSite(ctx, site); err != nil {
		return p.fail(result, PhaseHelixConfig, helix.FormatError(err), err)
	}

	p.enterPhase(PhaseCodeSync)
	if err := p.helix.WaitForCodeSync(ctx, site); err != nil {
		if errors.HasCode(err, errors.ErrTimeout) {
			p.diagnoseCodeSyncTimeout(ctx, cfg)
		}
		return p.fail(result, PhaseCodeSync, helix.FormatError(err), err)
	}

	p.enterPhase(PhaseDaLiveContent)
	created, err := p.dalive.EnsureContent(ctx, cfg.Content)
	if err != nil {
		return p.fail(result, PhaseDaLiveContent, dalive.FormatError(err), err)
	}
	result.ContentCreated = created

	result.Success = true
	return result
}

func (p *Pipeline) enterPhase(phase string) {
	logger.WithField("phase", phase).Info("EDS setup phase started")
	if p.onPhase != nil {
		p.onPhase(phase)
	}
}

func (p *Pipeline) fail(result *SetupResult, phase string, formatted errors.FormattedError, cause error) *SetupResult {
	logger.WithFields(logger.Fields{
		"phase": phase,
		"error": cause.Error(),
	}).Error("EDS setup phase failed")

	result.Success = false
	result.Phase = phase
	result.Error = &formatted
	return result
}

// diagnoseCodeSyncTimeout checks the most common cause of a sync
// timeout, a missing app installation, and logs the finding. The
// original timeout error is still what the caller sees.
func (p *Pipeline) diagnoseCodeSyncTimeout(ctx context.Context, cfg SetupConfig) {
	installed, err := p.github.IsAppInstalled(ctx, cfg.Org, cfg.ProjectName)
	if err != nil {
		logger.WithError(err).Warn("Could not verify code-sync app installation")
		return
	}
	if !installed {
		logger.WithFields(logger.Fields{
			"org":  cfg.Org,
			"repo": cfg.ProjectName,
		}).Warn("Code-sync app is not installed on the repository")
	}
}
