package commands

import (
	"context"
	"testing"

	"demoforge/internal/config"
	"demoforge/internal/db"
	"demoforge/internal/eds"
	"demoforge/internal/errors"
	"demoforge/internal/mesh"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	projects  map[string]*db.Project
	created   []string
	currentID string
}

func (f *fakeStore) GetCurrentProject(ctx context.Context) (*db.Project, error) {
	for _, p := range f.projects {
		if p.ID == f.currentID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetProject(ctx context.Context, name string) (*db.Project, error) {
	if p, ok := f.projects[name]; ok {
		return p, nil
	}
	return nil, errors.ProjectNotFound(name)
}

func (f *fakeStore) ListProjects(ctx context.Context) ([]db.Project, error) {
	var out []db.Project
	for _, p := range f.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeStore) CreateProject(ctx context.Context, name, path string) (*db.Project, error) {
	p := &db.Project{ID: "id-" + name, Name: name, Path: path, Status: db.StatusCreated}
	f.projects[name] = p
	f.created = append(f.created, name)
	return p, nil
}

func (f *fakeStore) SaveProject(ctx context.Context, project *db.Project) error {
	f.projects[project.Name] = project
	return nil
}

func (f *fakeStore) SetCurrentProject(ctx context.Context, projectID string) error {
	f.currentID = projectID
	return nil
}

type fakeCatalog struct {
	catalog *config.ComponentCatalog
}

func (f *fakeCatalog) Catalog(ctx context.Context) (*config.ComponentCatalog, error) {
	if f.catalog == nil {
		return config.DefaultCatalog(), nil
	}
	return f.catalog, nil
}

type fakeLifecycle struct {
	started int
	stopped int
	deleted int
}

func (f *fakeLifecycle) StartDemo(ctx context.Context) error     { f.started++; return nil }
func (f *fakeLifecycle) StopDemo(ctx context.Context) error      { f.stopped++; return nil }
func (f *fakeLifecycle) DeleteProject(ctx context.Context) error { f.deleted++; return nil }

type fakeSetup struct {
	result *eds.SetupResult
	cfgs   []eds.SetupConfig
}

func (f *fakeSetup) Run(ctx context.Context, cfg eds.SetupConfig) *eds.SetupResult {
	f.cfgs = append(f.cfgs, cfg)
	return f.result
}

type fakeMeshManager struct {
	deployResult *mesh.Result
	checkResult  *mesh.CheckResult
	deployed     []string
}

func (f *fakeMeshManager) DeployMesh(ctx context.Context, configPath string, onProgress mesh.ProgressFunc) (*mesh.Result, error) {
	f.deployed = append(f.deployed, configPath)
	return f.deployResult, nil
}

func (f *fakeMeshManager) CheckMeshStatus(ctx context.Context, workspace string) (*mesh.CheckResult, error) {
	return f.checkResult, nil
}

func testGlobals() *config.GlobalConfig {
	cfg := config.DefaultGlobalConfig()
	cfg.GitHub.Org = "demo-org"
	cfg.Storage.ProjectsPath = "/tmp/demoforge-projects"
	return cfg
}

func execute(t *testing.T, cmds []*cobra.Command, args ...string) error {
	t.Helper()
	root := &cobra.Command{Use: "test", SilenceUsage: true, SilenceErrors: true}
	for _, c := range cmds {
		root.AddCommand(c)
	}
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func TestProjectStart_SelectsNamedProject(t *testing.T) {
	store := &fakeStore{projects: map[string]*db.Project{
		"citisignal": {ID: "proj-1", Name: "citisignal"},
	}}
	lifecycle := &fakeLifecycle{}
	cmds := ProjectCommands(testGlobals(), store, lifecycle, &fakeSetup{}, &fakeCatalog{})

	err := execute(t, cmds, "start", "citisignal")

	require.NoError(t, err)
	assert.Equal(t, "proj-1", store.currentID)
	assert.Equal(t, 1, lifecycle.started)
}

func TestProjectStart_UnknownProjectFails(t *testing.T) {
	store := &fakeStore{projects: map[string]*db.Project{}}
	lifecycle := &fakeLifecycle{}
	cmds := ProjectCommands(testGlobals(), store, lifecycle, &fakeSetup{}, &fakeCatalog{})

	err := execute(t, cmds, "start", "ghost")

	require.Error(t, err)
	assert.Zero(t, lifecycle.started)
}

func TestProjectStopAndDelete(t *testing.T) {
	store := &fakeStore{projects: map[string]*db.Project{
		"citisignal": {ID: "proj-1", Name: "citisignal"},
	}}
	lifecycle := &fakeLifecycle{}
	cmds := ProjectCommands(testGlobals(), store, lifecycle, &fakeSetup{}, &fakeCatalog{})

	require.NoError(t, execute(t, cmds, "stop", "citisignal"))
	assert.Equal(t, 1, lifecycle.stopped)

	require.NoError(t, execute(t, cmds, "delete", "citisignal"))
	assert.Equal(t, 1, lifecycle.deleted)
}

func TestProjectCreate_RunsSetupThenPersists(t *testing.T) {
	store := &fakeStore{projects: map[string]*db.Project{}}
	setup := &fakeSetup{result: &eds.SetupResult{
		Success:        true,
		RepoURL:        "https://github.com/demo-org/my-demo",
		ContentCreated: true,
	}}
	cmds := ProjectCommands(testGlobals(), store, &fakeLifecycle{}, setup, &fakeCatalog{})

	err := execute(t, cmds, "create", "my-demo")

	require.NoError(t, err)
	require.Len(t, setup.cfgs, 1)
	assert.Equal(t, "demo-org", setup.cfgs[0].Org)
	assert.Equal(t, "my-demo", setup.cfgs[0].ProjectName)
	assert.Equal(t, "/tmp/demoforge-projects/my-demo", setup.cfgs[0].ClonePath)
	assert.Equal(t, []string{"my-demo"}, store.created)

	// Components are seeded from the catalog
	created := store.projects["my-demo"]
	require.NotNil(t, created)
	assert.NotEmpty(t, created.Components)
	assert.NotNil(t, created.Frontend())
}

func TestProjectCreate_SetupFailureDoesNotPersist(t *testing.T) {
	store := &fakeStore{projects: map[string]*db.Project{}}
	setup := &fakeSetup{result: &eds.SetupResult{
		Success: false,
		Phase:   eds.PhaseGitHubClone,
		RepoURL: "https://github.com/demo-org/my-demo",
		Error:   &errors.FormattedError{Code: "NETWORK_ERROR", UserMessage: "Clone failed"},
	}}
	cmds := ProjectCommands(testGlobals(), store, &fakeLifecycle{}, setup, &fakeCatalog{})

	err := execute(t, cmds, "create", "my-demo")

	require.Error(t, err)
	assert.Contains(t, err.Error(), eds.PhaseGitHubClone)
	assert.Empty(t, store.created)
}

func TestProjectCreate_RejectsHostileName(t *testing.T) {
	store := &fakeStore{projects: map[string]*db.Project{}}
	setup := &fakeSetup{}
	cmds := ProjectCommands(testGlobals(), store, &fakeLifecycle{}, setup, &fakeCatalog{})

	err := execute(t, cmds, "create", "demo; rm -rf /")

	require.Error(t, err)
	assert.Empty(t, setup.cfgs)
}

func TestProjectCreate_ExistingNameRejected(t *testing.T) {
	store := &fakeStore{projects: map[string]*db.Project{
		"my-demo": {ID: "proj-1", Name: "my-demo"},
	}}
	setup := &fakeSetup{}
	cmds := ProjectCommands(testGlobals(), store, &fakeLifecycle{}, setup, &fakeCatalog{})

	err := execute(t, cmds, "create", "my-demo")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Empty(t, setup.cfgs)
}

func TestMeshDeployCommand(t *testing.T) {
	meshMgr := &fakeMeshManager{deployResult: &mesh.Result{
		Success:  true,
		MeshID:   "abc-123",
		Endpoint: "https://edge-graph.adobe.io/api/abc-123/graphql",
		Message:  "API Mesh deployed successfully",
	}}
	cmds := MeshCommands(&fakeStore{projects: map[string]*db.Project{}}, meshMgr)

	err := execute(t, cmds, "deploy", "mesh.json")

	require.NoError(t, err)
	assert.Equal(t, []string{"mesh.json"}, meshMgr.deployed)
}
