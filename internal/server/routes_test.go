package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"demoforge/internal/db"
	"demoforge/internal/errors"
	"demoforge/internal/mesh"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	projects  map[string]*db.Project
	currentID string
	listErr   error
}

func (f *fakeStore) GetProject(ctx context.Context, name string) (*db.Project, error) {
	if p, ok := f.projects[name]; ok {
		return p, nil
	}
	return nil, errors.ProjectNotFound(name)
}

func (f *fakeStore) ListProjects(ctx context.Context) ([]db.Project, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []db.Project
	for _, p := range f.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeStore) SetCurrentProject(ctx context.Context, projectID string) error {
	f.currentID = projectID
	return nil
}

type fakeCommands struct {
	started  int
	stopped  int
	deleted  int
	startErr error
	stopErr  error
}

func (f *fakeCommands) StartDemo(ctx context.Context) error {
	f.started++
	return f.startErr
}

func (f *fakeCommands) StopDemo(ctx context.Context) error {
	f.stopped++
	return f.stopErr
}

func (f *fakeCommands) DeleteProject(ctx context.Context) error {
	f.deleted++
	return nil
}

type fakeMesh struct {
	result *mesh.CheckResult
	err    error
}

func (f *fakeMesh) CheckMeshStatus(ctx context.Context, workspace string) (*mesh.CheckResult, error) {
	return f.result, f.err
}

func newTestServer(store *fakeStore, commands *fakeCommands, meshChecker *fakeMesh) *Server {
	return NewWithDependencies(DefaultConfig(), store, commands, meshChecker)
}

func testStore() *fakeStore {
	return &fakeStore{
		projects: map[string]*db.Project{
			"citisignal": {
				ID:     "proj-1",
				Name:   "citisignal",
				Path:   "/tmp/citisignal",
				Status: db.StatusReady,
				Components: map[string]*db.ComponentInstance{
					"comp-frontend": {
						ID:   "comp-frontend",
						Name: "storefront",
						Type: db.ComponentFrontend,
						Port: 3000,
					},
				},
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			},
		},
	}
}

func doRequest(t *testing.T, srv *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(testStore(), &fakeCommands{}, &fakeMesh{})

	rec := doRequest(t, srv, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestSystemStatus(t *testing.T) {
	srv := newTestServer(testStore(), &fakeCommands{}, &fakeMesh{})

	rec := doRequest(t, srv, http.MethodGet, "/api/status")

	require.Equal(t, http.StatusOK, rec.Code)
	var body SystemStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "running", body.Status)
	assert.Equal(t, "healthy", body.Database)
	assert.Equal(t, 1, body.ProjectCount)
}

func TestListProjects(t *testing.T) {
	srv := newTestServer(testStore(), &fakeCommands{}, &fakeMesh{})

	rec := doRequest(t, srv, http.MethodGet, "/api/projects")

	require.Equal(t, http.StatusOK, rec.Code)
	var body ProjectsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "citisignal", body.Projects[0].Name)
	require.Len(t, body.Projects[0].Components, 1)
	assert.Equal(t, 3000, body.Projects[0].Components[0].Port)
}

func TestGetProject_NotFound(t *testing.T) {
	srv := newTestServer(testStore(), &fakeCommands{}, &fakeMesh{})

	rec := doRequest(t, srv, http.MethodGet, "/api/projects/nonexistent")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartProject_SelectsThenStarts(t *testing.T) {
	store := testStore()
	commands := &fakeCommands{}
	srv := newTestServer(store, commands, &fakeMesh{})

	rec := doRequest(t, srv, http.MethodPost, "/api/projects/citisignal/start")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "proj-1", store.currentID)
	assert.Equal(t, 1, commands.started)
}

func TestStartProject_UnknownProjectNeverRunsCommand(t *testing.T) {
	commands := &fakeCommands{}
	srv := newTestServer(testStore(), commands, &fakeMesh{})

	rec := doRequest(t, srv, http.MethodPost, "/api/projects/ghost/start")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, commands.started)
}

func TestStartProject_CommandFailureSurfacesStatus(t *testing.T) {
	commands := &fakeCommands{
		startErr: errors.New(errors.ErrInvalidPort, "port 3000 is already in use"),
	}
	srv := newTestServer(testStore(), commands, &fakeMesh{})

	rec := doRequest(t, srv, http.MethodPost, "/api/projects/citisignal/start")

	assert.NotEqual(t, http.StatusOK, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "already in use")
}

func TestStopAndDeleteProject(t *testing.T) {
	commands := &fakeCommands{}
	srv := newTestServer(testStore(), commands, &fakeMesh{})

	rec := doRequest(t, srv, http.MethodPost, "/api/projects/citisignal/stop")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, commands.stopped)

	rec = doRequest(t, srv, http.MethodDelete, "/api/projects/citisignal")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, commands.deleted)
}

func TestMeshStatus(t *testing.T) {
	meshChecker := &fakeMesh{
		result: &mesh.CheckResult{
			MeshExists: true,
			MeshStatus: mesh.StatusDeployed,
			MeshID:     "abc-123",
			Endpoint:   "https://edge-graph.adobe.io/api/abc-123/graphql",
		},
	}
	srv := newTestServer(testStore(), &fakeCommands{}, meshChecker)

	rec := doRequest(t, srv, http.MethodGet, "/api/mesh/status?workspace=/tmp/citisignal")

	require.Equal(t, http.StatusOK, rec.Code)
	var body MeshStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.MeshExists)
	assert.Equal(t, "abc-123", body.MeshID)
}

func TestMeshStatus_RequiresWorkspace(t *testing.T) {
	srv := newTestServer(testStore(), &fakeCommands{}, &fakeMesh{})

	rec := doRequest(t, srv, http.MethodGet, "/api/mesh/status")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	srv := newTestServer(testStore(), &fakeCommands{}, &fakeMesh{})

	rec := doRequest(t, srv, http.MethodGet, "/health")

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
