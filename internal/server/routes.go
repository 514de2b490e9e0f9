package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"demoforge/internal/errors"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// handleError converts errors to appropriate HTTP responses
func handleError(c echo.Context, err error, defaultMessage string) error {
	if de, ok := err.(*errors.DemoforgeError); ok {
		return echo.NewHTTPError(de.GetHTTPStatus(), de.Error())
	}

	if strings.Contains(err.Error(), "not found") {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("%s: %v", defaultMessage, err))
	}

	return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("%s: %v", defaultMessage, err))
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// Swagger documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// Health check
	s.echo.GET("/health", s.handleHealth)

	// API group
	api := s.echo.Group("/api")

	// System status endpoint
	api.GET("/status", s.handleSystemStatus)

	// Projects
	projects := api.Group("/projects")
	projects.GET("", s.handleListProjects)
	projects.GET("/:name", s.handleGetProject)
	projects.POST("/:name/start", s.handleStartProject)
	projects.POST("/:name/stop", s.handleStopProject)
	projects.DELETE("/:name", s.handleDeleteProject)

	// Mesh
	api.GET("/mesh/status", s.handleMeshStatus)

	// Progress events
	s.echo.GET("/ws", s.handleWebSocket)
}

// handleHealth godoc
// @Summary Health check
// @Description Check if the API is healthy
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "1.0.0",
	})
}

// handleSystemStatus godoc
// @Summary System status
// @Description Get dashboard status including storage health and project count
// @Tags system
// @Accept json
// @Produce json
// @Success 200 {object} SystemStatusResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/status [get]
func (s *Server) handleSystemStatus(c echo.Context) error {
	uptime := time.Since(s.startTime)

	dbStatus := "unhealthy"
	projectCount := 0
	if s.state != nil {
		if projects, err := s.state.ListProjects(c.Request().Context()); err == nil {
			dbStatus = "healthy"
			projectCount = len(projects)
		}
	}

	return c.JSON(http.StatusOK, SystemStatusResponse{
		Status:       "running",
		Uptime:       uptime.Round(time.Second).String(),
		Database:     dbStatus,
		ProjectCount: projectCount,
	})
}

// handleListProjects godoc
// @Summary List projects
// @Description List all demo projects and their components
// @Tags projects
// @Accept json
// @Produce json
// @Success 200 {object} ProjectsResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/projects [get]
func (s *Server) handleListProjects(c echo.Context) error {
	projects, err := s.state.ListProjects(c.Request().Context())
	if err != nil {
		return handleError(c, err, "Failed to list projects")
	}

	resp := ProjectsResponse{Total: len(projects)}
	for i := range projects {
		resp.Projects = append(resp.Projects, projectResponse(&projects[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// handleGetProject godoc
// @Summary Get project
// @Description Get a single demo project by name
// @Tags projects
// @Accept json
// @Produce json
// @Param name path string true "Project name"
// @Success 200 {object} ProjectResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/projects/{name} [get]
func (s *Server) handleGetProject(c echo.Context) error {
	project, err := s.state.GetProject(c.Request().Context(), c.Param("name"))
	if err != nil {
		return handleError(c, err, "Failed to get project")
	}
	return c.JSON(http.StatusOK, projectResponse(project))
}

// handleStartProject godoc
// @Summary Start demo
// @Description Start the named project's frontend in a managed terminal
// @Tags projects
// @Accept json
// @Produce json
// @Param name path string true "Project name"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/projects/{name}/start [post]
func (s *Server) handleStartProject(c echo.Context) error {
	return s.runLifecycle(c, "start", s.commands.StartDemo)
}

// handleStopProject godoc
// @Summary Stop demo
// @Description Stop the named project's running frontend
// @Tags projects
// @Accept json
// @Produce json
// @Param name path string true "Project name"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/projects/{name}/stop [post]
func (s *Server) handleStopProject(c echo.Context) error {
	return s.runLifecycle(c, "stop", s.commands.StopDemo)
}

// handleDeleteProject godoc
// @Summary Delete project
// @Description Delete the named project's files and stored state
// @Tags projects
// @Accept json
// @Produce json
// @Param name path string true "Project name"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/projects/{name} [delete]
func (s *Server) handleDeleteProject(c echo.Context) error {
	return s.runLifecycle(c, "delete", s.commands.DeleteProject)
}

// runLifecycle resolves the named project, makes it current, and runs the
// given lifecycle operation, publishing outcome events to the progress hub.
func (s *Server) runLifecycle(c echo.Context, action string, op func(ctx context.Context) error) error {
	ctx := c.Request().Context()
	name := c.Param("name")

	project, err := s.state.GetProject(ctx, name)
	if err != nil {
		return handleError(c, err, "Failed to get project")
	}

	if err := s.state.SetCurrentProject(ctx, project.ID); err != nil {
		return handleError(c, err, "Failed to select project")
	}

	if err := op(ctx); err != nil {
		s.hub.Publish(ProgressEvent{
			Type:    EventStatus,
			Project: project.Name,
			Detail:  fmt.Sprintf("%s failed: %v", action, err),
		})
		return handleError(c, err, fmt.Sprintf("Failed to %s project", action))
	}

	s.hub.Publish(ProgressEvent{
		Type:    EventStatus,
		Project: project.Name,
		Detail:  action + " completed",
	})

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: fmt.Sprintf("Project %q %s completed", project.Name, action),
	})
}

// handleMeshStatus godoc
// @Summary Mesh status
// @Description Check API Mesh deployment status for a workspace
// @Tags mesh
// @Accept json
// @Produce json
// @Param workspace query string true "Workspace path"
// @Success 200 {object} MeshStatusResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/mesh/status [get]
func (s *Server) handleMeshStatus(c echo.Context) error {
	workspace := c.QueryParam("workspace")
	if workspace == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "workspace query parameter is required")
	}

	result, err := s.mesh.CheckMeshStatus(c.Request().Context(), workspace)
	if err != nil {
		return handleError(c, err, "Failed to check mesh status")
	}

	return c.JSON(http.StatusOK, MeshStatusResponse{
		MeshExists: result.MeshExists,
		MeshStatus: result.MeshStatus,
		MeshID:     result.MeshID,
		Endpoint:   result.Endpoint,
		Error:      result.Error,
	})
}
