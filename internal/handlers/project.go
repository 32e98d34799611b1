package handlers

import (
	"strconv"

	"github.com/apetrila/bugtrail/internal/middleware"
	"github.com/apetrila/bugtrail/internal/services"
	"github.com/apetrila/bugtrail/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	authService    *services.AuthService
	bugService     *services.BugService
}

func NewProjectHandler(db *gorm.DB, authService *services.AuthService) *ProjectHandler {
	return &ProjectHandler{
		projectService: services.NewProjectService(db),
		authService:    authService,
		bugService:     services.NewBugService(db),
	}
}

// caller builds the caller identity from the request context.
func caller(c *gin.Context) services.Caller {
	return services.Caller{
		ID:   middleware.GetUserID(c),
		Role: middleware.GetRole(c),
	}
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		response.BadRequest(c, "Valid "+name+" is required")
		return 0, false
	}
	return uint(id), true
}

// List returns all projects annotated with the caller's flags
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	items, err := h.projectService.List(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, items)
}

// Create registers a new project
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Nume is required")
		return
	}

	project, err := h.projectService.Create(caller(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, project)
}

// Update edits a project
// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Nume is required")
		return
	}

	project, err := h.projectService.Update(caller(c), projectID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// Delete removes a project and its relationships
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.Delete(caller(c), projectID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "Project deleted successfully"})
}

// ListBugs returns a project's bugs
// GET /api/projects/:id/bugs
func (h *ProjectHandler) ListBugs(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	bugs, err := h.bugService.ListForProject(caller(c), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, bugs)
}

// ListManagers returns MP users available as team members
// GET /api/projects/users/mp
func (h *ProjectHandler) ListManagers(c *gin.Context) {
	users, err := h.authService.ListManagers(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, users)
}
