package handlers

import (
	"github.com/apetrila/bugtrail/internal/services"
	"github.com/apetrila/bugtrail/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BugHandler struct {
	bugService *services.BugService
}

func NewBugHandler(db *gorm.DB) *BugHandler {
	return &BugHandler{bugService: services.NewBugService(db)}
}

// Create files a bug against a project
// POST /api/bugs
func (h *BugHandler) Create(c *gin.Context) {
	var req services.CreateBugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Description, severity, priority and project ID are required")
		return
	}

	bug, err := h.bugService.Create(caller(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, bug)
}

// List returns the caller's reported bugs
// GET /api/bugs
func (h *BugHandler) List(c *gin.Context) {
	bugs, err := h.bugService.ListOwn(caller(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, bugs)
}

// Assign claims an unassigned bug for the caller
// POST /api/bugs/:id/assign
func (h *BugHandler) Assign(c *gin.Context) {
	bugID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	bug, err := h.bugService.Assign(caller(c), bugID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, bug)
}

// UpdateStatus moves a bug between statuses
// PUT /api/bugs/:id/status
func (h *BugHandler) UpdateStatus(c *gin.Context) {
	bugID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateBugStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Status is required")
		return
	}

	bug, err := h.bugService.UpdateStatus(caller(c), bugID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, bug)
}

// Delete removes a bug
// DELETE /api/bugs/:id
func (h *BugHandler) Delete(c *gin.Context) {
	bugID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.bugService.Delete(caller(c), bugID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "Bug deleted successfully"})
}
