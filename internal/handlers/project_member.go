package handlers

import (
	"github.com/apetrila/bugtrail/internal/services"
	"github.com/apetrila/bugtrail/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProjectMemberHandler exposes the co-manager endpoints of a project.
type ProjectMemberHandler struct {
	membershipService *services.MembershipService
}

func NewProjectMemberHandler(db *gorm.DB) *ProjectMemberHandler {
	return &ProjectMemberHandler{membershipService: services.NewMembershipService(db)}
}

type AddMemberRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// List returns all members of a project
// GET /api/projects/:id/members
func (h *ProjectMemberHandler) List(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	members, err := h.membershipService.ListMembers(caller(c), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, members)
}

// Add adds a manager as co-member
// POST /api/projects/:id/members
func (h *ProjectMemberHandler) Add(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Valid user ID is required")
		return
	}

	if err := h.membershipService.AddMember(caller(c), projectID, req.UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"message": "Member added successfully"})
}

// Remove removes a co-member from a project
// DELETE /api/projects/:id/members/:userId
func (h *ProjectMemberHandler) Remove(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if err := h.membershipService.RemoveMember(caller(c), projectID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "Member removed successfully"})
}
