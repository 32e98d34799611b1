package handlers

import (
	"github.com/apetrila/bugtrail/internal/services"
	"github.com/apetrila/bugtrail/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProjectTesterHandler exposes the tester registration endpoints.
type ProjectTesterHandler struct {
	membershipService *services.MembershipService
}

func NewProjectTesterHandler(db *gorm.DB) *ProjectTesterHandler {
	return &ProjectTesterHandler{membershipService: services.NewMembershipService(db)}
}

// List returns all testers of a project
// GET /api/projects/:id/testers
func (h *ProjectTesterHandler) List(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	testers, err := h.membershipService.ListTesters(caller(c), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, testers)
}

// Register adds the caller as tester on a project
// POST /api/projects/:id/addTester
func (h *ProjectTesterHandler) Register(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.membershipService.AddTesterSelf(caller(c), projectID); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"message": "Successfully added as tester"})
}

// RemoveSelf removes the caller's own tester registration
// DELETE /api/projects/:id/testers/me
func (h *ProjectTesterHandler) RemoveSelf(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.membershipService.RemoveTesterSelf(caller(c), projectID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "Successfully removed as tester"})
}

// Remove removes a tester on the creator's behalf
// DELETE /api/projects/:id/testers/:userId
func (h *ProjectTesterHandler) Remove(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if err := h.membershipService.RemoveTester(caller(c), projectID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "Tester removed successfully"})
}
