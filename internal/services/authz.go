package services

import (
	"errors"

	"github.com/apetrila/bugtrail/internal/models"
	"github.com/apetrila/bugtrail/pkg/response"
	"gorm.io/gorm"
)

// Caller is the identity decoded from the request token. It is trusted
// verbatim; every rule below works from it plus current store contents.
type Caller struct {
	ID   uint
	Role models.Role
}

func (c Caller) IsManager() bool { return c.Role == models.RoleManager }
func (c Caller) IsTester() bool  { return c.Role == models.RoleTester }

// Authorizer evaluates the relationship rules between a caller and the
// stored projects, memberships and bugs. A denial is a normal outcome
// returned as a 403 AppError carrying the reason; only store failures
// surface as plain errors.
type Authorizer struct {
	db *gorm.DB
}

func NewAuthorizer(db *gorm.DB) *Authorizer {
	return &Authorizer{db: db}
}

// IsMember reports whether the user holds a ProjectMember row for the project.
func (a *Authorizer) IsMember(projectID, userID uint) (bool, error) {
	var count int64
	err := a.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}

// IsTester reports whether the user holds a ProjectTester row for the project.
func (a *Authorizer) IsTester(projectID, userID uint) (bool, error) {
	var count int64
	err := a.db.Model(&models.ProjectTester{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}

// RequireCreator allows only the project's creator. Covers project
// edit/delete and all member/tester administration.
func (a *Authorizer) RequireCreator(caller Caller, project *models.Project, reason string) error {
	if project.CreatedBy != caller.ID {
		return response.NewForbidden(reason)
	}
	return nil
}

// CanViewProjectBugs allows a manager who created the project or holds
// a membership on it.
func (a *Authorizer) CanViewProjectBugs(caller Caller, project *models.Project) error {
	if !caller.IsManager() {
		return response.NewForbidden("You can only view bugs for projects you are part of")
	}
	if project.CreatedBy == caller.ID {
		return nil
	}
	member, err := a.IsMember(project.ID, caller.ID)
	if err != nil {
		return err
	}
	if !member {
		return response.NewForbidden("You can only view bugs for projects you are part of")
	}
	return nil
}

// CanDeleteBug allows the original reporter, or a manager who created
// the bug's project or holds a membership on it.
func (a *Authorizer) CanDeleteBug(caller Caller, bug *models.Bug, project *models.Project) error {
	if bug.TesterID == caller.ID {
		return nil
	}
	if caller.IsManager() {
		if project.CreatedBy == caller.ID {
			return nil
		}
		member, err := a.IsMember(project.ID, caller.ID)
		if err != nil {
			return err
		}
		if member {
			return nil
		}
	}
	return response.NewForbidden("You cannot delete this bug")
}

// findProject loads a project or returns a 404 AppError.
func findProject(db *gorm.DB, id uint) (*models.Project, error) {
	var project models.Project
	if err := db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("Project not found")
		}
		return nil, err
	}
	return &project, nil
}
