package services

import (
	"errors"

	"github.com/apetrila/bugtrail/internal/models"
	"github.com/apetrila/bugtrail/pkg/response"
	"gorm.io/gorm"
)

// MembershipService maintains the two project relationships: members
// (co-managers) and testers. The creator and the member set stay
// disjoint, and membership and testership exclude each other for the
// same project and user.
type MembershipService struct {
	db    *gorm.DB
	authz *Authorizer
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db, authz: NewAuthorizer(db)}
}

// RelationshipEntry is a member or tester row with the user's email.
type RelationshipEntry struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}

// ListMembers returns a project's member list. Creator only; members
// themselves are not granted this view.
func (s *MembershipService) ListMembers(caller Caller, projectID uint) ([]RelationshipEntry, error) {
	project, err := findProject(s.db, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireCreator(caller, project, "You can only view members of your own projects"); err != nil {
		return nil, err
	}
	return s.listRelationship(&models.ProjectMember{}, "project_members", projectID)
}

// ListTesters returns a project's tester list. Creator only.
func (s *MembershipService) ListTesters(caller Caller, projectID uint) ([]RelationshipEntry, error) {
	project, err := findProject(s.db, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireCreator(caller, project, "You can only view testers of your own projects"); err != nil {
		return nil, err
	}
	return s.listRelationship(&models.ProjectTester{}, "project_testers", projectID)
}

func (s *MembershipService) listRelationship(model interface{}, table string, projectID uint) ([]RelationshipEntry, error) {
	var entries []RelationshipEntry
	err := s.db.Model(model).
		Select(table+".user_id, users.email").
		Joins("JOIN users ON users.id = "+table+".user_id").
		Where(table+".project_id = ?", projectID).
		Order("users.email").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// AddMember adds a manager as co-member of a project. Creator only;
// the candidate must be an MP, must not be the caller, must not
// already hold a member or tester row for the project.
func (s *MembershipService) AddMember(caller Caller, projectID, userID uint) error {
	project, err := findProject(s.db, projectID)
	if err != nil {
		return err
	}
	if err := s.authz.RequireCreator(caller, project, "You can only add members to your own projects"); err != nil {
		return err
	}
	if userID == caller.ID {
		return response.NewBadRequest("You are already the project creator")
	}

	var user models.User
	if err := s.db.Where("id = ? AND role = ?", userID, models.RoleManager).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("User not found or is not an MP")
		}
		return err
	}

	member, err := s.authz.IsMember(projectID, userID)
	if err != nil {
		return err
	}
	if member {
		return response.NewConflict("User is already a member of this project")
	}

	tester, err := s.authz.IsTester(projectID, userID)
	if err != nil {
		return err
	}
	if tester {
		return response.NewConflict("User is already a tester of this project")
	}

	return s.db.Create(&models.ProjectMember{ProjectID: projectID, UserID: userID}).Error
}

// RemoveMember removes a co-member from a project. Creator only; 404
// when no such member exists.
func (s *MembershipService) RemoveMember(caller Caller, projectID, userID uint) error {
	project, err := findProject(s.db, projectID)
	if err != nil {
		return err
	}
	if err := s.authz.RequireCreator(caller, project, "You can only remove members from your own projects"); err != nil {
		return err
	}

	result := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).Delete(&models.ProjectMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("Member not found in this project")
	}
	return nil
}

// AddTesterSelf registers the caller as tester on a project. TST only;
// the project creator cannot test their own project, and existing
// members or testers are rejected.
func (s *MembershipService) AddTesterSelf(caller Caller, projectID uint) error {
	if !caller.IsTester() {
		return response.NewForbidden("Only TST users can become testers")
	}

	project, err := findProject(s.db, projectID)
	if err != nil {
		return err
	}
	if project.CreatedBy == caller.ID {
		return response.NewForbidden("Project members cannot become testers")
	}

	member, err := s.authz.IsMember(projectID, caller.ID)
	if err != nil {
		return err
	}
	if member {
		return response.NewConflict("Project members cannot become testers")
	}

	tester, err := s.authz.IsTester(projectID, caller.ID)
	if err != nil {
		return err
	}
	if tester {
		return response.NewConflict("You are already a tester for this project")
	}

	return s.db.Create(&models.ProjectTester{ProjectID: projectID, UserID: caller.ID}).Error
}

// RemoveTesterSelf removes the caller's own tester registration. TST
// only; 404 when the caller is not a tester of the project.
func (s *MembershipService) RemoveTesterSelf(caller Caller, projectID uint) error {
	if !caller.IsTester() {
		return response.NewForbidden("Only TST users can remove themselves as testers")
	}

	if _, err := findProject(s.db, projectID); err != nil {
		return err
	}

	result := s.db.Where("project_id = ? AND user_id = ?", projectID, caller.ID).Delete(&models.ProjectTester{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("You are not a tester for this project")
	}
	return nil
}

// RemoveTester removes a tester from a project on the creator's
// behalf. 404 when no such tester exists.
func (s *MembershipService) RemoveTester(caller Caller, projectID, userID uint) error {
	project, err := findProject(s.db, projectID)
	if err != nil {
		return err
	}
	if err := s.authz.RequireCreator(caller, project, "You can only remove testers from your own projects"); err != nil {
		return err
	}

	result := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).Delete(&models.ProjectTester{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("Tester not found in this project")
	}
	return nil
}
