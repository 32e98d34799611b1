package services

import (
	"errors"
	"strings"

	"github.com/apetrila/bugtrail/internal/models"
	"github.com/apetrila/bugtrail/pkg/response"
	"gorm.io/gorm"
)

// BugService owns bug creation and the two-phase lifecycle: a one-way
// assignment gate, then free status movement by the assignee.
type BugService struct {
	db    *gorm.DB
	authz *Authorizer
}

func NewBugService(db *gorm.DB) *BugService {
	return &BugService{db: db, authz: NewAuthorizer(db)}
}

type CreateBugRequest struct {
	Description string `json:"description" binding:"required"`
	Severity    string `json:"severity" binding:"required"`
	Priority    string `json:"priority" binding:"required"`
	CommitLink  string `json:"commit_link"`
	ProjectID   uint   `json:"id_project" binding:"required"`
}

type UpdateBugStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	CommitLink string `json:"commit_link"`
}

// normalizeCommitLink trims the link and validates it as a URL when
// non-empty. Returns nil for an absent link.
func normalizeCommitLink(link string) (*string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, nil
	}
	if !isValidURL(link) {
		return nil, response.NewBadRequest("Commit link must be a valid URL")
	}
	return &link, nil
}

// Create files a bug against a project. The caller must be a TST user
// holding a tester registration on the project; this is checked once,
// at creation.
func (s *BugService) Create(caller Caller, req *CreateBugRequest) (*models.Bug, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, response.NewBadRequest("Description is required")
	}

	severity := models.Severity(strings.TrimSpace(req.Severity))
	if !severity.Valid() {
		return nil, response.NewBadRequest("Severity must be one of Low, Medium, High, Critical")
	}

	priority := models.Priority(strings.TrimSpace(req.Priority))
	if !priority.Valid() {
		return nil, response.NewBadRequest("Priority must be one of Low, Medium, High, Urgent")
	}

	commitLink, err := normalizeCommitLink(req.CommitLink)
	if err != nil {
		return nil, err
	}

	if _, err := findProject(s.db, req.ProjectID); err != nil {
		return nil, err
	}

	if !caller.IsTester() {
		return nil, response.NewForbidden("Only testers can create bugs for this project")
	}
	tester, err := s.authz.IsTester(req.ProjectID, caller.ID)
	if err != nil {
		return nil, err
	}
	if !tester {
		return nil, response.NewForbidden("Only testers can create bugs for this project")
	}

	bug := models.Bug{
		Description: description,
		Severity:    severity,
		Priority:    priority,
		CommitLink:  commitLink,
		Status:      models.StatusOpen,
		ProjectID:   req.ProjectID,
		TesterID:    caller.ID,
	}
	if err := s.db.Create(&bug).Error; err != nil {
		return nil, err
	}
	return &bug, nil
}

// ListOwn returns the bugs the caller reported, newest first.
func (s *BugService) ListOwn(caller Caller) ([]models.Bug, error) {
	if !caller.IsTester() {
		return nil, response.NewForbidden("Only testers can list their reported bugs")
	}

	var bugs []models.Bug
	err := s.db.Where("id_tester = ?", caller.ID).
		Preload("Project").
		Order("created_at DESC").
		Find(&bugs).Error
	if err != nil {
		return nil, err
	}
	return bugs, nil
}

// ListForProject returns every bug on a project, visible to the
// project's creator and members.
func (s *BugService) ListForProject(caller Caller, projectID uint) ([]models.Bug, error) {
	project, err := findProject(s.db, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanViewProjectBugs(caller, project); err != nil {
		return nil, err
	}

	var bugs []models.Bug
	err = s.db.Where("id_project = ?", projectID).
		Preload("Tester").
		Preload("Assignee").
		Order("created_at DESC").
		Find(&bugs).Error
	if err != nil {
		return nil, err
	}
	return bugs, nil
}

// Assign lets the project's creator claim an unassigned bug. The
// check-and-set is a single conditional UPDATE so two concurrent
// assigns cannot both win; the loser gets a conflict.
func (s *BugService) Assign(caller Caller, bugID uint) (*models.Bug, error) {
	bug, err := s.findBug(bugID)
	if err != nil {
		return nil, err
	}

	project, err := findProject(s.db, bug.ProjectID)
	if err != nil {
		return nil, err
	}
	if !caller.IsManager() || project.CreatedBy != caller.ID {
		return nil, response.NewForbidden("Only the project creator can assign bugs")
	}

	result := s.db.Model(&models.Bug{}).
		Where("id = ? AND assigned_to IS NULL", bugID).
		Update("assigned_to", caller.ID)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, response.NewConflict("Bug is already assigned")
	}

	bug.AssignedTo = &caller.ID
	return bug, nil
}

// UpdateStatus lets the assignee move a bug between statuses and set
// the commit link. Both columns are overwritten: omitting the link
// clears it.
func (s *BugService) UpdateStatus(caller Caller, bugID uint, req *UpdateBugStatusRequest) (*models.Bug, error) {
	status := models.Status(strings.TrimSpace(req.Status))
	if !status.Valid() {
		return nil, response.NewBadRequest("Status must be one of Open, In Progress, Fixed, Closed")
	}

	commitLink, err := normalizeCommitLink(req.CommitLink)
	if err != nil {
		return nil, err
	}

	bug, err := s.findBug(bugID)
	if err != nil {
		return nil, err
	}

	if bug.AssignedTo == nil || *bug.AssignedTo != caller.ID {
		return nil, response.NewForbidden("Only the assigned manager can update this bug")
	}

	updates := map[string]interface{}{
		"status":      status,
		"commit_link": commitLink,
	}
	if err := s.db.Model(bug).Updates(updates).Error; err != nil {
		return nil, err
	}

	bug.Status = status
	bug.CommitLink = commitLink
	return bug, nil
}

// Delete removes a bug. Allowed for the original reporter and for
// managers who created or co-manage the bug's project.
func (s *BugService) Delete(caller Caller, bugID uint) error {
	bug, err := s.findBug(bugID)
	if err != nil {
		return err
	}

	project, err := findProject(s.db, bug.ProjectID)
	if err != nil {
		return err
	}
	if err := s.authz.CanDeleteBug(caller, bug, project); err != nil {
		return err
	}

	return s.db.Delete(bug).Error
}

func (s *BugService) findBug(id uint) (*models.Bug, error) {
	var bug models.Bug
	if err := s.db.First(&bug, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("Bug not found")
		}
		return nil, err
	}
	return &bug, nil
}
