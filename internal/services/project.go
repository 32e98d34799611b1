package services

import (
	"net/url"
	"strings"

	"github.com/apetrila/bugtrail/internal/models"
	"github.com/apetrila/bugtrail/pkg/response"
	"gorm.io/gorm"
)

type ProjectService struct {
	db    *gorm.DB
	authz *Authorizer
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db, authz: NewAuthorizer(db)}
}

type CreateProjectRequest struct {
	Name        string `json:"nume" binding:"required"`
	Description string `json:"descriere"`
	Repository  string `json:"repository"`
	TeamMembers []uint `json:"team_members"`
}

type UpdateProjectRequest struct {
	Name        string `json:"nume" binding:"required"`
	Description string `json:"descriere"`
	Repository  string `json:"repository"`
}

// ProjectListItem is a project row annotated with the caller's
// relationship to it. The list is never filtered, only annotated.
type ProjectListItem struct {
	ID           uint   `json:"id"`
	Name         string `json:"nume"`
	Description  string `json:"descriere,omitempty"`
	Repository   string `json:"repository,omitempty"`
	CreatedBy    uint   `json:"created_by"`
	CreatorEmail string `json:"creator_email"`
	IsTester     bool   `json:"is_tester"`
	IsMember     bool   `json:"is_member"`
}

// validateProjectFields checks the shared field constraints and
// normalizes whitespace. Returns the trimmed values.
func validateProjectFields(name, description, repository string) (string, string, string, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	repository = strings.TrimSpace(repository)

	if name == "" {
		return "", "", "", response.NewBadRequest("Nume is required")
	}
	if len(name) > 200 {
		return "", "", "", response.NewBadRequest("Project name must be less than 200 characters")
	}
	if len(description) > 1000 {
		return "", "", "", response.NewBadRequest("Description must be less than 1000 characters")
	}
	if repository != "" && !isValidURL(repository) {
		return "", "", "", response.NewBadRequest("Repository must be a valid URL")
	}
	return name, description, repository, nil
}

// isValidURL accepts absolute http(s)-style URLs only.
func isValidURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// List returns every project annotated with the caller's is_tester and
// is_member flags computed by membership lookup.
func (s *ProjectService) List(callerID uint) ([]ProjectListItem, error) {
	var items []ProjectListItem
	err := s.db.Table("projects p").
		Select(`p.id, p.name, p.description, p.repository, p.created_by, u.email AS creator_email,
			CASE WHEN pt.id IS NOT NULL THEN 1 ELSE 0 END AS is_tester,
			CASE WHEN pm.id IS NOT NULL THEN 1 ELSE 0 END AS is_member`).
		Joins("JOIN users u ON p.created_by = u.id").
		Joins("LEFT JOIN project_testers pt ON pt.project_id = p.id AND pt.user_id = ?", callerID).
		Joins("LEFT JOIN project_members pm ON pm.project_id = p.id AND pm.user_id = ?", callerID).
		Order("p.created_at DESC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Create registers a new project owned by the caller and, when
// team_members is given, adds each listed manager as a member. Any
// invalid or duplicate candidate rejects the whole request; the
// transaction leaves no half-created project behind.
func (s *ProjectService) Create(caller Caller, req *CreateProjectRequest) (*models.Project, error) {
	name, description, repository, err := validateProjectFields(req.Name, req.Description, req.Repository)
	if err != nil {
		return nil, err
	}

	project := models.Project{
		Name:        name,
		Description: description,
		Repository:  repository,
		CreatedBy:   caller.ID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		seen := make(map[uint]bool)
		for _, memberID := range req.TeamMembers {
			if memberID == caller.ID {
				return response.NewBadRequest("You are already the project creator")
			}
			if seen[memberID] {
				return response.NewConflict("User is already a member of this project")
			}
			seen[memberID] = true

			var user models.User
			if err := tx.Where("id = ? AND role = ?", memberID, models.RoleManager).First(&user).Error; err != nil {
				return response.NewBadRequest("Team member not found or is not an MP")
			}

			member := models.ProjectMember{ProjectID: project.ID, UserID: memberID}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &project, nil
}

// Update edits a project's descriptive fields. Creator only.
func (s *ProjectService) Update(caller Caller, projectID uint, req *UpdateProjectRequest) (*models.Project, error) {
	name, description, repository, err := validateProjectFields(req.Name, req.Description, req.Repository)
	if err != nil {
		return nil, err
	}

	project, err := findProject(s.db, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireCreator(caller, project, "You can only edit your own projects"); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":        name,
		"description": description,
		"repository":  repository,
	}
	if err := s.db.Model(project).Updates(updates).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes a project and everything hanging off it. Creator
// only; deletion is physical and cascades to memberships, testerships
// and bugs.
func (s *ProjectService) Delete(caller Caller, projectID uint) error {
	project, err := findProject(s.db, projectID)
	if err != nil {
		return err
	}
	if err := s.authz.RequireCreator(caller, project, "You can only delete your own projects"); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id_project = ?", projectID).Delete(&models.Bug{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectTester{}).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})
}
