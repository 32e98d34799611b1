package models

import "time"

// ProjectTester links a tester (role TST) to a project they may file
// bugs against. A project's creator can never hold a tester row for
// their own project.
type ProjectTester struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"uniqueIndex:idx_tester_project_user;index;not null" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	UserID    uint      `gorm:"uniqueIndex:idx_tester_project_user;index;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProjectTester) TableName() string { return "project_testers" }
