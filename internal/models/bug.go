package models

import "time"

// Bug is a report filed by a tester against a project they test.
// AssignedTo is nil until a manager claims the bug; after that it never
// changes, and only the assignee may update status and commit link.
type Bug struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Severity    Severity  `gorm:"size:20;not null" json:"severity"`
	Priority    Priority  `gorm:"size:20;not null" json:"priority"`
	CommitLink  *string   `gorm:"size:500" json:"commit_link"`
	Status      Status    `gorm:"size:20;not null;default:Open;index" json:"status"`
	ProjectID   uint      `gorm:"column:id_project;index;not null" json:"id_project"`
	Project     *Project  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	TesterID    uint      `gorm:"column:id_tester;index;not null" json:"id_tester"`
	Tester      *User     `gorm:"foreignKey:TesterID;constraint:OnDelete:CASCADE" json:"tester,omitempty"`
	AssignedTo  *uint     `gorm:"index" json:"assigned_to"`
	Assignee    *User     `gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL" json:"assignee,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Bug) TableName() string { return "bugs" }
