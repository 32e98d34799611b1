package models

import "time"

// Project is a piece of software registered for testing. It belongs to
// the manager who created it; only that manager may edit or delete it.
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"nume"`
	Description string    `gorm:"size:1000" json:"descriere,omitempty"`
	Repository  string    `gorm:"size:500" json:"repository,omitempty"`
	CreatedBy   uint      `gorm:"index;not null" json:"created_by"`
	Creator     *User     `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Project) TableName() string { return "projects" }
