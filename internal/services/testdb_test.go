package services

import (
	"errors"
	"testing"

	"github.com/apetrila/bugtrail/internal/models"
	"github.com/apetrila/bugtrail/pkg/response"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database with the full schema.
// A single connection keeps the memory database alive and shared.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.ProjectTester{},
		&models.Bug{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	user := models.User{
		Email:    email,
		Password: "$2a$10$not.a.real.hash.for.tests",
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return &user
}

func createProject(t *testing.T, db *gorm.DB, name string, creator *models.User) *models.Project {
	t.Helper()
	project := models.Project{Name: name, CreatedBy: creator.ID}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("failed to create project %s: %v", name, err)
	}
	return &project
}

func addMemberRow(t *testing.T, db *gorm.DB, project *models.Project, user *models.User) {
	t.Helper()
	if err := db.Create(&models.ProjectMember{ProjectID: project.ID, UserID: user.ID}).Error; err != nil {
		t.Fatalf("failed to add member: %v", err)
	}
}

func addTesterRow(t *testing.T, db *gorm.DB, project *models.Project, user *models.User) {
	t.Helper()
	if err := db.Create(&models.ProjectTester{ProjectID: project.ID, UserID: user.ID}).Error; err != nil {
		t.Fatalf("failed to add tester: %v", err)
	}
}

func asCaller(user *models.User) Caller {
	return Caller{ID: user.ID, Role: user.Role}
}

// wantAppError asserts err is an *AppError with the given HTTP status
// and app code.
func wantAppError(t *testing.T, err error, httpStatus, code int) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.HTTPStatus != httpStatus {
		t.Errorf("HTTPStatus = %d, expected %d (%v)", appErr.HTTPStatus, httpStatus, err)
	}
	if appErr.Code != code {
		t.Errorf("Code = %d, expected %d (%v)", appErr.Code, code, err)
	}
}
