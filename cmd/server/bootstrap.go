package main

import (
	"github.com/apetrila/bugtrail/internal/config"
	"github.com/apetrila/bugtrail/internal/handlers"
	"github.com/apetrila/bugtrail/internal/models"
	"github.com/apetrila/bugtrail/internal/services"
	"github.com/apetrila/bugtrail/internal/utils"
	"github.com/apetrila/bugtrail/pkg/logger"
)

// appServices holds the initialized handlers shared across routes.
type appServices struct {
	cfg            *config.Config
	authHandler    *handlers.AuthHandler
	projectHandler *handlers.ProjectHandler
	memberHandler  *handlers.ProjectMemberHandler
	testerHandler  *handlers.ProjectTesterHandler
	bugHandler     *handlers.BugHandler
	auditHandler   *handlers.AuditLogHandler
}

// bootstrap initializes all application dependencies: database,
// services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	services.InitAuditLogger(db)
	services.StartAuditCleanupScheduler(db, cfg.Audit.RetentionDays)

	authHandler := handlers.NewAuthHandler(db, cfg)
	authService := services.NewAuthService(db, &cfg.JWT)

	return &appServices{
		cfg:            cfg,
		authHandler:    authHandler,
		projectHandler: handlers.NewProjectHandler(db, authService),
		memberHandler:  handlers.NewProjectMemberHandler(db),
		testerHandler:  handlers.NewProjectTesterHandler(db),
		bugHandler:     handlers.NewBugHandler(db),
		auditHandler:   handlers.NewAuditLogHandler(db),
	}
}
