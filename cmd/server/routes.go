package main

import (
	"github.com/apetrila/bugtrail/internal/middleware"
	"github.com/apetrila/bugtrail/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(middleware.RequestID(), logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for the public auth endpoints
	authLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "bugtrail"})
	})

	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		public := api.Group("", authLimiter.Middleware())
		{
			public.POST("/register", svc.authHandler.Register)
			public.POST("/login", svc.authHandler.Login)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)

			// Projects (list is visible to every authenticated user)
			protected.GET("/projects", svc.projectHandler.List)
			protected.GET("/projects/users/mp", svc.projectHandler.ListManagers)
			protected.GET("/projects/:id/bugs", svc.projectHandler.ListBugs)

			// Tester self-service (TST role checked in the service)
			protected.POST("/projects/:id/addTester", svc.testerHandler.Register)
			protected.DELETE("/projects/:id/testers/me", svc.testerHandler.RemoveSelf)

			// Bugs
			protected.GET("/bugs", svc.bugHandler.List)
			protected.POST("/bugs", svc.bugHandler.Create)
			protected.DELETE("/bugs/:id", svc.bugHandler.Delete)
		}

		// Manager only routes
		manager := api.Group("")
		manager.Use(middleware.AuthRequired(), middleware.ManagerRequired(), middleware.AuditLog())
		{
			manager.POST("/projects", svc.projectHandler.Create)
			manager.PUT("/projects/:id", svc.projectHandler.Update)
			manager.DELETE("/projects/:id", svc.projectHandler.Delete)

			manager.GET("/projects/:id/members", svc.memberHandler.List)
			manager.POST("/projects/:id/members", svc.memberHandler.Add)
			manager.DELETE("/projects/:id/members/:userId", svc.memberHandler.Remove)

			manager.GET("/projects/:id/testers", svc.testerHandler.List)
			manager.DELETE("/projects/:id/testers/:userId", svc.testerHandler.Remove)

			manager.POST("/bugs/:id/assign", svc.bugHandler.Assign)
			manager.PUT("/bugs/:id/status", svc.bugHandler.UpdateStatus)

			manager.GET("/audit-logs", svc.auditHandler.List)
		}
	}
}
