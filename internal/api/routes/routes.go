package routes

import (
	"time"

	"insightboard/internal/api/handlers"
	"insightboard/internal/api/middleware"
	"insightboard/internal/authz"
	"insightboard/internal/config"
	"insightboard/internal/ratelimit"
	"insightboard/internal/realtime"
	"insightboard/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires the guard pipeline and the route table. Gate order is
// fixed on every route: IP gate, rate limit, session, role, permission.
// Each stage is a cheaper reject than the next.
//
// The admin-vs-permission choice is deliberate per route: navigational and
// administrative surfaces accept role membership; destructive or
// security-sensitive operations demand the explicit permission.
func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	// Shared infrastructure
	limiter := ratelimit.New()
	hub := realtime.NewHub()

	// Services
	authService := services.NewAuthService(cfg)
	auditService := services.NewAuditService()
	notificationService := services.NewNotificationService(hub)
	securityService := services.NewSecurityService(notificationService)
	blacklistService := services.NewBlacklistService(auditService, securityService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, auditService, securityService, cfg)
	userHandler := handlers.NewUserHandler(cfg, auditService, notificationService, securityService)
	roleHandler := handlers.NewRoleHandler(auditService)
	contentHandler := handlers.NewContentHandler(auditService)
	securityHandler := handlers.NewSecurityHandler(blacklistService, securityService, auditService)
	analyticsHandler := handlers.NewAnalyticsHandler()
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	uploadHandler := handlers.NewUploadHandler(auditService)
	wsHandler := handlers.NewWSHandler(hub)
	pageHandler := handlers.NewPageHandler(authService)

	// Guard stages
	ipGate := middleware.IPGate(blacklistService)
	generalLimit := middleware.RateLimit(limiter, cfg, "general", cfg.Security.RateLimit.General, time.Minute)
	loginLimit := middleware.RateLimit(limiter, cfg, "login", cfg.Security.RateLimit.Login, time.Minute)
	resetLimit := middleware.RateLimit(limiter, cfg, "reset", cfg.Security.RateLimit.PasswordReset, 15*time.Minute)
	uploadLimit := middleware.RateLimit(limiter, cfg, "upload", cfg.Security.RateLimit.Upload, time.Hour)

	r.Use(middleware.CORSMiddleware())

	// Root: authenticated -> landing page, anonymous -> login
	r.GET("/", ipGate, middleware.OptionalAuth(authService), pageHandler.Root)

	// Public-auth pages: an authenticated visitor is bounced back
	guest := r.Group("")
	guest.Use(ipGate, generalLimit, middleware.RequireGuest(authService))
	{
		guest.GET("/login", pageHandler.GuestPage("login"))
		guest.GET("/register", pageHandler.GuestPage("register"))
		guest.GET("/forgot-password", pageHandler.GuestPage("forgot-password"))
		guest.GET("/reset-password", pageHandler.GuestPage("reset-password"))
	}

	// Protected pages: session required, redirect to login otherwise
	pages := r.Group("")
	pages.Use(ipGate, generalLimit, middleware.PageAuth(authService))
	{
		pages.GET("/dashboard", pageHandler.Page("dashboard"))
		pages.GET("/profile", pageHandler.Page("profile"))
		pages.GET("/settings", pageHandler.Page("settings"))
		pages.GET("/content", pageHandler.Page("content"))
		pages.GET("/analytics", pageHandler.Page("analytics"))

		// Admin pages: role membership is the declared requirement
		admin := pages.Group("")
		admin.Use(middleware.PageAdmin())
		{
			admin.GET("/admin", pageHandler.Page("admin"))
			admin.GET("/users", pageHandler.Page("users"))
			admin.GET("/roles", pageHandler.Page("roles"))
			admin.GET("/permissions", pageHandler.Page("permissions"))
			admin.GET("/settings/system", pageHandler.Page("settings-system"))
		}
	}

	// Public API
	api := r.Group("/api")
	api.Use(ipGate)
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/login", loginLimit, authHandler.Login)
			auth.POST("/register", generalLimit, middleware.RequireGuest(authService), authHandler.Register)
			auth.POST("/forgot-password", resetLimit, authHandler.ForgotPassword)
			auth.POST("/reset-password", resetLimit, authHandler.ResetPassword)
		}
	}

	// Protected API
	protected := api.Group("")
	protected.Use(generalLimit, middleware.Auth(authService))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.GetMe)
		protected.GET("/auth/sessions", authHandler.GetSessions)
		protected.DELETE("/auth/sessions/:id", authHandler.RevokeSession)

		// User management: admin role gates the surface; reads included
		users := protected.Group("/users", middleware.RequireAdmin())
		{
			users.GET("", userHandler.GetUsers)
			users.GET("/:id", userHandler.GetUser)
			users.POST("", userHandler.CreateUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.POST("/:id/password", userHandler.UpdatePassword)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		// Role management: explicit permissions even for admins
		roles := protected.Group("/roles")
		{
			roles.GET("", middleware.Require(authz.AdminOrPermission(authz.PermRoleRead)), roleHandler.GetRoles)
			roles.GET("/:id", middleware.Require(authz.AdminOrPermission(authz.PermRoleRead)), roleHandler.GetRole)
			roles.POST("", middleware.Require(authz.PermissionRequired(authz.PermRoleCreate)), roleHandler.CreateRole)
			roles.PUT("/:id", middleware.Require(authz.PermissionRequired(authz.PermRoleUpdate)), roleHandler.UpdateRole)
			roles.PUT("/:id/permissions", middleware.Require(authz.PermissionRequired(authz.PermRoleUpdate)), roleHandler.SetPermissions)
			roles.DELETE("/:id", middleware.Require(authz.PermissionRequired(authz.PermRoleDelete)), roleHandler.DeleteRole)
		}

		protected.GET("/permissions", middleware.Require(authz.AdminOrPermission(authz.PermPermissionRead)), roleHandler.GetPermissions)

		// Content: reads by permission; create by permission; update/delete
		// apply the admin-or-owner-or-permission rule inside the handler
		// once the owner is known
		content := protected.Group("/content")
		{
			content.GET("", middleware.Require(authz.PermissionRequired(authz.PermContentRead)), contentHandler.GetContents)
			content.GET("/:id", middleware.Require(authz.PermissionRequired(authz.PermContentRead)), contentHandler.GetContent)
			content.POST("", middleware.Require(authz.PermissionRequired(authz.PermContentCreate)), contentHandler.CreateContent)
			content.PUT("/:id", contentHandler.UpdateContent)
			content.DELETE("/:id", contentHandler.DeleteContent)
		}

		categories := protected.Group("/categories")
		{
			categories.GET("", middleware.Require(authz.PermissionRequired(authz.PermContentRead)), contentHandler.GetCategories)
			categories.POST("", middleware.Require(authz.PermissionRequired(authz.PermCategoryManage)), contentHandler.CreateCategory)
			categories.DELETE("/:id", middleware.Require(authz.PermissionRequired(authz.PermCategoryManage)), contentHandler.DeleteCategory)
		}

		protected.POST("/uploads", uploadLimit, middleware.Require(authz.PermissionRequired(authz.PermFileUpload)), uploadHandler.Upload)

		protected.GET("/analytics/summary", middleware.Require(authz.AdminOrPermission(authz.PermAnalyticsView)), analyticsHandler.GetSummary)

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
		}

		// Security surface: view vs manage permission split, system.admin
		// accepted as the umbrella on both sides
		security := protected.Group("/security")
		{
			view := middleware.Require(authz.AnyPermission(authz.PermSecurityView, authz.PermSystemAdmin))
			manage := middleware.Require(authz.AnyPermission(authz.PermSecurityManage, authz.PermSystemAdmin))

			security.GET("/blacklist", view, securityHandler.GetBlacklist)
			security.POST("/blacklist", manage, securityHandler.BlockIP)
			security.DELETE("/blacklist/:ip", manage, securityHandler.UnblockIP)
			security.GET("/events", view, securityHandler.GetEvents)
			security.POST("/events", manage, securityHandler.CreateEvent)
			security.GET("/logins", view, securityHandler.GetTopLogins)
			security.GET("/audit", view, securityHandler.GetAuditLog)
		}

		protected.GET("/ws", wsHandler.Connect)
	}
}
