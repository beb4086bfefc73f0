package main

import (
	"fmt"
	"log"

	"insightboard/internal/api/routes"
	"insightboard/internal/config"
	"insightboard/internal/models"
	"insightboard/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	if err := models.InitDB(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Seed permission vocabulary, system roles and the default user
	if err := services.Seed(cfg); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// Drop stale sessions from previous runs
	if err := services.NewAuthService(cfg).DeleteExpiredSessions(); err != nil {
		log.Printf("Warning: failed to clean expired sessions: %v", err)
	}

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	r := gin.Default()

	// Setup routes
	routes.SetupRoutes(r, cfg)

	// Run server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting insightboard server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
