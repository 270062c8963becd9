package main

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"

	"medconnect/internal/config"
	"medconnect/internal/models"
	"medconnect/internal/routes"
)

// The reference backend serving the appointment API the client consumes.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Warnf("no .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	config.SetupLogging(cfg)

	db, err := models.InitDB(models.DatabaseConfig{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
	})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	if err := routes.SetupRoutes(router, db, cfg); err != nil {
		log.Fatalf("Error setting up routes: %v", err)
	}

	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	log.Infof("Server running on port %s", cfg.Port)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
