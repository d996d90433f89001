package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/chnm/relcensus-backend/config"
	"github.com/chnm/relcensus-backend/database"
	"github.com/chnm/relcensus-backend/internal/auditlog"
	"github.com/chnm/relcensus-backend/internal/auth"
	"github.com/chnm/relcensus-backend/internal/census"
	"github.com/chnm/relcensus-backend/internal/denomination"
	"github.com/chnm/relcensus-backend/internal/location"
	"github.com/chnm/relcensus-backend/internal/notification"
	"github.com/chnm/relcensus-backend/routes"
	"github.com/chnm/relcensus-backend/utils"
)

func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("❌ JWT_SECRET is required")
	}

	db := database.Connect(cfg)

	// Redis backs the geocode cache and the rate limiter. The server still
	// works without it.
	if err := utils.InitRedis(cfg); err != nil {
		log.Printf("⚠️ Redis unavailable, falling back to in-process stores: %v", err)
	}

	utils.InitializeKafka(cfg)
	utils.InitMailer(cfg)
	notification.StartKafkaConsumer(context.Background())

	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&auth.UserRole{},
		&auth.User{},
		&denomination.Denomination{},
		&location.Location{},
		&census.CensusSchedule{},
		&census.ReligiousBody{},
		&census.Membership{},
		&census.Clergy{},
		&auditlog.AuditLog{},
		&notification.InAppNotification{},
	); err != nil {
		log.Fatalf("❌ DB AutoMigrate failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	auth.SeedUserRoles(db)
	auth.SeedSuperAdminUser(db)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.CORSAllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := os.MkdirAll(cfg.UploadPath, os.ModePerm); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	// Schedule images fetched from Omeka are served straight from disk.
	router.GET("/images/:filename", func(c *gin.Context) {
		filename := filepath.Base(c.Param("filename"))
		path := filepath.Join(cfg.UploadPath, filename)

		if _, err := os.Stat(path); os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
			return
		}

		c.Header("Cache-Control", "public, max-age=3600")
		c.File(path)
	})

	routes.Setup(router, db, cfg)

	fmt.Printf("🚀 Server starting on port %s\n", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
