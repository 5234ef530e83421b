package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmaid/farmaid-server/internal/api"
	"github.com/farmaid/farmaid-server/internal/config"
	"github.com/farmaid/farmaid-server/internal/logger"
	"github.com/farmaid/farmaid-server/internal/metrics"
	"github.com/farmaid/farmaid-server/internal/repository"
	"github.com/farmaid/farmaid-server/internal/service"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Set up logging
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.Environment); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}
	defer zap.L().Sync()

	// Set up database connection
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		zap.L().Fatal("Failed to set up database", zap.Error(err))
	}
	defer db.Close()

	// Create repository
	repo := repository.NewPostgresRepository(db)

	// Create service
	svc := service.NewDefaultService(repo, cfg.Auth.JWTSecret)

	// Create API handler
	handler := api.NewHandler(svc)

	// Set up Gin router
	if cfg.Log.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.Middleware())

	httpMetrics := metrics.NewHTTPMetrics()
	router.Use(httpMetrics.Middleware())
	router.GET("/metrics", gin.WrapH(metrics.GetPrometheusHandler()))

	// Add middleware for JWT secret
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(cfg.Auth.JWTSecret))
		c.Next()
	})

	// Set up routes
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	zap.L().Info("Starting server", zap.String("addr", serverAddr))
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		zap.L().Fatal("Failed to start server", zap.Error(err))
	}
}
