package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SrClauss/balanco-silvanateodoro/internal/cache"
	"github.com/SrClauss/balanco-silvanateodoro/internal/config"
	"github.com/SrClauss/balanco-silvanateodoro/internal/database"
	"github.com/SrClauss/balanco-silvanateodoro/internal/logger"
	"github.com/SrClauss/balanco-silvanateodoro/internal/middleware"
	"github.com/SrClauss/balanco-silvanateodoro/internal/models"
	"github.com/SrClauss/balanco-silvanateodoro/internal/routes"
)

func main() {
	cfg := config.LoadConfig()
	log := logger.Get()
	defer log.Sync()

	client := database.Connect(cfg.MongoURI)
	store := database.NewStore(client.Database(cfg.MongoDB))

	// Unique indexes back the tag-name and internal-code invariants.
	// Failure here is a degradation, not a startup abort: the explicit
	// pre-write checks still run.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := models.EnsureIndexes(ctx, store); err != nil {
		log.Warn("could not ensure unique indexes", zap.Error(err))
	}
	cancel()

	cch := cache.New(cfg.CacheTTL)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	router.Use(cors.New(corsCfg))

	routes.RegisterRoutes(router, store, cch, log)

	log.Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
