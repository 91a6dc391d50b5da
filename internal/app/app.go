package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/conflict-atlas/core/internal/config"
	"github.com/conflict-atlas/core/internal/database"
	"github.com/conflict-atlas/core/internal/middleware"
	"github.com/conflict-atlas/core/internal/modules/geo"
	pkgredis "github.com/conflict-atlas/core/internal/pkg/redis"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	rc     *pkgredis.Client
	geoIdx *geo.CountryIndex
	logger *zap.Logger
}

// New initializes the application: DB → Redis → boundary index → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	// Redis only backs response caching and ISO3 memoization; the service
	// stays up without it.
	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", zap.Error(err))
		rc = nil
	}

	var geoIdx *geo.CountryIndex
	if cfg.Geo.BoundariesPath != "" {
		geoIdx, err = geo.LoadIndex(cfg.Geo.BoundariesPath)
		if err != nil {
			logger.Warn("boundary dataset unavailable, polygon resolution disabled",
				zap.String("path", cfg.Geo.BoundariesPath), zap.Error(err))
			geoIdx = nil
		} else {
			logger.Info("boundary dataset loaded",
				zap.String("path", cfg.Geo.BoundariesPath), zap.Int("features", geoIdx.Len()))
		}
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "x-atlas-cache"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool {
			return originAllowed(patterns, origin)
		}
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	router.Use(cors.New(corsConfig))

	app := &App{cfg: cfg, router: router, db: db, rc: rc, geoIdx: geoIdx, logger: logger}
	app.registerRoutes()

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }
