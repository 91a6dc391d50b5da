package app

import (
	"time"

	"github.com/conflict-atlas/core/internal/middleware"
	"github.com/conflict-atlas/core/internal/modules/dashboard"
	"github.com/conflict-atlas/core/internal/modules/displacement"
	"github.com/conflict-atlas/core/internal/modules/events"
	"github.com/conflict-atlas/core/internal/modules/summary"
	"github.com/conflict-atlas/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes() {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	var rawRedis *goredis.Client
	if a.rc != nil {
		rawRedis = a.rc.Raw()
	}

	api := r.Group(apiPrefix)

	api.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	summarySvc := summary.NewService(a.db, a.logger, a.cfg)
	summary.NewHandler(summarySvc).RegisterRoutes(api)

	displacementSvc := displacement.NewService(a.cfg, a.logger)
	displacement.NewHandler(displacementSvc).RegisterRoutes(api)

	ucdpClient := events.NewClient(a.cfg.UCDP)
	eventsSvc := events.NewService(ucdpClient, a.geoIdx, a.rc, a.logger)
	eventsCacheTTL := time.Duration(a.cfg.UCDP.CacheTTLMins) * time.Minute
	events.NewHandler(eventsSvc).RegisterRoutes(api, middleware.HTTPCache(rawRedis, eventsCacheTTL))

	authMW := middleware.Auth([]byte(a.cfg.JWTSecret))
	dashboardSvc := dashboard.NewService(a.db)
	dashboard.NewHandler(dashboardSvc).RegisterRoutes(api, authMW)
}
