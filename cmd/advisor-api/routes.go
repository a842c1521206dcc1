package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/parkermclaren/advisor-mvp/internal/handler"
	"github.com/parkermclaren/advisor-mvp/internal/middleware"
	"github.com/parkermclaren/advisor-mvp/internal/models"
	"github.com/parkermclaren/advisor-mvp/internal/service"
	"github.com/parkermclaren/advisor-mvp/pkg/config"
	"github.com/parkermclaren/advisor-mvp/pkg/logger"
	corsmiddleware "github.com/parkermclaren/advisor-mvp/pkg/middleware/cors"
	reqidmiddleware "github.com/parkermclaren/advisor-mvp/pkg/middleware/requestid"
)

type tokenValidator interface {
	ValidateToken(tokenString string) (*models.JWTClaims, error)
}

type routerDeps struct {
	auth        tokenValidator
	metrics     *service.MetricsService
	schedules   *handler.ScheduleHandler
	preferences *handler.PreferenceHandler
	probes      *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if deps.metrics != nil {
		r.Use(middleware.Metrics(deps.metrics))
	}

	r.GET("/health", deps.probes.Health)
	r.GET("/ready", deps.probes.Ready)
	r.GET("/metrics", deps.probes.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	staff := []string{string(models.RoleAdvisor), string(models.RoleAdmin)}
	staffOrSelf := append(append([]string{}, staff...), middleware.RoleSelf)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(deps.auth))

	students := api.Group("/students/:id")
	students.Use(middleware.RBAC(staffOrSelf...))
	students.POST("/schedules", deps.schedules.Build)
	students.GET("/schedules", deps.schedules.List)
	students.GET("/preferences", deps.preferences.Get)
	students.PUT("/preferences", deps.preferences.Update)

	api.POST("/me/schedules", middleware.RequireRoles(models.RoleStudent), deps.schedules.BuildMine)

	api.GET("/schedules/:scheduleId", deps.schedules.Get)
	api.GET("/schedules/:scheduleId/export", deps.schedules.Export)

	return r
}
