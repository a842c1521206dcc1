package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/parkermclaren/advisor-mvp/api/swagger"
	"github.com/parkermclaren/advisor-mvp/internal/handler"
	"github.com/parkermclaren/advisor-mvp/internal/repository"
	"github.com/parkermclaren/advisor-mvp/internal/service"
	"github.com/parkermclaren/advisor-mvp/pkg/cache"
	"github.com/parkermclaren/advisor-mvp/pkg/config"
	"github.com/parkermclaren/advisor-mvp/pkg/database"
	"github.com/parkermclaren/advisor-mvp/pkg/jobs"
	"github.com/parkermclaren/advisor-mvp/pkg/logger"
)

// @title Advisor Scheduling API
// @version 1.0.0
// @description Builds conflict-free term schedules from outstanding degree requirements and student preferences.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	var redisClient *redis.Client
	if cfg.Sections.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, section cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	app := wireServices(cfg, db, redisClient, metricsSvc, logr)
	defer app.cacheRepo.Close() //nolint:errcheck
	if app.queue != nil {
		app.queue.Start(ctx)
		defer app.queue.Stop()
	}

	checks := map[string]handler.ReadinessCheck{"database": db.PingContext}
	if redisClient != nil {
		checks["redis"] = app.cacheRepo.Ping
	}

	router := newRouter(cfg, logr, routerDeps{
		auth:        app.auth,
		metrics:     metricsSvc,
		schedules:   handler.NewScheduleHandler(app.builder, app.query, app.exporter),
		preferences: handler.NewPreferenceHandler(app.preferences),
		probes:      handler.NewMetricsHandler(metricsSvc, checks),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logr.Warn("http shutdown error", zap.Error(err))
		}
	}()

	logr.Sugar().Infow("server starting", "addr", server.Addr, "env", cfg.Env)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
	logr.Info("server stopped")
}

type application struct {
	auth        *service.AuthService
	builder     *service.ScheduleBuilderService
	query       *service.ScheduleQueryService
	exporter    *service.ScheduleExportService
	preferences *service.PreferenceService
	queue       *service.QueuedScheduleStore
	cacheRepo   *repository.CacheRepository
}

func wireServices(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, metricsSvc *service.MetricsService, logr *zap.Logger) *application {
	requirementRepo := repository.NewRequirementRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	sectionRepo := repository.NewCourseSectionRepository(db)
	scheduleRepo := repository.NewStudentScheduleRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Sections.CacheTTL, logr, cfg.Sections.CacheEnabled && redisClient != nil)

	var alignment service.AlignmentProvider = service.NoopAlignmentProvider{}
	if cfg.Alignment.Enabled && cfg.Alignment.BaseURL != "" {
		alignment = service.NewHTTPAlignmentClient(cfg.Alignment.BaseURL, nil, cfg.Alignment.Timeout)
	}

	app := &application{cacheRepo: cacheRepo}

	var store service.ScheduleStore = service.NewScheduleStore(scheduleRepo)
	if cfg.Scheduler.AsyncPersist {
		app.queue = service.NewQueuedScheduleStore(scheduleRepo, jobs.QueueConfig{
			Workers: cfg.Scheduler.PersistWorkers,
			Logger:  logr,
		})
		store = app.queue
	}

	recommendations := service.NewRecommendationService(requirementRepo, studentRepo, alignment, logr)
	catalog := service.NewSectionCatalogService(sectionRepo, cacheSvc, logr)
	if metricsSvc != nil {
		catalog.WithQueryMetrics(metricsSvc)
	}

	app.auth = service.NewAuthService(service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
	})
	app.builder = service.NewScheduleBuilderService(recommendations, catalog, studentRepo, store, metricsSvc, logr, service.ScheduleBuilderConfig{
		CreditCeiling:    cfg.Scheduler.CreditCeiling,
		CreditFloor:      cfg.Scheduler.CreditFloor,
		FetchConcurrency: cfg.Scheduler.FetchConcurrency,
	})
	app.query = service.NewScheduleQueryService(scheduleRepo)
	app.exporter = service.NewScheduleExportService(app.query, nil, nil, logr)
	app.preferences = service.NewPreferenceService(studentRepo, validator.New(), logr)
	return app
}
