package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/parkermclaren/advisor-mvp/internal/models"
	"github.com/parkermclaren/advisor-mvp/internal/repository"
	"github.com/parkermclaren/advisor-mvp/internal/service"
	"github.com/parkermclaren/advisor-mvp/pkg/cache"
	"github.com/parkermclaren/advisor-mvp/pkg/config"
	"github.com/parkermclaren/advisor-mvp/pkg/database"
	"github.com/parkermclaren/advisor-mvp/pkg/logger"
	"github.com/parkermclaren/advisor-mvp/pkg/storage"
)

type options struct {
	studentID string
	term      string
	fixture   string
	format    string
	outDir    string
	mintRole   string
	persist    bool
	invalidate bool
}

type sectionInvalidator interface {
	InvalidateTerm(ctx context.Context, term string) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "schedule-cli: %v\n", err)
		os.Exit(1)
	}
}

func parseOptions(args []string) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("schedule-cli", pflag.ContinueOnError)
	fs.StringVarP(&opts.studentID, "student", "s", "", "Student ID (defaults to DEFAULT_STUDENT_ID)")
	fs.StringVarP(&opts.term, "term", "t", "", "Term to schedule, e.g. \"Fall 2025\"")
	fs.StringVar(&opts.fixture, "fixture", "", "YAML fixture to run against instead of postgres")
	fs.StringVarP(&opts.format, "format", "f", "json", "Output format: json, csv or pdf")
	fs.StringVarP(&opts.outDir, "out", "o", "./exports", "Directory for csv/pdf output")
	fs.StringVar(&opts.mintRole, "mint-token", "", "Print a signed access token for the student with this role and exit")
	fs.BoolVar(&opts.persist, "persist", false, "Store the built schedule (postgres mode only)")
	fs.BoolVar(&opts.invalidate, "invalidate-cache", false, "Drop the term's cached sections from redis and exit")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.format = strings.ToLower(strings.TrimSpace(opts.format))
	switch opts.format {
	case "json", service.ExportFormatCSV, service.ExportFormatPDF:
	default:
		return opts, fmt.Errorf("unsupported format %q", opts.format)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	if opts.invalidate {
		catalog, cleanup, err := newCachedCatalog(ctx, cfg, logr)
		if err != nil {
			return err
		}
		defer cleanup()
		return invalidateSections(ctx, catalog, opts.term, stdout)
	}

	studentID := strings.TrimSpace(opts.studentID)
	if studentID == "" {
		studentID = cfg.DefaultStudentID
	}
	if studentID == "" {
		return errors.New("no student given: pass --student or set DEFAULT_STUDENT_ID")
	}

	if opts.mintRole != "" {
		return mintToken(cfg, studentID, opts.mintRole, stdout)
	}
	if strings.TrimSpace(opts.term) == "" {
		return errors.New("--term is required")
	}

	builder, cleanup, err := newBuilder(ctx, cfg, opts, logr)
	if err != nil {
		return err
	}
	defer cleanup()

	schedule, err := builder.Build(ctx, studentID, strings.TrimSpace(opts.term))
	if err != nil {
		return err
	}
	return writeSchedule(schedule, opts, stdout, logr)
}

func newBuilder(ctx context.Context, cfg *config.Config, opts options, logr *zap.Logger) (*service.ScheduleBuilderService, func(), error) {
	builderCfg := service.ScheduleBuilderConfig{
		CreditCeiling:    cfg.Scheduler.CreditCeiling,
		CreditFloor:      cfg.Scheduler.CreditFloor,
		FetchConcurrency: cfg.Scheduler.FetchConcurrency,
	}

	if opts.fixture != "" {
		source, err := repository.LoadFixtureSource(opts.fixture)
		if err != nil {
			return nil, nil, err
		}
		return service.NewScheduleBuilderService(source, source, source, source, nil, logr, builderCfg), func() {}, nil
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	studentRepo := repository.NewStudentRepository(db)
	recommendations := service.NewRecommendationService(repository.NewRequirementRepository(db), studentRepo, service.NoopAlignmentProvider{}, logr)
	catalog := service.NewSectionCatalogService(repository.NewCourseSectionRepository(db), nil, logr)

	var store service.ScheduleStore
	if opts.persist {
		store = service.NewScheduleStore(repository.NewStudentScheduleRepository(db))
	}
	builder := service.NewScheduleBuilderService(recommendations, catalog, studentRepo, store, nil, logr, builderCfg)
	return builder, func() { _ = db.Close() }, nil
}

func newCachedCatalog(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*service.SectionCatalogService, func(), error) {
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	cacheRepo := repository.NewCacheRepository(client, logr)
	cacheSvc := service.NewCacheService(cacheRepo, nil, cfg.Sections.CacheTTL, logr, true)
	return service.NewSectionCatalogService(nil, cacheSvc, logr), func() { _ = cacheRepo.Close() }, nil
}

func invalidateSections(ctx context.Context, catalog sectionInvalidator, term string, stdout io.Writer) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return errors.New("--term is required")
	}
	if err := catalog.InvalidateTerm(ctx, term); err != nil {
		return fmt.Errorf("invalidate cached sections: %w", err)
	}
	_, err := fmt.Fprintf(stdout, "cleared cached sections for %s\n", term)
	return err
}

func writeSchedule(schedule *models.StudentSchedule, opts options, stdout io.Writer, logr *zap.Logger) error {
	if opts.format == "json" {
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(schedule)
	}

	exporter := service.NewScheduleExportService(nil, nil, nil, logr)
	result, err := exporter.Render(schedule, opts.format)
	if err != nil {
		return err
	}
	dir, err := storage.NewExportDir(opts.outDir)
	if err != nil {
		return err
	}
	path, err := dir.Save(result.Filename, result.Payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, path)
	return err
}

func mintToken(cfg *config.Config, studentID, role string, stdout io.Writer) error {
	userRole := models.UserRole(strings.ToUpper(strings.TrimSpace(role)))
	switch userRole {
	case models.RoleStudent, models.RoleAdvisor, models.RoleAdmin:
	default:
		return fmt.Errorf("unknown role %q", role)
	}
	auth := service.NewAuthService(service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret, AccessTokenExpiry: cfg.JWT.Expiration})
	token, expiresAt, err := auth.IssueToken("cli-"+studentID, userRole, "", studentID)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "%s\nexpires %s\n", token, expiresAt.Format("2006-01-02T15:04:05Z07:00"))
	return err
}
