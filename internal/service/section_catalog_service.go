package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/parkermclaren/advisor-mvp/internal/models"
	appErrors "github.com/parkermclaren/advisor-mvp/pkg/errors"
)

type courseSectionLister interface {
	ListByCourseTerm(ctx context.Context, courseCode, term string) ([]models.CourseSection, error)
}

type queryMetrics interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// SectionCatalogService serves offered sections per course and term, read through redis when enabled.
type SectionCatalogService struct {
	repo   courseSectionLister
	cache   *CacheService
	metrics queryMetrics
	logger  *zap.Logger
}

// NewSectionCatalogService constructs the catalog. cache may be nil.
func NewSectionCatalogService(repo courseSectionLister, cache *CacheService, logger *zap.Logger) *SectionCatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionCatalogService{repo: repo, cache: cache, logger: logger}
}

// WithQueryMetrics times catalog reads that miss the cache.
func (s *SectionCatalogService) WithQueryMetrics(metrics queryMetrics) *SectionCatalogService {
	s.metrics = metrics
	return s
}

// GetSections returns every section of courseCode offered in term, ordered by section id.
// Cache failures fall back to the repository.
func (s *SectionCatalogService) GetSections(ctx context.Context, courseCode, term string) ([]models.CourseSection, error) {
	courseCode = strings.TrimSpace(courseCode)
	term = strings.TrimSpace(term)
	key := sectionCacheKey(term, courseCode)

	var cached []models.CourseSection
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	started := time.Now()
	sections, err := s.repo.ListByCourseTerm(ctx, courseCode, term)
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("course_sections.list_by_course_term", time.Since(started))
	}
	if err != nil {
		return nil, appErrors.Upstream(err, fmt.Sprintf("failed to load sections for %s", courseCode))
	}
	if sections == nil {
		sections = []models.CourseSection{}
	}

	_ = s.cache.Set(ctx, key, sections, 0)
	return sections, nil
}

// InvalidateTerm drops every cached section list for term.
func (s *SectionCatalogService) InvalidateTerm(ctx context.Context, term string) error {
	return s.cache.Invalidate(ctx, sectionCacheKey(strings.TrimSpace(term), "*"))
}

func sectionCacheKey(term, courseCode string) string {
	return fmt.Sprintf("sections:%s:%s", term, courseCode)
}
