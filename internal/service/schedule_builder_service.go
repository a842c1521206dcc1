package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/parkermclaren/advisor-mvp/internal/models"
	appErrors "github.com/parkermclaren/advisor-mvp/pkg/errors"
)

const (
	corePriority        = 100.0
	genEdPriority       = 50.0
	electivePriority    = 10.0
	outstandingBonus    = 30.0
	assumedGenEdCredits = 3
	mandatoryCoreCredit = 2
)

var coreResolutionOptions = []string{
	"Check whether %s is offered in an alternate term",
	"Review prerequisites for %s",
	"Consult your academic advisor about substitutions for %s",
}

type requirementSource interface {
	GetRecommendedCourses(ctx context.Context, studentID string) (*models.RecommendedCourses, error)
}

type sectionCatalog interface {
	GetSections(ctx context.Context, courseCode, term string) ([]models.CourseSection, error)
}

type studentProfileReader interface {
	FindByID(ctx context.Context, id string) (*models.StudentProfile, error)
}

// ScheduleStore persists finished schedules.
type ScheduleStore interface {
	Save(ctx context.Context, schedule *models.StudentSchedule) error
}

type scheduleBuildMetrics interface {
	ObserveScheduleBuild(outcome string, duration time.Duration, conflicts []models.ScheduleConflict)
}

// ScheduleBuilderConfig governs credit bounds and fetch fan-out.
type ScheduleBuilderConfig struct {
	CreditCeiling    int
	CreditFloor      int
	FetchConcurrency int
}

// ScheduleBuilderService assembles a conflict-free term schedule from outstanding requirements.
type ScheduleBuilderService struct {
	requirements requirementSource
	sections     sectionCatalog
	profiles     studentProfileReader
	store        ScheduleStore
	metrics      scheduleBuildMetrics
	logger       *zap.Logger
	cfg          ScheduleBuilderConfig
	now          func() time.Time
}

// NewScheduleBuilderService wires builder dependencies. store and metrics may be nil.
func NewScheduleBuilderService(
	requirements requirementSource,
	sections sectionCatalog,
	profiles studentProfileReader,
	store ScheduleStore,
	metrics scheduleBuildMetrics,
	logger *zap.Logger,
	cfg ScheduleBuilderConfig,
) *ScheduleBuilderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CreditCeiling <= 0 {
		cfg.CreditCeiling = 18
	}
	if cfg.CreditFloor <= 0 {
		cfg.CreditFloor = 15
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = 4
	}
	return &ScheduleBuilderService{
		requirements: requirements,
		sections:     sections,
		profiles:     profiles,
		store:        store,
		metrics:      metrics,
		logger:       logger,
		cfg:          cfg,
		now:          time.Now,
	}
}

// Build runs the tiered greedy selection for one student and term.
func (s *ScheduleBuilderService) Build(ctx context.Context, studentID, term string) (*models.StudentSchedule, error) {
	studentID = strings.TrimSpace(studentID)
	term = strings.TrimSpace(term)
	if studentID == "" || term == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id and term are required")
	}

	started := time.Now()
	schedule, err := s.build(ctx, studentID, term)
	if err != nil {
		s.observe("error", started, nil)
		return nil, err
	}
	s.observe("success", started, schedule.Conflicts)

	if s.store != nil {
		if err := s.store.Save(ctx, schedule); err != nil {
			s.logger.Warn("persist schedule failed",
				zap.String("schedule_id", schedule.ID),
				zap.String("student_id", studentID),
				zap.Error(err))
		}
	}
	return schedule, nil
}

func (s *ScheduleBuilderService) build(ctx context.Context, studentID, term string) (*models.StudentSchedule, error) {
	recs, err := s.requirements.GetRecommendedCourses(ctx, studentID)
	if err != nil {
		return nil, upstreamError(err, "failed to load recommended courses")
	}
	if recs == nil || len(recs.Categories) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "student has no outstanding requirement data")
	}

	rules, err := s.loadPreferences(ctx, studentID)
	if err != nil {
		return nil, err
	}

	maxCredits := recs.IdealCreditRange.Max
	if maxCredits <= 0 {
		maxCredits = s.cfg.CreditCeiling
	}
	minCredits := recs.IdealCreditRange.Min
	if minCredits <= 0 {
		minCredits = s.cfg.CreditFloor
	}

	candidates, remaining := partitionCandidates(recs.Categories)
	fetched, err := s.fetchSections(ctx, candidates, term)
	if err != nil {
		return nil, err
	}

	state := &buildState{rules: rules, maxCredits: maxCredits, remaining: remaining, logger: s.logger.With(zap.String("student_id", studentID))}
	for i, c := range candidates {
		if len(fetched[i]) == 0 {
			state.conflicts = append(state.conflicts, missingCourseConflict(c.course.CourseCode, c.tier,
				fmt.Sprintf("No sections of %s are offered in %s", c.course.CourseCode, term)))
		}
	}

	var tagged []models.CourseSection
	for _, sections := range fetched {
		tagged = append(tagged, sections...)
	}

	state.scheduleCore(tagged)
	state.scheduleGenEd(tagged)
	state.scheduleElectives(tagged)

	kept, removedCredits, dupes := dedupeGenEdCategories(state.selected)
	state.selected = kept
	state.credits -= removedCredits
	state.conflicts = append(state.conflicts, dupes...)

	if state.credits < minCredits {
		state.explanations = append(state.explanations,
			fmt.Sprintf("Schedule totals %d credits, below your preferred minimum of %d", state.credits, minCredits))
	}

	sections := state.selected
	if sections == nil {
		sections = []models.CourseSection{}
	}
	explanations := state.explanations
	if explanations == nil {
		explanations = []string{}
	}

	return &models.StudentSchedule{
		ID:           uuid.NewString(),
		StudentID:    studentID,
		Term:         term,
		Sections:     sections,
		TotalCredits: state.credits,
		Conflicts:    state.conflicts,
		Stats:        computeStats(sections, rules),
		Explanations: explanations,
		CreatedAt:    s.now().UTC(),
	}, nil
}

func (s *ScheduleBuilderService) loadPreferences(ctx context.Context, studentID string) ([]models.PreferenceRule, error) {
	if s.profiles == nil {
		return nil, nil
	}
	profile, err := s.profiles.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, appErrors.ErrNotFound) {
			return nil, nil
		}
		return nil, upstreamError(err, "failed to load student preferences")
	}
	return ParsePreferences(profile.SchedulePreferences, profile.Extracurriculars), nil
}

// fetchSections loads every candidate's sections concurrently. Results are indexed by
// candidate so selection order never depends on fetch completion order.
func (s *ScheduleBuilderService) fetchSections(ctx context.Context, candidates []candidate, term string) ([][]models.CourseSection, error) {
	results := make([][]models.CourseSection, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FetchConcurrency)
	for i := range candidates {
		i := i
		g.Go(func() error {
			code := candidates[i].course.CourseCode
			sections, err := s.sections.GetSections(gctx, code, term)
			if err != nil {
				return fmt.Errorf("get sections for %s: %w", code, err)
			}
			tagged := make([]models.CourseSection, 0, len(sections))
			for _, section := range sections {
				if err := validateSection(section); err != nil {
					return err
				}
				tagged = append(tagged, candidates[i].tag(section))
			}
			results[i] = tagged
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, upstreamError(err, "failed to load course sections")
	}
	return results, nil
}

func (s *ScheduleBuilderService) observe(outcome string, started time.Time, conflicts []models.ScheduleConflict) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveScheduleBuild(outcome, time.Since(started), conflicts)
}

// candidate is one course code the builder will try to place.
type candidate struct {
	course   models.CandidateCourse
	tier     models.RequirementType
	category string
	priority float64
}

func (c candidate) tag(section models.CourseSection) models.CourseSection {
	section.RequirementType = c.tier
	section.RequirementCategory = c.category
	section.Priority = c.priority
	section.AlignmentScore = c.course.AlignmentScore
	section.AlignmentReason = c.course.AlignmentReason
	if section.Credits <= 0 {
		section.Credits = c.course.Credits
	}
	if section.CourseTitle == "" {
		section.CourseTitle = c.course.CourseTitle
	}
	section.Score = 0
	section.Explanations = nil
	return section
}

var tierOrder = []models.RequirementType{models.RequirementCore, models.RequirementGenEd, models.RequirementElective}

// partitionCandidates flattens categories into tier-ordered candidates. A course code is
// kept in the first (highest) tier that names it. The returned slice of gen-ed category
// names is the outstanding set, in first-seen order.
func partitionCandidates(categories []models.RecommendationCategory) ([]candidate, []string) {
	var (
		candidates []candidate
		remaining  []string
		seen       = make(map[string]bool)
		seenCat    = make(map[string]bool)
	)

	for _, tier := range tierOrder {
		for _, category := range categories {
			if tierOf(category.Type) != tier {
				continue
			}
			if tier == models.RequirementGenEd && category.Name != "" && !seenCat[category.Name] {
				seenCat[category.Name] = true
				remaining = append(remaining, category.Name)
			}
			for _, rec := range category.Recommendations {
				codes := rec.SpecificCourses
				if len(codes) == 0 {
					codes = []string{rec.CourseCode}
				}
				for _, code := range codes {
					code = strings.TrimSpace(code)
					if code == "" || seen[code] {
						continue
					}
					seen[code] = true

					course := rec
					course.CourseCode = code
					course.SpecificCourses = nil
					c := candidate{course: course, tier: tier, priority: priorityOf(tier)}
					if tier == models.RequirementGenEd {
						c.category = category.Name
					}
					candidates = append(candidates, c)
				}
			}
		}
	}
	return candidates, remaining
}

func tierOf(t models.RequirementType) models.RequirementType {
	if t.Valid() {
		return t
	}
	return models.RequirementElective
}

func priorityOf(t models.RequirementType) float64 {
	switch t {
	case models.RequirementCore:
		return corePriority
	case models.RequirementGenEd:
		return genEdPriority
	default:
		return electivePriority
	}
}

func validateSection(section models.CourseSection) error {
	start, err := ParseClock(section.StartTime)
	if err != nil {
		return fmt.Errorf("malformed section data for %s %s: %w", section.CourseCode, section.SectionID, err)
	}
	end, err := ParseClock(section.EndTime)
	if err != nil {
		return fmt.Errorf("malformed section data for %s %s: %w", section.CourseCode, section.SectionID, err)
	}
	if start >= end {
		return fmt.Errorf("malformed section data for %s %s: start %s is not before end %s", section.CourseCode, section.SectionID, section.StartTime, section.EndTime)
	}
	if !validDayPattern(section.DayPattern) {
		return fmt.Errorf("malformed section data for %s %s: day pattern %q", section.CourseCode, section.SectionID, section.DayPattern)
	}
	return nil
}

// buildState is owned by a single Build call.
type buildState struct {
	rules        []models.PreferenceRule
	maxCredits   int
	remaining    []string
	selected     []models.CourseSection
	credits      int
	conflicts    []models.ScheduleConflict
	explanations []string
	logger       *zap.Logger
}

func (b *buildState) scheduleCore(sections []models.CourseSection) {
	for _, group := range groupSections(sections, models.RequirementCore, func(s models.CourseSection) string { return s.CourseCode }) {
		credits := group.sections[0].Credits
		if b.credits+credits > b.maxCredits && credits > mandatoryCoreCredit {
			b.logger.Info("skipping core course over credit limit", zap.String("course", group.key), zap.Int("credits", credits))
			b.explanations = append(b.explanations,
				fmt.Sprintf("Skipped %s: %d more credits would exceed the %d credit limit", group.key, credits, b.maxCredits))
			continue
		}
		if !b.commitBest(b.rank(group.sections, 0, "")) {
			b.conflicts = append(b.conflicts, missingCourseConflict(group.key, models.RequirementCore,
				fmt.Sprintf("Every section of %s conflicts with courses already scheduled", group.key)))
		}
	}
}

func (b *buildState) scheduleGenEd(sections []models.CourseSection) {
	for _, group := range groupSections(sections, models.RequirementGenEd, func(s models.CourseSection) string { return s.RequirementCategory }) {
		var bonus float64
		if b.isRemaining(group.key) {
			bonus = outstandingBonus
		}
		committed := b.hasGenEdCategory(group.key)
		if b.credits+assumedGenEdCredits > b.maxCredits || committed {
			b.logger.Info("skipping gen-ed category", zap.String("category", group.key), zap.Bool("already_included", committed))
			continue
		}

		note := ""
		if bonus > 0 {
			note = fmt.Sprintf("Covers outstanding %s requirement %+.1f", group.key, bonus)
		}
		if !b.commitBest(b.rank(group.sections, bonus, note)) {
			b.logger.Info("no conflict-free section for gen-ed category", zap.String("category", group.key))
			codes := distinctCodes(group.sections)
			b.conflicts = append(b.conflicts, models.ScheduleConflict{
				Type:            models.ConflictMissingRequirement,
				Description:     fmt.Sprintf("No conflict-free section found for %s", group.key),
				Severity:        models.SeverityMedium,
				AffectedCourses: codes,
			})
			continue
		}
		b.fulfil(group.key)
	}
}

func (b *buildState) scheduleElectives(sections []models.CourseSection) {
	for _, group := range groupSections(sections, models.RequirementElective, func(s models.CourseSection) string { return s.CourseCode }) {
		credits := group.sections[0].Credits
		if b.credits+credits > b.maxCredits {
			b.logger.Info("skipping elective over credit limit", zap.String("course", group.key), zap.Int("credits", credits))
			continue
		}
		if !b.commitBest(b.rank(group.sections, 0, "")) {
			b.conflicts = append(b.conflicts, missingCourseConflict(group.key, models.RequirementElective,
				fmt.Sprintf("Every section of %s conflicts with courses already scheduled", group.key)))
		}
	}
}

// rank scores a copy of sections against the current selection and sorts it by
// descending score. Ties keep catalog order.
func (b *buildState) rank(sections []models.CourseSection, bonus float64, note string) []models.CourseSection {
	ranked := make([]models.CourseSection, len(sections))
	for i, section := range sections {
		score, explanations := ScoreSection(section, b.rules, b.selected)
		if bonus != 0 {
			score += bonus
			explanations = append(explanations, note)
		}
		section.Score = score
		section.Explanations = explanations
		ranked[i] = section
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked
}

func (b *buildState) commitBest(ranked []models.CourseSection) bool {
	for _, section := range ranked {
		if b.conflictsWithSelected(section) {
			continue
		}
		b.selected = append(b.selected, section)
		b.credits += section.Credits
		b.explanations = append(b.explanations, explainSelection(section))
		return true
	}
	return false
}

func (b *buildState) conflictsWithSelected(section models.CourseSection) bool {
	for _, chosen := range b.selected {
		if sectionsConflict(timesOf(section), timesOf(chosen)) {
			return true
		}
	}
	return false
}

// hasGenEdCategory reports whether a section already committed covers category.
func (b *buildState) hasGenEdCategory(category string) bool {
	for _, chosen := range b.selected {
		if chosen.RequirementType == models.RequirementGenEd && chosen.RequirementCategory == category {
			return true
		}
	}
	return false
}

func (b *buildState) isRemaining(category string) bool {
	for _, name := range b.remaining {
		if name == category {
			return true
		}
	}
	return false
}

func (b *buildState) fulfil(category string) {
	for i, name := range b.remaining {
		if name == category {
			b.remaining = append(b.remaining[:i], b.remaining[i+1:]...)
			return
		}
	}
}

type sectionGroup struct {
	key      string
	sections []models.CourseSection
}

// groupSections groups one tier's sections by key in first-seen order.
func groupSections(sections []models.CourseSection, tier models.RequirementType, keyOf func(models.CourseSection) string) []sectionGroup {
	var groups []sectionGroup
	index := make(map[string]int)
	for _, section := range sections {
		if section.RequirementType != tier {
			continue
		}
		key := keyOf(section)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, sectionGroup{key: key})
		}
		groups[i].sections = append(groups[i].sections, section)
	}
	return groups
}

// dedupeGenEdCategories keeps the highest-scored section of every gen-ed category that
// is represented more than once. The earliest committed section wins ties.
func dedupeGenEdCategories(selected []models.CourseSection) ([]models.CourseSection, int, []models.ScheduleConflict) {
	var order []string
	members := make(map[string][]int)
	for i, section := range selected {
		if section.RequirementType != models.RequirementGenEd || section.RequirementCategory == "" {
			continue
		}
		category := section.RequirementCategory
		if _, ok := members[category]; !ok {
			order = append(order, category)
		}
		members[category] = append(members[category], i)
	}

	removed := make(map[int]bool)
	var (
		removedCredits int
		conflicts      []models.ScheduleConflict
	)
	for _, category := range order {
		idx := members[category]
		if len(idx) < 2 {
			continue
		}
		best := idx[0]
		for _, i := range idx[1:] {
			if selected[i].Score > selected[best].Score {
				best = i
			}
		}
		var codes []string
		for _, i := range idx {
			if i == best {
				continue
			}
			removed[i] = true
			removedCredits += selected[i].Credits
			codes = append(codes, selected[i].CourseCode)
		}
		conflicts = append(conflicts, models.ScheduleConflict{
			Type:            models.ConflictPreferenceViolation,
			Description:     fmt.Sprintf("Multiple courses covered %s: kept %s, removed %s", category, selected[best].CourseCode, strings.Join(codes, ", ")),
			Severity:        models.SeverityLow,
			AffectedCourses: codes,
			ResolutionOptions: []string{
				fmt.Sprintf("Take %s in a future term", strings.Join(codes, ", ")),
			},
		})
	}

	if len(removed) == 0 {
		return selected, 0, nil
	}
	kept := make([]models.CourseSection, 0, len(selected)-len(removed))
	for i, section := range selected {
		if !removed[i] {
			kept = append(kept, section)
		}
	}
	return kept, removedCredits, conflicts
}

// computeStats derives the shape metrics of a finished schedule.
func computeStats(sections []models.CourseSection, rules []models.PreferenceRule) models.ScheduleStats {
	stats := models.ScheduleStats{TimeBlocks: make(map[string][]models.TimeBlock, len(weekdayNames))}
	preferred := preferredDayPattern(rules)

	for _, section := range sections {
		if startHour(section.StartTime) < earlyMorningCutoff {
			stats.EarlyMorningClasses++
		}
		if preferred != "" && section.DayPattern == preferred {
			stats.PreferredDayPatternClasses++
		}
	}

	for _, day := range weekdayNames {
		blocks := make([]models.TimeBlock, 0)
		for _, section := range sections {
			if strings.IndexByte(section.DayPattern, day.Letter) < 0 {
				continue
			}
			blocks = append(blocks, models.TimeBlock{
				CourseCode: section.CourseCode,
				SectionID:  section.SectionID,
				StartTime:  section.StartTime,
				EndTime:    section.EndTime,
				Location:   section.Location,
			})
		}
		sort.SliceStable(blocks, func(i, j int) bool {
			return TimeToMinutes(blocks[i].StartTime) < TimeToMinutes(blocks[j].StartTime)
		})
		for i := 1; i < len(blocks); i++ {
			gap := TimeToMinutes(blocks[i].StartTime) - TimeToMinutes(blocks[i-1].EndTime)
			if gap >= 0 && gap <= backToBackGapMinutes {
				stats.BackToBackClasses++
			}
		}
		stats.TimeBlocks[day.Name] = blocks
	}
	return stats
}

func missingCourseConflict(code string, tier models.RequirementType, description string) models.ScheduleConflict {
	conflict := models.ScheduleConflict{
		Type:            models.ConflictMissingRequirement,
		Description:     description,
		Severity:        models.SeverityMedium,
		AffectedCourses: []string{code},
	}
	if tier == models.RequirementCore {
		conflict.Severity = models.SeverityHigh
		for _, option := range coreResolutionOptions {
			conflict.ResolutionOptions = append(conflict.ResolutionOptions, fmt.Sprintf(option, code))
		}
	}
	return conflict
}

func explainSelection(section models.CourseSection) string {
	line := fmt.Sprintf("%s %s (%s %s-%s) scored %.1f", section.CourseCode, section.SectionID, section.DayPattern, section.StartTime, section.EndTime, section.Score)
	if len(section.Explanations) > 0 {
		line += ": " + strings.Join(section.Explanations, "; ")
	}
	return line
}

func distinctCodes(sections []models.CourseSection) []string {
	seen := make(map[string]bool)
	var codes []string
	for _, section := range sections {
		if !seen[section.CourseCode] {
			seen[section.CourseCode] = true
			codes = append(codes, section.CourseCode)
		}
	}
	return codes
}

// upstreamError keeps typed errors from collaborators and maps everything else to a 502.
func upstreamError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Upstream(err, message)
}
