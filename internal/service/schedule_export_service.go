package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/parkermclaren/advisor-mvp/internal/models"
	appErrors "github.com/parkermclaren/advisor-mvp/pkg/errors"
	"github.com/parkermclaren/advisor-mvp/pkg/export"
)

// Supported export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type scheduleFinder interface {
	Get(ctx context.Context, id string) (*models.StudentSchedule, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult is a rendered schedule document.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ScheduleExportService renders stored schedules as CSV or PDF.
type ScheduleExportService struct {
	schedules scheduleFinder
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
}

// NewScheduleExportService constructs the exporter; nil renderers get the defaults.
func NewScheduleExportService(schedules scheduleFinder, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ScheduleExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ScheduleExportService{schedules: schedules, csv: csv, pdf: pdf, logger: logger}
}

// Export loads the schedule and renders it in format (csv when empty).
func (s *ScheduleExportService) Export(ctx context.Context, id, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	schedule, err := s.schedules.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Render(schedule, format)
}

// Render converts an in-memory schedule into the requested format.
func (s *ScheduleExportService) Render(schedule *models.StudentSchedule, format string) (*ExportResult, error) {
	data := scheduleDataset(schedule)
	filename := fmt.Sprintf("schedule_%s_%s.%s", sanitizeFilename(schedule.Term), sanitizeFilename(schedule.ID), format)

	var (
		payload     []byte
		contentType string
		err         error
	)
	switch format {
	case ExportFormatPDF:
		payload, err = s.pdf.Render(data, fmt.Sprintf("%s schedule for %s", schedule.Term, schedule.StudentID))
		contentType = "application/pdf"
	default:
		payload, err = s.csv.Render(data)
		contentType = "text/csv"
	}
	if err != nil {
		s.logger.Error("render schedule export failed", zap.String("schedule_id", schedule.ID), zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportResult{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

func scheduleDataset(schedule *models.StudentSchedule) export.Dataset {
	data := export.Dataset{
		Headers: []string{"Course", "Title", "Section", "Days", "Start", "End", "Credits", "Requirement", "Instructor", "Location"},
	}
	for _, section := range schedule.Sections {
		requirement := string(section.RequirementType)
		if section.RequirementCategory != "" {
			requirement = fmt.Sprintf("%s (%s)", requirement, section.RequirementCategory)
		}
		data.Rows = append(data.Rows, map[string]string{
			"Course":      section.CourseCode,
			"Title":       section.CourseTitle,
			"Section":     section.SectionID,
			"Days":        section.DayPattern,
			"Start":       section.StartTime,
			"End":         section.EndTime,
			"Credits":     fmt.Sprintf("%d", section.Credits),
			"Requirement": requirement,
			"Instructor":  section.Instructor,
			"Location":    section.Location,
		})
	}

	data.Notes = append(data.Notes, fmt.Sprintf("Total credits: %d", schedule.TotalCredits))
	for _, conflict := range schedule.Conflicts {
		data.Notes = append(data.Notes, fmt.Sprintf("[%s] %s", conflict.Severity, conflict.Description))
	}
	return data
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func sanitizeFilename(raw string) string {
	cleaned := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(raw), "_")
	cleaned = strings.Trim(cleaned, "_")
	if cleaned == "" {
		return "export"
	}
	return strings.ToLower(cleaned)
}
