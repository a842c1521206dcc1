package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/parkermclaren/advisor-mvp/internal/models"
)

// StudentScheduleRepository persists built schedules with their sections and
// diagnostics as JSON columns.
type StudentScheduleRepository struct {
	db *sqlx.DB
}

// NewStudentScheduleRepository constructs repository.
func NewStudentScheduleRepository(db *sqlx.DB) *StudentScheduleRepository {
	return &StudentScheduleRepository{db: db}
}

const insertStudentScheduleQuery = `
INSERT INTO student_schedules (id, student_id, term, total_credits, sections, conflicts, stats, explanations, created_at)
VALUES (:id, :student_id, :term, :total_credits, :sections, :conflicts, :stats, :explanations, :created_at)`

const selectStudentScheduleColumns = `SELECT id, student_id, term, total_credits, sections, conflicts, stats, explanations, created_at FROM student_schedules`

// Create inserts a schedule, assigning an id and timestamp when missing.
func (r *StudentScheduleRepository) Create(ctx context.Context, schedule *models.StudentSchedule) error {
	if schedule == nil {
		return fmt.Errorf("schedule payload is nil")
	}
	if schedule.StudentID == "" || schedule.Term == "" {
		return fmt.Errorf("student_id and term are required")
	}
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = time.Now().UTC()
	}

	record, err := toScheduleRecord(schedule)
	if err != nil {
		return err
	}
	if _, err := r.db.NamedExecContext(ctx, insertStudentScheduleQuery, record); err != nil {
		return fmt.Errorf("insert student schedule: %w", err)
	}
	return nil
}

// FindByID loads a schedule. Missing schedules surface as sql.ErrNoRows.
func (r *StudentScheduleRepository) FindByID(ctx context.Context, id string) (*models.StudentSchedule, error) {
	var record models.StudentScheduleRecord
	if err := r.db.GetContext(ctx, &record, selectStudentScheduleColumns+` WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return fromScheduleRecord(record)
}

// ListByStudentTerm returns a student's schedules newest first; an empty term lists all terms.
func (r *StudentScheduleRepository) ListByStudentTerm(ctx context.Context, studentID, term string) ([]models.StudentSchedule, error) {
	query := selectStudentScheduleColumns + ` WHERE student_id = $1 AND ($2::text = '' OR term = $2) ORDER BY created_at DESC`
	var records []models.StudentScheduleRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID, term); err != nil {
		return nil, fmt.Errorf("list student schedules: %w", err)
	}

	schedules := make([]models.StudentSchedule, 0, len(records))
	for _, record := range records {
		schedule, err := fromScheduleRecord(record)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *schedule)
	}
	return schedules, nil
}

func toScheduleRecord(schedule *models.StudentSchedule) (*models.StudentScheduleRecord, error) {
	sections, err := marshalJSONText(schedule.Sections, `[]`)
	if err != nil {
		return nil, fmt.Errorf("encode schedule sections: %w", err)
	}
	conflicts, err := marshalJSONText(schedule.Conflicts, `[]`)
	if err != nil {
		return nil, fmt.Errorf("encode schedule conflicts: %w", err)
	}
	stats, err := marshalJSONText(schedule.Stats, `{}`)
	if err != nil {
		return nil, fmt.Errorf("encode schedule stats: %w", err)
	}
	explanations, err := marshalJSONText(schedule.Explanations, `[]`)
	if err != nil {
		return nil, fmt.Errorf("encode schedule explanations: %w", err)
	}
	return &models.StudentScheduleRecord{
		ID:           schedule.ID,
		StudentID:    schedule.StudentID,
		Term:         schedule.Term,
		TotalCredits: schedule.TotalCredits,
		Sections:     sections,
		Conflicts:    conflicts,
		Stats:        stats,
		Explanations: explanations,
		CreatedAt:    schedule.CreatedAt,
	}, nil
}

func fromScheduleRecord(record models.StudentScheduleRecord) (*models.StudentSchedule, error) {
	schedule := &models.StudentSchedule{
		ID:           record.ID,
		StudentID:    record.StudentID,
		Term:         record.Term,
		TotalCredits: record.TotalCredits,
		Sections:     []models.CourseSection{},
		Explanations: []string{},
		CreatedAt:    record.CreatedAt,
	}
	if err := unmarshalJSONText(record.Sections, &schedule.Sections); err != nil {
		return nil, fmt.Errorf("decode schedule %s sections: %w", record.ID, err)
	}
	if err := unmarshalJSONText(record.Conflicts, &schedule.Conflicts); err != nil {
		return nil, fmt.Errorf("decode schedule %s conflicts: %w", record.ID, err)
	}
	if err := unmarshalJSONText(record.Stats, &schedule.Stats); err != nil {
		return nil, fmt.Errorf("decode schedule %s stats: %w", record.ID, err)
	}
	if err := unmarshalJSONText(record.Explanations, &schedule.Explanations); err != nil {
		return nil, fmt.Errorf("decode schedule %s explanations: %w", record.ID, err)
	}
	if len(schedule.Conflicts) == 0 {
		schedule.Conflicts = nil
	}
	return schedule, nil
}

func marshalJSONText(value interface{}, empty string) (types.JSONText, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		return types.JSONText(empty), nil
	}
	return types.JSONText(raw), nil
}

func unmarshalJSONText(raw types.JSONText, dest interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return raw.Unmarshal(dest)
}
