package service

import (
	"context"
	"fmt"

	"github.com/parkermclaren/advisor-mvp/internal/models"
	"github.com/parkermclaren/advisor-mvp/pkg/jobs"
)

const persistScheduleJob = "schedule.persist"

type scheduleWriter interface {
	Create(ctx context.Context, schedule *models.StudentSchedule) error
}

type directScheduleStore struct {
	repo scheduleWriter
}

// NewScheduleStore writes schedules synchronously through the repository.
func NewScheduleStore(repo scheduleWriter) ScheduleStore {
	return &directScheduleStore{repo: repo}
}

func (s *directScheduleStore) Save(ctx context.Context, schedule *models.StudentSchedule) error {
	return s.repo.Create(ctx, schedule)
}

// QueuedScheduleStore hands schedules to a background worker pool so the build
// response does not wait on the database.
type QueuedScheduleStore struct {
	queue *jobs.Queue
}

// NewQueuedScheduleStore builds the store; call Start before Save and Stop on shutdown.
func NewQueuedScheduleStore(repo scheduleWriter, cfg jobs.QueueConfig) *QueuedScheduleStore {
	handler := func(ctx context.Context, job jobs.Job) error {
		schedule, ok := job.Payload.(*models.StudentSchedule)
		if !ok {
			return fmt.Errorf("unexpected payload %T for job %s", job.Payload, job.ID)
		}
		return repo.Create(ctx, schedule)
	}
	return &QueuedScheduleStore{queue: jobs.NewQueue("schedule-persist", handler, cfg)}
}

// Start launches the persistence workers.
func (s *QueuedScheduleStore) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains pending saves and waits for the workers.
func (s *QueuedScheduleStore) Stop() {
	s.queue.Stop()
}

// Save enqueues the schedule. It fails only when the queue cannot accept work.
func (s *QueuedScheduleStore) Save(ctx context.Context, schedule *models.StudentSchedule) error {
	return s.queue.Enqueue(jobs.Job{ID: schedule.ID, Type: persistScheduleJob, Payload: schedule})
}
