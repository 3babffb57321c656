package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nagul-a/Grocery-tracker/internal/domain"
	"github.com/nagul-a/Grocery-tracker/internal/storage"
)

// Worker builds dashboard reports and uploads them to object storage
type Worker struct {
	builder DashboardBuilder
	objects storage.ObjectStorage
	config  ReportConfig
	now     func() time.Time
	newID   func() string
}

// NewWorker creates a new report worker
func NewWorker(builder DashboardBuilder, objects storage.ObjectStorage, config ReportConfig) *Worker {
	return &Worker{
		builder: builder,
		objects: objects,
		config:  config,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// ReportKey is the object key of one job's report.
func ReportKey(prefix string, at time.Time, runID, userID string) string {
	day := at.UTC().Format("2006/01/02")
	if userID == "" {
		return path.Join(prefix, day, runID+".json")
	}
	return path.Join(prefix, day, runID, userID+".json")
}

// Run builds one report per user. With no users a single report covers the
// base filter. The run is returned even when jobs fail.
func (w *Worker) Run(ctx context.Context, base domain.ItemFilter, users []string) (*ReportRun, error) {
	run := &ReportRun{
		ID:        w.newID(),
		Status:    StatusPending,
		StartedAt: w.now(),
	}

	if len(users) == 0 {
		users = []string{base.UserID}
	}
	seen := make(map[string]bool, len(users))
	for _, user := range users {
		if seen[user] {
			continue
		}
		seen[user] = true
		run.Jobs = append(run.Jobs, &ReportJob{
			UserID: user,
			Key:    ReportKey(w.config.Prefix, run.StartedAt, run.ID, user),
			Status: JobStatusQueued,
		})
	}

	log.Info().Str("run_id", run.ID).Int("jobs", len(run.Jobs)).Msg("report: starting run")

	run.Status = StatusProcessing
	err := w.processJobsParallel(ctx, base, run.Jobs)

	now := w.now()
	run.CompletedAt = &now
	if err != nil {
		run.Status = StatusFailed
		run.ErrorMessage = err.Error()
		return run, err
	}
	run.Status = StatusCompleted

	log.Info().Str("run_id", run.ID).Int("completed", run.Completed()).Msg("report: run completed")
	return run, nil
}

// processJobsParallel processes jobs using a worker pool
func (w *Worker) processJobsParallel(ctx context.Context, base domain.ItemFilter, jobs []*ReportJob) error {
	workerCount := w.config.WorkerCount
	if workerCount < 1 {
		workerCount = 1
	}

	jobChan := make(chan *ReportJob, len(jobs))
	errChan := make(chan error, workerCount)
	var wg sync.WaitGroup

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobChan {
				if err := w.processJob(ctx, base, job); err != nil {
					log.Warn().Err(err).Int("worker", workerID).Str("user_id", job.UserID).Msg("report: job failed")
					select {
					case errChan <- err:
					default:
					}
				}
			}
		}(i)
	}

	for _, job := range jobs {
		select {
		case <-ctx.Done():
			close(jobChan)
			wg.Wait()
			return ctx.Err()
		case jobChan <- job:
		}
	}
	close(jobChan)

	wg.Wait()
	close(errChan)

	if err := <-errChan; err != nil {
		return err
	}
	return nil
}

// processJob builds and uploads one report, retrying transient failures
func (w *Worker) processJob(ctx context.Context, base domain.ItemFilter, job *ReportJob) error {
	job.Status = JobStatusProcessing

	attempts := w.config.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for job.Attempts < attempts {
		job.Attempts++
		err = w.buildAndUpload(ctx, base, job)
		if err == nil {
			job.Status = JobStatusCompleted
			now := w.now()
			job.ProcessedAt = &now
			return nil
		}
		if errors.Is(err, domain.ErrInvalidParameter) || ctx.Err() != nil {
			break
		}
		if job.Attempts < attempts && w.config.RetryBackoff > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(w.config.RetryBackoff):
			}
		}
	}

	job.Status = JobStatusFailed
	job.ErrorMessage = err.Error()
	return fmt.Errorf("report for %q: %w", job.UserID, err)
}

func (w *Worker) buildAndUpload(ctx context.Context, base domain.ItemFilter, job *ReportJob) error {
	filter := base
	filter.UserID = job.UserID

	dashboard, err := w.builder.Dashboard(ctx, filter)
	if err != nil {
		return err
	}
	job.Partial = len(dashboard.Failures) > 0

	payload, err := json.MarshalIndent(dashboard, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return w.objects.UploadObject(ctx, job.Key, payload, "application/json")
}
