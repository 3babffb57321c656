package pipeline

import (
	"context"
	"time"

	"github.com/nagul-a/Grocery-tracker/internal/domain"
)

// DashboardBuilder produces the dashboard for one item filter.
type DashboardBuilder interface {
	Dashboard(ctx context.Context, filter domain.ItemFilter) (*domain.Dashboard, error)
}

// ReportConfig holds configuration for a report run
type ReportConfig struct {
	Prefix        string        // Object key prefix for uploaded reports
	WorkerCount   int           // Number of concurrent workers
	RetryAttempts int           // Attempts per job, including the first
	RetryBackoff  time.Duration // Wait between attempts
}

// DefaultReportConfig returns sensible defaults
func DefaultReportConfig(prefix string) ReportConfig {
	return ReportConfig{
		Prefix:        prefix,
		WorkerCount:   4,
		RetryAttempts: 2,
		RetryBackoff:  500 * time.Millisecond,
	}
}

// RunStatus represents the current state of a report run
type RunStatus string

const (
	StatusPending    RunStatus = "pending"
	StatusProcessing RunStatus = "processing"
	StatusCompleted  RunStatus = "completed"
	StatusFailed     RunStatus = "failed"
)

// JobStatus represents the state of a single user's report
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// ReportRun tracks a single execution over a set of users
type ReportRun struct {
	ID           string       `json:"id"`
	Status       RunStatus    `json:"status"`
	StartedAt    time.Time    `json:"started_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
	Jobs         []*ReportJob `json:"jobs"`
	ErrorMessage string       `json:"error,omitempty"`
}

// ReportJob tracks the dashboard report of one user. An empty UserID covers
// the whole catalog.
type ReportJob struct {
	UserID       string     `json:"user_id,omitempty"`
	Key          string     `json:"key"`
	Status       JobStatus  `json:"status"`
	Attempts     int        `json:"attempts"`
	Partial      bool       `json:"partial"`
	ErrorMessage string     `json:"error,omitempty"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
}

// Completed counts the jobs that uploaded a report.
func (r *ReportRun) Completed() int {
	n := 0
	for _, job := range r.Jobs {
		if job.Status == JobStatusCompleted {
			n++
		}
	}
	return n
}
