package importer

import (
	"context"
	"errors"
	"time"
)

// ErrJobNotFound is returned when the polled correlation id is
// unknown or expired.
var ErrJobNotFound = errors.New("import job not found")

const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusSucceeded = "succeeded"
	JobStatusFailed    = "failed"
)

// Job tracks one dispatched import so callers can poll instead of
// getting a bare fire-and-forget acknowledgment.
type Job struct {
	ID        string        `json:"id"`
	UserID    int64         `json:"user_id"`
	URL       string        `json:"url"`
	Status    string        `json:"status"`
	Error     string        `json:"error,omitempty"`
	Result    *ImportResult `json:"result,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type JobStore interface {
	Save(ctx context.Context, job *Job) error
	Get(ctx context.Context, id string) (*Job, error)
}

// Publisher is the slice of the message broker the dispatcher needs.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

// Task is the kafka payload consumed by the import worker.
type Task struct {
	JobID  string `json:"job_id"`
	URL    string `json:"url"`
	UserID int64  `json:"user_id"`
}
