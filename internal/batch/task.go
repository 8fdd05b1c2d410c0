package batch

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the status of a download task.
type TaskStatus string

const (
	// TaskStatusPending means the task is queued but not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusDownloading means the download is in progress
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusCompleted means the task finished successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the task failed with an error
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus.
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsFinished returns true if the task is in a terminal state.
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusError
}

// Task represents a single download task within a batch.
type Task struct {
	ID         string
	URL        string
	Status     TaskStatus
	Title      string
	OutputPath string
	LastError  string
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewTask creates a pending task for a URL.
func NewTask(url string) *Task {
	return &Task{
		ID:     uuid.NewString(),
		URL:    url,
		Status: TaskStatusPending,
	}
}
