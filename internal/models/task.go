package models

import "time"

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

func IsValidStatus(status string) bool {
	return status == StatusPending ||
		status == StatusInProgress ||
		status == StatusCompleted
}

func IsValidPriority(priority string) bool {
	return priority == PriorityLow ||
		priority == PriorityMedium ||
		priority == PriorityHigh
}

type Task struct {
	ID     string
	UserID string
	Title  string
	// Description is nil when the task has no description,
	// which is not the same as an empty one.
	Description *string
	Status      string
	Priority    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskFilters narrows ListTasks results.
// Zero values mean the filter is not applied.
type TaskFilters struct {
	Search   string
	Status   string
	Priority string
}

type TaskStats struct {
	Total      int
	Pending    int
	InProgress int
	Completed  int
	// CompletionRate is completed/total as a rounded
	// percentage, 0 when there are no tasks.
	CompletionRate int
}
