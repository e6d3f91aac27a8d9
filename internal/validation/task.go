package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/taskdeck/taskdeck/internal/models"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 1000
)

// TaskWrite is the candidate shape for creating or editing a task.
// A nil Description means the field was not supplied.
type TaskWrite struct {
	Title       string
	Description *string
	Status      string
	Priority    string
}

// ValidateTaskWrite trims the string fields and checks every
// constraint. It returns the normalized shape on success, or
// FieldErrors describing every violated field.
func ValidateTaskWrite(in TaskWrite) (TaskWrite, FieldErrors) {
	errs := FieldErrors{}

	title, msg := ValidateTaskTitle(in.Title)
	if msg != "" {
		errs["title"] = msg
	}
	in.Title = title

	if in.Description != nil {
		desc, msg := ValidateTaskDescription(*in.Description)
		if msg != "" {
			errs["description"] = msg
		}
		in.Description = &desc
	}

	if msg := ValidateTaskStatus(in.Status); msg != "" {
		errs["status"] = msg
	}
	if msg := ValidateTaskPriority(in.Priority); msg != "" {
		errs["priority"] = msg
	}

	if len(errs) > 0 {
		return TaskWrite{}, errs
	}
	return in, nil
}

// The per-field validators below return the normalized value and an
// empty message on success. Partial updates validate only the fields
// they carry.

func ValidateTaskTitle(title string) (string, string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "Title is required"
	}
	// Bounds are in characters, not bytes, matching the schema's
	// length() checks.
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", "Title must be less than 200 characters"
	}
	return title, ""
}

func ValidateTaskDescription(description string) (string, string) {
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return "", "Description must be less than 1000 characters"
	}
	return description, ""
}

func ValidateTaskStatus(status string) string {
	if !models.IsValidStatus(status) {
		return "Status must be one of pending, in_progress or completed"
	}
	return ""
}

func ValidateTaskPriority(priority string) string {
	if !models.IsValidPriority(priority) {
		return "Priority must be one of low, medium or high"
	}
	return ""
}
