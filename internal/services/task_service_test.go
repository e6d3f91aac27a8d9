package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/models"
)

func TestTaskServiceWithoutSession(t *testing.T) {
	// These paths must resolve before any backend call, so no pool
	// or cache is needed.
	svc := NewTaskService(zerolog.Nop(), nil, nil)
	ctx := context.Background()

	t.Run("list is an empty no-op", func(t *testing.T) {
		tasks, err := svc.ListTasks(ctx, "", models.TaskFilters{Search: "milk"})
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("mutations fail fast", func(t *testing.T) {
		_, err := svc.CreateTask(ctx, "", CreateTaskParams{Title: "t"})
		assert.ErrorIs(t, err, ErrNotAuthenticated)

		_, err = svc.UpdateTask(ctx, "", "t1", UpdateTaskParams{})
		assert.ErrorIs(t, err, ErrNotAuthenticated)

		err = svc.DeleteTask(ctx, "", "t1")
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("status toggle validates the enum first", func(t *testing.T) {
		svcAuthed := NewTaskService(zerolog.Nop(), nil, nil)
		_, err := svcAuthed.SetTaskStatus(ctx, "u1", "t1", "archived")
		assert.ErrorIs(t, err, ErrInvalidTaskStatus)
	})
}

func TestBuildListTasksQuery(t *testing.T) {
	tests := []struct {
		name         string
		filters      models.TaskFilters
		wantContains []string
		wantAbsent   []string
		wantArgs     []any
	}{
		{
			name:       "no filters",
			filters:    models.TaskFilters{},
			wantAbsent: []string{"status =", "priority =", "ILIKE"},
			wantArgs:   []any{"u1"},
		},
		{
			name:         "status filter",
			filters:      models.TaskFilters{Status: "pending"},
			wantContains: []string{"status = $2"},
			wantAbsent:   []string{"priority =", "ILIKE"},
			wantArgs:     []any{"u1", "pending"},
		},
		{
			name:       "all means no status filter",
			filters:    models.TaskFilters{Status: "all", Priority: "all"},
			wantAbsent: []string{"status =", "priority ="},
			wantArgs:   []any{"u1"},
		},
		{
			name:         "priority filter",
			filters:      models.TaskFilters{Priority: "high"},
			wantContains: []string{"priority = $2"},
			wantArgs:     []any{"u1", "high"},
		},
		{
			name:    "search matches title or description",
			filters: models.TaskFilters{Search: "milk"},
			wantContains: []string{
				"(title ILIKE $2 OR description ILIKE $2)",
			},
			wantArgs: []any{"u1", "%milk%"},
		},
		{
			name:    "all dimensions combined with AND",
			filters: models.TaskFilters{Search: "milk", Status: "pending", Priority: "low"},
			wantContains: []string{
				"status = $2",
				"priority = $3",
				"(title ILIKE $4 OR description ILIKE $4)",
			},
			wantArgs: []any{"u1", "pending", "low", "%milk%"},
		},
		{
			name:     "search term with LIKE metacharacters",
			filters:  models.TaskFilters{Search: "50%_done"},
			wantArgs: []any{"u1", `%50\%\_done%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildListTasksQuery("u1", tt.filters)

			assert.Contains(t, query, "WHERE user_id = $1")
			assert.Contains(t, query, "ORDER BY created_at DESC")
			for _, s := range tt.wantContains {
				assert.Contains(t, query, s)
			}
			for _, s := range tt.wantAbsent {
				assert.NotContains(t, query, s)
			}
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestEscapeLikePattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"milk", "milk"},
		{"50%", `50\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeLikePattern(tt.in))
	}
}

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		completed int
		total     int
		want      int
	}{
		{0, 0, 0},
		{0, 10, 0},
		{10, 10, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
	}

	for _, tt := range tests {
		got := completionRate(tt.completed, tt.total)
		require.Equal(t, tt.want, got, "%d/%d", tt.completed, tt.total)
	}
}
