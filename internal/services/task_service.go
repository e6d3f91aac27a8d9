package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/models"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
	cache  *cache.Cache
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
	queryCache *cache.Cache,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
		cache:  queryCache,
	}
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, userID string, filters models.TaskFilters) ([]*models.Task, error) {
	if userID == "" {
		// No session means an empty list, not a failure.
		return []*models.Task{}, nil
	}

	key := cache.TaskListKey(userID, filters)
	if v, ok := s.cache.Get(key); ok {
		s.logger.Debug().
			Str("user_id", userID).
			Msg("task list cache hit")
		return v.([]*models.Task), nil
	}
	gen := s.cache.Generation(cache.TasksTag(userID))

	query, args := buildListTasksQuery(userID, filters)
	rows, err := s.pgPool.Query(ctx, query, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task := &models.Task{UserID: userID}
		err = rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.Priority,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.cache.SetIfCurrent(key, gen, tasks, cache.TasksTag(userID))

	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("selected tasks")
	return tasks, nil
}

// buildListTasksQuery composes the filtered select. Filter
// dimensions are combined with AND; inside search, title and
// description are combined with OR, case-insensitively.
func buildListTasksQuery(userID string, f models.TaskFilters) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`
SELECT id,
       title,
       description,
       status,
       priority,
       created_at,
       updated_at
FROM tasks
WHERE user_id = $1`)
	args := []any{userID}

	if f.Status != "" && f.Status != "all" {
		args = append(args, f.Status)
		sb.WriteString(" AND status = $")
		sb.WriteString(strconv.Itoa(len(args)))
	}
	if f.Priority != "" && f.Priority != "all" {
		args = append(args, f.Priority)
		sb.WriteString(" AND priority = $")
		sb.WriteString(strconv.Itoa(len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLikePattern(f.Search)+"%")
		n := strconv.Itoa(len(args))
		sb.WriteString(" AND (title ILIKE $")
		sb.WriteString(n)
		sb.WriteString(" OR description ILIKE $")
		sb.WriteString(n)
		sb.WriteString(")")
	}

	sb.WriteString(" ORDER BY created_at DESC")
	return sb.String(), args
}

// escapeLikePattern neutralizes LIKE metacharacters so the search
// term is matched as a literal substring.
func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *taskServiceImpl) GetTaskStats(ctx context.Context, userID string) (*models.TaskStats, error) {
	if userID == "" {
		return &models.TaskStats{}, nil
	}

	key := cache.TaskStatsKey(userID)
	if v, ok := s.cache.Get(key); ok {
		return v.(*models.TaskStats), nil
	}
	gen := s.cache.Generation(cache.TasksTag(userID))

	const selectTaskStatsQuery = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE status = 'pending'),
       COUNT(*) FILTER (WHERE status = 'in_progress'),
       COUNT(*) FILTER (WHERE status = 'completed')
FROM tasks
WHERE user_id = $1
`
	stats := &models.TaskStats{}
	err := s.pgPool.QueryRow(
		ctx,
		selectTaskStatsQuery,
		userID,
	).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.InProgress,
		&stats.Completed,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select task stats")
		return nil, err
	}
	stats.CompletionRate = completionRate(stats.Completed, stats.Total)

	s.cache.SetIfCurrent(key, gen, stats, cache.TasksTag(userID))

	s.logger.Debug().
		Str("user_id", userID).
		Int("total", stats.Total).
		Msg("selected task stats")
	return stats, nil
}

func completionRate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, userID string, params CreateTaskParams) (*models.Task, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	now := time.Now()
	task := &models.Task{
		UserID:      userID,
		Title:       params.Title,
		Description: params.Description,
		Status:      params.Status,
		Priority:    params.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}
	task.ID = taskUUID.String()

	const insertTaskQuery = `
INSERT INTO tasks (id,
                   user_id,
                   title,
                   description,
                   status,
                   priority,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}

	s.cache.Invalidate(cache.TasksTag(userID))

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", userID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, userID, taskID string, params UpdateTaskParams) (*models.Task, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	task := &models.Task{
		ID:        taskID,
		UserID:    userID,
		UpdatedAt: time.Now(),
	}

	// Nil parameters keep the stored value via COALESCE; only the
	// supplied subset changes.
	const updateTaskQuery = `
UPDATE tasks
SET title = COALESCE($1, title),
    description = COALESCE($2, description),
    status = COALESCE($3, status),
    priority = COALESCE($4, priority),
    updated_at = $5
WHERE id = $6 AND user_id = $7
RETURNING title, description, status, priority, created_at
`
	err := s.pgPool.QueryRow(
		ctx,
		updateTaskQuery,
		params.Title,
		params.Description,
		params.Status,
		params.Priority,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	).Scan(
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("task_id", task.ID).
				Str("user_id", task.UserID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}

	s.cache.Invalidate(cache.TasksTag(userID))

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) SetTaskStatus(ctx context.Context, userID, taskID, status string) (*models.Task, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if !models.IsValidStatus(status) {
		return nil, ErrInvalidTaskStatus
	}

	task := &models.Task{
		ID:        taskID,
		UserID:    userID,
		Status:    status,
		UpdatedAt: time.Now(),
	}

	const updateTaskStatusQuery = `
UPDATE tasks
SET status = $1,
    updated_at = $2
WHERE id = $3 AND user_id = $4
RETURNING title, description, priority, created_at
`
	err := s.pgPool.QueryRow(
		ctx,
		updateTaskStatusQuery,
		task.Status,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	).Scan(
		&task.Title,
		&task.Description,
		&task.Priority,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("task_id", task.ID).
				Str("user_id", task.UserID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task status")
		return nil, err
	}

	s.cache.Invalidate(cache.TasksTag(userID))

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Str("status", task.Status).
		Msg("updated task status")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}

	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND user_id = $2
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteTaskQuery,
		taskID,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Str("task_id", taskID).
			Str("user_id", userID).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.cache.Invalidate(cache.TasksTag(userID))

	s.logger.Info().
		Str("task_id", taskID).
		Str("user_id", userID).
		Msg("deleted task")
	return nil
}
