package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskdeck/taskdeck/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrTaskNotFound         = errors.New("task not found")
	ErrInvalidTaskStatus    = errors.New("invalid task status")
	ErrProfileNotFound      = errors.New("profile not found")
)

type AuthService interface {
	// Login authenticates the user by email and password.
	//
	// It deletes all sessions with the same user ID, creates
	// a new session with a fresh JWT token pair and invalidates
	// every cached read scoped to the user.
	//
	// It returns ErrUserNotFound if the user with the given
	// email doesn't exist or ErrUserPasswordMismatch if the
	// given password doesn't match the user's password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh updates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if the session with the
	// given refresh token doesn't exist or ErrSessionExpired
	// if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Register creates a user with the given email and password,
	// together with the user's profile row seeded from the
	// display name, in one transaction.
	//
	// It returns ErrUserAlreadyExists if the user
	// with the given email already exists.
	Register(ctx context.Context, params RegisterParams) (*LoginResult, error)

	// Logout invalidates all sessions with the given user ID
	// and every cached read scoped to them.
	Logout(ctx context.Context, userID string) error

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or jwt.ErrTokenExpired if the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
}

type TaskService interface {
	// ListTasks returns the user's tasks newest-first, narrowed by
	// the filters. An empty user ID yields an empty result without
	// error. Results are cached per (user, filters) until the next
	// mutation.
	ListTasks(ctx context.Context, userID string, filters models.TaskFilters) ([]*models.Task, error)

	// GetTaskStats aggregates the per-status counts of the user's
	// tasks for the dashboard.
	GetTaskStats(ctx context.Context, userID string) (*models.TaskStats, error)

	// CreateTask inserts a task owned by the user. It returns
	// ErrNotAuthenticated, before touching the database, if the
	// user ID is empty.
	CreateTask(ctx context.Context, userID string, params CreateTaskParams) (*models.Task, error)

	// UpdateTask applies the non-nil fields to the user's task.
	// It returns ErrTaskNotFound if the task doesn't exist or
	// belongs to someone else.
	UpdateTask(ctx context.Context, userID, taskID string, params UpdateTaskParams) (*models.Task, error)

	// SetTaskStatus changes only the status, leaving every other
	// field untouched.
	SetTaskStatus(ctx context.Context, userID, taskID, status string) (*models.Task, error)

	// DeleteTask removes the task permanently. Deleting an already
	// deleted or foreign task returns ErrTaskNotFound.
	DeleteTask(ctx context.Context, userID, taskID string) error
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)

	// UpdateProfile writes both fields unconditionally: a nil
	// pointer clears the stored value. This is deliberately
	// different from UpdateTask's partial semantics.
	UpdateProfile(ctx context.Context, userID string, params UpdateProfileParams) (*models.Profile, error)
}

type LoginParams struct {
	Email       string
	Password    string
	Fingerprint string
}

type RegisterParams struct {
	Email       string
	Password    string
	FullName    string
	Fingerprint string
}

type LoginResult struct {
	UserID                string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}

type CreateTaskParams struct {
	Title       string
	Description *string
	Status      string
	Priority    string
}

type UpdateTaskParams struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
}

type UpdateProfileParams struct {
	FullName  *string
	AvatarURL *string
}
