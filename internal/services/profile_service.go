package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/models"
)

type profileServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
	cache  *cache.Cache
}

func NewProfileService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
	queryCache *cache.Cache,
) ProfileService {
	return &profileServiceImpl{
		logger: logger,
		pgPool: pgPool,
		cache:  queryCache,
	}
}

func (s *profileServiceImpl) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	key := cache.ProfileKey(userID)
	if v, ok := s.cache.Get(key); ok {
		return v.(*models.Profile), nil
	}
	gen := s.cache.Generation(cache.ProfileTag(userID))

	profile := &models.Profile{UserID: userID}

	const selectProfileQuery = `
SELECT p.full_name,
       p.avatar_url,
       u.email,
       p.created_at,
       p.updated_at
FROM profiles p
JOIN users u ON u.id = p.user_id
WHERE p.user_id = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectProfileQuery,
		profile.UserID,
	).Scan(
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Email,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("user_id", profile.UserID).
				Msg("profile not found")
			return nil, ErrProfileNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", profile.UserID).
			Msg("failed to select profile")
		return nil, err
	}

	s.cache.SetIfCurrent(key, gen, profile, cache.ProfileTag(userID))

	s.logger.Debug().
		Str("user_id", profile.UserID).
		Msg("selected profile")
	return profile, nil
}

func (s *profileServiceImpl) UpdateProfile(ctx context.Context, userID string, params UpdateProfileParams) (*models.Profile, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	profile := &models.Profile{
		UserID:    userID,
		FullName:  params.FullName,
		AvatarURL: params.AvatarURL,
		UpdatedAt: time.Now(),
	}

	// Both columns are written on every update: a nil parameter
	// stores NULL and clears the field. Task updates do the
	// opposite, leaving unsupplied fields alone.
	const updateProfileQuery = `
UPDATE profiles p
SET full_name = $1,
    avatar_url = $2,
    updated_at = $3
FROM users u
WHERE p.user_id = $4 AND u.id = p.user_id
RETURNING p.created_at, u.email
`
	err := s.pgPool.QueryRow(
		ctx,
		updateProfileQuery,
		profile.FullName,
		profile.AvatarURL,
		profile.UpdatedAt,
		profile.UserID,
	).Scan(
		&profile.CreatedAt,
		&profile.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("user_id", profile.UserID).
				Msg("profile not found")
			return nil, ErrProfileNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", profile.UserID).
			Msg("failed to update profile")
		return nil, err
	}

	s.cache.Invalidate(cache.ProfileTag(userID))

	s.logger.Info().
		Str("user_id", profile.UserID).
		Msg("updated profile")
	return profile, nil
}
