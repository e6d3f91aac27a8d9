package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/services"
	"github.com/taskdeck/taskdeck/internal/validation"
)

type profileResponse struct {
	UserID    string    `json:"user_id"`
	FullName  *string   `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newProfileResponse(profile *models.Profile) profileResponse {
	return profileResponse{
		UserID:    profile.UserID,
		FullName:  profile.FullName,
		AvatarURL: profile.AvatarURL,
		Email:     profile.Email,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}

func (h *handlerImpl) HandleGetProfile(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	profile, err := h.profiles.GetProfile(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get profile")
		if errors.Is(err, services.ErrProfileNotFound) {
			abort(c, newNotFoundError(services.ErrProfileNotFound.Error()))
			return
		}
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(profile))
}

type updateProfileRequest struct {
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// HandleUpdateProfile writes both fields on every call: a null field
// in the request clears the stored value. The response carries the
// persisted record so the client form can reseed itself.
func (h *handlerImpl) HandleUpdateProfile(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req updateProfileRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	write, fieldErrs := validation.ValidateProfileWrite(validation.ProfileWrite{
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
	})
	if fieldErrs != nil {
		h.logger.Error().
			Err(fieldErrs).
			Msg("invalid profile write")
		abortWithFieldErrors(c, fieldErrs)
		return
	}

	profile, err := h.profiles.UpdateProfile(c, userID, services.UpdateProfileParams{
		FullName:  write.FullName,
		AvatarURL: write.AvatarURL,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update profile")
		if errors.Is(err, services.ErrProfileNotFound) {
			abort(c, newNotFoundError(services.ErrProfileNotFound.Error()))
			return
		}
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(profile))
}
