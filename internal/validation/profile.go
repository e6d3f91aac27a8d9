package validation

import (
	"strings"
	"unicode/utf8"
)

// ProfileWrite carries both profile fields on every update. A nil
// pointer clears the stored value rather than leaving it unchanged.
type ProfileWrite struct {
	FullName  *string
	AvatarURL *string
}

func ValidateProfileWrite(in ProfileWrite) (ProfileWrite, FieldErrors) {
	errs := FieldErrors{}

	if in.FullName != nil {
		trimmed := strings.TrimSpace(*in.FullName)
		in.FullName = &trimmed
		if utf8.RuneCountInString(trimmed) > maxFullNameLength {
			errs["full_name"] = "Name must be less than 100 characters"
		}
	}

	// An empty avatar URL is allowed and means "no avatar".
	if in.AvatarURL != nil && *in.AvatarURL != "" && !isValidURL(*in.AvatarURL) {
		errs["avatar_url"] = "Please enter a valid URL"
	}

	if len(errs) > 0 {
		return ProfileWrite{}, errs
	}
	return in, nil
}
