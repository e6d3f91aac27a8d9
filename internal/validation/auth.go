package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 72
	maxFullNameLength = 100
)

type LoginCredentials struct {
	Email    string
	Password string
}

func ValidateLoginCredentials(in LoginCredentials) (LoginCredentials, FieldErrors) {
	errs := FieldErrors{}

	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" {
		errs["email"] = "Email is required"
	} else if !isValidEmail(in.Email) {
		errs["email"] = "Please enter a valid email address"
	}

	if in.Password == "" {
		errs["password"] = "Password is required"
	} else if len(in.Password) < minPasswordLength {
		errs["password"] = "Password must be at least 6 characters"
	}

	if len(errs) > 0 {
		return LoginCredentials{}, errs
	}
	return in, nil
}

type SignupCredentials struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// ValidateSignupCredentials checks the signup shape. The password
// must be 6 to 72 characters and contain at least one lowercase
// letter, one uppercase letter and one digit, in any order. A
// confirmation mismatch is reported on confirm_password, not on
// password.
func ValidateSignupCredentials(in SignupCredentials) (SignupCredentials, FieldErrors) {
	errs := FieldErrors{}

	in.FullName = strings.TrimSpace(in.FullName)
	if in.FullName == "" {
		errs["full_name"] = "Full name is required"
	} else if utf8.RuneCountInString(in.FullName) > maxFullNameLength {
		errs["full_name"] = "Name must be less than 100 characters"
	}

	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" {
		errs["email"] = "Email is required"
	} else if !isValidEmail(in.Email) {
		errs["email"] = "Please enter a valid email address"
	}

	switch {
	case len(in.Password) < minPasswordLength:
		errs["password"] = "Password must be at least 6 characters"
	case len(in.Password) > maxPasswordLength:
		errs["password"] = "Password must be less than 72 characters"
	case !hasPasswordComposition(in.Password):
		errs["password"] = "Password must contain at least one uppercase letter, one lowercase letter, and one number"
	}

	if in.ConfirmPassword == "" {
		errs["confirm_password"] = "Please confirm your password"
	} else if _, ok := errs["password"]; !ok && in.ConfirmPassword != in.Password {
		errs["confirm_password"] = "Passwords don't match"
	}

	if len(errs) > 0 {
		return SignupCredentials{}, errs
	}
	return in, nil
}

func hasPasswordComposition(password string) bool {
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}
