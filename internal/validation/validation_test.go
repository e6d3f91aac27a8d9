package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestValidateTaskWrite(t *testing.T) {
	tests := []struct {
		name       string
		in         TaskWrite
		wantErrs   []string
		wantTitle  string
		wantDesc   *string
	}{
		{
			name:      "valid with trimmed title",
			in:        TaskWrite{Title: "  Buy milk  ", Status: "pending", Priority: "low"},
			wantTitle: "Buy milk",
		},
		{
			name:     "empty title",
			in:       TaskWrite{Title: "   ", Status: "pending", Priority: "low"},
			wantErrs: []string{"title"},
		},
		{
			name:     "title too long",
			in:       TaskWrite{Title: strings.Repeat("a", 201), Status: "pending", Priority: "low"},
			wantErrs: []string{"title"},
		},
		{
			name:      "title at max length",
			in:        TaskWrite{Title: strings.Repeat("a", 200), Status: "completed", Priority: "high"},
			wantTitle: strings.Repeat("a", 200),
		},
		{
			name:      "title length counts characters not bytes",
			in:        TaskWrite{Title: strings.Repeat("é", 150), Status: "pending", Priority: "low"},
			wantTitle: strings.Repeat("é", 150),
		},
		{
			name:     "multibyte title over max length",
			in:       TaskWrite{Title: strings.Repeat("é", 201), Status: "pending", Priority: "low"},
			wantErrs: []string{"title"},
		},
		{
			name:      "multibyte description at max length",
			in:        TaskWrite{Title: "t", Description: strPtr(strings.Repeat("ü", 1000)), Status: "pending", Priority: "medium"},
			wantTitle: "t",
			wantDesc:  strPtr(strings.Repeat("ü", 1000)),
		},
		{
			name:      "absent description allowed",
			in:        TaskWrite{Title: "t", Status: "pending", Priority: "medium"},
			wantTitle: "t",
			wantDesc:  nil,
		},
		{
			name:      "description trimmed",
			in:        TaskWrite{Title: "t", Description: strPtr("  notes  "), Status: "pending", Priority: "medium"},
			wantTitle: "t",
			wantDesc:  strPtr("notes"),
		},
		{
			name:     "description too long",
			in:       TaskWrite{Title: "t", Description: strPtr(strings.Repeat("d", 1001)), Status: "pending", Priority: "medium"},
			wantErrs: []string{"description"},
		},
		{
			name:     "unknown status",
			in:       TaskWrite{Title: "t", Status: "archived", Priority: "medium"},
			wantErrs: []string{"status"},
		},
		{
			name:     "unknown priority",
			in:       TaskWrite{Title: "t", Status: "pending", Priority: "critical"},
			wantErrs: []string{"priority"},
		},
		{
			name:     "multiple violations reported together",
			in:       TaskWrite{Title: "", Status: "nope", Priority: "nope"},
			wantErrs: []string{"title", "status", "priority"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errs := ValidateTaskWrite(tt.in)
			if len(tt.wantErrs) > 0 {
				require.Error(t, errs)
				assert.Len(t, errs, len(tt.wantErrs))
				for _, field := range tt.wantErrs {
					assert.Contains(t, errs, field)
				}
				return
			}

			require.Nil(t, errs)
			assert.Equal(t, tt.wantTitle, out.Title)
			if tt.wantDesc == nil {
				assert.Nil(t, out.Description)
			} else {
				require.NotNil(t, out.Description)
				assert.Equal(t, *tt.wantDesc, *out.Description)
			}
		})
	}
}

func TestValidateSignupCredentials(t *testing.T) {
	valid := SignupCredentials{
		FullName:        "Jane Roe",
		Email:           "jane@example.com",
		Password:        "Sup3rsecret",
		ConfirmPassword: "Sup3rsecret",
	}

	t.Run("valid", func(t *testing.T) {
		out, errs := ValidateSignupCredentials(valid)
		require.Nil(t, errs)
		assert.Equal(t, "Jane Roe", out.FullName)
		assert.Equal(t, "jane@example.com", out.Email)
	})

	t.Run("password without uppercase", func(t *testing.T) {
		in := valid
		in.Password = "abc123"
		in.ConfirmPassword = "abc123"
		_, errs := ValidateSignupCredentials(in)
		require.Error(t, errs)
		assert.Contains(t, errs["password"], "uppercase")
	})

	t.Run("password without digit", func(t *testing.T) {
		in := valid
		in.Password = "Abcdefgh"
		in.ConfirmPassword = "Abcdefgh"
		_, errs := ValidateSignupCredentials(in)
		require.Error(t, errs)
		assert.Contains(t, errs, "password")
	})

	t.Run("password too short", func(t *testing.T) {
		in := valid
		in.Password = "Ab1"
		in.ConfirmPassword = "Ab1"
		_, errs := ValidateSignupCredentials(in)
		require.Error(t, errs)
		assert.Contains(t, errs, "password")
	})

	t.Run("password too long", func(t *testing.T) {
		in := valid
		in.Password = "Ab1" + strings.Repeat("x", 70)
		in.ConfirmPassword = in.Password
		_, errs := ValidateSignupCredentials(in)
		require.Error(t, errs)
		assert.Contains(t, errs, "password")
	})

	t.Run("composition is order independent", func(t *testing.T) {
		in := valid
		in.Password = "123abcDEF"
		in.ConfirmPassword = "123abcDEF"
		_, errs := ValidateSignupCredentials(in)
		assert.Nil(t, errs)
	})

	t.Run("mismatch reported on confirm_password", func(t *testing.T) {
		in := valid
		in.ConfirmPassword = "Sup3rsecres"
		_, errs := ValidateSignupCredentials(in)
		require.Error(t, errs)
		assert.NotContains(t, errs, "password")
		assert.Contains(t, errs, "confirm_password")
	})

	t.Run("empty confirmation", func(t *testing.T) {
		in := valid
		in.ConfirmPassword = ""
		_, errs := ValidateSignupCredentials(in)
		require.Error(t, errs)
		assert.Equal(t, "Please confirm your password", errs["confirm_password"])
	})

	t.Run("invalid email", func(t *testing.T) {
		in := valid
		in.Email = "not-an-email"
		_, errs := ValidateSignupCredentials(in)
		require.Error(t, errs)
		assert.Contains(t, errs, "email")
	})

	t.Run("full name too long", func(t *testing.T) {
		in := valid
		in.FullName = strings.Repeat("n", 101)
		_, errs := ValidateSignupCredentials(in)
		require.Error(t, errs)
		assert.Contains(t, errs, "full_name")
	})

	t.Run("full name length counts characters not bytes", func(t *testing.T) {
		in := valid
		in.FullName = strings.Repeat("ø", 100)
		_, errs := ValidateSignupCredentials(in)
		assert.Nil(t, errs)
	})
}

func TestValidateLoginCredentials(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		out, errs := ValidateLoginCredentials(LoginCredentials{
			Email:    " jane@example.com ",
			Password: "whatever1",
		})
		require.Nil(t, errs)
		assert.Equal(t, "jane@example.com", out.Email)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, errs := ValidateLoginCredentials(LoginCredentials{
			Email:    "jane@",
			Password: "whatever1",
		})
		require.Error(t, errs)
		assert.Contains(t, errs, "email")
	})

	t.Run("empty password", func(t *testing.T) {
		_, errs := ValidateLoginCredentials(LoginCredentials{
			Email: "jane@example.com",
		})
		require.Error(t, errs)
		assert.Equal(t, "Password is required", errs["password"])
	})
}

func TestValidateProfileWrite(t *testing.T) {
	t.Run("both fields nil clears everything", func(t *testing.T) {
		out, errs := ValidateProfileWrite(ProfileWrite{})
		require.Nil(t, errs)
		assert.Nil(t, out.FullName)
		assert.Nil(t, out.AvatarURL)
	})

	t.Run("name trimmed", func(t *testing.T) {
		out, errs := ValidateProfileWrite(ProfileWrite{FullName: strPtr("  Jane  ")})
		require.Nil(t, errs)
		require.NotNil(t, out.FullName)
		assert.Equal(t, "Jane", *out.FullName)
	})

	t.Run("name too long", func(t *testing.T) {
		_, errs := ValidateProfileWrite(ProfileWrite{FullName: strPtr(strings.Repeat("n", 101))})
		require.Error(t, errs)
		assert.Contains(t, errs, "full_name")
	})

	t.Run("multibyte name at max length", func(t *testing.T) {
		out, errs := ValidateProfileWrite(ProfileWrite{FullName: strPtr(strings.Repeat("å", 100))})
		require.Nil(t, errs)
		require.NotNil(t, out.FullName)
	})

	t.Run("empty avatar url allowed", func(t *testing.T) {
		_, errs := ValidateProfileWrite(ProfileWrite{AvatarURL: strPtr("")})
		assert.Nil(t, errs)
	})

	t.Run("valid avatar url", func(t *testing.T) {
		_, errs := ValidateProfileWrite(ProfileWrite{AvatarURL: strPtr("https://example.com/a.png")})
		assert.Nil(t, errs)
	})

	t.Run("invalid avatar url", func(t *testing.T) {
		_, errs := ValidateProfileWrite(ProfileWrite{AvatarURL: strPtr("not a url")})
		require.Error(t, errs)
		assert.Contains(t, errs, "avatar_url")
	})
}

func TestFieldErrorsError(t *testing.T) {
	errs := FieldErrors{"b": "second", "a": "first"}
	assert.Equal(t, "a: first; b: second", errs.Error())
}
