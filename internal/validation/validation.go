// Package validation holds the pure write-shape validators. Each
// validator takes a candidate record and returns either a normalized
// copy (strings trimmed, defaults untouched) or FieldErrors keyed by
// the JSON field name. No validator performs I/O.
package validation

import (
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a field name to a human-readable message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var sb strings.Builder
	for i, field := range fields {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(field)
		sb.WriteString(": ")
		sb.WriteString(e[field])
	}
	return sb.String()
}

// validate is used for syntactic checks only (email, url). The
// domain rules stay in the explicit validator functions below.
var validate = validator.New()

func isValidEmail(email string) bool {
	return validate.Var(email, "email") == nil
}

func isValidURL(rawURL string) bool {
	return validate.Var(rawURL, "url") == nil
}
