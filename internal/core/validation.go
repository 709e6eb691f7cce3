package core

// validation.go provides row-level validation for candidate records before
// they are submitted.
//
// Validation happens at two levels:
//  1. Header validation: MapHeaders ensures every required column is present
//  2. Row validation: ValidateRecord checks each required value and the email format
//
// ValidateRecord returns every problem with a record so previews can show them
// all at once; the importer folds them into a single failure per row.

import (
	"fmt"
	"regexp"
	"strings"
)

// emailPattern is deliberately loose: local@domain.tld with no whitespace or
// extra @ in any part.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError is a single validation problem on one field.
type FieldError struct {
	Field   Field  `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidEmail reports whether s looks like local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidateRecord checks every required field is non-empty after trimming and
// that the email is well formed. Errors are returned in schema order.
func ValidateRecord(rec CandidateRecord) []FieldError {
	var errs []FieldError

	for _, f := range CandidateFields {
		if !f.Required() {
			continue
		}
		if strings.TrimSpace(rec.Get(f)) == "" {
			errs = append(errs, FieldError{Field: f, Message: "is required"})
		}
	}

	email := strings.TrimSpace(rec.Email)
	if email != "" && !ValidEmail(email) {
		errs = append(errs, FieldError{
			Field:   FieldEmail,
			Message: fmt.Sprintf("%q is not a valid email address", email),
		})
	}

	return errs
}

// joinFieldErrors renders validation errors as one human-readable reason.
func joinFieldErrors(errs []FieldError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// LinkedInURL normalizes a profile link for display by adding https:// when
// no scheme is present.
func LinkedInURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return s
	}
	return "https://" + strings.TrimPrefix(s, "//")
}
