package core

import (
	"strings"
	"testing"
)

func validRecord() CandidateRecord {
	return CandidateRecord{
		Name:         "Asha Kumar",
		Email:        "asha@example.com",
		Phone:        "9876543210",
		Experience:   "3 years",
		CurrentCTC:   "10L",
		ExpectedCTC:  "14L",
		NoticePeriod: "30 days",
		Skills:       "Go, SQL",
		LinkedIn:     "linkedin.com/in/asha",
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"asha@example.com", true},
		{"first.last+tag@sub.example.co.in", true},
		{"a@b.c", true},
		{"", false},
		{"asha", false},
		{"asha@example", false},
		{"@example.com", false},
		{"asha@.com", false},
		{"asha@@example.com", false},
		{"asha @example.com", false},
		{"asha@exa mple.com", false},
		{"asha@example.", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := ValidEmail(tt.email); got != tt.valid {
				t.Errorf("ValidEmail(%q) = %v, want %v", tt.email, got, tt.valid)
			}
		})
	}
}

func TestValidateRecord_Valid(t *testing.T) {
	if errs := ValidateRecord(validRecord()); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateRecord_NotesOptional(t *testing.T) {
	rec := validRecord()
	rec.Notes = ""
	if errs := ValidateRecord(rec); len(errs) != 0 {
		t.Errorf("empty notes should be accepted, got %v", errs)
	}
}

func TestValidateRecord_EachRequiredField(t *testing.T) {
	for _, f := range CandidateFields {
		if !f.Required() {
			continue
		}
		t.Run(string(f), func(t *testing.T) {
			rec := validRecord()
			rec.Set(f, "   ")

			errs := ValidateRecord(rec)
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
			}
			if errs[0].Field != f {
				t.Errorf("error field = %s, want %s", errs[0].Field, f)
			}
			if !strings.Contains(errs[0].Error(), "is required") {
				t.Errorf("error = %q", errs[0].Error())
			}
		})
	}
}

func TestValidateRecord_BadEmail(t *testing.T) {
	rec := validRecord()
	rec.Email = "not-an-email"

	errs := ValidateRecord(rec)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if errs[0].Field != FieldEmail {
		t.Errorf("field = %s, want email", errs[0].Field)
	}
	if !strings.Contains(errs[0].Error(), "not a valid email") {
		t.Errorf("error = %q", errs[0].Error())
	}
}

func TestValidateRecord_CollectsAll(t *testing.T) {
	rec := CandidateRecord{Name: "Only Name"}

	errs := ValidateRecord(rec)
	if len(errs) != 8 {
		t.Fatalf("got %d errors, want 8: %v", len(errs), errs)
	}
	if errs[0].Field != FieldEmail {
		t.Errorf("first error field = %s, want email (schema order)", errs[0].Field)
	}

	reason := joinFieldErrors(errs)
	if !strings.HasPrefix(reason, "email is required; phone is required") {
		t.Errorf("joined reason = %q", reason)
	}
}

// Accepted rows always satisfy the full invariant.
func TestValidateRecord_AcceptedImpliesInvariant(t *testing.T) {
	values := []string{"", " ", "x", "a@b.c", "bad@", "9876543210"}

	for _, email := range values {
		for _, phone := range values {
			for _, skills := range values {
				rec := validRecord()
				rec.Email = email
				rec.Phone = phone
				rec.Skills = skills

				if len(ValidateRecord(rec)) > 0 {
					continue
				}
				for _, f := range CandidateFields {
					if f.Required() && strings.TrimSpace(rec.Get(f)) == "" {
						t.Errorf("accepted record with empty %s: %+v", f, rec)
					}
				}
				if !ValidEmail(strings.TrimSpace(rec.Email)) {
					t.Errorf("accepted record with bad email %q", rec.Email)
				}
			}
		}
	}
}

func TestLinkedInURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"  ", ""},
		{"linkedin.com/in/asha", "https://linkedin.com/in/asha"},
		{"https://linkedin.com/in/asha", "https://linkedin.com/in/asha"},
		{"http://linkedin.com/in/asha", "http://linkedin.com/in/asha"},
		{"HTTPS://LinkedIn.com/in/asha", "HTTPS://LinkedIn.com/in/asha"},
		{"//linkedin.com/in/asha", "https://linkedin.com/in/asha"},
		{" www.linkedin.com/in/asha ", "https://www.linkedin.com/in/asha"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := LinkedInURL(tt.input); got != tt.expected {
				t.Errorf("LinkedInURL(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
