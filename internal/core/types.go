package core

import (
	"context"
	"strings"
	"time"
)

// Field identifies one column of the candidate schema.
type Field string

const (
	FieldName         Field = "name"
	FieldEmail        Field = "email"
	FieldPhone        Field = "phone"
	FieldExperience   Field = "experience"
	FieldCurrentCTC   Field = "currentCTC"
	FieldExpectedCTC  Field = "expectedCTC"
	FieldNoticePeriod Field = "noticePeriod"
	FieldSkills       Field = "skills"
	FieldLinkedIn     Field = "linkedInProfile"
	FieldNotes        Field = "notes"
)

// CandidateFields lists the schema in canonical column order.
var CandidateFields = []Field{
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldExperience,
	FieldCurrentCTC,
	FieldExpectedCTC,
	FieldNoticePeriod,
	FieldSkills,
	FieldLinkedIn,
	FieldNotes,
}

var fieldLabels = map[Field]string{
	FieldName:         "Name",
	FieldEmail:        "Email",
	FieldPhone:        "Phone",
	FieldExperience:   "Experience",
	FieldCurrentCTC:   "CurrentCTC",
	FieldExpectedCTC:  "ExpectedCTC",
	FieldNoticePeriod: "NoticePeriod",
	FieldSkills:       "Skills",
	FieldLinkedIn:     "LinkedIn",
	FieldNotes:        "Notes",
}

// Required reports whether the field must be present and non-empty.
// Notes is the only optional field.
func (f Field) Required() bool {
	return f != FieldNotes
}

// Label returns the canonical CSV header for the field.
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// CandidateRecord is the row schema shared by the create form and the CSV importer.
// It is transient: built per submission and never retained afterwards.
type CandidateRecord struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Experience   string `json:"experience"`
	CurrentCTC   string `json:"currentCTC"`
	ExpectedCTC  string `json:"expectedCTC"`
	NoticePeriod string `json:"noticePeriod"`
	Skills       string `json:"skills"`
	LinkedIn     string `json:"linkedInProfile"`
	Notes        string `json:"notes"`
}

// Get returns the value stored for field f.
func (r CandidateRecord) Get(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldEmail:
		return r.Email
	case FieldPhone:
		return r.Phone
	case FieldExperience:
		return r.Experience
	case FieldCurrentCTC:
		return r.CurrentCTC
	case FieldExpectedCTC:
		return r.ExpectedCTC
	case FieldNoticePeriod:
		return r.NoticePeriod
	case FieldSkills:
		return r.Skills
	case FieldLinkedIn:
		return r.LinkedIn
	case FieldNotes:
		return r.Notes
	}
	return ""
}

// Set stores v for field f. Unknown fields are ignored.
func (r *CandidateRecord) Set(f Field, v string) {
	switch f {
	case FieldName:
		r.Name = v
	case FieldEmail:
		r.Email = v
	case FieldPhone:
		r.Phone = v
	case FieldExperience:
		r.Experience = v
	case FieldCurrentCTC:
		r.CurrentCTC = v
	case FieldExpectedCTC:
		r.ExpectedCTC = v
	case FieldNoticePeriod:
		r.NoticePeriod = v
	case FieldSkills:
		r.Skills = v
	case FieldLinkedIn:
		r.LinkedIn = v
	case FieldNotes:
		r.Notes = v
	}
}

// Trimmed returns a copy with every field trimmed of surrounding whitespace.
func (r CandidateRecord) Trimmed() CandidateRecord {
	var out CandidateRecord
	for _, f := range CandidateFields {
		out.Set(f, strings.TrimSpace(r.Get(f)))
	}
	return out
}

// Values returns the record in canonical column order.
func (r CandidateRecord) Values() []string {
	vals := make([]string, len(CandidateFields))
	for i, f := range CandidateFields {
		vals[i] = r.Get(f)
	}
	return vals
}

// CandidateCreator creates a single candidate in the backend.
// Implementations return an error carrying the backend message on rejection.
type CandidateCreator interface {
	CreateCandidate(ctx context.Context, rec CandidateRecord) error
}

// CreatorFunc adapts a function to CandidateCreator.
type CreatorFunc func(ctx context.Context, rec CandidateRecord) error

func (f CreatorFunc) CreateCandidate(ctx context.Context, rec CandidateRecord) error {
	return f(ctx, rec)
}

// ImportPhase indicates the current stage of import processing.
type ImportPhase string

const (
	PhaseStarting   ImportPhase = "starting"
	PhaseSubmitting ImportPhase = "submitting"
	PhaseComplete   ImportPhase = "complete"
	PhaseFailed     ImportPhase = "failed"
	PhaseCancelled  ImportPhase = "cancelled"
)

// Terminal reports whether no further progress will follow.
func (p ImportPhase) Terminal() bool {
	return p == PhaseComplete || p == PhaseFailed || p == PhaseCancelled
}

// ImportProgress represents the current state of an import.
type ImportProgress struct {
	ImportID     string      `json:"importId"`
	FileName     string      `json:"fileName"`
	Phase        ImportPhase `json:"phase"`
	TotalRows    int         `json:"totalRows"`
	Processed    int         `json:"processed"`
	Succeeded    int         `json:"succeeded"`
	Failed       int         `json:"failed"`
	SkippedBlank int         `json:"skippedBlank"`
	Error        string      `json:"error,omitempty"`
}

// Percent returns the progress as a percentage (0-100).
func (p ImportProgress) Percent() int {
	if p.TotalRows <= 0 {
		if p.Phase.Terminal() {
			return 100
		}
		return 0
	}
	return (p.Processed * 100) / p.TotalRows
}

// ImportResult is the final record of a finished import.
type ImportResult struct {
	ImportID   string        `json:"importId"`
	FileName   string        `json:"fileName"`
	StartedBy  string        `json:"startedBy,omitempty"`
	Headers    []string      `json:"headers"`
	Outcome    ImportOutcome `json:"outcome"`
	Status     OutcomeStatus `json:"status"`
	Cancelled  bool          `json:"cancelled"`
	Duration   time.Duration `json:"duration"`
	FinishedAt time.Time     `json:"finishedAt"`
	Error      string        `json:"error,omitempty"`
}

// ProgressCallback is called as each row finishes.
type ProgressCallback func(RowResult)
