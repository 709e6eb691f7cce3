package core

import (
	"fmt"
	"strings"
)

// FieldMap maps each schema field to its column index in the source rows.
type FieldMap map[Field]int

// Record builds a CandidateRecord from a row. Cells beyond the end of a short
// row read as empty.
func (m FieldMap) Record(row []string) CandidateRecord {
	var rec CandidateRecord
	for f, idx := range m {
		if idx >= 0 && idx < len(row) {
			rec.Set(f, strings.TrimSpace(row[idx]))
		}
	}
	return rec
}

// Columns returns the mapped header for each field, for display in previews.
func (m FieldMap) Columns(headers []string) map[Field]string {
	cols := make(map[Field]string, len(m))
	for f, idx := range m {
		if idx >= 0 && idx < len(headers) {
			cols[f] = headers[idx]
		}
	}
	return cols
}

// SchemaError reports required fields with no matching header.
type SchemaError struct {
	Missing []Field
}

func (e *SchemaError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("missing required column(s): %s", strings.Join(names, ", "))
}

// fieldSynonyms lists header tokens per field. A normalized header matches a
// field when it contains any of its tokens.
var fieldSynonyms = map[Field][]string{
	FieldName:         {"name", "full name", "fullname", "candidate"},
	FieldEmail:        {"email", "e-mail", "mail"},
	FieldPhone:        {"phone", "mobile", "contact number", "contact no"},
	FieldExperience:   {"experience", "years of exp", "yoe", "total exp", "work exp"},
	FieldCurrentCTC:   {"currentctc", "current ctc", "current_ctc", "current-ctc", "current salary", "current compensation"},
	FieldExpectedCTC:  {"expectedctc", "expected ctc", "expected_ctc", "expected-ctc", "expected salary", "expected compensation"},
	FieldNoticePeriod: {"noticeperiod", "notice period", "notice_period", "notice-period", "notice"},
	FieldSkills:       {"skill", "tech stack", "technologies"},
	FieldLinkedIn:     {"linkedin", "linked in", "linked_in", "linked-in"},
	FieldNotes:        {"note", "remark", "comment"},
}

// matchOrder resolves the most specific fields first so generic tokens like
// "name" cannot claim a column that belongs to a narrower field.
var matchOrder = []Field{
	FieldEmail,
	FieldLinkedIn,
	FieldCurrentCTC,
	FieldExpectedCTC,
	FieldNoticePeriod,
	FieldPhone,
	FieldSkills,
	FieldExperience,
	FieldNotes,
	FieldName,
}

// normalizeHeader lowercases, trims and collapses inner whitespace.
func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}

// MapHeaders resolves the header row to the candidate schema.
//
// Each column is claimed by at most one field. An exact synonym match wins
// over a substring match; otherwise the leftmost unclaimed column containing
// a synonym is used. When any required field is unmatched the returned error
// is a *SchemaError naming every missing field in schema order.
func MapHeaders(headers []string) (FieldMap, error) {
	norm := make([]string, len(headers))
	for i, h := range headers {
		norm[i] = normalizeHeader(h)
	}

	fm := make(FieldMap, len(CandidateFields))
	claimed := make([]bool, len(headers))

	claim := func(f Field, match func(h, syn string) bool) {
		if _, done := fm[f]; done {
			return
		}
		for i, h := range norm {
			if claimed[i] || h == "" {
				continue
			}
			for _, syn := range fieldSynonyms[f] {
				if match(h, syn) {
					fm[f] = i
					claimed[i] = true
					return
				}
			}
		}
	}

	for _, f := range matchOrder {
		claim(f, func(h, syn string) bool { return h == syn })
	}
	for _, f := range matchOrder {
		claim(f, strings.Contains)
	}

	var missing []Field
	for _, f := range CandidateFields {
		if _, ok := fm[f]; !ok && f.Required() {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	return fm, nil
}

// TemplateHeaders returns the canonical header row for new import files.
func TemplateHeaders() []string {
	h := make([]string, len(CandidateFields))
	for i, f := range CandidateFields {
		h[i] = f.Label()
	}
	return h
}
