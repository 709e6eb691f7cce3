package core

import "errors"

// ErrEmptyFile is returned when an import file has no header row.
var ErrEmptyFile = errors.New("empty file: no header row found")

// PreviewSampleSize is the number of valid records shown in an import preview.
var PreviewSampleSize = 10

// RowJob is one data row prepared for submission.
type RowJob struct {
	Row    int      // 1-based source line number
	Cells  []string // Original cells
	Record CandidateRecord
	Blank  bool         // Every cell empty; skipped without counting as a failure
	Errors []FieldError // Validation problems; the row is failed without submitting
}

// Valid reports whether the row should be sent to the backend.
func (j RowJob) Valid() bool {
	return !j.Blank && len(j.Errors) == 0
}

func (j RowJob) validationFailure() *RowFailure {
	if len(j.Errors) == 0 {
		return nil
	}
	return &RowFailure{
		Row:    j.Row,
		Field:  j.Errors[0].Field,
		Reason: joinFieldErrors(j.Errors),
		Data:   j.Cells,
	}
}

// ImportPlan is a parsed, mapped and validated import ready for submission.
type ImportPlan struct {
	Headers []string
	Fields  FieldMap
	Jobs    []RowJob
}

// PlanImport parses text, maps its header row and validates every data row.
// The only errors are ErrEmptyFile and *SchemaError; row problems are carried
// on the jobs so they can be reported in order alongside submission results.
func PlanImport(text string) (*ImportPlan, error) {
	lines := ParseCSVLines(text)
	if len(lines) == 0 {
		return nil, ErrEmptyFile
	}

	headers := lines[0].Fields
	fm, err := MapHeaders(headers)
	if err != nil {
		return nil, err
	}

	jobs := make([]RowJob, 0, len(lines)-1)
	for _, l := range lines[1:] {
		job := RowJob{Row: l.Number, Cells: l.Fields}
		if isEmptyRow(l.Fields) {
			job.Blank = true
		} else {
			job.Record = fm.Record(l.Fields)
			job.Errors = ValidateRecord(job.Record)
		}
		jobs = append(jobs, job)
	}

	return &ImportPlan{Headers: headers, Fields: fm, Jobs: jobs}, nil
}

// TotalRows returns the number of data rows, blank rows included.
func (p *ImportPlan) TotalRows() int {
	return len(p.Jobs)
}

// ImportPreview summarizes a plan without submitting anything.
type ImportPreview struct {
	Headers   []string          `json:"headers"`
	Columns   map[Field]string  `json:"columns"`
	TotalRows int               `json:"totalRows"`
	ValidRows int               `json:"validRows"`
	BlankRows int               `json:"blankRows"`
	Invalid   []RowFailure      `json:"invalid"`
	Sample    []CandidateRecord `json:"sample"`
}

// Preview reports what an import of this plan would attempt.
func (p *ImportPlan) Preview() ImportPreview {
	pv := ImportPreview{
		Headers:   p.Headers,
		Columns:   p.Fields.Columns(p.Headers),
		TotalRows: len(p.Jobs),
		Invalid:   []RowFailure{},
		Sample:    []CandidateRecord{},
	}
	for _, j := range p.Jobs {
		switch {
		case j.Blank:
			pv.BlankRows++
		case len(j.Errors) > 0:
			pv.Invalid = append(pv.Invalid, *j.validationFailure())
		default:
			pv.ValidRows++
			if len(pv.Sample) < PreviewSampleSize {
				pv.Sample = append(pv.Sample, j.Record)
			}
		}
	}
	return pv
}
