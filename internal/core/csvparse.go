package core

// csvparse.go implements the lenient CSV dialect accepted by candidate imports.
//
// Rules:
//   - Input is split into physical lines; \r\n and lone \r count as newlines.
//   - Blank lines (empty or whitespace only) are dropped.
//   - Commas delimit fields only outside double quotes.
//   - Inside quotes, "" is a literal quote. Any other quote toggles quote state.
//   - Every field is trimmed after extraction.
//   - Nothing ever errors. A quote still open at the end of a line closes with
//     the line, so quoted fields cannot span lines.

import "strings"

// Line is one non-blank physical line of a CSV file.
type Line struct {
	Number int      // 1-based physical line number in the source text
	Fields []string // Trimmed field values
}

// ParseCSVLines parses text into rows of trimmed fields, skipping blank
// lines. Each row keeps its source line number so failures can point back at
// the file.
func ParseCSVLines(text string) []Line {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	raw := strings.Split(text, "\n")
	lines := make([]Line, 0, len(raw))
	for i, l := range raw {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, Line{Number: i + 1, Fields: ParseLine(l)})
	}
	return lines
}

// ParseLine splits a single physical line into trimmed fields.
func ParseLine(line string) []string {
	var (
		fields   []string
		cur      strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && inQuotes && i+1 < len(line) && line[i+1] == '"':
			cur.WriteByte('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}

	return append(fields, strings.TrimSpace(cur.String()))
}

// isEmptyRow reports whether every field in the row is blank.
func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
