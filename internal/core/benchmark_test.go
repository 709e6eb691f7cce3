package core

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// ============================================================================
// Parsing Benchmarks
// ============================================================================

// benchImportText builds an import file with n data rows. Every tenth row is
// missing its email so validation failures are part of the workload.
func benchImportText(n int) string {
	var sb strings.Builder
	sb.WriteString("Name,Email,Phone,Experience,Current CTC,Expected CTC,Notice Period,Skills,LinkedIn,Notes\n")
	for i := 0; i < n; i++ {
		email := fmt.Sprintf("candidate%d@example.com", i)
		if i%10 == 0 {
			email = ""
		}
		fmt.Fprintf(&sb, "Candidate %d,%s,98%08d,%d,%d,%d,30,\"Go, SQL\",linkedin.com/in/c%d,\"said \"\"hi\"\"\"\n",
			i, email, i, i%15, 10+i%20, 12+i%20, i)
	}
	return sb.String()
}

// BenchmarkParseLine benchmarks splitting a quoted line into fields.
// This runs once per physical line of every upload.
func BenchmarkParseLine(b *testing.B) {
	line := `Asha Rao,asha@example.com,9876543210,4,10,14,30,"Go, SQL, ""distributed"" systems",linkedin.com/in/asha,`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParseLine(line)
	}
}

// BenchmarkMapHeaders benchmarks header resolution with synonyms and noise columns.
func BenchmarkMapHeaders(b *testing.B) {
	headers := []string{
		"Sr No", "Full Name", "E-mail ID", "Mobile", "Total Exp", "Current Salary",
		"Expected Salary", "Notice Period (days)", "Tech Stack", "LinkedIn URL", "Remarks",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := MapHeaders(headers); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkPlanImport benchmarks parse, map and validate for whole files.
func BenchmarkPlanImport(b *testing.B) {
	for _, rows := range []int{100, 1000, 10000} {
		text := benchImportText(rows)
		b.Run(fmt.Sprintf("rows=%d", rows), func(b *testing.B) {
			b.SetBytes(int64(len(text)))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := PlanImport(text); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// ============================================================================
// Submission Benchmarks
// ============================================================================

// BenchmarkSubmitPlan benchmarks the submitter overhead with a no-op backend.
func BenchmarkSubmitPlan(b *testing.B) {
	plan, err := PlanImport(benchImportText(1000))
	if err != nil {
		b.Fatal(err)
	}
	creator := CreatorFunc(func(context.Context, CandidateRecord) error { return nil })

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			s := &Submitter{Creator: creator}
			s.Submit(context.Background(), plan.Jobs)
		}
	})

	b.Run("pool", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			s := &Submitter{Creator: creator, Concurrency: 4}
			s.Submit(context.Background(), plan.Jobs)
		}
	})
}

// ============================================================================
// Pagination Benchmarks
// ============================================================================

type benchCandidate struct {
	Name, Email, Phone string
}

var benchMatcher = FieldsMatcher(
	func(c benchCandidate) string { return c.Name },
	func(c benchCandidate) string { return c.Email },
	func(c benchCandidate) string { return c.Phone },
)

func benchCandidates(n int) []benchCandidate {
	out := make([]benchCandidate, n)
	for i := range out {
		out[i] = benchCandidate{
			Name:  fmt.Sprintf("Candidate %d", i),
			Email: fmt.Sprintf("candidate%d@example.com", i),
			Phone: fmt.Sprintf("98%08d", i),
		}
	}
	return out
}

// BenchmarkPaginate benchmarks filtering and slicing a list on every keystroke.
func BenchmarkPaginate(b *testing.B) {
	source := benchCandidates(5000)

	b.Run("no filter", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			Paginate(source, benchMatcher, "", 25, 40)
		}
	})

	b.Run("filter", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			Paginate(source, benchMatcher, "CANDIDATE12", 25, 1)
		}
	})
}

// BenchmarkPageWindow benchmarks building the pager buttons.
func BenchmarkPageWindow(b *testing.B) {
	for i := 0; i < b.N; i++ {
		PageWindow(i%500+1, 500)
	}
}
