// Package core provides the business logic for bulk candidate imports and
// list views.
//
// The package has no HTTP or UI dependencies. Web handlers, tests and any
// future CLI drive it through [Service] and the pure helpers below.
//
// # Import Pipeline
//
// A candidate import moves through four stages, each usable on its own:
//
//  1. [ParseCSVLines] turns raw text into rows of trimmed fields. Blank lines are
//     dropped and malformed quoting never errors.
//  2. [MapHeaders] resolves the header row to the candidate schema using
//     case-insensitive synonym matching. Missing required columns produce a
//     [*SchemaError] and nothing is submitted.
//  3. [ValidateRecord] checks required fields and the email format per row.
//     Fully blank rows are skipped rather than failed.
//  4. [Submitter] creates one backend record per row in source order with a
//     fixed delay between submissions, or through a bounded worker pool when
//     configured, and folds everything into an [ImportOutcome].
//
// [Service.StartImport] runs stages 1-3 synchronously so schema errors are
// returned to the caller, then runs stage 4 in the background under the
// [ImportLimiter]. Progress is broadcast to subscribers and the finished
// outcome is written to the [ImportStore].
//
// # List Views
//
// [Paginate] derives a [PageView] from a collection, a filter and a page
// size. [ListState] carries the filter, page size and current page between
// requests and resets the page whenever the filter or page size changes.
// [PageWindow] computes the numbered buttons shown under a list.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - IMP001-IMP007: Import errors (schema, rows, busy, not found, cancelled)
//   - BE001-BE003: Backend errors (rejected, unreachable, unreadable)
//   - AUTH001-AUTH002: Session errors
//   - FILE001-FILE004: File errors (size, empty, missing, wrong type)
//   - HIST001: Import history unavailable
//   - REQ001-REQ004, RATE001: Request errors
package core
