package core

// error_messages.go maps technical errors to user-facing messages with codes
// for support reference. Users quote the code; support looks it up here.
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Missing columns: the header row lacks required candidate fields
//	         Patterns: "missing required column"
//	IMP002 - Total failure: no candidate in the file was created
//	         Patterns: "import failed"
//	IMP003 - Empty field: a row has an empty required field
//	         Patterns: "is required"
//	IMP004 - Bad email: a row has a malformed email address
//	         Patterns: "not a valid email"
//	IMP005 - Busy: too many imports are running
//	         Patterns: "too many imports"
//	IMP006 - Not found: the import ID is unknown or expired
//	         Patterns: "import not found"
//	IMP007 - Cancelled: the import was cancelled before finishing
//	         Patterns: "import cancelled"
//	IMP008 - Shutting down: the server is stopping and takes no new imports
//	         Patterns: "shutting down"
//
// # Backend Errors (BE001-BE099)
//
//	BE001 - Rejected: the recruitment backend refused the request
//	        Patterns: "backend rejected"
//	BE002 - Unreachable: the recruitment backend could not be reached
//	        Patterns: "backend unavailable", "connection refused", "no such host"
//	BE003 - Bad response: the backend answered with something unreadable
//	        Patterns: "decode backend response"
//
// # Session Errors (AUTH001-AUTH099)
//
//	AUTH001 - Expired: the session is missing or expired
//	          Patterns: "unauthorized", "session expired"
//	AUTH002 - Credentials: email or password was wrong
//	          Patterns: "invalid credentials"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Too large: the upload exceeds the size limit
//	FILE002 - Empty: the upload has no header or data
//	FILE003 - Missing: no file was attached
//	FILE004 - Wrong type: the upload is not a CSV file
//
// # Other
//
//	HIST001 - History store unavailable
//	REQ001/REQ002 - Request cancelled / timed out
//	RATE001 - Rate limited
//	ERR000 - Fallback; check the logs for the technical error
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Import errors. "import failed" wraps row details, so it comes first.
	{"missing required column", UserMessage{
		Message: "The CSV is missing required candidate columns",
		Action:  "Download the template and check the header row",
		Code:    "IMP001",
	}},
	{"import failed", UserMessage{
		Message: "No candidates were imported",
		Action:  "Fix the rows listed in the failure report and upload again",
		Code:    "IMP002",
	}},
	// Backend messages may quote field errors, so they precede the row patterns.
	{"backend rejected", UserMessage{
		Message: "The recruitment service rejected the request",
		Action:  "Review the details and try again",
		Code:    "BE001",
	}},
	{"is required", UserMessage{
		Message: "A required field is empty",
		Action:  "Fill in every required column for each candidate",
		Code:    "IMP003",
	}},
	{"not a valid email", UserMessage{
		Message: "An email address is not valid",
		Action:  "Use the form name@example.com",
		Code:    "IMP004",
	}},
	{"too many imports", UserMessage{
		Message: "The system is busy processing other imports",
		Action:  "Please wait a moment and try again",
		Code:    "IMP005",
	}},
	{"import not found", UserMessage{
		Message: "Import not found",
		Action:  "The import may have expired. Check the import history",
		Code:    "IMP006",
	}},
	{"import cancelled", UserMessage{
		Message: "The import was cancelled",
		Action:  "Start a new import when ready",
		Code:    "IMP007",
	}},
	{"shutting down", UserMessage{
		Message: "The server is restarting and cannot start new imports",
		Action:  "Please try again in a minute",
		Code:    "IMP008",
	}},

	// Session errors
	{"invalid credentials", UserMessage{
		Message: "Email or password is incorrect",
		Action:  "Check your credentials and try again",
		Code:    "AUTH002",
	}},
	{"unauthorized", UserMessage{
		Message: "Your session has expired",
		Action:  "Please sign in again",
		Code:    "AUTH001",
	}},
	{"session expired", UserMessage{
		Message: "Your session has expired",
		Action:  "Please sign in again",
		Code:    "AUTH001",
	}},

	// Backend errors
	{"backend unavailable", UserMessage{
		Message: "Unable to reach the recruitment service",
		Action:  "Please try again in a few moments",
		Code:    "BE002",
	}},
	{"connection refused", UserMessage{
		Message: "Unable to reach the recruitment service",
		Action:  "Please try again in a few moments",
		Code:    "BE002",
	}},
	{"no such host", UserMessage{
		Message: "Unable to reach the recruitment service",
		Action:  "Please try again in a few moments",
		Code:    "BE002",
	}},
	{"decode backend response", UserMessage{
		Message: "The recruitment service sent an unexpected response",
		Action:  "Please try again or contact support",
		Code:    "BE003",
	}},

	// File errors
	{"file too large", UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Split the file into smaller files",
		Code:    "FILE001",
	}},
	{"empty file", UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Upload a CSV with a header row and candidate rows",
		Code:    "FILE002",
	}},
	{"no file provided", UserMessage{
		Message: "No file was selected",
		Action:  "Please select a CSV file to upload",
		Code:    "FILE003",
	}},
	{"not a csv", UserMessage{
		Message: "Only CSV files can be imported",
		Action:  "Export the sheet as CSV (comma delimited) and upload that",
		Code:    "FILE004",
	}},

	// Infrastructure
	{"history store", UserMessage{
		Message: "Import history is temporarily unavailable",
		Action:  "Please try again later",
		Code:    "HIST001",
	}},
	{"context canceled", UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "REQ001",
	}},
	{"context deadline exceeded", UserMessage{
		Message: "Request timed out",
		Action:  "Please try again",
		Code:    "REQ002",
	}},
	{"invalid request", UserMessage{
		Message: "The request could not be read",
		Action:  "Reload the page and try again",
		Code:    "REQ003",
	}},
	{"unknown list", UserMessage{
		Message: "That list does not exist",
		Action:  "Use the navigation menu to open a list",
		Code:    "REQ004",
	}},
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

// defaultMessage is the ERR000 fallback. Support should check the logs for
// the original technical error when users report it.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the zero UserMessage for a nil error and ERR000 when nothing matches.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matched a specific pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
