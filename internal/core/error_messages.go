package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds maximum size limit
//	          Action: Split the file into smaller chunks
//	          Patterns: "file too large"
//
//	FILE002 - Invalid CSV: File is not a valid CSV
//	          Action: Ensure file is comma-separated with consistent columns
//	          Patterns: "invalid csv"
//
//	FILE004 - No file: No file was selected
//	          Action: Please select a CSV or Excel file to upload
//	          Patterns: "no file provided"
//
//	FILE005 - Empty file: The uploaded file is empty
//	          Action: Please upload a file with a header row
//	          Patterns: "empty file"
//
//	FILE006 - Unsupported format: Only .csv and .xlsx files are supported
//	          Action: Save the file as CSV or Excel (.xlsx) and upload it again
//	          Patterns: "unsupported file format"
//
//	FILE007 - Invalid workbook: File is not a valid Excel workbook
//	          Action: Open the file in Excel and save it as .xlsx
//	          Patterns: "invalid xlsx"
//
//	FILE008 - Too many files: Too many files in one upload
//	          Action: Upload fewer files at a time
//	          Patterns: "too many files"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy: Too many uploads in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many uploads"
//
//	UPL003 - Session expired: File session not found
//	         Action: The file may have expired. Please upload it again
//	         Patterns: "workspace not found"
//
//	UPL004 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	UPL005 - Request timeout: Request timed out
//	         Action: Try uploading a smaller file or check your connection
//	         Patterns: "context deadline exceeded"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL005 - Column not found: Column not found in file
//	         Action: Pick a column from the file's header
//	         Patterns: "column not found"
//
//	VAL006 - Not numeric: Column does not contain numbers
//	         Action: Pick a numeric column
//	         Patterns: "column is not numeric"
//
//	VAL007 - Invalid option: An option value is not allowed
//	         Action: Check the selected options and try again
//	         Patterns: "invalid option"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// Patterns are matched case-insensitively using strings.Contains and the
// first match wins, so more specific patterns come first. A parse error for
// an empty file reads "invalid csv ...: empty file", which is why "empty
// file" precedes "invalid csv".

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File errors
	{"unsupported file format", UserMessage{"Only .csv and .xlsx files are supported", "Save the file as CSV or Excel (.xlsx) and upload it again", "FILE006"}},
	{"file too large", UserMessage{"File exceeds maximum size limit", "Split the file into smaller chunks", "FILE001"}},
	{"empty file", UserMessage{"The uploaded file is empty", "Please upload a file with a header row", "FILE005"}},
	{"invalid csv", UserMessage{"File is not a valid CSV", "Ensure file is comma-separated with consistent columns", "FILE002"}},
	{"invalid xlsx", UserMessage{"File is not a valid Excel workbook", "Open the file in Excel and save it as .xlsx", "FILE007"}},
	{"no file provided", UserMessage{"No file was selected", "Please select a CSV or Excel file to upload", "FILE004"}},
	{"too many files", UserMessage{"Too many files in one upload", "Upload fewer files at a time", "FILE008"}},

	// Upload errors
	{"too many uploads", UserMessage{"System is busy processing other uploads", "Please wait a moment and try again", "UPL002"}},
	{"workspace not found", UserMessage{"File session not found", "The file may have expired. Please upload it again", "UPL003"}},
	{"context canceled", UserMessage{"Request was cancelled", "Please try again", "UPL004"}},
	{"context deadline exceeded", UserMessage{"Request timed out", "Try uploading a smaller file or check your connection", "UPL005"}},

	// Validation errors
	{"column not found", UserMessage{"Column not found in file", "Pick a column from the file's header", "VAL005"}},
	{"column is not numeric", UserMessage{"Column does not contain numbers", "Pick a numeric column", "VAL006"}},
	{"invalid option", UserMessage{"An option value is not allowed", "Check the selected options and try again", "VAL007"}},

	// Rate limiting
	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
}

// defaultMessage is returned when no pattern matches (ERR000).
// Support staff should check application logs for the original technical
// error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It returns the first case-insensitive pattern match, or ERR000.
//
// Example:
//
//	_, err := core.Load(core.NewUploadedFile("report.pdf", data))
//	msg := core.MapError(err)
//	// msg.Code == "FILE006"
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

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err and keeps the original for logging via Unwrap.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
