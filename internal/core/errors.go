package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for any extension other than .csv or .xlsx.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrParse matches every *ParseError via errors.Is.
	ErrParse = errors.New("parse error")

	// ErrEmptyFile is wrapped by a ParseError when a file has no records.
	ErrEmptyFile = errors.New("empty file")

	// ErrUndefinedMean is returned by ColumnMean for a column without numbers.
	// Imputation treats it as a no-op.
	ErrUndefinedMean = errors.New("undefined mean")

	ErrColumnNotFound    = errors.New("column not found")
	ErrNotNumeric        = errors.New("column is not numeric")
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrInvalidFormat     = errors.New("invalid option: unknown export format")
)

// ParseError reports malformed CSV or XLSX content.
type ParseError struct {
	Filename string
	Format   string // "csv" or "xlsx"
	Line     int    // 1-based record number, header included; 0 when not tied to a record
	Err      error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid %s %q: line %d: %v", e.Format, e.Filename, e.Line, e.Err)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Format, e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrParse) match any ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrParse }
