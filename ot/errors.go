package ot

import (
	"errors"
	"fmt"
)

// Error kinds reported by the decoders of this package. Clients should test
// for them with errors.Is, as they are usually wrapped with context.
var (
	// ErrMalformedHeader flags a signature or magic number mismatch, e.g., a
	// collection tag other than 'ttcf' or a 'head' table with a bad magic number.
	ErrMalformedHeader = errors.New("malformed header")
	// ErrOutOfRange flags a read or a declared offset/length crossing the end
	// of the font's byte range.
	ErrOutOfRange = errors.New("out of range")
	// ErrUnsupportedFormat flags a cmap subtable format which is recognized but
	// not decoded (10, 14) or unknown.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrEncoding flags a failed string transcoding.
	ErrEncoding = errors.New("encoding error")
)

// ErrorSeverity represents the severity level of a font parsing error.
type ErrorSeverity int

const (
	// SeverityCritical indicates a severe error that makes the font unusable or unreliable.
	SeverityCritical ErrorSeverity = iota
	// SeverityMajor indicates a significant error that may affect functionality but doesn't prevent usage.
	SeverityMajor
	// SeverityMinor indicates a minor issue that can be safely ignored in most cases.
	SeverityMinor
)

// String returns a human-readable representation of the error severity.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityMajor:
		return "MAJOR"
	case SeverityMinor:
		return "MINOR"
	default:
		return "UNKNOWN"
	}
}

// FontError represents an error encountered during font parsing.
// Errors are accumulated during initial parsing and can be inspected after parsing completes.
type FontError struct {
	Table    Tag           // The OpenType table where the error occurred (e.g., "cmap", "OS/2")
	Section  string        // Specific section within the table (e.g., "Format4/record 1")
	Issue    string        // Human-readable description of the issue
	Severity ErrorSeverity // Severity level of the error
	Offset   uint32        // Byte offset in the font file where the error occurred (0 if unknown)
	Kind     error         // one of the Err… sentinels, may be nil
}

// Error implements the error interface.
func (e FontError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("[%s] %s/%s at offset %d: %s", e.Severity, e.Table, e.Section, e.Offset, e.Issue)
	}
	return fmt.Sprintf("[%s] %s/%s: %s", e.Severity, e.Table, e.Section, e.Issue)
}

// Unwrap makes the error kind available to errors.Is.
func (e FontError) Unwrap() error {
	return e.Kind
}

// FontWarning represents a non-critical issue encountered during font parsing.
// Warnings indicate potential problems but do not prevent font usage.
type FontWarning struct {
	Table  Tag    // The OpenType table where the warning occurred
	Issue  string // Human-readable description of the warning
	Offset uint32 // Byte offset in the font file where the warning occurred (0 if unknown)
}

// String returns a human-readable representation of the warning.
func (w FontWarning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("[WARNING] %s at offset %d: %s", w.Table, w.Offset, w.Issue)
	}
	return fmt.Sprintf("[WARNING] %s: %s", w.Table, w.Issue)
}

// errorCollector accumulates errors and warnings during font parsing.
type errorCollector struct {
	errors   []FontError
	warnings []FontWarning
}

// addError records a parsing error. kind is derived from err, if err wraps
// one of the sentinels.
func (ec *errorCollector) addError(table Tag, section string, err error, severity ErrorSeverity, offset uint32) {
	ec.errors = append(ec.errors, FontError{
		Table:    table,
		Section:  section,
		Issue:    err.Error(),
		Severity: severity,
		Offset:   offset,
		Kind:     errorKind(err),
	})
}

// addWarning records a parsing warning.
func (ec *errorCollector) addWarning(table Tag, issue string, offset uint32) {
	ec.warnings = append(ec.warnings, FontWarning{
		Table:  table,
		Issue:  issue,
		Offset: offset,
	})
}

func errorKind(err error) error {
	for _, kind := range []error{ErrMalformedHeader, ErrOutOfRange, ErrUnsupportedFormat, ErrEncoding} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// errFontFormat produces user level errors for malformed font structures.
func errFontFormat(message string) error {
	return fmt.Errorf("OpenType font format: %w: %s", ErrMalformedHeader, message)
}

// errRange produces an out-of-range error with context.
func errRange(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrOutOfRange, fmt.Sprintf(format, args...))
}
