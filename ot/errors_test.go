package ot

import (
	"errors"
	"fmt"
	"testing"
)

// TestErrorSeverity verifies the ErrorSeverity String() method.
func TestErrorSeverity(t *testing.T) {
	tests := []struct {
		severity ErrorSeverity
		expected string
	}{
		{SeverityCritical, "CRITICAL"},
		{SeverityMajor, "MAJOR"},
		{SeverityMinor, "MINOR"},
		{ErrorSeverity(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		result := tt.severity.String()
		if result != tt.expected {
			t.Errorf("ErrorSeverity(%d).String() = %q; want %q", tt.severity, result, tt.expected)
		}
	}
}

// TestFontError verifies FontError creation and formatting.
func TestFontError(t *testing.T) {
	tests := []struct {
		name     string
		err      FontError
		expected string
	}{
		{
			name: "Error with offset",
			err: FontError{
				Table:    T("cmap"),
				Section:  "Format4/record 1",
				Issue:    "Buffer too small",
				Severity: SeverityCritical,
				Offset:   1234,
			},
			expected: "[CRITICAL] cmap/Format4/record 1 at offset 1234: Buffer too small",
		},
		{
			name: "Error without offset",
			err: FontError{
				Table:    T("name"),
				Section:  "Records",
				Issue:    "Invalid format",
				Severity: SeverityMajor,
				Offset:   0,
			},
			expected: "[MAJOR] name/Records: Invalid format",
		},
		{
			name: "Minor error",
			err: FontError{
				Table:    T("VDMX"),
				Section:  "Structure",
				Issue:    "Missing group",
				Severity: SeverityMinor,
				Offset:   0,
			},
			expected: "[MINOR] VDMX/Structure: Missing group",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.err.Error()
			if result != tt.expected {
				t.Errorf("FontError.Error() = %q; want %q", result, tt.expected)
			}
		})
	}
}

// TestFontWarning verifies FontWarning creation and formatting.
func TestFontWarning(t *testing.T) {
	tests := []struct {
		name     string
		warning  FontWarning
		expected string
	}{
		{
			name: "Warning with offset",
			warning: FontWarning{
				Table:  T("LTSH"),
				Issue:  "Table size mismatch",
				Offset: 5678,
			},
			expected: "[WARNING] LTSH at offset 5678: Table size mismatch",
		},
		{
			name: "Warning without offset",
			warning: FontWarning{
				Table:  T("GSUB"),
				Issue:  "table not interpreted",
				Offset: 0,
			},
			expected: "[WARNING] GSUB: table not interpreted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.warning.String()
			if result != tt.expected {
				t.Errorf("FontWarning.String() = %q; want %q", result, tt.expected)
			}
		})
	}
}

// TestErrorCollector verifies the errorCollector helper type.
func TestErrorCollector(t *testing.T) {
	ec := &errorCollector{}
	if len(ec.errors) != 0 || len(ec.warnings) != 0 {
		t.Fatal("errorCollector should be empty initially")
	}
	ec.addError(T("cmap"), "Format4/record 0", errRange("segments"), SeverityMajor, 100)
	ec.addError(T("head"), "Header", errFontFormat("magic"), SeverityCritical, 200)
	ec.addError(T("name"), "Records", fmt.Errorf("plain"), SeverityMinor, 300)
	ec.addWarning(T("hhea"), "Warning issue", 400)
	if len(ec.errors) != 3 {
		t.Fatalf("errorCollector should have 3 errors; got %d", len(ec.errors))
	}
	if len(ec.warnings) != 1 {
		t.Errorf("errorCollector should have 1 warning; got %d", len(ec.warnings))
	}
	kinds := []error{ErrOutOfRange, ErrMalformedHeader, nil}
	for i, kind := range kinds {
		if ec.errors[i].Kind != kind {
			t.Errorf("error %d: expected kind %v, got %v", i, kind, ec.errors[i].Kind)
		}
	}
}

// TestFontErrorUnwrap checks that recorded errors can be tested with errors.Is.
func TestFontErrorUnwrap(t *testing.T) {
	ec := &errorCollector{}
	ec.addError(T("cmap"), "Format10/record 1", fmt.Errorf("cmap format 10: %w", ErrUnsupportedFormat),
		SeverityMinor, 0)
	var err error = ec.errors[0]
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected recorded error to be ErrUnsupportedFormat, is %v", err)
	}
	if errors.Is(err, ErrOutOfRange) {
		t.Errorf("recorded error must not match ErrOutOfRange")
	}
	var fe FontError
	if !errors.As(err, &fe) || fe.Table != T("cmap") {
		t.Errorf("expected errors.As to find FontError for cmap, got %v", fe)
	}
}

// TestFontErrorMethods verifies Font error inspection methods.
func TestFontErrorMethods(t *testing.T) {
	font := &Font{
		parseErrors: []FontError{
			{Table: T("cmap"), Section: "Test1", Issue: "Minor issue", Severity: SeverityMinor, Offset: 100},
			{Table: T("head"), Section: "Test2", Issue: "Critical issue", Severity: SeverityCritical, Offset: 200},
			{Table: T("hmtx"), Section: "Test3", Issue: "Major issue", Severity: SeverityMajor, Offset: 300},
		},
		parseWarnings: []FontWarning{
			{Table: T("LTSH"), Issue: "Warning 1", Offset: 400},
		},
	}
	if n := len(font.Errors()); n != 3 {
		t.Errorf("Font.Errors() should return 3 errors; got %d", n)
	}
	if n := len(font.Warnings()); n != 1 {
		t.Errorf("Font.Warnings() should return 1 warning; got %d", n)
	}
	critical := font.CriticalErrors()
	if len(critical) != 1 || critical[0].Table != T("head") {
		t.Errorf("Font.CriticalErrors() should return the head error; got %v", critical)
	}
	empty := &Font{}
	if empty.Errors() == nil || empty.Warnings() == nil {
		t.Error("Errors() and Warnings() should return empty slices, not nil")
	}
}
