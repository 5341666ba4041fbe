package issue

import (
	"fmt"
	"strings"
)

// ErrorType represents the type of error that occurred
type ErrorType int

const (
	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = iota
	// ErrorTypeConfiguration indicates a configuration error
	ErrorTypeConfiguration
	// ErrorTypeFileNotFound indicates the CSV file does not exist
	ErrorTypeFileNotFound
	// ErrorTypeDecode indicates the CSV file is not valid UTF-8
	ErrorTypeDecode
	// ErrorTypeCSV indicates any other failure while reading the CSV file
	ErrorTypeCSV
	// ErrorTypeToolNotFound indicates the gh executable could not be found
	ErrorTypeToolNotFound
	// ErrorTypeCommandFailed indicates gh exited with a non-zero status
	ErrorTypeCommandFailed
	// ErrorTypeUnexpected indicates any other failure while running gh
	ErrorTypeUnexpected
)

// String returns a short name for the error type
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeConfiguration:
		return "configuration"
	case ErrorTypeFileNotFound:
		return "file_not_found"
	case ErrorTypeDecode:
		return "decode"
	case ErrorTypeCSV:
		return "csv"
	case ErrorTypeToolNotFound:
		return "tool_not_found"
	case ErrorTypeCommandFailed:
		return "command_failed"
	default:
		return "unexpected"
	}
}

// IssueError represents a structured error with type and suggestion
type IssueError struct {
	Type       ErrorType
	Message    string
	Cause      error
	Suggestion string
	ExitCode   int
}

// Sentinels for errors.Is checks by type
var (
	ErrValidation    = &IssueError{Type: ErrorTypeValidation}
	ErrConfiguration = &IssueError{Type: ErrorTypeConfiguration}
	ErrFileNotFound  = &IssueError{Type: ErrorTypeFileNotFound}
	ErrDecode        = &IssueError{Type: ErrorTypeDecode}
	ErrCSV           = &IssueError{Type: ErrorTypeCSV}
	ErrToolNotFound  = &IssueError{Type: ErrorTypeToolNotFound}
	ErrCommandFailed = &IssueError{Type: ErrorTypeCommandFailed}
	ErrUnexpected    = &IssueError{Type: ErrorTypeUnexpected}
)

// Error implements the error interface
func (e *IssueError) Error() string {
	var parts []string

	// Add main message
	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	// Add cause if present
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("caused by: %v", e.Cause))
	}

	// Add suggestion if present
	if e.Suggestion != "" {
		parts = append(parts, fmt.Sprintf("\n💡 %s", e.Suggestion))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *IssueError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *IssueError) Is(target error) bool {
	t, ok := target.(*IssueError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// Fatal reports whether the error aborts the whole import
func (e *IssueError) Fatal() bool {
	switch e.Type {
	case ErrorTypeCommandFailed, ErrorTypeUnexpected:
		return false
	default:
		return true
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *IssueError {
	return &IssueError{
		Type:       ErrorTypeValidation,
		Message:    message,
		Cause:      cause,
		Suggestion: "Check the --repo flag, the CSV file path and the fields section of your configuration",
	}
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(message string, cause error) *IssueError {
	return &IssueError{
		Type:       ErrorTypeConfiguration,
		Message:    message,
		Cause:      cause,
		Suggestion: "Run 'gh csv-issues init' to create or update your configuration",
	}
}

// NewFileNotFoundError creates an error for a missing CSV file
func NewFileNotFoundError(path string, cause error) *IssueError {
	return &IssueError{
		Type:       ErrorTypeFileNotFound,
		Message:    fmt.Sprintf("CSV file not found at path: %s", path),
		Cause:      cause,
		Suggestion: "Check the path passed as argument or set csv_file in your configuration",
	}
}

// NewDecodeError creates an error for a CSV file that is not UTF-8
func NewDecodeError(path string, cause error) *IssueError {
	return &IssueError{
		Type:       ErrorTypeDecode,
		Message:    fmt.Sprintf("problem decoding CSV file %s", path),
		Cause:      cause,
		Suggestion: "Ensure the file is UTF-8 encoded",
	}
}

// NewCSVError creates an error for any other CSV read failure
func NewCSVError(path string, cause error) *IssueError {
	return &IssueError{
		Type:    ErrorTypeCSV,
		Message: fmt.Sprintf("unexpected error while processing CSV file %s", path),
		Cause:   cause,
	}
}

// NewToolNotFoundError creates an error for a missing gh executable
func NewToolNotFoundError(cause error) *IssueError {
	return &IssueError{
		Type:       ErrorTypeToolNotFound,
		Message:    "gh CLI tool not found",
		Cause:      cause,
		Suggestion: "Make sure gh is installed and in your PATH, or set GH_PATH",
	}
}

// NewCommandFailedError creates an error for a non-zero gh exit status
func NewCommandFailedError(exitCode int, cause error) *IssueError {
	return &IssueError{
		Type:     ErrorTypeCommandFailed,
		Message:  fmt.Sprintf("command failed with exit code %d", exitCode),
		Cause:    cause,
		ExitCode: exitCode,
	}
}

// NewUnexpectedError creates an error for any other gh invocation failure
func NewUnexpectedError(cause error) *IssueError {
	return &IssueError{
		Type:    ErrorTypeUnexpected,
		Message: "unexpected error during gh CLI execution",
		Cause:   cause,
	}
}

// WrapError wraps an existing error with additional context
func WrapError(err error, message string) *IssueError {
	if issueErr, ok := err.(*IssueError); ok {
		// If it's already an IssueError, preserve the type and add context
		return &IssueError{
			Type:       issueErr.Type,
			Message:    message,
			Cause:      err,
			Suggestion: issueErr.Suggestion,
			ExitCode:   issueErr.ExitCode,
		}
	}

	return &IssueError{
		Type:    ErrorTypeUnexpected,
		Message: message,
		Cause:   err,
	}
}
