package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard application errors
var (
	ErrEmptyInput       = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON      = errors.New("invalid JSON format")
	ErrFileNotFound     = errors.New("file not found")
	ErrFileEmpty        = errors.New("file is empty")
	ErrNoInput          = errors.New("no input provided: please specify two JSON files, or '-' for stdin")
	ErrStdinTwice       = errors.New("stdin can only be used for one document")
	ErrInvalidFilePath  = errors.New("invalid file path")
	ErrValueNotFound    = errors.New("value not found")
	ErrComparisonFailed = errors.New("comparison failed")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput   ErrorType = "input"
	ErrorTypeParsing ErrorType = "parsing"
	ErrorTypeCompare ErrorType = "compare"
	ErrorTypeResolve ErrorType = "resolve"
	ErrorTypeFormat  ErrorType = "format"
	ErrorTypePatch   ErrorType = "patch"
	ErrorTypeOutput  ErrorType = "output"
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeUnknown ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// SideError ties a failure to the left or right document
type SideError struct {
	Side string
	Err  error
}

func (e *SideError) Error() string {
	return fmt.Sprintf("%s: %v", e.Side, e.Err)
}

func (e *SideError) Unwrap() error {
	return e.Err
}

// Message returns the user-facing text for the side without the side prefix
func (e *SideError) Message() string {
	var appErr *AppError
	if errors.As(e.Err, &appErr) {
		return appErr.Message
	}
	return e.Err.Error()
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewCompareError creates a new error raised while comparing documents
func NewCompareError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeCompare,
		Message: message,
		Err:     err,
	}
}

// NewResolveError creates a new error related to key path resolution
func NewResolveError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeResolve,
		Message: message,
		Err:     err,
	}
}

// NewFormatError creates a new error related to JSON formatting
func NewFormatError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeFormat,
		Message: message,
		Err:     err,
	}
}

// NewPatchError creates a new error related to JSON Patch handling
func NewPatchError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypePatch,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	// Joined errors (both documents invalid) get one line each
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var lines []string
		for _, e := range joined.Unwrap() {
			if e != nil {
				lines = append(lines, UserFriendlyError(e))
			}
		}
		return strings.Join(lines, "\n")
	}

	var sideErr *SideError
	if errors.As(err, &sideErr) {
		return fmt.Sprintf("Invalid JSON in the %s document: %s", sideErr.Side, sideErr.Message())
	}

	// These carry a fixed hint that reads better than the wrapping message
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify two JSON files, or '-' to read one from stdin."
	}
	if errors.Is(err, ErrStdinTwice) {
		return "Error: Only one document can be read from stdin."
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeCompare:
			return fmt.Sprintf("Comparison error: %s", appErr.Message)
		case ErrorTypeResolve:
			return fmt.Sprintf("Key path error: %s", appErr.Message)
		case ErrorTypeFormat:
			return fmt.Sprintf("JSON formatting error: %s", appErr.Message)
		case ErrorTypePatch:
			return fmt.Sprintf("JSON Patch error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
