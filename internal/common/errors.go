package common

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeConfiguration for configuration-related errors
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeValidation for validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeImage for unreadable or missing screenshot images
	ErrorTypeImage ErrorType = "image"
	// ErrorTypeOCR for OCR engine errors
	ErrorTypeOCR ErrorType = "ocr"
	// ErrorTypeJira for Jira API errors
	ErrorTypeJira ErrorType = "jira"
	// ErrorTypeStorage for storage/persistence errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeReport for report rendering errors
	ErrorTypeReport ErrorType = "report"
	// ErrorTypeInternal for internal system errors
	ErrorTypeInternal ErrorType = "internal"
)

// SnapshotError represents a structured error with context
type SnapshotError struct {
	Type      ErrorType              `json:"type"`
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Cause     error                  `json:"-"`
}

// Error implements the error interface
func (e *SnapshotError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s:%s] %s: %s", e.Type, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SnapshotError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *SnapshotError) WithContext(key string, value interface{}) *SnapshotError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCause sets the underlying cause
func (e *SnapshotError) WithCause(cause error) *SnapshotError {
	e.Cause = cause
	return e
}

// NewError creates a new SnapshotError
func NewError(errorType ErrorType, code, message string) *SnapshotError {
	return &SnapshotError{
		Type:      errorType,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(code, message string) *SnapshotError {
	return NewError(ErrorTypeConfiguration, code, message)
}

// NewValidationError creates a validation error
func NewValidationError(code, message string) *SnapshotError {
	return NewError(ErrorTypeValidation, code, message)
}

// NewImageError creates an image error
func NewImageError(code, message string) *SnapshotError {
	return NewError(ErrorTypeImage, code, message)
}

// NewOCRError creates an OCR error
func NewOCRError(code, message string) *SnapshotError {
	return NewError(ErrorTypeOCR, code, message)
}

// NewJiraError creates a Jira-specific error
func NewJiraError(code, message string) *SnapshotError {
	return NewError(ErrorTypeJira, code, message)
}

// NewStorageError creates a storage error
func NewStorageError(code, message string) *SnapshotError {
	return NewError(ErrorTypeStorage, code, message)
}

// NewReportError creates a report rendering error
func NewReportError(code, message string) *SnapshotError {
	return NewError(ErrorTypeReport, code, message)
}

// WrapError wraps an existing error with SnapshotError context
func WrapError(err error, errorType ErrorType, code, message string) *SnapshotError {
	return &SnapshotError{
		Type:      errorType,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Cause:     err,
	}
}
