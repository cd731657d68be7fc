// Package errors provides a lightweight structured error type (PanelCtlError)
// for category-based classification in the CLI and the enable/disable flows.
package errors

import (
	"fmt"
	"log/slog"
)

// ErrorCategory represents the category of a panelctl error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Native state store errors
	CategoryWNF ErrorCategory = "wnf"

	// OS configuration surfaces
	CategoryRegistry ErrorCategory = "registry"
	CategoryTask     ErrorCategory = "task"
	CategoryDriver   ErrorCategory = "driver"

	// External tool invocation errors
	CategoryTool ErrorCategory = "tool"

	// Runtime and infrastructure errors
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// PanelCtlError is a structured error with category, severity, and context.
//
// Note: a never-set WNF state is deliberately NOT modeled as an error anywhere
// in this codebase; absence is an ordinary query outcome. PanelCtlError exists
// for the failures that stop an operation (rejected writes, failed tools).
type PanelCtlError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for PanelCtlError
type ContextFields map[string]any

// Error implements the error interface
func (e *PanelCtlError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *PanelCtlError) Unwrap() error {
	return e.Cause
}

// LogValue renders the error as a structured slog group so context fields
// (the NTSTATUS hex of a rejected write, the failing tool's output) reach the
// log without callers unpacking the error themselves.
func (e *PanelCtlError) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.Context)+3)
	attrs = append(attrs,
		slog.String("category", string(e.Category)),
		slog.String("message", e.Message),
	)
	if e.Cause != nil {
		attrs = append(attrs, slog.Any("cause", e.Cause))
	}
	for k, v := range e.Context {
		attrs = append(attrs, slog.Any(k, v))
	}
	return slog.GroupValue(attrs...)
}

// WithContext adds context information to the error
func (e *PanelCtlError) WithContext(key string, value any) *PanelCtlError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new PanelCtlError
func New(category ErrorCategory, severity ErrorSeverity, message string) *PanelCtlError {
	return &PanelCtlError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new PanelCtlError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *PanelCtlError {
	return &PanelCtlError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if pce, ok := err.(*PanelCtlError); ok {
		return pce.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a PanelCtlError
func GetCategory(err error) ErrorCategory {
	if pce, ok := err.(*PanelCtlError); ok {
		return pce.Category
	}
	return CategoryInternal
}
