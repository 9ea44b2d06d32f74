// Package errors provides structured error types for the cplx calculator.
//
// This package defines CalcError, a unified error type that carries an error
// class, a stable code, and optional hints, for both display and programmatic
// handling (e.g. JSON output in batch mode).
package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorClass categorizes errors for filtering and exit-code mapping.
type ErrorClass string

const (
	ClassConfig      ErrorClass = "config"      // Bad flag combinations, missing operands
	ClassConversion  ErrorClass = "conversion"  // Operand not complex, real, or numeric string
	ClassComputation ErrorClass = "computation" // Domain failures in the underlying primitive
)

// CalcError represents any error from operand coercion or operation dispatch.
type CalcError struct {
	Class   ErrorClass `json:"class"`           // Error category
	Code    string     `json:"code"`            // Error code (e.g., "CONV-0001")
	Message string     `json:"message"`         // Human-readable message
	Hints   []string   `json:"hints,omitempty"` // Suggestions for fixing
}

// Error implements the error interface.
func (e *CalcError) Error() string {
	return e.String()
}

// String returns a single-line representation of the error.
func (e *CalcError) String() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}
	return sb.String()
}

// PrettyString returns a multi-line formatted string for display.
func (e *CalcError) PrettyString() string {
	var sb strings.Builder

	switch e.Class {
	case ClassConfig:
		sb.WriteString("Usage error")
	case ClassConversion:
		sb.WriteString("Input error")
	default:
		sb.WriteString("Computation error")
	}
	sb.WriteString(":\n  ")
	sb.WriteString(e.Message)

	for i, hint := range e.Hints {
		sb.WriteString("\n  ")
		if i == 0 {
			sb.WriteString("Use: ")
		} else {
			sb.WriteString(" or: ")
		}
		sb.WriteString(hint)
	}

	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *CalcError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithHints returns a copy of the error with the given hints appended.
func (e *CalcError) WithHints(hints ...string) *CalcError {
	clone := *e
	clone.Hints = append(append([]string{}, e.Hints...), hints...)
	return &clone
}

// IsConfig returns true if this is a configuration/usage error.
func (e *CalcError) IsConfig() bool {
	return e.Class == ClassConfig
}

// NewConfig creates a configuration error.
func NewConfig(code, format string, args ...any) *CalcError {
	return &CalcError{
		Class:   ClassConfig,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewConversion creates an input-conversion error.
func NewConversion(code, format string, args ...any) *CalcError {
	return &CalcError{
		Class:   ClassConversion,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewComputation creates a computation error.
func NewComputation(code, format string, args ...any) *CalcError {
	return &CalcError{
		Class:   ClassComputation,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
