// Package errors provides standardized error handling for research runs.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeClassificationParseFailed ErrorCode = "CLASSIFICATION_PARSE_FAILED"
	ErrCodeDecisionParseFailed       ErrorCode = "DECISION_PARSE_FAILED"
	ErrCodeUnknownCategory           ErrorCode = "UNKNOWN_CATEGORY"

	ErrCodeMissingCredential ErrorCode = "MISSING_CREDENTIAL"
	ErrCodeInvalidCredential ErrorCode = "INVALID_CREDENTIAL"
	ErrCodeSearchFailed      ErrorCode = "SEARCH_FAILED"

	ErrCodeLLMCallFailed     ErrorCode = "LLM_CALL_FAILED"
	ErrCodeStepLimitExceeded ErrorCode = "STEP_LIMIT_EXCEEDED"

	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
// Nothing in a run retries, so Retryable is informational only.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Cause
}

// Is matches any StandardError carrying the same code.
func (e *StandardError) Is(target error) bool {
	var other *StandardError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewClassificationParseError is returned when the router's reply cannot be
// repaired into a category object.
func NewClassificationParseError(raw string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeClassificationParseFailed,
		Message:   "Router response is not valid category JSON",
		Details:   fmt.Sprintf("raw: %q, error: %v", truncate(raw, 200), err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewDecisionParseError is returned when a supervisor reply does not name a
// step from its closed set.
func NewDecisionParseError(workflow, raw string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDecisionParseFailed,
		Message:   "Supervisor response is not a valid routing decision",
		Details:   fmt.Sprintf("workflow: %s, raw: %q, error: %v", workflow, truncate(raw, 200), err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewUnknownCategoryError(category string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownCategory,
		Message:   "No workflow registered for category",
		Details:   fmt.Sprintf("category: %s", category),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingCredentialError describes an absent provider key. The fetch step
// degrades it to a sentinel string.
func NewMissingCredentialError(provider string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingCredential,
		Message:   "Provider API key is not configured",
		Details:   fmt.Sprintf("provider: %s", provider),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidCredentialError(provider, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCredential,
		Message:   "Provider rejected the API key",
		Details:   fmt.Sprintf("provider: %s, %s", provider, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSearchFailedError(query string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchFailed,
		Message:   "Search provider call failed",
		Details:   fmt.Sprintf("query: %s, error: %v", query, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewLLMCallFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMCallFailed,
		Message:   "Language model call failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewStepLimitExceededError(workflow string, limit int) *StandardError {
	return &StandardError{
		Code:      ErrCodeStepLimitExceeded,
		Message:   "Workflow exceeded its supervisor visit limit",
		Details:   fmt.Sprintf("workflow: %s, limit: %d", workflow, limit),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Invalid configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(message string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   message,
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// Sentinel returns a bare StandardError usable as an errors.Is target.
func Sentinel(code ErrorCode) *StandardError {
	return &StandardError{Code: code}
}

// HasCode reports whether err wraps a StandardError with the given code.
func HasCode(err error, code ErrorCode) bool {
	return errors.Is(err, Sentinel(code))
}

// CodeOf returns the code of the first StandardError in err's chain, or
// INTERNAL_ERROR when there is none.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// AsStandard returns the first StandardError in err's chain, dropping any
// wrapping around it. Errors without one are returned unchanged.
func AsStandard(err error) error {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return err
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CLASSIFICATION") || strings.Contains(codeStr, "DECISION") || strings.Contains(codeStr, "CATEGORY"):
		return "ROUTING"
	case strings.Contains(codeStr, "CREDENTIAL"):
		return "CREDENTIAL"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "LLM"):
		return "AI"
	case strings.Contains(codeStr, "STEP"):
		return "WORKFLOW"
	case strings.Contains(codeStr, "CONFIG"):
		return "CONFIG"
	default:
		return "INTERNAL"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
