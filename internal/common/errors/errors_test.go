package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardError_IsMatchesOnCode(t *testing.T) {
	err := fmt.Errorf("route: %w", NewClassificationParseError("not json", errors.New("invalid character")))

	assert.True(t, HasCode(err, ErrCodeClassificationParseFailed))
	assert.False(t, HasCode(err, ErrCodeDecisionParseFailed))
	assert.Equal(t, ErrCodeClassificationParseFailed, CodeOf(err))
}

func TestStandardError_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewLLMCallFailedError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "LLM_CALL_FAILED")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, ErrCodeInternal, CodeOf(errors.New("plain")))
}

func TestConstructors_NeverRetryable(t *testing.T) {
	errs := []*StandardError{
		NewClassificationParseError("x", errors.New("e")),
		NewDecisionParseError("general", "x", errors.New("e")),
		NewUnknownCategoryError("weather"),
		NewMissingCredentialError("serpapi"),
		NewInvalidCredentialError("serpapi", "status 401"),
		NewSearchFailedError("q", errors.New("e")),
		NewLLMCallFailedError(errors.New("e")),
		NewStepLimitExceededError("general", 10),
		NewConfigInvalidError("x"),
	}
	for _, e := range errs {
		assert.False(t, e.Retryable, string(e.Code))
		assert.False(t, e.Timestamp.IsZero(), string(e.Code))
	}
}

func TestNewClassificationParseError_TruncatesRaw(t *testing.T) {
	raw := strings.Repeat("a", 500)
	err := NewClassificationParseError(raw, errors.New("bad"))
	assert.Less(t, len(err.Details), 300)
}

func TestWithMetadata(t *testing.T) {
	err := NewSearchFailedError("q", errors.New("e")).WithMetadata("engine", "google")
	assert.Equal(t, "google", err.Metadata["engine"])
}

func TestAsStandard(t *testing.T) {
	inner := NewStepLimitExceededError("general", 10)
	plain := errors.New("plain")

	assert.Same(t, inner, AsStandard(fmt.Errorf("run: prep failed: %w", inner)))
	assert.Equal(t, plain, AsStandard(plain))
	assert.Nil(t, AsStandard(nil))
}

func TestGetErrorCategory(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeClassificationParseFailed, "ROUTING"},
		{ErrCodeDecisionParseFailed, "ROUTING"},
		{ErrCodeUnknownCategory, "ROUTING"},
		{ErrCodeMissingCredential, "CREDENTIAL"},
		{ErrCodeInvalidCredential, "CREDENTIAL"},
		{ErrCodeSearchFailed, "SEARCH"},
		{ErrCodeLLMCallFailed, "AI"},
		{ErrCodeStepLimitExceeded, "WORKFLOW"},
		{ErrCodeConfigInvalid, "CONFIG"},
		{ErrCodeInternal, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetErrorCategory(tt.code))
		})
	}
}
