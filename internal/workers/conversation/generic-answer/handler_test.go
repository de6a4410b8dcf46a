// internal/workers/conversation/generic-answer/handler_test.go
package genericanswer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "research-router/internal/common/errors"
	"research-router/internal/common/llm/llmtest"
	"research-router/internal/common/logger"
)

func TestHandler_Execute_ReturnsReplyVerbatim(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "greeting", reply: "Hello! Great to see you. How can I help today?"},
		{name: "keeps surrounding whitespace", reply: "\n  Hi there!  \n"},
		{name: "empty reply", reply: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := llmtest.NewScripted(tt.reply)
			handler := NewHandler(LoadConfig(), model, logger.NewTestLogger(t))

			answer, err := handler.Answer(context.Background(), "hi there")

			require.NoError(t, err)
			assert.Equal(t, tt.reply, answer)
		})
	}
}

func TestHandler_Execute_Prompt(t *testing.T) {
	model := llmtest.NewScripted("Hello!")
	handler := NewHandler(LoadConfig(), model, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{Question: "hi there"})
	require.NoError(t, err)

	prompt := model.LastPrompt()
	assert.True(t, strings.HasPrefix(prompt, "You are a friendly and engaging intelligent assistant."))
	assert.True(t, strings.HasSuffix(prompt, "User: hi there\nAnswer:"))
	assert.Zero(t, model.JSONCalls)
}

func TestHandler_Execute_LLMFailurePropagates(t *testing.T) {
	model := &llmtest.Scripted{Err: apperrors.NewLLMCallFailedError(errors.New("rate limited"))}
	handler := NewHandler(LoadConfig(), model, logger.NewTestLogger(t))

	_, err := handler.Answer(context.Background(), "hi")

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeLLMCallFailed))
}
