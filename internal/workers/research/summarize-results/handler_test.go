// internal/workers/research/summarize-results/handler_test.go
package summarizeresults

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
	"research-router/internal/models"
	"research-router/internal/workers/research"
)

func createTestConfig(t *testing.T, c models.Category) *Config {
	t.Helper()
	p, ok := research.ProfileFor(c)
	require.True(t, ok)
	return LoadConfig(p)
}

func TestHandler_Execute_PromptPerCategory(t *testing.T) {
	tests := []struct {
		name       string
		category   models.Category
		wantRole   string
		wantHeader string
	}{
		{name: "general", category: models.CategoryGeneral, wantRole: "You are an expert research assistant.", wantHeader: "Web Search Results:"},
		{name: "academic", category: models.CategoryAcademic, wantRole: "You are an expert academic assistant.", wantHeader: "Academic Results:"},
		{name: "product", category: models.CategoryProduct, wantRole: "You are an expert product research analyst.", wantHeader: "Product Trend Data:"},
	}

	fetched := "1. **Refill models**\nRefill stations grow.\n🔗 https://c.example"

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := llmtest.NewScripted("Refill stations are growing.")
			handler := NewHandler(createTestConfig(t, tt.category), model, logger.NewTestLogger(t))

			output, err := handler.Execute(context.Background(), &Input{FetchResult: fetched})

			require.NoError(t, err)
			assert.Equal(t, "Refill stations are growing.", output.Summary)
			assert.False(t, output.Fallback)

			prompt := model.LastPrompt()
			assert.True(t, strings.HasPrefix(prompt, tt.wantRole))
			assert.Contains(t, prompt, tt.wantHeader)
			assert.Contains(t, prompt, fetched)
			assert.True(t, strings.HasSuffix(prompt, "Summary:"))
			assert.Zero(t, model.JSONCalls)
		})
	}
}

func TestHandler_Execute_TrimsReply(t *testing.T) {
	model := llmtest.NewScripted("\n\n  Key insight: demand is rising.  \n")
	handler := NewHandler(createTestConfig(t, models.CategoryGeneral), model, logger.NewTestLogger(t))

	summary, err := handler.Summarize(context.Background(), "🔹 **A**\nB\n🔗 C\n")

	require.NoError(t, err)
	assert.Equal(t, "Key insight: demand is rising.", summary)
}

func TestHandler_Execute_BlankReplyUsesFallbackInsteadOfEmptyResponse(t *testing.T) {
	model := llmtest.NewScripted("   \n\t ")
	handler := NewHandler(createTestConfig(t, models.CategoryProduct), model, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{FetchResult: "1. **A**\nB\n🔗 C\n"})

	require.NoError(t, err)
	assert.True(t, output.Fallback)
	assert.Equal(t, "I don't have enough information to answer that question.", output.Summary)
}

func TestHandler_Execute_SummarizesSentinelText(t *testing.T) {
	model := llmtest.NewScripted("Nothing was found.")
	handler := NewHandler(createTestConfig(t, models.CategoryAcademic), model, logger.NewTestLogger(t))

	_, err := handler.Summarize(context.Background(), "No academic results found.")

	require.NoError(t, err)
	assert.Contains(t, model.LastPrompt(), "No academic results found.")
}

func TestHandler_Execute_LLMFailurePropagates(t *testing.T) {
	model := &llmtest.Scripted{Err: apperrors.NewLLMCallFailedError(errors.New("timeout"))}
	handler := NewHandler(createTestConfig(t, models.CategoryGeneral), model, logger.NewTestLogger(t))

	_, err := handler.Summarize(context.Background(), "x")

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeLLMCallFailed))
}
