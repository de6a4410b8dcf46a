package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms/fake"

	"research-router/internal/common/config"
	apperrors "research-router/internal/common/errors"
)

func TestLangChain_Complete(t *testing.T) {
	client := NewLangChain(fake.NewFakeLLM([]string{"first", `{"next":"FETCH"}`}), 0)

	out, err := client.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "first", out)

	out, err = client.CompleteJSON(context.Background(), "decide")
	require.NoError(t, err)
	assert.Equal(t, `{"next":"FETCH"}`, out)
}

func TestNewOpenAI_MissingKey(t *testing.T) {
	_, err := NewOpenAI(config.LLMConfig{Model: "gpt-4o-mini"}, "")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeMissingCredential))
}

func TestNewOpenAI_WithKey(t *testing.T) {
	client, err := NewOpenAI(config.LLMConfig{
		APIKey:  "sk-test",
		Model:   "gpt-4o-mini",
		BaseURL: "http://127.0.0.1:1/v1",
		Timeout: 1000,
	}, "gpt-4o")
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestTemplate_Format(t *testing.T) {
	tmpl := NewTemplate(`
Question: {{.question}}
Data: {{.data}}
`, "question", "data")

	out, err := tmpl.Format(map[string]any{
		"question": "What is new in batteries?",
		"data":     "- solid-state cells",
	})
	require.NoError(t, err)
	assert.Equal(t, "Question: What is new in batteries?\nData: - solid-state cells", out)
}
