package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-router/internal/common/config"
	apperrors "research-router/internal/common/errors"
	"research-router/internal/common/llm/llmtest"
	"research-router/internal/common/logger"
	"research-router/internal/common/search"
)

type emptySearcher struct{}

func (emptySearcher) Search(ctx context.Context, req search.Request) ([]search.Record, error) {
	return []search.Record{}, nil
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	t.Setenv("SERP_API_KEY", "")
	t.Setenv("SERPAPI_API_KEY", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
app:
  default_query: "What are the current trends in sustainable packaging?"
apis:
  search:
    api_key: "test-key"
logging:
  level: "error"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func fakeFactory(model llmtest.Func) clientFactory {
	return func(cfg *config.Config, log logger.Logger) (*clients, error) {
		return &clients{LLM: model, GenericLLM: model, Search: emptySearcher{}}, nil
	}
}

func TestRootCmd_PrintsAnswer(t *testing.T) {
	var prompts []string
	model := llmtest.Func(func(prompt string) (string, error) {
		prompts = append(prompts, prompt)
		switch {
		case strings.HasPrefix(prompt, "You are a query router."):
			if strings.Contains(prompt, "User query: hi there") {
				return `{"next_agent":"generic"}`, nil
			}
			return `{"next_agent":"product_research"}`, nil
		case strings.Contains(prompt, "Supervisor Agent"):
			switch {
			case strings.Contains(prompt, "trend_data: \n"):
				return `{"next":"market_trend_agent"}`, nil
			case strings.HasSuffix(prompt, "subgraph3_response: "):
				return `{"next":"product_summary_agent"}`, nil
			}
			return `{"next":"FINISH"}`, nil
		case strings.HasPrefix(prompt, "You are an expert product research analyst."):
			return "No trend data was available.", nil
		default:
			return "Hello! How can I help?", nil
		}
	})

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "default query", args: nil, want: "No trend data was available.\n"},
		{name: "positional query", args: []string{"hi", "there"}, want: "Hello! How can I help?\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompts = nil
			cmd := newRootCmd(fakeFactory(model))
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetArgs(append([]string{"--config", writeTestConfig(t)}, tt.args...))

			require.NoError(t, cmd.ExecuteContext(context.Background()))
			assert.Equal(t, tt.want, out.String())
			require.NotEmpty(t, prompts)
		})
	}

	assert.Contains(t, prompts[0], "User query: hi there")
}

func TestRootCmd_ClassificationFailureIsReturned(t *testing.T) {
	model := llmtest.Func(func(prompt string) (string, error) {
		return "I cannot decide.", nil
	})
	cmd := newRootCmd(fakeFactory(model))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", writeTestConfig(t), "anything"})

	err := cmd.ExecuteContext(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeClassificationParseFailed))
}

func TestRootCmd_MissingConfigFile(t *testing.T) {
	cmd := newRootCmd(fakeFactory(nil))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})

	assert.Error(t, cmd.ExecuteContext(context.Background()))
}
