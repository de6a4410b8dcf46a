package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/prompts"

	"research-router/internal/common/config"
	apperrors "research-router/internal/common/errors"
)

// Client completes a single prompt. CompleteJSON asks the provider for a
// JSON object reply where supported; callers still validate the text.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteJSON(ctx context.Context, prompt string) (string, error)
}

// LangChain adapts any langchaingo model to Client.
type LangChain struct {
	model       llms.Model
	temperature float64
}

func NewLangChain(model llms.Model, temperature float64) *LangChain {
	return &LangChain{model: model, temperature: temperature}
}

// NewOpenAI builds an OpenAI-compatible chat client. modelName overrides
// cfg.Model when non-empty.
func NewOpenAI(cfg config.LLMConfig, modelName string) (*LangChain, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.NewMissingCredentialError("openai")
	}
	if modelName == "" {
		modelName = cfg.Model
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(modelName),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, openai.WithHTTPClient(&http.Client{Timeout: config.GetDuration(cfg.Timeout)}))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, apperrors.NewLLMCallFailedError(err)
	}
	return NewLangChain(model, cfg.Temperature), nil
}

func (l *LangChain) Complete(ctx context.Context, prompt string) (string, error) {
	return l.generate(ctx, prompt, llms.WithTemperature(l.temperature))
}

func (l *LangChain) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	return l.generate(ctx, prompt, llms.WithTemperature(l.temperature), llms.WithJSONMode())
}

func (l *LangChain) generate(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, l.model, prompt, opts...)
	if err != nil {
		return "", apperrors.NewLLMCallFailedError(err)
	}
	return out, nil
}

// Template is a text/template prompt with named inputs, e.g. {{.question}}.
type Template struct {
	tmpl prompts.PromptTemplate
}

func NewTemplate(text string, inputs ...string) Template {
	return Template{tmpl: prompts.PromptTemplate{
		Template:       text,
		InputVariables: inputs,
		TemplateFormat: prompts.TemplateFormatGoTemplate,
	}}
}

func (t Template) Format(values map[string]any) (string, error) {
	out, err := t.tmpl.Format(values)
	if err != nil {
		return "", apperrors.NewInternalError("prompt rendering failed", err)
	}
	return strings.TrimSpace(out), nil
}
