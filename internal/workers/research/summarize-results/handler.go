// internal/workers/research/summarize-results/handler.go
package summarizeresults

import (
	"context"
	"strings"

	"research-router/internal/common/llm"
	"research-router/internal/common/logger"
)

const (
	TaskType = "summarize-results"
)

type Handler struct {
	config   *Config
	llm      llm.Client
	template llm.Template
	logger   logger.Logger
}

func NewHandler(config *Config, client llm.Client, log logger.Logger) *Handler {
	p := config.Profile
	return &Handler{
		config:   config,
		llm:      client,
		template: llm.NewTemplate(p.SummaryTemplate, p.FetchField),
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
			"workflow": p.Name,
		}),
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	prompt, err := h.template.Format(map[string]any{
		h.config.Profile.FetchField: input.FetchResult,
	})
	if err != nil {
		return nil, err
	}

	reply, err := h.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	output := &Output{Summary: strings.TrimSpace(reply)}
	if output.Summary == "" {
		h.logger.Warn("model returned an empty summary, using fallback", nil)
		output.Summary = h.config.FallbackSummary
		output.Fallback = true
	}

	h.logger.Info("summary generated", map[string]interface{}{
		"inputLength":   len(input.FetchResult),
		"summaryLength": len(output.Summary),
	})
	h.logger.Debug("summary", map[string]interface{}{
		h.config.Profile.ResponseField: output.Summary,
	})

	return output, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// Summarize lets the handler serve as a workflow.Summarizer.
func (h *Handler) Summarize(ctx context.Context, fetchResult string) (string, error) {
	out, err := h.execute(ctx, &Input{FetchResult: fetchResult})
	if err != nil {
		return "", err
	}
	return out.Summary, nil
}
