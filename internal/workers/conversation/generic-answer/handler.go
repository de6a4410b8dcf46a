// internal/workers/conversation/generic-answer/handler.go
package genericanswer

import (
	"context"

	"research-router/internal/common/llm"
	"research-router/internal/common/logger"
)

const (
	TaskType = "generic-answer"
)

type Handler struct {
	config   *Config
	llm      llm.Client
	template llm.Template
	logger   logger.Logger
}

func NewHandler(config *Config, client llm.Client, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		llm:      client,
		template: llm.NewTemplate(config.PromptTemplate, "question"),
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// execute returns the model's reply verbatim.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	prompt, err := h.template.Format(map[string]any{"question": input.Question})
	if err != nil {
		return nil, err
	}

	answer, err := h.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	h.logger.Info("generic answer generated", map[string]interface{}{
		"answerLength": len(answer),
	})
	return &Output{Answer: answer}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// Answer is the single-step generic workflow.
func (h *Handler) Answer(ctx context.Context, question string) (string, error) {
	out, err := h.execute(ctx, &Input{Question: question})
	if err != nil {
		return "", err
	}
	return out.Answer, nil
}
