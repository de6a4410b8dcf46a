// internal/workers/research/supervise-research/handler.go
package superviseresearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "research-router/internal/common/errors"
	"research-router/internal/common/llm"
	"research-router/internal/common/logger"
	"research-router/internal/common/validation"
	"research-router/internal/workers/research"
	"research-router/internal/workflow"
)

const (
	TaskType = "supervise-research"
)

type Handler struct {
	config    *Config
	llm       llm.Client
	schema    validation.JSONSchema
	decisions map[string]workflow.Decision
	logger    logger.Logger
}

func NewHandler(config *Config, client llm.Client, log logger.Logger) *Handler {
	p := config.Profile
	return &Handler{
		config: config,
		llm:    client,
		schema: validation.EnumField("next", p.WorkerLabels()),
		decisions: map[string]workflow.Decision{
			p.FetchWorker:        workflow.DecisionFetch,
			p.SummaryWorker:      workflow.DecisionSummarize,
			research.FinishLabel: workflow.DecisionFinish,
		},
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
			"workflow": p.Name,
		}),
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	raw, err := h.llm.CompleteJSON(ctx, h.buildPrompt(input))
	if err != nil {
		return nil, err
	}

	next, err := h.parseDecision(raw)
	if err != nil {
		return nil, err
	}

	h.logger.Info("Next Worker", map[string]interface{}{
		"next": next,
	})

	return &Output{
		Next:     next,
		Decision: h.decisions[next],
	}, nil
}

// buildPrompt embeds the role description and the current state. Unset
// fields arrive as "".
func (h *Handler) buildPrompt(input *Input) string {
	p := h.config.Profile

	var b strings.Builder
	b.WriteString(p.SupervisorPrompt)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Respond only with a JSON object of the form {\"next\": \"<worker>\"}, where <worker> is one of: %s.\n",
		strings.Join(p.WorkerLabels(), ", "))
	fmt.Fprintf(&b, "\nquestion: %s\n", input.Question)
	fmt.Fprintf(&b, " %s: %s\n", p.FetchField, input.FetchResult)
	fmt.Fprintf(&b, " %s: %s", p.ResponseField, input.Response)
	return b.String()
}

func (h *Handler) parseDecision(raw string) (string, error) {
	doc := []byte(strings.TrimSpace(raw))
	name := h.config.Profile.Name

	result, err := validation.ValidateDocument(h.schema, doc)
	if err != nil {
		return "", apperrors.NewDecisionParseError(name, raw, err)
	}
	if !result.Valid {
		return "", apperrors.NewDecisionParseError(name, raw,
			errors.New(strings.Join(result.GetErrorMessages(), "; ")))
	}

	var reply struct {
		Next string `json:"next"`
	}
	if err := json.Unmarshal(doc, &reply); err != nil {
		return "", apperrors.NewDecisionParseError(name, raw, err)
	}
	return reply.Next, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// Decide lets the handler drive a workflow.Engine.
func (h *Handler) Decide(ctx context.Context, snap workflow.Snapshot) (workflow.Decision, error) {
	out, err := h.execute(ctx, &Input{
		Question:    snap.Question,
		FetchResult: snap.FetchResult,
		Response:    snap.Response,
	})
	if err != nil {
		return "", err
	}
	return out.Decision, nil
}
