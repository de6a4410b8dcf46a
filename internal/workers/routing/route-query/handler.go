// internal/workers/routing/route-query/handler.go
package routequery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "research-router/internal/common/errors"
	"research-router/internal/common/llm"
	"research-router/internal/common/logger"
	"research-router/internal/common/metrics"
	"research-router/internal/common/validation"
	"research-router/internal/models"
)

const (
	TaskType = "route-query"
)

const routerPrompt = `You are a query router. Categorize the user query into one of the following categories:

- general_research: For open-ended, non-academic research like "climate change impact on agriculture"
- academic_research: For scholarly or scientific topics like "GPT fine-tuning techniques"
- product_research: For consumer-oriented searches like "best headphones under 2000 INR"
- generic: For greetings, small talk, or anything irrelevant

Your final response should be dictionary : {"next_agent" : "<One of the provided category>"}

User query: %s`

type Handler struct {
	config *Config
	llm    llm.Client
	schema validation.JSONSchema
	logger logger.Logger
}

func NewHandler(config *Config, client llm.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		llm:    client,
		schema: validation.OptionalStringField("next_agent"),
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	raw, err := h.llm.Complete(ctx, fmt.Sprintf(routerPrompt, input.Question))
	if err != nil {
		return nil, err
	}
	h.logger.Debug("router reply", map[string]interface{}{
		"raw": raw,
	})

	label, err := h.parseLabel(raw)
	if err != nil {
		h.logger.Error("router reply is not valid category JSON", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	output := &Output{Label: label}
	category, ok := models.ParseCategory(label)
	if !ok {
		h.logger.Warn("router named no known category, falling back", map[string]interface{}{
			"label":    label,
			"fallback": string(h.config.FallbackCategory),
		})
		category = h.config.FallbackCategory
		output.Fallback = true
	}
	output.Category = category

	metrics.RouterDecisions.WithLabelValues(string(category)).Inc()
	h.logger.Info("query routed", map[string]interface{}{
		"category": string(category),
	})

	return output, nil
}

// parseLabel runs one repair pass, then a strict decode. A missing or null
// next_agent yields "".
func (h *Handler) parseLabel(raw string) (string, error) {
	doc := []byte(RepairJSON(raw))

	result, err := validation.ValidateDocument(h.schema, doc)
	if err != nil {
		return "", apperrors.NewClassificationParseError(raw, err)
	}
	if !result.Valid {
		return "", apperrors.NewClassificationParseError(raw,
			errors.New(strings.Join(result.GetErrorMessages(), "; ")))
	}

	var reply struct {
		NextAgent string `json:"next_agent"`
	}
	if err := json.Unmarshal(doc, &reply); err != nil {
		return "", apperrors.NewClassificationParseError(raw, err)
	}
	return strings.TrimSpace(reply.NextAgent), nil
}

// RepairJSON strips markdown code fences and surrounding prose, keeping the
// outermost {...} span. Text without braces is returned trimmed.
func RepairJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "json")
		}
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// Route classifies a query.
func (h *Handler) Route(ctx context.Context, question string) (models.Category, error) {
	out, err := h.execute(ctx, &Input{Question: question})
	if err != nil {
		return "", err
	}
	return out.Category, nil
}
