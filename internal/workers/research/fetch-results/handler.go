// internal/workers/research/fetch-results/handler.go
package fetchresults

import (
	"context"
	"errors"

	"research-router/internal/common/logger"
	"research-router/internal/common/metrics"
	"research-router/internal/common/search"
)

const (
	TaskType = "fetch-results"
)

// Credential problems are written into state as text instead of failing
// the run.
const (
	MissingKeySentinel = "Error: SERP_API_KEY not found. Please set it in your .env file."
	InvalidKeySentinel = "Error: SERP_API_KEY was rejected by the search provider. Please check the key in your .env file."
)

type Handler struct {
	config *Config
	search search.Searcher
	logger logger.Logger
}

func NewHandler(config *Config, searcher search.Searcher, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		search: searcher,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
			"workflow": config.Profile.Name,
		}),
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	p := h.config.Profile
	req := search.Request{
		Query:      p.TransformQuery(input.Question),
		Engine:     p.Engine,
		APIKey:     h.config.APIKey,
		NumResults: h.config.NumResults,
	}

	records, err := h.search.Search(ctx, req)
	var output *Output
	switch {
	case errors.Is(err, search.ErrMissingAPIKey):
		h.logger.Warn("search key not configured, using sentinel text", map[string]interface{}{
			"query": req.Query,
		})
		output = &Output{FetchResult: MissingKeySentinel, Outcome: OutcomeMissingCredential}
	case errors.Is(err, search.ErrInvalidAPIKey):
		h.logger.Warn("search key rejected, using sentinel text", map[string]interface{}{
			"query": req.Query,
			"error": err.Error(),
		})
		output = &Output{FetchResult: InvalidKeySentinel, Outcome: OutcomeInvalidCredential}
	case err != nil:
		return nil, err
	default:
		text := p.Format(records, h.config.NumResults)
		outcome := OutcomeResults
		if text == p.EmptySentinel {
			outcome = OutcomeEmpty
		}
		output = &Output{FetchResult: text, Outcome: outcome, RecordCount: len(records)}
	}

	metrics.FetchOutcomes.WithLabelValues(p.Name, output.Outcome).Inc()

	h.logger.Info("fetch completed", map[string]interface{}{
		"query":       req.Query,
		"engine":      string(req.Engine),
		"outcome":     output.Outcome,
		"recordCount": output.RecordCount,
	})
	h.logger.Debug("fetched text", map[string]interface{}{
		p.FetchField: output.FetchResult,
	})

	return output, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// Fetch lets the handler serve as a workflow.Fetcher.
func (h *Handler) Fetch(ctx context.Context, question string) (string, error) {
	out, err := h.execute(ctx, &Input{Question: question})
	if err != nil {
		return "", err
	}
	return out.FetchResult, nil
}
