package orchestrator

import (
	"research-router/internal/common/config"
	"research-router/internal/common/llm"
	"research-router/internal/common/logger"
	"research-router/internal/common/observability"
	"research-router/internal/common/search"
	"research-router/internal/workers/research"
	"research-router/internal/workflow"

	ga "research-router/internal/workers/conversation/generic-answer"
	fr "research-router/internal/workers/research/fetch-results"
	sr "research-router/internal/workers/research/summarize-results"
	sv "research-router/internal/workers/research/supervise-research"
	rq "research-router/internal/workers/routing/route-query"
)

// Dependencies are constructed once per process and shared by every
// workflow. GenericLLM falls back to LLM when nil.
type Dependencies struct {
	Config        *config.Config
	LLM           llm.Client
	GenericLLM    llm.Client
	Search        search.Searcher
	Logger        logger.Logger
	Observability *observability.Observability
	// Observer receives every workflow transition when set.
	Observer workflow.Observer
}

// Build wires the router, the three research workflows and the generic
// workflow.
func Build(deps Dependencies) *Orchestrator {
	log := deps.Logger
	cfg := deps.Config
	genericLLM := deps.GenericLLM
	if genericLLM == nil {
		genericLLM = deps.LLM
	}

	router := rq.NewHandler(rq.LoadConfig(), deps.LLM, log)
	generic := ga.NewHandler(ga.LoadConfig(), genericLLM, log)
	o := New(router, generic, deps.Observability, log)

	for _, c := range research.ResearchCategories() {
		p, _ := research.ProfileFor(c)
		engine := workflow.New(p.Name,
			sv.NewHandler(sv.LoadConfig(p), deps.LLM, log),
			fr.NewHandler(fr.LoadConfig(p, cfg.APIs.Search.APIKey, cfg.APIs.Search.NumResults), deps.Search, log),
			sr.NewHandler(sr.LoadConfig(p), deps.LLM, log),
			log,
			workflow.WithMaxSupervisorVisits(cfg.Workflow.MaxSupervisorVisits),
			workflow.WithTracer(deps.Observability.Tracer()),
			workflow.WithObserver(deps.Observer),
		)
		o.Register(c, engine)
	}
	return o
}
