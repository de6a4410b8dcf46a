package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/flyt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "research-router/internal/common/errors"
	"research-router/internal/common/logger"
	"research-router/internal/common/metrics"
)

const DefaultMaxSupervisorVisits = 10

// runKey holds the *run for one execution in the flow's shared store.
const runKey = "research_run"

type Supervisor interface {
	Decide(ctx context.Context, snap Snapshot) (Decision, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, question string) (string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, fetchResult string) (string, error)
}

// Step describes one transition. Decision is empty when leaving a worker.
type Step struct {
	Visit    int
	From     State
	To       State
	Decision Decision
	State    Snapshot
}

type Observer func(Step)

// Engine runs one research workflow as a flyt flow: a supervisor node
// connected to a node per worker state through the transition table.
type Engine struct {
	name       string
	supervisor Supervisor
	fetcher    Fetcher
	summarizer Summarizer
	maxVisits  int
	logger     logger.Logger
	tracer     trace.Tracer
	observer   Observer
	flow       *flyt.Flow
}

type Option func(*Engine)

func WithMaxSupervisorVisits(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxVisits = n
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

func New(name string, sup Supervisor, fetcher Fetcher, summarizer Summarizer, log logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		name:       name,
		supervisor: sup,
		fetcher:    fetcher,
		summarizer: summarizer,
		maxVisits:  DefaultMaxSupervisorVisits,
		logger:     log.With(map[string]interface{}{"workflow": name}),
		tracer:     otel.Tracer("research-router/workflow"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.flow = e.buildFlow()
	return e
}

// buildFlow connects the supervisor to each worker by the decision that
// selects it. Workers always return to the supervisor. Finish has no
// outgoing edge, so the flow stops there.
func (e *Engine) buildFlow() *flyt.Flow {
	sup := &supervisorNode{BaseNode: flyt.NewBaseNode(), engine: e}
	workers := map[State]flyt.Node{
		StateFetch:     &fetchNode{BaseNode: flyt.NewBaseNode(), engine: e},
		StateSummarize: &summarizeNode{BaseNode: flyt.NewBaseNode(), engine: e},
	}

	flow := flyt.NewFlow(sup)
	for _, d := range Decisions() {
		next, _ := NextState(d)
		if worker, ok := workers[next]; ok {
			flow.Connect(sup, flyt.Action(d), worker)
		}
	}
	for _, worker := range workers {
		flow.Connect(worker, flyt.DefaultAction, sup)
	}
	return flow
}

func (e *Engine) Name() string {
	return e.name
}

// Run executes one query and returns the response field, or "" when the
// supervisor finished without one.
func (e *Engine) Run(ctx context.Context, question string) (string, error) {
	state, err := e.RunState(ctx, question)
	if err != nil {
		return "", err
	}
	return state.Response.OrElse(""), nil
}

// RunState executes one query and returns the final state.
func (e *Engine) RunState(ctx context.Context, question string) (*ResearchState, error) {
	ctx, span := e.tracer.Start(ctx, "workflow.run", trace.WithAttributes(
		attribute.String("workflow", e.name),
	))
	defer span.End()

	r := &run{state: &ResearchState{Question: question}}
	shared := flyt.NewSharedStore()
	shared.Set(runKey, r)

	if err := e.flow.Run(ctx, shared); err != nil {
		return nil, e.fail(span, apperrors.AsStandard(err))
	}

	span.SetAttributes(attribute.Int("supervisor_visits", r.visits))
	e.logger.Info("workflow finished", map[string]interface{}{
		"supervisorVisits": r.visits,
		"hasResponse":      r.state.Response.IsSet(),
	})
	return r.state, nil
}

func (e *Engine) startStep(ctx context.Context, s State) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, "workflow."+strings.ToLower(string(s)), trace.WithAttributes(
		attribute.String("workflow", e.name),
	))
}

func (e *Engine) observe(s State, start time.Time) {
	metrics.WorkerDuration.WithLabelValues(e.name, string(s)).Observe(time.Since(start).Seconds())
}

func (e *Engine) emit(step Step) {
	if e.observer != nil {
		e.observer(step)
	}
}

func (e *Engine) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	e.logger.WithError(err).Error("workflow failed", map[string]interface{}{
		"errorCode": string(apperrors.CodeOf(err)),
	})
	return err
}

// ==========================
// Flow Nodes
// ==========================

// run is the per-execution state shared by the nodes of one flow run.
type run struct {
	state  *ResearchState
	visits int
}

func runFrom(shared *flyt.SharedStore) (*run, error) {
	v, _ := shared.Get(runKey)
	r, ok := v.(*run)
	if !ok || r == nil {
		return nil, apperrors.NewInternalError("workflow run state missing", fmt.Errorf("shared store key %q", runKey))
	}
	return r, nil
}

type decision struct {
	decision Decision
	next     State
}

type supervisorNode struct {
	*flyt.BaseNode
	engine *Engine
}

// Prep enforces the visit bound before the supervisor is consulted.
func (n *supervisorNode) Prep(ctx context.Context, shared *flyt.SharedStore) (any, error) {
	r, err := runFrom(shared)
	if err != nil {
		return nil, err
	}
	if r.visits >= n.engine.maxVisits {
		return nil, apperrors.NewStepLimitExceededError(n.engine.name, n.engine.maxVisits)
	}
	r.visits++
	return r, nil
}

func (n *supervisorNode) Exec(ctx context.Context, prepResult any) (any, error) {
	r := prepResult.(*run)
	e := n.engine

	ctx, span := e.startStep(ctx, StateSupervisor)
	defer span.End()
	start := time.Now()

	d, err := e.supervisor.Decide(ctx, r.state.Snapshot())
	e.observe(StateSupervisor, start)
	if err != nil {
		return nil, err
	}
	next, ok := NextState(d)
	if !ok {
		return nil, apperrors.NewDecisionParseError(e.name, string(d),
			fmt.Errorf("decision %q is not in the transition table", d))
	}

	span.SetAttributes(attribute.String("decision", string(d)), attribute.Int("visit", r.visits))
	metrics.SupervisorDecisions.WithLabelValues(e.name, string(d)).Inc()
	return decision{decision: d, next: next}, nil
}

func (n *supervisorNode) Post(ctx context.Context, shared *flyt.SharedStore, prepResult, execResult any) (flyt.Action, error) {
	r := prepResult.(*run)
	d := execResult.(decision)
	n.engine.emit(Step{
		Visit:    r.visits,
		From:     StateSupervisor,
		To:       d.next,
		Decision: d.decision,
		State:    r.state.Snapshot(),
	})
	return flyt.Action(d.decision), nil
}

type fetchNode struct {
	*flyt.BaseNode
	engine *Engine
}

func (n *fetchNode) Prep(ctx context.Context, shared *flyt.SharedStore) (any, error) {
	return runFrom(shared)
}

func (n *fetchNode) Exec(ctx context.Context, prepResult any) (any, error) {
	r := prepResult.(*run)
	e := n.engine

	ctx, span := e.startStep(ctx, StateFetch)
	defer span.End()
	start := time.Now()

	text, err := e.fetcher.Fetch(ctx, r.state.Question)
	e.observe(StateFetch, start)
	if err != nil {
		return nil, err
	}
	return text, nil
}

func (n *fetchNode) Post(ctx context.Context, shared *flyt.SharedStore, prepResult, execResult any) (flyt.Action, error) {
	r := prepResult.(*run)
	r.state.FetchResult = Some(execResult.(string))
	n.engine.emit(Step{Visit: r.visits, From: StateFetch, To: StateSupervisor, State: r.state.Snapshot()})
	return flyt.DefaultAction, nil
}

type summarizeNode struct {
	*flyt.BaseNode
	engine *Engine
}

func (n *summarizeNode) Prep(ctx context.Context, shared *flyt.SharedStore) (any, error) {
	return runFrom(shared)
}

func (n *summarizeNode) Exec(ctx context.Context, prepResult any) (any, error) {
	r := prepResult.(*run)
	e := n.engine

	ctx, span := e.startStep(ctx, StateSummarize)
	defer span.End()
	start := time.Now()

	summary, err := e.summarizer.Summarize(ctx, r.state.FetchResult.OrElse(""))
	e.observe(StateSummarize, start)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (n *summarizeNode) Post(ctx context.Context, shared *flyt.SharedStore, prepResult, execResult any) (flyt.Action, error) {
	r := prepResult.(*run)
	r.state.Response = Some(execResult.(string))
	n.engine.emit(Step{Visit: r.visits, From: StateSummarize, To: StateSupervisor, State: r.state.Snapshot()})
	return flyt.DefaultAction, nil
}
