// Package orchestrator routes a query to its workflow and aggregates the
// result.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/flyt"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "research-router/internal/common/errors"
	"research-router/internal/common/logger"
	"research-router/internal/common/metrics"
	"research-router/internal/common/observability"
	"research-router/internal/models"
)

const NoResponseSentinel = "No response found."

// resultKey holds the *models.ResearchResult of one run in the parent
// flow's shared store.
const resultKey = "research_result"

type Router interface {
	Route(ctx context.Context, question string) (models.Category, error)
}

// Workflow is a research workflow; *workflow.Engine implements it.
type Workflow interface {
	Run(ctx context.Context, question string) (string, error)
}

type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

// Orchestrator runs the parent flow: a router node whose action is the
// category, connected to one dispatch node per category.
type Orchestrator struct {
	route      *routeNode
	flow       *flyt.Flow
	registered map[models.Category]bool
	obs        *observability.Observability
	logger     logger.Logger
}

func New(router Router, generic Answerer, obs *observability.Observability, log logger.Logger) *Orchestrator {
	o := &Orchestrator{
		registered: make(map[models.Category]bool),
		obs:        obs,
		logger:     log,
	}
	o.route = &routeNode{BaseNode: flyt.NewBaseNode(), router: router, orchestrator: o}
	o.flow = flyt.NewFlow(o.route)
	o.connect(models.CategoryGeneric, generic.Answer)
	return o
}

// Register binds a research category to its workflow.
func (o *Orchestrator) Register(c models.Category, wf Workflow) {
	o.connect(c, wf.Run)
}

func (o *Orchestrator) connect(c models.Category, run func(context.Context, string) (string, error)) {
	o.flow.Connect(o.route, flyt.Action(c), &dispatchNode{BaseNode: flyt.NewBaseNode(), category: c, run: run})
	o.registered[c] = true
}

// Run classifies the question and runs exactly one workflow. Each call
// starts from a fresh result.
func (o *Orchestrator) Run(ctx context.Context, question string) (*models.ResearchResult, error) {
	result := &models.ResearchResult{
		RunID:    uuid.NewString(),
		Question: question,
	}
	log := o.logger.With(map[string]interface{}{"runId": result.RunID})
	start := time.Now()

	ctx, span := o.obs.StartSpan(ctx, "router.run", attribute.String("run.id", result.RunID))
	defer span.End()

	log.Info("processing query", map[string]interface{}{
		"question": question,
	})

	shared := flyt.NewSharedStore()
	shared.Set(resultKey, result)

	if err := o.flow.Run(ctx, shared); err != nil {
		return nil, o.fail(ctx, log, span, result.Category, start, apperrors.AsStandard(err))
	}

	o.obs.RecordRun(ctx, string(result.Category), "ok", time.Since(start))
	log.Info("query processed", map[string]interface{}{
		"category":   string(result.Category),
		"durationMs": time.Since(start).Milliseconds(),
	})
	return result, nil
}

// Answer runs the question and returns the aggregated response text.
func (o *Orchestrator) Answer(ctx context.Context, question string) (string, error) {
	result, err := o.Run(ctx, question)
	if err != nil {
		return "", err
	}
	return Aggregate(result), nil
}

func (o *Orchestrator) fail(ctx context.Context, log logger.Logger, span trace.Span, category models.Category, start time.Time, err error) error {
	code := apperrors.CodeOf(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	metrics.RunsFailed.WithLabelValues(string(code)).Inc()
	o.obs.RecordRun(ctx, string(category), "error", time.Since(start))

	fields := map[string]interface{}{
		"category":      string(category),
		"errorCode":     string(code),
		"errorCategory": apperrors.GetErrorCategory(code),
	}
	if stdErr, ok := err.(*apperrors.StandardError); ok {
		for k, v := range stdErr.Metadata {
			fields[k] = v
		}
	}
	log.WithError(err).Error("query failed", fields)
	return err
}

// Aggregate returns the first non-empty output in precedence order
// general, academic, product, generic.
func Aggregate(r *models.ResearchResult) string {
	if r == nil {
		return NoResponseSentinel
	}
	for _, v := range []string{r.GeneralResponse, r.AcademicResponse, r.ProductResponse, r.GenericResponse} {
		if v != "" {
			return v
		}
	}
	return NoResponseSentinel
}

// ==========================
// Flow Nodes
// ==========================

func resultFrom(shared *flyt.SharedStore) (*models.ResearchResult, error) {
	v, _ := shared.Get(resultKey)
	r, ok := v.(*models.ResearchResult)
	if !ok || r == nil {
		return nil, apperrors.NewInternalError("run result missing", fmt.Errorf("shared store key %q", resultKey))
	}
	return r, nil
}

type routeNode struct {
	*flyt.BaseNode
	router       Router
	orchestrator *Orchestrator
}

func (n *routeNode) Prep(ctx context.Context, shared *flyt.SharedStore) (any, error) {
	return resultFrom(shared)
}

func (n *routeNode) Exec(ctx context.Context, prepResult any) (any, error) {
	return n.router.Route(ctx, prepResult.(*models.ResearchResult).Question)
}

// Post records the category and selects its dispatch edge. A category
// with no edge would end the flow silently, so it is an error here.
func (n *routeNode) Post(ctx context.Context, shared *flyt.SharedStore, prepResult, execResult any) (flyt.Action, error) {
	result := prepResult.(*models.ResearchResult)
	category := execResult.(models.Category)
	result.Category = category
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("category", string(category)))

	if !n.orchestrator.registered[category] {
		return "", apperrors.NewUnknownCategoryError(string(category))
	}
	return flyt.Action(category), nil
}

// dispatchNode runs the workflow owned by one category and writes its
// output field.
type dispatchNode struct {
	*flyt.BaseNode
	category models.Category
	run      func(context.Context, string) (string, error)
}

func (n *dispatchNode) Prep(ctx context.Context, shared *flyt.SharedStore) (any, error) {
	return resultFrom(shared)
}

func (n *dispatchNode) Exec(ctx context.Context, prepResult any) (any, error) {
	return n.run(ctx, prepResult.(*models.ResearchResult).Question)
}

func (n *dispatchNode) Post(ctx context.Context, shared *flyt.SharedStore, prepResult, execResult any) (flyt.Action, error) {
	prepResult.(*models.ResearchResult).SetOutput(n.category, execResult.(string))
	return flyt.DefaultAction, nil
}
