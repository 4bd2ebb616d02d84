package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dukex/flowgraph/pkg/cache"
	"github.com/dukex/flowgraph/pkg/eventbus"
	"github.com/dukex/flowgraph/pkg/events"
	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/otelhelper"
	"github.com/dukex/flowgraph/pkg/persistence"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	unavailableValidation    = "graph validation is unavailable: neither the remote nor the local validator produced a result"
	unavailablePlan          = "execution planning is unavailable: neither the remote nor the local planner produced a result"
	unavailableCompatibility = "port compatibility is unavailable"
)

// Validation is the single entry point for validating graphs, planning them and checking port
// compatibility. When a remote adapter is configured it is tried first; the local adapter runs only
// after the remote attempt has failed. Every method returns a well-formed result.
type Validation struct {
	logger    *slog.Logger
	local     Adapter
	remote    Adapter
	store     persistence.SnapshotReader
	cache     cache.Cache
	publisher eventbus.EventPublisher
	tracer    trace.Tracer
}

type Option func(*Validation)

// WithRemote enables the remote-first path.
func WithRemote(remote Adapter) Option {
	return func(v *Validation) {
		v.remote = remote
	}
}

// WithStore resolves graph references that carry only a workflow id.
func WithStore(store persistence.SnapshotReader) Option {
	return func(v *Validation) {
		v.store = store
	}
}

// WithCache reuses results for identical snapshots.
func WithCache(c cache.Cache) Option {
	return func(v *Validation) {
		v.cache = c
	}
}

// WithPublisher publishes a summary event for every computed result.
func WithPublisher(publisher eventbus.EventPublisher) Option {
	return func(v *Validation) {
		v.publisher = publisher
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(v *Validation) {
		v.tracer = tracer
	}
}

func NewValidation(logger *slog.Logger, local Adapter, opts ...Option) *Validation {
	v := &Validation{
		logger: logger.With("module", "validation_service"),
		local:  local,
		tracer: otelhelper.NewNoopTracer(),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// ValidateGraph validates the referenced snapshot.
func (v *Validation) ValidateGraph(ctx context.Context, ref models.GraphRef, opts models.ValidateOptions) *models.ValidationResult {
	ctx, span := otelhelper.StartSpan(ctx, v.tracer, "validation.validate_graph",
		attribute.String(otelhelper.WorkflowIDKey, ref.WorkflowID),
	)
	defer span.End()

	logger := v.logger.With("workflow_id", ref.WorkflowID, "op", "validate")

	g, err := v.resolve(ctx, ref)
	if err != nil {
		otelhelper.SetError(span, err)
		logger.WarnContext(ctx, "Graph reference could not be resolved", "error", err)

		return v.degradedValidation(ctx, span, ref.WorkflowID)
	}

	key := v.cacheKey(ctx, ref.WorkflowID, "validate", struct {
		Graph   *models.Graph          `json:"graph"`
		Options models.ValidateOptions `json:"options"`
	}{g, opts})

	var cached models.ValidationResult
	if v.cacheGet(ctx, key, &cached) {
		v.annotate(span, events.SourceCache, attribute.Bool(otelhelper.ValidKey, cached.Valid))

		return &cached
	}

	var (
		result *models.ValidationResult
		source events.Source
	)

	run := func(adapter Adapter) error {
		var runErr error

		result, runErr = adapter.Validate(ctx, ref.WorkflowID, g, opts)

		return runErr
	}

	source, err = v.firstAvailable(ctx, logger, run)
	if err != nil {
		otelhelper.SetError(span, err)

		return v.degradedValidation(ctx, span, ref.WorkflowID)
	}

	v.cacheSet(ctx, key, result)
	v.publish(ctx, ref.WorkflowID, events.NewGraphValidated(ref.WorkflowID, source, result))
	v.annotate(span, source,
		attribute.Bool(otelhelper.ValidKey, result.Valid),
		attribute.Int(otelhelper.IssueCountKey, len(result.Issues)),
	)

	return result
}

// GetExecutionOrder plans the referenced snapshot.
func (v *Validation) GetExecutionOrder(ctx context.Context, ref models.GraphRef) *models.ExecutionOrderResult {
	ctx, span := otelhelper.StartSpan(ctx, v.tracer, "validation.get_execution_order",
		attribute.String(otelhelper.WorkflowIDKey, ref.WorkflowID),
	)
	defer span.End()

	logger := v.logger.With("workflow_id", ref.WorkflowID, "op", "execution_order")

	g, err := v.resolve(ctx, ref)
	if err != nil {
		otelhelper.SetError(span, err)
		logger.WarnContext(ctx, "Graph reference could not be resolved", "error", err)

		return v.degradedPlan(span)
	}

	key := v.cacheKey(ctx, ref.WorkflowID, "plan", g)

	var cached models.ExecutionOrderResult
	if v.cacheGet(ctx, key, &cached) {
		v.annotate(span, events.SourceCache, attribute.Bool(otelhelper.HasCyclesKey, cached.HasCycles))

		return &cached
	}

	var result *models.ExecutionOrderResult

	source, err := v.firstAvailable(ctx, logger, func(adapter Adapter) error {
		var runErr error

		result, runErr = adapter.ExecutionOrder(ctx, ref.WorkflowID, g)

		return runErr
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return v.degradedPlan(span)
	}

	v.cacheSet(ctx, key, result)
	v.publish(ctx, ref.WorkflowID, events.NewGraphPlanned(ref.WorkflowID, source, result))
	v.annotate(span, source, attribute.Bool(otelhelper.HasCyclesKey, result.HasCycles))

	return result
}

// CheckPortCompatibility answers whether source may feed target.
func (v *Validation) CheckPortCompatibility(ctx context.Context, source, target models.PortType) models.CompatibilityResult {
	ctx, span := otelhelper.StartSpan(ctx, v.tracer, "validation.check_port_compatibility",
		attribute.String(otelhelper.SourcePortTypeKey, string(source)),
		attribute.String(otelhelper.TargetPortTypeKey, string(target)),
	)
	defer span.End()

	logger := v.logger.With("op", "compatibility")

	var result *models.CompatibilityResult

	from, err := v.firstAvailable(ctx, logger, func(adapter Adapter) error {
		var runErr error

		result, runErr = adapter.CheckPortCompatibility(ctx, source, target)

		return runErr
	})
	if err != nil {
		otelhelper.SetError(span, err)
		v.annotate(span, events.SourceDegraded)

		return models.CompatibilityResult{Compatible: false, Reason: unavailableCompatibility}
	}

	v.annotate(span, from)

	return *result
}

// Invalidate drops cached results of a workflow.
func (v *Validation) Invalidate(ctx context.Context, workflowID string) error {
	if v.cache == nil {
		return nil
	}

	return v.cache.Invalidate(ctx, workflowID)
}

// PurgeCache drops expired cache entries.
func (v *Validation) PurgeCache(ctx context.Context) (int, error) {
	if v.cache == nil {
		return 0, nil
	}

	return v.cache.Purge(ctx)
}

// firstAvailable runs the remote adapter, then the local one once the remote attempt has returned
// an error. The adapters never run concurrently.
func (v *Validation) firstAvailable(ctx context.Context, logger *slog.Logger, run func(Adapter) error) (events.Source, error) {
	if v.remote != nil {
		err := run(v.remote)
		if err == nil {
			return events.SourceRemote, nil
		}

		logger.WarnContext(ctx, "Remote computation failed, falling back to local", "error", err)
	}

	if v.local == nil {
		return events.SourceDegraded, ErrRemoteUnavailable
	}

	err := run(v.local)
	if err != nil {
		logger.ErrorContext(ctx, "Local computation failed", "error", err)

		return events.SourceDegraded, err
	}

	return events.SourceLocal, nil
}

func (v *Validation) resolve(ctx context.Context, ref models.GraphRef) (*models.Graph, error) {
	if ref.Graph != nil {
		return ref.Graph, nil
	}

	if v.store == nil || ref.WorkflowID == "" {
		return nil, ErrUnresolvableGraph
	}

	workflow, err := v.store.WorkflowByID(ctx, ref.WorkflowID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnresolvableGraph, err)
	}

	if workflow.Graph == nil {
		return nil, ErrUnresolvableGraph
	}

	return workflow.Graph, nil
}

func (v *Validation) degradedValidation(ctx context.Context, span trace.Span, workflowID string) *models.ValidationResult {
	result := models.UnavailableResult(unavailableValidation)

	v.annotate(span, events.SourceDegraded)
	v.publish(ctx, workflowID, events.NewGraphValidated(workflowID, events.SourceDegraded, result))

	return result
}

func (v *Validation) degradedPlan(span trace.Span) *models.ExecutionOrderResult {
	v.annotate(span, events.SourceDegraded)

	return models.UnavailableExecutionOrder(unavailablePlan)
}

func (v *Validation) annotate(span trace.Span, source events.Source, attrs ...attribute.KeyValue) {
	span.SetAttributes(append(attrs, attribute.String(otelhelper.ResultSourceKey, string(source)))...)
}

func (v *Validation) cacheKey(ctx context.Context, workflowID, op string, payload any) string {
	if v.cache == nil {
		return ""
	}

	key, err := cache.Key(workflowID, op, payload)
	if err != nil {
		v.logger.WarnContext(ctx, "Failed to derive cache key", "error", err)

		return ""
	}

	return key
}

func (v *Validation) cacheGet(ctx context.Context, key string, out any) bool {
	if key == "" {
		return false
	}

	data, found, err := v.cache.Get(ctx, key)
	if err != nil {
		v.logger.WarnContext(ctx, "Cache read failed", "error", err)

		return false
	}

	if !found {
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		v.logger.WarnContext(ctx, "Discarding unreadable cache entry", "error", err)

		return false
	}

	return true
}

func (v *Validation) cacheSet(ctx context.Context, key string, value any) {
	if key == "" {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		v.logger.WarnContext(ctx, "Failed to encode cache entry", "error", err)

		return
	}

	if err := v.cache.Set(ctx, key, data); err != nil {
		v.logger.WarnContext(ctx, "Cache write failed", "error", err)
	}
}

func (v *Validation) publish(ctx context.Context, workflowID string, event eventbus.Event) {
	if v.publisher == nil {
		return
	}

	if err := v.publisher.Publish(ctx, workflowID, event); err != nil {
		v.logger.WarnContext(ctx, "Failed to publish event", "event_type", event.GetType(), "error", err)
	}
}
