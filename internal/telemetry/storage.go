package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kodebaseai/artifacts-sub003/internal/storage"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

const storageScopeName = "github.com/kodebaseai/artifacts-sub003/storage"

// InstrumentedStore wraps storage.Store with OTel tracing and metrics.
// Every method gets a span and is counted in kb.storage.* metrics.
// Use WrapStore to create one; it returns the original store unchanged
// when telemetry is disabled.
type InstrumentedStore struct {
	inner         storage.Store
	tracer        trace.Tracer
	ops           metric.Int64Counter
	dur           metric.Float64Histogram
	errs          metric.Int64Counter
	artifactGauge metric.Int64Gauge
}

// WrapStore returns s decorated with OTel instrumentation.
// When telemetry is disabled, s is returned as-is with zero overhead.
func WrapStore(s storage.Store) storage.Store {
	if !Enabled() {
		return s
	}
	m := Meter(storageScopeName)
	ops, _ := m.Int64Counter("kb.storage.operations",
		metric.WithDescription("Total storage operations executed"),
	)
	dur, _ := m.Float64Histogram("kb.storage.operation.duration",
		metric.WithDescription("Storage operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("kb.storage.errors",
		metric.WithDescription("Total storage operation errors"),
	)
	artifactGauge, _ := m.Int64Gauge("kb.artifact.count",
		metric.WithDescription("Number of artifacts in the workspace (sampled on Snapshot)"),
	)
	return &InstrumentedStore{
		inner:         s,
		tracer:        Tracer(storageScopeName),
		ops:           ops,
		dur:           dur,
		errs:          errs,
		artifactGauge: artifactGauge,
	}
}

// op starts a span and records a metric for the named storage operation.
func (s *InstrumentedStore) op(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	all := append([]attribute.KeyValue{attribute.String("db.operation", name)}, attrs...)
	ctx, span := s.tracer.Start(ctx, "storage."+name,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	s.ops.Add(ctx, 1, metric.WithAttributes(all...))
	return ctx, span, time.Now()
}

// done ends the span, records duration and optional error.
func (s *InstrumentedStore) done(ctx context.Context, span trace.Span, start time.Time, err error, attrs ...attribute.KeyValue) {
	ms := float64(time.Since(start).Milliseconds())
	s.dur.Record(ctx, ms, metric.WithAttributes(attrs...))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.errs.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	span.End()
}

func (s *InstrumentedStore) Get(ctx context.Context, id types.ArtifactID) (*types.Artifact, error) {
	attrs := []attribute.KeyValue{attribute.String("kb.artifact.id", string(id))}
	ctx, span, t := s.op(ctx, "Get", attrs...)
	a, err := s.inner.Get(ctx, id)
	s.done(ctx, span, t, err, attrs...)
	return a, err
}

func (s *InstrumentedStore) List(ctx context.Context) ([]*types.Artifact, error) {
	ctx, span, t := s.op(ctx, "List")
	arts, err := s.inner.List(ctx)
	s.done(ctx, span, t, err)
	return arts, err
}

func (s *InstrumentedStore) Create(ctx context.Context, a *types.Artifact) error {
	attrs := []attribute.KeyValue{
		attribute.String("kb.artifact.id", string(a.ID)),
		attribute.String("kb.artifact.level", a.ID.Level().String()),
	}
	ctx, span, t := s.op(ctx, "Create", attrs...)
	err := s.inner.Create(ctx, a)
	s.done(ctx, span, t, err, attrs...)
	return err
}

func (s *InstrumentedStore) Update(ctx context.Context, a *types.Artifact) error {
	attrs := []attribute.KeyValue{attribute.String("kb.artifact.id", string(a.ID))}
	ctx, span, t := s.op(ctx, "Update", attrs...)
	err := s.inner.Update(ctx, a)
	s.done(ctx, span, t, err, attrs...)
	return err
}

func (s *InstrumentedStore) AppendEvent(ctx context.Context, id types.ArtifactID, ev types.Event) error {
	attrs := []attribute.KeyValue{
		attribute.String("kb.artifact.id", string(id)),
		attribute.String("kb.event.state", string(ev.State)),
		attribute.String("kb.event.trigger", string(ev.Trigger)),
	}
	ctx, span, t := s.op(ctx, "AppendEvent", attrs...)
	err := s.inner.AppendEvent(ctx, id, ev)
	s.done(ctx, span, t, err, attrs...)
	return err
}

func (s *InstrumentedStore) AddDependency(ctx context.Context, blocker, blocked types.ArtifactID) error {
	attrs := []attribute.KeyValue{
		attribute.String("kb.blocker.id", string(blocker)),
		attribute.String("kb.blocked.id", string(blocked)),
	}
	ctx, span, t := s.op(ctx, "AddDependency", attrs...)
	err := s.inner.AddDependency(ctx, blocker, blocked)
	s.done(ctx, span, t, err, attrs...)
	return err
}

func (s *InstrumentedStore) RemoveDependency(ctx context.Context, blocker, blocked types.ArtifactID) error {
	attrs := []attribute.KeyValue{
		attribute.String("kb.blocker.id", string(blocker)),
		attribute.String("kb.blocked.id", string(blocked)),
	}
	ctx, span, t := s.op(ctx, "RemoveDependency", attrs...)
	err := s.inner.RemoveDependency(ctx, blocker, blocked)
	s.done(ctx, span, t, err, attrs...)
	return err
}

func (s *InstrumentedStore) Snapshot(ctx context.Context) (*storage.Snapshot, error) {
	ctx, span, t := s.op(ctx, "Snapshot")
	snap, err := s.inner.Snapshot(ctx)
	s.done(ctx, span, t, err)
	if err == nil {
		s.artifactGauge.Record(ctx, int64(snap.Len()))
	}
	return snap, err
}

func (s *InstrumentedStore) Close() error {
	return s.inner.Close()
}
