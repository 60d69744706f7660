package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	cascadeOnce    sync.Once
	cascadeActions metric.Int64Counter
	cascadeErrors  metric.Int64Counter
)

// RecordCascade counts the actions and branch errors a cascade run
// produced, labeled by the triggering cause. No-op when telemetry is off.
func RecordCascade(ctx context.Context, cause string, actions, errs int) {
	if !Enabled() {
		return
	}
	cascadeOnce.Do(func() {
		m := Meter(instrumentationScope)
		cascadeActions, _ = m.Int64Counter("kb.cascade.actions",
			metric.WithDescription("Lifecycle events emitted by cascade runs"),
		)
		cascadeErrors, _ = m.Int64Counter("kb.cascade.errors",
			metric.WithDescription("Branch errors encountered by cascade runs"),
		)
	})
	attrs := metric.WithAttributes(attribute.String("kb.cascade.cause", cause))
	cascadeActions.Add(ctx, int64(actions), attrs)
	cascadeErrors.Add(ctx, int64(errs), attrs)
}
