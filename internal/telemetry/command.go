package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	commandOnce sync.Once
	commandRuns metric.Int64Counter
)

// RecordCommand counts one CLI invocation, labeled by command name.
// No-op when telemetry is off.
func RecordCommand(ctx context.Context, name string) {
	if !Enabled() {
		return
	}
	commandOnce.Do(func() {
		m := Meter(instrumentationScope)
		commandRuns, _ = m.Int64Counter("kb.command.invocations",
			metric.WithDescription("CLI command invocations"),
		)
	})
	commandRuns.Add(ctx, 1, metric.WithAttributes(attribute.String("kb.command", name)))
}
