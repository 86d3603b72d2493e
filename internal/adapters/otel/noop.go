package otel

import (
	"context"

	"github.com/emiliopalmerini/mhabit/internal/ports"
)

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) RecordMutation(ctx context.Context, op string) {}

func (e *NoOpExporter) RecordInsightsRequest(ctx context.Context, cacheHit bool) {}

func (e *NoOpExporter) RecordModelCall(ctx context.Context, m ports.ModelCall) {}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
