package ports

import (
	"context"
	"time"
)

// MetricsExporter exports habit service metrics to an external observability system.
type MetricsExporter interface {
	// RecordMutation counts a successful create, toggle, update or delete.
	RecordMutation(ctx context.Context, op string)
	// RecordInsightsRequest counts an insights read and whether the cache served it.
	RecordInsightsRequest(ctx context.Context, cacheHit bool)
	// RecordModelCall records one generator call, its latency and outcome.
	RecordModelCall(ctx context.Context, m ModelCall)
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}

// ModelCall describes a finished generator call.
type ModelCall struct {
	// Target is "habit" or "overall".
	Target   string
	Outcome  string
	Duration time.Duration
}

// Model call outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeTimeout     = "timeout"
	OutcomeStatusError = "status_error"
	OutcomeTransport   = "transport_error"
	OutcomeUnavailable = "unavailable"
)
