package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/mhabit/internal/ports"
)

const (
	serviceName    = "mhabit"
	serviceVersion = "1.0.0"
)

// Exporter exports habit service metrics to an OTEL Collector.
type Exporter struct {
	provider         *sdkmetric.MeterProvider
	mutationsTotal   metric.Int64Counter
	insightsTotal    metric.Int64Counter
	modelCallsTotal  metric.Int64Counter
	modelLatencyHist metric.Float64Histogram
}

// NewExporter creates a new OTEL metrics exporter pushing over gRPC.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	return newExporter(provider)
}

func newExporter(provider *sdkmetric.MeterProvider) (*Exporter, error) {
	meter := provider.Meter(serviceName)

	mutationsTotal, err := meter.Int64Counter(
		"mhabit_habit_mutations_total",
		metric.WithDescription("Successful habit writes by operation"),
		metric.WithUnit("{write}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating mutations counter: %w", err)
	}

	insightsTotal, err := meter.Int64Counter(
		"mhabit_insights_requests_total",
		metric.WithDescription("Insights requests by cache outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating insights counter: %w", err)
	}

	modelCallsTotal, err := meter.Int64Counter(
		"mhabit_model_calls_total",
		metric.WithDescription("Insight model calls by target and outcome"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating model calls counter: %w", err)
	}

	modelLatencyHist, err := meter.Float64Histogram(
		"mhabit_model_call_duration_seconds",
		metric.WithDescription("Insight model call latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating model latency histogram: %w", err)
	}

	return &Exporter{
		provider:         provider,
		mutationsTotal:   mutationsTotal,
		insightsTotal:    insightsTotal,
		modelCallsTotal:  modelCallsTotal,
		modelLatencyHist: modelLatencyHist,
	}, nil
}

func (e *Exporter) RecordMutation(ctx context.Context, op string) {
	e.mutationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
}

func (e *Exporter) RecordInsightsRequest(ctx context.Context, cacheHit bool) {
	e.insightsTotal.Add(ctx, 1, metric.WithAttributes(attribute.Bool("cache_hit", cacheHit)))
}

func (e *Exporter) RecordModelCall(ctx context.Context, m ports.ModelCall) {
	opt := metric.WithAttributes(
		attribute.String("target", m.Target),
		attribute.String("outcome", m.Outcome),
	)
	e.modelCallsTotal.Add(ctx, 1, opt)
	e.modelLatencyHist.Record(ctx, m.Duration.Seconds(), opt)
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
