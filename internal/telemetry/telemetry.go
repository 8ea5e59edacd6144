package telemetry

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	meterName = "github.com/deploytestapp/web-app"

	requestCountName    = "http.server.request.count"
	requestDurationName = "http.server.request.duration"
	activeRequestsName  = "http.server.active_requests"
)

// Config holds telemetry settings
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// OTLPEndpoint is the collector address (host:port); empty disables export
	OTLPEndpoint string
	// ExportInterval defaults to 10s
	ExportInterval time.Duration
}

// HTTPMetrics groups the instruments recorded for every HTTP request
type HTTPMetrics struct {
	Requests       metric.Int64Counter
	Duration       metric.Float64Histogram
	ActiveRequests metric.Int64UpDownCounter
}

// Provider owns the meter provider and the HTTP instruments created from it
type Provider struct {
	mp      *sdkmetric.MeterProvider
	metrics *HTTPMetrics
}

// Init sets up OTLP metric export. It returns a nil Provider and no error
// when no endpoint is configured.
func Init(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.OTLPEndpoint == "" {
		log.Println("Telemetry disabled: OTEL_EXPORTER_OTLP_ENDPOINT not set")
		return nil, nil
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	exp, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	interval := cfg.ExportInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	reader := sdkmetric.NewPeriodicReader(exp,
		sdkmetric.WithInterval(interval),
		sdkmetric.WithTimeout(5*time.Second),
	)

	p, err := NewProvider(res, reader)
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(p.mp)

	log.Printf("Telemetry enabled: exporting metrics to %s every %s", cfg.OTLPEndpoint, interval)
	return p, nil
}

// NewProvider builds a meter provider around reader and registers the HTTP instruments
func NewProvider(res *resource.Resource, reader sdkmetric.Reader) (*Provider, error) {
	if res == nil {
		res = resource.Default()
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
		sdkmetric.WithView(
			sdkmetric.NewView(
				sdkmetric.Instrument{
					Name: requestDurationName,
					Kind: sdkmetric.InstrumentKindHistogram,
				},
				sdkmetric.Stream{
					Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
						Boundaries: []float64{1, 5, 10, 25, 50, 75, 100, 250, 500, 750, 1000, 2500, 5000},
					},
				},
			),
		),
	)

	metrics, err := NewHTTPMetrics(mp.Meter(meterName))
	if err != nil {
		_ = mp.Shutdown(context.Background())
		return nil, err
	}

	return &Provider{mp: mp, metrics: metrics}, nil
}

// NewHTTPMetrics creates the request instruments on meter
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	requests, err := meter.Int64Counter(
		requestCountName,
		metric.WithDescription("Total number of HTTP requests handled"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		requestDurationName,
		metric.WithDescription("Duration of HTTP requests"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	active, err := meter.Int64UpDownCounter(
		activeRequestsName,
		metric.WithDescription("Number of HTTP requests in flight"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active requests counter: %w", err)
	}

	return &HTTPMetrics{
		Requests:       requests,
		Duration:       duration,
		ActiveRequests: active,
	}, nil
}

// HTTPMetrics returns the request instruments; nil on a nil Provider
func (p *Provider) HTTPMetrics() *HTTPMetrics {
	if p == nil {
		return nil
	}
	return p.metrics
}

// Shutdown flushes pending metrics and stops the provider. Safe on a nil Provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.mp == nil {
		return nil
	}
	if err := p.mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down meter provider: %w", err)
	}
	return nil
}

// Started marks a request as in flight
func (m *HTTPMetrics) Started(ctx context.Context, method string) {
	if m == nil {
		return
	}
	m.ActiveRequests.Add(ctx, 1, metric.WithAttributes(semconv.HTTPRequestMethodKey.String(method)))
}

// Finished records a completed request
func (m *HTTPMetrics) Finished(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		semconv.HTTPRequestMethodKey.String(method),
		semconv.HTTPRoute(route),
		semconv.HTTPResponseStatusCode(status),
		attribute.String("http.response.status_class", strconv.Itoa(status/100)+"xx"),
	)
	m.ActiveRequests.Add(ctx, -1, metric.WithAttributes(semconv.HTTPRequestMethodKey.String(method)))
	m.Requests.Add(ctx, 1, attrs)
	m.Duration.Record(ctx, float64(elapsed.Microseconds())/1000.0, attrs)
}

func newResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	res, err := resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
