package metrics

import (
	"context"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type Metrics struct {
	Operations        metric.Int64Counter
	OperationErrors   metric.Int64Counter
	OperationDuration metric.Float64Histogram
	LookupHits        metric.Int64Counter
	LookupMisses      metric.Int64Counter
}

// Setup registers the store metrics with the default Prometheus registry and
// installs the meter provider globally.
func Setup(serviceName string) (*Metrics, http.Handler, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	m, err := newMetrics(provider.Meter(serviceName))
	if err != nil {
		return nil, nil, err
	}
	return m, promhttp.Handler(), nil
}

// SetupWithRegistry is like Setup but exports into reg and leaves the global
// meter provider alone.
func SetupWithRegistry(serviceName string, reg *promclient.Registry) (*Metrics, http.Handler, error) {
	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))

	m, err := newMetrics(provider.Meter(serviceName))
	if err != nil {
		return nil, nil, err
	}
	return m, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.Operations, err = meter.Int64Counter(
		"settings_operations_total",
		metric.WithDescription("Total number of config store operations"),
	)
	if err != nil {
		return nil, err
	}

	m.OperationErrors, err = meter.Int64Counter(
		"settings_operation_errors_total",
		metric.WithDescription("Total number of failed config store operations"),
	)
	if err != nil {
		return nil, err
	}

	m.OperationDuration, err = meter.Float64Histogram(
		"settings_operation_duration_seconds",
		metric.WithDescription("Config store operation duration in seconds"),
	)
	if err != nil {
		return nil, err
	}

	m.LookupHits, err = meter.Int64Counter(
		"settings_lookup_hits_total",
		metric.WithDescription("Total number of lookups that found a value"),
	)
	if err != nil {
		return nil, err
	}

	m.LookupMisses, err = meter.Int64Counter(
		"settings_lookup_misses_total",
		metric.WithDescription("Total number of lookups that fell back to the default"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordOperation(ctx context.Context, backend, op string, duration time.Duration, err error) {
	labels := metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("op", op),
	)

	m.Operations.Add(ctx, 1, labels)
	m.OperationDuration.Record(ctx, duration.Seconds(), labels)
	if err != nil {
		m.OperationErrors.Add(ctx, 1, labels)
	}
}

func (m *Metrics) RecordLookup(ctx context.Context, backend string, hit bool) {
	labels := metric.WithAttributes(attribute.String("backend", backend))
	if hit {
		m.LookupHits.Add(ctx, 1, labels)
		return
	}
	m.LookupMisses.Add(ctx, 1, labels)
}
