package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes row-level pipeline instruments exported over OTLP.
type Metrics struct {
	dimensionRows metric.Int64Counter
	factRows      metric.Int64Counter
	factSkips     metric.Int64Counter
	stagedRows    metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the pipeline metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "salesdw"
	}
	meter := provider.Meter(name)

	dimensionRows, err := meter.Int64Counter("salesdw_dimension_rows_total")
	if err != nil {
		return nil, err
	}
	factRows, err := meter.Int64Counter("salesdw_fact_rows_total")
	if err != nil {
		return nil, err
	}
	factSkips, err := meter.Int64Counter("salesdw_fact_skips_total")
	if err != nil {
		return nil, err
	}
	stagedRows, err := meter.Int64Counter("salesdw_staged_rows_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		dimensionRows: dimensionRows,
		factRows:      factRows,
		factSkips:     factSkips,
		stagedRows:    stagedRows,
	}, nil
}

// RecordDimensionRows adds merge outcome counts (inserted, updated, unchanged) for a dimension.
func (m *Metrics) RecordDimensionRows(ctx context.Context, dimension, outcome string, count int) {
	if m == nil || count <= 0 {
		return
	}
	attrs := FilterAttributes(
		attribute.String("dimension", strings.TrimSpace(dimension)),
		attribute.String("outcome", strings.TrimSpace(outcome)),
	)
	m.dimensionRows.Add(ctx, int64(count), metric.WithAttributes(attrs...))
}

// RecordFactRows adds the number of fact rows loaded.
func (m *Metrics) RecordFactRows(ctx context.Context, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.factRows.Add(ctx, int64(count))
}

// RecordFactSkips adds skipped detail rows for one skip reason.
func (m *Metrics) RecordFactSkips(ctx context.Context, reason string, count int) {
	if m == nil || count <= 0 {
		return
	}
	attrs := FilterAttributes(attribute.String("reason", strings.TrimSpace(reason)))
	m.factSkips.Add(ctx, int64(count), metric.WithAttributes(attrs...))
}

// RecordStagedRows adds extracted rows written to staging for an entity.
func (m *Metrics) RecordStagedRows(ctx context.Context, entity string, count int) {
	if m == nil || count <= 0 {
		return
	}
	attrs := FilterAttributes(attribute.String("entity", strings.TrimSpace(entity)))
	m.stagedRows.Add(ctx, int64(count), metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"dimension": {},
	"outcome":   {},
	"reason":    {},
	"entity":    {},
	"phase":     {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
