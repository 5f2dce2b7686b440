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

// Metrics exposes review workflow instruments.
type Metrics struct {
	evaluations   metric.Int64Counter
	bulkItems     metric.Int64Counter
	exportRows    metric.Int64Counter
	accessDenials metric.Int64Counter
	rateLimited   metric.Int64Counter
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

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(15*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
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

// New creates the domain instruments on the given provider.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "ideabox"
	}
	meter := provider.Meter(name)

	evaluations, err := meter.Int64Counter("ideabox_evaluations_total",
		metric.WithDescription("Evaluation records appended, by decision."))
	if err != nil {
		return nil, err
	}
	bulkItems, err := meter.Int64Counter("ideabox_bulk_items_total",
		metric.WithDescription("Ideas affected by bulk operations."))
	if err != nil {
		return nil, err
	}
	exportRows, err := meter.Int64Counter("ideabox_export_rows_total",
		metric.WithDescription("Rows written to CSV exports."))
	if err != nil {
		return nil, err
	}
	accessDenials, err := meter.Int64Counter("ideabox_access_denied_total",
		metric.WithDescription("Requests rejected by the role gate."))
	if err != nil {
		return nil, err
	}

	rateLimited, err := meter.Int64Counter("ideabox_rate_limited_total",
		metric.WithDescription("Bulk and export requests rejected by the rate limiter."))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		evaluations:   evaluations,
		bulkItems:     bulkItems,
		exportRows:    exportRows,
		accessDenials: accessDenials,
		rateLimited:   rateLimited,
	}, nil
}

// RecordEvaluation counts one appended evaluation record.
func (m *Metrics) RecordEvaluation(ctx context.Context, decision string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("decision", strings.TrimSpace(decision)))
	m.evaluations.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordBulk counts the rows affected by one bulk operation.
func (m *Metrics) RecordBulk(ctx context.Context, operation string, affected int64) {
	if m == nil || affected <= 0 {
		return
	}
	attrs := FilterAttributes(attribute.String("operation", strings.TrimSpace(operation)))
	m.bulkItems.Add(ctx, affected, metric.WithAttributes(attrs...))
}

// RecordExport counts rows rendered by an export.
func (m *Metrics) RecordExport(ctx context.Context, mode string, rows int) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("mode", strings.TrimSpace(mode)))
	m.exportRows.Add(ctx, int64(rows), metric.WithAttributes(attrs...))
}

// RecordAccessDenied counts a gate denial.
func (m *Metrics) RecordAccessDenied(ctx context.Context, role, endpoint string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("role", strings.TrimSpace(role)),
		attribute.String("endpoint", strings.TrimSpace(endpoint)),
	)
	m.accessDenials.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordRateLimited(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("endpoint", strings.TrimSpace(endpoint)))
	m.rateLimited.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithInsecure()}
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

// Idea ids, subject ids and emails never become labels.
var allowedLabelKeys = map[attribute.Key]struct{}{
	"decision":  {},
	"operation": {},
	"mode":      {},
	"role":      {},
	"endpoint":  {},
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
