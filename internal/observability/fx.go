package observability

import (
	"github.com/smallbiznis/ideabox/internal/observability/logger"
	"github.com/smallbiznis/ideabox/internal/observability/metrics"
	"github.com/smallbiznis/ideabox/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		Config.logger,
		Config.tracing,
		Config.metrics,
		logger.New,
		tracing.NewProvider,
		metrics.NewProvider,
		metrics.New,
		metrics.NewHTTPMetrics,
	),
	// The tracer provider is otherwise unreferenced and would never be built.
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)
