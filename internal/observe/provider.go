package observe

import (
	"context"
	"errors"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// DefaultExportInterval is how often a long session writes metrics.
const DefaultExportInterval = 5 * time.Minute

// ProviderConfig configures the OpenTelemetry metrics SDK provider.
type ProviderConfig struct {
	// ServiceName is reported on every export. Default: "shai-voice".
	ServiceName string

	// ServiceVersion is reported on every export.
	ServiceVersion string

	// Writer receives the exported metrics as JSON.
	Writer io.Writer

	// Interval between periodic exports. Default: DefaultExportInterval.
	Interval time.Duration
}

// InitProvider installs an SDK meter provider that writes metrics to
// cfg.Writer and registers it as the global provider. The returned shutdown
// function flushes pending metrics; call it before the process exits.
func InitProvider(ctx context.Context, cfg ProviderConfig) (*sdkmetric.MeterProvider, func(context.Context) error, error) {
	if cfg.Writer == nil {
		return nil, nil, errors.New("observe: metrics writer is required")
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "shai-voice"
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultExportInterval
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	exp, err := stdoutmetric.New(
		stdoutmetric.WithWriter(cfg.Writer),
		stdoutmetric.WithPrettyPrint(),
	)
	if err != nil {
		return nil, nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(cfg.Interval))),
	)
	otel.SetMeterProvider(mp)

	shutdown := func(ctx context.Context) error {
		return mp.Shutdown(ctx)
	}
	return mp, shutdown, nil
}
