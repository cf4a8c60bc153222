// Package observe holds the OpenTelemetry metric instruments for shai-voice.
//
// Instruments are created from whatever [metric.MeterProvider] is installed.
// [InitProvider] installs an SDK provider that exports to a writer when
// metrics are enabled; otherwise the global provider is a no-op.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/doeshing/shai-voice/internal/domain"
)

const meterName = "github.com/doeshing/shai-voice"

// Metrics holds every instrument used by the interaction pipeline.
type Metrics struct {
	// AssistantDuration tracks wall-clock time of assistant invocations.
	AssistantDuration metric.Float64Histogram

	// AssistantExecutions counts invocations by attribute "status".
	AssistantExecutions metric.Int64Counter

	// SpeechDuration tracks playback time, including interrupted playback.
	SpeechDuration metric.Float64Histogram

	// Responses counts rendered responses by "category" and "summarized".
	Responses metric.Int64Counter
}

var latencyBuckets = []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300}

// NewMetrics creates all instruments from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.AssistantDuration, err = m.Float64Histogram("shai_voice.assistant.duration",
		metric.WithDescription("Latency of assistant CLI invocations."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.AssistantExecutions, err = m.Int64Counter("shai_voice.assistant.executions",
		metric.WithDescription("Assistant invocations by outcome status."),
	); err != nil {
		return nil, err
	}
	if met.SpeechDuration, err = m.Float64Histogram("shai_voice.speech.duration",
		metric.WithDescription("Time spent speaking responses."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Responses, err = m.Int64Counter("shai_voice.responses",
		metric.WithDescription("Rendered responses by category."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns instruments bound to the global meter provider.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordExecution records one assistant invocation.
func (m *Metrics) RecordExecution(ctx context.Context, result domain.ExecutionResult) {
	status := attribute.String("status", string(result.Status))
	m.AssistantExecutions.Add(ctx, 1, metric.WithAttributes(status))
	m.AssistantDuration.Record(ctx, result.Duration().Seconds(), metric.WithAttributes(status))
}

// RecordSpeech records playback time.
func (m *Metrics) RecordSpeech(ctx context.Context, elapsed time.Duration, interrupted bool) {
	m.SpeechDuration.Record(ctx, elapsed.Seconds(),
		metric.WithAttributes(attribute.Bool("interrupted", interrupted)))
}

// RecordResponse records the category assigned to a spoken response.
func (m *Metrics) RecordResponse(ctx context.Context, category domain.ResponseCategory, summarized bool) {
	m.Responses.Add(ctx, 1, metric.WithAttributes(
		attribute.String("category", string(category)),
		attribute.Bool("summarized", summarized),
	))
}
