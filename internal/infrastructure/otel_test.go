package infrastructure

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"churnlens/internal/config"
)

// fullOTelConfig returns a config with tracing and metrics enabled, for
// tests that exercise both pipelines.
func fullOTelConfig() *OTelConfig {
	return &OTelConfig{
		ServiceName:    "test-service",
		ServiceVersion: "v1.0.0",
		Environment:    "test",
		TraceExporter:  "stdout",
		MetricExporter: "prometheus",
		EnableMetrics:  true,
		EnableTracing:  true,
		SampleRatio:    1.0,
	}
}

// TestOTelInitialization tests OpenTelemetry initialization with defaults
func TestOTelInitialization(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	providers, err := InitializeOTel(nil, logger)
	require.NoError(t, err)
	require.NotNil(t, providers)

	// Tracing is off by default
	assert.Nil(t, providers.TracerProvider)

	// Metrics are on by default
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = providers.Shutdown(ctx)
	assert.NoError(t, err)
}

// TestNewOTelConfig tests deriving OTel settings from app configuration
func TestNewOTelConfig(t *testing.T) {
	cfg := NewOTelConfig(config.ObservabilityConfig{
		ServiceName:      "churnlens-test",
		MetricsEnabled:   true,
		TracingEnabled:   true,
		TraceSampleRatio: 0.25,
	})

	assert.Equal(t, "churnlens-test", cfg.ServiceName)
	assert.True(t, cfg.EnableMetrics)
	assert.True(t, cfg.EnableTracing)
	assert.Equal(t, 0.25, cfg.SampleRatio)
	assert.Equal(t, "prometheus", cfg.MetricExporter)
	assert.Equal(t, "stdout", cfg.TraceExporter)

	disabled := NewOTelConfig(config.ObservabilityConfig{
		MetricsEnabled: false,
		TracingEnabled: false,
	})
	assert.Equal(t, "none", disabled.MetricExporter)
	assert.Equal(t, "none", disabled.TraceExporter)
	assert.Equal(t, ServiceName, disabled.ServiceName)
}

// TestTraceCorrelation tests trace ID correlation
func TestTraceCorrelation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	providers, err := InitializeOTel(fullOTelConfig(), logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx := context.Background()

	tracer := otel.Tracer("test")
	ctx, span := tracer.Start(ctx, "test-operation")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.NotEmpty(t, traceID)

	expectedTraceID := span.SpanContext().TraceID().String()
	assert.Equal(t, expectedTraceID, traceID)

	ctx = WithTraceID(ctx, traceID)
	retrievedTraceID := GetTraceID(ctx)
	assert.Equal(t, traceID, retrievedTraceID)
}

// TestBusinessMetrics tests business metrics creation
func TestBusinessMetrics(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	providers, err := InitializeOTel(fullOTelConfig(), logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	require.NotNil(t, metrics)

	// HTTP metrics
	assert.NotNil(t, metrics.HTTPRequestsTotal)
	assert.NotNil(t, metrics.HTTPRequestDuration)
	assert.NotNil(t, metrics.HTTPActiveRequests)

	// Dataset metrics
	assert.NotNil(t, metrics.DatasetRowsLoaded)
	assert.NotNil(t, metrics.DatasetRowsDropped)
	assert.NotNil(t, metrics.DatasetLoadDuration)

	// Analytics metrics
	assert.NotNil(t, metrics.AnalyticsQueriesTotal)
	assert.NotNil(t, metrics.AnalyticsQueryDuration)
	assert.NotNil(t, metrics.AnalyticsResultRows)

	// Export metrics
	assert.NotNil(t, metrics.ExportsTotal)
	assert.NotNil(t, metrics.ExportDuration)
	assert.NotNil(t, metrics.ExportBytes)

	// System metrics
	assert.NotNil(t, metrics.SystemErrors)
}

// TestRecordHelpers tests the metric recording helpers
func TestRecordHelpers(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	providers, err := InitializeOTel(fullOTelConfig(), logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()

	RecordDatasetLoad(ctx, metrics, "customers.csv", 975, 25, 120*time.Millisecond)
	RecordAnalyticsQuery(ctx, metrics, "overview", 975, 3*time.Millisecond, nil)
	RecordAnalyticsQuery(ctx, metrics, "segments", 0, time.Millisecond, assert.AnError)
	RecordExport(ctx, metrics, "csv", 4096, 15*time.Millisecond, nil)
	RecordExport(ctx, metrics, "xlsx", 0, time.Millisecond, assert.AnError)

	// Nil metrics must be a no-op, not a panic
	RecordDatasetLoad(ctx, nil, "customers.csv", 1, 0, time.Millisecond)
	RecordAnalyticsQuery(ctx, nil, "overview", 1, time.Millisecond, nil)
	RecordExport(ctx, nil, "csv", 1, time.Millisecond, nil)
}

// TestSpanOperations tests span operations and attributes
func TestSpanOperations(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	providers, err := InitializeOTel(fullOTelConfig(), logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx := context.Background()
	tracer := otel.Tracer("test")
	ctx, span := tracer.Start(ctx, "test-span")
	defer span.End()

	attributes := map[string]interface{}{
		"string_attr": "test_value",
		"int_attr":    42,
		"float_attr":  3.14,
		"bool_attr":   true,
	}

	SetSpanAttributes(ctx, attributes)

	AddSpanEvent(ctx, "test.event", map[string]interface{}{
		"event_data": "test_event_value",
		"timestamp":  time.Now().Unix(),
	})

	RecordError(ctx, assert.AnError)

	assert.True(t, span.IsRecording())
}

// TestPrometheusEndpoint tests the Prometheus metrics endpoint
func TestPrometheusEndpoint(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	providers, err := InitializeOTel(fullOTelConfig(), logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	server := httptest.NewServer(providers.PrometheusHTTP)
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
}

// TestOTelConfiguration tests different configuration options
func TestOTelConfiguration(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	tests := []struct {
		name   string
		config *OTelConfig
	}{
		{
			name:   "development_config",
			config: fullOTelConfig(),
		},
		{
			name: "disabled_tracing",
			config: &OTelConfig{
				ServiceName:    "test-service",
				ServiceVersion: "v1.0.0",
				Environment:    "test",
				TraceExporter:  "none",
				MetricExporter: "prometheus",
				EnableMetrics:  true,
				EnableTracing:  false,
				SampleRatio:    0.0,
			},
		},
		{
			name: "disabled_metrics",
			config: &OTelConfig{
				ServiceName:    "test-service",
				ServiceVersion: "v1.0.0",
				Environment:    "test",
				TraceExporter:  "stdout",
				MetricExporter: "none",
				EnableMetrics:  false,
				EnableTracing:  true,
				SampleRatio:    1.0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers, err := InitializeOTel(tt.config, logger)
			require.NoError(t, err)
			require.NotNil(t, providers)

			if tt.config.EnableTracing && tt.config.TraceExporter != "none" {
				assert.NotNil(t, providers.TracerProvider)
				assert.NotNil(t, providers.Tracer)
			}

			if tt.config.EnableMetrics && tt.config.MetricExporter != "none" {
				assert.NotNil(t, providers.MeterProvider)
				assert.NotNil(t, providers.Meter)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			err = providers.Shutdown(ctx)
			assert.NoError(t, err)
		})
	}
}

// TestTracePropagation tests trace propagation across contexts
func TestTracePropagation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	providers, err := InitializeOTel(fullOTelConfig(), logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	tracer := otel.Tracer("propagation-test")

	ctx := context.Background()
	ctx, parentSpan := tracer.Start(ctx, "parent-operation")
	defer parentSpan.End()

	ctx, childSpan := tracer.Start(ctx, "child-operation")
	defer childSpan.End()

	assert.Equal(t, parentSpan.SpanContext().TraceID(), childSpan.SpanContext().TraceID())
	assert.NotEqual(t, parentSpan.SpanContext().SpanID(), childSpan.SpanContext().SpanID())
}

// TestSystemMetricsCollector tests runtime stats collection
func TestSystemMetricsCollector(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	providers, err := InitializeOTel(fullOTelConfig(), logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	collector, err := NewSystemMetricsCollector(providers.Meter)
	require.NoError(t, err)

	stats := collector.GetCurrentStats(context.Background())
	require.NotNil(t, stats)
	assert.Greater(t, stats.GoRoutines, int64(0))
	assert.Greater(t, stats.MemoryUsage, int64(0))
	assert.Greater(t, stats.CPUCount, 0)

	formatted := stats.FormatStats()
	require.Contains(t, formatted, "runtime")
	require.Contains(t, formatted, "system")
	require.Contains(t, formatted, "timestamp")
}

// BenchmarkMetricOperations benchmarks metric operations
func BenchmarkMetricOperations(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	providers, err := InitializeOTel(fullOTelConfig(), logger)
	require.NoError(b, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(b, err)

	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	b.Run("counter_increment", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			metrics.HTTPRequestsTotal.Add(ctx, 1)
		}
	})

	b.Run("histogram_record", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			metrics.HTTPRequestDuration.Record(ctx, float64(i)*0.001)
		}
	})

	b.Run("updown_counter", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if i%2 == 0 {
				metrics.HTTPActiveRequests.Add(ctx, 1)
			} else {
				metrics.HTTPActiveRequests.Add(ctx, -1)
			}
		}
	})
}
