package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"cvtransform/internal/config"
	"cvtransform/pkg/contracts"
	"cvtransform/pkg/contracts/domain"
)

const (
	MeterName = "cvtransform"
)

// TelemetryProviders holds the OpenTelemetry providers of a run. Tracer and
// Metrics are always usable; they are no-ops when the matching output is disabled.
type TelemetryProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Metrics        *RunMetrics

	registry    *promclient.Registry
	metricsFile string
	traceFile   *os.File
	logger      *slog.Logger
}

// RunMetrics contains the instruments recorded by a transformation run
type RunMetrics struct {
	FilesProcessed metric.Int64Counter
	FilesSkipped   metric.Int64Counter
	RecordsWritten metric.Int64Counter
	FileDuration   metric.Float64Histogram
}

// InitializeTelemetry sets up tracing to cfg.TracingFile and metrics to cfg.MetricsFile
func InitializeTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*TelemetryProviders, error) {
	if logger == nil {
		logger = GetLogger()
	}

	providers := &TelemetryProviders{
		Tracer: tracenoop.NewTracerProvider().Tracer(MeterName),
		logger: logger,
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(contracts.ServiceName),
		semconv.ServiceVersion(contracts.Version),
	)

	if cfg.TracingFile != "" {
		if err := providers.initializeTracing(cfg, res); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	meter := metricnoop.NewMeterProvider().Meter(MeterName)
	if cfg.MetricsFile != "" {
		m, err := providers.initializeMetrics(cfg, res)
		if err != nil {
			providers.Shutdown(context.Background())
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
		meter = m
	}

	metrics, err := CreateRunMetrics(meter)
	if err != nil {
		providers.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	providers.Metrics = metrics

	logger.Debug("Telemetry initialized",
		slog.String("tracing_file", cfg.TracingFile),
		slog.String("metrics_file", cfg.MetricsFile))

	return providers, nil
}

// initializeTracing sets up OpenTelemetry tracing with the stdout exporter writing to a file
func (p *TelemetryProviders) initializeTracing(cfg config.TelemetryConfig, res *resource.Resource) error {
	if err := os.MkdirAll(filepath.Dir(cfg.TracingFile), config.DirPermissions); err != nil {
		return err
	}
	file, err := os.OpenFile(cfg.TracingFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, config.FilePermissions)
	if err != nil {
		return err
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(file))
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)

	p.traceFile = file
	p.TracerProvider = tp
	p.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(contracts.Version))
	otel.SetTracerProvider(tp)

	return nil
}

// initializeMetrics sets up an OpenTelemetry meter backed by a private Prometheus registry
func (p *TelemetryProviders) initializeMetrics(cfg config.TelemetryConfig, res *resource.Resource) (metric.Meter, error) {
	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	p.registry = registry
	p.metricsFile = cfg.MetricsFile
	p.MeterProvider = mp

	return mp.Meter(MeterName, metric.WithInstrumentationVersion(contracts.Version)), nil
}

// CreateRunMetrics creates the run instruments on the given meter
func CreateRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	processed, err := meter.Int64Counter("cvt_files_processed",
		metric.WithDescription("Input files transformed into long-format records"))
	if err != nil {
		return nil, err
	}

	skipped, err := meter.Int64Counter("cvt_files_skipped",
		metric.WithDescription("Input files excluded from the output, by reason"))
	if err != nil {
		return nil, err
	}

	records, err := meter.Int64Counter("cvt_records_written",
		metric.WithDescription("Long-format records written to the output"))
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram("cvt_file_transform_duration",
		metric.WithDescription("Time spent transforming one input"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		FilesProcessed: processed,
		FilesSkipped:   skipped,
		RecordsWritten: records,
		FileDuration:   duration,
	}, nil
}

// RecordFile records the outcome of one input
func (m *RunMetrics) RecordFile(ctx context.Context, outcome domain.FileOutcome, duration time.Duration) {
	if m == nil {
		return
	}
	status := attribute.String("status", string(outcome.Status))
	m.FileDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(status))

	if outcome.Status == domain.OutcomeSkipped {
		m.FilesSkipped.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", outcome.Kind)))
		return
	}
	m.FilesProcessed.Add(ctx, 1)
}

// RecordRecordsWritten records the size of the written output
func (m *RunMetrics) RecordRecordsWritten(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.RecordsWritten.Add(ctx, int64(n))
}

// Shutdown flushes spans, writes the metrics text file and releases files
func (p *TelemetryProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if p.traceFile != nil {
		if err := p.traceFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("trace file close: %w", err))
		}
		p.traceFile = nil
	}

	if p.registry != nil && p.metricsFile != "" {
		if err := os.MkdirAll(filepath.Dir(p.metricsFile), config.DirPermissions); err != nil {
			errs = append(errs, err)
		} else if err := promclient.WriteToTextfile(p.metricsFile, p.registry); err != nil {
			errs = append(errs, fmt.Errorf("metrics text file: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		p.logger.WarnContext(ctx, "Telemetry shutdown incomplete", slog.String("error", errors.Join(errs...).Error()))
	}
	return errors.Join(errs...)
}

// RecordError marks the span as failed with the given error
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
