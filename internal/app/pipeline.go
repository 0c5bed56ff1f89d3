package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"cvtransform/internal/config"
	"cvtransform/internal/dataprocessing"
	apperrors "cvtransform/internal/errors"
	"cvtransform/internal/exporter"
	"cvtransform/internal/files"
	"cvtransform/internal/infrastructure"
	"cvtransform/internal/sheets"
	"cvtransform/internal/storage"
	"cvtransform/internal/validation"
	"cvtransform/pkg/contracts/domain"
)

// InputSource supplies wide-format inputs that do not come from the input directory
type InputSource interface {
	Load(ctx context.Context) ([]dataprocessing.Input, error)
}

// Uploader publishes a written file and returns its remote location
type Uploader interface {
	Upload(ctx context.Context, localPath string, metadata map[string]string) (string, error)
}

// RunResult is what a run produced. OutputPath and ManifestPath are empty
// when the corresponding file was not written. Warnings lists manifest and
// upload failures, which do not fail a run whose output was written.
type RunResult struct {
	RunID        string
	Batch        *domain.BatchResult
	OutputPath   string
	ManifestPath string
	Uploaded     []string
	Warnings     []string
}

// Pipeline runs one batch: discover inputs, transform them, write the
// long-format table and its manifest, then optionally upload both.
type Pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *infrastructure.RunMetrics
	validator *validation.FileValidator
	sources   []InputSource
	uploader  Uploader
	now       func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithTelemetry records spans and metrics on the given providers
func WithTelemetry(providers *infrastructure.TelemetryProviders) Option {
	return func(p *Pipeline) {
		if providers == nil {
			return
		}
		p.tracer = providers.Tracer
		p.metrics = providers.Metrics
	}
}

// WithInputSource adds inputs read after the input directory
func WithInputSource(source InputSource) Option {
	return func(p *Pipeline) {
		p.sources = append(p.sources, source)
	}
}

// WithUploader uploads the output and manifest after they are written
func WithUploader(uploader Uploader) Option {
	return func(p *Pipeline) {
		p.uploader = uploader
	}
}

// WithClock replaces time.Now for manifest timestamps
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// NewPipeline creates a pipeline for cfg
func NewPipeline(cfg *config.Config, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	p := &Pipeline{
		cfg:       cfg,
		logger:    logger,
		tracer:    tracenoop.NewTracerProvider().Tracer(infrastructure.MeterName),
		validator: validation.NewFileValidator(logger),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// New creates a pipeline with the optional spreadsheet source and S3 upload
// enabled by cfg.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, providers *infrastructure.TelemetryProviders) (*Pipeline, error) {
	opts := []Option{WithTelemetry(providers)}

	if cfg.Sheets.Enabled() {
		source, err := sheets.NewSource(ctx, cfg.Sheets, logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithInputSource(source))
	}

	if cfg.Upload.Enabled() {
		uploader, err := storage.NewS3Uploader(cfg.Upload, logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithUploader(uploader))
	}

	return NewPipeline(cfg, logger, opts...), nil
}

// Run executes one batch. A batch in which no input could be transformed
// returns a NoDataError together with the result; no output is written then,
// but the manifest still records every skipped input.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	runID := infrastructure.GetTraceID(ctx)
	started := p.now()

	ctx, span := p.tracer.Start(ctx, "transform_run", trace.WithAttributes(attribute.String("run.id", runID)))
	defer span.End()

	result, err := p.run(ctx, runID, started)
	if err != nil {
		infrastructure.RecordError(span, err)
	}
	if result != nil && result.Batch != nil {
		span.SetAttributes(
			attribute.Int("run.processed", len(result.Batch.Processed())),
			attribute.Int("run.skipped", len(result.Batch.Skipped())),
			attribute.Int("run.records", result.Batch.Table.Len()))
	}
	return result, err
}

func (p *Pipeline) run(ctx context.Context, runID string, started time.Time) (*RunResult, error) {
	paths, err := config.GetPaths(p.cfg)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to resolve paths", err)
	}
	paths.LogPathResolution(p.logger)

	p.logger.InfoContext(ctx, "Run started",
		slog.String("input_dir", paths.InputDir),
		slog.String("output_path", paths.OutputPath))

	if err := p.validator.ValidateInputDirectory(paths.InputDir); err != nil {
		return nil, err
	}
	found, err := files.NewDiscovery(paths.WorkingDir).FindInputFiles(paths.InputDir, p.cfg.Input.Include, p.cfg.Input.Exclude)
	if err != nil {
		return nil, err
	}

	manifest := exporter.NewManifest(runID, started)
	inputs := p.loadFiles(ctx, found, manifest)
	inputs = append(inputs, p.loadSources(ctx)...)

	transformer := dataprocessing.NewTransformer(p.logger,
		dataprocessing.WithPlaceholderColumns(p.cfg.Transform.Placeholders...),
		dataprocessing.WithMetricAliases(p.cfg.Transform.Aliases),
		dataprocessing.WithOutcomeObserver(p.observe(ctx)))

	batch, batchErr := transformer.TransformAll(inputs)
	result := &RunResult{RunID: runID, Batch: batch}

	if batchErr == nil {
		if err := p.writeOutput(ctx, paths, batch); err != nil {
			return result, err
		}
		result.OutputPath = paths.OutputPath
	}

	if paths.ManifestPath != "" {
		if err := p.writeManifest(manifest, paths.ManifestPath, result); err != nil {
			p.warn(ctx, result, "Manifest not written", err)
		} else {
			result.ManifestPath = paths.ManifestPath
		}
	}

	if batchErr != nil {
		p.logger.ErrorContext(ctx, "Run produced no output",
			slog.Int("inputs", len(inputs)),
			slog.String("error", batchErr.Error()))
		return result, batchErr
	}

	if p.uploader != nil {
		if err := p.upload(ctx, result); err != nil {
			p.warn(ctx, result, "Upload failed, output kept locally", err)
		}
	}

	p.logger.InfoContext(ctx, "Run completed",
		slog.Int("processed", len(batch.Processed())),
		slog.Int("skipped", len(batch.Skipped())),
		slog.Int("records", batch.Table.Len()),
		slog.Int("warnings", len(result.Warnings)),
		slog.Duration("duration", p.now().Sub(started)))
	return result, nil
}

func (p *Pipeline) warn(ctx context.Context, result *RunResult, msg string, err error) {
	result.Warnings = append(result.Warnings, err.Error())
	p.logger.WarnContext(ctx, msg,
		slog.String("kind", string(apperrors.TypeOf(err))),
		slog.String("error", err.Error()))
}

// loadFiles reads every discovered file. Files that cannot be read become
// inputs carrying their error so they are reported as skipped.
func (p *Pipeline) loadFiles(ctx context.Context, found []files.FileInfo, manifest *exporter.Manifest) []dataprocessing.Input {
	var inputs []dataprocessing.Input
	for _, f := range found {
		if err := p.validator.ValidateInputFile(f.Path); err != nil {
			inputs = append(inputs, dataprocessing.Input{Name: f.Name, Err: err})
			continue
		}
		if err := manifest.AddInput(f.Path); err != nil {
			p.logger.WarnContext(ctx, "Cannot digest input",
				slog.String("file", f.Name),
				slog.String("error", err.Error()))
		}

		loaded, err := dataprocessing.LoadTable(f.Path)
		if err != nil {
			inputs = append(inputs, dataprocessing.Input{Name: f.Name, Err: err})
			continue
		}
		inputs = append(inputs, loaded...)
	}

	p.logger.DebugContext(ctx, "Input files loaded",
		slog.Int("files", len(found)),
		slog.Int("inputs", len(inputs)))
	return inputs
}

func (p *Pipeline) loadSources(ctx context.Context) []dataprocessing.Input {
	var inputs []dataprocessing.Input
	for i, source := range p.sources {
		loaded, err := source.Load(ctx)
		if err != nil {
			inputs = append(inputs, dataprocessing.Input{Name: fmt.Sprintf("source %d", i+1), Err: err})
			continue
		}
		inputs = append(inputs, loaded...)
	}
	return inputs
}

// observe records a span and metrics for each transformed input
func (p *Pipeline) observe(ctx context.Context) dataprocessing.OutcomeObserver {
	return func(outcome domain.FileOutcome, started time.Time, elapsed time.Duration) {
		_, span := p.tracer.Start(ctx, "transform_input",
			trace.WithTimestamp(started),
			trace.WithAttributes(
				attribute.String("input.name", outcome.Name),
				attribute.String("input.status", string(outcome.Status)),
				attribute.Int("input.records", outcome.Records)))
		if outcome.Status == domain.OutcomeSkipped {
			span.SetAttributes(attribute.String("input.error_kind", outcome.Kind))
			span.SetStatus(codes.Error, outcome.Reason)
		}
		span.End(trace.WithTimestamp(started.Add(elapsed)))

		p.metrics.RecordFile(ctx, outcome, elapsed)
	}
}

func (p *Pipeline) writeOutput(ctx context.Context, paths *config.Paths, batch *domain.BatchResult) error {
	if err := p.validator.ValidateOutputDirectory(filepath.Dir(paths.OutputPath)); err != nil {
		return err
	}

	manager := files.NewManager(paths, p.logger)
	if err := exporter.NewExporter(manager, p.cfg.Output.BOM, p.logger).WriteTable(paths.OutputPath, batch.Table); err != nil {
		return apperrors.NewFileAccessError("failed to write output", err)
	}
	p.metrics.RecordRecordsWritten(ctx, batch.Table.Len())
	return nil
}

func (p *Pipeline) writeManifest(manifest *exporter.Manifest, path string, result *RunResult) error {
	if err := p.validator.ValidateOutputDirectory(filepath.Dir(path)); err != nil {
		return err
	}
	if err := manifest.Complete(result.Batch, result.OutputPath, p.now()); err != nil {
		return apperrors.NewFileAccessError("failed to complete manifest", err)
	}
	if err := manifest.Write(path); err != nil {
		return apperrors.NewFileAccessError("failed to write manifest", err)
	}
	return nil
}

func (p *Pipeline) upload(ctx context.Context, result *RunResult) error {
	metadata := map[string]string{
		"run-id":       result.RunID,
		"record-count": strconv.Itoa(result.Batch.Table.Len()),
	}

	for _, path := range []string{result.OutputPath, result.ManifestPath} {
		if path == "" {
			continue
		}
		location, err := p.uploader.Upload(ctx, path, metadata)
		if err != nil {
			return err
		}
		result.Uploaded = append(result.Uploaded, location)
	}
	return nil
}
