package exporter

import (
	"fmt"
	"log/slog"

	"cvtransform/internal/config"
	"cvtransform/internal/files"
	"cvtransform/pkg/contracts/domain"
)

// TableWriter writes a long-format table to a local file
type TableWriter interface {
	WriteTable(filePath string, table *domain.OutputTable) error
}

// Exporter writes tables in the format selected by the output extension.
// Outputs are produced next to their destination and moved into place only
// once complete.
type Exporter struct {
	manager *files.Manager
	writers map[string]TableWriter
	logger  *slog.Logger
}

// NewExporter creates an exporter with the CSV, Parquet and XLSX writers
func NewExporter(manager *files.Manager, bom bool, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		manager: manager,
		writers: map[string]TableWriter{
			config.FormatCSV:     NewCSVWriter(bom, logger),
			config.FormatParquet: NewParquetWriter(logger),
			config.FormatXLSX:    NewXLSXWriter(logger),
		},
		logger: logger,
	}
}

// WriteTable writes table to filePath: .parquet and .xlsx select those
// formats, anything else is written as CSV.
func (e *Exporter) WriteTable(filePath string, table *domain.OutputTable) error {
	if table == nil || len(table.Columns) == 0 {
		return fmt.Errorf("no table to write to %s", filePath)
	}

	format := config.FormatForPath(filePath)
	w := e.writers[format]
	replaced := e.manager.FileExists(filePath)

	err := e.manager.WriteAtomic(filePath, func(tmp string) error {
		return w.WriteTable(tmp, table)
	})
	if err != nil {
		return fmt.Errorf("failed to write %s output %s: %w", format, filePath, err)
	}

	e.logger.Info("Output written",
		slog.String("path", filePath),
		slog.String("format", format),
		slog.Int("records", table.Len()),
		slog.Int("columns", len(table.Columns)),
		slog.Bool("replaced", replaced))
	return nil
}
