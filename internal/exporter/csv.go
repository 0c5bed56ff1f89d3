package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"cvtransform/internal/config"
	"cvtransform/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	bom    bool
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance. With bom set every file
// starts with a UTF-8 byte order mark so Excel recognizes the encoding.
func NewCSVWriter(bom bool, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{bom: bom, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteTable writes the header row followed by one row per record.
// Null values are written as empty fields.
func (w *CSVWriter) WriteTable(filePath string, table *domain.OutputTable) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   table.Columns,
		Records:   table.Rows(),
		BOMPrefix: w.bom,
	})
}

// WriteCSV writes data to a CSV file with the given options, replacing any existing file
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, config.FilePermissions)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return file.Close()
}
