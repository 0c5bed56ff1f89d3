package exporter

import (
	"fmt"
	"log/slog"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"cvtransform/pkg/contracts/domain"
)

// parquetParallelism is the number of goroutines the parquet writer marshals with
const parquetParallelism = 4

// ParquetWriter writes long-format tables as SNAPPY-compressed Parquet.
// report_day is a required string column. A metric column is an optional
// DOUBLE when every non-null value is numeric and an optional string otherwise.
type ParquetWriter struct {
	logger *slog.Logger
}

// NewParquetWriter creates a new Parquet writer instance
func NewParquetWriter(logger *slog.Logger) *ParquetWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParquetWriter{logger: logger}
}

// WriteTable writes the table to filePath, replacing any existing file
func (w *ParquetWriter) WriteTable(filePath string, table *domain.OutputTable) error {
	numeric := numericColumns(table)
	schema := parquetSchema(table.Columns, numeric)

	w.logger.Info("Writing Parquet file",
		slog.String("file_path", filePath),
		slog.Int("record_count", table.Len()),
		slog.Int("column_count", len(table.Columns)))

	fw, err := local.NewLocalFileWriter(filePath)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer fw.Close()

	pw, err := writer.NewCSVWriter(schema, fw, parquetParallelism)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i, rec := range table.Records {
		if err := pw.WriteString(parquetRow(rec, table.Columns)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("error in WriteStop: %w", err)
	}
	return fw.Close()
}

// numericColumns reports, per column index, whether every non-null value is a number
func numericColumns(table *domain.OutputTable) []bool {
	numeric := make([]bool, len(table.Columns))
	for i, col := range table.Columns {
		if i == 0 {
			continue
		}
		numeric[i] = true
		for _, rec := range table.Records {
			if v := rec.Get(col); v.Kind == domain.ValueText {
				numeric[i] = false
				break
			}
		}
	}
	return numeric
}

func parquetSchema(columns []string, numeric []bool) []string {
	schema := make([]string, len(columns))
	for i, col := range columns {
		switch {
		case i == 0:
			schema[i] = fmt.Sprintf("name=%s, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=REQUIRED", col)
		case numeric[i]:
			schema[i] = fmt.Sprintf("name=%s, type=DOUBLE, repetitiontype=OPTIONAL", col)
		default:
			schema[i] = fmt.Sprintf("name=%s, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL", col)
		}
	}
	return schema
}

func parquetRow(rec domain.LongRecord, columns []string) []*string {
	row := make([]*string, len(columns))
	day := rec.ReportDay.Format(domain.ReportDayLayout)
	row[0] = &day
	for i, col := range columns[1:] {
		if v := rec.Get(col); !v.IsNull() {
			s := v.String()
			row[i+1] = &s
		}
	}
	return row
}
