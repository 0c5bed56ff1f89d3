package exporter

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"cvtransform/pkg/contracts/domain"
)

// XLSXSheet is the name of the single sheet of workbook outputs
const XLSXSheet = "long"

// XLSXWriter writes long-format tables as a single-sheet workbook.
// Numbers become numeric cells and nulls stay empty.
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a new workbook writer instance
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger}
}

// WriteTable writes the table to filePath, replacing any existing file
func (w *XLSXWriter) WriteTable(filePath string, table *domain.OutputTable) error {
	w.logger.Info("Writing XLSX file",
		slog.String("file_path", filePath),
		slog.Int("record_count", table.Len()))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), XLSXSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(XLSXSheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	header := make([]interface{}, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, rec := range table.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, xlsxRow(rec, table.Columns)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	return f.SaveAs(filePath)
}

func xlsxRow(rec domain.LongRecord, columns []string) []interface{} {
	row := make([]interface{}, len(columns))
	row[0] = rec.ReportDay.Format(domain.ReportDayLayout)
	for i, col := range columns[1:] {
		switch v := rec.Get(col); v.Kind {
		case domain.ValueNumber:
			row[i+1] = v.Number.InexactFloat64()
		case domain.ValueText:
			row[i+1] = v.Text
		}
	}
	return row
}
