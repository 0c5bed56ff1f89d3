package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "cvtransform/internal/errors"
	"cvtransform/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadTable reads a wide-format file. A CSV file yields one input named after
// the file. A workbook yields one input per non-empty sheet, named
// "<file name without extension> - <sheet>.xlsx". Open and read failures are
// returned as a FileAccessError; a sheet whose rows do not fit the wide layout
// is returned as an input carrying a StructuralError.
func LoadTable(path string) ([]Input, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return loadWorkbook(path)
	default:
		table, err := loadCSV(path)
		if apperrors.IsType(err, apperrors.ErrTypeFileAccess) {
			return nil, err
		}
		return []Input{{Name: filepath.Base(path), Table: table, Err: err}}, nil
	}
}

func loadCSV(path string) (*domain.RawTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewFileAccessError(fmt.Sprintf("cannot read %s", filepath.Base(path)), err)
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, apperrors.NewStructuralError(fmt.Sprintf("malformed CSV: %v", err))
	}

	return TableFromRows(records, false)
}

func loadWorkbook(path string) ([]Input, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewFileAccessError(fmt.Sprintf("cannot open workbook %s", filepath.Base(path)), err)
	}
	defer f.Close()

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var inputs []Input
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, apperrors.NewFileAccessError(fmt.Sprintf("cannot read sheet %q of %s", sheet, filepath.Base(path)), err)
		}
		if blankRows(rows) {
			continue
		}
		// rows are trimmed of trailing empty cells, pad them back to the header
		table, err := TableFromRows(rows, true)
		inputs = append(inputs, Input{
			Name:  fmt.Sprintf("%s - %s.xlsx", base, sheet),
			Table: table,
			Err:   err,
		})
	}

	if len(inputs) == 0 {
		return nil, apperrors.NewStructuralError(fmt.Sprintf("workbook %s has no data", filepath.Base(path)))
	}
	return inputs, nil
}

// TableFromRows builds a RawTable from grid rows: the first non-blank row
// holds the day headers after an ignored label cell, every following row is
// a metric label and its values. Blank rows and trailing blank columns are
// dropped. Short rows are padded with blanks when pad is set and rejected otherwise.
func TableFromRows(rows [][]string, pad bool) (*domain.RawTable, error) {
	type line struct {
		number int
		cells  []string
	}
	var lines []line
	for i, row := range rows {
		if !blankCells(row) {
			lines = append(lines, line{number: i + 1, cells: row})
		}
	}
	if len(lines) == 0 {
		return nil, apperrors.NewStructuralError("table is empty")
	}

	var headers []string
	if header := lines[0].cells; len(header) > 1 {
		headers = header[1:]
	}
	for len(headers) > 0 && strings.TrimSpace(headers[len(headers)-1]) == "" {
		headers = headers[:len(headers)-1]
	}

	table := &domain.RawTable{DayHeaders: make([]string, len(headers))}
	for i, h := range headers {
		table.DayHeaders[i] = strings.TrimSpace(h)
	}

	for _, l := range lines[1:] {
		values := l.cells[1:]
		switch {
		case len(values) > len(headers):
			if !blankCells(values[len(headers):]) {
				return nil, apperrors.NewStructuralError(fmt.Sprintf("line %d has %d values beyond the %d day columns",
					l.number, len(values)-len(headers), len(headers)))
			}
			values = values[:len(headers)]
		case len(values) < len(headers):
			if !pad {
				return nil, apperrors.NewStructuralError(fmt.Sprintf("line %d has %d values, expected %d",
					l.number, len(values), len(headers)))
			}
			values = append(append([]string(nil), values...), make([]string, len(headers)-len(values))...)
		}
		table.Rows = append(table.Rows, domain.MetricRow{
			Name:   strings.TrimSpace(l.cells[0]),
			Values: values,
			Line:   l.number,
		})
	}

	return table, nil
}

func blankCells(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func blankRows(rows [][]string) bool {
	for _, row := range rows {
		if !blankCells(row) {
			return false
		}
	}
	return true
}
