package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// ReportDayColumn is the first column of every long-format table
	ReportDayColumn = "report_day"

	// ReportDayLayout is the ISO date layout used for report_day values
	ReportDayLayout = "2006-01-02"
)

// MetricRow is one marketing metric with one value per day column.
type MetricRow struct {
	Name   string   `json:"name" validate:"required"`
	Values []string `json:"values"`
	Line   int      `json:"line"` // 1-based line (or sheet row) in the source
}

// RawTable is a parsed wide-format input: metric rows by day columns.
// Every row is expected to carry exactly len(DayHeaders) values.
type RawTable struct {
	DayHeaders []string    `json:"day_headers" validate:"required,min=1"`
	Rows       []MetricRow `json:"rows" validate:"required,min=1,dive"`
}

// PeriodContext is the (month, year) pair governing date construction for a single input.
type PeriodContext struct {
	Month time.Month `json:"month" validate:"min=1,max=12"`
	Year  int        `json:"year" validate:"min=1"`
}

// DaysInMonth returns the number of days in the period's month, leap years included.
func (p PeriodContext) DaysInMonth() int {
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Date returns the calendar date for the given day of the period's month.
func (p PeriodContext) Date(day int) time.Time {
	return time.Date(p.Year, p.Month, day, 0, 0, 0, 0, time.UTC)
}

func (p PeriodContext) String() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}

// ValueKind classifies a metric cell
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueNumber
	ValueText
)

// Value is a single metric cell. Blank cells are null, numeric cells keep
// their exact decimal representation, anything else passes through as text.
type Value struct {
	Kind   ValueKind
	Number decimal.Decimal
	Text   string
}

// NullValue is the value of every placeholder column
var NullValue = Value{Kind: ValueNull}

var groupedNumberRe = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// ParseValue classifies a raw cell.
func ParseValue(cell string) Value {
	s := strings.TrimSpace(cell)
	if s == "" {
		return NullValue
	}

	candidate := s
	if groupedNumberRe.MatchString(s) {
		candidate = strings.ReplaceAll(s, ",", "")
	}
	if d, err := decimal.NewFromString(candidate); err == nil {
		return Value{Kind: ValueNumber, Number: d}
	}

	return Value{Kind: ValueText, Text: s}
}

// IsNull reports whether the cell was blank
func (v Value) IsNull() bool {
	return v.Kind == ValueNull
}

// String renders the value for text outputs. Null renders as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return v.Number.String()
	case ValueText:
		return v.Text
	default:
		return ""
	}
}

// LongRecord is one output row: a single day of a single input with every metric for that day.
type LongRecord struct {
	ReportDay time.Time        `json:"report_day"`
	Source    string           `json:"source"`
	Metrics   map[string]Value `json:"metrics"`
}

// Get returns the value of a column, null when the record does not carry it.
func (r LongRecord) Get(column string) Value {
	if v, ok := r.Metrics[column]; ok {
		return v
	}
	return NullValue
}

// OutputTable is a long-format table. Columns always starts with report_day.
type OutputTable struct {
	Columns []string     `json:"columns"`
	Records []LongRecord `json:"records"`
}

// NewOutputTable creates an empty table with only the report_day column
func NewOutputTable() *OutputTable {
	return &OutputTable{Columns: []string{ReportDayColumn}}
}

// Len returns the number of records
func (t *OutputTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// MetricColumns returns every column except report_day
func (t *OutputTable) MetricColumns() []string {
	if t == nil || len(t.Columns) == 0 {
		return nil
	}
	return t.Columns[1:]
}

// HasColumn reports whether the table already carries a column
func (t *OutputTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Append adds a fragment's records, extending the column set with any
// column the table has not seen yet (first-seen order).
func (t *OutputTable) Append(fragment *OutputTable) {
	if fragment == nil {
		return
	}
	for _, c := range fragment.Columns {
		if !t.HasColumn(c) {
			t.Columns = append(t.Columns, c)
		}
	}
	t.Records = append(t.Records, fragment.Records...)
}

// Rows renders the records as string rows aligned with Columns.
func (t *OutputTable) Rows() [][]string {
	rows := make([][]string, 0, t.Len())
	for _, rec := range t.Records {
		row := make([]string, len(t.Columns))
		row[0] = rec.ReportDay.Format(ReportDayLayout)
		for i, col := range t.Columns[1:] {
			row[i+1] = rec.Get(col).String()
		}
		rows = append(rows, row)
	}
	return rows
}
