package dataprocessing

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"cvtransform/internal/config"
	apperrors "cvtransform/internal/errors"
	"cvtransform/internal/infrastructure"
	"cvtransform/pkg/contracts/domain"
)

// Input is one wide-format table waiting to be transformed. Name carries the
// period (month and year) of the table. Err is set when the table could not
// be loaded; such an input is reported as skipped.
type Input struct {
	Name  string
	Table *domain.RawTable
	Err   error
}

// OutcomeObserver is notified after each input of a batch has been handled.
type OutcomeObserver func(outcome domain.FileOutcome, started time.Time, elapsed time.Duration)

// Transformer reshapes wide day-columned tables into long-format records.
type Transformer struct {
	logger       *slog.Logger
	placeholders []string
	aliases      aliasTable
	observer     OutcomeObserver
}

// TransformerOption configures a Transformer
type TransformerOption func(*Transformer)

// WithPlaceholderColumns replaces the reserved columns appended to every
// fragment. Calling it with no names disables placeholders.
func WithPlaceholderColumns(columns ...string) TransformerOption {
	return func(t *Transformer) {
		t.placeholders = t.placeholders[:0]
		for _, c := range columns {
			if name := StandardizeName(c); name != "" {
				t.placeholders = append(t.placeholders, name)
			}
		}
	}
}

// WithMetricAliases replaces the label renames applied before standardization.
func WithMetricAliases(aliases map[string]string) TransformerOption {
	return func(t *Transformer) {
		t.aliases = newAliasTable(aliases)
	}
}

// WithOutcomeObserver registers a callback for per-input outcomes of TransformAll.
func WithOutcomeObserver(observer OutcomeObserver) TransformerOption {
	return func(t *Transformer) {
		t.observer = observer
	}
}

// NewTransformer creates a transformer with the default placeholders and aliases.
func NewTransformer(logger *slog.Logger, opts ...TransformerOption) *Transformer {
	t := &Transformer{
		logger:       infrastructure.WithComponent(logger, "transformer"),
		placeholders: append([]string(nil), config.DefaultPlaceholderColumns...),
		aliases:      newAliasTable(config.DefaultMetricAliases()),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform converts one wide table into a long-format fragment with one
// record per day header, in header order. sourceFilename only supplies the
// reporting period and the records' source.
func (t *Transformer) Transform(table *domain.RawTable, sourceFilename string) (*domain.OutputTable, error) {
	fragment, _, err := t.transform(table, sourceFilename)
	return fragment, err
}

// transform also returns the fragment's metric columns, placeholders excluded.
func (t *Transformer) transform(table *domain.RawTable, sourceFilename string) (*domain.OutputTable, []string, error) {
	if err := checkStructure(table); err != nil {
		return nil, nil, err
	}

	period, err := resolvePeriodWithHeaders(sourceFilename, table.DayHeaders)
	if err != nil {
		return nil, nil, err
	}

	columns, err := t.metricColumns(table.Rows)
	if err != nil {
		return nil, nil, err
	}

	days, err := t.parseDays(table.DayHeaders, period, sourceFilename)
	if err != nil {
		return nil, nil, err
	}

	source := filepath.Base(sourceFilename)
	fragment := domain.NewOutputTable()
	fragment.Columns = append(fragment.Columns, columns...)
	for _, p := range t.placeholders {
		if !fragment.HasColumn(p) {
			fragment.Columns = append(fragment.Columns, p)
		}
	}

	fragment.Records = make([]domain.LongRecord, 0, len(days))
	for i, day := range days {
		metrics := make(map[string]domain.Value, len(fragment.Columns)-1)
		for r, row := range table.Rows {
			metrics[columns[r]] = domain.ParseValue(row.Values[i])
		}
		for _, p := range t.placeholders {
			if _, ok := metrics[p]; !ok {
				metrics[p] = domain.NullValue
			}
		}
		fragment.Records = append(fragment.Records, domain.LongRecord{
			ReportDay: period.Date(day),
			Source:    source,
			Metrics:   metrics,
		})
	}

	t.logger.Debug("Input transformed",
		slog.String("file", source),
		slog.String("period", period.String()),
		slog.Int("days", len(days)),
		slog.Int("metrics", len(columns)))

	return fragment, columns, nil
}

func checkStructure(table *domain.RawTable) error {
	if table == nil || len(table.DayHeaders) == 0 {
		return apperrors.NewStructuralError("table has no day headers")
	}
	if len(table.Rows) == 0 {
		return apperrors.NewStructuralError("table has no metric rows")
	}
	for _, row := range table.Rows {
		if len(row.Values) != len(table.DayHeaders) {
			return apperrors.NewStructuralError(fmt.Sprintf("row %q (line %d) has %d values, expected %d",
				row.Name, row.Line, len(row.Values), len(table.DayHeaders)))
		}
	}
	return nil
}

// metricColumns standardizes row labels, rejecting labels that end up sharing a column.
func (t *Transformer) metricColumns(rows []domain.MetricRow) ([]string, error) {
	columns := make([]string, len(rows))
	seen := make(map[string]string, len(rows))

	for i, row := range rows {
		name := StandardizeName(t.aliases.resolve(row.Name))
		switch {
		case name == "":
			return nil, apperrors.NewStructuralError(fmt.Sprintf("row %q (line %d) has no usable metric name", row.Name, row.Line))
		case name == domain.ReportDayColumn:
			return nil, apperrors.NewNameCollisionError(fmt.Sprintf("metric %q collides with the %s column", row.Name, domain.ReportDayColumn))
		}
		if prev, ok := seen[name]; ok {
			return nil, apperrors.NewNameCollisionError(fmt.Sprintf("metrics %q and %q both standardize to %q", prev, row.Name, name))
		}
		seen[name] = row.Name
		columns[i] = name
	}
	return columns, nil
}

func (t *Transformer) parseDays(headers []string, period domain.PeriodContext, filename string) ([]int, error) {
	days := make([]int, len(headers))
	var mismatched []string

	for i, h := range headers {
		day, month, err := ParseDayHeader(h)
		if err != nil {
			return nil, err
		}
		if month != 0 && month != period.Month {
			mismatched = append(mismatched, h)
		}
		if err := validateDay(h, day, period); err != nil {
			return nil, err
		}
		days[i] = day
	}

	if len(mismatched) > 0 {
		t.logger.Warn("Day headers name a different month than the file, using the file's period",
			slog.String("file", filepath.Base(filename)),
			slog.String("period", period.String()),
			slog.String("first_header", mismatched[0]),
			slog.Int("headers", len(mismatched)))
	}
	return days, nil
}

// TransformAll transforms every input independently and concatenates the
// fragments in input order. A failing input is logged and recorded as skipped.
// The batch fails with a NoDataError only when there are no inputs or none
// succeeds; the result is returned in both cases.
func (t *Transformer) TransformAll(inputs []Input) (*domain.BatchResult, error) {
	result := &domain.BatchResult{
		Table:    domain.NewOutputTable(),
		Outcomes: make([]domain.FileOutcome, 0, len(inputs)),
	}

	for _, in := range inputs {
		started := time.Now()
		fragment, columns, outcome := t.transformInput(in)
		if fragment != nil {
			// metric columns first, placeholders are moved to the end below
			result.Table.Append(&domain.OutputTable{Columns: columns, Records: fragment.Records})
		}
		result.Outcomes = append(result.Outcomes, outcome)

		if t.observer != nil {
			t.observer(outcome, started, time.Since(started))
		}
	}

	if result.Table.Len() > 0 {
		for _, p := range t.placeholders {
			if !result.Table.HasColumn(p) {
				result.Table.Columns = append(result.Table.Columns, p)
			}
		}
	}

	processed, skipped := len(result.Processed()), len(result.Skipped())
	t.logger.Info("Batch transformed",
		slog.Int("processed", processed),
		slog.Int("skipped", skipped),
		slog.Int("records", result.Table.Len()))

	if len(inputs) == 0 {
		return result, apperrors.NewNoDataError("no input files found")
	}
	if processed == 0 {
		return result, apperrors.NewNoDataError(fmt.Sprintf("none of the %d inputs could be transformed", len(inputs)))
	}
	return result, nil
}

func (t *Transformer) transformInput(in Input) (*domain.OutputTable, []string, domain.FileOutcome) {
	outcome := domain.FileOutcome{Name: in.Name}

	err := in.Err
	var (
		fragment *domain.OutputTable
		columns  []string
	)
	if err == nil {
		fragment, columns, err = t.transform(in.Table, in.Name)
	}
	if err != nil {
		outcome.Status = domain.OutcomeSkipped
		outcome.Kind = string(apperrors.TypeOf(err))
		outcome.Reason = err.Error()
		t.logger.Warn("Skipping input",
			slog.String("file", in.Name),
			slog.String("kind", outcome.Kind),
			slog.String("reason", err.Error()))
		return nil, nil, outcome
	}

	outcome.Status = domain.OutcomeProcessed
	outcome.Records = fragment.Len()
	return fragment, columns, outcome
}
