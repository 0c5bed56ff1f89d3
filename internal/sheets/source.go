package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"cvtransform/internal/config"
	"cvtransform/internal/dataprocessing"
	apperrors "cvtransform/internal/errors"
	"cvtransform/internal/infrastructure"
)

// SpreadsheetAPI is the subset of the Sheets API a Source reads through
type SpreadsheetAPI interface {
	// Tabs returns the spreadsheet title and its tab names in display order
	Tabs(ctx context.Context, spreadsheetID string) (title string, tabs []string, err error)
	// Rows returns the formatted cell values of one tab
	Rows(ctx context.Context, spreadsheetID, tab string) ([][]interface{}, error)
}

// Source turns the tabs of a Google spreadsheet into wide-format inputs
type Source struct {
	api           SpreadsheetAPI
	spreadsheetID string
	logger        *slog.Logger
}

// NewSource connects to the Sheets API with a service account credentials file
func NewSource(ctx context.Context, cfg config.SheetsConfig, logger *slog.Logger) (*Source, error) {
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(gsheets.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, apperrors.NewConfigError("failed to create sheets service", err).
			WithContext("credentials_file", cfg.CredentialsFile)
	}
	return NewSourceWithAPI(&serviceAPI{svc: svc}, cfg.SpreadsheetID, logger), nil
}

// NewSourceWithAPI creates a source on top of an existing API client
func NewSourceWithAPI(api SpreadsheetAPI, spreadsheetID string, logger *slog.Logger) *Source {
	return &Source{
		api:           api,
		spreadsheetID: spreadsheetID,
		logger:        infrastructure.WithComponent(logger, "sheets_source"),
	}
}

// Load reads every non-empty tab. Each becomes an input named
// "<spreadsheet title> - <tab>.csv", so the reporting period may come from
// either the title or the tab name. A tab that cannot be read or does not
// have the wide layout becomes an input carrying the error.
func (s *Source) Load(ctx context.Context) ([]dataprocessing.Input, error) {
	title, tabs, err := s.api.Tabs(ctx, s.spreadsheetID)
	if err != nil {
		return nil, apperrors.NewFileAccessError(fmt.Sprintf("cannot open spreadsheet %s", s.spreadsheetID), err)
	}

	var inputs []dataprocessing.Input
	for _, tab := range tabs {
		name := fmt.Sprintf("%s - %s.csv", title, tab)

		values, err := s.api.Rows(ctx, s.spreadsheetID, tab)
		if err != nil {
			inputs = append(inputs, dataprocessing.Input{
				Name: name,
				Err:  apperrors.NewFileAccessError(fmt.Sprintf("cannot read tab %q", tab), err),
			})
			continue
		}

		rows := toStrings(values)
		if len(rows) == 0 {
			s.logger.DebugContext(ctx, "Skipping empty tab", slog.String("tab", tab))
			continue
		}

		// the API omits trailing empty cells, pad them back to the header
		table, err := dataprocessing.TableFromRows(rows, true)
		inputs = append(inputs, dataprocessing.Input{Name: name, Table: table, Err: err})
	}

	s.logger.InfoContext(ctx, "Spreadsheet loaded",
		slog.String("title", title),
		slog.Int("tabs", len(tabs)),
		slog.Int("inputs", len(inputs)))
	return inputs, nil
}

// toStrings converts API cells to strings, dropping trailing blank rows
func toStrings(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	last := -1
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				cells[j] = fmt.Sprint(v)
			}
			if strings.TrimSpace(cells[j]) != "" {
				last = i
			}
		}
		rows[i] = cells
	}
	return rows[:last+1]
}

// A1Range quotes a tab name for use as an A1 range
func A1Range(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}

// serviceAPI adapts *sheets.Service to SpreadsheetAPI
type serviceAPI struct {
	svc *gsheets.Service
}

func (a *serviceAPI) Tabs(ctx context.Context, spreadsheetID string) (string, []string, error) {
	resp, err := a.svc.Spreadsheets.Get(spreadsheetID).
		Fields("properties.title", "sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return "", nil, err
	}

	var title string
	if resp.Properties != nil {
		title = resp.Properties.Title
	}
	tabs := make([]string, 0, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			tabs = append(tabs, sh.Properties.Title)
		}
	}
	return title, tabs, nil
}

func (a *serviceAPI) Rows(ctx context.Context, spreadsheetID, tab string) ([][]interface{}, error) {
	resp, err := a.svc.Spreadsheets.Values.Get(spreadsheetID, A1Range(tab)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}
