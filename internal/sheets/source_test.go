package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvtransform/internal/dataprocessing"
	apperrors "cvtransform/internal/errors"
	"cvtransform/internal/shared/testutil"
	"cvtransform/pkg/contracts/domain"
)

type fakeAPI struct {
	title   string
	tabs    []string
	rows    map[string][][]interface{}
	tabsErr error
	rowErrs map[string]error
}

func (f *fakeAPI) Tabs(context.Context, string) (string, []string, error) {
	return f.title, f.tabs, f.tabsErr
}

func (f *fakeAPI) Rows(_ context.Context, _ string, tab string) ([][]interface{}, error) {
	if err := f.rowErrs[tab]; err != nil {
		return nil, err
	}
	return f.rows[tab], nil
}

func TestSource_Load(t *testing.T) {
	api := &fakeAPI{
		title: "Ghana Growth 2025",
		tabs:  []string{"June", "Notes", "July", "Broken"},
		rows: map[string][][]interface{}{
			"June": {
				{"Jun", "June 1", "June 2"},
				{"New Installs", "2,818", "3287"},
				{"Cost Digital", 120.5},
				{},
			},
			"Notes": {},
			"July": {
				{"Jul", "July 1"},
				{"New Installs", "4000"},
			},
		},
		rowErrs: map[string]error{"Broken": errors.New("quota exceeded")},
	}
	logger, handler := testutil.NewTestLogger(t)

	inputs, err := NewSourceWithAPI(api, "sheet-id", logger).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, inputs, 3)

	june := inputs[0]
	assert.Equal(t, "Ghana Growth 2025 - June.csv", june.Name)
	require.NoError(t, june.Err)
	assert.Equal(t, []string{"June 1", "June 2"}, june.Table.DayHeaders)
	assert.Equal(t, []string{"120.5", ""}, june.Table.Rows[1].Values)

	assert.Equal(t, "Ghana Growth 2025 - July.csv", inputs[1].Name)

	broken := inputs[2]
	assert.True(t, apperrors.IsType(broken.Err, apperrors.ErrTypeFileAccess))

	testutil.AssertLogAttr(t, handler, "inputs", 3)

	result, err := dataprocessing.NewTransformer(logger).TransformAll(inputs)
	require.NoError(t, err)
	assert.Len(t, result.Processed(), 2)
	assert.Len(t, result.Skipped(), 1)

	require.Equal(t, 3, result.Table.Len())
	first := result.Table.Records[0]
	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), first.ReportDay)
	assert.Equal(t, domain.ParseValue("2818"), first.Metrics["new_installs"])
}

func TestSource_LoadUnreachable(t *testing.T) {
	api := &fakeAPI{tabsErr: errors.New("permission denied")}

	_, err := NewSourceWithAPI(api, "sheet-id", nil).Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFileAccess))
	assert.Contains(t, err.Error(), "sheet-id")
}

func TestA1Range(t *testing.T) {
	assert.Equal(t, "'June'", A1Range("June"))
	assert.Equal(t, "'Jim''s June'", A1Range("Jim's June"))
}

func TestToStrings(t *testing.T) {
	rows := toStrings([][]interface{}{
		{"a", nil, 3},
		{""},
		{" "},
	})
	assert.Equal(t, [][]string{{"a", "", "3"}}, rows)
}
