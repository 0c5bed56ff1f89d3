package dataprocessing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "cvtransform/internal/errors"
	"cvtransform/pkg/contracts/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadTable_CSV(t *testing.T) {
	dir := t.TempDir()
	content := "\xEF\xBB\xBF" +
		"Jun 2025,June 1,June 2,,\n" +
		"New Installs,\"2,818\",3287,,\n" +
		",,,,\n" +
		"Signups,10,,,\n"
	path := writeFile(t, dir, juneFile, content)

	inputs, err := LoadTable(path)
	require.NoError(t, err)
	require.Len(t, inputs, 1)

	in := inputs[0]
	assert.Equal(t, juneFile, in.Name)
	require.NoError(t, in.Err)
	assert.Equal(t, []string{"June 1", "June 2"}, in.Table.DayHeaders)
	assert.Equal(t, []domain.MetricRow{
		{Name: "New Installs", Values: []string{"2,818", "3287"}, Line: 2},
		{Name: "Signups", Values: []string{"10", ""}, Line: 4},
	}, in.Table.Rows)
}

func TestLoadTable_CSVRagged(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Report - July 2025.csv", "label,July 1,July 2\nNew Installs,1\n")

	inputs, err := LoadTable(path)
	require.NoError(t, err, "structural problems are reported per input")
	require.Len(t, inputs, 1)
	assert.Nil(t, inputs[0].Table)
	assert.True(t, apperrors.IsType(inputs[0].Err, apperrors.ErrTypeStructural))
	assert.Contains(t, inputs[0].Err.Error(), "line 2")
}

func TestLoadTable_CSVExtraValues(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Report - July 2025.csv", "label,July 1\nNew Installs,1,2\n")

	inputs, err := LoadTable(path)
	require.NoError(t, err)
	assert.True(t, apperrors.IsType(inputs[0].Err, apperrors.ErrTypeStructural))
}

func TestLoadTable_EmptyCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Report - July 2025.csv", "")

	inputs, err := LoadTable(path)
	require.NoError(t, err)
	assert.True(t, apperrors.IsType(inputs[0].Err, apperrors.ErrTypeStructural))
}

func TestLoadTable_Missing(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFileAccess))
}

func TestLoadTable_Workbook(t *testing.T) {
	dir := t.TempDir()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "June"))
	require.NoError(t, f.SetSheetRow("June", "A1", &[]interface{}{"Jun 2025", "June 1", "June 2"}))
	require.NoError(t, f.SetSheetRow("June", "A2", &[]interface{}{"New Installs", 2818, 3287}))
	require.NoError(t, f.SetSheetRow("June", "A3", &[]interface{}{"Signups", 12}))

	_, err := f.NewSheet("Notes")
	require.NoError(t, err)

	_, err = f.NewSheet("July")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("July", "A1", &[]interface{}{"", "July 1"}))
	require.NoError(t, f.SetSheetRow("July", "A2", &[]interface{}{"New Installs", 3001}))

	path := filepath.Join(dir, "Growth Report 2025.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	inputs, err := LoadTable(path)
	require.NoError(t, err)
	require.Len(t, inputs, 2, "empty sheets are ignored")

	assert.Equal(t, "Growth Report 2025 - June.xlsx", inputs[0].Name)
	require.NoError(t, inputs[0].Err)
	assert.Equal(t, []string{"June 1", "June 2"}, inputs[0].Table.DayHeaders)
	assert.Equal(t, []string{"2818", "3287"}, inputs[0].Table.Rows[0].Values)
	assert.Equal(t, []string{"12", ""}, inputs[0].Table.Rows[1].Values, "short rows are padded")

	assert.Equal(t, "Growth Report 2025 - July.xlsx", inputs[1].Name)

	result, err := NewTransformer(nil, WithPlaceholderColumns()).TransformAll(inputs)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"2025-06-01", "2818", "12"},
		{"2025-06-02", "3287", ""},
		{"2025-07-01", "3001", ""},
	}, result.Table.Rows())
}

func TestLoadTable_NotAWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.xlsx", "not a zip")

	_, err := LoadTable(path)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFileAccess))
}

func TestTableFromRows(t *testing.T) {
	t.Run("header only", func(t *testing.T) {
		table, err := TableFromRows([][]string{{"", "June 1"}}, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"June 1"}, table.DayHeaders)
		assert.Empty(t, table.Rows)
	})

	t.Run("leading blank rows", func(t *testing.T) {
		table, err := TableFromRows([][]string{{"", ""}, {"x", "June 1"}, {"Cost", "5"}}, false)
		require.NoError(t, err)
		assert.Equal(t, 3, table.Rows[0].Line)
	})
}
