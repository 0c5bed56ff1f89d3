package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
)

func TestParquetSchema(t *testing.T) {
	table := sampleTable()
	schema := parquetSchema(table.Columns, numericColumns(table))

	assert.Equal(t, []string{
		"name=report_day, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=REQUIRED",
		"name=new_installs, type=DOUBLE, repetitiontype=OPTIONAL",
		"name=cost_digital, type=DOUBLE, repetitiontype=OPTIONAL",
		"name=notes, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL",
		"name=cac_incl_branding, type=DOUBLE, repetitiontype=OPTIONAL",
	}, schema)
}

func TestParquetRow(t *testing.T) {
	table := sampleTable()
	row := parquetRow(table.Records[1], table.Columns)

	require.Len(t, row, 5)
	assert.Equal(t, "2025-06-02", *row[0])
	assert.Equal(t, "3287", *row[1])
	assert.Nil(t, row[2], "blank cells are null")
	assert.Equal(t, "12", *row[3])
	assert.Nil(t, row[4])
}

func TestParquetWriter_WriteTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.parquet")
	require.NoError(t, NewParquetWriter(nil).WriteTable(path, sampleTable()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(content), 8)
	assert.Equal(t, "PAR1", string(content[:4]))
	assert.Equal(t, "PAR1", string(content[len(content)-4:]))

	fr, err := local.NewLocalFileReader(path)
	require.NoError(t, err)
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, nil, 1)
	require.NoError(t, err)
	defer pr.ReadStop()

	assert.Equal(t, int64(2), pr.GetNumRows())

	types := map[string]parquet.Type{}
	for _, el := range pr.Footer.Schema[1:] {
		types[strings.ToLower(el.Name)] = el.GetType()
	}
	assert.Equal(t, parquet.Type_BYTE_ARRAY, types["report_day"])
	assert.Equal(t, parquet.Type_DOUBLE, types["new_installs"])
	assert.Equal(t, parquet.Type_BYTE_ARRAY, types["notes"])

	for _, rg := range pr.Footer.RowGroups {
		for _, col := range rg.Columns {
			assert.Equal(t, parquet.CompressionCodec_SNAPPY, col.MetaData.Codec)
		}
	}
}
