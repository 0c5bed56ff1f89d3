package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "cvtransform/internal/errors"
)

var (
	defaultInclude = []string{"*.csv", "*.xlsx", "*.xlsm"}
	defaultExclude = []string{"~$*", ".*"}
)

func TestNewDiscovery(t *testing.T) {
	basePath := "/test/base"
	discovery := NewDiscovery(basePath)

	assert.NotNil(t, discovery)
	assert.Equal(t, basePath, discovery.basePath)
}

func TestFindInputFiles(t *testing.T) {
	tests := []struct {
		name        string
		files       []string
		include     []string
		exclude     []string
		expected    []string
		description string
	}{
		{
			name:        "reports only",
			files:       []string{"b - June 2025.csv", "a - May 2025.csv", "notes.txt", "c - July 2025.xlsx", "d - August 2025.xlsm"},
			include:     defaultInclude,
			exclude:     defaultExclude,
			expected:    []string{"a - May 2025.csv", "b - June 2025.csv", "c - July 2025.xlsx", "d - August 2025.xlsm"},
			description: "Should find CSV and workbook files sorted by name",
		},
		{
			name:        "case insensitive",
			files:       []string{"REPORT JUNE 2025.CSV", "report.Xlsx"},
			include:     defaultInclude,
			exclude:     defaultExclude,
			expected:    []string{"REPORT JUNE 2025.CSV", "report.Xlsx"},
			description: "Extensions match regardless of case",
		},
		{
			name:        "lock and hidden files",
			files:       []string{"~$June 2025.xlsx", ".June 2025.partial.csv", "June 2025.csv"},
			include:     defaultInclude,
			exclude:     defaultExclude,
			expected:    []string{"June 2025.csv"},
			description: "Office lock files and hidden files are excluded",
		},
		{
			name:        "custom include",
			files:       []string{"Ghana - June 2025.csv", "Kenya - June 2025.csv"},
			include:     []string{"ghana*"},
			expected:    []string{"Ghana - June 2025.csv"},
			description: "Patterns select by file name",
		},
		{
			name:        "empty directory",
			files:       []string{},
			include:     defaultInclude,
			expected:    nil,
			description: "Should handle empty directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("x"), 0644))
			}
			require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.csv"), 0755))

			found, err := NewDiscovery(dir).FindInputFiles(".", tt.include, tt.exclude)
			require.NoError(t, err, tt.description)

			var names []string
			for _, f := range found {
				names = append(names, f.Name)
				assert.Equal(t, filepath.Join(dir, f.Name), f.Path)
				assert.Equal(t, int64(1), f.Size)
			}
			assert.Equal(t, tt.expected, names, tt.description)
		})
	}
}

func TestFindInputFiles_Errors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := NewDiscovery(t.TempDir()).FindInputFiles("gh_data", defaultInclude, defaultExclude)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFileAccess))
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := NewDiscovery(t.TempDir()).FindInputFiles(".", []string{"[a-"}, nil)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
	})
}

func TestMatcher(t *testing.T) {
	m, err := NewMatcher([]string{"*.csv", "*.{xlsx,xlsm}"}, []string{"*draft*"})
	require.NoError(t, err)

	assert.True(t, m.Match("June 2025.csv"))
	assert.True(t, m.Match("June 2025.XLSM"))
	assert.False(t, m.Match("June 2025 DRAFT.csv"))
	assert.False(t, m.Match("June 2025.parquet"))
}
