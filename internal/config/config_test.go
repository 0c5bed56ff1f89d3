package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "cvtransform/internal/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), FilePermissions))
	return path
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars and no file",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultInputDir, cfg.Input.Dir)
				assert.Equal(t, DefaultOutputPath, cfg.Output.Path)
				assert.Equal(t, []string{"*.csv", "*.xlsx", "*.xlsm"}, cfg.Input.Include)
				assert.Equal(t, DefaultPlaceholderColumns, cfg.Transform.Placeholders)
				assert.Equal(t, "Cost Digital", cfg.Transform.Aliases["Cost Growth"])
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.True(t, cfg.Output.Manifest)
				assert.False(t, cfg.Upload.Enabled())
				assert.False(t, cfg.Sheets.Enabled())
			},
		},
		{
			name: "environment overrides defaults",
			env: map[string]string{
				"CVT_INPUT_DIR":              "/data/incoming",
				"CVT_OUTPUT_PATH":            "out/long.parquet",
				"CVT_TRANSFORM_PLACEHOLDERS": "a_col,b_col",
				"CVT_LOGGING_LEVEL":          "DEBUG",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/data/incoming", cfg.Input.Dir)
				assert.Equal(t, "out/long.parquet", cfg.Output.Path)
				assert.Equal(t, []string{"a_col", "b_col"}, cfg.Transform.Placeholders)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "file overrides defaults",
			file: `
input:
  dir: reports
output:
  path: long.xlsx
  manifest: false
upload:
  bucket: analytics-landing
  prefix: /cv/monthly/
  region: eu-west-1
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "reports", cfg.Input.Dir)
				assert.Equal(t, "long.xlsx", cfg.Output.Path)
				assert.False(t, cfg.Output.Manifest)
				assert.True(t, cfg.Upload.Enabled())
				assert.Equal(t, "cv/monthly", cfg.Upload.Prefix)
			},
		},
		{
			name: "environment takes precedence over file",
			env:  map[string]string{"CVT_INPUT_DIR": "from-env"},
			file: "input:\n  dir: from-file\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "from-env", cfg.Input.Dir)
			},
		},
		{
			name:    "unsupported output extension",
			env:     map[string]string{"CVT_OUTPUT_PATH": "long.json"},
			wantErr: true,
		},
		{
			name:    "invalid log level",
			env:     map[string]string{"CVT_LOGGING_LEVEL": "loud"},
			wantErr: true,
		},
		{
			name:    "bucket without region",
			env:     map[string]string{"CVT_UPLOAD_BUCKET": "analytics-landing"},
			wantErr: true,
		},
		{
			name:    "spreadsheet without credentials",
			env:     map[string]string{"CVT_SHEETS_SPREADSHEET_ID": "1AbC"},
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "input: [unterminated",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			configFile := ""
			if tt.file != "" {
				configFile = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFile(configFile)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFile_IgnoresUnprefixedVariables(t *testing.T) {
	t.Setenv("PATH", "/usr/local/bin:/usr/bin:/bin")
	t.Setenv("OUTPUT", "file")
	t.Setenv("DIR", "/somewhere/else")
	t.Setenv("LEVEL", "loud")
	t.Setenv("BUCKET", "stray-bucket")

	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultInputDir, cfg.Input.Dir)
	assert.Equal(t, DefaultOutputPath, cfg.Output.Path)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Upload.Enabled())
}

func TestLoad_DotEnvAndExplicitConfigFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.WriteFile(DotEnvFile, []byte("CVT_OUTPUT_PATH=from-dotenv.csv\n"), FilePermissions))
	configFile := writeConfigFile(t, "input:\n  dir: from-file\n")
	t.Setenv("CVT_CONFIG_FILE", configFile)
	// godotenv sets variables directly; make sure t cleans it up
	t.Setenv("CVT_OUTPUT_PATH", "")
	require.NoError(t, os.Unsetenv("CVT_OUTPUT_PATH"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.csv", cfg.Output.Path)
	assert.Equal(t, "from-file", cfg.Input.Dir)
}

func TestGetPaths(t *testing.T) {
	cfg := Default()
	cfg.Input.Dir = "gh_data"
	cfg.Output.Path = "/tmp/out/long.parquet"

	paths, err := GetPaths(cfg)
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "gh_data"), paths.InputDir)
	assert.Equal(t, "/tmp/out/long.parquet", paths.OutputPath)
	assert.Equal(t, "/tmp/out/long.manifest.json", paths.ManifestPath)
	assert.Equal(t, FormatParquet, paths.OutputFormat())

	cfg.Output.Manifest = false
	paths, err = GetPaths(cfg)
	require.NoError(t, err)
	assert.Empty(t, paths.ManifestPath)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input: {}\n"), FilePermissions))

	assert.True(t, FileExists(path))
	assert.True(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "missing.yaml")))
}
