package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "cvtransform/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Transform TransformConfig `yaml:"transform"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Upload    UploadConfig    `yaml:"upload"`
	Sheets    SheetsConfig    `yaml:"sheets"`
}

// InputConfig describes where wide-format reports are picked up
type InputConfig struct {
	Dir     string   `yaml:"dir" split_words:"true" validate:"required"`
	Include []string `yaml:"include" split_words:"true" validate:"min=1,dive,required"`
	Exclude []string `yaml:"exclude" split_words:"true" validate:"dive,required"`
}

// OutputConfig describes where the long-format table is written
type OutputConfig struct {
	Path     string `yaml:"path" split_words:"true" validate:"required,outputformat"`
	BOM      bool   `yaml:"bom" split_words:"true"`
	Manifest bool   `yaml:"manifest" split_words:"true"`
}

// TransformConfig tunes the wide-to-long transformation
type TransformConfig struct {
	Placeholders []string          `yaml:"placeholders" split_words:"true" validate:"dive,required"`
	Aliases      map[string]string `yaml:"aliases" split_words:"true" validate:"dive,keys,required,endkeys,required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" split_words:"true" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" split_words:"true" validate:"oneof=json text"`
	Output   string `yaml:"output" split_words:"true" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" split_words:"true" validate:"required_unless=Output console"`
}

// TelemetryConfig enables file-based traces and metrics. Empty paths disable them.
type TelemetryConfig struct {
	TracingFile string  `yaml:"tracing_file" split_words:"true"`
	MetricsFile string  `yaml:"metrics_file" split_words:"true"`
	SampleRatio float64 `yaml:"sample_ratio" split_words:"true" validate:"min=0,max=1"`
}

// UploadConfig enables the S3 upload of the output. An empty bucket disables it.
type UploadConfig struct {
	Bucket string `yaml:"bucket" split_words:"true"`
	Prefix string `yaml:"prefix" split_words:"true"`
	Region string `yaml:"region" split_words:"true" validate:"required_with=Bucket"`
}

// SheetsConfig enables reading tabs straight from a Google spreadsheet.
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id" split_words:"true"`
	CredentialsFile string `yaml:"credentials_file" split_words:"true" validate:"required_with=SpreadsheetID"`
}

// Enabled reports whether an upload target is configured
func (u UploadConfig) Enabled() bool {
	return u.Bucket != ""
}

// Enabled reports whether a spreadsheet source is configured
func (s SheetsConfig) Enabled() bool {
	return s.SpreadsheetID != ""
}

// Load loads configuration with precedence env > config file > defaults.
// A .env file in the working directory, when present, is loaded into the
// environment first without overriding variables that are already set.
func Load() (*Config, error) {
	if FileExists(DotEnvFile) {
		if err := godotenv.Load(DotEnvFile); err != nil {
			return nil, apperrors.NewConfigError("failed to load "+DotEnvFile, err)
		}
	}
	return LoadFile(getConfigFilePath())
}

// LoadFile loads configuration from the given YAML file (may be empty) and the environment
func LoadFile(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("config_file", configFile)
		}
	}

	// Leaf fields carry no envconfig names so that only CVT_* variables are read;
	// a named tag would fall back to the bare variable, such as PATH.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// normalize canonicalizes values that have a single meaning in several spellings
func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Output = strings.ToLower(strings.TrimSpace(c.Logging.Output))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Upload.Prefix = strings.Trim(c.Upload.Prefix, "/")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.RegisterValidation("outputformat", isSupportedOutput); err != nil {
		return apperrors.NewConfigError("failed to register validators", err)
	}

	if err := v.Struct(c); err != nil {
		var problems []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				problems = append(problems, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
		} else {
			problems = append(problems, err.Error())
		}
		return apperrors.NewConfigError("config validation failed", fmt.Errorf("%s", strings.Join(problems, "; ")))
	}

	return nil
}

func isSupportedOutput(fl validator.FieldLevel) bool {
	_, ok := SupportedOutputFormats[strings.ToLower(filepath.Ext(fl.Field().String()))]
	return ok
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if FileExists(location) {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Dir:     DefaultInputDir,
			Include: []string{"*.csv", "*.xlsx", "*.xlsm"},
			Exclude: []string{"~$*", ".*"},
		},
		Output: OutputConfig{
			Path:     DefaultOutputPath,
			BOM:      false,
			Manifest: true,
		},
		Transform: TransformConfig{
			Placeholders: append([]string(nil), DefaultPlaceholderColumns...),
			Aliases:      DefaultMetricAliases(),
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/cvtransform.log",
		},
		Telemetry: TelemetryConfig{
			SampleRatio: 1.0,
		},
	}
}
