// Package config provides centralized configuration management for the transformer.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority), including a .env file
//	2. Configuration file (YAML, CVT_CONFIG_FILE or ./config.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern CVT_* for namespacing:
//
//	CVT_INPUT_DIR=gh_data
//	CVT_OUTPUT_PATH=transformed_cv_data.parquet
//	CVT_TRANSFORM_ALIASES="Cost Growth:Cost Digital,Cost Marketing:Cost offline"
//	CVT_LOGGING_LEVEL=debug
//	CVT_UPLOAD_BUCKET=analytics-landing
//
// # Path Management
//
// Paths resolves the configured locations against the working directory:
//
//	paths, err := config.GetPaths(cfg)
//	format := paths.OutputFormat() // csv, parquet or xlsx
//
// # Validation
//
// Configuration is validated at load time with struct tags; failures are
// returned as CONFIG application errors listing every offending field.
package config
