package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Paths contains every file system location a run touches.
// Relative configuration values are resolved against the working directory.
type Paths struct {
	WorkingDir   string
	InputDir     string
	OutputPath   string
	ManifestPath string
	LogFile      string
}

// GetPaths resolves the configured locations to absolute paths
func GetPaths(cfg *Config) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(wd, p)
	}

	output := resolve(cfg.Output.Path)
	paths := &Paths{
		WorkingDir: wd,
		InputDir:   resolve(cfg.Input.Dir),
		OutputPath: output,
		LogFile:    resolve(cfg.Logging.FilePath),
	}
	if cfg.Output.Manifest {
		paths.ManifestPath = ManifestPathFor(output)
	}

	return paths, nil
}

// ManifestPathFor returns the manifest location that accompanies an output file
func ManifestPathFor(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ManifestSuffix
}

// OutputFormat returns the format selected by the output extension, csv when unknown
func (p *Paths) OutputFormat() string {
	return FormatForPath(p.OutputPath)
}

// FormatForPath returns the output format matching a file extension, csv when unknown
func FormatForPath(path string) string {
	if format, ok := SupportedOutputFormats[strings.ToLower(filepath.Ext(path))]; ok {
		return format
	}
	return FormatCSV
}

// LogPathResolution logs the resolved locations for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Resolved paths",
		slog.String("working_dir", p.WorkingDir),
		slog.String("input_dir", p.InputDir),
		slog.String("output_path", p.OutputPath),
		slog.String("output_format", p.OutputFormat()),
		slog.String("manifest_path", p.ManifestPath))
}

// FileExists reports whether path can be stat'ed
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
