package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cvtransform/internal/config"
	apperrors "cvtransform/internal/errors"
	"cvtransform/internal/infrastructure"
)

// FileValidator checks run locations before any input is read or output written
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	return &FileValidator{
		logger: infrastructure.WithComponent(logger, "file_validator"),
	}
}

// ValidateInputDirectory validates that the input directory exists and is a directory
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return apperrors.NewFileAccessError(fmt.Sprintf("input directory %s does not exist", dir), err)
	}
	if err != nil {
		v.logger.Error("Failed to stat input directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewFileAccessError(fmt.Sprintf("failed to stat directory %s", dir), err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return apperrors.NewFileAccessError(fmt.Sprintf("%s is not a directory", dir), nil)
	}

	v.logger.Debug("Input directory validated", slog.String("directory", dir))
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewFileAccessError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewFileAccessError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateInputFile checks that a discovered input is a readable, non-empty
// CSV or workbook. Office lock files ("~$name.xlsx") are rejected.
func (v *FileValidator) ValidateInputFile(path string) error {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		return apperrors.NewFileAccessError(fmt.Sprintf("%s is an office lock file", base), nil)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := config.SupportedInputExtensions[ext]; !ok {
		return apperrors.NewFileAccessError(fmt.Sprintf("%s has unsupported extension %q", base, ext), nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		return apperrors.NewFileAccessError(fmt.Sprintf("cannot stat %s", base), err)
	}
	if info.IsDir() {
		return apperrors.NewFileAccessError(fmt.Sprintf("%s is a directory, not a file", base), nil)
	}
	if info.Size() == 0 {
		return apperrors.NewStructuralError(fmt.Sprintf("%s is empty", base))
	}

	file, err := os.Open(path)
	if err != nil {
		return apperrors.NewFileAccessError(fmt.Sprintf("%s is not readable", base), err)
	}
	file.Close()

	v.logger.Debug("Input file validated",
		slog.String("file", base),
		slog.Int64("size", info.Size()))
	return nil
}
