package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cvtransform/internal/config"
)

// tempSuffix marks outputs that are still being written
const tempSuffix = ".partial"

// Manager provides file management operations relative to the working directory
type Manager struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{paths: paths, logger: logger}
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(path string) bool {
	_, err := os.Stat(m.resolvePath(path))
	return err == nil
}

// EnsureDirectory creates a directory if it doesn't exist
func (m *Manager) EnsureDirectory(path string) error {
	fullPath := m.resolvePath(path)

	m.logger.Debug("Ensuring directory exists",
		slog.String("path", path),
		slog.String("full_path", fullPath))

	return os.MkdirAll(fullPath, config.DirPermissions)
}

// CopyFile copies a file from source to destination
func (m *Manager) CopyFile(src, dst string) error {
	srcPath := m.resolvePath(src)
	dstPath := m.resolvePath(dst)

	if err := os.MkdirAll(filepath.Dir(dstPath), config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	srcFile, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}

	// Sync to ensure write is complete
	return dstFile.Sync()
}

// MoveFile moves a file from source to destination, replacing the destination
func (m *Manager) MoveFile(src, dst string) error {
	srcPath := m.resolvePath(src)
	dstPath := m.resolvePath(dst)

	m.logger.Debug("Moving file",
		slog.String("src_path", srcPath),
		slog.String("dst_path", dstPath))

	if err := os.MkdirAll(filepath.Dir(dstPath), config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	// Try rename first (atomic if on same filesystem)
	if err := os.Rename(srcPath, dstPath); err == nil {
		return nil
	}

	// Fall back to copy and delete
	if err := m.CopyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(srcPath)
}

// DeleteFile deletes a file
func (m *Manager) DeleteFile(path string) error {
	return os.Remove(m.resolvePath(path))
}

// WriteAtomic lets write produce the file at a temporary path next to dst
// and moves it over dst once write succeeds. dst is never left half written.
func (m *Manager) WriteAtomic(dst string, write func(path string) error) error {
	dstPath := m.resolvePath(dst)
	if err := m.EnsureDirectory(filepath.Dir(dstPath)); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp := TempPath(dstPath)
	if err := write(tmp); err != nil {
		if rmErr := m.DeleteFile(tmp); rmErr != nil && !os.IsNotExist(rmErr) {
			m.logger.Warn("Failed to remove partial output",
				slog.String("path", tmp),
				slog.String("error", rmErr.Error()))
		}
		return err
	}

	return m.MoveFile(tmp, dstPath)
}

// TempPath returns the hidden sibling a file is written to before it replaces
// path. The extension is kept so writers that check it accept the name.
func TempPath(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	return filepath.Join(filepath.Dir(path), "."+base+tempSuffix+ext)
}

// resolvePath resolves a path relative to the working directory
func (m *Manager) resolvePath(path string) string {
	if filepath.IsAbs(path) || m.paths == nil || m.paths.WorkingDir == "" {
		return path
	}
	return filepath.Join(m.paths.WorkingDir, path)
}
