package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"

	apperrors "cvtransform/internal/errors"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// Matcher selects file names by include and exclude glob patterns, ignoring case.
type Matcher struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewMatcher compiles the patterns. A name matches when it matches any
// include pattern and no exclude pattern.
func NewMatcher(include, exclude []string) (*Matcher, error) {
	m := &Matcher{}
	var err error
	if m.include, err = compilePatterns(include); err != nil {
		return nil, err
	}
	if m.exclude, err = compilePatterns(exclude); err != nil {
		return nil, err
	}
	return m, nil
}

func compilePatterns(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// Match reports whether a base file name is selected
func (m *Matcher) Match(name string) bool {
	name = strings.ToLower(name)
	for _, g := range m.exclude {
		if g.Match(name) {
			return false
		}
	}
	for _, g := range m.include {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// FindInputFiles lists the regular files of dir whose names match the
// include patterns and none of the exclude patterns, sorted by name.
// A missing or unreadable directory is a FileAccessError.
func (d *Discovery) FindInputFiles(dir string, include, exclude []string) ([]FileInfo, error) {
	matcher, err := NewMatcher(include, exclude)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid input file pattern", err)
	}

	// If dir is already absolute, use it directly
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, apperrors.NewFileAccessError(fmt.Sprintf("failed to read directory %s", fullPath), err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !matcher.Match(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}
