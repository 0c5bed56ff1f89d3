package exporter

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/blake2b"

	"cvtransform/internal/config"
	"cvtransform/pkg/contracts"
	"cvtransform/pkg/contracts/domain"
)

// DigestPrefix names the hash of every digest in a manifest
const DigestPrefix = "blake2b-256:"

// Manifest describes one transformation run: which inputs were read, what
// happened to each of them and what was written.
type Manifest struct {
	RunID      string                `json:"run_id"`
	Build      contracts.VersionInfo `json:"build"`
	StartedAt  time.Time             `json:"started_at"`
	FinishedAt time.Time             `json:"finished_at"`

	Inputs   []ManifestInput      `json:"inputs"`
	Outcomes []domain.FileOutcome `json:"outcomes"`
	Output   *ManifestOutput      `json:"output,omitempty"`
}

// ManifestInput is a source file read by the run
type ManifestInput struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	Digest string `json:"digest"`
}

// ManifestOutput is the long-format table written by the run
type ManifestOutput struct {
	Path    string   `json:"path"`
	Format  string   `json:"format"`
	Records int      `json:"records"`
	Columns []string `json:"columns"`
	Digest  string   `json:"digest"`
}

// NewManifest starts the manifest of a run
func NewManifest(runID string, started time.Time) *Manifest {
	return &Manifest{
		RunID:     runID,
		Build:     contracts.GetVersionInfo(),
		StartedAt: started.UTC(),
		Inputs:    []ManifestInput{},
		Outcomes:  []domain.FileOutcome{},
	}
}

// AddInput records a source file with its size and digest
func (m *Manifest) AddInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	digest, err := Digest(path)
	if err != nil {
		return err
	}
	m.Inputs = append(m.Inputs, ManifestInput{
		Path:   filepath.Base(path),
		Size:   info.Size(),
		Digest: digest,
	})
	return nil
}

// Complete records the batch outcomes and, when outputPath is set, the written output
func (m *Manifest) Complete(result *domain.BatchResult, outputPath string, finished time.Time) error {
	m.FinishedAt = finished.UTC()
	if result != nil {
		m.Outcomes = append(m.Outcomes[:0], result.Outcomes...)
	}
	if outputPath == "" || result == nil {
		return nil
	}

	digest, err := Digest(outputPath)
	if err != nil {
		return err
	}
	m.Output = &ManifestOutput{
		Path:    filepath.Base(outputPath),
		Format:  config.FormatForPath(outputPath),
		Records: result.Table.Len(),
		Columns: result.Table.Columns,
		Digest:  digest,
	}
	return nil
}

// Write stores the manifest as indented JSON
func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a manifest written by Write
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}
	return &m, nil
}

// Digest returns the BLAKE2b-256 digest of a file
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return DigestPrefix + hex.EncodeToString(h.Sum(nil)), nil
}
