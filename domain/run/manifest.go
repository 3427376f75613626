package run

import (
	"encoding/json"
	"fmt"

	"diamondeda/domain/core"
)

// ArtifactKind tags each file a run writes
type ArtifactKind string

const (
	ArtifactReport   ArtifactKind = "report"
	ArtifactChart    ArtifactKind = "chart"
	ArtifactHTML     ArtifactKind = "html"
	ArtifactWorkbook ArtifactKind = "workbook"
)

// ArtifactRecord is one written file with its content digest
type ArtifactRecord struct {
	Name   string       `json:"name"`
	Kind   ArtifactKind `json:"kind"`
	Path   string       `json:"path"` // relative to the output directory
	SHA256 core.Hash    `json:"sha256"`
	Size   int          `json:"size_bytes"`
}

// Manifest records what a run read and wrote. It is written last, after every
// other output exists.
type Manifest struct {
	RunID       core.RunID       `json:"run_id"`
	Rows        int              `json:"rows"`
	Columns     int              `json:"columns"`
	Fingerprint RunFingerprint   `json:"fingerprint"`
	Artifacts   []ArtifactRecord `json:"artifacts"`
	CreatedAt   core.Timestamp   `json:"created_at"`
}

// NewManifest starts a manifest for a run over a dataset of the given shape
func NewManifest(runID core.RunID, fingerprint RunFingerprint, rows, columns int) *Manifest {
	return &Manifest{
		RunID:       runID,
		Rows:        rows,
		Columns:     columns,
		Fingerprint: fingerprint,
		CreatedAt:   core.Now(),
	}
}

// Record adds a written file, hashing its content
func (m *Manifest) Record(name string, kind ArtifactKind, path string, content []byte) {
	m.Artifacts = append(m.Artifacts, ArtifactRecord{
		Name:   name,
		Kind:   kind,
		Path:   path,
		SHA256: core.NewHash(content),
		Size:   len(content),
	})
}

// Count returns how many artifacts of a kind were recorded
func (m *Manifest) Count(kind ArtifactKind) int {
	n := 0
	for _, a := range m.Artifacts {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

// Validate checks the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return fmt.Errorf("run manifest: run_id cannot be empty")
	}
	if m.Fingerprint.Fingerprint.IsEmpty() {
		return fmt.Errorf("run manifest: fingerprint cannot be empty")
	}
	if m.Count(ArtifactReport) != 1 {
		return fmt.Errorf("run manifest: want exactly one report, have %d", m.Count(ArtifactReport))
	}
	return nil
}

// Encode returns the indented JSON form
func (m *Manifest) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
