package app

import (
	"encoding/json"
	"os"
	"path/filepath"

	"diamondeda/domain/core"
	"diamondeda/domain/run"
	"diamondeda/internal/errors"
)

// Mismatch is a manifest entry whose file no longer matches
type Mismatch struct {
	Path   string
	Reason string
}

// ReadManifest loads a manifest written by a run
func ReadManifest(path string) (*run.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.InvalidInput("cannot read manifest " + path + ": " + err.Error())
	}
	var m run.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.InvalidInput("malformed manifest " + path + ": " + err.Error())
	}
	return &m, nil
}

// VerifyManifest re-hashes every artifact recorded in the manifest at path.
// Artifact paths resolve against the manifest's directory.
func VerifyManifest(path string) (*run.Manifest, []Mismatch, error) {
	m, err := ReadManifest(path)
	if err != nil {
		return nil, nil, err
	}

	base := filepath.Dir(path)
	var mismatches []Mismatch
	for _, a := range m.Artifacts {
		content, err := os.ReadFile(filepath.Join(base, filepath.FromSlash(a.Path)))
		switch {
		case err != nil:
			mismatches = append(mismatches, Mismatch{Path: a.Path, Reason: "missing"})
		case core.NewHash(content) != a.SHA256:
			mismatches = append(mismatches, Mismatch{Path: a.Path, Reason: "content changed"})
		}
	}
	return m, mismatches, nil
}
