// Package scanner enumerates MODs installed on disk and parses their
// manifests, reading either exploded directories or `<name>_<version>.zip`
// archives.
package scanner

import (
	"encoding/json"
	"fmt"

	"factorix/internal/version"
)

// Manifest is the decoded contents of a MOD's info.json.
type Manifest struct {
	Name            string   `json:"name"`
	Version         string   `json:"version"`
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	Description     string   `json:"description,omitempty"`
	FactorioVersion string   `json:"factorio_version,omitempty"`
	Dependencies    []string `json:"dependencies,omitempty"`
}

// FileFormatError reports a MOD archive or manifest that does not match
// the expected shape.
type FileFormatError struct {
	Path   string
	Reason string
}

func (e *FileFormatError) Error() string {
	return fmt.Sprintf("scanner: %s: %s", e.Path, e.Reason)
}

// Installed is one MOD found on disk: its identity, parsed version,
// manifest, and the path to remove on uninstall (the zip archive, or the
// exploded directory).
type Installed struct {
	ModID    version.ModID
	Version  version.ModVersion
	Manifest Manifest
	Path     string
}

func parseManifest(path string, data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, &FileFormatError{Path: path, Reason: fmt.Sprintf("invalid info.json: %v", err)}
	}
	if m.Name == "" {
		return Manifest{}, &FileFormatError{Path: path, Reason: "info.json missing required field \"name\""}
	}
	if m.Version == "" {
		return Manifest{}, &FileFormatError{Path: path, Reason: "info.json missing required field \"version\""}
	}
	return m, nil
}
