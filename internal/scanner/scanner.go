package scanner

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"factorix/internal/version"
)

// modZipRe matches the archive-file naming convention "<name>_<version>.zip".
var modZipRe = regexp.MustCompile(`^(.+)_(\d+\.\d+\.\d+)\.zip$`)

// Scan enumerates every MOD under modsDir: zipped archives matching
// "<name>_<version>.zip" (manifest read from the first info.json found at
// the archive's root or one directory deep, normally
// "<name>_<version>/info.json") and exploded directories (manifest read
// from "<dir>/info.json").
func Scan(modsDir string) ([]Installed, error) {
	entries, err := os.ReadDir(modsDir)
	if err != nil {
		return nil, err
	}

	var out []Installed
	for _, e := range entries {
		name := e.Name()
		switch {
		case !e.IsDir() && strings.HasSuffix(name, ".zip"):
			inst, err := scanZip(filepath.Join(modsDir, name))
			if err != nil {
				return nil, err
			}
			if inst != nil {
				out = append(out, *inst)
			}
		case e.IsDir():
			inst, err := scanDir(filepath.Join(modsDir, name))
			if err != nil {
				return nil, err
			}
			if inst != nil {
				out = append(out, *inst)
			}
		}
	}
	return out, nil
}

func scanZip(path string) (*Installed, error) {
	match := modZipRe.FindStringSubmatch(filepath.Base(path))
	if match == nil {
		return nil, nil
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, &FileFormatError{Path: path, Reason: "not a valid zip archive: " + err.Error()}
	}
	defer zr.Close()

	var manifestFile *zip.File
	for _, f := range zr.File {
		if filepath.Base(f.Name) == "info.json" && strings.Count(f.Name, "/") <= 1 {
			manifestFile = f
			break
		}
	}
	if manifestFile == nil {
		return nil, &FileFormatError{Path: path, Reason: "archive does not contain an info.json"}
	}

	rc, err := manifestFile.Open()
	if err != nil {
		return nil, &FileFormatError{Path: path, Reason: err.Error()}
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &FileFormatError{Path: path, Reason: err.Error()}
	}

	m, err := parseManifest(path, data)
	if err != nil {
		return nil, err
	}
	return toInstalled(path, path, m)
}

func scanDir(dir string) (*Installed, error) {
	manifestPath := filepath.Join(dir, "info.json")
	data, err := os.ReadFile(manifestPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m, err := parseManifest(manifestPath, data)
	if err != nil {
		return nil, err
	}
	return toInstalled(manifestPath, dir, m)
}

// toInstalled builds an Installed record. errPath names the file to
// attribute parse errors to; installPath is what a later uninstall
// should remove (the zip archive, or the exploded mod directory).
func toInstalled(errPath, installPath string, m Manifest) (*Installed, error) {
	v, err := version.ParseModVersion(m.Version)
	if err != nil {
		return nil, &FileFormatError{Path: errPath, Reason: "invalid mod version: " + err.Error()}
	}
	return &Installed{ModID: version.ModID(m.Name), Version: v, Manifest: m, Path: installPath}, nil
}
