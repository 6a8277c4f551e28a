package manifest

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
)

var errNoVersion = errors.New("no version field")

// Version reads the manifest at path and returns its declared version.
func Version(path string) (string, error) {
	m, err := Read(path)
	if err != nil {
		return "", err
	}
	return m.DeclaredVersion(), nil
}

// Read parses and validates the manifest at path. The returned manifest
// always carries a semver-valid version.
func Read(path string) (*Manifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return parse(path, data)
}

func parse(path string, data []byte) (*Manifest, error) {
	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, &MalformedError{Path: path, Err: fmt.Errorf("parsing TOML: %w", err)}
	}

	result, err := validateDocument(raw)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, &MalformedError{Path: path, Issues: result.Issues}
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, &MalformedError{Path: path, Err: fmt.Errorf("decoding manifest: %w", err)}
	}

	version := strings.TrimSpace(m.DeclaredVersion())
	if version == "" {
		return nil, &MalformedError{Path: path, Err: errNoVersion}
	}
	if _, err := semver.StrictNewVersion(version); err != nil {
		return nil, &MalformedError{Path: path, Err: fmt.Errorf("version %q is not semver: %w", version, err)}
	}
	if m.Package.Version != "" {
		m.Package.Version = version
	} else {
		m.Version = version
	}

	return &m, nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
