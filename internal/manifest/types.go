package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultFileName is the manifest looked up in the working directory.
const DefaultFileName = "Cargo.toml"

// ErrManifestNotFound is returned when the manifest path does not exist.
var ErrManifestNotFound = errors.New("manifest not found")

// Manifest holds the fields poppup needs from a project manifest.
type Manifest struct {
	Package Package `toml:"package"`
	// Version is a top-level version key, used when [package] has none.
	Version string `toml:"version"`
}

// Package is the [package] table.
type Package struct {
	Name        string   `toml:"name"`
	Version     string   `toml:"version"`
	Authors     []string `toml:"authors"`
	Description string   `toml:"description"`
}

// DeclaredVersion returns the package version, falling back to the
// top-level version key.
func (m *Manifest) DeclaredVersion() string {
	if m.Package.Version != "" {
		return m.Package.Version
	}
	return m.Version
}

// MalformedError reports a manifest that exists but cannot yield a version.
type MalformedError struct {
	Path   string
	Issues []ValidationIssue
	Err    error
}

func (e *MalformedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "malformed manifest %s", e.Path)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	for _, issue := range e.Issues {
		if issue.Path != "" {
			fmt.Fprintf(&b, "; %s: %s", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(&b, "; %s", issue.Message)
		}
	}
	return b.String()
}

func (e *MalformedError) Unwrap() error { return e.Err }
