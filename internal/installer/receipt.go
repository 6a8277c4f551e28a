package installer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

const receiptFileName = "installed.json"

// Receipt records the last successful install.
type Receipt struct {
	Artifact    string    `json:"artifact"`
	Version     string    `json:"version,omitempty"`
	URL         string    `json:"url"`
	Path        string    `json:"path"`
	SHA256      string    `json:"sha256"`
	InstalledAt time.Time `json:"installed_at"`
}

// LoadReceipt reads the receipt from dir.
// Returns nil, nil if nothing was installed yet.
func LoadReceipt(dir string) (*Receipt, error) {
	path := filepath.Join(dir, receiptFileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading install receipt: %w", err)
	}

	var r Receipt
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing install receipt: %w", err)
	}
	return &r, nil
}

// SaveReceipt writes the receipt to dir.
func SaveReceipt(dir string, r *Receipt) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating receipt directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling install receipt: %w", err)
	}

	path := filepath.Join(dir, receiptFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing install receipt: %w", err)
	}
	return nil
}

// CompareVersions compares two version strings using semver.
// Returns -1 if a < b, 0 if equal, 1 if a > b. A leading "v" is tolerated.
func CompareVersions(a, b string) (int, error) {
	av, err := semver.NewVersion(strings.TrimPrefix(a, "v"))
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", a, err)
	}
	bv, err := semver.NewVersion(strings.TrimPrefix(b, "v"))
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", b, err)
	}
	return av.Compare(bv), nil
}
