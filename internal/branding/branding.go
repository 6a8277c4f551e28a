// Package branding provides compile-time identity values for the CLI.
//
// The embedded branding.yaml carries the command name, the dot-directory and
// env prefix used for configuration, and the default store coordinates a
// fresh install talks to. Nothing secret belongs in this file: credentials
// are always supplied at runtime.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName        string `yaml:"cli_name"`
	DisplayName    string `yaml:"display_name"`
	Description    string `yaml:"description"`
	HomeDir        string `yaml:"home_dir"`
	EnvPrefix      string `yaml:"env_prefix"`
	ArtifactoryURL string `yaml:"artifactory_url"`
	Repository     string `yaml:"repository"`
	RepositoryPath string `yaml:"repository_path"`
	PackageName    string `yaml:"package_name"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:        "poppup",
			DisplayName:    "Poppup",
			Description:    "Publish and install build artifacts",
			HomeDir:        ".poppup",
			EnvPrefix:      "POPPUP",
			ArtifactoryURL: "http://localhost:8081/artifactory",
			Repository:     "poppy-cxx-repo",
			RepositoryPath: "radar",
			PackageName:    "poppy",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "poppup").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".poppup").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "POPPUP").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// ArtifactoryURL returns the default store base URL, up to and including
// the /artifactory context path.
func ArtifactoryURL() string { load(); return defaults.ArtifactoryURL }

// Repository returns the default repository key.
func Repository() string { load(); return defaults.Repository }

// RepositoryPath returns the default folder inside the repository under
// which artifacts are laid out.
func RepositoryPath() string { load(); return defaults.RepositoryPath }

// PackageName returns the default artifact name for --name.
func PackageName() string { load(); return defaults.PackageName }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("token") → "POPPUP_TOKEN".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
