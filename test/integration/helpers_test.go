//go:build integration

package integration_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poppy-build/poppup/internal/artifact"
	"github.com/poppy-build/poppup/internal/artifactory"
	"github.com/poppy-build/poppup/internal/artifactory/fakestore"
	"github.com/poppy-build/poppup/internal/logger"
)

// testEnv holds an isolated store and the directories a CI job touches.
type testEnv struct {
	Store      *fakestore.Store
	Client     *artifactory.Client
	HomeDir    string // profiles and the receipt directory
	ProjectDir string // the Cargo project being published
	WorkDir    string // where install-latest downloads and unpacks
	BinDir     string // install target
}

// setupTestEnv starts a fake store with credentials and creates sandboxed
// directories. HOME is pointed at the sandbox for the test's duration.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := fakestore.New(t)
	store.User, store.Token = "gitlab_ci", "reftkn-0123456789abcdef"

	loc := artifact.Locator{BaseURL: store.URL(), Repository: "poppy-cxx-repo", Path: "radar"}
	client := artifactory.New(loc,
		artifactory.NewCredentials("gitlab_ci", "reftkn-0123456789abcdef", ""),
		artifactory.WithHTTPClient(store.Client()),
		artifactory.WithLogger(logger.Discard()))

	env := &testEnv{
		Store:      store,
		Client:     client,
		HomeDir:    t.TempDir(),
		ProjectDir: t.TempDir(),
		WorkDir:    t.TempDir(),
	}
	env.BinDir = filepath.Join(env.HomeDir, ".local", "bin")
	t.Setenv("HOME", env.HomeDir)
	return env
}

// buildRelease writes Cargo.toml with version and a release tarball holding
// a single "poppy" script. Returns the manifest and tarball paths.
func buildRelease(t *testing.T, projectDir, version string) (string, string) {
	t.Helper()

	manifestPath := filepath.Join(projectDir, "Cargo.toml")
	writeFile(t, manifestPath, `[package]
name = "poppy"
version = "`+version+`"
authors = ["radar"]
edition = "2021"

[dependencies]
serde = "1"
`)

	script := "#!/bin/sh\necho poppy " + version + "\n"
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	if err := tw.WriteHeader(&tar.Header{Name: "poppy", Mode: 0755, Size: int64(len(script)), Typeflag: tar.TypeReg}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write([]byte(script)); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	tarballPath := filepath.Join(projectDir, "target", "poppy.tar.gz")
	writeFile(t, tarballPath, buf.String())
	return manifestPath, tarballPath
}

// writeFile creates parent directories and writes content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertDirEmpty fails the test if dir holds anything.
func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Errorf("reading %s: %v", dir, err)
		return
	}
	for _, e := range entries {
		t.Errorf("unexpected leftover in %s: %s", dir, e.Name())
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
