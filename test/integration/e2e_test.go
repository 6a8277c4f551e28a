//go:build integration

package integration_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poppy-build/poppup/internal/artifact"
	"github.com/poppy-build/poppup/internal/installer"
	"github.com/poppy-build/poppup/internal/logger"
	"github.com/poppy-build/poppup/internal/manifest"
	"github.com/poppy-build/poppup/internal/publish"
)

func newInstaller(env *testEnv) *installer.Installer {
	return &installer.Installer{
		Store:      env.Client,
		Locator:    env.Client.Locator(),
		Name:       "poppy",
		WorkDir:    env.WorkDir,
		TargetDir:  env.BinDir,
		Path:       installer.NewPathRegistrar(env.HomeDir),
		Verify:     true,
		ReceiptDir: filepath.Join(env.HomeDir, ".poppup"),
		Log:        logger.Discard(),
	}
}

func pushRelease(t *testing.T, env *testEnv, version string) publish.Outcome {
	t.Helper()
	manifestPath, tarball := buildRelease(t, env.ProjectDir, version)

	v, err := manifest.Version(manifestPath)
	if err != nil {
		t.Fatalf("manifest.Version: %v", err)
	}
	coord := artifact.Coordinate{Name: "poppy", Version: v, Arch: "linux-x86_64", Dist: artifact.DefaultDist}

	p := &publish.Publisher{Store: env.Client, Log: logger.Discard()}
	outcome, err := p.Push(context.Background(), publish.Request{File: tarball, Coordinate: coord})
	if err != nil {
		t.Fatalf("Push(%s): %v", version, err)
	}
	return outcome
}

// TestFullFlowPushAndInstall covers the CI pipeline: push a release read
// from Cargo.toml, push it again (no-op), then install the latest build and
// upgrade after a newer push.
func TestFullFlowPushAndInstall(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	// Step 1: first push uploads.
	if got := pushRelease(t, env, "1.3.0"); got != publish.Pushed {
		t.Fatalf("first push outcome = %v", got)
	}

	// Step 2: same version again is left alone.
	if got := pushRelease(t, env, "1.3.0"); got != publish.AlreadyPresent {
		t.Fatalf("second push outcome = %v", got)
	}
	if got := strings.Join(env.Store.Methods(), ","); got != "HEAD,PUT,HEAD" {
		t.Errorf("push requests = %s", got)
	}

	// Step 3: install the only release.
	inst := newInstaller(env)
	res, err := inst.InstallLatest(ctx, "")
	if err != nil {
		t.Fatalf("InstallLatest: %v", err)
	}
	binary := filepath.Join(env.BinDir, "poppy")
	assertFileExists(t, binary)
	assertFileContains(t, binary, "echo poppy 1.3.0")
	assertDirEmpty(t, env.WorkDir)
	if res.Version != "1.3.0" {
		t.Errorf("installed version = %q", res.Version)
	}
	for _, profile := range []string{".bashrc", ".profile"} {
		assertFileContains(t, filepath.Join(env.HomeDir, profile), installer.ExportLine(env.BinDir))
	}

	// Step 4: a newer push is picked up and reported as an upgrade.
	if got := pushRelease(t, env, "1.4.0"); got != publish.Pushed {
		t.Fatalf("third push outcome = %v", got)
	}
	res, err = inst.InstallLatest(ctx, "linux-x86_64")
	if err != nil {
		t.Fatalf("InstallLatest after upgrade: %v", err)
	}
	if res.Previous != "1.3.0" || res.Version != "1.4.0" {
		t.Errorf("upgrade = %s -> %s", res.Previous, res.Version)
	}
	assertFileContains(t, binary, "echo poppy 1.4.0")
	assertDirEmpty(t, env.WorkDir)
}
