package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func setup(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	viper.Reset()
	t.Cleanup(viper.Reset)
	return home
}

func TestLoad_Defaults(t *testing.T) {
	home := setup(t)
	Load()

	s, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if s.Repo != "poppy-cxx-repo" {
		t.Errorf("Repo = %q, want poppy-cxx-repo", s.Repo)
	}
	if s.Token != "" {
		t.Errorf("Token = %q, want empty (no compiled-in credentials)", s.Token)
	}
	if want := filepath.Join(home, ".local", "bin"); s.InstallDir != want {
		t.Errorf("InstallDir = %q, want %q", s.InstallDir, want)
	}
	if s.LogConfig().Level != "info" {
		t.Errorf("LogConfig().Level = %q, want info", s.LogConfig().Level)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	setup(t)
	if err := os.MkdirAll(Dir(), 0755); err != nil {
		t.Fatal(err)
	}
	content := "user: file-user\ntoken: file-token\nrepo: file-repo\n"
	if err := os.WriteFile(FilePath(), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("POPPUP_TOKEN", "env-token")
	t.Setenv("POPPUP_TOKEN_LONG", "env-long")

	Load()
	s, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if s.User != "file-user" {
		t.Errorf("User = %q, want file-user", s.User)
	}
	if s.Token != "env-token" {
		t.Errorf("Token = %q, want env-token", s.Token)
	}
	if s.TokenLong != "env-long" {
		t.Errorf("TokenLong = %q, want env-long", s.TokenLong)
	}
	if s.Repo != "file-repo" {
		t.Errorf("Repo = %q, want file-repo", s.Repo)
	}
}

func TestBindFlags_FlagWins(t *testing.T) {
	setup(t)
	t.Setenv("POPPUP_USER", "env-user")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("user", "", "")
	fs.String("token-long", "", "")
	fs.Bool("push", false, "")

	Load()
	if err := BindFlags(fs); err != nil {
		t.Fatalf("BindFlags failed: %v", err)
	}
	if err := fs.Parse([]string{"--user", "flag-user", "--token-long", "abc"}); err != nil {
		t.Fatal(err)
	}

	s, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if s.User != "flag-user" {
		t.Errorf("User = %q, want flag-user", s.User)
	}
	if s.TokenLong != "abc" {
		t.Errorf("TokenLong = %q, want abc", s.TokenLong)
	}
}

func TestSet_WritesFile(t *testing.T) {
	setup(t)
	Load()

	if err := Set(KeyUser, "gitlab_ci"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	info, err := os.Stat(FilePath())
	if err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode = %o, want 600", perm)
	}

	viper.Reset()
	Load()
	if got := Get(KeyUser); got != "gitlab_ci" {
		t.Errorf("Get(user) = %q, want gitlab_ci", got)
	}
}

func TestSet_UnknownKey(t *testing.T) {
	setup(t)
	Load()
	if err := Set("mirror", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestSet_KeepsEnvOutOfFile(t *testing.T) {
	setup(t)
	t.Setenv("POPPUP_TOKEN", "env-secret-token")
	Load()

	if err := Set(KeyRepo, "other-repo"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := Set(KeyUser, "gitlab_ci"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, err := os.ReadFile(FilePath())
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if strings.Contains(content, "env-secret-token") {
		t.Errorf("config file leaked the environment token:\n%s", content)
	}
	if !strings.Contains(content, "other-repo") || !strings.Contains(content, "gitlab_ci") {
		t.Errorf("config file lost a value:\n%s", content)
	}
}
