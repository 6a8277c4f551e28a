package installer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeArchive(t *testing.T, dir string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, "poppy-latest.tar.gz")
	if err := os.WriteFile(p, data, 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestExtractSingle(t *testing.T) {
	dir := t.TempDir()
	archive := writeArchive(t, dir, tarball(t, entry{name: "./", dir: true}, entry{name: "./poppy", body: "#!/bin/sh\necho poppy\n"}))

	got, err := ExtractSingle(archive, dir)
	if err != nil {
		t.Fatalf("ExtractSingle failed: %v", err)
	}
	if got != filepath.Join(dir, "poppy") {
		t.Errorf("extracted path = %q", got)
	}
	data, err := os.ReadFile(got)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "#!/bin/sh\necho poppy\n" {
		t.Errorf("extracted content = %q", data)
	}
}

func TestExtractSingle_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		entries []entry
	}{
		{"empty", nil},
		{"only directory", []entry{{name: "bin/", dir: true}}},
		{"two files", []entry{{name: "poppy", body: "a"}, {name: "README", body: "b"}}},
		{"nested", []entry{{name: "bin/poppy", body: "a"}}},
		{"escaping", []entry{{name: "../poppy", body: "a"}}},
		{"absolute", []entry{{name: "/usr/bin/poppy", body: "a"}}},
		{"symlink", []entry{{name: "poppy", link: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			archive := writeArchive(t, dir, tarball(t, tt.entries...))

			_, err := ExtractSingle(archive, dir)
			var archErr *ArchiveError
			if !errors.As(err, &archErr) {
				t.Fatalf("error = %v, want *ArchiveError", err)
			}

			left, _ := os.ReadDir(dir)
			if len(left) != 1 {
				t.Errorf("directory holds %d entries after failure, want only the archive", len(left))
			}
		})
	}
}

func TestExtractSingle_NotGzip(t *testing.T) {
	dir := t.TempDir()
	archive := writeArchive(t, dir, []byte("plain text, not an archive"))

	_, err := ExtractSingle(archive, dir)
	var archErr *ArchiveError
	if !errors.As(err, &archErr) {
		t.Fatalf("error = %v, want *ArchiveError", err)
	}
}

func TestExtractSingle_SkipsGlobalHeader(t *testing.T) {
	dir := t.TempDir()
	archive := writeArchive(t, dir, tarball(t, entry{global: true}, entry{name: "poppy", body: "bin"}))

	got, err := ExtractSingle(archive, dir)
	if err != nil {
		t.Fatalf("ExtractSingle failed: %v", err)
	}
	if filepath.Base(got) != "poppy" {
		t.Errorf("extracted path = %q", got)
	}
}
