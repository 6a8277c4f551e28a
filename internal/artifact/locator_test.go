package artifact

import (
	"errors"
	"net/url"
	"path"
	"testing"
)

var testLocator = Locator{
	BaseURL:    "http://store.example/artifactory/",
	Repository: "poppy-cxx-repo",
	Path:       "radar",
}

var poppy = Coordinate{Name: "poppy", Version: "1.4.0", Arch: "linux-x86_64", Dist: "executable"}

func TestLocate(t *testing.T) {
	got, err := testLocator.Locate(poppy)
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	want := "http://store.example/artifactory/poppy-cxx-repo/radar/poppy/poppy-1.4.0-linux-x86_64-executable.tar.gz"
	if got != want {
		t.Errorf("Locate = %q, want %q", got, want)
	}

	again, _ := testLocator.Locate(poppy)
	if again != got {
		t.Errorf("Locate is not deterministic: %q vs %q", got, again)
	}
}

func TestLocate_RoundTrip(t *testing.T) {
	coords := []Coordinate{
		poppy,
		{Name: "puff", Version: "0.1.0", Arch: "windows-x86_64", Dist: "static"},
		{Name: "poppy-cli", Version: "2.0.0", Arch: "linux-aarch64", Dist: "shared"},
	}
	for _, c := range coords {
		t.Run(c.String(), func(t *testing.T) {
			raw, err := testLocator.Locate(c)
			if err != nil {
				t.Fatalf("Locate failed: %v", err)
			}
			u, err := url.Parse(raw)
			if err != nil {
				t.Fatalf("generated URL does not parse: %v", err)
			}
			last := path.Base(u.Path)
			if last != c.FileName() {
				t.Errorf("last segment = %q, want %q", last, c.FileName())
			}
			back, err := ParseFileName(c.Name, last)
			if err != nil {
				t.Fatalf("ParseFileName failed: %v", err)
			}
			if back != c {
				t.Errorf("ParseFileName = %+v, want %+v", back, c)
			}
		})
	}
}

func TestLocate_InvalidCoordinate(t *testing.T) {
	tests := []struct {
		field string
		c     Coordinate
	}{
		{"name", Coordinate{Version: "1.0.0", Arch: "a", Dist: "d"}},
		{"version", Coordinate{Name: "n", Arch: "a", Dist: "d"}},
		{"arch", Coordinate{Name: "n", Version: "1.0.0", Dist: "d"}},
		{"dist", Coordinate{Name: "n", Version: "1.0.0", Arch: " "}},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			_, err := testLocator.Locate(tt.c)
			var invalid *InvalidCoordinateError
			if !errors.As(err, &invalid) {
				t.Fatalf("error = %v, want *InvalidCoordinateError", err)
			}
			if tt.field != "dist" && invalid.Field != tt.field {
				t.Errorf("Field = %q, want %q", invalid.Field, tt.field)
			}
		})
	}
}

func TestStorageAPIURL(t *testing.T) {
	got, err := testLocator.StorageAPIURL(poppy)
	if err != nil {
		t.Fatalf("StorageAPIURL failed: %v", err)
	}
	want := "http://store.example/artifactory/api/storage/poppy-cxx-repo/radar/poppy/poppy-1.4.0-linux-x86_64-executable.tar.gz"
	if got != want {
		t.Errorf("StorageAPIURL = %q, want %q", got, want)
	}
}

func TestQueryEndpoint(t *testing.T) {
	want := "http://store.example/artifactory/api/search/aql"
	if got := testLocator.QueryEndpoint(); got != want {
		t.Errorf("QueryEndpoint = %q, want %q", got, want)
	}
}

func TestLatestURL(t *testing.T) {
	found := "poppy-1.3.0-linux-x86_64-executable.tar.gz"
	want := "http://store.example/artifactory/poppy-cxx-repo/radar/poppy/" + found
	if got := testLocator.LatestURL("poppy", found); got != want {
		t.Errorf("LatestURL = %q, want %q", got, want)
	}

	wantAPI := "http://store.example/artifactory/api/storage/poppy-cxx-repo/radar/poppy/" + found
	if got := testLocator.LatestStorageAPIURL("poppy", found); got != wantAPI {
		t.Errorf("LatestStorageAPIURL = %q, want %q", got, wantAPI)
	}
}

func TestLatestURL_NoPath(t *testing.T) {
	l := Locator{BaseURL: "http://h/artifactory", Repository: "repo"}
	want := "http://h/artifactory/repo/tool/tool-1.0.0-x-executable.tar.gz"
	if got := l.LatestURL("tool", "tool-1.0.0-x-executable.tar.gz"); got != want {
		t.Errorf("LatestURL = %q, want %q", got, want)
	}
}

func TestLatestQuery(t *testing.T) {
	want := `items.find({"repo": "poppy-cxx-repo", "name": {"$match": "poppy-*"}}).sort({"$desc": ["created"]}).limit(2)`
	if got := testLocator.LatestQuery("poppy", "", ""); got != want {
		t.Errorf("LatestQuery = %q, want %q", got, want)
	}

	wantArch := `items.find({"repo": "poppy-cxx-repo", "name": {"$match": "poppy-*-linux-x86_64-executable.tar.gz"}}).sort({"$desc": ["created"]}).limit(2)`
	if got := testLocator.LatestQuery("poppy", "linux-x86_64", ""); got != wantArch {
		t.Errorf("LatestQuery(arch) = %q, want %q", got, wantArch)
	}
}
