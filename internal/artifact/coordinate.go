package artifact

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// DefaultDist is the distribution kind of a packaged executable.
const DefaultDist = "executable"

// Extension is appended to every artifact file name.
const Extension = ".tar.gz"

// Coordinate identifies one artifact object in the store.
type Coordinate struct {
	Name    string
	Version string
	Arch    string
	Dist    string
}

// InvalidCoordinateError reports a coordinate with an empty required field.
type InvalidCoordinateError struct {
	Field string
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinate: %s cannot be empty", e.Field)
}

// Validate rejects coordinates with empty fields.
func (c Coordinate) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"name", c.Name},
		{"version", c.Version},
		{"arch", c.Arch},
		{"dist", c.Dist},
	} {
		if strings.TrimSpace(f.value) == "" {
			return &InvalidCoordinateError{Field: f.name}
		}
	}
	return nil
}

// FileName returns <name>-<version>-<arch>-<dist>.tar.gz.
func (c Coordinate) FileName() string {
	return fmt.Sprintf("%s-%s-%s-%s%s", c.Name, c.Version, c.Arch, c.Dist, Extension)
}

func (c Coordinate) String() string {
	return strings.TrimSuffix(c.FileName(), Extension)
}

// ParseFileName recovers the coordinate of an artifact called file that
// belongs to the package name. The architecture may itself contain dashes
// ("linux-x86_64"); the distribution is the last dash-separated field.
func ParseFileName(name, file string) (Coordinate, error) {
	rest, ok := strings.CutSuffix(file, Extension)
	if !ok {
		return Coordinate{}, fmt.Errorf("%s: not a %s artifact", file, Extension)
	}
	rest, ok = strings.CutPrefix(rest, name+"-")
	if !ok || name == "" {
		return Coordinate{}, fmt.Errorf("%s: does not belong to package %q", file, name)
	}

	version, rest, ok := strings.Cut(rest, "-")
	if !ok {
		return Coordinate{}, fmt.Errorf("%s: missing architecture and distribution", file)
	}
	if _, err := semver.StrictNewVersion(version); err != nil {
		return Coordinate{}, fmt.Errorf("%s: version %q: %w", file, version, err)
	}

	i := strings.LastIndex(rest, "-")
	if i <= 0 || i == len(rest)-1 {
		return Coordinate{}, fmt.Errorf("%s: missing architecture or distribution", file)
	}

	c := Coordinate{Name: name, Version: version, Arch: rest[:i], Dist: rest[i+1:]}
	return c, nil
}
