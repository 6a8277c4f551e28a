package artifact

import (
	"fmt"
	"strings"
)

// Locator turns coordinates into URLs for one repository.
type Locator struct {
	// BaseURL is the store root including its context path,
	// e.g. http://host/artifactory.
	BaseURL string
	// Repository is the repository key, e.g. poppy-cxx-repo.
	Repository string
	// Path is the folder inside the repository, e.g. radar. May be empty.
	Path string
}

// Locate returns <base>/<repo>/<path>/<name>/<name>-<version>-<arch>-<dist>.tar.gz.
func (l Locator) Locate(c Coordinate) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	return l.format(l.storageRoot(), c), nil
}

// StorageAPIURL returns the storage API (metadata) URL of c.
func (l Locator) StorageAPIURL(c Coordinate) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	return l.format(l.apiStorageRoot(), c), nil
}

// QueryEndpoint returns the AQL search endpoint.
func (l Locator) QueryEndpoint() string {
	return l.base() + "/api/search/aql"
}

// LatestURL returns the download URL of an artifact discovered by a query.
// The name-only template is cut at its last slash and found is appended
// verbatim, so query results are never re-derived into coordinates.
func (l Locator) LatestURL(name, found string) string {
	return insertLatest(l.format(l.storageRoot(), Coordinate{Name: name}), found)
}

// LatestStorageAPIURL is LatestURL for the storage API.
func (l Locator) LatestStorageAPIURL(name, found string) string {
	return insertLatest(l.format(l.apiStorageRoot(), Coordinate{Name: name}), found)
}

// LatestQuery returns the AQL text listing the newest artifacts of name in
// the repository, newest first, at most two. With an empty arch every
// artifact of the name matches.
func (l Locator) LatestQuery(name, arch, dist string) string {
	pattern := name + "-*"
	if arch != "" {
		if dist == "" {
			dist = DefaultDist
		}
		pattern = fmt.Sprintf("%s-*-%s-%s%s", name, arch, dist, Extension)
	}
	return fmt.Sprintf(`items.find({"repo": %q, "name": {"$match": %q}}).sort({"$desc": ["created"]}).limit(2)`,
		l.Repository, pattern)
}

func (l Locator) format(root string, c Coordinate) string {
	return fmt.Sprintf("%s/%s/%s", root, c.Name, c.FileName())
}

func insertLatest(templated, found string) string {
	return templated[:strings.LastIndex(templated, "/")] + "/" + found
}

func (l Locator) base() string {
	return strings.TrimRight(l.BaseURL, "/")
}

func (l Locator) storageRoot() string {
	return joinURL(l.base(), l.Repository, l.Path)
}

func (l Locator) apiStorageRoot() string {
	return joinURL(l.base(), "api", "storage", l.Repository, l.Path)
}

func joinURL(base string, parts ...string) string {
	out := base
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			out += "/" + p
		}
	}
	return out
}
