// Package fakestore is an in-memory Artifactory stand-in for tests. It
// serves artifact HEAD/GET/PUT, the storage API and a small subset of AQL
// (repo + $match, sorted by creation time, limited).
package fakestore

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
)

// Request records one call the store received.
type Request struct {
	Method string
	Path   string
	Body   string
}

type object struct {
	data    []byte
	created time.Time
}

// Store is a fake artifact store. Paths are relative to the server root,
// so a locator pointing at it uses the server URL as BaseURL.
type Store struct {
	// User and Token, when set, are required as basic auth.
	User  string
	Token string

	mu       sync.Mutex
	objects  map[string]object
	requests []Request
	status   map[string]int
	clock    time.Time

	server *httptest.Server
}

// New starts a fake store. It is closed when the test ends.
func New(t interface {
	Helper()
	Cleanup(func())
}) *Store {
	t.Helper()
	s := &Store{
		objects: make(map[string]object),
		status:  make(map[string]int),
		clock:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	s.server = httptest.NewServer(s.Handler())
	t.Cleanup(s.server.Close)
	return s
}

// URL returns the server root.
func (s *Store) URL() string {
	return s.server.URL
}

// Client returns an HTTP client for the server.
func (s *Store) Client() *http.Client {
	return s.server.Client()
}

// Handler returns the router serving the fake API.
func (s *Store) Handler() http.Handler {
	r := httprouter.New()
	r.HEAD("/*path", s.head)
	r.GET("/*path", s.get)
	r.PUT("/*path", s.put)
	r.POST("/api/search/aql", s.aql)
	return r
}

// Put stores data at p (e.g. "/repo/radar/poppy/poppy-1.0.0-...tar.gz").
// Each call is one minute newer than the previous one.
func (s *Store) Put(p string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(p, data)
}

// Get returns the object stored at p.
func (s *Store) Get(p string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.objects[p]
	return o.data, ok
}

// FailWith makes every request with method answer status.
func (s *Store) FailWith(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[method] = status
}

// Requests returns the calls received so far.
func (s *Store) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Methods returns the methods of the calls received so far, in order.
func (s *Store) Methods() []string {
	var out []string
	for _, r := range s.Requests() {
		out = append(out, r.Method)
	}
	return out
}

func (s *Store) putLocked(p string, data []byte) {
	s.clock = s.clock.Add(time.Minute)
	s.objects[p] = object{data: data, created: s.clock}
}

// intercept records the request and applies auth and forced failures.
// It reports whether the handler should continue.
func (s *Store) intercept(w http.ResponseWriter, r *http.Request, body string) bool {
	s.mu.Lock()
	s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Body: body})
	forced := s.status[r.Method]
	s.mu.Unlock()

	if s.User != "" || s.Token != "" {
		user, token, ok := r.BasicAuth()
		if !ok || user != s.User || token != s.Token {
			http.Error(w, `{"errors":[{"status":401,"message":"Bad credentials"}]}`, http.StatusUnauthorized)
			return false
		}
	}
	if forced != 0 {
		w.WriteHeader(forced)
		fmt.Fprintf(w, "forced status %d", forced)
		return false
	}
	return true
}

func (s *Store) head(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !s.intercept(w, r, "") {
		return
	}
	data, ok := s.Get(ps.ByName("path"))
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
}

func (s *Store) get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !s.intercept(w, r, "") {
		return
	}
	p := ps.ByName("path")
	if rest, ok := strings.CutPrefix(p, "/api/storage"); ok {
		s.storageInfo(w, rest)
		return
	}
	data, ok := s.Get(p)
	if !ok {
		http.Error(w, `{"errors":[{"status":404,"message":"File not found."}]}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/gzip")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (s *Store) put(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !s.intercept(w, r, "") {
		return
	}
	s.Put(ps.ByName("path"), data)
	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, `{"path":%q,"size":"%d"}`, ps.ByName("path"), len(data))
}

func (s *Store) storageInfo(w http.ResponseWriter, p string) {
	data, ok := s.Get(p)
	if !ok {
		http.Error(w, `{"errors":[{"status":404,"message":"Unable to find item"}]}`, http.StatusNotFound)
		return
	}
	m := md5.Sum(data)
	s1 := sha1.Sum(data)
	s256 := sha256.Sum256(data)
	writeJSON(w, map[string]interface{}{
		"path": p,
		"size": strconv.Itoa(len(data)),
		"checksums": map[string]string{
			"md5":    hex.EncodeToString(m[:]),
			"sha1":   hex.EncodeToString(s1[:]),
			"sha256": hex.EncodeToString(s256[:]),
		},
	})
}

var (
	aqlRepo  = regexp.MustCompile(`"repo"\s*:\s*"([^"]*)"`)
	aqlMatch = regexp.MustCompile(`"\$match"\s*:\s*"([^"]*)"`)
	aqlLimit = regexp.MustCompile(`\.limit\((\d+)\)`)
)

type aqlItem struct {
	Repo    string `json:"repo"`
	Path    string `json:"path"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Size    int64  `json:"size"`
	Created string `json:"created"`
}

func (s *Store) aql(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !s.intercept(w, r, string(body)) {
		return
	}

	query := string(body)
	repo := firstGroup(aqlRepo, query)
	pattern := firstGroup(aqlMatch, query)
	if repo == "" || pattern == "" {
		http.Error(w, "Failed to parse query", http.StatusBadRequest)
		return
	}

	type hit struct {
		item    aqlItem
		created time.Time
	}
	var hits []hit
	s.mu.Lock()
	for p, o := range s.objects {
		parts := strings.SplitN(strings.TrimPrefix(p, "/"), "/", 2)
		if len(parts) != 2 || parts[0] != repo {
			continue
		}
		name := path.Base(parts[1])
		if ok, _ := path.Match(pattern, name); !ok {
			continue
		}
		hits = append(hits, hit{
			item: aqlItem{
				Repo:    repo,
				Path:    path.Dir(parts[1]),
				Name:    name,
				Type:    "file",
				Size:    int64(len(o.data)),
				Created: o.created.Format(time.RFC3339),
			},
			created: o.created,
		})
	}
	s.mu.Unlock()

	sort.Slice(hits, func(i, j int) bool { return hits[i].created.After(hits[j].created) })
	if l := firstGroup(aqlLimit, query); l != "" {
		if n, _ := strconv.Atoi(l); n < len(hits) {
			hits = hits[:n]
		}
	}

	results := make([]aqlItem, 0, len(hits))
	for _, h := range hits {
		results = append(results, h.item)
	}
	writeJSON(w, map[string]interface{}{
		"results": results,
		"range": map[string]int{
			"start_pos": 0,
			"end_pos":   len(results),
			"total":     len(results),
		},
	})
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
