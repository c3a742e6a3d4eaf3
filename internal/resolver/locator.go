package resolver

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Locator resolves a logical resource name to a candidate URL.
// Implementations answer "where might this named resource live", not
// whether its data is actually readable; the resolver verifies that.
type Locator interface {
	Locate(name string) (*url.URL, bool)
}

// SearchPathLocator looks a resource name up in an ordered list of
// directories and returns a file URL for the first hit.
type SearchPathLocator struct {
	dirs []string
}

// NewSearchPathLocator creates a locator over the given directories.
func NewSearchPathLocator(dirs []string) *SearchPathLocator {
	return &SearchPathLocator{dirs: dirs}
}

func (l *SearchPathLocator) Locate(name string) (*url.URL, bool) {
	for _, dir := range l.dirs {
		candidate := filepath.Join(ExpandReference(dir), name)
		fi, err := os.Stat(candidate)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			abs = candidate
		}
		return &url.URL{Scheme: "file", Path: abs}, true
	}
	return nil, false
}

// RemoteLocator joins a resource name onto an HTTP(S) base URL.
// It always produces a candidate; reachability is checked by the caller.
type RemoteLocator struct {
	base *url.URL
}

// NewRemoteLocator creates a locator for one base URL.
func NewRemoteLocator(base string) (*RemoteLocator, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	return &RemoteLocator{base: u}, nil
}

func (l *RemoteLocator) Locate(name string) (*url.URL, bool) {
	joined := *l.base
	joined.Path = strings.TrimSuffix(joined.Path, "/") + "/" + strings.TrimPrefix(name, "/")
	return &joined, true
}
