// Package resolver turns logical job-file references into concrete,
// readable locations. A reference is tried as a filesystem path first
// (after environment expansion), then against the configured locators;
// a remote URL candidate falls back from a local open of its decoded
// path to an HTTP fetch. A failed branch means "try the next source",
// never a propagated error.
package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/moerwald/quartznet/internal/logger"
	"github.com/moerwald/quartznet/internal/retry"
)

// Resolution is the outcome of resolving one file reference.
// Path and BaseName are best-effort even when Found is false, so callers
// can still key scan jobs and lookups on them.
type Resolution struct {
	Found    bool
	Path     string
	BaseName string
}

// Resolver resolves file references across filesystem, search-path and
// remote sources.
type Resolver struct {
	locators []Locator
	client   *http.Client
	retry    retry.Config
	logger   *logger.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient overrides the HTTP client used for remote fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) { r.client = c }
}

// WithRetry overrides the retry policy for remote fetches.
func WithRetry(cfg retry.Config) Option {
	return func(r *Resolver) { r.retry = cfg }
}

// New creates a resolver consulting the given locators in order.
func New(locators []Locator, log *logger.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		locators: locators,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve resolves one file reference. Resolution is idempotent for an
// unchanged reference and file set.
func (r *Resolver) Resolve(reference string) Resolution {
	expanded := ExpandReference(reference)

	if fi, err := os.Stat(expanded); err == nil && fi.Mode().IsRegular() {
		abs := absOrSelf(expanded)
		return Resolution{Found: true, Path: abs, BaseName: filepath.Base(abs)}
	}

	// The locators are asked with the original reference, not the
	// expanded one.
	for _, locator := range r.locators {
		u, ok := locator.Locate(reference)
		if !ok {
			continue
		}
		if res, ok := r.openURL(u); ok {
			return res
		}
	}

	abs := absOrSelf(expanded)
	return Resolution{Found: false, Path: abs, BaseName: filepath.Base(abs)}
}

// openURL checks that a candidate URL is readable. The decoded path is
// tried as a local file first; only if that fails is an HTTP(S) fetch
// attempted. Any opened stream is closed before returning.
func (r *Resolver) openURL(u *url.URL) (Resolution, bool) {
	decoded := u.Path

	if decoded != "" {
		if f, err := os.Open(decoded); err == nil {
			r.closeStream(f, decoded)
			abs := absOrSelf(decoded)
			return Resolution{Found: true, Path: abs, BaseName: filepath.Base(abs)}, true
		}
	}

	if u.Scheme == "http" || u.Scheme == "https" {
		if err := r.probeRemote(u.String()); err != nil {
			r.logger.Warn("remote job file not reachable",
				logger.Field{Key: "url", Value: u.String()},
				logger.Field{Key: "error", Value: err})
			return Resolution{}, false
		}
		return Resolution{Found: true, Path: u.String(), BaseName: path.Base(u.Path)}, true
	}

	return Resolution{}, false
}

// probeRemote fetches the URL to confirm it serves data.
func (r *Resolver) probeRemote(rawURL string) error {
	_, err := retry.Do(context.Background(), func() ([]byte, error) {
		resp, err := r.client.Get(rawURL)
		if err != nil {
			return nil, err
		}
		defer func() {
			if cerr := resp.Body.Close(); cerr != nil {
				r.logger.Warn("error closing response body",
					logger.Field{Key: "url", Value: rawURL},
					logger.Field{Key: "error", Value: cerr})
			}
		}()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, rawURL)
		}
		// Only existence matters here; the body is discarded.
		_, err = io.Copy(io.Discard, resp.Body)
		return nil, err
	}, r.retry)
	return err
}

// closeStream closes an opened file, demoting a close failure to a warning.
func (r *Resolver) closeStream(c io.Closer, name string) {
	if err := c.Close(); err != nil {
		r.logger.Warn("error closing file",
			logger.Field{Key: "file", Value: name},
			logger.Field{Key: "error", Value: err})
	}
}

// ExpandReference applies symbolic path substitution to a raw reference:
// ${VAR} environment expansion and a leading ~ home expansion.
func ExpandReference(ref string) string {
	expanded := os.ExpandEnv(ref)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			expanded = filepath.Join(home, strings.TrimPrefix(expanded, "~"))
		}
	}
	return expanded
}

func absOrSelf(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
