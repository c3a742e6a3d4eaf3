package resolver

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moerwald/quartznet/internal/logger"
	"github.com/moerwald/quartznet/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "debug", Format: "text", Output: "stdout"})
	require.NoError(t, err)
	return log
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestResolve_DirectPath(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := writeFile(t, tmpDir, "jobs.xml", "<job-scheduling-data/>")

	r := New(nil, testLogger(t))
	res := r.Resolve(filePath)

	assert.True(t, res.Found)
	assert.Equal(t, filePath, res.Path)
	assert.Equal(t, "jobs.xml", res.BaseName)
}

func TestResolve_EnvExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "jobs.xml", "data")
	t.Setenv("QUARTZ_JOBS_DIR", tmpDir)

	r := New(nil, testLogger(t))
	res := r.Resolve("${QUARTZ_JOBS_DIR}/jobs.xml")

	assert.True(t, res.Found)
	assert.Equal(t, filepath.Join(tmpDir, "jobs.xml"), res.Path)
}

func TestResolve_Idempotent(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := writeFile(t, tmpDir, "jobs.xml", "data")

	r := New(nil, testLogger(t))
	first := r.Resolve(filePath)
	second := r.Resolve(filePath)

	assert.Equal(t, first, second)
}

func TestResolve_NotFound(t *testing.T) {
	r := New(nil, testLogger(t))
	res := r.Resolve("missing.xml")

	assert.False(t, res.Found)
	assert.Equal(t, "missing.xml", res.BaseName)
	assert.NotEmpty(t, res.Path)
}

func TestResolve_SearchPath(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "jobs.xml", "data")

	locator := NewSearchPathLocator([]string{t.TempDir(), tmpDir})
	r := New([]Locator{locator}, testLogger(t))

	res := r.Resolve("jobs.xml")
	assert.True(t, res.Found)
	assert.Equal(t, filepath.Join(tmpDir, "jobs.xml"), res.Path)
	assert.Equal(t, "jobs.xml", res.BaseName)
}

func TestResolve_RemoteFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/jobs/quartz_jobs.xml" {
			_, _ = w.Write([]byte("<job-scheduling-data/>"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	remote, err := NewRemoteLocator(server.URL + "/jobs")
	require.NoError(t, err)

	r := New([]Locator{remote}, testLogger(t),
		WithRetry(retry.Config{MaxAttempts: 1, InitialBackoff: time.Millisecond}))

	res := r.Resolve("quartz_jobs.xml")
	assert.True(t, res.Found)
	assert.Equal(t, server.URL+"/jobs/quartz_jobs.xml", res.Path)
	assert.Equal(t, "quartz_jobs.xml", res.BaseName)
}

func TestResolve_RemoteNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	remote, err := NewRemoteLocator(server.URL)
	require.NoError(t, err)

	r := New([]Locator{remote}, testLogger(t),
		WithRetry(retry.Config{MaxAttempts: 1, InitialBackoff: time.Millisecond}))

	res := r.Resolve("missing.xml")
	assert.False(t, res.Found)
}

func TestResolve_SearchPathWinsOverRemote(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "jobs.xml", "data")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("remote"))
	}))
	defer server.Close()

	remote, err := NewRemoteLocator(server.URL)
	require.NoError(t, err)

	r := New([]Locator{NewSearchPathLocator([]string{tmpDir}), remote}, testLogger(t))

	res := r.Resolve("jobs.xml")
	assert.True(t, res.Found)
	assert.Equal(t, filepath.Join(tmpDir, "jobs.xml"), res.Path)
}

func TestSearchPathLocator_Miss(t *testing.T) {
	locator := NewSearchPathLocator([]string{t.TempDir()})
	_, ok := locator.Locate("nope.xml")
	assert.False(t, ok)
}

func TestRemoteLocator_JoinsPath(t *testing.T) {
	remote, err := NewRemoteLocator("https://config.example.com/jobs/")
	require.NoError(t, err)

	u, ok := remote.Locate("quartz_jobs.xml")
	require.True(t, ok)
	assert.Equal(t, "https://config.example.com/jobs/quartz_jobs.xml", u.String())
}

func TestExpandReference_Home(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "jobs.xml"), ExpandReference("~/jobs.xml"))
}

func TestOpenURL_FileScheme(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := writeFile(t, tmpDir, "jobs.xml", "data")

	r := New(nil, testLogger(t))
	res, ok := r.openURL(&url.URL{Scheme: "file", Path: filePath})

	require.True(t, ok)
	assert.True(t, res.Found)
	assert.Equal(t, filePath, res.Path)
}
