package syncplugin

import (
	"os"
	"sync"
	"time"

	"github.com/moerwald/quartznet/internal/logger"
)

// fileScanTask watches one resolved path and invokes the callback when the
// file's modification time advances. The first run only records the
// current modification time, so the immediate fire at registration does
// not trigger a redundant reload on top of the plugin's initial load.
type fileScanTask struct {
	path   string
	cb     func(path string)
	logger *logger.Logger

	mu      sync.Mutex
	lastMod time.Time
	primed  bool
}

func newFileScanTask(path string, cb func(path string), log *logger.Logger) *fileScanTask {
	return &fileScanTask{path: path, cb: cb, logger: log}
}

// Run performs one scan tick.
func (t *fileScanTask) Run() {
	fi, err := os.Stat(t.path)
	if err != nil {
		// A vanished or remote file has no local modification time; the
		// plugin's own found/not-found state covers it.
		t.logger.Debug("scan target not statable",
			logger.Field{Key: "file", Value: t.path})
		return
	}

	t.mu.Lock()
	modTime := fi.ModTime()
	changed := t.primed && modTime.After(t.lastMod)
	t.lastMod = modTime
	t.primed = true
	t.mu.Unlock()

	if changed {
		t.logger.Info("job file change detected",
			logger.Field{Key: "file", Value: t.path})
		t.cb(t.path)
	}
}
