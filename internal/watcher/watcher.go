// Package watcher regenerates bindings when schema modules change.
package watcher

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/mvp-joe/ipcgen/internal/config"
	"github.com/mvp-joe/ipcgen/internal/discovery"
)

// ErrStopped is returned by Start once Stop has been called.
var ErrStopped = errors.New("watcher stopped")

// ErrStarted is returned by a second call to Start.
var ErrStarted = errors.New("watcher already started")

// DefaultDebounce is the quiet period before a batch of changes is delivered.
const DefaultDebounce = 500 * time.Millisecond

// SchemaWatcher monitors the schema file and schema directory of a project.
// The data directory is watched rather than the schema paths themselves so
// that a schema created after startup is still noticed.
type SchemaWatcher struct {
	watcher    *fsnotify.Watcher
	schemaFile string
	schemaDir  string
	modules    *discovery.SchemaDiscovery
	debounce   time.Duration
	logger     *log.Logger

	callback      func(files []string)
	cancel        context.CancelFunc
	started       bool
	stopped       bool
	lifecycleMu   sync.Mutex
	accumulated   map[string]bool
	accumulatedMu sync.Mutex
	debounceTimer *time.Timer
	timerMu       sync.Mutex
	stopOnce      sync.Once
	doneCh        chan struct{}
}

// New creates a watcher over cfg.DataDir. The directory must exist.
// A nil logger discards watcher warnings.
func New(cfg *config.ResolvedConfig, logger *log.Logger) (*SchemaWatcher, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	modules, err := discovery.New(cfg.SchemaDir, nil, nil)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	sw := &SchemaWatcher{
		watcher:     watcher,
		schemaFile:  filepath.Clean(cfg.SchemaFile),
		schemaDir:   filepath.Clean(cfg.SchemaDir),
		modules:     modules,
		debounce:    DefaultDebounce,
		logger:      logger,
		accumulated: make(map[string]bool),
		doneCh:      make(chan struct{}),
	}

	if err := sw.addDirectoriesRecursively(cfg.DataDir); err != nil {
		watcher.Close()
		return nil, err
	}
	return sw, nil
}

// Start begins watching. callback receives the sorted set of schema paths
// changed during each debounce window and runs on the watcher goroutine, so
// invocations never overlap. A watcher runs at most once: Start fails with
// ErrStarted when called again and with ErrStopped after Stop.
func (sw *SchemaWatcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}

	sw.lifecycleMu.Lock()
	defer sw.lifecycleMu.Unlock()
	if sw.stopped {
		return ErrStopped
	}
	if sw.started {
		return ErrStarted
	}
	sw.started = true

	sw.callback = callback
	ctx, sw.cancel = context.WithCancel(ctx)

	go sw.watch(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit. It is safe to
// call more than once.
func (sw *SchemaWatcher) Stop() error {
	var err error
	sw.stopOnce.Do(func() {
		sw.lifecycleMu.Lock()
		sw.stopped = true
		cancel := sw.cancel
		sw.lifecycleMu.Unlock()

		if cancel != nil {
			cancel()
			<-sw.doneCh
		} else {
			close(sw.doneCh)
		}
		err = sw.watcher.Close()
	})
	return err
}

func (sw *SchemaWatcher) watch(ctx context.Context) {
	defer close(sw.doneCh)

	fireCh := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			sw.stopDebounceTimer()
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := sw.addDirectoriesRecursively(event.Name); err != nil {
						sw.logger.Warn("failed to watch new directory", "dir", event.Name, "err", err)
					}
				}
			}

			if !sw.isSchemaEvent(event) {
				continue
			}

			sw.accumulatedMu.Lock()
			sw.accumulated[event.Name] = true
			sw.accumulatedMu.Unlock()

			sw.resetDebounceTimer(fireCh)

		case <-fireCh:
			sw.flush()

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.logger.Warn("file watcher error", "err", err)
		}
	}
}

func (sw *SchemaWatcher) flush() {
	sw.accumulatedMu.Lock()
	if len(sw.accumulated) == 0 {
		sw.accumulatedMu.Unlock()
		return
	}
	files := make([]string, 0, len(sw.accumulated))
	for file := range sw.accumulated {
		files = append(files, file)
	}
	sw.accumulated = make(map[string]bool)
	sw.accumulatedMu.Unlock()

	slices.Sort(files)
	sw.logger.Debug("schema changed", "files", len(files))
	sw.callback(files)
}

func (sw *SchemaWatcher) resetDebounceTimer(fireCh chan struct{}) {
	sw.timerMu.Lock()
	defer sw.timerMu.Unlock()

	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
	}
	sw.debounceTimer = time.AfterFunc(sw.debounce, func() {
		select {
		case fireCh <- struct{}{}:
		default:
		}
	})
}

func (sw *SchemaWatcher) stopDebounceTimer() {
	sw.timerMu.Lock()
	defer sw.timerMu.Unlock()

	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
		sw.debounceTimer = nil
	}
}

// isSchemaEvent reports whether event touches the schema file, the schema
// directory itself, or a module discovery would pick up inside it. Generated
// outputs live next to the schema and are never matched.
func (sw *SchemaWatcher) isSchemaEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	name := filepath.Clean(event.Name)
	switch name {
	case sw.schemaFile, sw.schemaDir:
		return true
	}
	return sw.modules.Matches(name)
}

func (sw *SchemaWatcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.WalkDir(rootPath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			sw.logger.Warn("error accessing path", "path", path, "err", err)
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if entry.Name() == "node_modules" {
			return filepath.SkipDir
		}
		if err := sw.watcher.Add(path); err != nil {
			sw.logger.Warn("failed to watch directory", "dir", path, "err", err)
		}
		return nil
	})
}
