package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/ipcgen/internal/config"
)

// Test Plan for SchemaWatcher:
// - New fails when the data directory does not exist
// - Writing schema.ts fires the callback after the debounce window
// - Writes to generated outputs never fire the callback
// - Rapid changes to several schema modules are batched into one sorted callback
// - Declaration files inside schema/ are ignored
// - A schema directory created after Start is watched
// - Stop without Start, repeated Stop and concurrent Stop are safe
// - Start is refused after Stop and when already running
// - Context cancellation stops the event loop

const testDebounce = 100 * time.Millisecond

type recorder struct {
	mu      sync.Mutex
	batches [][]string
	called  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{called: make(chan struct{}, 10)}
}

func (r *recorder) callback(files []string) {
	r.mu.Lock()
	r.batches = append(r.batches, files)
	r.mu.Unlock()
	r.called <- struct{}{}
}

func (r *recorder) wait(t *testing.T) []string {
	t.Helper()
	select {
	case <-r.called:
	case <-time.After(2 * time.Second):
		t.Fatal("callback not called after timeout")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batches[len(r.batches)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func startWatcher(t *testing.T) (*config.ResolvedConfig, *recorder) {
	t.Helper()

	cfg := config.Default().Resolve(t.TempDir())
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0755))

	sw, err := New(cfg, nil)
	require.NoError(t, err)
	sw.debounce = testDebounce
	t.Cleanup(func() { _ = sw.Stop() })

	rec := newRecorder()
	require.NoError(t, sw.Start(context.Background(), rec.callback))

	// Give fsnotify a moment to settle.
	time.Sleep(50 * time.Millisecond)
	return cfg, rec
}

func TestNew_MissingDataDir(t *testing.T) {
	t.Parallel()

	cfg := config.Default().Resolve(t.TempDir())

	sw, err := New(cfg, nil)
	assert.Error(t, err)
	assert.Nil(t, sw)
}

func TestSchemaWatcher_SchemaFileChange(t *testing.T) {
	t.Parallel()

	cfg, rec := startWatcher(t)

	require.NoError(t, os.WriteFile(cfg.SchemaFile, []byte("export {};\n"), 0644))

	files := rec.wait(t)
	assert.Equal(t, []string{cfg.SchemaFile}, files)
}

func TestSchemaWatcher_IgnoresGeneratedOutputs(t *testing.T) {
	t.Parallel()

	cfg, rec := startWatcher(t)

	for _, path := range cfg.OutputPaths() {
		require.NoError(t, os.WriteFile(path, []byte("// generated\n"), 0644))
	}

	time.Sleep(4 * testDebounce)
	assert.Equal(t, 0, rec.count())
}

func TestSchemaWatcher_BatchesModuleChanges(t *testing.T) {
	t.Parallel()

	cfg := config.Default().Resolve(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.SchemaDir, "windows"), 0755))

	sw, err := New(cfg, nil)
	require.NoError(t, err)
	sw.debounce = 300 * time.Millisecond
	defer sw.Stop()

	rec := newRecorder()
	require.NoError(t, sw.Start(context.Background(), rec.callback))
	time.Sleep(50 * time.Millisecond)

	users := filepath.Join(cfg.SchemaDir, "users.ts")
	pipes := filepath.Join(cfg.SchemaDir, "windows", "pipes.ts")
	require.NoError(t, os.WriteFile(pipes, []byte("export {};\n"), 0644))
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, os.WriteFile(users, []byte("export {};\n"), 0644))
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, os.WriteFile(users, []byte("export {}; // v2\n"), 0644))

	files := rec.wait(t)
	assert.Equal(t, []string{users, pipes}, files)
	assert.Equal(t, 1, rec.count())
}

func TestSchemaWatcher_IgnoresDeclarationFiles(t *testing.T) {
	t.Parallel()

	cfg := config.Default().Resolve(t.TempDir())
	require.NoError(t, os.MkdirAll(cfg.SchemaDir, 0755))

	sw, err := New(cfg, nil)
	require.NoError(t, err)
	sw.debounce = testDebounce
	defer sw.Stop()

	rec := newRecorder()
	require.NoError(t, sw.Start(context.Background(), rec.callback))
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(cfg.SchemaDir, "types.d.ts"), []byte("export {};\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.SchemaDir, "notes.md"), []byte("notes\n"), 0644))

	time.Sleep(4 * testDebounce)
	assert.Equal(t, 0, rec.count())
}

func TestSchemaWatcher_SchemaDirCreatedLater(t *testing.T) {
	t.Parallel()

	cfg, rec := startWatcher(t)

	require.NoError(t, os.Mkdir(cfg.SchemaDir, 0755))
	files := rec.wait(t)
	assert.Contains(t, files, cfg.SchemaDir)

	module := filepath.Join(cfg.SchemaDir, "users.ts")
	require.NoError(t, os.WriteFile(module, []byte("export {};\n"), 0644))

	require.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		for _, batch := range rec.batches {
			for _, f := range batch {
				if f == module {
					return true
				}
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond)
}

func TestSchemaWatcher_StopWithoutStart(t *testing.T) {
	t.Parallel()

	cfg := config.Default().Resolve(t.TempDir())
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0755))

	sw, err := New(cfg, nil)
	require.NoError(t, err)

	require.NoError(t, sw.Stop())
	require.NoError(t, sw.Stop())
}

func TestSchemaWatcher_ConcurrentStop(t *testing.T) {
	t.Parallel()

	cfg := config.Default().Resolve(t.TempDir())
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0755))

	sw, err := New(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, sw.Start(context.Background(), func([]string) {}))

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sw.Stop()
		}()
	}
	wg.Wait()
}

func TestSchemaWatcher_StartAfterStop(t *testing.T) {
	t.Parallel()

	cfg := config.Default().Resolve(t.TempDir())
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0755))

	t.Run("never started", func(t *testing.T) {
		t.Parallel()

		sw, err := New(cfg, nil)
		require.NoError(t, err)
		require.NoError(t, sw.Stop())

		assert.ErrorIs(t, sw.Start(context.Background(), func([]string) {}), ErrStopped)
		require.NoError(t, sw.Stop())
	})

	t.Run("restarted", func(t *testing.T) {
		t.Parallel()

		sw, err := New(cfg, nil)
		require.NoError(t, err)
		require.NoError(t, sw.Start(context.Background(), func([]string) {}))
		require.NoError(t, sw.Stop())

		assert.ErrorIs(t, sw.Start(context.Background(), func([]string) {}), ErrStopped)
		require.NoError(t, sw.Stop())
	})
}

func TestSchemaWatcher_DoubleStart(t *testing.T) {
	t.Parallel()

	cfg := config.Default().Resolve(t.TempDir())
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0755))

	sw, err := New(cfg, nil)
	require.NoError(t, err)
	defer sw.Stop()

	require.NoError(t, sw.Start(context.Background(), func([]string) {}))
	assert.ErrorIs(t, sw.Start(context.Background(), func([]string) {}), ErrStarted)
}

func TestSchemaWatcher_ContextCancellation(t *testing.T) {
	t.Parallel()

	cfg := config.Default().Resolve(t.TempDir())
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0755))

	sw, err := New(cfg, nil)
	require.NoError(t, err)
	defer sw.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, sw.Start(ctx, func([]string) {}))

	cancel()

	select {
	case <-sw.doneCh:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after context cancellation")
	}
}
