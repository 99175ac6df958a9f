package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.New(&bytes.Buffer{})
}

func TestWatcherDebouncesChanges(t *testing.T) {
	dir := t.TempDir()

	var (
		mu      sync.Mutex
		calls   int
		changed []string
	)
	done := make(chan struct{}, 1)

	w, err := New(Config{
		Dirs:     []string{dir},
		Debounce: 100 * time.Millisecond,
		Logger:   quietLogger(),
		OnChange: func(_ context.Context, files []string) error {
			mu.Lock()
			calls++
			changed = append(changed, files...)
			mu.Unlock()
			done <- struct{}{}
			return nil
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	for _, name := range []string{"a.js", "b.js"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change callback")
	}

	cancel()
	require.NoError(t, <-errCh)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
	assert.Contains(t, changed, filepath.Join(dir, "a.js"))
	assert.Contains(t, changed, filepath.Join(dir, "b.js"))
}

func TestWatcherIgnoresOwnOutputsAndGlobs(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "index.html")

	w, err := New(Config{
		Dirs:   []string{dir},
		Skip:   []string{output},
		Ignore: []string{"**/*.map"},
		Logger: quietLogger(),
	})
	require.NoError(t, err)
	defer w.fsw.Close()

	assert.True(t, w.ignored(output))
	assert.True(t, w.ignored(filepath.Join(dir, "main.js.map")))
	assert.True(t, w.ignored(filepath.Join(dir, ".git", "HEAD")))
	assert.False(t, w.ignored(filepath.Join(dir, "main.js")))
	assert.False(t, w.ignored(filepath.Join(dir, "stats.json")))
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	_, err = New(Config{Dirs: []string{t.TempDir()}, Ignore: []string{"[unclosed"}})
	assert.Error(t, err)

	_, err = New(Config{Dirs: []string{filepath.Join(t.TempDir(), "missing")}})
	assert.Error(t, err)
}

func TestRunTwice(t *testing.T) {
	w, err := New(Config{Dirs: []string{t.TempDir()}, Logger: quietLogger()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))
	assert.Error(t, w.Run(ctx))
}
