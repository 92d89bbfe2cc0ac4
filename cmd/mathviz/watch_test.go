package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsWatcherFiresOnSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sliders.yaml")
	require.NoError(t, os.WriteFile(path, []byte("amplitude: 1\n"), 0644))

	w, err := newParamsWatcher(path, 20*time.Millisecond, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() error {
			changes <- struct{}{}
			return nil
		})
	}()

	// Other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	select {
	case <-changes:
		t.Fatal("unrelated file triggered a replot")
	case <-time.After(150 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(path, []byte("amplitude: 2\n"), 0644))
	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no replot after saving the params file")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestParamsWatcherMissingDir(t *testing.T) {
	_, err := newParamsWatcher(filepath.Join(t.TempDir(), "nope", "sliders.yaml"), 0, nil)
	assert.Error(t, err)
}
