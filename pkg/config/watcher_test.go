package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phong.toml")
	writeFile(t, path, "[render]\nworkers = 1\n")

	w, err := NewWatcher(path, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, 1, w.Current().Render.Workers)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	writeFile(t, path, "[render]\nworkers = 4\n")
	// A write can arrive as several events, the first seeing a truncated
	// file, so wait for the final content.
	require.Eventually(t, func() bool {
		return w.Current().Render.Workers == 4
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatcherKeepsLastGoodConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phong.yaml")
	writeFile(t, path, "render:\n  fps: 24\n")

	w, err := NewWatcher(path, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer w.Close()

	before := w.Current()
	writeFile(t, path, "render:\n  fps: -1\n")
	w.reload()
	assert.Same(t, before, w.Current())

	writeFile(t, path, "render:\n  fps: 30\n")
	w.reload()
	assert.Equal(t, 30, w.Current().Render.FPS)
	assert.Equal(t, 24, before.Render.FPS)
}

func TestNewWatcherInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phong.toml")
	writeFile(t, path, "[scene]\nfov = 0.0\n")

	_, err := NewWatcher(path, slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}
