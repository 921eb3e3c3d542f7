package inventory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReloadSwapsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "environment_data.json")
	store := NewStore(path)
	before := store.Current()
	assert.True(t, before.IsEmpty())

	require.NoError(t, Write(path, scenarioSnapshot()))
	after := store.Reload()

	assert.Same(t, after, store.Current())
	assert.Len(t, after.Subscriptions, 1)
	assert.True(t, before.IsEmpty(), "earlier readers keep their snapshot")
}

func TestStore_Replace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "environment_data.json")
	store := NewStore(path)

	snap := scenarioSnapshot()
	require.NoError(t, store.Replace(snap))
	assert.Same(t, snap, store.Current())
	assert.Equal(t, path, store.Path())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestStore_WatchReloadsOnReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "environment_data.json")
	store := NewStore(path)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Watch(ctx) }()

	// give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, Write(path, scenarioSnapshot()))

	assert.Eventually(t, func() bool {
		return len(store.Current().Subscriptions) == 1
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
