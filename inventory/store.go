package inventory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/netbeacon/azvnet/utils"
)

// Store hands out the current snapshot. Readers take one pointer per request and keep using it even
// if a reload happens meanwhile; the snapshot behind a pointer never changes.
type Store struct {
	path    string
	current atomic.Pointer[Snapshot]
}

// NewStore loads path once and returns a store serving it.
func NewStore(path string) *Store {
	s := &Store{path: path}
	s.current.Store(Load(path))
	return s
}

// Path returns the snapshot file the store reads.
func (s *Store) Path() string {
	return s.path
}

// Current returns the snapshot in effect.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Reload reads the snapshot file again and swaps it in.
func (s *Store) Reload() *Snapshot {
	snap := Load(s.path)
	s.current.Store(snap)
	utils.WithFields(map[string]interface{}{
		"path":          s.path,
		"subscriptions": len(snap.Subscriptions),
		"vnets":         len(snap.VNets),
		"subnets":       len(snap.Subnets),
	}).Info("snapshot loaded")
	return snap
}

// Replace writes snap to the store's file and makes it current.
func (s *Store) Replace(snap *Snapshot) error {
	if err := Write(s.path, snap); err != nil {
		return err
	}
	s.current.Store(snap)
	return nil
}

// Watch reloads the snapshot whenever its file is written, created or renamed into place. It watches
// the parent directory because Write replaces the file by rename. Watch blocks until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	target := filepath.Clean(s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				s.Reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			utils.WithFields(map[string]interface{}{"path": s.path}).Warnf("snapshot watcher: %s", err)
		}
	}
}
