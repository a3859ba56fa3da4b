package localstore

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// selfWriteWindow is how long after one of our own writes an event for the
// same key is attributed to us rather than to another process.
const selfWriteWindow = 500 * time.Millisecond

// Watch emits the storage key for every foreign write to the profile
// directory until ctx is cancelled. It is the storage-change listener that
// lets a second process re-hydrate session and cart state instead of
// diverging until its next full restart. Events caused by this store's own
// writes are suppressed.
func (s *Store) Watch(ctx context.Context) (<-chan string, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("storage watcher: %w", err)
	}
	if err := w.Add(s.dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("storage watcher: %w", err)
	}

	ch := make(chan string)
	go func() {
		defer close(ch)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				key := filepath.Base(ev.Name)
				if !knownKey(key) {
					continue
				}
				if s.wroteRecently(key, selfWriteWindow) {
					continue
				}
				s.logger.Debug("foreign storage change", zap.String("key", key), zap.String("op", ev.Op.String()))
				select {
				case ch <- key:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.logger.Warn("storage watcher error", zap.Error(err))
			}
		}
	}()
	return ch, nil
}

// knownKey filters out temp files from atomic writes and anything that is
// not one of the storage keys this client owns.
func knownKey(name string) bool {
	switch name {
	case KeyToken, KeyCartItems, KeyUserStatus:
		return true
	}
	return false
}
