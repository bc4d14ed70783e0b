package repository

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch observes the store's base path and invokes onChange whenever the
// document file is rewritten by something other than this process, so the
// in-memory document can be re-hydrated from disk. Events caused by our own
// saves are skipped by comparing file modification times against the last
// recorded own write.
func (s *DiskvStore) Watch(ctx context.Context, onChange func(), log *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.basePath); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", s.basePath, err)
	}

	go func() {
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if !s.externalChange(event.Name) {
					continue
				}
				log.Info("document changed on disk, reloading", zap.String("path", event.Name))
				s.recordOwnWrite(documentKey)
				onChange()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error("watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
