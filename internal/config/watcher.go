package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nvoronin/golab/internal/log"
)

// Watch observes the config file and invokes onChange with each successfully
// reloaded configuration. Reload failures are logged and skipped, keeping the
// last good config in effect. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, onChange func(Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors replace files on save, which drops
	// watches registered on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	logger := log.WithComponent("config-watcher")
	target := filepath.Clean(path)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	reload := func() {
		cfg, err := Load(path)
		if err != nil {
			logger.Warn().Err(err).
				Str("event", "config.reload_failed").
				Str("path", path).
				Msg("keeping previous configuration")
			return
		}
		logger.Info().
			Str("event", "config.reloaded").
			Str("path", path).
			Msg("configuration reloaded")
		onChange(cfg)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			// Collapse editor write bursts into one reload.
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(200*time.Millisecond, reload)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Str("event", "config.watch_error").Msg("watch error")
		}
	}
}
