package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the write/rename bursts editors and atomicWrite
// produce for a single save.
const watchDebounce = 200 * time.Millisecond

// Watch reloads path whenever it changes and passes the result, with env
// overrides applied, to onChange. It blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file so that
// rename-based saves are seen.
func Watch(ctx context.Context, path string, onChange func(Config)) error {
	if onChange == nil {
		return fmt.Errorf("config watch: onChange is required")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watch: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("config watch %s: %w", dir, err)
	}
	slog.Debug("[DEBUG-CONFIG] watching config", "path", path)

	target := filepath.Clean(path)
	var debounce *time.Timer
	var fire <-chan time.Time
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				debounce.Reset(watchDebounce)
			}
			fire = debounce.C
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("[WARN-CONFIG] config watcher error", "error", werr)
		case <-fire:
			fire = nil
			cfg, loadErr := Load(path)
			if loadErr != nil {
				slog.Warn("[WARN-CONFIG] config reload failed, keeping current settings", "path", path, "error", loadErr)
				continue
			}
			slog.Info("[DEBUG-CONFIG] config reloaded", "path", path)
			onChange(ApplyEnv(cfg))
		}
	}
}
