package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"taskbar-hider/internal/chord"
	"taskbar-hider/internal/config"
	"taskbar-hider/internal/shellarea"
	"taskbar-hider/internal/workerutil"
)

const shutdownWaitTimeout = 3 * time.Second

// Run starts every component, blocks until ctx is cancelled or a quit
// command arrives, and then restores the desktop. The restore also runs
// when Run unwinds because of a panic.
func (a *App) Run(ctx context.Context) error {
	shell, err := newShellFn()
	if err != nil {
		return fmt.Errorf("shell unavailable: %w", err)
	}

	cfg := a.config()
	a.controller = shellarea.NewController(shell, shellarea.Options{
		TaskbarClass:       cfg.TaskbarClass,
		SettleDelay:        cfg.SettleDelay(),
		SkipDesktopRefresh: !cfg.RefreshDesktop,
	})
	defer a.restoreDesktop("exit")

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	if cfg.HideOnStart {
		logResult(a.controller.Initialize())
	}

	workerutil.RunWithPanicRecovery(workerCtx, "toggle-worker", &a.bgWG, a.toggleWorker, workerutil.RecoveryOptions{
		IsShutdown: a.shuttingDown.Load,
	})

	if cfg.ChordEnabled {
		a.startChordWatcher()
	} else {
		slog.Info("[DEBUG-CHORD] chord disabled by config")
	}

	a.startPipeServer()
	a.startConfigWatcher(workerCtx)

	slog.Info("[DEBUG-APP] taskbar hider running", "shortcut", chord.Shortcut, "config", a.configPath)

	select {
	case <-ctx.Done():
		slog.Info("[DEBUG-APP] shutdown requested by signal")
	case <-a.quitCh:
		slog.Info("[DEBUG-APP] shutdown requested by quit command")
	}

	a.shutdown(cancelWorkers)
	return nil
}

// shutdown stops the input sources first so no toggle can race the final
// restore.
func (a *App) shutdown(cancelWorkers context.CancelFunc) {
	a.shuttingDown.Store(true)

	if err := a.watcher.Close(); err != nil {
		slog.Warn("[DEBUG-CHORD] watcher close failed", "error", err)
	}
	if a.pipe != nil {
		if err := a.pipe.Stop(); err != nil {
			slog.Warn("[DEBUG-IPC] pipe server stop failed", "error", err)
		}
	}
	cancelWorkers()
	if !waitWithTimeout(a.bgWG.Wait, shutdownWaitTimeout) {
		slog.Warn("[DEBUG-APP] timed out waiting for background workers during shutdown")
	}
	a.restoreDesktop("shutdown")
}

// restoreDesktop runs RestoreAll exactly once per process.
func (a *App) restoreDesktop(reason string) {
	a.restoreOnce.Do(func() {
		if a.controller == nil {
			return
		}
		res := a.controller.RestoreAll()
		slog.Info("[DEBUG-SHELL] desktop restored", "reason", reason, "result", res.String())
	})
}

func (a *App) startChordWatcher() {
	w, err := chord.NewWatcher(newHookFn(), chord.ListenerFunc(a.requestToggle))
	if err != nil {
		slog.Error("[DEBUG-CHORD] keyboard shortcut unavailable", "error", err)
		if notifyErr := a.notifier.Notify("Keyboard shortcut unavailable",
			"The "+chord.Shortcut+" shortcut could not be registered. Use taskbar-hider -toggle instead."); notifyErr != nil {
			slog.Debug("[DEBUG-NOTIFY] hook failure notification failed", "error", notifyErr)
		}
		return
	}
	a.watcher = w
}

func (a *App) startPipeServer() {
	a.pipe = newPipeServerFn(a)
	if err := a.pipe.Start(); err != nil {
		slog.Warn("[DEBUG-IPC] control pipe unavailable, command-line control disabled", "error", err)
		a.pipe = nil
		return
	}
	slog.Info("[DEBUG-IPC] control pipe listening", "pipe", a.pipe.PipeName())
}

func (a *App) startConfigWatcher(ctx context.Context) {
	if a.configPath == "" {
		return
	}
	workerutil.RunWithPanicRecovery(ctx, "config-watcher", &a.bgWG, func(ctx context.Context) {
		if err := config.Watch(ctx, a.configPath, a.applyConfig); err != nil {
			slog.Warn("[WARN-CONFIG] config hot reload disabled", "error", err)
		}
	}, workerutil.RecoveryOptions{IsShutdown: a.shuttingDown.Load})
}

// applyConfig hot-applies the reloadable settings. Chord and taskbar class
// changes take effect on the next start.
func (a *App) applyConfig(cfg config.Config) {
	prev := a.config()
	if a.logger != nil {
		a.logger.SetLevel(cfg.SlogLevel())
	}
	if a.controller != nil {
		a.controller.SetSettleDelay(cfg.SettleDelay())
	}
	a.notifier.SetEnabled(cfg.Notifications)
	if cfg.ChordEnabled != prev.ChordEnabled || cfg.TaskbarClass != prev.TaskbarClass {
		slog.Info("[WARN-CONFIG] chord_enabled and taskbar_class changes apply after restart")
	}
	a.setConfig(cfg)
}

// requestToggle is the chord listener. It runs on the hook thread and must
// not block, so the toggle itself is handed to toggleWorker.
func (a *App) requestToggle() {
	if a.shuttingDown.Load() {
		return
	}
	select {
	case a.toggleCh <- struct{}{}:
	default:
		slog.Debug("[DEBUG-CHORD] toggle already pending, coalescing")
	}
}

func (a *App) toggleWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.toggleCh:
			if a.shuttingDown.Load() {
				continue
			}
			logResult(a.controller.ToggleVisibility())
		}
	}
}

// requestQuit ends Run. Safe to call more than once.
func (a *App) requestQuit() {
	a.quitOnce.Do(func() { close(a.quitCh) })
}

func logResult(res shellarea.Result) {
	switch res.Outcome {
	case shellarea.OutcomeFailed:
		slog.Warn("[DEBUG-SHELL] operation failed", "op", res.Op, "mode", res.Mode.String(), "error", res.Err)
	case shellarea.OutcomeNoHandle:
		slog.Warn("[DEBUG-SHELL] taskbar not found", "op", res.Op, "error", res.Err)
	default:
		slog.Debug("[DEBUG-SHELL] operation done", "op", res.Op, "outcome", res.Outcome.String(), "mode", res.Mode.String())
	}
}

// waitWithTimeout is a best-effort guard for shutdown; the waiting
// goroutine outlives timeout if waitFn never returns.
func waitWithTimeout(waitFn func(), timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		waitFn()
		close(done)
	}()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}
