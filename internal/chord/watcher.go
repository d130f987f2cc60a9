package chord

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ErrHookInstallFailed means the host refused the keyboard hook. It disables
// the chord feature but must not stop the process.
var ErrHookInstallFailed = errors.New("keyboard hook install failed")

// Hook is a system-wide key event source. The handler observes events only;
// implementations must always forward every event to the next handler in
// the host chain.
type Hook interface {
	Install(handler func(KeyEvent)) error
	Uninstall() error
}

// Listener receives chord notifications. OnChord runs on the hook thread and
// must return quickly; hand work off to another goroutine.
type Listener interface {
	OnChord()
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func()

// OnChord calls f.
func (f ListenerFunc) OnChord() { f() }

// Watcher owns one installed hook and one Detector.
type Watcher struct {
	hook     Hook
	listener Listener
	detector Detector

	installed atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewWatcher installs hook and starts delivering chord notifications to
// listener. The returned error wraps ErrHookInstallFailed.
func NewWatcher(hook Hook, listener Listener) (*Watcher, error) {
	if hook == nil {
		return nil, fmt.Errorf("%w: hook is required", ErrHookInstallFailed)
	}
	if listener == nil {
		return nil, errors.New("chord listener is required")
	}
	w := &Watcher{hook: hook, listener: listener}
	// Set before Install so events arriving during installation are seen.
	w.installed.Store(true)
	if err := hook.Install(w.handle); err != nil {
		w.installed.Store(false)
		return nil, fmt.Errorf("%w: %w", ErrHookInstallFailed, err)
	}
	slog.Debug("[DEBUG-CHORD] keyboard hook installed", "shortcut", Shortcut)
	return w, nil
}

// handle runs on the hook thread for every key event.
func (w *Watcher) handle(ev KeyEvent) {
	if !w.installed.Load() {
		return
	}
	if !w.detector.Observe(ev) {
		return
	}
	slog.Debug("[DEBUG-CHORD] chord detected", "key", fmt.Sprintf("0x%02X", uint32(ev.Key)))
	w.listener.OnChord()
}

// Close uninstalls the hook. It is idempotent and safe to call from any
// goroutine; later calls return the first call's result.
func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	w.closeOnce.Do(func() {
		if !w.installed.Swap(false) {
			return
		}
		if err := w.hook.Uninstall(); err != nil {
			w.closeErr = fmt.Errorf("uninstall keyboard hook: %w", err)
			slog.Warn("[DEBUG-CHORD] keyboard hook uninstall failed", "error", err)
			return
		}
		slog.Debug("[DEBUG-CHORD] keyboard hook removed")
	})
	return w.closeErr
}
