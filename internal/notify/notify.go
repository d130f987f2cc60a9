// Package notify shows desktop notifications for the few events the user
// must see even though the hider has no window.
package notify

import (
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/gen2brain/beeep"
)

// AppName is the title prefix shown on every notification.
const AppName = "Taskbar Hider"

// Notifier delivers user-visible messages.
type Notifier interface {
	Notify(title, message string) error
}

// Seams over beeep for tests.
var (
	notifyFn = func(title, message string) error { return beeep.Notify(title, message, "") }
	beepFn   = func() error { return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration/2) }
)

// Desktop posts toast notifications through beeep. The zero value is
// disabled; use NewDesktop.
type Desktop struct {
	enabled atomic.Bool
}

// NewDesktop returns a notifier that is enabled when enabled is true.
func NewDesktop(enabled bool) *Desktop {
	beeep.AppName = AppName
	d := &Desktop{}
	d.enabled.Store(enabled)
	return d
}

// SetEnabled switches notifications on or off at runtime.
func (d *Desktop) SetEnabled(enabled bool) {
	d.enabled.Store(enabled)
}

// Enabled reports whether notifications are shown.
func (d *Desktop) Enabled() bool {
	return d.enabled.Load()
}

// Notify shows a toast. When disabled it only logs.
func (d *Desktop) Notify(title, message string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		title = AppName
	} else if !strings.HasPrefix(title, AppName) {
		title = AppName + ": " + title
	}
	if !d.Enabled() {
		slog.Debug("[DEBUG-NOTIFY] notifications disabled, dropping", "title", title, "message", message)
		return nil
	}
	if err := notifyFn(title, message); err != nil {
		slog.Warn("[DEBUG-NOTIFY] desktop notification failed, falling back to beep", "error", err)
		if beepErr := beepFn(); beepErr != nil {
			slog.Debug("[DEBUG-NOTIFY] beep failed", "error", beepErr)
		}
		return err
	}
	return nil
}

// Discard drops every message.
type Discard struct{}

// Notify does nothing.
func (Discard) Notify(string, string) error { return nil }
