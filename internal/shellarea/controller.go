package shellarea

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// DefaultTaskbarClass is the window class of the primary taskbar.
	DefaultTaskbarClass = "Shell_TrayWnd"

	// DefaultSettleDelay separates the two halves of a reposition pair
	// (restore/maximize, topmost/not-topmost). Some shells drop the second
	// call when it follows the first immediately.
	DefaultSettleDelay = 10 * time.Millisecond
)

// Options configures a Controller. Zero values select defaults.
type Options struct {
	TaskbarClass       string
	SettleDelay        time.Duration
	SkipDesktopRefresh bool
}

// State is a point-in-time copy of the controller's flags.
type State struct {
	OriginalWorkArea           Rect `json:"original_work_area"`
	BaselineCaptured           bool `json:"baseline_captured"`
	TaskbarZOrderLowered       bool `json:"taskbar_zorder_lowered"`
	WorkAreaExpanded           bool `json:"work_area_expanded"`
	TaskbarHiddenInDesktopMode bool `json:"taskbar_hidden_in_desktop_mode"`
}

// Controller owns the primary display's work area and the taskbar's
// visibility and z-order. It is the single owner of that process-wide state
// and must be released with RestoreAll before the process exits.
//
// All methods are safe for concurrent use. None of them returns an error or
// panics; the Result describes which path was taken.
type Controller struct {
	shell              Shell
	taskbarClass       string
	skipDesktopRefresh bool
	settleDelay        atomic.Int64
	sleep              func(time.Duration)

	mu               sync.Mutex
	original         Rect
	baselineCaptured bool
	zOrderLowered    bool
	workAreaExpanded bool
	hiddenInDesktop  bool
}

// NewController creates a controller. It does not touch the shell; call
// Initialize to capture the baseline and reclaim the taskbar area.
func NewController(shell Shell, opts Options) *Controller {
	class := opts.TaskbarClass
	if class == "" {
		class = DefaultTaskbarClass
	}
	c := &Controller{
		shell:              shell,
		taskbarClass:       class,
		skipDesktopRefresh: opts.SkipDesktopRefresh,
		sleep:              time.Sleep,
	}
	delay := opts.SettleDelay
	if delay == 0 {
		delay = DefaultSettleDelay
	}
	c.SetSettleDelay(delay)
	return c
}

// SetSettleDelay updates the delay used between paired reposition calls.
// Negative values are treated as zero.
func (c *Controller) SetSettleDelay(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.settleDelay.Store(int64(d))
}

// SettleDelay returns the current settle delay.
func (c *Controller) SettleDelay() time.Duration {
	return time.Duration(c.settleDelay.Load())
}

// State returns a snapshot of the controller flags.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		OriginalWorkArea:           c.original,
		BaselineCaptured:           c.baselineCaptured,
		TaskbarZOrderLowered:       c.zOrderLowered,
		WorkAreaExpanded:           c.workAreaExpanded,
		TaskbarHiddenInDesktopMode: c.hiddenInDesktop,
	}
}

// Initialize captures the original work area (once), pushes the taskbar to
// the bottom of the z-order and expands the work area to the full primary
// display. Maximized windows are re-laid out afterwards.
//
// A missing taskbar yields OutcomeNoHandle and leaves the desktop untouched.
// Repeated calls only perform the steps that are not already in effect.
func (c *Controller) Initialize() Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := Result{Op: "initialize"}
	if c.zOrderLowered && c.workAreaExpanded {
		res.Outcome = OutcomeSkipped
		return res
	}

	if err := c.captureBaselineLocked(); err != nil {
		return res.fail(err)
	}

	taskbar, err := c.findTaskbar()
	if err != nil {
		return res.fail(err)
	}

	if !c.zOrderLowered {
		if err := c.call("SetZOrder(bottom)", func() error {
			return c.shell.SetZOrder(taskbar, ZBottom)
		}); err != nil {
			return res.fail(err)
		}
		c.zOrderLowered = true
	}

	if !c.workAreaExpanded {
		if err := c.expandLocked(taskbar); err != nil {
			return res.fail(err)
		}
	}

	slog.Debug("[DEBUG-SHELL] taskbar lowered and work area expanded",
		"original", c.original)
	res.Outcome = OutcomeApplied
	return res
}

// ToggleVisibility flips the taskbar's visual presence using exactly one
// mechanism, chosen fresh on every call:
//
//   - a visible maximized window exists: only the work area toggles between
//     full screen and the original area;
//   - otherwise: only the taskbar window's OS visibility toggles.
func (c *Controller) ToggleVisibility() Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := Result{Op: "toggle"}

	// The taskbar is looked up on every call; explorer restarts recreate it.
	taskbar, findErr := c.findTaskbar()
	if findErr != nil && !errors.Is(findErr, ErrShellHandleNotFound) {
		return res.fail(findErr)
	}

	maximized, err := c.hasMaximizedLocked(taskbar)
	if err != nil {
		return res.fail(err)
	}

	if maximized {
		res.Mode = ModeWorkArea
		if c.workAreaExpanded {
			err = c.restoreWorkAreaLocked(taskbar)
		} else {
			err = c.captureBaselineLocked()
			if err == nil {
				err = c.expandLocked(taskbar)
			}
		}
		if err != nil {
			return res.fail(err)
		}
		slog.Debug("[DEBUG-SHELL] toggled work area", "expanded", c.workAreaExpanded)
		res.Outcome = OutcomeApplied
		return res
	}

	res.Mode = ModeDesktop
	if findErr != nil {
		return res.fail(findErr)
	}
	cmd := ShowHide
	if c.hiddenInDesktop {
		cmd = ShowShow
	}
	if err := c.call("ShowWindow("+cmd.String()+")", func() error {
		return c.shell.ShowWindow(taskbar, cmd)
	}); err != nil {
		return res.fail(err)
	}
	c.hiddenInDesktop = cmd == ShowHide
	slog.Debug("[DEBUG-SHELL] toggled taskbar visibility", "hidden", c.hiddenInDesktop)
	res.Outcome = OutcomeApplied
	return res
}

// RestoreAll undoes every change the controller made: the taskbar is shown,
// its z-order normalised and the original work area written back. Each step
// runs even if an earlier one failed. Safe to call repeatedly and at any
// point, including after a failed Initialize.
func (c *Controller) RestoreAll() Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := Result{Op: "restore"}
	var errs []error
	applied := false

	var taskbar Handle
	if c.hiddenInDesktop || c.zOrderLowered {
		h, err := c.findTaskbar()
		if err != nil {
			errs = append(errs, err)
		}
		taskbar = h
	}

	if c.hiddenInDesktop && taskbar != 0 {
		if err := c.call("ShowWindow(show)", func() error {
			return c.shell.ShowWindow(taskbar, ShowShow)
		}); err != nil {
			errs = append(errs, err)
		} else {
			c.hiddenInDesktop = false
			applied = true
		}
	}

	if c.zOrderLowered && taskbar != 0 {
		if err := c.restoreZOrderLocked(taskbar); err != nil {
			errs = append(errs, err)
		} else {
			c.zOrderLowered = false
			applied = true
		}
	}

	if c.workAreaExpanded {
		if err := c.restoreWorkAreaLocked(taskbar); err != nil {
			errs = append(errs, err)
		} else {
			applied = true
		}
	}

	res.Err = errors.Join(errs...)
	switch {
	case res.Err != nil && !onlyHandleMissing(errs):
		res.Outcome = OutcomeFailed
	case res.Err != nil:
		res.Outcome = OutcomeNoHandle
	case applied:
		res.Outcome = OutcomeApplied
	default:
		res.Outcome = OutcomeSkipped
	}
	if res.Err != nil {
		slog.Warn("[DEBUG-SHELL] restore incomplete", "outcome", res.Outcome, "error", res.Err)
	} else if applied {
		slog.Debug("[DEBUG-SHELL] desktop restored", "workArea", c.original)
	}
	return res
}

// restoreZOrderLocked brings the taskbar back to the normal band. Going
// through topmost first is required; a direct not-topmost move is ignored
// while the window sits at the bottom.
func (c *Controller) restoreZOrderLocked(taskbar Handle) error {
	topErr := c.call("SetZOrder(topmost)", func() error {
		return c.shell.SetZOrder(taskbar, ZTopmost)
	})
	c.sleep(c.SettleDelay())
	if err := c.call("SetZOrder(not-topmost)", func() error {
		return c.shell.SetZOrder(taskbar, ZNotTopmost)
	}); err != nil {
		return errors.Join(topErr, err)
	}
	if topErr != nil {
		slog.Debug("[DEBUG-SHELL] topmost step failed, not-topmost applied", "error", topErr)
	}
	return nil
}

func (c *Controller) captureBaselineLocked() error {
	if c.baselineCaptured {
		return nil
	}
	var area Rect
	if err := c.call("WorkArea", func() error {
		var err error
		area, err = c.shell.WorkArea()
		return err
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrNoBaseline, err)
	}
	c.original = area
	c.baselineCaptured = true
	slog.Debug("[DEBUG-SHELL] original work area captured", "area", area)
	return nil
}

func (c *Controller) expandLocked(taskbar Handle) error {
	if !c.baselineCaptured {
		return ErrNoBaseline
	}
	var bounds Rect
	if err := c.call("ScreenBounds", func() error {
		var err error
		bounds, err = c.shell.ScreenBounds()
		return err
	}); err != nil {
		return err
	}
	full := Rect{Left: 0, Top: 0, Right: bounds.Width(), Bottom: bounds.Height()}
	if err := c.call("SetWorkArea", func() error {
		return c.shell.SetWorkArea(full)
	}); err != nil {
		return err
	}
	c.workAreaExpanded = true
	c.afterWorkAreaChangeLocked(taskbar)
	return nil
}

func (c *Controller) restoreWorkAreaLocked(taskbar Handle) error {
	if !c.baselineCaptured {
		return ErrNoBaseline
	}
	original := c.original
	if err := c.call("SetWorkArea", func() error {
		return c.shell.SetWorkArea(original)
	}); err != nil {
		return err
	}
	c.workAreaExpanded = false
	c.afterWorkAreaChangeLocked(taskbar)
	return nil
}

func (c *Controller) afterWorkAreaChangeLocked(taskbar Handle) {
	if !c.skipDesktopRefresh {
		if err := c.call("RefreshDesktop", c.shell.RefreshDesktop); err != nil {
			slog.Debug("[DEBUG-SHELL] desktop refresh failed", "error", err)
		}
	}
	refreshed := c.refreshMaximizedLocked(taskbar)
	slog.Debug("[DEBUG-SHELL] maximized windows refreshed", "count", refreshed)
}

// refreshMaximizedLocked forces every maximized window to pick up the new
// work area; the shell does not propagate the change by itself. Failures on
// individual windows are ignored.
func (c *Controller) refreshMaximizedLocked(taskbar Handle) int {
	refreshed := 0
	delay := c.SettleDelay()
	err := c.call("EnumWindows", func() error {
		return c.shell.EnumWindows(func(h Handle) bool {
			if h == taskbar || !c.isMaximized(h) {
				return true
			}
			if err := c.call("ShowWindow(restore)", func() error {
				return c.shell.ShowWindow(h, ShowRestore)
			}); err != nil {
				slog.Debug("[DEBUG-SHELL] restore during refresh failed", "hwnd", h, "error", err)
				return true
			}
			c.sleep(delay)
			if err := c.call("ShowWindow(maximize)", func() error {
				return c.shell.ShowWindow(h, ShowMaximize)
			}); err != nil {
				slog.Debug("[DEBUG-SHELL] maximize during refresh failed", "hwnd", h, "error", err)
				return true
			}
			refreshed++
			return true
		})
	})
	if err != nil {
		slog.Debug("[DEBUG-SHELL] window enumeration failed", "error", err)
	}
	return refreshed
}

func (c *Controller) hasMaximizedLocked(taskbar Handle) (bool, error) {
	found := false
	err := c.call("EnumWindows", func() error {
		return c.shell.EnumWindows(func(h Handle) bool {
			if h != taskbar && c.isMaximized(h) {
				found = true
				return false
			}
			return true
		})
	})
	if found {
		// Early termination may be reported as an error by some hosts.
		return true, nil
	}
	return false, err
}

func (c *Controller) isMaximized(h Handle) (maximized bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("[DEBUG-SHELL] window state query panicked", "hwnd", h, "panic", r)
			maximized = false
		}
	}()
	return c.shell.IsWindowVisible(h) && c.shell.IsZoomed(h)
}

func (c *Controller) findTaskbar() (Handle, error) {
	var h Handle
	err := c.call("FindWindow", func() error {
		var err error
		h, err = c.shell.FindWindow(c.taskbarClass)
		return err
	})
	if err == nil && h == 0 {
		err = ErrShellHandleNotFound
	}
	if err != nil {
		return 0, err
	}
	return h, nil
}

// call runs one host call and normalises its failure. Panics are converted
// so a misbehaving shell binding can never take the process down.
func (c *Controller) call(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s panicked: %v", ErrNativeCallFailed, name, r)
		}
	}()
	callErr := fn()
	if callErr == nil {
		return nil
	}
	if errors.Is(callErr, ErrShellHandleNotFound) || errors.Is(callErr, ErrNativeCallFailed) {
		return callErr
	}
	return fmt.Errorf("%w: %s: %w", ErrNativeCallFailed, name, callErr)
}

func (r Result) fail(err error) Result {
	r.Err = err
	if errors.Is(err, ErrShellHandleNotFound) {
		r.Outcome = OutcomeNoHandle
	} else {
		r.Outcome = OutcomeFailed
	}
	return r
}

func onlyHandleMissing(errs []error) bool {
	for _, err := range errs {
		if !errors.Is(err, ErrShellHandleNotFound) {
			return false
		}
	}
	return true
}
