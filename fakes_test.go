package main

import (
	"errors"
	"sync"

	"taskbar-hider/internal/chord"
	"taskbar-hider/internal/ipc"
	"taskbar-hider/internal/shellarea"
)

// NOTE: tests in this package swap package-level seams (newShellFn,
// newHookFn, newPipeServerFn, sendFn, ...). Do not use t.Parallel().

type fakeDesktop struct {
	mu sync.Mutex

	taskbarVisible bool
	workArea       shellarea.Rect
	screen         shellarea.Rect
	maximized      bool
	zOrder         []shellarea.ZOrder
	missingTaskbar bool
}

const fakeTaskbar shellarea.Handle = 0x10
const fakeWindow shellarea.Handle = 0x20

func newFakeDesktop() *fakeDesktop {
	return &fakeDesktop{
		taskbarVisible: true,
		workArea:       shellarea.Rect{Right: 1920, Bottom: 1040},
		screen:         shellarea.Rect{Right: 1920, Bottom: 1080},
	}
}

func (f *fakeDesktop) FindWindow(string) (shellarea.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missingTaskbar {
		return 0, shellarea.ErrShellHandleNotFound
	}
	return fakeTaskbar, nil
}

func (f *fakeDesktop) WorkArea() (shellarea.Rect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.workArea, nil
}

func (f *fakeDesktop) SetWorkArea(r shellarea.Rect) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.workArea = r
	return nil
}

func (f *fakeDesktop) ScreenBounds() (shellarea.Rect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.screen, nil
}

func (f *fakeDesktop) EnumWindows(visit func(shellarea.Handle) bool) error {
	if !visit(fakeTaskbar) {
		return nil
	}
	visit(fakeWindow)
	return nil
}

func (f *fakeDesktop) IsWindowVisible(h shellarea.Handle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if h == fakeTaskbar {
		return f.taskbarVisible
	}
	return true
}

func (f *fakeDesktop) IsZoomed(h shellarea.Handle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return h == fakeWindow && f.maximized
}

func (f *fakeDesktop) ShowWindow(h shellarea.Handle, cmd shellarea.ShowCommand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if h != fakeTaskbar {
		return nil
	}
	switch cmd {
	case shellarea.ShowHide:
		f.taskbarVisible = false
	case shellarea.ShowShow:
		f.taskbarVisible = true
	}
	return nil
}

func (f *fakeDesktop) SetZOrder(_ shellarea.Handle, z shellarea.ZOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.zOrder = append(f.zOrder, z)
	return nil
}

func (f *fakeDesktop) RefreshDesktop() error { return nil }

func (f *fakeDesktop) snapshot() (visible bool, area shellarea.Rect) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.taskbarVisible, f.workArea
}

// fakeHook delivers events synchronously through press.
type fakeHook struct {
	mu          sync.Mutex
	handler     func(chord.KeyEvent)
	installErr  error
	uninstalled int
}

func (h *fakeHook) Install(handler func(chord.KeyEvent)) error {
	if h.installErr != nil {
		return h.installErr
	}
	h.mu.Lock()
	h.handler = handler
	h.mu.Unlock()
	return nil
}

func (h *fakeHook) Uninstall() error {
	h.mu.Lock()
	h.uninstalled++
	h.mu.Unlock()
	return nil
}

func (h *fakeHook) press(keys ...chord.VKey) {
	h.mu.Lock()
	handler := h.handler
	h.mu.Unlock()
	if handler == nil {
		return
	}
	for _, k := range keys {
		handler(chord.KeyEvent{Key: k, Down: true})
	}
	for i := len(keys) - 1; i >= 0; i-- {
		handler(chord.KeyEvent{Key: keys[i], Down: false})
	}
}

type fakePipe struct {
	startErr error
	started  bool
	stopped  bool
}

func (p *fakePipe) Start() error {
	if p.startErr != nil {
		return p.startErr
	}
	p.started = true
	return nil
}

func (p *fakePipe) Stop() error {
	p.stopped = true
	return nil
}

func (p *fakePipe) PipeName() string { return `\\.\pipe\taskbar-hider-test` }

type fakeNotifier struct {
	mu       sync.Mutex
	titles   []string
	enabled  bool
	notifyFn func(title, message string) error
}

func (n *fakeNotifier) Notify(title, message string) error {
	n.mu.Lock()
	n.titles = append(n.titles, title)
	fn := n.notifyFn
	n.mu.Unlock()
	if fn != nil {
		return fn(title, message)
	}
	return nil
}

func (n *fakeNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	n.enabled = enabled
	n.mu.Unlock()
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.titles)
}

var errFakeHook = errors.New("hook refused")

// installFakes swaps the app seams and restores them on cleanup.
func installFakes(t interface{ Cleanup(func()) }, desktop *fakeDesktop, hook *fakeHook, pipe *fakePipe) {
	origShell, origHook, origPipe := newShellFn, newHookFn, newPipeServerFn
	t.Cleanup(func() {
		newShellFn, newHookFn, newPipeServerFn = origShell, origHook, origPipe
	})
	newShellFn = func() (shellarea.Shell, error) { return desktop, nil }
	newHookFn = func() chord.Hook { return hook }
	newPipeServerFn = func(ipc.CommandExecutor) pipeServer { return pipe }
}
