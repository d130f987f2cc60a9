package shellarea

import (
	"errors"
	"sync"
)

type fakeWindow struct {
	handle    Handle
	visible   bool
	zoomed    bool
	destroyed bool
}

type showCall struct {
	handle Handle
	cmd    ShowCommand
}

// fakeShell is an in-memory desktop with one primary display.
type fakeShell struct {
	mu sync.Mutex

	taskbar        Handle
	taskbarVisible bool
	taskbarBand    string
	workArea       Rect
	screen         Rect
	windows        []*fakeWindow

	setWorkAreaCalls []Rect
	zOrderCalls      []ZOrder
	showCalls        []showCall
	refreshCount     int
	enumCount        int

	// failures maps an operation name to the error it returns.
	failures map[string]error
	// panics lists operations that panic instead of returning.
	panics map[string]bool
}

func newFakeShell() *fakeShell {
	return &fakeShell{
		taskbar:        0x10,
		taskbarVisible: true,
		taskbarBand:    "normal",
		workArea:       Rect{Left: 0, Top: 0, Right: 1920, Bottom: 1040},
		screen:         Rect{Left: 0, Top: 0, Right: 1920, Bottom: 1080},
		failures:       map[string]error{},
		panics:         map[string]bool{},
	}
}

func (f *fakeShell) addWindow(h Handle, visible, zoomed bool) *fakeWindow {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := &fakeWindow{handle: h, visible: visible, zoomed: zoomed}
	f.windows = append(f.windows, w)
	return w
}

func (f *fakeShell) setZoomed(h Handle, zoomed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.windows {
		if w.handle == h {
			w.zoomed = zoomed
		}
	}
}

func (f *fakeShell) fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = err
}

func (f *fakeShell) check(op string) error {
	if f.panics[op] {
		panic("fake shell: " + op)
	}
	return f.failures[op]
}

func (f *fakeShell) FindWindow(class string) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("FindWindow"); err != nil {
		return 0, err
	}
	if class != DefaultTaskbarClass || f.taskbar == 0 {
		return 0, ErrShellHandleNotFound
	}
	return f.taskbar, nil
}

func (f *fakeShell) WorkArea() (Rect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("WorkArea"); err != nil {
		return Rect{}, err
	}
	return f.workArea, nil
}

func (f *fakeShell) SetWorkArea(r Rect) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("SetWorkArea"); err != nil {
		return err
	}
	f.setWorkAreaCalls = append(f.setWorkAreaCalls, r)
	f.workArea = r
	return nil
}

func (f *fakeShell) ScreenBounds() (Rect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("ScreenBounds"); err != nil {
		return Rect{}, err
	}
	return f.screen, nil
}

func (f *fakeShell) EnumWindows(visit func(Handle) bool) error {
	handles, err := f.enumSnapshot()
	if err != nil {
		return err
	}
	for _, h := range handles {
		if !visit(h) {
			return nil
		}
	}
	return nil
}

func (f *fakeShell) enumSnapshot() ([]Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("EnumWindows"); err != nil {
		return nil, err
	}
	f.enumCount++
	handles := make([]Handle, 0, len(f.windows)+1)
	if f.taskbar != 0 {
		handles = append(handles, f.taskbar)
	}
	for _, w := range f.windows {
		handles = append(handles, w.handle)
	}
	return handles, nil
}

func (f *fakeShell) IsWindowVisible(h Handle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panics["IsWindowVisible"] {
		panic("fake shell: IsWindowVisible")
	}
	if h == f.taskbar {
		return f.taskbarVisible
	}
	if w := f.lookup(h); w != nil {
		return w.visible && !w.destroyed
	}
	return false
}

func (f *fakeShell) IsZoomed(h Handle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w := f.lookup(h); w != nil {
		return w.zoomed && !w.destroyed
	}
	return false
}

func (f *fakeShell) ShowWindow(h Handle, cmd ShowCommand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("ShowWindow(" + cmd.String() + ")"); err != nil {
		return err
	}
	f.showCalls = append(f.showCalls, showCall{handle: h, cmd: cmd})
	if h == f.taskbar {
		switch cmd {
		case ShowHide:
			f.taskbarVisible = false
		case ShowShow:
			f.taskbarVisible = true
		}
		return nil
	}
	w := f.lookup(h)
	if w == nil || w.destroyed {
		return errors.New("invalid window handle")
	}
	switch cmd {
	case ShowRestore:
		w.zoomed = false
	case ShowMaximize:
		w.zoomed = true
	case ShowHide:
		w.visible = false
	case ShowShow:
		w.visible = true
	}
	return nil
}

func (f *fakeShell) SetZOrder(h Handle, z ZOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("SetZOrder(" + z.String() + ")"); err != nil {
		return err
	}
	f.zOrderCalls = append(f.zOrderCalls, z)
	if h == f.taskbar {
		switch z {
		case ZBottom:
			f.taskbarBand = "bottom"
		case ZTopmost:
			f.taskbarBand = "topmost"
		case ZNotTopmost:
			f.taskbarBand = "normal"
		}
	}
	return nil
}

func (f *fakeShell) RefreshDesktop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("RefreshDesktop"); err != nil {
		return err
	}
	f.refreshCount++
	return nil
}

func (f *fakeShell) lookup(h Handle) *fakeWindow {
	for _, w := range f.windows {
		if w.handle == h {
			return w
		}
	}
	return nil
}

func (f *fakeShell) snapshot() (workArea Rect, taskbarVisible bool, band string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.workArea, f.taskbarVisible, f.taskbarBand
}
