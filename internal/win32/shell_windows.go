//go:build windows

package win32

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"taskbar-hider/internal/shellarea"

	"golang.org/x/sys/windows"
)

// Shell implements shellarea.Shell on top of user32.
type Shell struct{}

// NewShell returns the user32-backed shell. It fails when user32 or one of
// the required exports is missing.
func NewShell() (*Shell, error) {
	if err := ensureLoaded(
		procFindWindowW,
		procSystemParametersInfoW,
		procGetSystemMetrics,
		procEnumWindows,
		procIsWindow,
		procIsWindowVisible,
		procIsZoomed,
		procShowWindow,
		procSetWindowPos,
	); err != nil {
		return nil, err
	}
	return &Shell{}, nil
}

var _ shellarea.Shell = (*Shell)(nil)

// FindWindow locates a top-level window by class name.
func (s *Shell) FindWindow(class string) (shellarea.Handle, error) {
	classPtr, err := windows.UTF16PtrFromString(class)
	if err != nil {
		return 0, fmt.Errorf("invalid window class %q: %w", class, err)
	}
	hwnd, _, _ := procFindWindowW.Call(uintptr(unsafe.Pointer(classPtr)), 0)
	if hwnd == 0 {
		return 0, fmt.Errorf("%w: class %s", shellarea.ErrShellHandleNotFound, class)
	}
	return shellarea.Handle(hwnd), nil
}

// WorkArea reads the primary display work area.
func (s *Shell) WorkArea() (shellarea.Rect, error) {
	var r rect
	ok, _, err := procSystemParametersInfoW.Call(spiGetWorkArea, 0, uintptr(unsafe.Pointer(&r)), 0)
	if ok == 0 {
		return shellarea.Rect{}, callErr("SystemParametersInfoW(SPI_GETWORKAREA)", err)
	}
	return shellarea.Rect{Left: r.left, Top: r.top, Right: r.right, Bottom: r.bottom}, nil
}

// SetWorkArea writes the primary display work area.
func (s *Shell) SetWorkArea(area shellarea.Rect) error {
	r := rect{left: area.Left, top: area.Top, right: area.Right, bottom: area.Bottom}
	ok, _, err := procSystemParametersInfoW.Call(spiSetWorkArea, 0, uintptr(unsafe.Pointer(&r)), 0)
	if ok == 0 {
		return callErr("SystemParametersInfoW(SPI_SETWORKAREA)", err)
	}
	return nil
}

// ScreenBounds returns the primary display rectangle.
func (s *Shell) ScreenBounds() (shellarea.Rect, error) {
	cx, _, _ := procGetSystemMetrics.Call(smCXScreen)
	cy, _, _ := procGetSystemMetrics.Call(smCYScreen)
	if cx == 0 || cy == 0 {
		return shellarea.Rect{}, errors.New("GetSystemMetrics returned an empty primary screen")
	}
	return shellarea.Rect{Left: 0, Top: 0, Right: int32(cx), Bottom: int32(cy)}, nil
}

// RefreshDesktop re-applies the current wallpaper so the desktop repaints
// against the new work area.
func (s *Shell) RefreshDesktop() error {
	ok, _, err := procSystemParametersInfoW.Call(spiSetDeskWallpaper, 0, 0, 0)
	if ok == 0 {
		return callErr("SystemParametersInfoW(SPI_SETDESKWALLPAPER)", err)
	}
	return nil
}

// IsWindowVisible reports the WS_VISIBLE state of h.
func (s *Shell) IsWindowVisible(h shellarea.Handle) bool {
	r, _, _ := procIsWindowVisible.Call(uintptr(h))
	return r != 0
}

// IsZoomed reports whether h is maximized.
func (s *Shell) IsZoomed(h shellarea.Handle) bool {
	r, _, _ := procIsZoomed.Call(uintptr(h))
	return r != 0
}

// ShowWindow applies cmd to h. ShowWindow's return value is the previous
// visibility, not a status, so only handle validity is checked.
func (s *Shell) ShowWindow(h shellarea.Handle, cmd shellarea.ShowCommand) error {
	var nCmdShow uintptr
	switch cmd {
	case shellarea.ShowHide:
		nCmdShow = swHide
	case shellarea.ShowShow:
		nCmdShow = swShow
	case shellarea.ShowRestore:
		nCmdShow = swRestore
	case shellarea.ShowMaximize:
		nCmdShow = swMaximize
	default:
		return fmt.Errorf("unsupported show command %d", cmd)
	}
	if valid, _, _ := procIsWindow.Call(uintptr(h)); valid == 0 {
		return fmt.Errorf("window 0x%X is no longer valid", uintptr(h))
	}
	procShowWindow.Call(uintptr(h), nCmdShow)
	return nil
}

// SetZOrder moves h relative to z without moving, sizing or activating it.
func (s *Shell) SetZOrder(h shellarea.Handle, z shellarea.ZOrder) error {
	var insertAfter uintptr
	switch z {
	case shellarea.ZBottom:
		insertAfter = hwndBottom
	case shellarea.ZTopmost:
		insertAfter = hwndTopmost
	case shellarea.ZNotTopmost:
		insertAfter = hwndNoTopmost
	default:
		return fmt.Errorf("unsupported z-order %d", z)
	}
	ok, _, err := procSetWindowPos.Call(
		uintptr(h),
		insertAfter,
		0, 0, 0, 0,
		swpNoMove|swpNoSize|swpNoActivate,
	)
	if ok == 0 {
		return callErr("SetWindowPos("+z.String()+")", err)
	}
	return nil
}

// EnumWindows visits every top-level window until visit returns false.
//
// EnumWindowsProc carries no closure, so a single process-wide callback is
// registered once and each enumeration is routed to its visitor through a
// token passed as lParam. This keeps the number of callbacks bounded.
func (s *Shell) EnumWindows(visit func(shellarea.Handle) bool) error {
	enumOnce.Do(func() {
		enumCallback = windows.NewCallback(enumTrampoline)
	})

	token := nextEnumToken.Add(1)
	state := &enumState{visit: visit}
	enumVisitors.Store(token, state)
	defer enumVisitors.Delete(token)

	ok, _, err := procEnumWindows.Call(enumCallback, token)
	if ok == 0 && !state.stopped {
		return callErr("EnumWindows", err)
	}
	return nil
}

type enumState struct {
	visit   func(shellarea.Handle) bool
	stopped bool
}

var (
	enumOnce      sync.Once
	enumCallback  uintptr
	enumVisitors  sync.Map // uintptr token -> *enumState
	nextEnumToken atomic.Uintptr
)

func enumTrampoline(hwnd uintptr, token uintptr) uintptr {
	v, ok := enumVisitors.Load(token)
	if !ok {
		return 0
	}
	state := v.(*enumState)
	if state.visit(shellarea.Handle(hwnd)) {
		return 1
	}
	state.stopped = true
	return 0
}
