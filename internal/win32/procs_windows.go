//go:build windows

package win32

import (
	"errors"
	"fmt"
	"syscall"

	"golang.org/x/sys/windows"
)

var (
	user32DLL = windows.NewLazySystemDLL("user32.dll")

	procFindWindowW           = user32DLL.NewProc("FindWindowW")
	procSystemParametersInfoW = user32DLL.NewProc("SystemParametersInfoW")
	procGetSystemMetrics      = user32DLL.NewProc("GetSystemMetrics")
	procEnumWindows           = user32DLL.NewProc("EnumWindows")
	procIsWindow              = user32DLL.NewProc("IsWindow")
	procIsWindowVisible       = user32DLL.NewProc("IsWindowVisible")
	procIsZoomed              = user32DLL.NewProc("IsZoomed")
	procShowWindow            = user32DLL.NewProc("ShowWindow")
	procSetWindowPos          = user32DLL.NewProc("SetWindowPos")

	procSetWindowsHookExW   = user32DLL.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32DLL.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32DLL.NewProc("CallNextHookEx")
	procGetMessageW         = user32DLL.NewProc("GetMessageW")
	procPeekMessageW        = user32DLL.NewProc("PeekMessageW")
	procTranslateMessage    = user32DLL.NewProc("TranslateMessage")
	procDispatchMessageW    = user32DLL.NewProc("DispatchMessageW")
	procPostThreadMessageW  = user32DLL.NewProc("PostThreadMessageW")
)

const (
	spiSetDeskWallpaper = 0x0014
	spiSetWorkArea      = 0x002F
	spiGetWorkArea      = 0x0030

	smCXScreen = 0
	smCYScreen = 1

	swHide     = 0
	swMaximize = 3
	swShow     = 5
	swRestore  = 9

	swpNoSize     = 0x0001
	swpNoMove     = 0x0002
	swpNoActivate = 0x0010

	whKeyboardLL = 13
	wmQuit       = 0x0012
	wmKeyDown    = 0x0100
	wmKeyUp      = 0x0101
	wmSysKeyDown = 0x0104
	wmSysKeyUp   = 0x0105
	pmNoRemove   = 0x0000
)

const (
	hwndBottom    uintptr = 1
	hwndTopmost   uintptr = ^uintptr(0) // (HWND)-1
	hwndNoTopmost uintptr = ^uintptr(1) // (HWND)-2
)

// rect mirrors the Win32 RECT struct.
type rect struct {
	left   int32
	top    int32
	right  int32
	bottom int32
}

// point mirrors the Win32 POINT struct.
type point struct {
	x int32
	y int32
}

// winMsg mirrors the Win32 MSG struct. The layout must match winuser.h on
// both 32-bit and 64-bit Windows.
type winMsg struct {
	hWnd     uintptr
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	pt       point
	lPrivate uint32
}

// kbdllHookStruct mirrors KBDLLHOOKSTRUCT.
type kbdllHookStruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

// callErr turns a failed proc call into an error. A zero errno still yields a
// named error so callers never see a nil failure.
func callErr(name string, err error) error {
	if err == nil || errors.Is(err, syscall.Errno(0)) {
		return fmt.Errorf("%s failed", name)
	}
	return fmt.Errorf("%s: %w", name, err)
}

// ensureLoaded reports a clean error instead of the panic LazyProc.Call
// raises when user32 or one of its exports is unavailable.
func ensureLoaded(procs ...*windows.LazyProc) error {
	if err := user32DLL.Load(); err != nil {
		return fmt.Errorf("user32.dll is unavailable: %w", err)
	}
	for _, p := range procs {
		if err := p.Find(); err != nil {
			return fmt.Errorf("user32 export unavailable: %w", err)
		}
	}
	return nil
}
