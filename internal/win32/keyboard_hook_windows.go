//go:build windows

package win32

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
	"unsafe"

	"taskbar-hider/internal/chord"

	"golang.org/x/sys/windows"
)

const hookStopTimeout = 2 * time.Second

type hookLoopReady struct {
	threadID uint32
	err      error
}

// KeyboardHook is a WH_KEYBOARD_LL hook that runs on its own locked OS
// thread. Low-level hooks are called on the installing thread, which must
// pump messages for the hook to receive anything.
type KeyboardHook struct {
	mu       sync.Mutex
	threadID uint32
	doneCh   chan struct{}

	handler  func(chord.KeyEvent)
	hhook    atomic.Uintptr
	callback uintptr
}

// NewKeyboardHook returns an uninstalled hook.
func NewKeyboardHook() *KeyboardHook {
	return &KeyboardHook{}
}

var _ chord.Hook = (*KeyboardHook)(nil)

// Install starts the hook thread and blocks until the hook is registered.
func (k *KeyboardHook) Install(handler func(chord.KeyEvent)) error {
	if handler == nil {
		return errors.New("key event handler is required")
	}
	if err := ensureLoaded(
		procSetWindowsHookExW,
		procUnhookWindowsHookEx,
		procCallNextHookEx,
		procGetMessageW,
		procPeekMessageW,
		procPostThreadMessageW,
	); err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if k.doneCh != nil {
		return errors.New("keyboard hook is already installed")
	}

	k.handler = handler
	// One callback per hook instance; windows.NewCallback slots are never
	// released, so it is created once and reused across reinstalls.
	if k.callback == 0 {
		k.callback = windows.NewCallback(k.hookProc)
	}

	readyCh := make(chan hookLoopReady, 1)
	doneCh := make(chan struct{})
	go k.runLoop(readyCh, doneCh)

	ready := <-readyCh
	if ready.err != nil {
		<-doneCh
		return ready.err
	}
	k.threadID = ready.threadID
	k.doneCh = doneCh
	return nil
}

// Uninstall stops the hook thread. Calling it on an uninstalled hook is a
// no-op.
func (k *KeyboardHook) Uninstall() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.doneCh == nil {
		return nil
	}
	threadID, doneCh := k.threadID, k.doneCh
	k.threadID, k.doneCh = 0, nil

	stopErr := postQuit(threadID)

	timer := time.NewTimer(hookStopTimeout)
	defer timer.Stop()
	select {
	case <-doneCh:
	case <-timer.C:
		slog.Warn("[DEBUG-CHORD] hook message loop stop timed out, thread may leak", "threadID", threadID)
		stopErr = errors.Join(stopErr, fmt.Errorf("hook message loop stop timed out (threadID=%d)", threadID))
	}
	return stopErr
}

func (k *KeyboardHook) runLoop(readyCh chan<- hookLoopReady, doneCh chan struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(doneCh)

	threadID := windows.GetCurrentThreadId()

	// Creates the thread message queue so WM_QUIT can be posted to it.
	var qmsg winMsg
	ret, _, peekErr := procPeekMessageW.Call(uintptr(unsafe.Pointer(&qmsg)), 0, 0, 0, pmNoRemove)
	if ret == 0 && peekErr != syscall.Errno(0) {
		slog.Debug("[DEBUG-CHORD] PeekMessageW for queue init returned error", "error", peekErr)
	}

	var hMod windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &hMod); err != nil {
		readyCh <- hookLoopReady{err: fmt.Errorf("GetModuleHandleEx: %w", err)}
		return
	}

	hhook, _, hookErr := procSetWindowsHookExW.Call(whKeyboardLL, k.callback, uintptr(hMod), 0)
	if hhook == 0 {
		readyCh <- hookLoopReady{err: callErr("SetWindowsHookExW(WH_KEYBOARD_LL)", hookErr)}
		return
	}
	k.hhook.Store(hhook)
	defer func() {
		h := k.hhook.Swap(0)
		if h == 0 {
			return
		}
		if ok, _, err := procUnhookWindowsHookEx.Call(h); ok == 0 {
			slog.Error("[DEBUG-CHORD] UnhookWindowsHookEx failed", "error", callErr("UnhookWindowsHookEx", err))
		}
	}()

	readyCh <- hookLoopReady{threadID: threadID}

	for {
		var msg winMsg
		ret, _, lastErr := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		switch int32(ret) {
		case -1:
			slog.Warn("[DEBUG-CHORD] GetMessageW returned error, exiting hook loop", "error", lastErr)
			return
		case 0:
			slog.Debug("[DEBUG-CHORD] hook loop received WM_QUIT")
			return
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&msg)))
	}
}

// hookProc is the LowLevelKeyboardProc. It never consumes keys.
func (k *KeyboardHook) hookProc(nCode, wParam, lParam uintptr) uintptr {
	if int32(nCode) >= 0 && lParam != 0 {
		if ev, ok := translateKeyMessage(uint32(wParam), (*kbdllHookStruct)(unsafe.Pointer(lParam))); ok {
			k.dispatch(ev)
		}
	}
	next, _, _ := procCallNextHookEx.Call(k.hhook.Load(), nCode, wParam, lParam)
	return next
}

func (k *KeyboardHook) dispatch(ev chord.KeyEvent) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[DEBUG-PANIC] key event handler panicked", "panic", r)
		}
	}()
	k.handler(ev)
}

func translateKeyMessage(message uint32, info *kbdllHookStruct) (chord.KeyEvent, bool) {
	switch message {
	case wmKeyDown, wmSysKeyDown:
		return chord.KeyEvent{Key: chord.VKey(info.vkCode), Down: true}, true
	case wmKeyUp, wmSysKeyUp:
		return chord.KeyEvent{Key: chord.VKey(info.vkCode), Down: false}, true
	}
	return chord.KeyEvent{}, false
}

func postQuit(threadID uint32) error {
	if threadID == 0 {
		return errors.New("cannot post WM_QUIT: threadID is 0")
	}
	if ok, _, err := procPostThreadMessageW.Call(uintptr(threadID), wmQuit, 0, 0); ok == 0 {
		return callErr("PostThreadMessageW", err)
	}
	return nil
}
