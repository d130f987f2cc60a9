package shellarea

import "errors"

var (
	// ErrShellHandleNotFound means the taskbar window could not be located.
	// Taskbar manipulation degrades to a no-op.
	ErrShellHandleNotFound = errors.New("shell taskbar window not found")

	// ErrNativeCallFailed wraps any failing (or panicking) host call.
	ErrNativeCallFailed = errors.New("native shell call failed")

	// ErrNoBaseline means the original work area could not be captured, so
	// expanding it would be unrecoverable.
	ErrNoBaseline = errors.New("original work area not captured")
)
