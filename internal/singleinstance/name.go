package singleinstance

import (
	"errors"

	"taskbar-hider/internal/userutil"
)

const mutexPrefix = `Local\taskbar-hider-`

// ErrAlreadyRunning is returned by TryLock when another instance holds the mutex.
var ErrAlreadyRunning = errors.New("another instance is already running")

// DefaultMutexName returns the per-session mutex name. It mirrors the
// control pipe name so that one user gets exactly one hider.
func DefaultMutexName() string {
	return mutexPrefix + userutil.CurrentUsername()
}
