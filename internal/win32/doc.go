// Package win32 binds the shellarea and chord abstractions to user32.
// On other platforms every operation reports errors.ErrUnsupported.
package win32
