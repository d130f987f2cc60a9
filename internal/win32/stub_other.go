//go:build !windows

package win32

import (
	"errors"

	"taskbar-hider/internal/chord"
	"taskbar-hider/internal/shellarea"
)

// Shell is unavailable off Windows.
type Shell struct{}

// NewShell always fails off Windows.
func NewShell() (*Shell, error) {
	return nil, errors.ErrUnsupported
}

var _ shellarea.Shell = (*Shell)(nil)

func (s *Shell) FindWindow(string) (shellarea.Handle, error) {
	return 0, errors.ErrUnsupported
}

func (s *Shell) WorkArea() (shellarea.Rect, error) {
	return shellarea.Rect{}, errors.ErrUnsupported
}

func (s *Shell) SetWorkArea(shellarea.Rect) error { return errors.ErrUnsupported }

func (s *Shell) ScreenBounds() (shellarea.Rect, error) {
	return shellarea.Rect{}, errors.ErrUnsupported
}

func (s *Shell) RefreshDesktop() error { return errors.ErrUnsupported }

func (s *Shell) IsWindowVisible(shellarea.Handle) bool { return false }

func (s *Shell) IsZoomed(shellarea.Handle) bool { return false }

func (s *Shell) ShowWindow(shellarea.Handle, shellarea.ShowCommand) error {
	return errors.ErrUnsupported
}

func (s *Shell) SetZOrder(shellarea.Handle, shellarea.ZOrder) error {
	return errors.ErrUnsupported
}

func (s *Shell) EnumWindows(func(shellarea.Handle) bool) error {
	return errors.ErrUnsupported
}

// KeyboardHook is unavailable off Windows.
type KeyboardHook struct{}

// NewKeyboardHook returns a hook whose Install always fails.
func NewKeyboardHook() *KeyboardHook { return &KeyboardHook{} }

var _ chord.Hook = (*KeyboardHook)(nil)

func (k *KeyboardHook) Install(func(chord.KeyEvent)) error { return errors.ErrUnsupported }

func (k *KeyboardHook) Uninstall() error { return nil }
