//go:build !windows

package autostart

import "errors"

// Enable is unsupported off Windows.
func Enable(string) error { return errors.ErrUnsupported }

// Disable is unsupported off Windows.
func Disable() error { return errors.ErrUnsupported }

// Command is unsupported off Windows.
func Command() (string, error) { return "", errors.ErrUnsupported }
