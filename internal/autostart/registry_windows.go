//go:build windows

package autostart

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sys/windows/registry"
)

// Enable writes the Run value for exe.
func Enable(exe string) error {
	key, _, err := registry.CreateKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open Run key: %w", err)
	}
	defer key.Close()
	value := CommandLine(exe)
	if err := key.SetStringValue(ValueName, value); err != nil {
		return fmt.Errorf("write Run value: %w", err)
	}
	slog.Info("[DEBUG-AUTOSTART] registered", "value", value)
	return nil
}

// Disable removes the Run value. A missing value is not an error.
func Disable() error {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if errors.Is(err, registry.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open Run key: %w", err)
	}
	defer key.Close()
	if err := key.DeleteValue(ValueName); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("delete Run value: %w", err)
	}
	slog.Info("[DEBUG-AUTOSTART] unregistered")
	return nil
}

// Command returns the registered command line or ErrNotRegistered.
func Command() (string, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE)
	if errors.Is(err, registry.ErrNotExist) {
		return "", ErrNotRegistered
	}
	if err != nil {
		return "", fmt.Errorf("open Run key: %w", err)
	}
	defer key.Close()
	value, _, err := key.GetStringValue(ValueName)
	if errors.Is(err, registry.ErrNotExist) {
		return "", ErrNotRegistered
	}
	if err != nil {
		return "", fmt.Errorf("read Run value: %w", err)
	}
	return value, nil
}
