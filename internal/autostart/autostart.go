// Package autostart registers the hider to start at user logon through the
// per-user Run key.
package autostart

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ValueName is the Run key value owned by this program.
	ValueName  = "TaskbarHider"
	runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`
)

// Action is a requested autostart change.
type Action string

const (
	ActionOn     Action = "on"
	ActionOff    Action = "off"
	ActionStatus Action = "status"
)

// ParseAction validates an -autostart argument.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionOn, ActionOff, ActionStatus:
		return a, nil
	}
	return "", fmt.Errorf("autostart: want on, off or status, got %q", s)
}

// ErrNotRegistered is returned by Command when no Run value exists.
var ErrNotRegistered = errors.New("autostart is not registered")

// CommandLine returns the Run value for exe: the quoted path followed by
// args. Quoting keeps paths with spaces from being split by the shell.
func CommandLine(exe string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quote(exe))
	for _, a := range args {
		if strings.ContainsAny(a, " \t") {
			a = quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	return `"` + strings.Trim(s, `"`) + `"`
}

// Matches reports whether an existing Run value launches exe.
func Matches(value, exe string) bool {
	value = strings.TrimSpace(value)
	var path string
	if strings.HasPrefix(value, `"`) {
		end := strings.Index(value[1:], `"`)
		if end < 0 {
			return false
		}
		path = value[1 : end+1]
	} else {
		path, _, _ = strings.Cut(value, " ")
	}
	return strings.EqualFold(path, strings.Trim(exe, `"`))
}

// Apply performs action for exe and returns a one-line status message.
func Apply(action Action, exe string) (string, error) {
	switch action {
	case ActionOn:
		if err := Enable(exe); err != nil {
			return "", err
		}
		return "autostart enabled", nil
	case ActionOff:
		if err := Disable(); err != nil {
			return "", err
		}
		return "autostart disabled", nil
	case ActionStatus:
		value, err := Command()
		if errors.Is(err, ErrNotRegistered) {
			return "autostart: off", nil
		}
		if err != nil {
			return "", err
		}
		if !Matches(value, exe) {
			return "autostart: on (other executable: " + value + ")", nil
		}
		return "autostart: on", nil
	}
	return "", fmt.Errorf("autostart: unsupported action %q", action)
}
