package notify

import (
	"errors"
	"testing"
)

type sent struct{ title, message string }

func stubBackends(t *testing.T, notifyErr error) (*[]sent, *int) {
	t.Helper()
	origNotify, origBeep := notifyFn, beepFn
	t.Cleanup(func() { notifyFn, beepFn = origNotify, origBeep })

	var calls []sent
	beeps := 0
	notifyFn = func(title, message string) error {
		calls = append(calls, sent{title, message})
		return notifyErr
	}
	beepFn = func() error {
		beeps++
		return nil
	}
	return &calls, &beeps
}

func TestDesktopNotify(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		title     string
		wantTitle string
		wantSent  bool
	}{
		{name: "prefixes title", enabled: true, title: "Hook failed", wantTitle: AppName + ": Hook failed", wantSent: true},
		{name: "empty title uses app name", enabled: true, title: " ", wantTitle: AppName, wantSent: true},
		{name: "already prefixed", enabled: true, title: AppName, wantTitle: AppName, wantSent: true},
		{name: "disabled drops", enabled: false, title: "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls, _ := stubBackends(t, nil)
			d := NewDesktop(tt.enabled)
			if err := d.Notify(tt.title, "body"); err != nil {
				t.Fatalf("Notify() error = %v", err)
			}
			if !tt.wantSent {
				if len(*calls) != 0 {
					t.Fatalf("sent %v while disabled", *calls)
				}
				return
			}
			if len(*calls) != 1 || (*calls)[0].title != tt.wantTitle || (*calls)[0].message != "body" {
				t.Fatalf("sent %v, want title %q", *calls, tt.wantTitle)
			}
		})
	}
}

func TestDesktopNotifyFailureBeeps(t *testing.T) {
	toastErr := errors.New("no notification service")
	_, beeps := stubBackends(t, toastErr)

	err := NewDesktop(true).Notify("x", "y")
	if !errors.Is(err, toastErr) {
		t.Fatalf("Notify() error = %v, want %v", err, toastErr)
	}
	if *beeps != 1 {
		t.Fatalf("beeps = %d, want 1", *beeps)
	}
}

func TestDesktopSetEnabled(t *testing.T) {
	calls, _ := stubBackends(t, nil)
	d := NewDesktop(false)
	d.SetEnabled(true)
	if !d.Enabled() {
		t.Fatal("Enabled() = false after SetEnabled(true)")
	}
	_ = d.Notify("a", "b")
	if len(*calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(*calls))
	}
}

func TestDiscard(t *testing.T) {
	var n Notifier = Discard{}
	if err := n.Notify("a", "b"); err != nil {
		t.Fatalf("Discard.Notify() error = %v", err)
	}
}
