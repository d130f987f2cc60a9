package main

import (
	"strings"
	"testing"

	"taskbar-hider/internal/ipc"
	"taskbar-hider/internal/shellarea"
)

func newCommandTestApp() (*App, *fakeDesktop) {
	desktop := newFakeDesktop()
	app := NewApp(testConfig(), "", nil, &fakeNotifier{})
	app.controller = shellarea.NewController(desktop, shellarea.Options{SettleDelay: 1})
	return app, desktop
}

func TestExecuteCommands(t *testing.T) {
	tests := []struct {
		name        string
		commands    []ipc.Command
		wantOK      bool
		wantMessage string
		wantVisible bool
		wantArea    shellarea.Rect
	}{
		{
			name:        "hide expands the work area",
			commands:    []ipc.Command{ipc.CommandHide},
			wantOK:      true,
			wantMessage: "applied",
			wantVisible: true,
			wantArea:    fullArea,
		},
		{
			name:        "toggle on an idle desktop hides the taskbar",
			commands:    []ipc.Command{ipc.CommandToggle},
			wantOK:      true,
			wantVisible: false,
			wantArea:    originalArea,
		},
		{
			name:        "restore after hide and toggle",
			commands:    []ipc.Command{ipc.CommandHide, ipc.CommandToggle, ipc.CommandRestore},
			wantOK:      true,
			wantVisible: true,
			wantArea:    originalArea,
		},
		{
			name:        "restore on a pristine desktop is a no-op",
			commands:    []ipc.Command{ipc.CommandRestore},
			wantOK:      true,
			wantMessage: "skipped",
			wantVisible: true,
			wantArea:    originalArea,
		},
		{
			name:        "status reports running",
			commands:    []ipc.Command{ipc.CommandStatus},
			wantOK:      true,
			wantMessage: "running",
			wantVisible: true,
			wantArea:    originalArea,
		},
		{
			name:        "unknown command",
			commands:    []ipc.Command{"explode"},
			wantOK:      false,
			wantMessage: "unknown command",
			wantVisible: true,
			wantArea:    originalArea,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, desktop := newCommandTestApp()
			var resp ipc.Response
			for _, cmd := range tt.commands {
				resp = app.Execute(ipc.Request{ID: "req", Command: cmd})
			}
			if resp.OK != tt.wantOK {
				t.Fatalf("OK = %v, want %v (message %q)", resp.OK, tt.wantOK, resp.Message)
			}
			if resp.ID != "req" {
				t.Fatalf("ID = %q, want echoed request id", resp.ID)
			}
			if tt.wantMessage != "" && !strings.Contains(resp.Message, tt.wantMessage) {
				t.Fatalf("Message = %q, want it to contain %q", resp.Message, tt.wantMessage)
			}
			visible, area := desktop.snapshot()
			if visible != tt.wantVisible {
				t.Fatalf("taskbar visible = %v, want %v", visible, tt.wantVisible)
			}
			if area != tt.wantArea {
				t.Fatalf("work area = %+v, want %+v", area, tt.wantArea)
			}
		})
	}
}

func TestExecuteReturnsState(t *testing.T) {
	app, _ := newCommandTestApp()
	resp := app.Execute(ipc.Request{Command: ipc.CommandHide})
	if resp.State == nil {
		t.Fatal("State = nil")
	}
	if !resp.State.WorkAreaExpanded || !resp.State.TaskbarZOrderLowered {
		t.Fatalf("State = %+v, want expanded and lowered", *resp.State)
	}
	if resp.State.OriginalWorkArea != originalArea {
		t.Fatalf("OriginalWorkArea = %+v, want %+v", resp.State.OriginalWorkArea, originalArea)
	}
}

func TestExecuteMissingTaskbar(t *testing.T) {
	app, desktop := newCommandTestApp()
	desktop.missingTaskbar = true

	resp := app.Execute(ipc.Request{Command: ipc.CommandHide})
	if resp.OK {
		t.Fatalf("hide without a taskbar reported OK: %+v", resp)
	}
	if _, area := desktop.snapshot(); area != originalArea {
		t.Fatalf("work area changed without a taskbar: %+v", area)
	}
}

func TestExecuteQuitRequestsShutdown(t *testing.T) {
	app, _ := newCommandTestApp()
	if resp := app.Execute(ipc.Request{Command: ipc.CommandQuit}); !resp.OK {
		t.Fatalf("quit response = %+v", resp)
	}
	select {
	case <-app.quitCh:
	default:
		t.Fatal("quit did not close quitCh")
	}
}

func TestExecuteGuards(t *testing.T) {
	t.Run("before run", func(t *testing.T) {
		app := NewApp(testConfig(), "", nil, &fakeNotifier{})
		if resp := app.Execute(ipc.Request{Command: ipc.CommandStatus}); resp.OK {
			t.Fatalf("status before Run reported OK: %+v", resp)
		}
	})
	t.Run("during shutdown only status is served", func(t *testing.T) {
		app, desktop := newCommandTestApp()
		app.shuttingDown.Store(true)
		if resp := app.Execute(ipc.Request{Command: ipc.CommandToggle}); resp.OK {
			t.Fatalf("toggle during shutdown reported OK: %+v", resp)
		}
		if visible, _ := desktop.snapshot(); !visible {
			t.Fatal("toggle during shutdown hid the taskbar")
		}
		if resp := app.Execute(ipc.Request{Command: ipc.CommandStatus}); !resp.OK {
			t.Fatalf("status during shutdown = %+v", resp)
		}
	})
}
