package main

import (
	"fmt"
	"log/slog"

	"taskbar-hider/internal/chord"
	"taskbar-hider/internal/ipc"
	"taskbar-hider/internal/shellarea"
)

// Execute implements ipc.CommandExecutor for the control pipe.
func (a *App) Execute(req ipc.Request) ipc.Response {
	if a.controller == nil {
		return ipc.Response{ID: req.ID, Message: "controller not ready"}
	}
	if a.shuttingDown.Load() && req.Command != ipc.CommandStatus {
		return ipc.Response{ID: req.ID, Message: "shutting down"}
	}

	slog.Debug("[DEBUG-IPC] executing command", "command", req.Command)
	switch req.Command {
	case ipc.CommandToggle:
		return a.resultResponse(req, a.controller.ToggleVisibility())
	case ipc.CommandRestore:
		return a.resultResponse(req, a.controller.RestoreAll())
	case ipc.CommandHide:
		return a.resultResponse(req, a.controller.Initialize())
	case ipc.CommandStatus:
		return a.statusResponse(req)
	case ipc.CommandQuit:
		a.requestQuit()
		return ipc.Response{ID: req.ID, OK: true, Message: "quitting; desktop will be restored"}
	default:
		return ipc.Response{ID: req.ID, Message: fmt.Sprintf("unknown command %q", req.Command)}
	}
}

func (a *App) resultResponse(req ipc.Request, res shellarea.Result) ipc.Response {
	logResult(res)
	state := a.controller.State()
	return ipc.Response{
		ID:      req.ID,
		OK:      res.OK(),
		Message: res.String(),
		State:   &state,
	}
}

func (a *App) statusResponse(req ipc.Request) ipc.Response {
	state := a.controller.State()
	chordState := "disabled"
	if a.watcher != nil {
		chordState = chord.Shortcut
	}
	msg := fmt.Sprintf("running; shortcut: %s; settle delay: %s", chordState, a.controller.SettleDelay())
	var warnings []string
	if a.logger != nil {
		msg += "; log: " + a.logger.Path()
		warnings = a.logger.RecentWarnings()
	}
	return ipc.Response{
		ID:       req.ID,
		OK:       true,
		Message:  msg,
		State:    &state,
		Warnings: warnings,
	}
}
