package ipc

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"taskbar-hider/internal/shellarea"
	"taskbar-hider/internal/userutil"

	"github.com/google/uuid"
)

var pipeNamePattern = regexp.MustCompile(`(?i)^\\\\\.\\pipe\\taskbar-hider-[a-z0-9._-]{1,128}$`)

const (
	defaultPipePrefix = `\\.\pipe\taskbar-hider-`
	pipeNameEnv       = "TASKBAR_HIDER_PIPE"
)

// Command names a control operation.
type Command string

const (
	CommandToggle  Command = "toggle"
	CommandRestore Command = "restore"
	CommandHide    Command = "hide"
	CommandStatus  Command = "status"
	CommandQuit    Command = "quit"
)

var knownCommands = []Command{CommandToggle, CommandRestore, CommandHide, CommandStatus, CommandQuit}

// ParseCommand validates a command name (case-insensitive).
func ParseCommand(name string) (Command, error) {
	c := Command(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range knownCommands {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown command %q", name)
}

// Request is one control command.
type Request struct {
	ID      string  `json:"id"`
	Command Command `json:"command"`
}

// NewRequest returns a request with a fresh ID.
func NewRequest(cmd Command) Request {
	return Request{ID: uuid.NewString(), Command: cmd}
}

// Response answers exactly one Request; ID echoes the request.
type Response struct {
	ID       string           `json:"id,omitempty"`
	OK       bool             `json:"ok"`
	Message  string           `json:"message,omitempty"`
	State    *shellarea.State `json:"state,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
}

// CommandExecutor handles a control request and returns a response.
type CommandExecutor interface {
	Execute(req Request) Response
}

// ExecutorFunc adapts a function to CommandExecutor.
type ExecutorFunc func(Request) Response

// Execute calls f.
func (f ExecutorFunc) Execute(req Request) Response { return f(req) }

// DefaultPipeName returns the per-user pipe path. TASKBAR_HIDER_PIPE
// overrides it when it matches the expected pattern.
func DefaultPipeName() string {
	if v, ok := trustedPipeNameFromEnv(); ok {
		return v
	}
	return defaultPipePrefix + userutil.CurrentUsername()
}

func trustedPipeNameFromEnv() (string, bool) {
	value := strings.TrimSpace(os.Getenv(pipeNameEnv))
	if value == "" {
		return "", false
	}
	if !pipeNamePattern.MatchString(value) {
		slog.Warn("[DEBUG-IPC] pipe override rejected: value does not match allowed pattern", "name", pipeNameEnv, "value", value)
		return "", false
	}
	return value, true
}

func encodeRequest(req Request) ([]byte, error) {
	return json.Marshal(req)
}

func decodeRequest(raw []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return Request{}, err
	}
	cmd, err := ParseCommand(string(req.Command))
	if err != nil {
		return Request{ID: req.ID}, err
	}
	req.Command = cmd
	if req.ID != "" {
		if _, err := uuid.Parse(req.ID); err != nil {
			return Request{}, fmt.Errorf("invalid request id %q: %w", req.ID, err)
		}
	}
	return req, nil
}

func encodeResponse(resp Response) ([]byte, error) {
	return json.Marshal(resp)
}

func decodeResponse(raw []byte) (Response, error) {
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}
