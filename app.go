package main

import (
	"sync"
	"sync/atomic"

	"taskbar-hider/internal/applog"
	"taskbar-hider/internal/chord"
	"taskbar-hider/internal/config"
	"taskbar-hider/internal/ipc"
	"taskbar-hider/internal/notify"
	"taskbar-hider/internal/shellarea"
	"taskbar-hider/internal/win32"
)

// Seams for tests. Production code uses the user32-backed adapters.
var (
	newShellFn = func() (shellarea.Shell, error) {
		s, err := win32.NewShell()
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	newHookFn       = func() chord.Hook { return win32.NewKeyboardHook() }
	newPipeServerFn = func(executor ipc.CommandExecutor) pipeServer {
		return ipc.NewPipeServer("", executor)
	}
)

// pipeServer is the part of ipc.PipeServer the app drives.
type pipeServer interface {
	Start() error
	Stop() error
	PipeName() string
}

// desktopNotifier is a notify.Notifier that can be muted at runtime.
type desktopNotifier interface {
	notify.Notifier
	SetEnabled(bool)
}

// App wires the shell controller, the chord watcher and the control pipe
// together and owns their lifetimes.
type App struct {
	// Configuration. cfgMu guards cfg only.
	cfgMu      sync.RWMutex
	cfg        config.Config
	configPath string

	logger   *applog.Logger
	notifier desktopNotifier

	controller *shellarea.Controller
	watcher    *chord.Watcher
	pipe       pipeServer

	// toggleCh holds at most one pending chord; extra chords pressed while
	// a toggle is running are coalesced.
	toggleCh chan struct{}

	quitCh       chan struct{}
	quitOnce     sync.Once
	restoreOnce  sync.Once
	shuttingDown atomic.Bool
	bgWG         sync.WaitGroup
}

// NewApp creates an app for cfg. logger may be nil in tests.
func NewApp(cfg config.Config, configPath string, logger *applog.Logger, notifier desktopNotifier) *App {
	if notifier == nil {
		notifier = notify.NewDesktop(cfg.Notifications)
	}
	return &App{
		cfg:        cfg,
		configPath: configPath,
		logger:     logger,
		notifier:   notifier,
		toggleCh:   make(chan struct{}, 1),
		quitCh:     make(chan struct{}),
	}
}

func (a *App) config() config.Config {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.cfg
}

func (a *App) setConfig(cfg config.Config) {
	a.cfgMu.Lock()
	a.cfg = cfg
	a.cfgMu.Unlock()
}
