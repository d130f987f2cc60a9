package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"taskbar-hider/internal/applog"
	"taskbar-hider/internal/autostart"
	"taskbar-hider/internal/chord"
	"taskbar-hider/internal/config"
	"taskbar-hider/internal/ipc"
	"taskbar-hider/internal/notify"
	"taskbar-hider/internal/singleinstance"
)

const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitNotAlive = 3
)

// Seams for tests.
var (
	sendFn           = ipc.Send
	tryLockFn        = singleinstance.TryLock
	executableFn     = os.Executable
	autostartApplyFn = autostart.Apply
	serveFn          = serve
)

// cliOptions is the parsed command line.
type cliOptions struct {
	command    ipc.Command
	autostart  string
	configPath string
	console    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	switch {
	case opts.autostart != "":
		return runAutostart(opts.autostart, stdout, stderr)
	case opts.command != "":
		return runRemote(opts.command, stdout, stderr)
	}
	return serveFn(opts, stderr)
}

func parseArgs(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("taskbar-hider", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: taskbar-hider [flags]\n\n")
		fmt.Fprintf(stderr, "Hides the taskbar and reclaims its area. Press %s to toggle.\n", chord.Shortcut)
		fmt.Fprintf(stderr, "Without a command flag the hider starts in the background.\n\n")
		fs.PrintDefaults()
	}

	commands := map[ipc.Command]*bool{
		ipc.CommandToggle:  fs.Bool("toggle", false, "toggle the taskbar in the running instance"),
		ipc.CommandRestore: fs.Bool("restore", false, "restore the taskbar and work area in the running instance"),
		ipc.CommandHide:    fs.Bool("hide", false, "hide the taskbar again in the running instance"),
		ipc.CommandStatus:  fs.Bool("status", false, "print the running instance's state"),
		ipc.CommandQuit:    fs.Bool("quit", false, "restore the desktop and stop the running instance"),
	}
	fs.StringVar(&opts.autostart, "autostart", "", "start at logon: on, off or status")
	fs.StringVar(&opts.configPath, "config", "", "config file path (default "+config.DefaultPath()+")")
	fs.BoolVar(&opts.console, "console", false, "log to stderr instead of the log file")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	var selected []ipc.Command
	for cmd, set := range commands {
		if *set {
			selected = append(selected, cmd)
		}
	}
	if len(selected) > 1 {
		return opts, errors.New("only one of -toggle, -restore, -hide, -status, -quit may be given")
	}
	if len(selected) == 1 {
		opts.command = selected[0]
	}
	if opts.autostart != "" {
		if opts.command != "" {
			return opts, errors.New("-autostart cannot be combined with a command flag")
		}
		if _, err := autostart.ParseAction(opts.autostart); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func runAutostart(value string, stdout, stderr io.Writer) int {
	action, err := autostart.ParseAction(value)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	exe, err := executableFn()
	if err != nil {
		fmt.Fprintf(stderr, "resolve executable: %v\n", err)
		return exitFailure
	}
	if resolved, evalErr := filepath.EvalSymlinks(exe); evalErr == nil {
		exe = resolved
	}
	msg, err := autostartApplyFn(action, exe)
	if err != nil {
		fmt.Fprintf(stderr, "autostart %s: %v\n", action, err)
		return exitFailure
	}
	fmt.Fprintln(stdout, msg)
	return exitOK
}

// runRemote forwards cmd to the running instance over the control pipe.
func runRemote(cmd ipc.Command, stdout, stderr io.Writer) int {
	setConsoleUTF8()
	resp, err := sendFn("", ipc.NewRequest(cmd))
	if err != nil {
		if ipc.IsConnectionError(err) {
			fmt.Fprintln(stderr, "taskbar-hider is not running")
			return exitNotAlive
		}
		fmt.Fprintf(stderr, "%s: %v\n", cmd, err)
		return exitFailure
	}
	printResponse(stdout, resp)
	if !resp.OK {
		return exitFailure
	}
	return exitOK
}

func printResponse(w io.Writer, resp ipc.Response) {
	if resp.Message != "" {
		fmt.Fprintln(w, resp.Message)
	}
	if st := resp.State; st != nil {
		fmt.Fprintf(w, "taskbar lowered: %t\nwork area expanded: %t\ntaskbar hidden: %t\n",
			st.TaskbarZOrderLowered, st.WorkAreaExpanded, st.TaskbarHiddenInDesktopMode)
		if st.BaselineCaptured {
			r := st.OriginalWorkArea
			fmt.Fprintf(w, "original work area: (%d,%d)-(%d,%d)\n", r.Left, r.Top, r.Right, r.Bottom)
		}
	}
	for _, warning := range resp.Warnings {
		fmt.Fprintln(w, "warning: "+warning)
	}
}

// serve runs the background instance until it is told to quit.
func serve(opts cliOptions, stderr io.Writer) int {
	mutexLock, err := tryLockFn(singleinstance.DefaultMutexName())
	if errors.Is(err, singleinstance.ErrAlreadyRunning) {
		slog.Info("[DEBUG-SINGLE] another instance is already running")
		n := notify.NewDesktop(true)
		if notifyErr := n.Notify("Already running", "Press "+chord.Shortcut+" to toggle the taskbar."); notifyErr != nil {
			fmt.Fprintln(stderr, "taskbar-hider is already running")
		}
		return exitOK
	}
	if err != nil {
		slog.Warn("[DEBUG-SINGLE] mutex creation failed, proceeding without single-instance guard", "error", err)
	}
	if mutexLock != nil {
		defer func() {
			if releaseErr := mutexLock.Release(); releaseErr != nil {
				slog.Warn("[DEBUG-SINGLE] mutex release failed", "error", releaseErr)
			}
		}()
	}

	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	if err := config.LoadDotEnv(filepath.Dir(configPath)); err != nil {
		slog.Warn("[WARN-CONFIG] failed to load .env", "error", err)
	}
	cfg, err := config.EnsureFile(configPath)
	if err != nil {
		slog.Warn("[WARN-CONFIG] config unavailable, using defaults", "path", configPath, "error", err)
	}
	cfg = config.ApplyEnv(cfg)

	if opts.console {
		setConsoleUTF8()
	}
	logger, logErr := applog.New(applog.Options{
		Dir:     filepath.Dir(configPath),
		Console: opts.console,
		Level:   cfg.SlogLevel(),
		Stderr:  stderr,
	})
	defer func() {
		if closeErr := logger.Close(); closeErr != nil {
			fmt.Fprintf(stderr, "close log: %v\n", closeErr)
		}
	}()
	slog.SetDefault(logger.Logger)
	if logErr != nil {
		slog.Warn("[DEBUG-APP] log file unavailable, logging to stderr", "error", logErr)
	}
	for _, warning := range config.ConsumeDefaultPathWarnings() {
		slog.Warn("[WARN-CONFIG] " + warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := NewApp(cfg, configPath, logger, notify.NewDesktop(cfg.Notifications))
	if err := app.Run(ctx); err != nil {
		slog.Error("[DEBUG-APP] taskbar hider stopped", "error", err)
		return exitFailure
	}
	return exitOK
}
