package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvLogLevel      = "TASKBAR_HIDER_LOG_LEVEL"
	EnvSettleDelayMS = "TASKBAR_HIDER_SETTLE_DELAY_MS"
	EnvChordEnabled  = "TASKBAR_HIDER_CHORD_ENABLED"

	dotEnvFileName = ".env"
)

var lookupEnvFn = os.LookupEnv

// LoadDotEnv seeds the process environment from <dir>/.env. Variables that
// are already set win over the file. A missing file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, dotEnvFileName)
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	slog.Debug("[DEBUG-CONFIG] loaded .env overrides", "path", path)
	return nil
}

// ApplyEnv overlays TASKBAR_HIDER_* variables onto cfg. Unparsable values are
// logged and ignored.
func ApplyEnv(cfg Config) Config {
	if v, ok := lookupEnvFn(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		if _, err := ParseLogLevel(v); err != nil {
			slog.Warn("[WARN-CONFIG] ignoring invalid env override", "name", EnvLogLevel, "value", v)
		} else {
			cfg.LogLevel = strings.ToLower(strings.TrimSpace(v))
		}
	}
	if v, ok := lookupEnvFn(EnvSettleDelayMS); ok && strings.TrimSpace(v) != "" {
		ms, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || ms < MinSettleDelayMS || ms > MaxSettleDelayMS {
			slog.Warn("[WARN-CONFIG] ignoring invalid env override", "name", EnvSettleDelayMS, "value", v)
		} else {
			cfg.SettleDelayMS = ms
		}
	}
	if v, ok := lookupEnvFn(EnvChordEnabled); ok && strings.TrimSpace(v) != "" {
		enabled, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			slog.Warn("[WARN-CONFIG] ignoring invalid env override", "name", EnvChordEnabled, "value", v)
		} else {
			cfg.ChordEnabled = enabled
		}
	}
	return cfg
}
