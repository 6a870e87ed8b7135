// Package config loads tool-level settings for the backcast CLI:
// where configuration sources live and where run outputs go. It is
// distinct from the composed run configuration, which is the runner's
// concern.
package config

import (
	"context"
	"io"
	"log/slog"
)

// Settings file names searched in the working directory.
const (
	SettingsFileName    = "backcast.yaml"
	SettingsFileNameAlt = "backcast.yml"
)

// Default settings values.
const (
	DefaultConfigsDir = "configs"
	DefaultOutputsDir = "outputs"
)

// envPrefix namespaces environment overrides, e.g. BACKCAST_CONFIGS_DIR.
const envPrefix = "BACKCAST_"

// Settings holds the tool-level settings.
type Settings struct {
	ConfigsDir string `koanf:"configs_dir"`
	OutputsDir string `koanf:"outputs_dir"`
	Verbose    bool   `koanf:"verbose"`
}

// settingsKey and loggerKey store per-invocation state in the command
// context; shared with the commands package via the accessors below.
type settingsKey struct{}
type loggerKey struct{}

// WithSettings stores settings in the context.
func WithSettings(ctx context.Context, s *Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

// GetSettings retrieves settings from the command context, falling back
// to defaults so help-style commands work without a loaded config.
func GetSettings(ctx context.Context) *Settings {
	if s, ok := ctx.Value(settingsKey{}).(*Settings); ok {
		return s
	}
	return &Settings{ConfigsDir: DefaultConfigsDir, OutputsDir: DefaultOutputsDir}
}

type logLevelKey struct{}

// WithLogLevel stores the adjustable log level in the context so the
// runner can raise it once execution.logging is known.
func WithLogLevel(ctx context.Context, level *slog.LevelVar) context.Context {
	return context.WithValue(ctx, logLevelKey{}, level)
}

// GetLogLevel retrieves the adjustable log level, if any.
func GetLogLevel(ctx context.Context) *slog.LevelVar {
	if l, ok := ctx.Value(logLevelKey{}).(*slog.LevelVar); ok {
		return l
	}
	return nil
}

// WithLogger stores the logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
