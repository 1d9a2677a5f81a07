package logger

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	corelogger "github.com/kilianp07/yardplan/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger = corelogger.NopLogger

// New returns a Logger for the given pipeline component. The output format is
// selected via the APP_ENV variable.
func New(component string) Logger {
	return NewZerologLogger(component)
}

// Configure sets the global minimum level. An empty level keeps info.
func Configure(level string) error {
	if level == "" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}
