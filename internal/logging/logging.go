// Package logging builds the zap logger Factorix threads through its
// Services record, mapping the CLI's --log-level flag to a zapcore
// level and --quiet to discarding non-error output.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps the CLI's --log-level flag value to a zapcore.Level.
func ParseLevel(s string) (zapcore.Level, error) {
	switch s {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return 0, fmt.Errorf("logging: unknown log level %q", s)
	}
}

// New builds a CLI-oriented logger: console-encoded, colored level names,
// writing to stderr so stdout stays available for command output. quiet
// raises the effective level to error regardless of level.
func New(level zapcore.Level, quiet bool) (*zap.Logger, error) {
	if quiet && level < zapcore.ErrorLevel {
		level = zapcore.ErrorLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}
