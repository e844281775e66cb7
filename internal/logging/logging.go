// Package logging configures the structured logger shared by every
// component, following the teacher pack's domain precedent for
// database comparison tooling (dm-checker's zap.Logger threaded
// through source/target checks) rather than bare fmt.Print.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a console-encoded zap.Logger at info level, or debug
// level when verbose is set. The CLI's --verbose flag (cmd/rowcheck)
// is the only caller; every other component receives the *zap.Logger
// it returns.
func New(verbose bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
