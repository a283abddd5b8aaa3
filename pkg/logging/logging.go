// Package logging builds the zap loggers used across choreo.
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logger.
type Options struct {
	// Level is a zap level name; empty means info.
	Level string
	// Development switches to the console encoder with colour levels.
	Development bool
	// Verbose forces debug regardless of Level.
	Verbose bool
	// Writer redirects output. Nil writes to stderr.
	Writer io.Writer
}

// New returns a logger and the atomic level controlling it, so callers can
// raise or lower verbosity after construction.
func New(opts Options) (*zap.Logger, zap.AtomicLevel, error) {
	level, err := zap.ParseAtomicLevel(orDefault(opts.Level))
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("parse log level: %w", err)
	}
	if opts.Verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	config := zap.NewProductionConfig()
	if opts.Development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.Level = level

	if opts.Writer != nil {
		var encoder zapcore.Encoder
		if opts.Development {
			encoder = zapcore.NewConsoleEncoder(config.EncoderConfig)
		} else {
			encoder = zapcore.NewJSONEncoder(config.EncoderConfig)
		}
		core := zapcore.NewCore(encoder, zapcore.AddSync(opts.Writer), level)
		return zap.New(core), level, nil
	}

	logger, err := config.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("build logger: %w", err)
	}
	return logger, level, nil
}

func orDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}
