package cmd

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	sharedErrors "github.com/khanhnv2901/bigip-recon/internal/shared/errors"
)

// newLogger builds the process logger. Output goes to stderr so the progress
// line and summary on stdout stay readable.
func newLogger(cfg LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("%w: log level %q", sharedErrors.ErrInvalidConfig, cfg.Level)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	// Per-host warnings must not be sampled away on large batches.
	zcfg.Sampling = nil

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "console":
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	case "json":
		zcfg.Encoding = "json"
	default:
		return nil, fmt.Errorf("%w: log format %q", sharedErrors.ErrInvalidConfig, cfg.Format)
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: build logger: %w", sharedErrors.ErrInvalidConfig, err)
	}
	return logger, nil
}
