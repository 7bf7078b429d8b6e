// Package observability builds the process logger.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/tactics/internal/config"
)

// NewLogger creates a structured logger from cfg. Entries carry cfg.Service
// and cfg.Fields, so the battle server, migrator and replay tool can share a
// sink and still be told apart.
//
// Precondition: cfg passed config validation.
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zapCfg, err := zapConfig(cfg)
	if err != nil {
		return nil, err
	}
	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

func zapConfig(cfg config.LoggingConfig) (zap.Config, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return zap.Config{}, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zc zap.Config
	switch cfg.Format {
	case "json":
		zc = zap.NewProductionConfig()
	case "console":
		zc = zap.NewDevelopmentConfig()
	default:
		return zap.Config{}, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if len(cfg.Outputs) > 0 {
		zc.OutputPaths = append([]string(nil), cfg.Outputs...)
	}
	zc.InitialFields = initialFields(cfg)
	return zc, nil
}

func initialFields(cfg config.LoggingConfig) map[string]any {
	if cfg.Service == "" && len(cfg.Fields) == 0 {
		return nil
	}
	out := make(map[string]any, len(cfg.Fields)+1)
	for k, v := range cfg.Fields {
		out[k] = v
	}
	if cfg.Service != "" {
		out["service"] = cfg.Service
	}
	return out
}
