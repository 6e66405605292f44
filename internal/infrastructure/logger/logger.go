package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ressKim-io/BullyGuard/internal/infrastructure/config"
)

// ServiceName is attached to every log line
const ServiceName = "bullyguard"

// NewLogger builds the service logger from cfg. JSON output is sampled and
// meant for log shipping; console output is colored and unsampled for local
// runs. An unknown level falls back to info.
func NewLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	zcfg := baseConfig(cfg.Format)

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	zcfg.Level = level

	zcfg.EncoderConfig.TimeKey = "timestamp"
	zcfg.EncoderConfig.MessageKey = "message"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
	zcfg.OutputPaths = []string{"stdout"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	zcfg.InitialFields = map[string]interface{}{"service": ServiceName}

	logger, err := zcfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

func baseConfig(format string) zap.Config {
	if format == "console" {
		zcfg := zap.NewDevelopmentConfig()
		// DPanic logs must not crash a running server
		zcfg.Development = false
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zcfg
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Encoding = "json"
	return zcfg
}
