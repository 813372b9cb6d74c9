// =============================================================================
// 📦 MACD 日志构建
// =============================================================================
// 根据 LogConfig 构建 zap.Logger
// =============================================================================
package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// BuildLogger 根据日志配置构建 zap.Logger
func (c LogConfig) BuildLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}

	encoding := c.Format
	if encoding == "" {
		encoding = "console"
	}
	if encoding != "json" && encoding != "console" {
		return nil, fmt.Errorf("invalid log format %q", c.Format)
	}

	outputs := c.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if encoding == "console" {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	zapCfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     !c.EnableCaller,
		DisableStacktrace: true,
	}
	return zapCfg.Build()
}
