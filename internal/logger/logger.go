package logger

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel accepts a level name ("debug", "warn") or a zapcore level number.
// Anything else is info.
func ParseLevel(level string) zapcore.Level {
	level = strings.TrimSpace(level)
	if n, err := strconv.Atoi(level); err == nil {
		return zapcore.Level(n)
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// New builds a JSON production logger writing to stdout.
func New(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	zapCfg.EncoderConfig.CallerKey = "ln"
	zapCfg.EncoderConfig.FunctionKey = ""
	zapCfg.EncoderConfig.LevelKey = "severity"
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stdout"}

	return zapCfg.Build()
}

// NewGlobal builds a logger, installs it as the zap global and returns a
// func that restores the previous global and flushes.
func NewGlobal(level string) (*zap.Logger, func(), error) {
	lg, err := New(level)
	if err != nil {
		return nil, nil, err
	}
	undo := zap.ReplaceGlobals(lg)
	return lg, func() {
		undo()
		_ = lg.Sync()
	}, nil
}
