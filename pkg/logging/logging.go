// Package logging provides the package-level structured logger used
// throughout relaynet (logging.Debug("...", zap.String(...)) and friends).
package logging

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	logger = mustBuildDefault()
)

func mustBuildDefault() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("logging: failed to build default logger: %v", err))
	}
	return l
}

// FileOptions configures rotation for on-disk logging via lumberjack.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Configure replaces the package-level logger. When file is non-nil, logs
// are written through a rotating lumberjack writer instead of stderr;
// debug enables debug-level output regardless of build mode.
func Configure(debug bool, file *FileOptions) error {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var writer zapcore.WriteSyncer
	if file != nil && file.Path != "" {
		writer = zapcore.AddSync(&lumberjack.Logger{
			Filename:   file.Path,
			MaxSize:    nonZero(file.MaxSizeMB, 100),
			MaxBackups: nonZero(file.MaxBackups, 5),
			MaxAge:     nonZero(file.MaxAgeDays, 28),
		})
	} else {
		writer = zapcore.Lock(zapcore.AddSync(os.Stderr))
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), writer, level)
	next := zap.New(core, zap.AddCaller())

	mu.Lock()
	defer mu.Unlock()
	logger = next
	return nil
}

func nonZero(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

func current() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs a debug-level structured message.
func Debug(msg string, fields ...zap.Field) { current().Debug(msg, fields...) }

// Info logs an info-level structured message.
func Info(msg string, fields ...zap.Field) { current().Info(msg, fields...) }

// Warn logs a warn-level structured message.
func Warn(msg string, fields ...zap.Field) { current().Warn(msg, fields...) }

// Error logs an error-level structured message.
func Error(msg string, fields ...zap.Field) { current().Error(msg, fields...) }

// Sync flushes any buffered log entries; callers should defer it at
// process shutdown.
func Sync() error {
	return current().Sync()
}
