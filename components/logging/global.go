package logging

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/grand-thief-cash/chaos/app/infra/go/kit/singleton"
)

// Process-wide Manager, built on first use unless one was installed with SetDefault.
var (
	defaultManager   singleton.Cell[*Manager]
	installedManager atomic.Pointer[Manager]
)

// Default returns the process-wide Manager. Unless replaced with SetDefault, its root directory
// is the current working directory.
func Default() *Manager {
	if m := installedManager.Load(); m != nil {
		return m
	}
	return defaultManager.Get(func() *Manager { return NewManager("") })
}

// SetDefault makes m the process-wide Manager (overwrite allowed). nil restores the built-in one.
func SetDefault(m *Manager) {
	installedManager.Store(m)
}

// L returns the root logger of the default Manager.
func L() Logger {
	return Default().GetLogger("")
}

// GetLogger returns a named logger of the default Manager.
func GetLogger(name string) Logger {
	return Default().GetLogger(name)
}

// Structured convenience helpers.
func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	Default().helper.Debug(ctx, msg, fields...)
}
func Info(ctx context.Context, msg string, fields ...zap.Field) {
	Default().helper.Info(ctx, msg, fields...)
}
func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	Default().helper.Warn(ctx, msg, fields...)
}
func Error(ctx context.Context, msg string, fields ...zap.Field) {
	Default().helper.Error(ctx, msg, fields...)
}
func Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	Default().helper.Fatal(ctx, msg, fields...)
}

// Formatted convenience helpers.
func Debugf(ctx context.Context, format string, args ...interface{}) {
	Default().helper.Debug(ctx, fmt.Sprintf(format, args...))
}
func Infof(ctx context.Context, format string, args ...interface{}) {
	Default().helper.Info(ctx, fmt.Sprintf(format, args...))
}
func Warnf(ctx context.Context, format string, args ...interface{}) {
	Default().helper.Warn(ctx, fmt.Sprintf(format, args...))
}
func Errorf(ctx context.Context, format string, args ...interface{}) {
	Default().helper.Error(ctx, fmt.Sprintf(format, args...))
}
func Fatalf(ctx context.Context, format string, args ...interface{}) {
	Default().helper.Fatal(ctx, fmt.Sprintf(format, args...))
}

// UnderlyingZap exposes the root *zap.Logger of the default Manager.
func UnderlyingZap() *zap.Logger {
	return Default().Zap()
}
