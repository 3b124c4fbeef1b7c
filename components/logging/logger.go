// components/logging/logger.go
package logging

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/grand-thief-cash/chaos/app/infra/go/kit/consts"
)

const (
	// 包装层数: Logger 方法 + logWithContext
	callerSkip = 2
)

// Logger 日志记录器接口
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...zap.Field)
	Info(ctx context.Context, msg string, fields ...zap.Field)
	Warn(ctx context.Context, msg string, fields ...zap.Field)
	Error(ctx context.Context, msg string, fields ...zap.Field)
	Fatal(ctx context.Context, msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	Sync() error
}

// zapLogger 基于 zap 的 Logger 实现
type zapLogger struct {
	z *zap.Logger
}

func newZapLogger(z *zap.Logger) *zapLogger {
	return &zapLogger{z: z}
}

// Debug 记录调试日志
func (l *zapLogger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithContext(ctx, zapcore.DebugLevel, msg, fields...)
}

// Info 记录信息日志
func (l *zapLogger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithContext(ctx, zapcore.InfoLevel, msg, fields...)
}

// Warn 记录警告日志
func (l *zapLogger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithContext(ctx, zapcore.WarnLevel, msg, fields...)
}

// Error 记录错误日志
func (l *zapLogger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithContext(ctx, zapcore.ErrorLevel, msg, fields...)
}

// Fatal 记录致命错误日志（依赖 zap 内部的 os.Exit）
func (l *zapLogger) Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithContext(ctx, zapcore.FatalLevel, msg, fields...)
}

// With 创建带有附加字段的新logger
func (l *zapLogger) With(fields ...zap.Field) Logger {
	return &zapLogger{z: l.z.With(fields...)}
}

// Sync 同步日志
func (l *zapLogger) Sync() error {
	return l.z.Sync()
}

// Zap exposes the underlying *zap.Logger.
func (l *zapLogger) Zap() *zap.Logger { return l.z }

// logWithContext 注入 OTel trace/span 信息（仅当存在有效 span）
func (l *zapLogger) logWithContext(ctx context.Context, level zapcore.Level, msg string, fields ...zap.Field) {
	ce := l.z.Check(level, msg)
	if ce == nil {
		return
	}
	ce.Write(withTrace(ctx, fields)...)
}

func withTrace(ctx context.Context, fields []zap.Field) []zap.Field {
	if ctx == nil {
		return fields
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return fields
	}
	if !hasField(fields, consts.KEY_TraceID) {
		fields = append([]zap.Field{zap.String(consts.KEY_TraceID, sc.TraceID().String())}, fields...)
	}
	if !hasField(fields, consts.KEY_SpanID) {
		fields = append([]zap.Field{zap.String(consts.KEY_SpanID, sc.SpanID().String())}, fields...)
	}
	if !hasField(fields, consts.KEY_TraceFlags) {
		fields = append([]zap.Field{zap.String(consts.KEY_TraceFlags, sc.TraceFlags().String())}, fields...)
	}
	return fields
}

// hasField checks if given key exists among provided zap fields.
func hasField(fields []zap.Field, key string) bool {
	for _, f := range fields {
		if f.Key == key {
			return true
		}
	}
	return false
}
