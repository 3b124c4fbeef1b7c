// components/logging/level.go
package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// Severity 日志级别 DEBUG < INFO < WARNING < ERROR < FATAL
type Severity int8

const (
	DEBUG Severity = iota
	INFO
	WARNING
	ERROR
	FATAL
)

var severityNames = [...]string{"DEBUG", "INFO", "WARNING", "ERROR", "FATAL"}

func (s Severity) String() string {
	if s < DEBUG || s > FATAL {
		return "UNKNOWN"
	}
	return severityNames[s]
}

// ZapLevel maps the severity onto the zap level used by the cores.
func (s Severity) ZapLevel() zapcore.Level {
	switch s {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARNING:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	case FATAL:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// SeverityOf converts a zap level back to a severity. DPanic and Panic count as ERROR and FATAL.
func SeverityOf(l zapcore.Level) Severity {
	switch {
	case l <= zapcore.DebugLevel:
		return DEBUG
	case l == zapcore.InfoLevel:
		return INFO
	case l == zapcore.WarnLevel:
		return WARNING
	case l == zapcore.ErrorLevel || l == zapcore.DPanicLevel:
		return ERROR
	default:
		return FATAL
	}
}

// ParseSeverity 解析日志级别 (大小写不敏感), 无法识别时回退到 INFO
func ParseSeverity(level string) Severity {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARNING
	case "ERROR":
		return ERROR
	case "FATAL", "CRITICAL":
		return FATAL
	default:
		return INFO
	}
}

// FilterMode selects which side of the threshold a LevelFilter keeps.
type FilterMode uint8

const (
	Below FilterMode = iota
	AtOrAbove
)

func (m FilterMode) String() string {
	if m == Below {
		return "below"
	}
	return "at_or_above"
}

// Accepts reports whether a record at severity record passes a filter with the given threshold and mode.
func Accepts(record, threshold Severity, mode FilterMode) bool {
	if mode == Below {
		return record < threshold
	}
	return record >= threshold
}

// LevelFilter splits one stream into the part below and the part at-or-above Threshold.
type LevelFilter struct {
	Threshold Severity
	Mode      FilterMode
}

func (f LevelFilter) Accepts(record Severity) bool {
	return Accepts(record, f.Threshold, f.Mode)
}

// Enabled implements zapcore.LevelEnabler.
func (f LevelFilter) Enabled(l zapcore.Level) bool {
	return f.Accepts(SeverityOf(l))
}

func (f LevelFilter) String() string {
	return f.Mode.String() + " " + f.Threshold.String()
}

// sinkLevel gates a sink by the root threshold, the sink threshold and an optional filter.
type sinkLevel struct {
	root   Severity
	min    Severity
	filter *LevelFilter
}

func (s sinkLevel) Enabled(l zapcore.Level) bool {
	sev := SeverityOf(l)
	if sev < s.root || sev < s.min {
		return false
	}
	if s.filter != nil && !s.filter.Accepts(sev) {
		return false
	}
	return true
}
