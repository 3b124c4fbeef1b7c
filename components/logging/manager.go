// components/logging/manager.go
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/grand-thief-cash/chaos/app/infra/go/kit/consts"
	"github.com/grand-thief-cash/chaos/app/infra/go/kit/pathutil"
)

// State 日志系统状态
type State int32

const (
	StateUninitialized State = 0
	StateConfigured    State = 1
	StateBase          State = 2
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateConfigured:
		return "CONFIGURED"
	case StateBase:
		return "BASE"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// SinkInfo describes an installed sink.
type SinkInfo struct {
	Kind   string // console | file
	Level  Severity
	Filter *LevelFilter
	Path   string // active file path, empty for console
}

func (s SinkInfo) String() string {
	out := s.Kind + "@" + s.Level.String()
	if s.Filter != nil {
		out += "[" + s.Filter.String() + "]"
	}
	if s.Path != "" {
		out += " " + s.Path
	}
	return out
}

type sink struct {
	info  SinkInfo
	core  zapcore.Core
	ws    zapcore.WriteSyncer
	close func() error
}

// Option configures a Manager.
type Option func(*Manager)

// WithConsoleWriter sends console output (and last resort output) to w instead of stderr/stdout.
func WithConsoleWriter(w io.Writer) Option {
	return func(m *Manager) {
		if w != nil {
			m.console = zapcore.AddSync(w)
		}
	}
}

// WithClock replaces time.Now for rotation decisions.
func WithClock(fn func() time.Time) Option {
	return func(m *Manager) {
		if fn != nil {
			m.clock = fn
		}
	}
}

// WithRegisterer enables sink and state metrics on reg. A registration failure is logged as a warning
// and the collectors that could not be registered are not exported.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(m *Manager) {
		m.metrics, m.metricsErr = NewMetrics(reg)
	}
}

// Manager owns the logging state machine and the sinks behind every logger it hands out.
type Manager struct {
	mu sync.Mutex

	root    string
	cfg     *Config
	state   State
	sinks   []sink
	console zapcore.WriteSyncer
	clock   func() time.Time
	metrics *Metrics

	metricsErr error

	sw     *coreSwitch
	logger *zap.Logger
	helper *zapLogger // one extra caller frame for the package level helpers
}

// NewManager creates a Manager resolving relative file paths against root. Until Init is called
// only WARNING and above reach the console.
func NewManager(root string, opts ...Option) *Manager {
	if root == "" {
		root = consts.DEFAULT_LOG_ROOT
	}
	cfg, _ := NormalizeConfig(nil)
	m := &Manager{
		root:  root,
		cfg:   cfg,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.sw = newCoreSwitch(m.lastResort())
	m.logger = zap.New(&rootCore{sw: m.sw},
		zap.AddCaller(),
		zap.AddCallerSkip(callerSkip),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	m.helper = newZapLogger(m.logger.WithOptions(zap.AddCallerSkip(1)))
	m.metrics.setState(StateUninitialized)
	if m.metricsErr != nil {
		m.notice(zapcore.WarnLevel, "logging metrics not registered", zap.Error(m.metricsErr))
	}
	return m
}

// notice logs a message of the manager itself through the root logger.
func (m *Manager) notice(level zapcore.Level, msg string, fields ...zap.Field) {
	newZapLogger(m.logger).logWithContext(context.Background(), level, msg, fields...)
}

func (m *Manager) lastResort() zapcore.Core {
	if m.console != nil {
		return lastResortCore(m.console)
	}
	return lastResortCore(zapcore.Lock(os.Stderr))
}

// SetConfig replaces the pending configuration. It takes effect on the next Init.
func (m *Manager) SetConfig(v any) error {
	cfg, err := NormalizeConfig(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()
	return nil
}

// Config returns a copy of the pending configuration.
func (m *Manager) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.cfg
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Inited reports whether Init has installed sinks (BASE or CONFIGURED).
func (m *Manager) Inited() bool {
	return m.State() != StateUninitialized
}

// Sinks lists the installed sinks in attach order.
func (m *Manager) Sinks() []SinkInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SinkInfo, 0, len(m.sinks))
	for _, s := range m.sinks {
		out = append(out, s.info)
	}
	return out
}

// Init applies the pending configuration. It returns false without doing anything when the
// manager is already CONFIGURED, or already BASE and the configuration is disabled.
func (m *Manager) Init() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateConfigured {
		return false, nil
	}
	cfg := m.cfg
	if !cfg.Enable {
		if m.state == StateBase {
			return false, nil
		}
		m.clearLocked()
		m.installBaseLocked()
		m.notice(zapcore.InfoLevel, "using base logger")
		return true, nil
	}

	if err := cfg.Validate(); err != nil {
		return false, err
	}
	m.clearLocked()
	sinks, err := m.buildSinks(cfg)
	if err != nil {
		return false, err
	}
	m.installLocked(sinks, StateConfigured)
	return true, nil
}

// Clear detaches and closes every sink. Safe in any state.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
}

func (m *Manager) clearLocked() {
	m.sw.store(m.lastResort())
	closeSinks(m.sinks)
	m.sinks = nil
	m.setStateLocked(StateUninitialized)
}

func (m *Manager) setStateLocked(s State) {
	m.state = s
	m.metrics.setState(s)
}

func (m *Manager) installLocked(sinks []sink, s State) {
	cores := make([]zapcore.Core, 0, len(sinks))
	for _, sk := range sinks {
		cores = append(cores, sk.core)
	}
	m.sinks = sinks
	m.sw.store(zapcore.NewTee(cores...))
	m.setStateLocked(s)
}

func (m *Manager) installBaseLocked() {
	enc, _ := NewPatternEncoder(baseFormat, "")
	ws := m.consoleStream("")
	m.installLocked([]sink{{
		info: SinkInfo{Kind: consts.SINK_CONSOLE, Level: DEBUG},
		ws:   ws,
		core: zapcore.NewCore(enc, ws, sinkLevel{root: DEBUG, min: DEBUG}),
	}}, StateBase)
}

// buildSinks creates the console and file sinks of cfg. On failure the sinks built so far are closed.
func (m *Manager) buildSinks(cfg *Config) (sinks []sink, err error) {
	defer func() {
		if err != nil {
			closeSinks(sinks)
			sinks = nil
		}
	}()

	rootLevel := ParseSeverity(cfg.Level)
	if cfg.Console.Enable {
		enc, err := NewPatternEncoder(cfg.Fmt, cfg.DateFmt)
		if err != nil {
			return sinks, err
		}
		lvl := ParseSeverity(cfg.Console.Level)
		ws := m.consoleStream(cfg.Console.Stream)
		sinks = append(sinks, sink{
			info: SinkInfo{Kind: consts.SINK_CONSOLE, Level: lvl},
			ws:   ws,
			core: zapcore.NewCore(enc, ws, sinkLevel{root: rootLevel, min: lvl}),
		})
	}
	if !cfg.File.Enable {
		return sinks, nil
	}

	f := cfg.File
	root := m.root
	if f.Root != "" {
		root = f.Root
	}
	dir := pathutil.Fix(root, f.Path)
	if err := pathutil.Ensure(dir); err != nil {
		return sinks, err
	}
	base := filepath.Join(dir, f.Basename)
	lvl := ParseSeverity(f.Level)

	var filters []*LevelFilter
	names := []string{base}
	if f.ErrorEnable {
		threshold := ParseSeverity(f.ErrorLevel)
		filters = []*LevelFilter{{Threshold: threshold, Mode: Below}, {Threshold: threshold, Mode: AtOrAbove}}
		names = append(names, base+f.ErrorSuffix)
	} else {
		filters = []*LevelFilter{nil}
	}
	for i, name := range names {
		fs, err := m.openFileSink(name, f)
		if err != nil {
			return sinks, err
		}
		enc, err := NewPatternEncoder(cfg.Fmt, cfg.DateFmt)
		if err != nil {
			_ = fs.Close()
			return sinks, err
		}
		sinks = append(sinks, sink{
			info:  SinkInfo{Kind: consts.SINK_FILE, Level: lvl, Filter: filters[i], Path: fs.Path()},
			ws:    fs,
			core:  zapcore.NewCore(enc, fs, sinkLevel{root: rootLevel, min: lvl, filter: filters[i]}),
			close: fs.Close,
		})
	}
	return sinks, nil
}

func (m *Manager) openFileSink(basePath string, f FileConfig) (FileSink, error) {
	if isSizeRotation(f.When) {
		s, err := openSizeFileSink(basePath, f.MaxSize, f.BackupCount, bool(f.Compress), bool(f.Month), f.Suffix, m.clock, m.metrics)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := OpenRotatingFileSink(basePath, RotationOptions{
		When:           f.When,
		Interval:       f.Interval,
		MonthBucketing: bool(f.Month),
		Suffix:         f.Suffix,
		BackupCount:    f.BackupCount,
		Clock:          m.clock,
		Metrics:        m.metrics,
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (m *Manager) consoleStream(stream string) zapcore.WriteSyncer {
	if m.console != nil {
		return m.console
	}
	if strings.EqualFold(strings.TrimSpace(stream), "stdout") {
		return zapcore.Lock(os.Stdout)
	}
	return zapcore.Lock(os.Stderr)
}

func closeSinks(sinks []sink) {
	for _, s := range sinks {
		_ = s.ws.Sync()
		if s.close != nil {
			_ = s.close()
		}
	}
}

// GetLogger returns the logger called name; "" is the root logger. Loggers stay valid across Init and Clear.
func (m *Manager) GetLogger(name string) Logger {
	if name == "" {
		return newZapLogger(m.logger)
	}
	return newZapLogger(m.logger.Named(name))
}

// Zap returns the root *zap.Logger.
func (m *Manager) Zap() *zap.Logger {
	return m.logger
}

// Sync flushes every installed sink.
func (m *Manager) Sync() error {
	return m.logger.Sync()
}
