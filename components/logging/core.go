// components/logging/core.go
package logging

import (
	"sync/atomic"

	"go.uber.org/zap/zapcore"
)

// coreState is one generation of the installed sinks.
type coreState struct {
	gen  uint64
	core zapcore.Core
}

// coreSwitch holds the core every logger created by a Manager writes through. Replacing it
// re-targets all existing loggers at once.
type coreSwitch struct {
	gen atomic.Uint64
	cur atomic.Pointer[coreState]
}

func newCoreSwitch(c zapcore.Core) *coreSwitch {
	s := &coreSwitch{}
	s.store(c)
	return s
}

func (s *coreSwitch) store(c zapcore.Core) {
	if c == nil {
		c = zapcore.NewNopCore()
	}
	s.cur.Store(&coreState{gen: s.gen.Add(1), core: c})
}

func (s *coreSwitch) load() *coreState {
	return s.cur.Load()
}

// rootCore forwards to the current core of its switch. Fields added with With are replayed
// on top of each new generation and cached per generation.
type rootCore struct {
	sw     *coreSwitch
	fields []zapcore.Field
	cached atomic.Pointer[coreState]
}

var _ zapcore.Core = (*rootCore)(nil)

func (c *rootCore) current() zapcore.Core {
	st := c.sw.load()
	if len(c.fields) == 0 {
		return st.core
	}
	if d := c.cached.Load(); d != nil && d.gen == st.gen {
		return d.core
	}
	d := &coreState{gen: st.gen, core: st.core.With(c.fields)}
	c.cached.Store(d)
	return d.core
}

func (c *rootCore) Enabled(l zapcore.Level) bool {
	return c.sw.load().core.Enabled(l)
}

func (c *rootCore) With(fields []zapcore.Field) zapcore.Core {
	if len(fields) == 0 {
		return c
	}
	all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	all = append(all, fields...)
	return &rootCore{sw: c.sw, fields: all}
}

// Check lets every sink core of the current generation decide for itself, so level filters apply per sink.
func (c *rootCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return c.current().Check(ent, ce)
}

func (c *rootCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	return c.current().Write(ent, fields)
}

func (c *rootCore) Sync() error {
	return c.sw.load().core.Sync()
}

// lastResortCore prints WARNING and above to w while no sinks are installed.
func lastResortCore(w zapcore.WriteSyncer) zapcore.Core {
	enc, err := NewPatternEncoder("%(message)s", "")
	if err != nil {
		return zapcore.NewNopCore()
	}
	return zapcore.NewCore(enc, w, zapcore.WarnLevel)
}
