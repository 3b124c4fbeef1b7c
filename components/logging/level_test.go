package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestAccepts(t *testing.T) {
	cases := []struct {
		record, threshold Severity
		mode              FilterMode
		want              bool
	}{
		{INFO, ERROR, Below, true},
		{WARNING, ERROR, Below, true},
		{ERROR, ERROR, Below, false},
		{FATAL, ERROR, Below, false},
		{INFO, ERROR, AtOrAbove, false},
		{ERROR, ERROR, AtOrAbove, true},
		{FATAL, ERROR, AtOrAbove, true},
		{DEBUG, DEBUG, AtOrAbove, true},
	}
	for _, c := range cases {
		if got := Accepts(c.record, c.threshold, c.mode); got != c.want {
			t.Fatalf("Accepts(%s, %s, %s) = %v, want %v", c.record, c.threshold, c.mode, got, c.want)
		}
	}
}

func TestLevelFilterPartitions(t *testing.T) {
	below := LevelFilter{Threshold: ERROR, Mode: Below}
	above := LevelFilter{Threshold: ERROR, Mode: AtOrAbove}
	for _, l := range []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel} {
		if below.Enabled(l) == above.Enabled(l) {
			t.Fatalf("level %s must pass exactly one side of the split", l)
		}
	}
	if below.String() != "below ERROR" {
		t.Fatalf("unexpected filter string %q", below.String())
	}
}

func TestParseSeverity(t *testing.T) {
	cases := map[string]Severity{
		"debug":    DEBUG,
		"INFO":     INFO,
		"Warning":  WARNING,
		"warn":     WARNING,
		"error":    ERROR,
		"fatal":    FATAL,
		"critical": FATAL,
		"verbose":  INFO,
		"":         INFO,
	}
	for in, want := range cases {
		if got := ParseSeverity(in); got != want {
			t.Fatalf("ParseSeverity(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestSeverityZapRoundTrip(t *testing.T) {
	for s := DEBUG; s <= FATAL; s++ {
		if got := SeverityOf(s.ZapLevel()); got != s {
			t.Fatalf("SeverityOf(%s.ZapLevel()) = %s", s, got)
		}
	}
}

func TestSinkLevel(t *testing.T) {
	lv := sinkLevel{root: WARNING, min: INFO}
	if lv.Enabled(zapcore.InfoLevel) {
		t.Fatalf("root threshold WARNING must reject INFO")
	}
	if !lv.Enabled(zapcore.WarnLevel) {
		t.Fatalf("WARNING should pass")
	}
	lv = sinkLevel{root: DEBUG, min: DEBUG, filter: &LevelFilter{Threshold: ERROR, Mode: Below}}
	if !lv.Enabled(zapcore.DebugLevel) || lv.Enabled(zapcore.ErrorLevel) {
		t.Fatalf("filter not applied")
	}
}
