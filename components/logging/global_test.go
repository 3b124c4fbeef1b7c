package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestDefaultIsShared(t *testing.T) {
	if Default() != Default() {
		t.Fatalf("Default should return the same manager")
	}
}

func TestSetDefaultRoutesHelpers(t *testing.T) {
	var console bytes.Buffer
	m := NewManager(t.TempDir(), WithConsoleWriter(&console))
	SetDefault(m)
	defer SetDefault(nil)
	defer m.Clear()

	if Default() != m {
		t.Fatalf("SetDefault not applied")
	}
	if _, err := m.Init(); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	Debugf(ctx, "value=%d", 7)
	GetLogger("named").Info(ctx, "child")
	Warn(ctx, "plain")

	out := console.String()
	for _, want := range []string{"DEBUG:root:value=7", "INFO:named:child", "WARNING:root:plain"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
	if UnderlyingZap() != m.Zap() {
		t.Fatalf("UnderlyingZap should expose the default manager's logger")
	}
}

func TestHelperCallerIsUserCode(t *testing.T) {
	var console bytes.Buffer
	m := NewManager(t.TempDir(), WithConsoleWriter(&console))
	SetDefault(m)
	defer SetDefault(nil)
	defer m.Clear()

	_ = m.SetConfig(map[string]any{
		"enable": true,
		"fmt":    "%(filename)s %(message)s",
		"file":   map[string]any{"enable": false},
	})
	if _, err := m.Init(); err != nil {
		t.Fatal(err)
	}
	Info(context.Background(), "from helper")
	m.GetLogger("x").Info(context.Background(), "from logger")

	out := console.String()
	if !strings.Contains(out, "global_test.go from helper") || !strings.Contains(out, "global_test.go from logger") {
		t.Fatalf("caller should point at the test file: %q", out)
	}
}
