package core

import (
	"context"
	"testing"
)

func TestBaseComponentLifecycle(t *testing.T) {
	c := NewBaseComponent("logging")
	if c.Name() != "logging" {
		t.Fatalf("expected name logging, got %s", c.Name())
	}
	if c.IsActive() {
		t.Fatalf("new component should be inactive")
	}
	if err := c.HealthCheck(); err == nil {
		t.Fatalf("expected health check error before start")
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !c.IsActive() || c.HealthCheck() != nil {
		t.Fatalf("component should be active and healthy after start")
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if c.IsActive() {
		t.Fatalf("component should be inactive after stop")
	}
}

var _ Component = (*BaseComponent)(nil)
