// core/component.go
package core

import (
	"context"
	"fmt"
	"sync/atomic"
)

// Component 定义组件的基本接口
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	HealthCheck() error
	IsActive() bool
}

// BaseComponent 提供组件的基础实现
type BaseComponent struct {
	name   string
	active atomic.Bool
}

// NewBaseComponent 创建基础组件
func NewBaseComponent(name string) *BaseComponent {
	return &BaseComponent{name: name}
}

func (c *BaseComponent) Name() string {
	return c.name
}

func (c *BaseComponent) IsActive() bool {
	return c.active.Load()
}

func (c *BaseComponent) SetActive(active bool) {
	c.active.Store(active)
}

func (c *BaseComponent) Start(ctx context.Context) error {
	c.active.Store(true)
	return nil
}

func (c *BaseComponent) Stop(ctx context.Context) error {
	c.active.Store(false)
	return nil
}

func (c *BaseComponent) HealthCheck() error {
	if !c.active.Load() {
		return fmt.Errorf("component %s is not active", c.name)
	}
	return nil
}
