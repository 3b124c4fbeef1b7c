// components/logging/component.go
package logging

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/grand-thief-cash/chaos/app/infra/go/kit/consts"
	"github.com/grand-thief-cash/chaos/app/infra/go/kit/core"
)

// LoggerComponent 将 Manager 接入组件生命周期
type LoggerComponent struct {
	*core.BaseComponent
	manager *Manager
	config  any
}

// NewLoggerComponent 创建日志组件, cfg 为 nil 时沿用 Manager 当前配置
func NewLoggerComponent(m *Manager, cfg any) *LoggerComponent {
	return &LoggerComponent{
		BaseComponent: core.NewBaseComponent(consts.COMPONENT_LOGGING),
		manager:       m,
		config:        cfg,
	}
}

// Start 启动日志组件
func (lc *LoggerComponent) Start(ctx context.Context) error {
	if lc.config != nil {
		if err := lc.manager.SetConfig(lc.config); err != nil {
			return fmt.Errorf("failed to apply logging config: %w", err)
		}
	}
	if _, err := lc.manager.Init(); err != nil {
		return fmt.Errorf("failed to init logging: %w", err)
	}
	if err := lc.BaseComponent.Start(ctx); err != nil {
		return err
	}
	lc.manager.GetLogger(consts.COMPONENT_LOGGING).Info(ctx, "logger component started",
		zap.String("state", lc.manager.State().String()),
	)
	return nil
}

// Stop 停止日志组件
func (lc *LoggerComponent) Stop(ctx context.Context) error {
	if lc.manager.Inited() {
		lc.manager.GetLogger(consts.COMPONENT_LOGGING).Info(ctx, "logger component stopping")
		_ = lc.manager.Sync()
	}
	lc.manager.Clear()
	return lc.BaseComponent.Stop(ctx)
}

// HealthCheck 健康检查
func (lc *LoggerComponent) HealthCheck() error {
	if err := lc.BaseComponent.HealthCheck(); err != nil {
		return err
	}
	if !lc.manager.Inited() {
		return fmt.Errorf("logging is not initialized")
	}
	return nil
}

// Manager 返回组件持有的 Manager
func (lc *LoggerComponent) Manager() *Manager { return lc.manager }
