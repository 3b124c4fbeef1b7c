package prometheus

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grand-thief-cash/chaos/app/infra/go/kit/components/logging"
	"github.com/grand-thief-cash/chaos/app/infra/go/kit/consts"
	"github.com/grand-thief-cash/chaos/app/infra/go/kit/core"
)

// Config for the metrics endpoint.
type Config struct {
	Address          string `yaml:"address" json:"address"` // e.g. ":9090"
	Path             string `yaml:"path" json:"path"`       // default /metrics
	CollectGoMetrics bool   `yaml:"collect_go_metrics" json:"collect_go_metrics"`
	CollectProcess   bool   `yaml:"collect_process" json:"collect_process"`
}

// Component owns a private registry and serves it over HTTP while started.
type Component struct {
	*core.BaseComponent
	cfg      Config
	registry *prometheus.Registry
	server   *http.Server
	addr     string
}

// NewComponent creates the registry right away so collectors can be registered before Start.
func NewComponent(cfg Config) *Component {
	if cfg.Address == "" {
		cfg.Address = ":9090"
	}
	if cfg.Path == "" {
		cfg.Path = "/metrics"
	}
	reg := prometheus.NewRegistry()
	if cfg.CollectGoMetrics {
		_ = reg.Register(collectors.NewGoCollector())
	}
	if cfg.CollectProcess {
		_ = reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return &Component{
		BaseComponent: core.NewBaseComponent(consts.COMPONENT_PROMETHEUS),
		cfg:           cfg,
		registry:      reg,
	}
}

// Registry returns the registry served by the component.
func (c *Component) Registry() *prometheus.Registry { return c.registry }

// Addr returns the bound listen address once started.
func (c *Component) Addr() string { return c.addr }

func (c *Component) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", c.cfg.Address)
	if err != nil {
		return fmt.Errorf("prometheus listen %s: %w", c.cfg.Address, err)
	}
	c.addr = ln.Addr().String()

	mux := http.NewServeMux()
	mux.Handle(c.cfg.Path, promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
	c.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logging.Infof(ctx, "prometheus metrics listening on %s%s", c.addr, c.cfg.Path)
		if err := c.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			logging.Errorf(ctx, "prometheus server error: %v", err)
		}
	}()
	return c.BaseComponent.Start(ctx)
}

func (c *Component) Stop(ctx context.Context) error {
	defer c.BaseComponent.Stop(ctx)
	if c.server == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("prometheus server shutdown: %w", err)
	}
	c.server = nil
	return nil
}

func (c *Component) HealthCheck() error {
	if err := c.BaseComponent.HealthCheck(); err != nil {
		return err
	}
	if c.server == nil {
		return fmt.Errorf("prometheus not started")
	}
	return nil
}
