package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/grand-thief-cash/chaos/app/infra/go/kit/components/logging"
	"github.com/grand-thief-cash/chaos/app/infra/go/kit/components/prometheus"
	"github.com/grand-thief-cash/chaos/app/infra/go/kit/config"
	"github.com/grand-thief-cash/chaos/app/infra/go/kit/consts"
	"github.com/grand-thief-cash/chaos/app/infra/go/kit/timez"
)

type runOptions struct {
	configPath  string
	root        string
	metricsAddr string
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "kitlog",
		Short:         "kit logging CLI",
		Long:          "kitlog loads a logging config, initialises logging and writes sample records.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Initialise logging from a config file and emit sample records",
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts runOptions
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.root, _ = cmd.Flags().GetString("root")
			opts.metricsAddr, _ = cmd.Flags().GetString("metrics-addr")
			if opts.root == "" {
				opts.root = os.Getenv(consts.ENV_LOG_ROOT)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return run(ctx, opts)
		},
	}
	runCmd.Flags().String("config", consts.DEFAULT_CONFIG_PATH, "Config file (.yaml, .yml or .json)")
	runCmd.Flags().String("root", "", "Root directory for relative log paths (default $"+consts.ENV_LOG_ROOT+" or ./)")
	runCmd.Flags().String("metrics-addr", "", "Serve logging metrics on this address and wait for a signal (e.g. :9090)")
	rootCmd.AddCommand(runCmd)

	defaultsCmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print the default logging config as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := yaml.Marshal(map[string]any{consts.KEY_Logging: logging.DefaultConfig()})
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	rootCmd.AddCommand(defaultsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "kitlog:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts runOptions) error {
	raw, err := config.Load(opts.configPath, "")
	if err != nil {
		return err
	}

	var mopts []logging.Option
	var metrics *prometheus.Component
	if opts.metricsAddr != "" {
		metrics = prometheus.NewComponent(prometheus.Config{
			Address:          opts.metricsAddr,
			CollectGoMetrics: true,
			CollectProcess:   true,
		})
		mopts = append(mopts, logging.WithRegisterer(metrics.Registry()))
	}

	manager := logging.NewManager(opts.root, mopts...)
	logging.SetDefault(manager)
	defer logging.SetDefault(nil)

	comp := logging.NewLoggerComponent(manager, raw)
	if err := comp.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = comp.Stop(context.Background()) }()

	count := timez.StartCount()
	log := logging.GetLogger("kitlog")
	for _, s := range manager.Sinks() {
		log.Info(ctx, "sink attached", zap.Stringer("sink", s))
	}
	log.Debug(ctx, "sample debug record")
	log.Info(ctx, "sample info record", zap.String("config", opts.configPath))
	log.Warn(ctx, "sample warning record")
	log.Error(ctx, "sample error record")

	if metrics != nil {
		if err := metrics.Start(ctx); err != nil {
			return err
		}
		defer func() { _ = metrics.Stop(context.Background()) }()
		log.Info(ctx, "serving metrics until interrupted", zap.String("addr", metrics.Addr()))
		<-ctx.Done()
	}

	count.Stop()
	return nil
}
