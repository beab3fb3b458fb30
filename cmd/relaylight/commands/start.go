package commands

import (
	"errors"
	"net"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tendermint/relaylight/config"
	"github.com/tendermint/relaylight/libs/log"
	"github.com/tendermint/relaylight/light"
	"github.com/tendermint/relaylight/rpc"
	"github.com/tendermint/relaylight/rpc/server"
	"github.com/tendermint/relaylight/trigger"
)

func addStartFlags(cmd *cobra.Command, conf *config.Config) {
	cmd.Flags().StringSlice("triggers", conf.Triggers, "trigger ids to run (default: every configured trigger)")
	cmd.Flags().Duration("scheduler.interval", conf.Scheduler.Interval, "time between two invocations of a trigger")
	cmd.Flags().String("rpc.laddr", conf.RPC.ListenAddress, "relay inbox listen address (empty disables it)")
	cmd.Flags().Bool("instrumentation.prometheus", conf.Instrumentation.Prometheus, "serve Prometheus metrics under /metrics")
	addDBFlags(cmd, conf)
}

// MakeStartCommand returns the command running the scheduler and the relay
// inbox until interrupted.
func MakeStartCommand(conf *config.Config, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "start",
		Aliases: []string{"run"},
		Short:   "Run the trigger scheduler and the relay inbox",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			kvStore, err := openStore(conf, logger)
			if err != nil {
				return err
			}
			defer kvStore.Close()

			configs := trigger.NewKVConfigProvider(kvStore)
			triggerIDs := conf.Triggers
			if len(triggerIDs) == 0 {
				if triggerIDs, err = configs.TriggerIDs(ctx); err != nil {
					return err
				}
			}
			if len(triggerIDs) == 0 {
				return errors.New("no trigger configured; run init-trigger first")
			}

			lightMetrics, triggerMetrics := light.NopMetrics(), trigger.NopMetrics()
			var metricsHandler http.Handler
			if conf.Instrumentation.Prometheus {
				lightMetrics = light.PrometheusMetrics(conf.Instrumentation.Namespace)
				triggerMetrics = trigger.PrometheusMetrics(conf.Instrumentation.Namespace)
				metricsHandler = rpc.PrometheusHandler()
			}

			verifier, err := newVerifier(conf, logger, lightMetrics)
			if err != nil {
				return err
			}
			driver := trigger.NewDriver(configs, kvStore, verifier,
				trigger.WithLogger(logger.With("module", "driver")),
				trigger.WithMetrics(triggerMetrics),
			)
			scheduler := trigger.NewScheduler(driver, conf.Scheduler.Interval, triggerIDs,
				logger.With("module", "scheduler"))

			listener, err := listenIfEnabled(conf.RPC)
			if err != nil {
				return err
			}
			env := &rpc.Environment{
				Configs: configs,
				Store:   kvStore,
				Logger:  logger,
				Metrics: metricsHandler,
			}

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return scheduler.Run(ctx) })
			if listener != nil {
				g.Go(func() error { return env.Serve(ctx, listener, conf.RPC) })
			}

			logger.Info("started relaylight", "triggers", triggerIDs, "db-backend", conf.DBBackend)
			return g.Wait()
		},
	}
	addStartFlags(cmd, conf)
	return cmd
}

func listenIfEnabled(cfg *config.RPCConfig) (net.Listener, error) {
	if cfg.ListenAddress == "" {
		return nil, nil
	}
	return server.Listen(cfg.ListenAddress)
}
