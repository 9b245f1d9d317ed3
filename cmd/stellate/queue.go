package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kroma-labs/stellate-go/httpclient"
	"github.com/kroma-labs/stellate-go/httpserver"
	"github.com/kroma-labs/stellate-go/queue"
	"github.com/kroma-labs/stellate-go/stellate"
)

type drainFlags struct {
	redisAddr   string
	key         string
	workers     int
	metricsAddr string
	once        bool
}

func newQueueCmd(a *app) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Work with the Redis delivery queue",
	}

	var flags drainFlags
	drainCmd := &cobra.Command{
		Use:   "drain",
		Short: "Send queued descriptors to the collector",
		Long: `Pop descriptors queued by queue.Redis and POST them to Stellate.

Runs until interrupted, serving /metrics, /livez and /readyz on
--metrics-addr. With --once it sends what is queued and exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.applyDrainFlags(cmd, flags)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.drain(ctx, flags.once)
		},
	}
	drainCmd.Flags().StringVar(&flags.redisAddr, "redis-addr", "", "Redis address (default from config, localhost:6379)")
	drainCmd.Flags().StringVar(&flags.key, "key", "", "Redis list key (default "+queue.DefaultKey+")")
	drainCmd.Flags().IntVar(&flags.workers, "workers", 0, "Concurrent senders (default 2)")
	drainCmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "", "Address for /metrics and health probes; empty config value disables")
	drainCmd.Flags().BoolVar(&flags.once, "once", false, "Drain what is queued and exit")

	queueCmd.AddCommand(drainCmd)
	return queueCmd
}

func (a *app) applyDrainFlags(cmd *cobra.Command, f drainFlags) {
	if cmd.Flags().Changed("redis-addr") {
		a.cfg.Queue.RedisAddr = f.redisAddr
	}
	if cmd.Flags().Changed("key") {
		a.cfg.Queue.Key = f.key
	}
	if cmd.Flags().Changed("workers") {
		a.cfg.Queue.Workers = f.workers
	}
	if cmd.Flags().Changed("metrics-addr") {
		a.cfg.Queue.MetricsAddr = f.metricsAddr
	}
}

func (a *app) drain(ctx context.Context, once bool) error {
	rdb := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{a.cfg.Queue.RedisAddr}})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect redis %s: %w", a.cfg.Queue.RedisAddr, err)
	}

	reg := prometheus.NewRegistry()
	metrics, err := queue.NewMetrics(reg)
	if err != nil {
		return err
	}

	sender := a.collectorSender(a.cfg.HTTP.httpOptions(httpclient.NewRedisStore(rdb)))
	opts := []queue.Option{
		queue.WithLogger(a.logger),
		queue.WithMetrics(metrics),
		queue.WithKey(a.cfg.Queue.Key),
		queue.WithWorkers(a.cfg.Queue.Workers),
	}
	drainer := queue.NewDrainer(rdb, sender, opts...)

	logger := a.logger.With().Str("key", a.cfg.Queue.Key).Logger()

	if once {
		var n int
		for {
			ok, err := drainer.DrainOnce(ctx)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			n++
		}
		logger.Info().Int("sent", n).Msg("queue drained")
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)

	if addr := a.cfg.Queue.MetricsAddr; addr != "" {
		reg.MustRegister(
			queue.NewDepthCollector(queue.NewRedis(rdb, queue.WithKey(a.cfg.Queue.Key))),
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		health := httpserver.NewHealthHandler(stellate.Version)
		health.AddReadinessCheck("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})

		mux := http.NewServeMux()
		mux.Handle("GET /metrics", httpserver.PrometheusHandlerFor(reg))
		health.Register(mux)

		server := httpserver.New(
			httpserver.WithAddr(addr),
			httpserver.WithServiceName("stellate-drain"),
			httpserver.WithLogger(a.logger),
			httpserver.WithHandler(mux),
		)
		g.Go(func() error {
			return server.ListenAndServe(ctx)
		})
	}

	g.Go(func() error {
		logger.Info().Int("workers", a.cfg.Queue.Workers).Msg("draining queue")
		return drainer.Run(ctx)
	})

	return g.Wait()
}
