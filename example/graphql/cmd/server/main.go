package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/kroma-labs/stellate-go/example/graphql/internal/config"
	"github.com/kroma-labs/stellate-go/example/graphql/internal/schema"
	"github.com/kroma-labs/stellate-go/example/graphql/internal/telemetry"
	"github.com/kroma-labs/stellate-go/httpclient"
	"github.com/kroma-labs/stellate-go/httpserver"
	"github.com/kroma-labs/stellate-go/queue"
	"github.com/kroma-labs/stellate-go/stellate"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Setup OpenTelemetry (Tracing + Metrics)
	shutdownTracing, shutdownMetrics, err := telemetry.Setup(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to setup OTel")
	}
	defer func() {
		ctx := context.Background()
		_ = shutdownTracing(ctx)
		_ = shutdownMetrics(ctx)
	}()

	// 2. Stellate client. Collector calls trip a breaker after repeated
	// failures instead of piling up.
	serviceName := os.Getenv("STELLATE_SERVICE_NAME")
	if serviceName == "" {
		serviceName = config.DefaultServiceName
	}
	client := stellate.New(stellate.ServiceIdentity{
		ServiceName:  serviceName,
		LoggingToken: os.Getenv("STELLATE_LOGGING_TOKEN"),
		SchemaToken:  os.Getenv("STELLATE_SCHEMA_TOKEN"),
	},
		stellate.WithLogger(logger),
		stellate.WithHTTPOptions(
			httpclient.WithBreaker(httpclient.DefaultBreakerConfig()),
		),
	)

	// 3. Report executions off the request path.
	sender := httpclient.New(
		httpclient.WithServiceName("stellate"),
		httpclient.WithUserAgent(stellate.UserAgent),
		httpclient.WithLogger(logger),
		httpclient.WithBreaker(httpclient.DefaultBreakerConfig()),
	)
	pool := queue.NewAsync(sender,
		queue.WithLogger(logger),
		queue.WithAsyncConfig(queue.AsyncConfig{
			Workers:     config.Workers,
			Buffer:      config.Buffer,
			SendTimeout: 10 * time.Second,
		}),
	)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := pool.Close(closeCtx); err != nil {
			logger.Warn().Err(err).Msg("pending deliveries dropped")
		}
	}()

	// 4. Upload the schema once at startup.
	if err := client.SyncSchemaFrom(ctx, schema.Introspect, nil); err != nil {
		logger.Error().Err(err).Msg("schema sync failed")
	}

	// 5. Routes
	health := httpserver.NewHealthHandler(config.ServiceVersion)

	mux := http.NewServeMux()
	mux.Handle("/graphql", httpserver.NewGraphQLHandler(client, schema.Execute,
		httpserver.WithDeliver(pool.Deliver),
		httpserver.WithHandlerLogger(logger),
	))
	mux.Handle("GET /metrics", promhttp.Handler())
	health.Register(mux)

	server := httpserver.New(
		httpserver.WithAddr(config.Addr),
		httpserver.WithServiceName(config.ServiceName),
		httpserver.WithLogger(logger),
		httpserver.WithHandler(mux),
		httpserver.WithTracing(httpserver.TracingConfig{
			SkipPaths: []string{"/livez", "/readyz", "/metrics"},
		}),
		httpserver.WithLogging(httpserver.LoggerConfig{
			Logger:    logger,
			SkipPaths: []string{"/livez", "/readyz", "/metrics"},
		}),
		httpserver.WithMiddleware(
			httpserver.Recovery(logger),
			httpserver.RequestID(),
		),
	)

	logger.Info().Str("addr", config.Addr).Msg("try: curl -d '{\"query\":\"{ hello }\"}' localhost:8080/graphql")

	if err := server.ListenAndServe(ctx); err != nil {
		logger.Error().Err(err).Msg("server stopped")
	}
}
