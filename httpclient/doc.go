// Package httpclient sends Stellate collector requests with OpenTelemetry
// instrumentation. Client implements delivery.Sender and is the default
// transport for synchronous delivery.
//
// # Quick Start
//
//	client := httpclient.New(
//	    httpclient.WithConfig(httpclient.InlineConfig()),
//	    httpclient.WithServiceName("graphql-api"),
//	)
//	resp, err := client.Send(ctx, descriptor)
//
// Send never retries. A non-2xx answer is returned as a Response, only
// transport failures are returned as errors.
//
// # Resilience
//
// Telemetry delivery is best-effort, so the client can shed load instead
// of waiting on a failing collector:
//
//	client := httpclient.New(
//	    // Stop calling the collector after 5 consecutive failures.
//	    httpclient.WithBreaker(httpclient.DefaultBreakerConfig()),
//	    // Never send more than 50 requests per second; excess is dropped.
//	    httpclient.WithRateLimit(httpclient.RateLimitConfig{
//	        RequestsPerSecond: 50,
//	        Burst:             10,
//	    }),
//	)
//
// Share breaker state across replicas with Redis:
//
//	rdb := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{"localhost:6379"}})
//	client := httpclient.New(
//	    httpclient.WithBreaker(httpclient.DistributedBreakerConfig(httpclient.NewRedisStore(rdb))),
//	)
//
// # Observability
//
// Metrics:
//   - http.client.request.duration (histogram)
//   - http.client.active_requests (up-down counter)
//   - http.client.errors (counter, by error.type)
//   - http.client.breaker.requests (counter, by result)
//   - http.client.breaker.state (gauge)
//   - http.client.rate_limited (counter)
//
// Traces: one client span per request ("HTTP POST") with W3C trace context
// injected into the collector request.
//
// # Debugging
//
//	client := httpclient.New(
//	    httpclient.WithLogger(logger),
//	    httpclient.WithDebug(true),
//	    httpclient.WithGenerateCurl(true),
//	)
package httpclient
