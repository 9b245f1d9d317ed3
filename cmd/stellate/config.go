package main

import (
	"fmt"
	"os"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"gopkg.in/yaml.v3"

	"github.com/kroma-labs/stellate-go/httpclient"
	"github.com/kroma-labs/stellate-go/queue"
	"github.com/kroma-labs/stellate-go/stellate"
)

// Environment variables that override the config file.
const (
	envServiceName  = "STELLATE_SERVICE_NAME"
	envLoggingToken = "STELLATE_LOGGING_TOKEN"
	envSchemaToken  = "STELLATE_SCHEMA_TOKEN"
)

// Config is the CLI configuration file. Tokens are usually left out and
// supplied through STELLATE_LOGGING_TOKEN and STELLATE_SCHEMA_TOKEN.
//
//	service:
//	  service_name: my-api
//	http:
//	  timeout: 5s
//	  breaker: true
//	queue:
//	  redis_addr: localhost:6379
//	  workers: 4
type Config struct {
	Service    stellate.ServiceIdentity `yaml:"service"`
	BaseDomain string                   `yaml:"base_domain"`
	Log        LogConfig                `yaml:"log"`
	HTTP       HTTPConfig               `yaml:"http"`
	Queue      QueueConfig              `yaml:"queue"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// HTTPConfig configures the collector client.
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`

	// Breaker enables a circuit breaker. With a Redis address configured
	// the breaker state is shared through Redis.
	Breaker bool `yaml:"breaker"`

	// RateLimit caps collector requests per second. Zero disables it.
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`
}

// QueueConfig configures the Redis drainer.
type QueueConfig struct {
	RedisAddr   string `yaml:"redis_addr"`
	Key         string `yaml:"key"`
	Workers     int    `yaml:"workers"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		BaseDomain: stellate.DefaultBaseDomain,
		Log:        LogConfig{Level: "info"},
		HTTP:       HTTPConfig{Timeout: httpclient.DefaultConfig().Timeout},
		Queue: QueueConfig{
			RedisAddr:   "localhost:6379",
			Key:         queue.DefaultKey,
			Workers:     2,
			MetricsAddr: ":9090",
		},
	}
}

// loadConfig reads path (if non-empty) over the defaults and then applies
// environment overrides looked up with getenv.
func loadConfig(path string, getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	if v := getenv(envServiceName); v != "" {
		cfg.Service.ServiceName = v
	}
	if v := getenv(envLoggingToken); v != "" {
		cfg.Service.LoggingToken = v
	}
	if v := getenv(envSchemaToken); v != "" {
		cfg.Service.SchemaToken = v
	}

	return cfg, nil
}

// httpOptions turns the HTTP section into client options. store is nil
// when no Redis is available for a shared breaker.
func (c HTTPConfig) httpOptions(store gobreaker.SharedDataStore) []httpclient.Option {
	httpCfg := httpclient.DefaultConfig()
	if c.Timeout > 0 {
		httpCfg.Timeout = c.Timeout
	}
	opts := []httpclient.Option{httpclient.WithConfig(httpCfg)}

	if c.Breaker {
		breaker := httpclient.DefaultBreakerConfig()
		if store != nil {
			breaker = httpclient.DistributedBreakerConfig(store)
		}
		opts = append(opts, httpclient.WithBreaker(breaker))
	}

	if c.RateLimit > 0 {
		rl := httpclient.DefaultRateLimitConfig()
		rl.RequestsPerSecond = c.RateLimit
		if c.Burst > 0 {
			rl.Burst = c.Burst
		}
		opts = append(opts, httpclient.WithRateLimit(rl))
	}

	return opts
}
