package config

const (
	// Stellate identity. Tokens come from STELLATE_LOGGING_TOKEN and
	// STELLATE_SCHEMA_TOKEN.
	DefaultServiceName = "stellate-go-example"

	// Server configuration
	Addr = ":8080"

	// Deferred delivery pool
	Workers = 4
	Buffer  = 512

	// OpenTelemetry configuration
	OTLPEndpoint   = "localhost:4317"
	ServiceName    = "stellate-graphql-example"
	ServiceVersion = "0.1.0"
)
