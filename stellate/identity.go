package stellate

import "fmt"

// Collector header names.
const (
	// HeaderLoggingToken authenticates /log requests.
	HeaderLoggingToken = "Stellate-Logging-Token"

	// HeaderSchemaToken authenticates /schema requests.
	HeaderSchemaToken = "Stellate-Schema-Token"

	// HeaderRequestID is set by the Stellate edge on requests it has
	// already logged. Its presence suppresses telemetry.
	HeaderRequestID = "Gcdn-Request-Id"
)

// DefaultBaseDomain is the collector domain. Each service is reached at a
// subdomain of it.
const DefaultBaseDomain = "stellate.sh"

// ServiceIdentity names the Stellate service and holds its tokens.
// An empty field counts as missing.
type ServiceIdentity struct {
	ServiceName  string `yaml:"service_name"`
	LoggingToken string `yaml:"logging_token"`
	SchemaToken  string `yaml:"schema_token"`
}

func serviceURL(serviceName, baseDomain, path string) string {
	return fmt.Sprintf("https://%s.%s/%s", serviceName, baseDomain, path)
}
