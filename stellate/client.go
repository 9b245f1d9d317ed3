package stellate

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/kroma-labs/stellate-go/delivery"
)

// Diagnostics logged when a call is skipped.
const (
	msgLogMissingService    = "Missing service name in order to log metrics to Stellate"
	msgLogMissingToken      = "Missing token in order to log metrics to Stellate"
	msgLogMissingQuery      = "Cannot log metrics to Stellate without a query string"
	msgSchemaMissingService = "Missing service name in order to sync schema to Stellate"
	msgSchemaMissingToken   = "Missing token in order to sync schema to Stellate"

	msgLogFailed    = "Failed to log metrics to Stellate"
	msgSchemaFailed = "Failed to sync schema to Stellate"
)

// Operation is what the execution function receives.
type Operation struct {
	// Query is the GraphQL document. Empty means no query string.
	Query string

	// Variables must be JSON serializable. Nil encodes as null.
	Variables any

	// Method is the HTTP method of the incoming request. Default: POST.
	Method string

	// OperationName selects an operation in Query. Empty encodes as null.
	OperationName string
}

// Request is one GraphQL execution to run and report.
type Request struct {
	Operation

	// Headers of the incoming HTTP request, or nil. They add client
	// context to the record and carry the Gcdn-Request-Id marker.
	Headers http.Header

	// Deliver, if set, receives the descriptor instead of it being sent
	// synchronously.
	Deliver delivery.DeliverFunc
}

// ExecuteFunc runs a GraphQL operation. Its result must be JSON
// serializable.
type ExecuteFunc func(ctx context.Context, op Operation) (any, error)

// Client reports executions and schemas for one Stellate service. It is
// safe for concurrent use.
type Client struct {
	identity   ServiceIdentity
	baseDomain string
	logger     zerolog.Logger
	dispatcher *delivery.Dispatcher
}

// New creates a Client for identity.
func New(identity ServiceIdentity, opts ...Option) *Client {
	cfg := newConfig(opts...)

	sender := cfg.sender
	if sender == nil {
		sender = cfg.defaultSender()
	}

	return &Client{
		identity:   identity,
		baseDomain: cfg.baseDomain,
		logger:     cfg.logger,
		dispatcher: delivery.NewDispatcher(sender,
			delivery.WithLogger(cfg.logger),
			delivery.WithTracerProvider(cfg.tracerProvider),
			delivery.WithMeterProvider(cfg.meterProvider),
		),
	}
}

// ServiceName returns the Stellate service name.
func (c *Client) ServiceName() string { return c.identity.ServiceName }

// LoggingToken returns the token used for /log.
func (c *Client) LoggingToken() string { return c.identity.LoggingToken }

// SchemaToken returns the token used for /schema.
func (c *Client) SchemaToken() string { return c.identity.SchemaToken }

// LogURL returns the metrics logging endpoint.
func (c *Client) LogURL() string {
	return serviceURL(c.identity.ServiceName, c.baseDomain, "log")
}

// SchemaURL returns the schema sync endpoint.
func (c *Client) SchemaURL() string {
	return serviceURL(c.identity.ServiceName, c.baseDomain, "schema")
}

// ExecuteWithLogging runs exec and reports the execution to Stellate.
//
// The result of exec is returned unchanged. If exec fails its error is
// returned and nothing is reported. Nothing is reported either when the
// request carries Gcdn-Request-Id, when the identity lacks a service name
// or logging token, or when the query is empty; the last three log a
// warning.
//
// Delivery failures are logged and never returned. The only error added
// by reporting wraps ErrEncodePayload, and it comes with the result.
func (c *Client) ExecuteWithLogging(ctx context.Context, req Request, exec ExecuteFunc) (any, error) {
	start := time.Now()
	result, err := exec(ctx, req.Operation)
	elapsed := time.Since(start)
	if err != nil {
		return result, err
	}

	if req.Headers != nil && len(req.Headers.Values(HeaderRequestID)) > 0 {
		return result, nil
	}
	if c.identity.ServiceName == "" {
		c.logger.Warn().Msg(msgLogMissingService)
		return result, nil
	}
	if c.identity.LoggingToken == "" {
		c.logger.Warn().Str("service", c.identity.ServiceName).Msg(msgLogMissingToken)
		return result, nil
	}
	if req.Query == "" {
		c.logger.Warn().Str("service", c.identity.ServiceName).Msg(msgLogMissingQuery)
		return result, nil
	}

	payload, err := BuildPayload(req, result, elapsed)
	if err != nil {
		return result, err
	}

	if _, err := c.dispatcher.Dispatch(ctx, c.logTarget(), payload, req.Deliver); err != nil {
		return result, err
	}

	return result, nil
}

func (c *Client) logTarget() delivery.Target {
	return delivery.Target{
		Name:           "log",
		URL:            c.LogURL(),
		AuthHeader:     HeaderLoggingToken,
		AuthToken:      c.identity.LoggingToken,
		FailureMessage: msgLogFailed,
	}
}

func (c *Client) schemaTarget() delivery.Target {
	return delivery.Target{
		Name:           "schema",
		URL:            c.SchemaURL(),
		AuthHeader:     HeaderSchemaToken,
		AuthToken:      c.identity.SchemaToken,
		FailureMessage: msgSchemaFailed,
	}
}
