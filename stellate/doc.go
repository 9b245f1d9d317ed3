// Package stellate reports GraphQL executions and schemas to the Stellate
// collector.
//
// A Client wraps the caller's execution function, times it, and delivers a
// telemetry record to https://{service}.stellate.sh/log. Telemetry is a
// side channel: the execution result is always returned unchanged, and
// delivery failures are logged, never returned.
//
//	client := stellate.New(stellate.ServiceIdentity{
//	    ServiceName:  "my-service",
//	    LoggingToken: os.Getenv("STELLATE_LOGGING_TOKEN"),
//	    SchemaToken:  os.Getenv("STELLATE_SCHEMA_TOKEN"),
//	}, stellate.WithLogger(logger))
//
//	result, err := client.ExecuteWithLogging(ctx, stellate.Request{
//	    Operation: stellate.Operation{Query: query, Variables: vars},
//	    Headers:   r.Header,
//	}, schema.Execute)
//
// # Deferred delivery
//
// By default the record is POSTed before ExecuteWithLogging returns. Set
// Request.Deliver to hand the request descriptor to your own job queue
// instead; package queue provides ready-made implementations.
//
// # Schema sync
//
// SyncSchema posts an introspection document to
// https://{service}.stellate.sh/schema using the schema token.
package stellate
