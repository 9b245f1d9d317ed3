// Package httpserver serves GraphQL over HTTP with Stellate reporting,
// plus the middleware and server plumbing around it.
//
// # GraphQL endpoint
//
// GraphQLHandler decodes GET and POST GraphQL requests and runs them
// through stellate.Client.ExecuteWithLogging, passing the incoming headers
// so the collector sees client IP, user agent and referer:
//
//	client := stellate.New(identity, stellate.WithLogger(logger))
//	gql := httpserver.NewGraphQLHandler(client, schema.Execute)
//
//	mux := http.NewServeMux()
//	mux.Handle("/graphql", gql)
//
//	server := httpserver.New(
//	    httpserver.WithServiceName("graphql-api"),
//	    httpserver.WithTracing(httpserver.TracingConfig{}),
//	    httpserver.WithLogging(httpserver.LoggerConfig{Logger: logger}),
//	    httpserver.WithMiddleware(httpserver.Recovery(logger), httpserver.RequestID()),
//	    httpserver.WithHandler(mux),
//	)
//	err := server.ListenAndServe(ctx)
//
// Requests that already passed through the Stellate edge carry
// Gcdn-Request-Id and are not reported twice.
//
// # Frameworks
//
// The adapters under adapters/ mount the handler and middleware on gin,
// echo, fiber and chi.
//
// # Operations
//
// HealthHandler serves /livez and /readyz; PrometheusHandlerFor serves a
// Prometheus registry. The queue drain command uses both.
package httpserver
