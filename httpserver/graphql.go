package httpserver

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/kroma-labs/stellate-go/delivery"
	"github.com/kroma-labs/stellate-go/stellate"
)

// defaultMaxBodyBytes caps the size of a POSTed GraphQL request.
const defaultMaxBodyBytes = 1 << 20

// GraphQLRequest is the GraphQL-over-HTTP request body.
type GraphQLRequest struct {
	Query         string `json:"query"`
	Variables     any    `json:"variables,omitempty"`
	OperationName string `json:"operationName,omitempty"`
}

// Executor is the part of stellate.Client the handler needs.
type Executor interface {
	ExecuteWithLogging(ctx context.Context, req stellate.Request, exec stellate.ExecuteFunc) (any, error)
}

var _ Executor = (*stellate.Client)(nil)

// GraphQLHandler serves GraphQL over HTTP and reports every execution to
// Stellate with the incoming request's headers.
//
//	h := httpserver.NewGraphQLHandler(client, schema.Execute,
//	    httpserver.WithDeliver(pool.Deliver),
//	)
//	mux.Handle("/graphql", h)
type GraphQLHandler struct {
	client       Executor
	execute      stellate.ExecuteFunc
	deliver      delivery.DeliverFunc
	maxBodyBytes int64
	logger       zerolog.Logger
}

// HandlerOption configures a GraphQLHandler.
type HandlerOption func(*GraphQLHandler)

// WithDeliver sets the deferred delivery capability passed with every
// execution. Default: synchronous delivery.
func WithDeliver(fn delivery.DeliverFunc) HandlerOption {
	return func(h *GraphQLHandler) {
		h.deliver = fn
	}
}

// WithMaxBodyBytes caps POST bodies. Default: 1MB.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *GraphQLHandler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// WithHandlerLogger sets the logger for execution errors.
func WithHandlerLogger(l zerolog.Logger) HandlerOption {
	return func(h *GraphQLHandler) {
		h.logger = l
	}
}

// NewGraphQLHandler creates a handler that runs execute through client.
func NewGraphQLHandler(client Executor, execute stellate.ExecuteFunc, opts ...HandlerOption) *GraphQLHandler {
	h := &GraphQLHandler{
		client:       client,
		execute:      execute,
		maxBodyBytes: defaultMaxBodyBytes,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP implements http.Handler. GET reads query, variables and
// operationName from the URL; POST reads a JSON body. A missing query is
// passed on to the executor, which decides how to answer it.
func (h *GraphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gqlReq, status, err := h.decode(w, r)
	if err != nil {
		if status == http.StatusMethodNotAllowed {
			w.Header().Set("Allow", "GET, POST")
		}
		WriteErrors(w, status, err.Error())
		return
	}

	result, err := h.client.ExecuteWithLogging(r.Context(), stellate.Request{
		Operation: stellate.Operation{
			Query:         gqlReq.Query,
			Variables:     gqlReq.Variables,
			Method:        r.Method,
			OperationName: gqlReq.OperationName,
		},
		Headers: r.Header,
		Deliver: h.deliver,
	}, h.execute)

	switch {
	case errors.Is(err, stellate.ErrEncodePayload):
		// Telemetry could not be built; the result is still valid.
		h.logger.Warn().Err(err).Str("request_id", RequestIDFromContext(r.Context())).
			Msg("execution not reported")
	case err != nil:
		h.logger.Error().Err(err).Str("request_id", RequestIDFromContext(r.Context())).
			Msg("execution failed")
		WriteErrors(w, http.StatusInternalServerError, "internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (h *GraphQLHandler) decode(w http.ResponseWriter, r *http.Request) (GraphQLRequest, int, error) {
	var req GraphQLRequest

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if v := q.Get("variables"); v != "" {
			if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
				return req, http.StatusBadRequest, errors.New("variables must be a JSON object")
			}
		}

	case http.MethodPost:
		if ct := r.Header.Get("Content-Type"); ct != "" {
			mediaType, _, err := mime.ParseMediaType(ct)
			if err != nil || (mediaType != "application/json" && mediaType != "application/graphql+json") {
				return req, http.StatusUnsupportedMediaType, errors.New("content type must be application/json")
			}
		}
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return req, http.StatusRequestEntityTooLarge, errors.New("request body too large")
			}
			return req, http.StatusBadRequest, errors.New("cannot read request body")
		}
		if err := json.Unmarshal(body, &req); err != nil {
			return req, http.StatusBadRequest, errors.New("request body must be a JSON object")
		}

	default:
		return req, http.StatusMethodNotAllowed, errors.New("only GET and POST are supported")
	}

	return req, 0, nil
}
