package gin_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	ginlib "github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kroma-labs/stellate-go/delivery"
	"github.com/kroma-labs/stellate-go/httpserver"
	ginstellate "github.com/kroma-labs/stellate-go/httpserver/adapters/gin"
	"github.com/kroma-labs/stellate-go/stellate"
)

func init() {
	ginlib.SetMode(ginlib.TestMode)
}

type recordingSender struct {
	mu   sync.Mutex
	sent []delivery.Descriptor
}

func (s *recordingSender) Send(_ context.Context, d delivery.Descriptor) (*delivery.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, d)
	return &delivery.Response{StatusCode: http.StatusOK}, nil
}

func newGraphQLHandler() (*httpserver.GraphQLHandler, *recordingSender) {
	sender := &recordingSender{}
	client := stellate.New(stellate.ServiceIdentity{ServiceName: "svc", LoggingToken: "tok"},
		stellate.WithSender(sender))
	h := httpserver.NewGraphQLHandler(client, func(context.Context, stellate.Operation) (any, error) {
		return map[string]any{"data": map[string]any{"hello": "world"}}, nil
	})
	return h, sender
}

func TestWrapMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("given httpserver middleware, when wrapped, then works with Gin", func(t *testing.T) {
		r := ginlib.New()

		middleware := func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("X-Custom", "test-value")
				next.ServeHTTP(w, req)
			})
		}

		r.Use(ginstellate.WrapMiddleware(middleware))
		r.GET("/test", func(c *ginlib.Context) {
			c.String(http.StatusOK, "hello")
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "test-value", rec.Header().Get("X-Custom"))
		assert.Equal(t, "hello", rec.Body.String())
	})
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("given existing request ID, when RequestID applied, then forwards ID", func(t *testing.T) {
		r := ginlib.New()
		r.Use(ginstellate.RequestID())
		r.GET("/test", func(c *ginlib.Context) {
			c.String(http.StatusOK, httpserver.RequestIDFromContext(c.Request.Context()))
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(httpserver.RequestIDHeader, "existing-id-123")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, "existing-id-123", rec.Header().Get(httpserver.RequestIDHeader))
		assert.Equal(t, "existing-id-123", rec.Body.String())
	})
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	t.Run("given handler panics, when Recovery applied, then returns 500", func(t *testing.T) {
		r := ginlib.New()
		r.Use(ginstellate.Recovery(zerolog.Nop()))
		r.GET("/panic", func(*ginlib.Context) {
			panic("test panic")
		})

		rec := httptest.NewRecorder()
		assert.NotPanics(t, func() {
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
		})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{
			name:   "given POST, when GraphQL handler registered, then executes and reports",
			method: http.MethodPost,
			target: "/graphql",
			body:   `{"query":"{ hello }"}`,
		},
		{
			name:   "given GET, when GraphQL handler registered, then executes and reports",
			method: http.MethodGet,
			target: "/graphql?query=%7B+hello+%7D",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, sender := newGraphQLHandler()
			r := ginlib.New()
			ginstellate.Register(r, "/graphql", h)

			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			req.Header.Set("X-Real-Ip", "198.51.100.4")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"data":{"hello":"world"}}`, rec.Body.String())

			require.Len(t, sender.sent, 1)
			var payload map[string]any
			require.NoError(t, json.Unmarshal([]byte(sender.sent[0].Body), &payload))
			assert.Equal(t, tt.method, payload["method"])
			assert.Equal(t, "198.51.100.4", payload["id"])
		})
	}
}

func TestRegisterHealth(t *testing.T) {
	t.Parallel()

	t.Run("given health handler, when registered, then probes respond", func(t *testing.T) {
		r := ginlib.New()
		ginstellate.RegisterHealth(r, httpserver.NewHealthHandler("1.0.0"))

		for _, path := range []string{"/livez", "/readyz"} {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code, path)
			assert.Contains(t, rec.Body.String(), `"status":"ok"`)
		}
	})
}

func TestRegisterPrometheus(t *testing.T) {
	t.Parallel()

	t.Run("given empty path, when registered, then serves /metrics", func(t *testing.T) {
		r := ginlib.New()
		ginstellate.RegisterPrometheus(r, "")

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "go_goroutines")
	})
}
