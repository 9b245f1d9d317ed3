package fiber_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kroma-labs/stellate-go/delivery"
	"github.com/kroma-labs/stellate-go/httpserver"
	fiberstellate "github.com/kroma-labs/stellate-go/httpserver/adapters/fiber"
	"github.com/kroma-labs/stellate-go/stellate"
)

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

func TestWrapMiddleware(t *testing.T) {
	t.Run("given httpserver middleware, when wrapped, then works with Fiber", func(t *testing.T) {
		app := fiber.New()

		middleware := func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Custom", "test-value")
				next.ServeHTTP(w, r)
			})
		}

		app.Use(fiberstellate.WrapMiddleware(middleware))
		app.Get("/test", func(c *fiber.Ctx) error {
			return c.SendString("hello")
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "test-value", resp.Header.Get("X-Custom"))
	})
}

func TestRequestID(t *testing.T) {
	t.Run("given existing request ID, when RequestID applied, then echoes ID", func(t *testing.T) {
		app := fiber.New()
		app.Use(fiberstellate.RequestID())
		app.Get("/test", func(c *fiber.Ctx) error {
			return c.SendString("ok")
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(httpserver.RequestIDHeader, "existing-id-123")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, "existing-id-123", resp.Header.Get(httpserver.RequestIDHeader))
	})
}

func TestRecovery(t *testing.T) {
	t.Run("given panicking executor, when Register has Recovery, then returns 500", func(t *testing.T) {
		client := stellate.New(stellate.ServiceIdentity{ServiceName: "svc", LoggingToken: "tok"},
			stellate.WithSender(&recordingSender{}))
		h := httpserver.NewGraphQLHandler(client, func(context.Context, stellate.Operation) (any, error) {
			panic("resolver panic")
		})

		app := fiber.New()
		fiberstellate.Register(app, "/graphql", h, httpserver.Recovery(zerolog.Nop()))

		req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ a }"}`))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestRegister(t *testing.T) {
	t.Run("given POST, when GraphQL handler registered, then executes and reports", func(t *testing.T) {
		sender := &recordingSender{}
		client := stellate.New(stellate.ServiceIdentity{ServiceName: "svc", LoggingToken: "tok"},
			stellate.WithSender(sender))
		h := httpserver.NewGraphQLHandler(client, func(_ context.Context, op stellate.Operation) (any, error) {
			return map[string]any{"data": map[string]any{"echo": op.OperationName}}, nil
		})

		app := fiber.New()
		fiberstellate.Register(app, "/graphql", h)

		req := httptest.NewRequest(http.MethodPost, "/graphql",
			strings.NewReader(`{"query":"query Op { echo }","operationName":"Op"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Referer", "https://app.example.com/")
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"data":{"echo":"Op"}}`, string(body))

		sender.mu.Lock()
		defer sender.mu.Unlock()
		require.Len(t, sender.sent, 1)
		var payload map[string]any
		require.NoError(t, json.Unmarshal([]byte(sender.sent[0].Body), &payload))
		assert.Equal(t, "Op", payload["operationName"])
		assert.Equal(t, "https://app.example.com/", payload["referer"])
	})
}

func TestRegisterHealth(t *testing.T) {
	t.Run("given health handler, when registered, then probes respond", func(t *testing.T) {
		app := fiber.New()
		fiberstellate.RegisterHealth(app, httpserver.NewHealthHandler("1.0.0"))

		for _, path := range []string{"/livez", "/readyz"} {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		}
	})
}

func TestRegisterPrometheus(t *testing.T) {
	t.Run("given empty path, when registered, then serves /metrics", func(t *testing.T) {
		app := fiber.New()
		fiberstellate.RegisterPrometheus(app, "")

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
