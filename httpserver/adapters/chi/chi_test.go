package chi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	chilib "github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kroma-labs/stellate-go/delivery"
	"github.com/kroma-labs/stellate-go/httpserver"
	chistellate "github.com/kroma-labs/stellate-go/httpserver/adapters/chi"
	"github.com/kroma-labs/stellate-go/stellate"
)

func newRouter(t *testing.T) (*chilib.Mux, *[]delivery.Descriptor) {
	t.Helper()

	var queued []delivery.Descriptor
	client := stellate.New(stellate.ServiceIdentity{ServiceName: "svc", LoggingToken: "tok"},
		stellate.WithSender(delivery.SenderFunc(func(context.Context, delivery.Descriptor) (*delivery.Response, error) {
			t.Error("synchronous send not expected")
			return &delivery.Response{StatusCode: http.StatusOK}, nil
		})))
	h := httpserver.NewGraphQLHandler(client,
		func(context.Context, stellate.Operation) (any, error) {
			return map[string]any{"data": map[string]any{"n": 1}}, nil
		},
		httpserver.WithDeliver(func(_ context.Context, d delivery.Descriptor) error {
			queued = append(queued, d)
			return nil
		}),
	)

	r := chilib.NewRouter()
	r.Use(chistellate.Middlewares(httpserver.RequestID(), httpserver.Recovery(zerolog.Nop()))...)
	chistellate.Register(r, "/graphql", h)
	chistellate.RegisterHealth(r, httpserver.NewHealthHandler("1.0.0"))
	chistellate.RegisterPrometheus(r, "")
	return r, &queued
}

func TestRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		req        func() *http.Request
		wantStatus int
		wantQueued int
		wantMethod string
	}{
		{
			name: "given POST, when handled, then hands descriptor to deliver func",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ n }"}`))
			},
			wantStatus: http.StatusOK,
			wantQueued: 1,
			wantMethod: "POST",
		},
		{
			name: "given GET, when handled, then hands descriptor to deliver func",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/graphql?query="+url.QueryEscape("{ n }"), nil)
			},
			wantStatus: http.StatusOK,
			wantQueued: 1,
			wantMethod: "GET",
		},
		{
			name: "given DELETE, when handled, then router rejects it",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodDelete, "/graphql", nil)
			},
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, queued := newRouter(t)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, tt.req())

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(httpserver.RequestIDHeader))
			require.Len(t, *queued, tt.wantQueued)
			if tt.wantQueued == 0 {
				return
			}

			d := (*queued)[0]
			assert.Equal(t, "https://svc.stellate.sh/log", d.URL)
			assert.Equal(t, "tok", d.Headers[stellate.HeaderLoggingToken])

			var payload map[string]any
			require.NoError(t, json.Unmarshal([]byte(d.Body), &payload))
			assert.Equal(t, tt.wantMethod, payload["method"])
		})
	}
}

func TestRegisterHealth(t *testing.T) {
	t.Parallel()

	t.Run("given router, when probes requested, then answer ok", func(t *testing.T) {
		r, _ := newRouter(t)

		for _, path := range []string{"/livez", "/readyz", "/metrics"} {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code, path)
		}
	})
}
