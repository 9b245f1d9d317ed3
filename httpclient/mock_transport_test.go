package httpclient

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockTransport(t *testing.T) {
	t.Parallel()

	t.Run("given path stubs, then first match wins over default", func(t *testing.T) {
		t.Parallel()

		mock := NewMockTransport().
			StubResponse(http.StatusOK, "ok").
			StubPath("/schema", http.StatusBadRequest, "bad schema").
			StubPathError("/broken", errors.New("boom"))

		resp, err := mock.RoundTrip(newPost(t, "https://svc.stellate.sh/schema", "{}"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "bad schema", string(body))

		resp, err = mock.RoundTrip(newPost(t, "https://svc.stellate.sh/log", "{}"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		_, err = mock.RoundTrip(newPost(t, "https://svc.stellate.sh/broken", "{}"))
		require.EqualError(t, err, "boom")

		assert.Equal(t, 3, mock.RequestCount())
	})

	t.Run("given no stub, then returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewMockTransport().RoundTrip(newPost(t, "https://svc.stellate.sh/log", ""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no stub found")
	})

	t.Run("given requests, then records body and headers until reset", func(t *testing.T) {
		t.Parallel()

		mock := NewMockTransport().StubResponse(http.StatusOK, "")
		req := newPost(t, "https://svc.stellate.sh/log", `{"a":1}`)
		req.Header.Set("Stellate-Logging-Token", "tok")

		_, err := mock.RoundTrip(req)
		require.NoError(t, err)

		last, ok := mock.LastRequest()
		require.True(t, ok)
		assert.Equal(t, http.MethodPost, last.Method)
		assert.Equal(t, `{"a":1}`, last.Body)
		assert.Equal(t, "tok", last.Header.Get("Stellate-Logging-Token"))

		mock.Reset()
		assert.Zero(t, mock.RequestCount())
		_, ok = mock.LastRequest()
		assert.False(t, ok)
	})
}

func newPost(t *testing.T, url, body string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	require.NoError(t, err)
	return req
}
