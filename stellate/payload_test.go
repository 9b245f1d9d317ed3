package stellate

import (
	"math"
	"net/http"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kroma-labs/stellate-go/fingerprint"
)

func TestBuildPayload(t *testing.T) {
	t.Parallel()

	req := Request{
		Operation: Operation{
			Query:         "{ foo }",
			Variables:     map[string]any{"a": 1},
			OperationName: "Q1",
		},
	}
	result := map[string]any{"data": map[string]any{"foo": 1}}

	p, err := BuildPayload(req, result, 1500*time.Microsecond)
	require.NoError(t, err)

	assert.Equal(t, "{ foo }", p.Operation)
	assert.Equal(t, uint32(2852813310), p.VariableHash)
	assert.Equal(t, "POST", p.Method)
	assert.Equal(t, int64(2), p.Elapsed)
	assert.Equal(t, len(`{"data":{"foo":1}}`), p.ResponseSize)
	assert.Equal(t, fingerprint.String(`{"data":{"foo":1}}`), p.ResponseHash)
	assert.Equal(t, 200, p.StatusCode)
	require.NotNil(t, p.OperationName)
	assert.Equal(t, "Q1", *p.OperationName)
	assert.Nil(t, p.Errors)
	assert.Nil(t, p.Client)
}

func TestBuildPayload_Fields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     Request
		result  any
		elapsed time.Duration
		check   func(t *testing.T, p Payload)
	}{
		{
			name:   "given nil variables, then hash covers null",
			req:    Request{Operation: Operation{Query: "{ a }"}},
			result: nil,
			check: func(t *testing.T, p Payload) {
				assert.Equal(t, fingerprint.String("null"), p.VariableHash)
				assert.Equal(t, 4, p.ResponseSize)
			},
		},
		{
			name: "given method, then it is kept",
			req:  Request{Operation: Operation{Query: "{ a }", Method: "GET"}},
			check: func(t *testing.T, p Payload) {
				assert.Equal(t, "GET", p.Method)
			},
		},
		{
			name:    "given sub-millisecond elapsed below half, then rounds down",
			req:     Request{Operation: Operation{Query: "{ a }"}},
			elapsed: 400 * time.Microsecond,
			check: func(t *testing.T, p Payload) {
				assert.Equal(t, int64(0), p.Elapsed)
			},
		},
		{
			name:    "given half millisecond, then rounds up",
			req:     Request{Operation: Operation{Query: "{ a }"}},
			elapsed: 2500 * time.Microsecond,
			check: func(t *testing.T, p Payload) {
				assert.Equal(t, int64(3), p.Elapsed)
			},
		},
		{
			name: "given result with errors array, then errors are copied",
			req:  Request{Operation: Operation{Query: "{ a }"}},
			result: map[string]any{
				"data":   nil,
				"errors": []any{map[string]any{"message": "boom"}},
			},
			check: func(t *testing.T, p Payload) {
				assert.JSONEq(t, `[{"message":"boom"}]`, string(p.Errors))
				assert.Equal(t, 43, p.ResponseSize)
				assert.Equal(t, uint32(3264291938), p.ResponseHash)
			},
		},
		{
			name:   "given errors that is not an array, then errors are omitted",
			req:    Request{Operation: Operation{Query: "{ a }"}},
			result: map[string]any{"errors": "nope"},
			check: func(t *testing.T, p Payload) {
				assert.Nil(t, p.Errors)
			},
		},
		{
			name:   "given result that is not an object, then errors are omitted",
			req:    Request{Operation: Operation{Query: "{ a }"}},
			result: []int{1, 2},
			check: func(t *testing.T, p Payload) {
				assert.Nil(t, p.Errors)
				assert.Equal(t, uint32(85544097), p.ResponseHash)
			},
		},
		{
			name: "given html characters, then they are hashed unescaped",
			req: Request{Operation: Operation{
				Query:     "{ a }",
				Variables: map[string]any{"q": "<b>"},
			}},
			check: func(t *testing.T, p Payload) {
				assert.Equal(t, uint32(1936264115), p.VariableHash)
			},
		},
		{
			name: "given headers, then client context is attached",
			req: Request{
				Operation: Operation{Query: "{ a }"},
				Headers:   http.Header{"X-Real-Ip": {"8.8.8.8"}},
			},
			check: func(t *testing.T, p Payload) {
				require.NotNil(t, p.Client)
				assert.Equal(t, ptr("8.8.8.8"), p.Client.ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := BuildPayload(tt.req, tt.result, tt.elapsed)
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

func TestBuildPayload_EncodeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		req    Request
		result any
	}{
		{
			name:   "given unencodable variables, then returns ErrEncodePayload",
			req:    Request{Operation: Operation{Query: "{ a }", Variables: math.Inf(1)}},
			result: nil,
		},
		{
			name:   "given unencodable result, then returns ErrEncodePayload",
			req:    Request{Operation: Operation{Query: "{ a }"}},
			result: make(chan int),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := BuildPayload(tt.req, tt.result, 0)
			require.ErrorIs(t, err, ErrEncodePayload)
		})
	}
}

func TestPayload_MarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("given no headers, then client fields and errors are omitted", func(t *testing.T) {
		t.Parallel()

		p, err := BuildPayload(Request{Operation: Operation{Query: "{ a }"}}, map[string]any{"data": 1}, 0)
		require.NoError(t, err)

		b, err := json.Marshal(p)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(b, &got))
		assert.NotContains(t, got, "id")
		assert.NotContains(t, got, "userAgent")
		assert.NotContains(t, got, "referer")
		assert.NotContains(t, got, "errors")
		assert.Contains(t, got, "operationName")
		assert.Nil(t, got["operationName"])
	})

	t.Run("given headers without values, then client fields are null", func(t *testing.T) {
		t.Parallel()

		p, err := BuildPayload(Request{
			Operation: Operation{Query: "{ a }"},
			Headers:   http.Header{"User-Agent": {"curl/8.0"}},
		}, nil, 0)
		require.NoError(t, err)

		b, err := json.Marshal(p)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Contains(t, got, "id")
		assert.Nil(t, got["id"])
		assert.Equal(t, "curl/8.0", got["userAgent"])
		assert.Contains(t, got, "referer")
		assert.Nil(t, got["referer"])
	})
}
