package stellate

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractClientContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		headers       http.Header
		wantNil       bool
		wantID        *string
		wantUserAgent *string
		wantReferer   *string
	}{
		{
			name:    "given nil headers, then returns nil",
			headers: nil,
			wantNil: true,
		},
		{
			name:    "given empty headers, then every field is absent",
			headers: http.Header{},
		},
		{
			name: "given X-Forwarded-For list, then first entry is the id",
			headers: http.Header{
				"X-Forwarded-For": {"1.2.3.4, 5.6.7.8"},
				"True-Client-Ip":  {"9.9.9.9"},
			},
			wantID: ptr("1.2.3.4"),
		},
		{
			name:    "given only True-Client-Ip, then it is the id",
			headers: http.Header{"True-Client-Ip": {"9.9.9.9"}, "X-Real-Ip": {"8.8.8.8"}},
			wantID:  ptr("9.9.9.9"),
		},
		{
			name:    "given only X-Real-Ip, then it is the id",
			headers: http.Header{"X-Real-Ip": {"8.8.8.8"}},
			wantID:  ptr("8.8.8.8"),
		},
		{
			name:    "given value that is not an ip, then it is used unvalidated",
			headers: http.Header{"X-Forwarded-For": {"unknown"}},
			wantID:  ptr("unknown"),
		},
		{
			name: "given user agent and referer, then both are read",
			headers: http.Header{
				"User-Agent": {"curl/8.0"},
				"Referer":    {"https://example.com/"},
			},
			wantUserAgent: ptr("curl/8.0"),
			wantReferer:   ptr("https://example.com/"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ExtractClientContext(tt.headers)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, tt.wantUserAgent, got.UserAgent)
			assert.Equal(t, tt.wantReferer, got.Referer)
		})
	}
}

func TestExtractClientContext_CaseInsensitive(t *testing.T) {
	t.Parallel()

	h := http.Header{}
	h.Set("x-forwarded-for", "1.1.1.1")
	h.Set("referer", "https://example.com/")

	got := ExtractClientContext(h)

	require.NotNil(t, got)
	assert.Equal(t, ptr("1.1.1.1"), got.ID)
	assert.Equal(t, ptr("https://example.com/"), got.Referer)
}

func ptr(s string) *string { return &s }
