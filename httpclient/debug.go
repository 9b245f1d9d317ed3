package httpclient

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// redactedValue replaces secret header values in debug output.
const redactedValue = "***"

// isSecretHeader reports whether a header carries a credential. Stellate
// tokens travel in Stellate-Logging-Token and Stellate-Schema-Token.
func isSecretHeader(name string) bool {
	canonical := http.CanonicalHeaderKey(name)
	return canonical == "Authorization" ||
		(strings.HasPrefix(canonical, "Stellate-") && strings.HasSuffix(canonical, "-Token"))
}

// generateCurlCommand creates a cURL command equivalent for the request,
// with credentials redacted.
//
// Example output:
//
//	curl -X POST 'https://svc.stellate.sh/log' -H 'Content-Type: application/json' -H 'Stellate-Logging-Token: ***' -d '{"operation":"{ foo }"}'
func generateCurlCommand(req *http.Request, body string) string {
	parts := []string{"curl"}

	if req.Method != http.MethodGet {
		parts = append(parts, "-X", req.Method)
	}

	parts = append(parts, fmt.Sprintf("'%s'", req.URL.String()))

	// Headers (sorted for consistent output)
	keys := make([]string, 0, len(req.Header))
	for k := range req.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		for _, v := range req.Header[k] {
			if isSecretHeader(k) {
				v = redactedValue
			}
			parts = append(parts, "-H", fmt.Sprintf("'%s: %s'", k, v))
		}
	}

	if body != "" {
		escaped := strings.ReplaceAll(body, "'", "'\\''")
		parts = append(parts, "-d", fmt.Sprintf("'%s'", escaped))
	}

	return strings.Join(parts, " ")
}

// logRequest logs the request details using zerolog.
func logRequest(logger zerolog.Logger, req *http.Request, body string, curl bool) {
	event := logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Int("body_size", len(body))
	if curl {
		event.Str("curl", generateCurlCommand(req, body))
	}
	event.Msg("collector request")
}

// logResponse logs the response details using zerolog.
func logResponse(logger zerolog.Logger, resp *http.Response, duration time.Duration) {
	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", duration).
		Msg("collector response")
}
