package stellate

import (
	"net/http"
	"strings"
)

// ClientContext identifies the end user of a GraphQL request. Nil fields
// are absent and encode as JSON null.
type ClientContext struct {
	ID        *string `json:"id"`
	UserAgent *string `json:"userAgent"`
	Referer   *string `json:"referer"`
}

// ExtractClientContext reads the client IP, user agent and referer from
// headers. It returns nil when headers is nil.
//
// The IP is the first X-Forwarded-For entry, falling back to
// True-Client-Ip and then X-Real-Ip. It is not validated.
func ExtractClientContext(headers http.Header) *ClientContext {
	if headers == nil {
		return nil
	}

	var id string
	if forwarded := headers.Get("X-Forwarded-For"); forwarded != "" {
		id, _, _ = strings.Cut(forwarded, ",")
	}
	if id == "" {
		id = headers.Get("True-Client-Ip")
	}
	if id == "" {
		id = headers.Get("X-Real-Ip")
	}

	return &ClientContext{
		ID:        optional(id),
		UserAgent: optional(headers.Get("User-Agent")),
		Referer:   optional(headers.Get("Referer")),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
